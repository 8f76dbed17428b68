package scanner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"github.com/tdex-network/xpubscan/pkg/circuitbreaker"
	"github.com/tdex-network/xpubscan/pkg/explorer"
	"github.com/tdex-network/xpubscan/pkg/hdkey"
)

// AddressProvider derives the receiving address at a position of one of
// the account's branches. hdkey.AccountKey is the production
// implementation; tests plug in doubles.
type AddressProvider interface {
	DeriveAddress(branch hdkey.Branch, index uint32) (string, error)
}

// NewServiceOpts is the struct given to the NewService factory.
type NewServiceOpts struct {
	ExplorerSvc explorer.Service
	// MaxRetries is the number of additional attempts granted to a
	// failing ledger query before the scan aborts. Zero means a single
	// attempt per address.
	MaxRetries int
	// WindowSize is the number of ledger queries kept in flight
	// concurrently. Zero or one selects the sequential path.
	WindowSize int
}

func (o NewServiceOpts) validate() error {
	if o.ExplorerSvc == nil {
		return ErrNullExplorerSvc
	}
	if o.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}
	if o.WindowSize < 0 {
		return ErrInvalidWindowSize
	}
	return nil
}

// Service walks the address sequence of an account branch, queries the
// ledger source per address and reconciles the results into directional
// transaction events, stopping once a run of gapLimit consecutive
// never-used addresses has been observed.
type Service struct {
	explorerSvc explorer.Service
	cb          *gobreaker.CircuitBreaker
	maxRetries  int
	windowSize  int
}

// NewService returns a new scanner Service.
func NewService(opts NewServiceOpts) (*Service, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	windowSize := opts.WindowSize
	if windowSize < 1 {
		windowSize = 1
	}

	return &Service{
		explorerSvc: opts.ExplorerSvc,
		cb:          circuitbreaker.NewCircuitBreaker("explorer"),
		maxRetries:  opts.MaxRetries,
		windowSize:  windowSize,
	}, nil
}

// ScanOpts is the struct given to the Scan method.
type ScanOpts struct {
	Provider   AddressProvider
	Branch     hdkey.Branch
	StartIndex int
	GapLimit   int
}

func (o ScanOpts) validate() error {
	if o.Provider == nil {
		return ErrNullAddressProvider
	}
	if o.Branch != hdkey.External && o.Branch != hdkey.Internal {
		return hdkey.ErrInvalidBranch
	}
	if o.StartIndex < 0 {
		return ErrInvalidStartIndex
	}
	if o.GapLimit < 1 {
		return ErrInvalidGapLimit
	}
	return nil
}

// ScanResult is the outcome of a completed scan.
type ScanResult struct {
	// NextAddress is the first never-used address after the last used
	// index.
	NextAddress string
	// NextAddresses is the whole window of GapLimit never-used
	// addresses following the last used index, NextAddress included.
	NextAddresses []string
	// LastUsedIndex is the highest index with at least one ledger
	// entry, or StartIndex-1 if no used address was found.
	LastUsedIndex int
	// Events is the reconciled transaction history across all visited
	// addresses, sorted by confirmation time with unconfirmed events
	// last.
	Events []TransactionEvent
}

type scanState struct {
	index             int
	consecutiveUnused int
	lastUsedIndex     int
	events            []TransactionEvent
}

type fetchResult struct {
	index   int
	address string
	txs     []explorer.Transaction
	err     error
}

// Scan walks the branch address sequence starting at StartIndex until
// GapLimit consecutive addresses without ledger entries have been
// visited. Parameter validation happens before any network activity.
// The scan stops between iterations if ctx is cancelled, returning
// ErrScanCancelled rather than partial results.
func (s *Service) Scan(ctx context.Context, opts ScanOpts) (*ScanResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	scanID := uuid.NewString()
	logger := log.WithFields(log.Fields{
		"scan_id":     scanID,
		"branch":      opts.Branch.String(),
		"start_index": opts.StartIndex,
		"gap_limit":   opts.GapLimit,
	})
	logger.Debug("scan started")

	state := &scanState{
		index:         opts.StartIndex,
		lastUsedIndex: opts.StartIndex - 1,
	}
	// visited addresses, aligned so that addresses[i] belongs to index
	// opts.StartIndex + i
	addresses := make([]string, 0, opts.GapLimit)

	for state.consecutiveUnused < opts.GapLimit {
		select {
		case <-ctx.Done():
			logger.Debug("scan cancelled")
			return nil, fmt.Errorf("%w: %v", ErrScanCancelled, ctx.Err())
		default:
		}

		// Capping the window at the residual gap guarantees the
		// windowed path visits exactly the addresses the sequential
		// one would: the gap limit can only be reached on the last
		// element of the window.
		window := opts.GapLimit - state.consecutiveUnused
		if window > s.windowSize {
			window = s.windowSize
		}

		results := s.fetchWindow(
			ctx, opts.Provider, opts.Branch, state.index, window,
		)
		for _, res := range results {
			if res.err != nil {
				if ctx.Err() != nil {
					logger.Debug("scan cancelled")
					return nil, fmt.Errorf("%w: %v", ErrScanCancelled, ctx.Err())
				}
				return nil, res.err
			}
			addresses = append(addresses, res.address)
			if len(res.txs) == 0 {
				state.consecutiveUnused++
			} else {
				state.consecutiveUnused = 0
				state.lastUsedIndex = res.index
				for _, t := range res.txs {
					state.events = append(
						state.events, ClassifyTransaction(res.address, t)...,
					)
				}
			}
			state.index++
		}
	}

	sortEvents(state.events)

	nextAddresses := make([]string, 0, opts.GapLimit)
	firstUnused := state.lastUsedIndex + 1 - opts.StartIndex
	for i := 0; i < opts.GapLimit; i++ {
		nextAddresses = append(nextAddresses, addresses[firstUnused+i])
	}

	logger.WithFields(log.Fields{
		"visited_addresses": len(addresses),
		"last_used_index":   state.lastUsedIndex,
		"events":            len(state.events),
	}).Debug("scan completed")

	return &ScanResult{
		NextAddress:   nextAddresses[0],
		NextAddresses: nextAddresses,
		LastUsedIndex: state.lastUsedIndex,
		Events:        state.events,
	}, nil
}

// fetchWindow derives and queries the addresses at indices
// start..start+size-1, up to size requests in flight at once. The
// returned slice is ordered by index; callers fold it in order so that
// a failure at index i is surfaced before the scan advances past i.
func (s *Service) fetchWindow(
	ctx context.Context,
	provider AddressProvider, branch hdkey.Branch, start, size int,
) []fetchResult {
	results := make([]fetchResult, size)

	// Goroutines record their outcome in the index-aligned slice and
	// never return an error: ordering decisions belong to the caller.
	g := &errgroup.Group{}
	for i := 0; i < size; i++ {
		i := i
		index := start + i
		g.Go(func() error {
			addr, err := provider.DeriveAddress(branch, uint32(index))
			if err != nil {
				results[i] = fetchResult{index: index, err: err}
				return nil
			}
			txs, err := s.fetchEntries(ctx, addr)
			if err != nil {
				results[i] = fetchResult{
					index:   index,
					address: addr,
					err: &LedgerQueryError{
						Address: addr, Index: uint32(index), Err: err,
					},
				}
				return nil
			}
			results[i] = fetchResult{index: index, address: addr, txs: txs}
			return nil
		})
	}
	// no goroutine returns an error, errors live in the results
	_ = g.Wait()

	return results
}

// fetchEntries queries the ledger source for one address through the
// circuit breaker, retrying up to the configured budget.
func (s *Service) fetchEntries(
	ctx context.Context, addr string,
) ([]explorer.Transaction, error) {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		iTxs, err := s.cb.Execute(func() (interface{}, error) {
			return s.explorerSvc.GetTransactionsForAddress(ctx, addr)
		})
		if err == nil {
			txs, _ := iTxs.([]explorer.Transaction)
			return txs, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if attempt < s.maxRetries {
			log.WithError(err).Debugf(
				"retrying ledger query for address %s (%d/%d)",
				addr, attempt+1, s.maxRetries,
			)
		}
	}
	return nil, lastErr
}
