package scanner

import (
	"errors"
	"fmt"
)

var (
	// ErrNullExplorerSvc ...
	ErrNullExplorerSvc = errors.New("explorer service must not be null")
	// ErrNullAddressProvider ...
	ErrNullAddressProvider = errors.New("address provider must not be null")
	// ErrInvalidStartIndex ...
	ErrInvalidStartIndex = errors.New("start index must not be negative")
	// ErrInvalidGapLimit ...
	ErrInvalidGapLimit = errors.New("gap limit must be a positive integer")
	// ErrInvalidMaxRetries ...
	ErrInvalidMaxRetries = errors.New("max retries must not be negative")
	// ErrInvalidWindowSize ...
	ErrInvalidWindowSize = errors.New("window size must not be negative")
	// ErrScanCancelled ...
	ErrScanCancelled = errors.New("scan cancelled before completion")
)

// LedgerQueryError is returned when fetching the transaction history of
// an address keeps failing after the retry budget is exhausted. It is
// deliberately distinct from an address with no history: a transient
// fetch failure must never count towards the gap limit.
type LedgerQueryError struct {
	Address string
	Index   uint32
	Err     error
}

func (e *LedgerQueryError) Error() string {
	return fmt.Sprintf(
		"ledger query failed for address %s at index %d: %v",
		e.Address, e.Index, e.Err,
	)
}

func (e *LedgerQueryError) Unwrap() error {
	return e.Err
}
