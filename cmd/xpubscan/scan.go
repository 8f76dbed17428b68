package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/tdex-network/xpubscan/internal/config"
	"github.com/tdex-network/xpubscan/pkg/explorer/esplora"
	"github.com/tdex-network/xpubscan/pkg/hdkey"
	"github.com/tdex-network/xpubscan/pkg/mathutil"
	"github.com/tdex-network/xpubscan/pkg/scanner"
)

var scan = cli.Command{
	Name:  "scan",
	Usage: "scan the transaction history of an extended public key and report the next unused address",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "xpub",
			Usage:    "the extended public key of the account to scan",
			Required: true,
		},
		&cli.UintFlag{
			Name:  "branch",
			Usage: "the branch to scan, 0 for receiving addresses, 1 for change",
		},
		&cli.IntFlag{
			Name:  "start_index",
			Usage: "the address index the scan starts from",
		},
		&cli.IntFlag{
			Name:  "gap_limit",
			Usage: "the number of consecutive unused addresses that concludes the scan. If omitted, the configured default is used",
		},
		&cli.StringFlag{
			Name:  "explorer_url",
			Usage: "the base URL of the Esplora HTTP API to use as ledger source. If omitted, the configured default is used",
		},
		&cli.StringFlag{
			Name:  "network",
			Usage: "the network of the scanned key, one of mainnet, testnet, regtest. If omitted, the configured default is used",
		},
		&cli.StringFlag{
			Name:  "min_amount",
			Usage: "filter out events moving less than the given amount in BTC, ie. 0.0001",
		},
	},
	Action: scanAction,
}

type eventReport struct {
	Address   string `json:"address"`
	TxID      string `json:"txid"`
	Type      string `json:"type"`
	Amount    uint64 `json:"amount"`
	AmountBTC string `json:"amount_btc"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Confirmed bool   `json:"confirmed"`
}

type scanReport struct {
	NextAddress   string        `json:"next_address"`
	NextAddresses []string      `json:"next_addresses"`
	LastUsedIndex int           `json:"last_used_index"`
	Events        []eventReport `json:"events"`
}

func scanAction(ctx *cli.Context) error {
	netParams := config.GetNetwork()
	if network := ctx.String("network"); network != "" {
		net, err := config.NetworkFromName(network)
		if err != nil {
			return err
		}
		netParams = net
	}

	explorerURL := ctx.String("explorer_url")
	if explorerURL == "" {
		explorerURL = config.GetString(config.ExplorerEndpointKey)
	}

	gapLimit := ctx.Int("gap_limit")
	if gapLimit == 0 {
		gapLimit = config.GetInt(config.GapLimitKey)
	}

	var minAmount uint64
	if minAmountBTC := ctx.String("min_amount"); minAmountBTC != "" {
		amount, err := mathutil.BTCStringToSats(minAmountBTC)
		if err != nil {
			return fmt.Errorf("invalid min_amount: %w", err)
		}
		minAmount = amount
	}

	accountKey, err := hdkey.NewAccountKey(hdkey.NewAccountKeyOpts{
		ExtendedPublicKey: ctx.String("xpub"),
		Network:           netParams,
	})
	if err != nil {
		return err
	}

	explorerSvc, err := esplora.NewService(
		explorerURL, config.GetDuration(config.ExplorerRequestTimeoutKey),
	)
	if err != nil {
		return err
	}

	scannerSvc, err := scanner.NewService(scanner.NewServiceOpts{
		ExplorerSvc: explorerSvc,
		MaxRetries:  config.GetInt(config.ExplorerMaxRetriesKey),
		WindowSize:  config.GetInt(config.ScanWindowSizeKey),
	})
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	res, err := scannerSvc.Scan(sigCtx, scanner.ScanOpts{
		Provider:   accountKey,
		Branch:     hdkey.Branch(ctx.Uint("branch")),
		StartIndex: ctx.Int("start_index"),
		GapLimit:   gapLimit,
	})
	if err != nil {
		return err
	}

	printJSON(newScanReport(res, minAmount))
	return nil
}

func newScanReport(res *scanner.ScanResult, minAmount uint64) scanReport {
	events := make([]eventReport, 0, len(res.Events))
	for _, e := range res.Events {
		if e.Amount < minAmount {
			continue
		}
		events = append(events, eventReport{
			Address:   e.Address,
			TxID:      e.TxID,
			Type:      e.Type.String(),
			Amount:    e.Amount,
			AmountBTC: mathutil.SatsToBTCString(e.Amount),
			Timestamp: e.Timestamp,
			Confirmed: e.Confirmed,
		})
	}
	return scanReport{
		NextAddress:   res.NextAddress,
		NextAddresses: res.NextAddresses,
		LastUsedIndex: res.LastUsedIndex,
		Events:        events,
	}
}

func printJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println("unable to format response")
		return
	}
	fmt.Println(string(out))
}
