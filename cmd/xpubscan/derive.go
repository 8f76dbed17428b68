package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/tdex-network/xpubscan/internal/config"
	"github.com/tdex-network/xpubscan/pkg/hdkey"
)

var derive = cli.Command{
	Name:  "derive",
	Usage: "derive a range of addresses offline, without querying any ledger source",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "xpub",
			Usage:    "the extended public key to derive addresses from",
			Required: true,
		},
		&cli.UintFlag{
			Name:  "branch",
			Usage: "the branch to derive, 0 for receiving addresses, 1 for change",
		},
		&cli.IntFlag{
			Name:  "start_index",
			Usage: "the address index to start from",
		},
		&cli.IntFlag{
			Name:  "count",
			Usage: "the number of addresses to derive",
			Value: 20,
		},
		&cli.StringFlag{
			Name:  "network",
			Usage: "the network of the key, one of mainnet, testnet, regtest. If omitted, the configured default is used",
		},
	},
	Action: deriveAction,
}

type addressReport struct {
	Index   int    `json:"index"`
	Address string `json:"address"`
}

func deriveAction(ctx *cli.Context) error {
	netParams := config.GetNetwork()
	if network := ctx.String("network"); network != "" {
		net, err := config.NetworkFromName(network)
		if err != nil {
			return err
		}
		netParams = net
	}

	accountKey, err := hdkey.NewAccountKey(hdkey.NewAccountKeyOpts{
		ExtendedPublicKey: ctx.String("xpub"),
		Network:           netParams,
	})
	if err != nil {
		return err
	}

	branch := hdkey.Branch(ctx.Uint("branch"))
	startIndex := ctx.Int("start_index")
	count := ctx.Int("count")
	if startIndex < 0 {
		return fmt.Errorf("start_index must not be negative")
	}
	if count < 1 {
		return fmt.Errorf("count must be a positive integer")
	}

	addresses := make([]addressReport, 0, count)
	for i := 0; i < count; i++ {
		index := startIndex + i
		addr, err := accountKey.DeriveAddress(branch, uint32(index))
		if err != nil {
			return err
		}
		addresses = append(addresses, addressReport{
			Index:   index,
			Address: addr,
		})
	}

	printJSON(addresses)
	return nil
}
