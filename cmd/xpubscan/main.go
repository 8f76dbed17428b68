package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/tdex-network/xpubscan/internal/config"
)

func main() {
	if err := config.InitConfig(); err != nil {
		fatal(err)
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "xpubscan CLI"
	app.Usage = "Command line interface for scanning the address space of an extended public key"
	app.Commands = append(
		app.Commands,
		&scan,
		&derive,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[xpubscan] %v\n", err)
	os.Exit(1)
}
