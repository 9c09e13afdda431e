package main

import "github.com/urfave/cli/v2"

var (
	remoteFlag = &cli.BoolFlag{
		Name:  "remote",
		Usage: "Send the request to a running studio server instead of the chain",
	}
	quantityFlag = &cli.IntFlag{
		Name:    "quantity",
		Aliases: []string{"n"},
		Usage:   "Number of tokens to mint, between 1 and 100",
		Value:   1,
	}
)

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "mintstudio"
	s.app.Usage = "Mint NFTs against a deployed collection"
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startServe,
			Name:        "serve",
			Usage:       "Start the studio rpc server",
			Category:    "Server",
			Description: `Serves the three studio forms over JSON-RPC and exposes prometheus metrics.`,
		},
		{
			Action:      s.mint,
			Name:        "mint",
			Usage:       "Mint one token",
			ArgsUsage:   "<tokenURI>",
			Flags:       []cli.Flag{remoteFlag},
			Category:    "Studio",
			Description: `Mints a single token with the given metadata URI and waits for its receipt.`,
		},
		{
			Action:      s.batchMint,
			Name:        "batch-mint",
			Usage:       "Mint several tokens sharing one URI",
			ArgsUsage:   "<tokenURI>",
			Flags:       []cli.Flag{remoteFlag, quantityFlag},
			Category:    "Studio",
			Description: `Mints --quantity tokens with the same metadata URI in one transaction.`,
		},
		{
			Action:      s.setBaseURI,
			Name:        "set-base-uri",
			Usage:       "Update the base URI of the collection",
			ArgsUsage:   "<baseURI>",
			Flags:       []cli.Flag{remoteFlag},
			Category:    "Admin",
			Description: `Only the configured contract owner can update the base URI.`,
		},
		{
			Action:      s.toggleTheme,
			Name:        "theme",
			Usage:       "Toggle between the light and dark theme",
			Flags:       []cli.Flag{remoteFlag},
			Category:    "Studio",
			Description: `The preference is saved and used by the next runs.`,
		},
	}
}
