package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "tradle",
		Short: "Daily stock-trading challenge generator",
		Long: `Tradle builds one trading challenge per day from historical prices,
simulates the par trader against it, seeds a bot leaderboard and
announces it on Telegram.

Examples:
  tradle serve
  tradle generate --date 2025-06-15
  tradle show --day 12
  tradle bots --day 12
  tradle catalog`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default $CONFIG_PATH or configs/config.yaml)")

	root.AddCommand(newServeCommand())
	root.AddCommand(newGenerateCommand())
	root.AddCommand(newShowCommand())
	root.AddCommand(newBotsCommand())
	root.AddCommand(newCatalogCommand())
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
