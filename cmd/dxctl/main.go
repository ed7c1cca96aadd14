package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/suPer8Hu/dxcases/internal/config"
)

var logLevel = "info"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dxctl",
	Short: "Operator tool for the DX failure case service",
	Long: `dxctl manages the case database directly: schema setup, admin
password hashes, and listing or removing published cases.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.SetupLogging(logLevel)
	},
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(
		NewMigrateCommand(),
		NewHashPasswordCommand(),
		NewCasesCommand(),
		NewTagsCommand(),
	)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level (trace,debug,info,warn,error) (default info)")

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Fatal("could not execute root command")
	}
}
