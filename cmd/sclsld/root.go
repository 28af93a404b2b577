package main

import (
	"os"

	"github.com/spf13/cobra"

	"sclsld/pkg/config"
)

var configFlag string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sclsld",
		Short:         "IEC 61850 SCL ingestion and single-line-diagram synthesis",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to engine config file (env: SCLSLD_CONFIG)")

	rootCmd.AddCommand(newLoadCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func loadConfig() (*config.Config, error) {
	manager := config.NewManager()
	path := configFlag
	if path == "" {
		path = os.Getenv("SCLSLD_CONFIG")
	}
	return manager.LoadConfig(path)
}
