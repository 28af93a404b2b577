package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sclsld/pkg/engine"
)

func newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <path>",
		Short: "Load an SCL file and report its diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			session := engine.NewSession(cfg, nil)
			if err := session.Load(args[0]); err != nil {
				return err
			}

			diagnostics := session.Diagnostics()
			fmt.Printf("loaded %s: %d diagnostics\n", args[0], len(diagnostics))
			for _, d := range diagnostics {
				fmt.Printf("  [%s] %s: %s\n", d.Code, d.Location, d.Message)
			}
			return nil
		},
	}
}
