package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sclsld/pkg/engine"
)

func newPlanCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "plan <path>",
		Short: "Load an SCL file, synthesize its SLD plan, and print it",
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
			if err := session.Build(); err != nil {
				return err
			}

			switch format {
			case "json":
				fmt.Println(session.PlanJSON())
			case "dot":
				p, err := session.Plan()
				if err != nil {
					return err
				}
				fmt.Println(renderDOT(p))
			default:
				return fmt.Errorf("unknown --format %q (want json or dot)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or dot")
	return cmd
}
