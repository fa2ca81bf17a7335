package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metagraph-dev/metagraph/internal/render"
)

func newAlgosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algos",
		Short: "List abstract algorithms and their implementations",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}

			if styledOutput() {
				fmt.Fprintln(cmd.OutOrStdout(), render.Algorithms(app.registry))
				return nil
			}

			for _, name := range app.registry.AlgorithmNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
				for _, impl := range app.registry.Implementations(name) {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", impl.Name)
				}
			}
			return nil
		},
	}
}
