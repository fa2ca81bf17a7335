package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metagraph-dev/metagraph/internal/render"
)

func newTranslatorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "translators",
		Short: "List registered translators with their costs",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}

			if styledOutput() {
				fmt.Fprintln(cmd.OutOrStdout(), render.Translators(app.registry))
				return nil
			}

			for _, name := range app.registry.TranslatorNames() {
				t, _ := app.registry.Translator(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s (cost %g)\n", name, t.Source, t.Target, t.EdgeCost())
			}
			return nil
		},
	}
}
