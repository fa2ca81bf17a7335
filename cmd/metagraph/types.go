package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metagraph-dev/metagraph/internal/render"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List registered abstract and concrete types",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}

			if styledOutput() {
				fmt.Fprintln(cmd.OutOrStdout(), render.TypeTree(app.registry))
				return nil
			}

			system := app.registry.System()
			for _, abstract := range system.AbstractNames() {
				concretes := system.ConcreteNamesOf(abstract)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", abstract, strings.Join(concretes, ", "))
			}
			return nil
		},
	}
}
