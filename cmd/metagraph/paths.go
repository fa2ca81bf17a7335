package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metagraph-dev/metagraph/internal/engine"
	"github.com/metagraph-dev/metagraph/internal/render"
	"github.com/metagraph-dev/metagraph/internal/types"
	metagrapherrors "github.com/metagraph-dev/metagraph/pkg/errors"
)

func newPathsCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Show the least-cost translation chain between two concrete types",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}

			system := app.registry.System()
			source, ok := system.Concrete(from)
			if !ok {
				return metagrapherrors.NewNoMatchingTypeError(from)
			}
			target, ok := system.Concrete(to)
			if !ok {
				return metagrapherrors.NewNoMatchingTypeError(to)
			}

			props := types.Properties{}
			if at, ok := system.Abstract(source.Abstract); ok {
				props = at.Defaults()
			}

			chain, err := engine.PlanTranslation(app.registry, source,
				types.Spec(target.Abstract, target.Name, nil), props)
			if err != nil {
				return err
			}

			if styledOutput() {
				fmt.Fprintln(cmd.OutOrStdout(), render.Chain(chain))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v (cost %g)\n", chain.Path(), chain.Cost)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source concrete type")
	cmd.Flags().StringVar(&to, "to", "", "target concrete type")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
