package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metagraph-dev/metagraph/internal/render"
	metagrapherrors "github.com/metagraph-dev/metagraph/pkg/errors"
)

func newExplainCmd() *cobra.Command {
	var inputs []string

	cmd := &cobra.Command{
		Use:   "explain <algorithm>",
		Short: "Render the dispatch plan for an algorithm against named input types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}

			name := args[0]
			abstract, ok := app.registry.AbstractAlgorithm(name)
			if !ok {
				return metagrapherrors.NewNoConcreteAlgorithm(name, nil)
			}

			// Build synthetic arguments: typed parameters draw a zero value
			// of the named concrete type via its wrapper-free probe; scalars
			// use their defaults. Inputs are matched to typed parameters in
			// declaration order.
			callArgs, err := syntheticArgs(app, abstract.Name, inputs)
			if err != nil {
				return err
			}

			algo, err := app.resolver.Algo(name)
			if err != nil {
				return err
			}
			plan, err := algo.Plan(callArgs...)
			if err != nil {
				return err
			}

			if styledOutput() {
				fmt.Fprintln(cmd.OutOrStdout(), render.Plan(plan))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), plan.Describe())
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&inputs, "input", nil, "concrete type of each typed argument, in declaration order")
	return cmd
}
