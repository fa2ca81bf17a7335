package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/metagraph-dev/metagraph/internal/config"
	"github.com/metagraph-dev/metagraph/internal/logger"
	"github.com/metagraph-dev/metagraph/internal/registry"
	"github.com/metagraph-dev/metagraph/internal/resolver"
)

type appContext struct {
	cfg      *config.Config
	log      *logger.Logger
	registry *registry.Registry
	resolver *resolver.Resolver
}

var rootFlags struct {
	configPath string
	logLevel   string
	plain      bool
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metagraph",
		Short: "Inspect and plan graph analytics dispatch across backends",
		Long: "metagraph resolves abstract graph algorithms against concrete backend\n" +
			"representations, planning least-cost translation chains between them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rootFlags.configPath, "config", "", "path to a resolver configuration file")
	cmd.PersistentFlags().StringVar(&rootFlags.logLevel, "log-level", "", "override the configured log level")
	cmd.PersistentFlags().BoolVar(&rootFlags.plain, "plain", false, "disable styled output")

	cmd.AddCommand(
		newTypesCmd(),
		newAlgosCmd(),
		newTranslatorsCmd(),
		newPathsCmd(),
		newExplainCmd(),
		newVersionCmd(),
	)

	return cmd
}

func loadApp() (*appContext, error) {
	cfg := config.Default()
	if rootFlags.configPath != "" {
		parsed, err := config.ParseConfig(rootFlags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = parsed
	}

	level := cfg.Settings.LogLevel
	if rootFlags.logLevel != "" {
		level = rootFlags.logLevel
	}

	log, err := logger.New(logger.Options{
		Level:         level,
		HumanReadable: cfg.Settings.LogFormat == "console",
		Component:     "cli",
	})
	if err != nil {
		return nil, err
	}

	reg := registry.New(log)
	if err := reg.Register(defaultProvider()); err != nil {
		return nil, err
	}
	if err := reg.Finalize(); err != nil {
		return nil, err
	}

	res, err := resolver.New(reg, cfg, log)
	if err != nil {
		return nil, err
	}

	return &appContext{cfg: cfg, log: log, registry: reg, resolver: res}, nil
}

// styledOutput reports whether output should carry terminal styling.
func styledOutput() bool {
	if rootFlags.plain {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
