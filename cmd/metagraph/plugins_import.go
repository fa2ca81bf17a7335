package main

import (
	"github.com/metagraph-dev/metagraph/internal/plugin"
	adjacencyplugin "github.com/metagraph-dev/metagraph/internal/plugins/adjacency"
	builtinplugin "github.com/metagraph-dev/metagraph/internal/plugins/builtin"
	csrplugin "github.com/metagraph-dev/metagraph/internal/plugins/csr"
	edgelistplugin "github.com/metagraph-dev/metagraph/internal/plugins/edgelist"
)

// defaultProvider combines the builtin backend plugins shipped with the CLI.
func defaultProvider() plugin.EntryProvider {
	return plugin.Providers(
		builtinplugin.Provider(),
		edgelistplugin.Provider(),
		adjacencyplugin.Provider(),
		csrplugin.Provider(),
	)
}
