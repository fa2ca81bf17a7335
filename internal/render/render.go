// Package render styles resolver output for terminal display.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/metagraph-dev/metagraph/internal/engine"
	"github.com/metagraph-dev/metagraph/internal/registry"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	arrowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	costStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// Plan renders a dispatch plan as a styled tree.
func Plan(p *engine.Plan) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Algorithm))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "├─ implementation: %s\n", p.Implementation)

	for _, arg := range p.Args {
		fmt.Fprintf(&b, "├─ %s: %s", arg.Param, arg.Source)
		for i, step := range arg.Steps {
			b.WriteString(arrowStyle.Render(" → "))
			b.WriteString(dimStyle.Render("(" + step + ")"))
			b.WriteString(arrowStyle.Render(" → "))
			b.WriteString(arg.Path[i+1])
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "├─ total cost: %s\n", costStyle.Render(fmt.Sprintf("%g", p.TotalCost)))
	returns := p.Returns
	if returns == "" {
		returns = "scalar"
	}
	fmt.Fprintf(&b, "└─ returns: %s", returns)
	return b.String()
}

// Chain renders a translation chain on one line.
func Chain(c *engine.TranslationChain) string {
	var b strings.Builder
	path := c.Path()
	b.WriteString(path[0])
	for i, step := range c.StepNames() {
		b.WriteString(arrowStyle.Render(" → "))
		b.WriteString(dimStyle.Render("(" + step + ")"))
		b.WriteString(arrowStyle.Render(" → "))
		b.WriteString(path[i+1])
	}
	fmt.Fprintf(&b, "  %s", costStyle.Render(fmt.Sprintf("cost %g", c.Cost)))
	return b.String()
}

// TypeTree renders the abstract type hierarchy with concrete types nested
// beneath their categories.
func TypeTree(reg *registry.Registry) string {
	var b strings.Builder
	system := reg.System()
	abstracts := system.AbstractNames()

	for i, abstract := range abstracts {
		b.WriteString(headerStyle.Render(abstract))
		at, _ := system.Abstract(abstract)
		if len(at.Properties) > 0 {
			var props []string
			for _, spec := range at.Properties {
				props = append(props, fmt.Sprintf("%s∈{%s}", spec.Name, strings.Join(spec.Allowed, ",")))
			}
			b.WriteString(dimStyle.Render("  " + strings.Join(props, " ")))
		}
		b.WriteByte('\n')

		concretes := system.ConcreteNamesOf(abstract)
		for j, concrete := range concretes {
			branch := "├─ "
			if j == len(concretes)-1 {
				branch = "└─ "
			}
			fmt.Fprintf(&b, "%s%s\n", branch, concrete)
		}
		if i < len(abstracts)-1 {
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Algorithms renders the abstract algorithm index with implementation counts.
func Algorithms(reg *registry.Registry) string {
	var b strings.Builder
	names := reg.AlgorithmNames()
	for i, name := range names {
		impls := reg.Implementations(name)
		b.WriteString(titleStyle.Render(name))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  (%d implementations)", len(impls))))
		b.WriteByte('\n')
		for j, impl := range impls {
			branch := "├─ "
			if j == len(impls)-1 {
				branch = "└─ "
			}
			fmt.Fprintf(&b, "%s%s\n", branch, impl.Name)
		}
		if i < len(names)-1 {
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Translators renders the translator multigraph as edges with costs.
func Translators(reg *registry.Registry) string {
	var b strings.Builder
	for _, name := range reg.TranslatorNames() {
		t, _ := reg.Translator(name)
		fmt.Fprintf(&b, "%s%s%s  %s  %s\n",
			t.Source,
			arrowStyle.Render(" → "),
			t.Target,
			dimStyle.Render(name),
			costStyle.Render(fmt.Sprintf("cost %g", t.EdgeCost())))
	}
	return strings.TrimRight(b.String(), "\n")
}
