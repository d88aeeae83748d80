package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vk/orchid/internal/args"
	"github.com/vk/orchid/internal/dag"
	"github.com/vk/orchid/internal/node"
)

// formatExecutionPlan renders the modules about to run and their fully
// resolved arguments, preflights first, with argument names aligned across
// the whole plan.
func formatExecutionPlan(preflights []*node.Node, graph *dag.Graph) string {
	nodes := append(append([]*node.Node{}, preflights...), graph.Nodes()...)

	maxlen := 0
	for _, n := range nodes {
		for name := range n.Args {
			if len(name) > maxlen {
				maxlen = len(name)
			}
		}
	}

	var b strings.Builder
	for _, n := range nodes {
		if n.RuntimeName != n.TypeName {
			fmt.Fprintf(&b, "%s (%s):\n", n.RuntimeName, n.TypeName)
		} else {
			fmt.Fprintf(&b, "%s:\n", n.RuntimeName)
		}

		if len(n.Args) == 0 {
			b.WriteString("  *No params*\n")
			continue
		}

		names := make([]string, 0, len(n.Args))
		for name := range n.Args {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			native, err := args.FromCty(n.Args[name])
			if err != nil {
				native = n.Args[name].GoString()
			}
			fmt.Fprintf(&b, "  %-*s %#v\n", maxlen+3, name, native)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
