package dag

import "github.com/vk/orchid/internal/node"

// Graph is the validated, acyclic execution graph for one run. Nodes are
// keyed by runtime name; declaration order is preserved for deterministic
// reporting.
type Graph struct {
	nodes map[string]*node.Node
	order []string
}

// Node returns the node with the given runtime name.
func (g *Graph) Node(runtimeName string) (*node.Node, bool) {
	n, ok := g.nodes[runtimeName]
	return n, ok
}

// Nodes returns all nodes in recipe declaration order.
func (g *Graph) Nodes() []*node.Node {
	out := make([]*node.Node, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.nodes[name])
	}
	return out
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}
