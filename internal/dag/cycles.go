package dag

import "github.com/vk/orchid/internal/node"

// detectCycles runs a depth-first search with three-color marking over the
// dependent edges. On finding a back edge it reports the full node sequence
// of the cycle, entry node repeated at the end.
func (g *Graph) detectCycles() error {
	done := make(map[string]bool, len(g.nodes))
	inProgress := make(map[string]bool, len(g.nodes))
	var stack []string

	var visit func(n *node.Node) error
	visit = func(n *node.Node) error {
		name := n.RuntimeName
		if done[name] {
			return nil
		}
		if inProgress[name] {
			return &CycleError{Path: cyclePath(stack, name)}
		}

		inProgress[name] = true
		stack = append(stack, name)

		for _, dependent := range n.Dependents {
			if err := visit(dependent); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		delete(inProgress, name)
		done[name] = true
		return nil
	}

	// Walk in declaration order so cycle reports are deterministic.
	for _, name := range g.order {
		if !done[name] {
			if err := visit(g.nodes[name]); err != nil {
				return err
			}
		}
	}
	return nil
}

// cyclePath trims the DFS stack to the segment belonging to the cycle and
// closes the loop by repeating the entry node.
func cyclePath(stack []string, entry string) []string {
	start := 0
	for i, name := range stack {
		if name == entry {
			start = i
			break
		}
	}
	path := make([]string, 0, len(stack)-start+1)
	path = append(path, stack[start:]...)
	path = append(path, entry)
	return path
}
