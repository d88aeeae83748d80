// Package dag builds the validated execution graph for a run: one node per
// recipe module, edges from the wants relation, cycle detection before any
// module runs.
package dag

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/orchid/internal/args"
	"github.com/vk/orchid/internal/ctxlog"
	"github.com/vk/orchid/internal/node"
	"github.com/vk/orchid/internal/recipe"
	"github.com/vk/orchid/internal/registry"
)

// Build constructs a complete, validated dependency graph from the recipe's
// module list. Every module is instantiated through the registry with its
// arguments fully resolved against the bound recipe arguments, so all
// structural errors (unknown module type, unknown argument reference,
// unknown dependency, self-reference, cycle) surface here, before any
// module lifecycle call.
func Build(ctx context.Context, specs []recipe.ModuleSpec, reg *registry.Registry, bound map[string]cty.Value) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: starting graph construction.", "module_count", len(specs))

	graph := &Graph{nodes: make(map[string]*node.Node, len(specs))}

	// First pass: instantiate all nodes.
	for _, spec := range specs {
		n, err := Instantiate(spec, reg, bound)
		if err != nil {
			return nil, err
		}
		graph.nodes[spec.RuntimeName] = n
		graph.order = append(graph.order, spec.RuntimeName)
	}
	logger.Debug("Build: node creation complete.", "node_count", graph.Len())

	// Second pass: link the wants edges.
	for _, spec := range specs {
		if err := linkNode(graph, spec); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: node linking complete.")

	// Third pass: seed the unmet-dependency counters.
	for _, n := range graph.nodes {
		n.SetInitialCounters()
	}

	if err := graph.detectCycles(); err != nil {
		return nil, err
	}
	logger.Debug("Build: cycle detection passed.")

	return graph, nil
}

// Instantiate creates a single graph node: registry lookup for the module
// type, placeholder resolution for its raw arguments, and a fresh module
// instance. Preflight construction uses this directly since preflights
// never join the graph.
func Instantiate(spec recipe.ModuleSpec, reg *registry.Registry, bound map[string]cty.Value) (*node.Node, error) {
	factory, err := reg.Lookup(spec.Name)
	if err != nil {
		return nil, fmt.Errorf("module %q: %w", spec.RuntimeName, err)
	}

	resolved, err := args.ResolveMap(spec.Args, bound)
	if err != nil {
		return nil, fmt.Errorf("module %q: %w", spec.RuntimeName, err)
	}

	return node.New(spec.RuntimeName, spec.Name, resolved, factory(spec.RuntimeName)), nil
}

func linkNode(graph *Graph, spec recipe.ModuleSpec) error {
	n := graph.nodes[spec.RuntimeName]
	seen := make(map[string]struct{}, len(spec.Wants))
	for _, want := range spec.Wants {
		if want == spec.RuntimeName {
			return &CycleError{Path: []string{spec.RuntimeName, spec.RuntimeName}}
		}
		if _, dup := seen[want]; dup {
			continue
		}
		seen[want] = struct{}{}

		dep, ok := graph.nodes[want]
		if !ok {
			return &UnknownDependencyError{Module: spec.RuntimeName, Want: want}
		}
		n.Deps = append(n.Deps, dep)
		dep.Dependents = append(dep.Dependents, n)
	}
	return nil
}
