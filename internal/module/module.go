// Package module defines the lifecycle contract every orchestrated module
// implements. The engine never inspects a module's behavior beyond this
// interface.
package module

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/orchid/internal/args"
	"github.com/vk/orchid/internal/state"
)

// Args carries a module instance's fully resolved argument values.
type Args map[string]cty.Value

// Decode populates dst, a pointer to a struct with orchid-tagged fields,
// from the resolved values.
func (a Args) Decode(dst any) error {
	return args.Decode(dst, a)
}

// Module is the lifecycle contract. SetUp receives the instance's resolved
// arguments and the run's shared state; Process does the work; CleanUp
// releases whatever SetUp or Process acquired. The engine guarantees
// CleanUp runs on every exit path, including SetUp and Process failures.
//
// Process may append artifacts to the shared state under the module's own
// runtime name and must read dependency output only from the dependency's
// runtime name. Modules must not assume any execution order among siblings;
// only the wants partial order is guaranteed.
type Module interface {
	SetUp(ctx context.Context, arguments Args, st *state.State) error
	Process(ctx context.Context) error
	CleanUp(ctx context.Context) error
}

// Factory constructs a fresh module instance bound to its runtime name.
// Each node of a recipe gets its own instance, so one module type can
// appear several times in a run under different names.
type Factory func(runtimeName string) Module
