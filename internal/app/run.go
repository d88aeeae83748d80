package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/orchid/internal/args"
	"github.com/vk/orchid/internal/ctxlog"
	"github.com/vk/orchid/internal/dag"
	"github.com/vk/orchid/internal/executor"
	"github.com/vk/orchid/internal/node"
	"github.com/vk/orchid/internal/state"
)

// Run executes the loaded recipe end to end: bind arguments, build the
// graph, run it, report. Structural errors (missing argument, unknown
// reference, unknown dependency, cycle) return before any module lifecycle
// call; execution-time failures are folded into the report instead.
func (a *App) Run(ctx context.Context) (*executor.Report, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	provided := make(map[string]cty.Value, len(a.config.Arguments))
	for name, value := range a.config.Arguments {
		provided[name] = cty.StringVal(value)
	}

	bound, err := args.Bind(a.recipe, provided)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Recipe arguments bound.", "count", len(bound))

	preflights := make([]*node.Node, 0, len(a.recipe.Preflights))
	for _, spec := range a.recipe.Preflights {
		n, err := dag.Instantiate(spec, a.registry, bound)
		if err != nil {
			return nil, err
		}
		preflights = append(preflights, n)
	}

	graph, err := dag.Build(ctx, a.recipe.Modules, a.registry, bound)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependency graph: %w", err)
	}
	a.logger.Debug("Dependency graph built.", "node_count", graph.Len())

	plan := formatExecutionPlan(preflights, graph)
	for _, line := range strings.Split(plan, "\n") {
		a.logger.Debug(line)
	}
	if a.config.PlanOnly {
		fmt.Fprintln(a.outW, plan)
		return nil, nil
	}

	st := state.New()
	st.SetMetadata("recipe", a.recipe.Name)
	a.logger.Info("Starting run.", "recipe", a.recipe.Name, "run_id", st.RunID())

	exec := executor.New(graph, preflights, st, executor.Options{
		Workers: a.config.Workers,
		Timeout: a.config.Timeout,
	})
	report := exec.Run(ctx)

	a.logger.Info("Run finished.", "run_id", report.RunID, "status", string(report.Status))
	return report, nil
}
