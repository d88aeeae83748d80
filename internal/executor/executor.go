// Package executor drives the execution graph: it dispatches ready modules
// to a worker pool, records results and errors into the shared state, and
// isolates failures to the branches that depend on them.
package executor

import (
	"context"
	"sync"
	"time"

	"github.com/vk/orchid/internal/ctxlog"
	"github.com/vk/orchid/internal/dag"
	"github.com/vk/orchid/internal/node"
	"github.com/vk/orchid/internal/state"
)

// Options tunes one run of the executor.
type Options struct {
	// Workers bounds the number of simultaneously running modules.
	// Zero or negative means one worker per node, effectively unbounded.
	Workers int
	// Timeout bounds the whole run. Zero means no timeout. Cancellation is
	// cooperative: modules observe it between lifecycle phases.
	Timeout time.Duration
}

// Executor walks one execution graph to completion.
type Executor struct {
	graph      *dag.Graph
	preflights []*node.Node
	st         *state.State
	opts       Options

	wg              sync.WaitGroup
	preflightFailed bool
	// cleanups collects preflights whose SetUp ran; their CleanUp is
	// deferred to the end of the run so the sessions they establish stay
	// usable by graph modules.
	cleanups []*node.Node
}

// New creates an executor for one run.
func New(graph *dag.Graph, preflights []*node.Node, st *state.State, opts Options) *Executor {
	return &Executor{
		graph:      graph,
		preflights: preflights,
		st:         st,
		opts:       opts,
	}
}

// Run executes preflights sequentially, then the graph concurrently, and
// always returns a complete report. Module failures never abort unrelated
// branches; only structural problems detected before Run can do that.
func (e *Executor) Run(ctx context.Context) *Report {
	logger := ctxlog.FromContext(ctx)

	runCtx := ctx
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	defer e.cleanupPreflights(ctx)

	if err := e.runPreflights(runCtx); err != nil {
		logger.Error("Preflight failed, aborting run.", "error", err)
		e.skipAll(runCtx, err)
		return e.buildReport()
	}

	e.execute(runCtx)
	logger.Info("All modules completed.")

	return e.buildReport()
}

// execute runs the graph on a ready-channel worker pool.
func (e *Executor) execute(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	total := e.graph.Len()
	if total == 0 {
		return
	}

	// Buffered to the node count so enqueueing a dependent never blocks a
	// worker.
	readyChan := make(chan *node.Node, total)

	rootCount := 0
	for _, n := range e.graph.Nodes() {
		if n.DepCount() == 0 {
			n.SetState(node.Ready)
			readyChan <- n
			rootCount++
		}
	}
	logger.Debug("Seeded ready set.", "roots", rootCount, "nodes", total)

	e.wg.Add(total)

	workers := e.opts.Workers
	if workers <= 0 || workers > total {
		workers = total
	}
	logger.Debug("Starting worker pool.", "workers", workers)
	for i := 0; i < workers; i++ {
		go e.worker(ctx, readyChan, i)
	}

	e.wg.Wait()
	close(readyChan)
}

// skipAll marks every not-yet-run module skipped, preflights included;
// used when a preflight failure prevents the graph from starting.
func (e *Executor) skipAll(ctx context.Context, cause error) {
	logger := ctxlog.FromContext(ctx)
	e.preflightFailed = true
	for _, n := range append(append([]*node.Node{}, e.preflights...), e.graph.Nodes()...) {
		if n.State() != node.Pending {
			continue
		}
		if n.Skip(cause) {
			logger.Warn("Skipping module: preflight failed.", "module", n.RuntimeName)
			e.st.AddError(state.ModuleError{
				Module:  n.RuntimeName,
				Kind:    state.KindSkipped,
				Message: cause.Error(),
			})
		}
	}
}
