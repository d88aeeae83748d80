package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/orchid/internal/ctxlog"
	"github.com/vk/orchid/internal/node"
	"github.com/vk/orchid/internal/state"
)

// worker is the core processing loop for a single concurrent worker. Ready
// nodes are picked up first-ready-first-dispatched from the shared channel.
func (e *Executor) worker(ctx context.Context, readyChan chan *node.Node, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for n := range readyChan {
		workerLogger := logger.With("workerID", workerID, "module", n.RuntimeName)

		if err := ctx.Err(); err != nil {
			workerLogger.Warn("Run cancelled, not starting module.")
			e.failNode(ctx, n, state.KindCancelled, err)
			e.wg.Done()
			continue
		}

		workerLogger.Debug("Worker picked up module for execution.")
		n.SetState(node.Running)

		if kind, err := e.runLifecycle(ctx, n); err != nil {
			workerLogger.Error("Module execution failed.", "error", err)
			e.failNode(ctx, n, kind, err)
			e.wg.Done()
			continue
		}

		workerLogger.Debug("Module execution succeeded.")
		n.SetState(node.Succeeded)

		for _, dependent := range n.Dependents {
			if dependent.DecrementDepCount() == 0 {
				workerLogger.Debug("Unlocking dependent module.", "dependent", dependent.RuntimeName)
				dependent.SetState(node.Ready)
				readyChan <- dependent
			}
		}

		e.wg.Done()
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

// failNode records a module failure and cascades skips to every transitive
// dependent. Unrelated branches keep running: there is deliberately no
// run-wide cancellation here.
func (e *Executor) failNode(ctx context.Context, n *node.Node, kind state.ErrorKind, err error) {
	n.SetState(node.Failed)
	n.Err = err
	e.st.AddError(state.ModuleError{
		Module:  n.RuntimeName,
		Kind:    kind,
		Message: err.Error(),
	})
	e.skipDependents(ctx, n)
}

// skipDependents transitively marks all downstream modules skipped. Each
// skip is recorded as its own event so the report can tell "did not run"
// apart from "ran and failed".
func (e *Executor) skipDependents(ctx context.Context, n *node.Node) {
	logger := ctxlog.FromContext(ctx)
	for _, dependent := range n.Dependents {
		cause := fmt.Errorf("dependency %q did not succeed", n.RuntimeName)
		if dependent.Skip(cause) {
			logger.Warn("Skipping module due to upstream failure.",
				"module", dependent.RuntimeName, "dependency", n.RuntimeName)
			e.st.AddError(state.ModuleError{
				Module:  dependent.RuntimeName,
				Kind:    state.KindSkipped,
				Message: cause.Error(),
			})
			e.wg.Done()
			e.skipDependents(ctx, dependent)
		}
	}
}

// classifyErr maps a lifecycle error to its report kind, recognizing
// cooperative cancellation regardless of the phase it surfaced in.
func classifyErr(err error, phase state.ErrorKind) state.ErrorKind {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return state.KindCancelled
	}
	return phase
}
