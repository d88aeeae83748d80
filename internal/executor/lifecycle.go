package executor

import (
	"context"
	"fmt"

	"github.com/vk/orchid/internal/ctxlog"
	"github.com/vk/orchid/internal/node"
	"github.com/vk/orchid/internal/state"
)

// runLifecycle invokes one graph module's SetUp, Process and CleanUp in
// order. CleanUp is the release step and runs on every exit path, including
// SetUp failures. Cancellation is observed between phases; a module already
// inside Process is interrupted only if it honors its context.
func (e *Executor) runLifecycle(ctx context.Context, n *node.Node) (state.ErrorKind, error) {
	logger := ctxlog.FromContext(ctx).With("module", n.RuntimeName, "type", n.TypeName)
	logger.Info("Running module.")

	defer func() {
		if err := n.Instance.CleanUp(ctx); err != nil {
			// Cleanup problems are reported but do not change the
			// module's outcome; the work itself already succeeded or
			// failed on its own terms.
			logger.Warn("Module cleanup failed.", "error", err)
		}
	}()

	if err := n.Instance.SetUp(ctx, n.Args, e.st); err != nil {
		return classifyErr(err, state.KindSetup), fmt.Errorf("setup: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return state.KindCancelled, err
	}

	if err := n.Instance.Process(ctx); err != nil {
		return classifyErr(err, state.KindProcess), fmt.Errorf("process: %w", err)
	}

	logger.Info("Module finished.")
	return "", nil
}

// runPreflights executes the preflight sequence in declaration order.
// Preflights run SetUp and Process immediately but keep their CleanUp for
// the end of the run. The first failure aborts the sequence.
func (e *Executor) runPreflights(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	for _, n := range e.preflights {
		if err := ctx.Err(); err != nil {
			e.failNode(ctx, n, state.KindCancelled, err)
			return err
		}

		logger.Info("Running preflight.", "module", n.RuntimeName)
		n.SetState(node.Running)

		if err := n.Instance.SetUp(ctx, n.Args, e.st); err != nil {
			err = fmt.Errorf("setup: %w", err)
			e.failNode(ctx, n, classifyErr(err, state.KindSetup), err)
			return err
		}
		e.cleanups = append(e.cleanups, n)

		if err := n.Instance.Process(ctx); err != nil {
			err = fmt.Errorf("process: %w", err)
			e.failNode(ctx, n, classifyErr(err, state.KindProcess), err)
			return err
		}
		n.SetState(node.Succeeded)
	}
	return nil
}

// cleanupPreflights releases every preflight whose SetUp ran. Uses the
// parent context so cleanup still happens after a run timeout.
func (e *Executor) cleanupPreflights(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	for _, n := range e.cleanups {
		if err := n.Instance.CleanUp(ctx); err != nil {
			logger.Warn("Preflight cleanup failed.", "module", n.RuntimeName, "error", err)
		}
	}
}
