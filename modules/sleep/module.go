// Package sleep provides a module that waits for a configurable duration.
// It honors cancellation mid-Process, which makes it the reference module
// for timeout behavior.
package sleep

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/orchid/internal/ctxlog"
	"github.com/vk/orchid/internal/module"
	"github.com/vk/orchid/internal/registry"
	"github.com/vk/orchid/internal/state"
)

// Module implements the registry.Provider interface for this package.
type Module struct{}

// Register registers the Sleep factory with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFactory("Sleep", func(runtimeName string) module.Module {
		return &handler{Base: module.Base{RuntimeName: runtimeName}}
	})
}

// Input defines the arguments the Sleep module accepts.
type Input struct {
	Duration string `orchid:"duration"`
}

type handler struct {
	module.Base
	duration time.Duration
}

func (h *handler) SetUp(_ context.Context, arguments module.Args, st *state.State) error {
	h.State = st

	var input Input
	if err := arguments.Decode(&input); err != nil {
		return fmt.Errorf("decoding sleep arguments: %w", err)
	}
	if input.Duration == "" {
		input.Duration = "1s"
	}

	duration, err := time.ParseDuration(input.Duration)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", input.Duration, err)
	}
	h.duration = duration
	return nil
}

func (h *handler) Process(ctx context.Context) error {
	ctxlog.FromContext(ctx).Info("Sleeping.", "module", h.RuntimeName, "duration", h.duration)

	timer := time.NewTimer(h.duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *handler) CleanUp(context.Context) error {
	return nil
}
