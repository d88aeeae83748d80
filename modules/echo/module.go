// Package echo provides a generic diagnostic module that logs its resolved
// arguments and publishes them as a single artifact. It is mainly useful
// for recipe debugging and as a reference module implementation.
package echo

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/orchid/internal/ctxlog"
	"github.com/vk/orchid/internal/module"
	"github.com/vk/orchid/internal/registry"
	"github.com/vk/orchid/internal/state"
)

// Module implements the registry.Provider interface for this package.
type Module struct{}

// Register registers the Echo factory with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFactory("Echo", func(runtimeName string) module.Module {
		return &handler{Base: module.Base{RuntimeName: runtimeName}}
	})
}

// Input defines the arguments the Echo module accepts.
type Input struct {
	Message string            `orchid:"message"`
	Fields  map[string]string `orchid:"fields"`
}

type handler struct {
	module.Base
	input Input
}

func (h *handler) SetUp(_ context.Context, arguments module.Args, st *state.State) error {
	h.State = st
	if err := arguments.Decode(&h.input); err != nil {
		return fmt.Errorf("decoding echo arguments: %w", err)
	}
	return nil
}

func (h *handler) Process(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("module", h.RuntimeName)
	logger.Info("Echo.", "message", h.input.Message)

	// Sort keys for consistent output.
	keys := make([]string, 0, len(h.input.Fields))
	for k := range h.input.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		logger.Info("Echo field.", "key", k, "value", h.input.Fields[k])
	}

	attributes := map[string]any{"message": h.input.Message}
	for k, v := range h.input.Fields {
		attributes[k] = v
	}
	h.Publish(state.Artifact{
		Kind:       "text",
		Name:       h.RuntimeName,
		Attributes: attributes,
	})
	return nil
}

func (h *handler) CleanUp(context.Context) error {
	return nil
}
