// Package app wires the engine together for one invocation: it loads and
// validates the recipe, populates the module registry, and drives argument
// binding, graph construction and execution.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/orchid/internal/ctxlog"
	"github.com/vk/orchid/internal/recipe"
	"github.com/vk/orchid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	recipe   *recipe.Recipe
	registry *registry.Registry
}

// NewApp constructs the application: isolated logger, loaded recipe, and a
// registry populated from the given providers (the compiled-in core modules
// when none are passed). Every module type the recipe names must be
// registered; an unknown type fails here, before anything runs.
func NewApp(outW io.Writer, config *Config, providers ...registry.Provider) (*App, error) {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	loaded, err := recipe.Load(config.RecipePath)
	if err != nil {
		return nil, err
	}
	logger.Debug("Recipe loaded and validated.",
		"recipe", loaded.Name,
		"modules", len(loaded.Modules),
		"preflights", len(loaded.Preflights))

	reg := registry.New()
	if len(providers) == 0 {
		providers = coreProviders
	}
	for _, provider := range providers {
		provider.Register(reg)
	}
	ctxlog.FromContext(ctx).Debug("All module providers registered.", "types", reg.Types())

	// Structural check: each declared module type must be constructible.
	for _, spec := range append(append([]recipe.ModuleSpec{}, loaded.Preflights...), loaded.Modules...) {
		if _, err := reg.Lookup(spec.Name); err != nil {
			return nil, fmt.Errorf("module %q: %w", spec.RuntimeName, err)
		}
	}

	return &App{
		outW:     outW,
		logger:   logger,
		config:   config,
		recipe:   loaded,
		registry: reg,
	}, nil
}

// Recipe returns the loaded recipe. Primarily for testing.
func (a *App) Recipe() *recipe.Recipe {
	return a.recipe
}

// Registry returns the application's registry. Primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
