package app

import (
	"github.com/vk/orchid/internal/registry"
	"github.com/vk/orchid/modules/echo"
	"github.com/vk/orchid/modules/sleep"
)

// coreProviders is the definitive list of module packages compiled into the
// orchid binary. Deployment-specific modules register through NewApp's
// provider arguments instead.
var coreProviders = []registry.Provider{
	&echo.Module{},
	&sleep.Module{},
}
