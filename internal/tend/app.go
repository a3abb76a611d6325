package tend

import (
	"github.com/colonyops/tend/internal/core/config"
)

// App is the central entry point for all tend operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Care   *CareService
	Config *config.Config
}

// NewApp constructs an App from explicit dependencies.
func NewApp(care *CareService, cfg *config.Config) *App {
	return &App{
		Care:   care,
		Config: cfg,
	}
}
