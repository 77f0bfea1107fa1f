package app

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/stweave/stweave/internal/logging"
	"github.com/stweave/stweave/internal/rng"
	"github.com/stweave/stweave/internal/session"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW         io.Writer
	config       *Config
	router       *logging.Router
	logger       *slog.Logger
	source       *rng.Source
	registry     *session.Registry
	stack        *session.Stack
	statusServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger, random source, and
// session item registry. Item registration failures are programmer errors,
// so they panic.
func NewApp(outW io.Writer, config *Config) *App {
	router := logging.NewRouter(outW, config.LogFormat)
	logger := router.Logger()
	logger.Debug("Logger configured successfully.")

	source := rng.New()
	reg := session.NewRegistry()
	for _, item := range coreItems(router, source) {
		if err := item.Register(reg); err != nil {
			panic(fmt.Errorf("failed to register session items: %w", err))
		}
	}
	logger.Debug("All session items registered.", "count", reg.Len())

	return &App{
		outW:     outW,
		config:   config,
		router:   router,
		logger:   logger,
		source:   source,
		registry: reg,
		stack:    session.NewStack(reg),
	}
}

// Stack returns the application's session stack. This is primarily for testing.
func (a *App) Stack() *session.Stack {
	return a.stack
}

// Registry returns the application's item registry. This is primarily for testing.
func (a *App) Registry() *session.Registry {
	return a.registry
}
