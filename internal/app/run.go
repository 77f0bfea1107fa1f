package app

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/stweave/stweave/internal/ctxlog"
	"github.com/stweave/stweave/internal/session"
	"github.com/stweave/stweave/internal/version"
	"github.com/stweave/stweave/items/loglevel"
	"github.com/stweave/stweave/items/panichook"
)

// Run executes the configured command inside the default session, which
// pins the bottom of the stack for the whole invocation.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	defaults, err := a.defaultSession()
	if err != nil {
		return err
	}

	return a.stack.Within(func() error {
		defer a.firePanicHook()

		a.logger.Debug("Version information.", "version", version.Version)
		a.logger.Debug("Invocation.", "argv", strings.Join(a.config.Argv, " "))

		switch a.config.Command {
		case "init":
			return a.runInit(ctx)
		case "run":
			return a.runTraining(ctx)
		default:
			return fmt.Errorf("unknown command %q", a.config.Command)
		}
	}, defaults)
}

// defaultSession builds the session every command runs under. --debug
// layers in the verbose log level and a stack-dumping panic hook.
func (a *App) defaultSession() (*session.Session, error) {
	overrides := map[string]any{}
	if a.config.Debug {
		overrides[loglevel.ItemName] = int(slog.LevelDebug)
		overrides[panichook.ItemName] = panichook.StackDump(a.outW)
	}
	return session.NewSession(a.registry, overrides)
}

// firePanicHook hands a panic to the configured hook before re-raising it.
// It is deferred inside the default session's scope so the hook override is
// still effective when it fires.
func (a *App) firePanicHook() {
	r := recover()
	if r == nil {
		return
	}
	if hook, ok := panichook.From(a.stack); ok {
		hook(r, debug.Stack())
	}
	panic(r)
}
