package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stweave/stweave/internal/ctxlog"
	"github.com/stweave/stweave/internal/session"
)

// healthHandler reports process liveness.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// sessionHandler reports the effective non-default session state as an HCL
// document, the same shape checkpoints persist.
func (a *App) sessionHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Session status endpoint hit.", "remote_addr", r.RemoteAddr)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	ctx := ctxlog.WithLogger(r.Context(), a.logger)
	if err := session.Save(ctx, w, a.stack.Snapshot()); err != nil {
		a.logger.Error("Failed to render session status.", "error", err)
	}
}

// startStatusServer initializes and runs the status HTTP server.
func (a *App) startStatusServer(port int) {
	a.logger.Debug("Configuring status server.")
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/session", a.sessionHandler)

	addr := fmt.Sprintf(":%d", port)
	a.statusServer = &http.Server{Addr: addr, Handler: mux}

	go func() {
		a.logger.Info("🩺 Status server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		if err := a.statusServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Status server failed unexpectedly", "error", err)
		}
	}()
}

// closeStatusServer shuts the status server down, waiting briefly for
// in-flight requests. It uses a fresh context so shutdown still gets its
// grace period when the run itself was canceled.
func (a *App) closeStatusServer() {
	if a.statusServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.logger.Debug("Closing status server...")
	if err := a.statusServer.Shutdown(ctx); err != nil {
		a.logger.Error("Status server shutdown failed", "error", err)
		return
	}
	a.logger.Debug("Status server shut down gracefully.")
}
