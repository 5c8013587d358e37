// Package server exposes the bot's operational endpoints.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/set-night/codegen/internal/config"
	"github.com/set-night/codegen/internal/metrics"
)

// SessionCounter counts stored sessions; a failure means the database is
// unreachable.
type SessionCounter interface {
	Count(ctx context.Context) (int, error)
}

// ChatCounter reports the number of live chat pages.
type ChatCounter interface {
	Len() int
}

type healthResponse struct {
	Status   string `json:"status"`
	Chats    int    `json:"chats"`
	Sessions int    `json:"sessions"`
	Error    string `json:"error,omitempty"`
}

// NewRouter serves /healthz and /metrics.
func NewRouter(gatherer prometheus.Gatherer, sessions SessionCounter, chats ChatCounter) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Chats: chats.Len()}
		status := http.StatusOK
		n, err := sessions.Count(ctx)
		if err != nil {
			resp.Status = "unavailable"
			resp.Error = err.Error()
			status = http.StatusServiceUnavailable
		}
		resp.Sessions = n

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	})
	r.Handle("/metrics", metrics.Handler(gatherer))

	return r
}

// Start serves h on port until ctx is cancelled.
func Start(ctx context.Context, port int, h http.Handler) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("ops server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("ops server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
