package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// NewHTTPHandler exposes the dispatcher over HTTP for callers that prefer a
// local port to stdio: POST /mcp carries one JSON-RPC message per request.
// The same single-process, local-machine model applies.
func NewHTTPHandler(srv *Server) http.Handler {
	r := chi.NewRouter()

	r.Post("/mcp", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(io.LimitReader(req.Body, maxLineBytes))
		if err != nil {
			http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
			return
		}
		resp := srv.Handle(req.Context(), body)
		if resp == nil {
			// Notification: acknowledged, nothing to return.
			w.WriteHeader(http.StatusAccepted)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(resp)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

// ServeHTTP runs the HTTP transport on addr until ctx is cancelled, then
// shuts down gracefully so in-flight calls (and their subprocesses) finish
// or are killed via their request contexts.
func ServeHTTP(ctx context.Context, addr string, srv *Server, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	hs := &http.Server{
		Addr:              addr,
		Handler:           NewHTTPHandler(srv),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- hs.ListenAndServe() }()
	logger.Info("http transport listening", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	}
}
