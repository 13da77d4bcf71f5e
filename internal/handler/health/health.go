// Package health serves the dependency health endpoint.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// Checker verifies that an infrastructure dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a plain function to Checker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

// DefaultTimeout bounds one round of checks.
const DefaultTimeout = 3 * time.Second

const (
	statusOK    = "ok"
	statusError = "error"
)

type Handler struct {
	checks  map[string]Checker
	logger  *slog.Logger
	timeout time.Duration
}

func NewHandler(logger *slog.Logger, checks map[string]Checker) *Handler {
	return &Handler{checks: checks, logger: logger, timeout: DefaultTimeout}
}

// WithTimeout overrides DefaultTimeout.
func (h *Handler) WithTimeout(d time.Duration) *Handler {
	h.timeout = d
	return h
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.serve)
	return r
}

type result struct {
	Status string `json:"status"`
}

// run executes every check concurrently and reports whether all passed.
// A failing check does not cancel the others.
func (h *Handler) run(ctx context.Context) (map[string]result, bool) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		healthy = true
		results = make(map[string]result, len(h.checks))
		g       errgroup.Group
	)
	for name, c := range h.checks {
		g.Go(func() error {
			status := statusOK
			if err := c.Check(ctx); err != nil {
				h.logger.Error("health check failed", "name", name, "error", err)
				status = statusError
			}

			mu.Lock()
			defer mu.Unlock()
			results[name] = result{Status: status}
			if status != statusOK {
				healthy = false
			}
			return nil
		})
	}
	g.Wait()
	return results, healthy
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	results, healthy := h.run(r.Context())

	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(results)
}
