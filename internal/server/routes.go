package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/apihunt/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	broker := NewBroker()
	metrics := NewMetrics(deps.Store)
	p := newPlayer(deps.Engine, deps.Store, broker, metrics, logger, deps.RequestTimeout)

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", handleSwaggerUI())
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())
	r.Handle("/metrics", metrics.Handler())

	r.Get("/api/clues", handleListClues(deps.Engine))
	r.Get("/api/clues/{id}", handleGetClue(deps.Engine))

	r.Post("/api/hunt", handleStart(p))

	// Session routes: the bearer token is resolved by sessionMiddleware.
	r.Group(func(r chi.Router) {
		r.Use(sessionMiddleware(deps.Store))
		r.Get("/api/hunt", handleState(deps.Engine))
		r.Delete("/api/hunt", handleEnd(logger, deps.Store, broker))
		r.Post("/api/hunt/requests", handleSubmit(p))
		r.Get("/api/hunt/events", handleEvents(broker))
		r.Get("/api/hunt/console", handleConsole(p))
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
