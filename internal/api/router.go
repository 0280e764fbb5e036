package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nestquest/homescout/internal/catalog"
	"github.com/nestquest/homescout/internal/events"
	"github.com/nestquest/homescout/internal/scoring"
	"github.com/nestquest/homescout/internal/store"
)

func NewRouter(s store.Store, ev events.Client, defaults scoring.Params, catalogOpts catalog.Options, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	profiles := NewProfilesHandler(s, ev, defaults)
	listings := NewListingsHandler(s, ev, catalogOpts)
	score := NewScoreHandler(defaults)
	rank := NewRankHandler(s, ev)
	admin := NewAdminHandler(s, ev)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/profiles", profiles.Create)
		r.Get("/profiles", profiles.List)
		r.Get("/profiles/{id}", profiles.Get)
		r.Patch("/profiles/{id}", profiles.Update)
		r.Delete("/profiles/{id}", profiles.Delete)

		r.Post("/listings", listings.Create)
		r.Get("/listings", listings.List)
		r.Get("/listings/{id}", listings.Get)
		r.Delete("/listings/{id}", listings.Delete)
		r.Post("/listings/import", listings.Import)

		r.Post("/score", score.Score)
		r.Post("/rank", rank.Rank)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/stats", admin.Stats)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
