package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.logging)
	r.Use(s.recovery)

	r.Get("/healthz", s.handleHealth)
	if s.cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/engines", s.handleEngines)
		r.Get("/presets/{name}", s.handlePreset)
		r.Get("/stats", s.handleStats)
		r.Post("/partition", s.handlePartition)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{
			RequestID: RequestID(r.Context()),
			Code:      "NOT_FOUND",
			Message:   "no route for " + r.Method + " " + r.URL.Path,
		})
	})
	return r
}
