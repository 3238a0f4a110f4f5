package main

import (
	"net/http"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/handler/api"
	cMiddleware "github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/middleware"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type routeDeps struct {
	previewer     port.ImagePreviewer
	processor     port.ImageProcessor
	reprocessor   port.BacklogReprocessor
	serviceSecret string
	// dstAuth guards the by-URL endpoint; nil means open.
	dstAuth func(http.Handler) http.Handler
	db      api.Pinger
	metrics http.Handler
}

func newRouter(d routeDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	r.Get("/healthz", api.HealthHandler(d.db))
	if d.metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.metrics)
	}

	r.Group(func(r chi.Router) {
		if d.dstAuth != nil {
			r.Use(d.dstAuth)
		}
		r.Post("/process-image", api.ProcessImageHandler(d.previewer))
	})

	r.Group(func(r chi.Router) {
		r.Use(cMiddleware.WithServiceSecret(d.serviceSecret))
		r.Post("/process-images", api.ProcessImagesHandler(d.processor))
		r.Post("/admin/reprocess-images", api.ReprocessImagesHandler(d.reprocessor))
	})

	return r
}
