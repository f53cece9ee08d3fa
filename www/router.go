package www

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ordermate/engine"
	"ordermate/statcache"
)

type Handlers struct {
	engine      *engine.Engine
	eventHub    *EventHub
	collections map[string]collection
}

func NewRouter(eng *engine.Engine) (http.Handler, func()) {
	hub := NewEventHub()
	hub.Start()
	hub.SetupEngineListeners(eng)

	cols := buildCollections(eng.DB(), eng.AppConfig().Gateway)

	h := &Handlers{
		engine:      eng,
		eventHub:    hub,
		collections: cols,
	}

	// Each collection feeds the dashboard stat cache.
	if mgr := eng.Stats(); mgr != nil {
		for name, c := range cols {
			c := c
			mgr.Register(name, func(ctx context.Context) (*statcache.Summary, error) {
				return c.Summary(ctx)
			})
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(metricsMiddleware)

	r.Get("/events", hub.SSEHandler)
	r.Get("/healthz", h.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", h.apiDashboard)
		r.Route("/{collection}", func(r chi.Router) {
			r.Get("/", h.apiList)
			r.Post("/", h.apiCreate)
			r.Get("/view", h.apiView)
			r.Post("/refresh", h.apiRefresh)
			r.Patch("/{id}", h.apiPatch)
		})
	})

	stopFn := func() {
		hub.Stop()
	}

	return r, stopFn
}
