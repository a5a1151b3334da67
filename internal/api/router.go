// Package api exposes the blog engine over HTTP: an authenticated admin
// surface and an unauthenticated public surface, both thin adapters over
// simpleblog.Service.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// NewRouter assembles the full HTTP surface.
func NewRouter(service simpleblog.Service, assets *simpleblog.AssetStore) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/admin", NewAdminHandler(service, assets).Routes())
	r.Mount("/", NewPublicHandler(service, assets).Routes())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
