// internal/server/router.go
package server

import (
	"net/http"

	"bookhive/internal/catalog"
	"bookhive/internal/identity"
	"bookhive/internal/loans"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the HTTP surface. watch may be nil, in which case the
// catalog feed endpoint reports itself unavailable.
func NewRouter(identitySvc identity.Service, catalogSvc catalog.Service, loanSvc loans.Service, watch catalog.WatchFunc) http.Handler {
	identityHandler := identity.NewHandler(identitySvc)
	catalogHandler := catalog.NewHandler(catalogSvc, watch)
	loanHandler := loans.NewHandler(loanSvc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/signup", identityHandler.HandleSignUp)
	r.Post("/signin", identityHandler.HandleSignIn)

	r.Get("/books", catalogHandler.HandleList)
	r.Get("/books/feed", catalogHandler.HandleFeed)
	r.Get("/books/{id}", catalogHandler.HandleGet)

	r.Group(func(r chi.Router) {
		r.Use(identity.RequireSession(identitySvc))
		r.Post("/books", catalogHandler.HandleAdd)
		r.Post("/loans", loanHandler.HandleBorrow)
		r.Get("/loans", loanHandler.HandleList)
		r.Post("/loans/{id}/return", loanHandler.HandleReturn)
	})

	return r
}
