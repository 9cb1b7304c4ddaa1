package racks

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/royburns/fixcity/internal/auth"
	"github.com/royburns/fixcity/internal/middleware"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	// Public routes
	r.Get("/racks", ListRacksHandler)
	r.Get("/racks/{id}", GetRackHandler)
	r.Get("/sources/{id}", GetSourceHandler)
	r.Get("/boards", ListBoardsHandler)
	r.Get("/boards/{gid}/racks", BoardRacksHandler)

	// Crowd submissions are open but throttled per client.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitMiddleware)
		r.Post("/racks", CreateRackHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Post("/racks/{id}/verify", VerifyRackHandler)
		r.Delete("/racks/{id}", DeleteRackHandler)
		r.Post("/bulkorders", CreateBulkOrderHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminMiddleware(sessionFetcher))
			r.Post("/bulkorders/{id}/approve", ApproveBulkOrderHandler)
			r.Delete("/bulkorders/{id}", DeleteBulkOrderHandler)
		})
	})

	return r
}
