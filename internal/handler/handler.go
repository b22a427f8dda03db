// Package handler is the REST adapter: it translates HTTP requests into
// service facade calls and domain errors into HTTP responses. No business
// logic lives here.
package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/storelite/ims/internal/service"
)

// Handler serves the /api routes on top of the service facade.
type Handler struct {
	svc *service.Service
}

// New constructs a Handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes returns the API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/items", func(r chi.Router) {
		r.Post("/", h.addItem)
		r.Get("/", h.listItems)
		r.Get("/{id}", h.getItem)
		r.Patch("/{id}", h.updateItem)
		r.Delete("/{id}", h.deleteItem)
	})

	r.Route("/bills", func(r chi.Router) {
		r.Post("/", h.createBill)
		r.Get("/", h.listBills)
		r.Get("/{id}", h.getBill)
	})

	return r
}
