// internal/app/features/leadform/routes.go
package leadform

import "github.com/go-chi/chi/v5"

// Routes returns the public form subrouter, mounted under /leads.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{leadID}/form", h.HandleGetForm)
	r.Post("/{leadID}/form", h.HandleSubmit)
	return r
}
