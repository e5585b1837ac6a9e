// internal/app/features/portal/routes.go
package portal

import "github.com/go-chi/chi/v5"

// Routes returns the public portal subrouter, mounted under /portal.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Route("/{linkID}", func(r chi.Router) {
		r.Get("/", h.HandleView)
		r.Post("/modules/{moduleID}/approve", h.HandleApproveModule)
		r.Post("/modules/{moduleID}/parts/{partID}/approve", h.HandleApprovePart)
		r.Post("/change-requests", h.HandleAddChangeRequest)
	})
	return r
}
