// internal/app/features/leads/routes.go
package leads

import (
	"github.com/devinnolab/proplanner/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the admin lead-management subrouter.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/{leadID}", h.HandleGet)
	r.Get("/{leadID}/requirements", h.HandleGetRequirements)
	r.Delete("/{leadID}", h.HandleDelete)

	return r
}
