// internal/app/features/users/routes.go
package users

import (
	"github.com/devinnolab/proplanner/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the admin user-management subrouter.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Put("/{userID}", h.HandleUpdate)
	r.Patch("/{userID}/active", h.HandleSetActive)
	r.Delete("/{userID}", h.HandleDelete)

	return r
}
