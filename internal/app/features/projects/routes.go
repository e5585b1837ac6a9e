// internal/app/features/projects/routes.go
package projects

import (
	"github.com/devinnolab/proplanner/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the admin project-management subrouter.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)

	r.Route("/{projectID}", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Put("/", h.HandleUpdate)
		r.Delete("/", h.HandleDelete)

		r.Post("/modules", h.HandleAddModule)
		r.Post("/modules/batch", h.HandleAddModulesBatch)
		r.Put("/modules/{moduleID}", h.HandleUpdateModule)
		r.Delete("/modules/{moduleID}", h.HandleDeleteModule)
		r.Put("/modules/{moduleID}/parts", h.HandleUpdateParts)
		r.Post("/modules/{moduleID}/approve", h.HandleApproveModule)

		r.Patch("/change-requests/{requestID}", h.HandleUpdateChangeRequest)

		r.Post("/requirements", h.HandleAddRequirement)
		r.Put("/requirements/{requirementID}", h.HandleUpdateRequirement)
		r.Delete("/requirements/{requirementID}", h.HandleDeleteRequirement)

		r.Post("/documents", h.HandleAddDocument)
	})

	return r
}
