// internal/app/features/uploads/routes.go
package uploads

import "github.com/go-chi/chi/v5"

// Routes returns the public upload subrouter, mounted under /uploads.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleUpload)
	return r
}

// FileRoutes serves stored attachments, mounted under /files.
func FileRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/*", h.HandleServeFile)
	return r
}
