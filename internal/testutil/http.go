package testutil

import (
	"context"
	"net/http"

	"github.com/devinnolab/proplanner/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that call handlers directly instead of
// going through a router. Calls stack, so multi-param routes work.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// WithUser injects a session user into the request context, bypassing
// the session middleware.
func WithUser(r *http.Request, u *auth.SessionUser) *http.Request {
	return auth.WithTestUser(r, u)
}

// AdminUser returns a session user for authenticated handler tests.
func AdminUser() *auth.SessionUser {
	return &auth.SessionUser{
		ID:    "64b000000000000000000001",
		Name:  "Admin de Prueba",
		Email: "admin@example.com",
	}
}
