// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/devinnolab/proplanner/internal/app/store/users"
	"github.com/devinnolab/proplanner/internal/app/system/auditlog"
	"github.com/devinnolab/proplanner/internal/app/system/auth"
	"github.com/devinnolab/proplanner/internal/app/system/httpjson"
	"github.com/devinnolab/proplanner/internal/app/system/normalize"
	"github.com/devinnolab/proplanner/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler holds dependencies for the login endpoint.
type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

// NewHandler constructs a login Handler.
func NewHandler(userStore *userstore.Store, sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      userStore,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Log:        logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User auth.SessionUser `json:"user"`
}

// HandleLoginPost handles POST /login. The error messages distinguish
// unknown user, deactivated account, and wrong password; the audit
// trail records the same distinction.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}

	email := normalize.Email(req.Email)
	if email == "" || req.Password == "" {
		httpjson.Error(w, http.StatusBadRequest, "Por favor, introduce el correo y la contraseña.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.AuditLog.LoginFailedUserNotFound(ctx, r, email)
			httpjson.Error(w, http.StatusUnauthorized, "Usuario no encontrado.")
			return
		}
		h.Log.Error("login: user lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Ocurrió un error inesperado.")
		return
	}

	if !u.Active {
		h.AuditLog.LoginFailedUserInactive(ctx, r, u.HexID(), email)
		httpjson.Error(w, http.StatusUnauthorized, "Usuario inactivo. Contacta al administrador.")
		return
	}

	if err := userstore.VerifyPassword(u, req.Password); err != nil {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.HexID(), email)
		httpjson.Error(w, http.StatusUnauthorized, "Contraseña incorrecta.")
		return
	}

	sessionUser := auth.SessionUser{ID: u.HexID(), Name: u.Name, Email: u.Email}
	if err := h.SessionMgr.SignIn(w, r, sessionUser); err != nil {
		h.Log.Error("login: failed to create session", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Ocurrió un error inesperado.")
		return
	}

	h.AuditLog.LoginSuccess(ctx, r, u.HexID(), email)

	httpjson.Write(w, http.StatusOK, loginResponse{User: sessionUser})
}
