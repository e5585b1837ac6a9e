// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/devinnolab/proplanner/internal/app/system/auditlog"
	"github.com/devinnolab/proplanner/internal/app/system/auth"
	"github.com/devinnolab/proplanner/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// Handler clears the session cookie.
type Handler struct {
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Log:        logger,
	}
}

// HandleLogoutPost handles POST /logout. Always succeeds, even when no
// session exists.
func (h *Handler) HandleLogoutPost(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.Logout(r.Context(), r, u.ID)
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("logout: failed to clear session", zap.Error(err))
	}

	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}
