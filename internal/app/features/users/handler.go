// internal/app/features/users/handler.go
package users

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/devinnolab/proplanner/internal/app/store/audit"
	userstore "github.com/devinnolab/proplanner/internal/app/store/users"
	"github.com/devinnolab/proplanner/internal/app/system/auditlog"
	"github.com/devinnolab/proplanner/internal/app/system/auth"
	"github.com/devinnolab/proplanner/internal/app/system/httpjson"
	"github.com/devinnolab/proplanner/internal/app/system/normalize"
	"github.com/devinnolab/proplanner/internal/app/system/timeouts"
	"github.com/devinnolab/proplanner/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler manages the admin user accounts.
type Handler struct {
	Users    *userstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(store *userstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    store,
		AuditLog: audit,
		Log:      logger,
	}
}

// userView is the JSON shape for a user. Password hashes never leave
// the store layer.
type userView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

func toView(u models.User) userView {
	return userView{
		ID:        u.HexID(),
		Name:      u.Name,
		Email:     u.Email,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Active   *bool  `json:"active"`
}

type updateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Active   *bool  `json:"active"`
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

// HandleList handles GET /users.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	all, err := h.Users.List(ctx)
	if err != nil {
		h.Log.Error("users: list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Error interno del servidor.")
		return
	}

	views := make([]userView, 0, len(all))
	for _, u := range all {
		views = append(views, toView(u))
	}
	httpjson.Write(w, http.StatusOK, views)
}

// HandleCreate handles POST /users.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}

	name := normalize.Name(req.Name)
	email := normalize.Email(req.Email)
	if name == "" || email == "" || req.Password == "" {
		httpjson.Error(w, http.StatusBadRequest, "Nombre, email y contraseña son obligatorios.")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, name, email, req.Password, active)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpjson.Error(w, http.StatusConflict, "El email ya está en uso.")
			return
		}
		h.Log.Error("users: create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Error interno del servidor.")
		return
	}

	h.audit(ctx, r, audit.EventUserCreated, u.HexID(), nil)
	httpjson.Write(w, http.StatusCreated, toView(u))
}

// HandleUpdate handles PUT /users/{userID}. A blank password keeps the
// current one.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req updateUserRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}

	name := normalize.Name(req.Name)
	email := normalize.Email(req.Email)
	if name == "" || email == "" {
		httpjson.Error(w, http.StatusBadRequest, "Nombre y email son obligatorios.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cur, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		h.respondStoreErr(w, err, "users: load for update failed")
		return
	}

	active := cur.Active
	if req.Active != nil {
		active = *req.Active
	}

	u, err := h.Users.UpdateUser(ctx, userID, userstore.Update{
		Name:     name,
		Email:    email,
		Password: req.Password,
		Active:   active,
	})
	if err != nil {
		h.respondStoreErr(w, err, "users: update failed")
		return
	}

	h.audit(ctx, r, audit.EventUserUpdated, u.HexID(), nil)
	httpjson.Write(w, http.StatusOK, toView(u))
}

// HandleSetActive handles PATCH /users/{userID}/active.
func (h *Handler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req setActiveRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.SetActive(ctx, userID, req.Active)
	if err != nil {
		h.respondStoreErr(w, err, "users: set-active failed")
		return
	}

	h.audit(ctx, r, audit.EventUserActiveToggled, u.HexID(), map[string]string{
		"active": boolWord(req.Active),
	})
	httpjson.Write(w, http.StatusOK, toView(*u))
}

// HandleDelete handles DELETE /users/{userID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Users.Delete(ctx, userID); err != nil {
		h.respondStoreErr(w, err, "users: delete failed")
		return
	}

	h.audit(ctx, r, audit.EventUserDeleted, userID, nil)
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) respondStoreErr(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, "Usuario no encontrado.")
	case errors.Is(err, userstore.ErrDuplicateEmail):
		httpjson.Error(w, http.StatusConflict, "El email ya está en uso.")
	case errors.Is(err, userstore.ErrLastActiveUser):
		httpjson.Error(w, http.StatusConflict, "No se puede eliminar o desactivar al último usuario activo.")
	default:
		h.Log.Error(logMsg, zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Error interno del servidor.")
	}
}

func (h *Handler) audit(ctx context.Context, r *http.Request, eventType, entityID string, details map[string]string) {
	actorID := ""
	if u, ok := auth.CurrentUser(r); ok {
		actorID = u.ID
	}
	h.AuditLog.AdminAction(ctx, r, eventType, actorID, entityID, details)
}

func boolWord(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
