// internal/app/features/leads/handler.go
package leads

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/devinnolab/proplanner/internal/app/store/audit"
	leadstore "github.com/devinnolab/proplanner/internal/app/store/leads"
	reqstore "github.com/devinnolab/proplanner/internal/app/store/requirements"
	"github.com/devinnolab/proplanner/internal/app/system/auditlog"
	"github.com/devinnolab/proplanner/internal/app/system/auth"
	"github.com/devinnolab/proplanner/internal/app/system/httpjson"
	"github.com/devinnolab/proplanner/internal/app/system/normalize"
	"github.com/devinnolab/proplanner/internal/app/system/timeouts"
	"github.com/devinnolab/proplanner/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler manages leads from the admin side.
type Handler struct {
	Leads        *leadstore.Store
	Requirements *reqstore.Store
	AuditLog     *auditlog.Logger
	Log          *zap.Logger
}

func NewHandler(leads *leadstore.Store, requirements *reqstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Leads:        leads,
		Requirements: requirements,
		AuditLog:     audit,
		Log:          logger,
	}
}

type leadView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Status    string    `json:"status"`
	FormLink  string    `json:"formLink"`
	CreatedAt time.Time `json:"createdAt"`
}

func toView(l models.Lead) leadView {
	return leadView{
		ID:        l.HexID(),
		Name:      l.Name,
		Email:     l.Email,
		Company:   l.Company,
		Status:    l.Status,
		FormLink:  l.FormLink,
		CreatedAt: l.CreatedAt,
	}
}

type createLeadRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

// HandleList handles GET /leads, newest first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	all, err := h.Leads.List(ctx)
	if err != nil {
		h.Log.Error("leads: list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Error interno del servidor.")
		return
	}

	views := make([]leadView, 0, len(all))
	for _, l := range all {
		views = append(views, toView(l))
	}
	httpjson.Write(w, http.StatusOK, views)
}

// HandleCreate handles POST /leads. The response carries the form link
// the admin sends to the prospect.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createLeadRequest
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

	lead, err := h.Leads.Create(ctx, name, email, normalize.Name(req.Company))
	if err != nil {
		h.Log.Error("leads: create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Error interno del servidor.")
		return
	}

	h.audit(ctx, r, audit.EventLeadCreated, lead.HexID(), map[string]string{"email": email})
	httpjson.Write(w, http.StatusCreated, toView(lead))
}

// HandleGet handles GET /leads/{leadID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	lead, err := h.Leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, leadstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "Lead no encontrado.")
			return
		}
		h.Log.Error("leads: get failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Error interno del servidor.")
		return
	}

	httpjson.Write(w, http.StatusOK, toView(*lead))
}

// HandleGetRequirements handles GET /leads/{leadID}/requirements: the
// submitted form answers for a lead, if any.
func (h *Handler) HandleGetRequirements(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	lead, err := h.Leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, leadstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "Lead no encontrado.")
			return
		}
		h.Log.Error("leads: get failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Error interno del servidor.")
		return
	}

	req, err := h.Requirements.GetByLeadID(ctx, lead.HexID())
	if err != nil {
		if errors.Is(err, reqstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "El lead aún no ha enviado el formulario.")
			return
		}
		h.Log.Error("leads: requirements lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Error interno del servidor.")
		return
	}

	httpjson.Write(w, http.StatusOK, req)
}

// HandleDelete handles DELETE /leads/{leadID}. Submitted requirements
// for the lead are removed with it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	lead, err := h.Leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, leadstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "Lead no encontrado.")
			return
		}
		h.Log.Error("leads: get failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Error interno del servidor.")
		return
	}

	if err := h.Leads.Delete(ctx, leadID); err != nil {
		h.Log.Error("leads: delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Error interno del servidor.")
		return
	}
	if err := h.Requirements.DeleteByLeadID(ctx, lead.HexID()); err != nil {
		h.Log.Warn("leads: requirements cleanup failed",
			zap.Error(err), zap.String("lead_id", lead.HexID()))
	}

	h.audit(ctx, r, audit.EventLeadDeleted, lead.HexID(), nil)
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) audit(ctx context.Context, r *http.Request, eventType, entityID string, details map[string]string) {
	actorID := ""
	if u, ok := auth.CurrentUser(r); ok {
		actorID = u.ID
	}
	h.AuditLog.AdminAction(ctx, r, eventType, actorID, entityID, details)
}
