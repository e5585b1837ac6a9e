// internal/app/features/projects/handler.go
//
// Admin side of the project lifecycle. Every mutation goes through the
// aggregate's methods so the timeline ledger stays consistent, and
// through the store's version-checked save so concurrent edits conflict
// instead of clobbering each other.
package projects

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/devinnolab/proplanner/internal/app/store/audit"
	projectstore "github.com/devinnolab/proplanner/internal/app/store/projects"
	"github.com/devinnolab/proplanner/internal/app/system/auditlog"
	"github.com/devinnolab/proplanner/internal/app/system/auth"
	"github.com/devinnolab/proplanner/internal/app/system/httpjson"
	"github.com/devinnolab/proplanner/internal/app/system/timeouts"
	"github.com/devinnolab/proplanner/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler manages projects from the admin side.
type Handler struct {
	Projects *projectstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(store *projectstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Projects: store,
		AuditLog: audit,
		Log:      logger,
	}
}

// projectView is the admin JSON projection: the full aggregate plus the
// derived progress percentage.
type projectView struct {
	*models.Project
	ProjectID string  `json:"id"`
	Progress  float64 `json:"progress"`
}

func toView(p *models.Project) projectView {
	return projectView{
		Project:   p,
		ProjectID: p.HexID(),
		Progress:  p.Progress(),
	}
}

type createProjectRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	StartDate   time.Time `json:"startDate"`
	Deadline    time.Time `json:"deadline"`
}

type updateProjectRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	StartDate   time.Time `json:"startDate"`
	Deadline    time.Time `json:"deadline"`
}

type moduleRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
}

type addModulesBatchRequest struct {
	Modules []models.ModuleInput `json:"modules"`
}

type partsRequest struct {
	Parts []models.Part `json:"parts"`
}

type changeRequestStatusRequest struct {
	Status string `json:"status"`
}

type requirementRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type documentRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// HandleList handles GET /projects, newest start date first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	all, err := h.Projects.List(ctx)
	if err != nil {
		h.Log.Error("projects: list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Ocurrió un error inesperado.")
		return
	}

	views := make([]projectView, 0, len(all))
	for i := range all {
		views = append(views, toView(&all[i]))
	}
	httpjson.Write(w, http.StatusOK, views)
}

// HandleCreate handles POST /projects. The aggregate seeds its own
// shareable link and creation event.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	if req.Name == "" {
		httpjson.Error(w, http.StatusBadRequest, "El nombre del proyecto es obligatorio.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p := models.NewProject(req.Name, req.Description, req.Status, req.StartDate, req.Deadline)
	if err := h.Projects.Insert(ctx, p); err != nil {
		h.Log.Error("projects: insert failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Ocurrió un error inesperado.")
		return
	}

	h.audit(ctx, r, audit.EventProjectCreated, p.HexID(), nil)
	httpjson.Write(w, http.StatusCreated, toView(p))
}

// HandleGet handles GET /projects/{projectID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Projects.GetByID(ctx, chi.URLParam(r, "projectID"))
	if err != nil {
		h.respondErr(w, err, "projects: get failed")
		return
	}
	httpjson.Write(w, http.StatusOK, toView(p))
}

// HandleUpdate handles PUT /projects/{projectID}: the editable header
// fields only. Child collections have their own endpoints.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateProjectRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	if req.Name == "" {
		httpjson.Error(w, http.StatusBadRequest, "El nombre del proyecto es obligatorio.")
		return
	}

	h.mutate(w, r, func(p *models.Project) error {
		p.UpdateDetails(req.Name, req.Description, req.Status, req.StartDate, req.Deadline)
		return nil
	})
}

// HandleDelete handles DELETE /projects/{projectID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Projects.Delete(ctx, projectID); err != nil {
		h.respondErr(w, err, "projects: delete failed")
		return
	}

	h.audit(ctx, r, audit.EventProjectDeleted, projectID, nil)
	httpjson.Write(w, http.StatusOK, map[string]bool{"success": true})
}

// --- Modules ---

// HandleAddModule handles POST /projects/{projectID}/modules.
func (h *Handler) HandleAddModule(w http.ResponseWriter, r *http.Request) {
	var req moduleRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	if req.Name == "" {
		httpjson.Error(w, http.StatusBadRequest, "El nombre del módulo es obligatorio.")
		return
	}

	h.mutate(w, r, func(p *models.Project) error {
		p.AddModule(req.Name, req.Description, req.Deadline)
		return nil
	})
}

// HandleAddModulesBatch handles POST /projects/{projectID}/modules/batch.
// Used by the AI breakdown flow: one system-attributed ledger event for
// the whole batch.
func (h *Handler) HandleAddModulesBatch(w http.ResponseWriter, r *http.Request) {
	var req addModulesBatchRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	if len(req.Modules) == 0 {
		httpjson.Error(w, http.StatusBadRequest, "Se requiere al menos un módulo.")
		return
	}

	h.mutate(w, r, func(p *models.Project) error {
		p.AddModulesBatch(req.Modules)
		return nil
	})
}

// HandleUpdateModule handles PUT /projects/{projectID}/modules/{moduleID}.
func (h *Handler) HandleUpdateModule(w http.ResponseWriter, r *http.Request) {
	var updated models.Module
	if err := httpjson.Decode(r, &updated); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	updated.ID = chi.URLParam(r, "moduleID")

	h.mutate(w, r, func(p *models.Project) error {
		return p.ReplaceModule(updated)
	})
}

// HandleDeleteModule handles DELETE /projects/{projectID}/modules/{moduleID}.
func (h *Handler) HandleDeleteModule(w http.ResponseWriter, r *http.Request) {
	moduleID := chi.URLParam(r, "moduleID")
	h.mutate(w, r, func(p *models.Project) error {
		return p.RemoveModule(moduleID)
	})
}

// HandleUpdateParts handles PUT /projects/{projectID}/modules/{moduleID}/parts.
func (h *Handler) HandleUpdateParts(w http.ResponseWriter, r *http.Request) {
	var req partsRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	moduleID := chi.URLParam(r, "moduleID")

	h.mutate(w, r, func(p *models.Project) error {
		return p.ReplaceModuleParts(moduleID, req.Parts)
	})
}

// HandleApproveModule handles POST /projects/{projectID}/modules/{moduleID}/approve.
func (h *Handler) HandleApproveModule(w http.ResponseWriter, r *http.Request) {
	moduleID := chi.URLParam(r, "moduleID")
	h.mutate(w, r, func(p *models.Project) error {
		return p.ApproveModule(moduleID, models.ActorAdmin)
	})
}

// --- Change requests ---

// HandleUpdateChangeRequest handles
// PATCH /projects/{projectID}/change-requests/{requestID}.
func (h *Handler) HandleUpdateChangeRequest(w http.ResponseWriter, r *http.Request) {
	var req changeRequestStatusRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	if req.Status != models.ChangeRequestApproved && req.Status != models.ChangeRequestRejected {
		httpjson.Error(w, http.StatusBadRequest, "Estado de solicitud inválido.")
		return
	}
	requestID := chi.URLParam(r, "requestID")

	h.mutate(w, r, func(p *models.Project) error {
		return p.UpdateChangeRequestStatus(requestID, req.Status)
	})
}

// --- Initial requirements ---

// HandleAddRequirement handles POST /projects/{projectID}/requirements.
func (h *Handler) HandleAddRequirement(w http.ResponseWriter, r *http.Request) {
	var req requirementRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	if req.Title == "" {
		httpjson.Error(w, http.StatusBadRequest, "El título del requisito es obligatorio.")
		return
	}

	h.mutate(w, r, func(p *models.Project) error {
		p.AddRequirement(req.Title, req.Description)
		return nil
	})
}

// HandleUpdateRequirement handles PUT /projects/{projectID}/requirements/{requirementID}.
func (h *Handler) HandleUpdateRequirement(w http.ResponseWriter, r *http.Request) {
	var req requirementRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	updated := models.Requirement{
		ID:          chi.URLParam(r, "requirementID"),
		Title:       req.Title,
		Description: req.Description,
	}

	h.mutate(w, r, func(p *models.Project) error {
		return p.ReplaceRequirement(updated)
	})
}

// HandleDeleteRequirement handles DELETE /projects/{projectID}/requirements/{requirementID}.
func (h *Handler) HandleDeleteRequirement(w http.ResponseWriter, r *http.Request) {
	requirementID := chi.URLParam(r, "requirementID")
	h.mutate(w, r, func(p *models.Project) error {
		return p.RemoveRequirement(requirementID)
	})
}

// --- Documents ---

// HandleAddDocument handles POST /projects/{projectID}/documents.
func (h *Handler) HandleAddDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}
	if req.Name == "" || req.URL == "" {
		httpjson.Error(w, http.StatusBadRequest, "Nombre y URL del documento son obligatorios.")
		return
	}

	h.mutate(w, r, func(p *models.Project) error {
		p.AddDocument(req.Name, req.URL)
		return nil
	})
}

// mutate runs fn against the aggregate under the version guard and
// answers with the refreshed projection.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, fn func(*models.Project) error) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Projects.Mutate(ctx, chi.URLParam(r, "projectID"), fn)
	if err != nil {
		h.respondErr(w, err, "projects: mutation failed")
		return
	}
	httpjson.Write(w, http.StatusOK, toView(p))
}

func (h *Handler) respondErr(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, projectstore.ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, "Proyecto no encontrado.")
	case errors.Is(err, models.ErrModuleNotFound):
		httpjson.Error(w, http.StatusNotFound, "Módulo no encontrado.")
	case errors.Is(err, models.ErrPartNotFound):
		httpjson.Error(w, http.StatusNotFound, "Tarea no encontrada.")
	case errors.Is(err, models.ErrChangeRequestNotFound):
		httpjson.Error(w, http.StatusNotFound, "Solicitud no encontrada.")
	case errors.Is(err, models.ErrRequirementNotFound):
		httpjson.Error(w, http.StatusNotFound, "Requisito no encontrado.")
	case errors.Is(err, projectstore.ErrVersionConflict):
		httpjson.Error(w, http.StatusConflict, "El proyecto fue modificado por otra operación. Vuelve a intentarlo.")
	default:
		h.Log.Error(logMsg, zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Ocurrió un error inesperado.")
	}
}

func (h *Handler) audit(ctx context.Context, r *http.Request, eventType, entityID string, details map[string]string) {
	actorID := ""
	if u, ok := auth.CurrentUser(r); ok {
		actorID = u.ID
	}
	h.AuditLog.AdminAction(ctx, r, eventType, actorID, entityID, details)
}
