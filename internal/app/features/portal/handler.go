// internal/app/features/portal/handler.go
//
// The client-facing portal. Everything here is keyed by the project's
// shareableLinkId; the internal project id never appears in a portal
// URL or response. Only the three client actions can mutate: approve a
// module, approve a task, submit a change request.
package portal

import (
	"context"
	"errors"
	"net/http"
	"time"

	projectstore "github.com/devinnolab/proplanner/internal/app/store/projects"
	"github.com/devinnolab/proplanner/internal/app/system/htmlsanitize"
	"github.com/devinnolab/proplanner/internal/app/system/httpjson"
	"github.com/devinnolab/proplanner/internal/app/system/timeouts"
	"github.com/devinnolab/proplanner/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the client portal.
type Handler struct {
	Projects *projectstore.Store
	Log      *zap.Logger
}

func NewHandler(store *projectstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Projects: store,
		Log:      logger,
	}
}

// portalView is the client's projection of the aggregate. No internal
// id, no version.
type portalView struct {
	Name                string                 `json:"name"`
	Description         string                 `json:"description,omitempty"`
	Status              string                 `json:"status"`
	StartDate           time.Time              `json:"startDate"`
	Deadline            time.Time              `json:"deadline"`
	Progress            float64                `json:"progress"`
	Modules             []models.Module        `json:"modules"`
	TimelineEvents      []models.TimelineEvent `json:"timelineEvents"`
	ChangeRequests      []models.ChangeRequest `json:"changeRequests"`
	InitialRequirements []models.Requirement   `json:"initialRequirements"`
	ProjectDocuments    []models.Document      `json:"projectDocuments"`
}

func toView(p *models.Project) portalView {
	return portalView{
		Name:                p.Name,
		Description:         p.Description,
		Status:              p.Status,
		StartDate:           p.StartDate,
		Deadline:            p.Deadline,
		Progress:            p.Progress(),
		Modules:             p.Modules,
		TimelineEvents:      p.TimelineEvents,
		ChangeRequests:      p.ChangeRequests,
		InitialRequirements: p.InitialRequirements,
		ProjectDocuments:    p.ProjectDocuments,
	}
}

type changeRequestPayload struct {
	RequestDetails string `json:"requestDetails"`
}

// HandleView handles GET /portal/{linkID}.
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Projects.GetByShareableLinkID(ctx, chi.URLParam(r, "linkID"))
	if err != nil {
		h.respondErr(w, err, "portal: lookup failed")
		return
	}
	httpjson.Write(w, http.StatusOK, toView(p))
}

// HandleApproveModule handles POST /portal/{linkID}/modules/{moduleID}/approve.
// The ledger records the client as the actor.
func (h *Handler) HandleApproveModule(w http.ResponseWriter, r *http.Request) {
	moduleID := chi.URLParam(r, "moduleID")
	h.mutate(w, r, func(p *models.Project) error {
		return p.ApproveModule(moduleID, models.ActorClient)
	})
}

// HandleApprovePart handles
// POST /portal/{linkID}/modules/{moduleID}/parts/{partID}/approve.
func (h *Handler) HandleApprovePart(w http.ResponseWriter, r *http.Request) {
	moduleID := chi.URLParam(r, "moduleID")
	partID := chi.URLParam(r, "partID")
	h.mutate(w, r, func(p *models.Project) error {
		return p.ApprovePart(moduleID, partID)
	})
}

// HandleAddChangeRequest handles POST /portal/{linkID}/change-requests.
func (h *Handler) HandleAddChangeRequest(w http.ResponseWriter, r *http.Request) {
	var payload changeRequestPayload
	if err := httpjson.Decode(r, &payload); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}

	details := htmlsanitize.Clean(payload.RequestDetails)
	if details == "" {
		httpjson.Error(w, http.StatusBadRequest, "Los detalles de la solicitud son obligatorios.")
		return
	}

	h.mutate(w, r, func(p *models.Project) error {
		p.AddChangeRequest(details)
		return nil
	})
}

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, fn func(*models.Project) error) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Projects.MutateByShareableLink(ctx, chi.URLParam(r, "linkID"), fn)
	if err != nil {
		h.respondErr(w, err, "portal: mutation failed")
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
	case errors.Is(err, projectstore.ErrVersionConflict):
		httpjson.Error(w, http.StatusConflict, "El proyecto fue modificado por otra operación. Vuelve a intentarlo.")
	default:
		h.Log.Error(logMsg, zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Ocurrió un error inesperado.")
	}
}
