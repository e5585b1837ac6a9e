// internal/app/features/leadform/handler.go
//
// The public requirements form: prospects open the unique link the
// admin sent them, fill in the multi-step form and submit. No session
// is involved; the lead id in the URL is the only credential.
package leadform

import (
	"context"
	"errors"
	"net/http"

	"github.com/devinnolab/proplanner/internal/app/store/audit"
	leadstore "github.com/devinnolab/proplanner/internal/app/store/leads"
	reqstore "github.com/devinnolab/proplanner/internal/app/store/requirements"
	"github.com/devinnolab/proplanner/internal/app/system/auditlog"
	"github.com/devinnolab/proplanner/internal/app/system/htmlsanitize"
	"github.com/devinnolab/proplanner/internal/app/system/httpjson"
	"github.com/devinnolab/proplanner/internal/app/system/mailer"
	"github.com/devinnolab/proplanner/internal/app/system/normalize"
	"github.com/devinnolab/proplanner/internal/app/system/timeouts"
	"github.com/devinnolab/proplanner/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the public intake form.
type Handler struct {
	Leads        *leadstore.Store
	Requirements *reqstore.Store
	Mailer       *mailer.Mailer
	AuditLog     *auditlog.Logger
	SiteName     string
	NotifyEmail  string
	Log          *zap.Logger
}

func NewHandler(
	leads *leadstore.Store,
	requirements *reqstore.Store,
	mail *mailer.Mailer,
	audit *auditlog.Logger,
	siteName string,
	notifyEmail string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Leads:        leads,
		Requirements: requirements,
		Mailer:       mail,
		AuditLog:     audit,
		SiteName:     siteName,
		NotifyEmail:  notifyEmail,
		Log:          logger,
	}
}

// formInfoView is what the form page needs to render its greeting and
// prefill the contact step.
type formInfoView struct {
	LeadID  string `json:"leadId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Status  string `json:"status"`
}

// HandleGetForm handles GET /leads/{leadID}/form. The lead id may be a
// canonical id, a legacy string id, or only resolvable through the
// stored form link, so resolution goes through all tiers.
func (h *Handler) HandleGetForm(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	lead, err := h.Leads.Resolve(ctx, leadID)
	if err != nil {
		if errors.Is(err, leadstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "Lead no encontrado.")
			return
		}
		h.Log.Error("leadform: resolve failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Error interno del servidor.")
		return
	}

	httpjson.Write(w, http.StatusOK, formInfoView{
		LeadID:  lead.HexID(),
		Name:    lead.Name,
		Email:   lead.Email,
		Company: lead.Company,
		Status:  lead.Status,
	})
}

// HandleSubmit handles POST /leads/{leadID}/form.
//
// Resubmissions replace the stored answers but keep the original
// submission time. Emails are best effort: a broken SMTP setup never
// loses a submission.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	var req models.ClientRequirements
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido.")
		return
	}

	req.ContactInfo.Name = normalize.Name(req.ContactInfo.Name)
	req.ContactInfo.Email = normalize.Email(req.ContactInfo.Email)
	if req.ContactInfo.Name == "" || req.ContactInfo.Email == "" {
		httpjson.Error(w, http.StatusBadRequest, "Nombre y email de contacto son obligatorios.")
		return
	}
	sanitize(&req)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	lead, err := h.Leads.Resolve(ctx, leadID)
	if err != nil {
		if errors.Is(err, leadstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "Lead no encontrado.")
			return
		}
		h.Log.Error("leadform: resolve failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Error interno del servidor.")
		return
	}

	req.ID = primitive.NilObjectID
	req.LeadID = lead.HexID()

	saved, err := h.Requirements.Upsert(ctx, req)
	if err != nil {
		h.Log.Error("leadform: save failed", zap.Error(err), zap.String("lead_id", lead.HexID()))
		httpjson.Error(w, http.StatusInternalServerError, "No se pudo guardar el formulario.")
		return
	}

	if err := h.Leads.MarkSubmitted(ctx, lead, saved.ContactInfo); err != nil {
		h.Log.Error("leadform: lead update failed", zap.Error(err), zap.String("lead_id", lead.HexID()))
		httpjson.Error(w, http.StatusInternalServerError, "No se pudo actualizar el lead.")
		return
	}

	h.sendEmails(saved)

	h.AuditLog.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventLeadFormSubmitted,
		EntityID:  lead.HexID(),
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
		Success:   true,
	})

	httpjson.Write(w, http.StatusOK, map[string]any{
		"success": true,
		"leadId":  lead.HexID(),
	})
}

// sendEmails notifies the team and confirms receipt to the client.
// Failures are logged and swallowed.
func (h *Handler) sendEmails(req models.ClientRequirements) {
	if !h.Mailer.Enabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
	defer cancel()

	if h.NotifyEmail != "" {
		notif := mailer.BuildLeadNotificationEmail(req)
		notif.To = h.NotifyEmail
		if err := h.Mailer.Send(ctx, notif); err != nil {
			h.Log.Warn("leadform: notification email failed", zap.Error(err))
		}
	}

	conf := mailer.BuildClientConfirmationEmail(h.SiteName, req)
	if err := h.Mailer.Send(ctx, conf); err != nil {
		h.Log.Warn("leadform: confirmation email failed", zap.Error(err))
	}
}

// sanitize strips any markup from the free-text answers. Choice fields
// get the same treatment; it is a no-op for clean values.
func sanitize(req *models.ClientRequirements) {
	c := htmlsanitize.Clean

	req.ContactInfo.ClientType = c(req.ContactInfo.ClientType)
	req.ContactInfo.Name = c(req.ContactInfo.Name)
	req.ContactInfo.Company = c(req.ContactInfo.Company)
	req.ContactInfo.Phone = c(req.ContactInfo.Phone)

	req.ProjectInfo.ProjectName = c(req.ProjectInfo.ProjectName)
	req.ProjectInfo.ProjectIdea = c(req.ProjectInfo.ProjectIdea)
	req.ProjectInfo.TargetAudience = c(req.ProjectInfo.TargetAudience)
	req.ProjectInfo.MainGoals = htmlsanitize.CleanAll(req.ProjectInfo.MainGoals)
	req.ProjectInfo.Competitors = c(req.ProjectInfo.Competitors)
	req.ProjectInfo.Country = c(req.ProjectInfo.Country)

	req.ScopeAndFeatures.Platforms = htmlsanitize.CleanAll(req.ScopeAndFeatures.Platforms)
	req.ScopeAndFeatures.CommonFeatures = htmlsanitize.CleanAll(req.ScopeAndFeatures.CommonFeatures)
	req.ScopeAndFeatures.OtherFeatures = htmlsanitize.CleanAll(req.ScopeAndFeatures.OtherFeatures)

	req.DesignAndUX.HasBrandIdentity = c(req.DesignAndUX.HasBrandIdentity)
	req.DesignAndUX.DesignInspirations = htmlsanitize.CleanAll(req.DesignAndUX.DesignInspirations)
	req.DesignAndUX.LookAndFeel = c(req.DesignAndUX.LookAndFeel)

	req.ContentAndStrategy.MarketingPlan = c(req.ContentAndStrategy.MarketingPlan)
	req.ContentAndStrategy.Maintenance = c(req.ContentAndStrategy.Maintenance)

	for i := range req.Attachments {
		req.Attachments[i].Name = c(req.Attachments[i].Name)
	}
}
