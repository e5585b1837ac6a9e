package leadform_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/devinnolab/proplanner/internal/app/features/leadform"
	leadstore "github.com/devinnolab/proplanner/internal/app/store/leads"
	reqstore "github.com/devinnolab/proplanner/internal/app/store/requirements"
	"github.com/devinnolab/proplanner/internal/app/system/mailer"
	"github.com/devinnolab/proplanner/internal/domain/models"
	"github.com/devinnolab/proplanner/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(db *mongo.Database) *leadform.Handler {
	// No SMTP credentials, so submission never tries to send mail.
	m := mailer.New(mailer.Config{}, zap.NewNop())
	return leadform.NewHandler(leadstore.New(db), reqstore.New(db), m, nil, "ProPlanner", "equipo@example.com", zap.NewNop())
}

func TestGetFormInfo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := newHandler(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	lead := fx.CreateLead(ctx, "Carlos", "carlos@example.com", "Vega SA")

	req := httptest.NewRequest(http.MethodGet, "/api/leads/"+lead.ID.Hex()+"/form", nil)
	req = testutil.WithChiURLParam(req, "leadID", lead.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleGetForm(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	var view struct {
		LeadID  string `json:"leadId"`
		Name    string `json:"name"`
		Company string `json:"company"`
		Status  string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if view.LeadID != lead.ID.Hex() || view.Name != "Carlos" || view.Company != "Vega SA" {
		t.Errorf("unexpected form info: %+v", view)
	}
	if view.Status != models.LeadStatusNew {
		t.Errorf("status %q, want %q", view.Status, models.LeadStatusNew)
	}
}

func TestGetFormUnknownLead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/api/leads/desconocido/form", nil)
	req = testutil.WithChiURLParam(req, "leadID", "desconocido")
	rec := httptest.NewRecorder()
	h.HandleGetForm(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Lead no encontrado.") {
		t.Errorf("body %s", rec.Body.String())
	}
}

func TestSubmitStoresSanitizedForm(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := newHandler(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	lead := fx.CreateLead(ctx, "Carlos", "carlos@example.com", "")

	body := `{
		"contactInfo": {"clientType": "empresa", "name": "Carlos Vega", "email": "carlos@example.com", "company": "Vega SA"},
		"projectInfo": {"projectName": "Tienda <script>alert(1)</script>Online", "projectIdea": "Vender <b>zapatos</b>"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/leads/"+lead.ID.Hex()+"/form", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithChiURLParam(req, "leadID", lead.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}

	stored, err := reqstore.New(db).GetByLeadID(ctx, lead.ID.Hex())
	if err != nil {
		t.Fatalf("stored submission not found: %v", err)
	}
	if stored.ProjectInfo.ProjectName != "Tienda Online" {
		t.Errorf("markup not stripped: %q", stored.ProjectInfo.ProjectName)
	}
	if stored.ProjectInfo.ProjectIdea != "Vender zapatos" {
		t.Errorf("markup not stripped: %q", stored.ProjectInfo.ProjectIdea)
	}
	if stored.SubmittedAt.IsZero() {
		t.Error("expected SubmittedAt to be stamped")
	}

	updatedLead, err := leadstore.New(db).GetByID(ctx, lead.ID.Hex())
	if err != nil {
		t.Fatalf("lead lookup failed: %v", err)
	}
	if updatedLead.Status != models.LeadStatusProposal {
		t.Errorf("lead status %q, want %q", updatedLead.Status, models.LeadStatusProposal)
	}
	if updatedLead.Name != "Carlos Vega" || updatedLead.Company != "Vega SA" {
		t.Errorf("lead contact not refreshed: %+v", updatedLead)
	}
}

func TestResubmitKeepsOriginalTimestamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := newHandler(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	lead := fx.CreateLead(ctx, "Carlos", "carlos@example.com", "")

	submit := func(projectName string) {
		t.Helper()
		body := `{"contactInfo": {"name": "Carlos", "email": "carlos@example.com"}, "projectInfo": {"projectName": "` + projectName + `"}}`
		req := httptest.NewRequest(http.MethodPost, "/api/leads/"+lead.ID.Hex()+"/form", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req = testutil.WithChiURLParam(req, "leadID", lead.ID.Hex())
		rec := httptest.NewRecorder()
		h.HandleSubmit(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("submit %q: status %d, body %s", projectName, rec.Code, rec.Body.String())
		}
	}

	submit("Primera")
	first, err := reqstore.New(db).GetByLeadID(ctx, lead.ID.Hex())
	if err != nil {
		t.Fatalf("first submission not found: %v", err)
	}

	submit("Segunda")
	second, err := reqstore.New(db).GetByLeadID(ctx, lead.ID.Hex())
	if err != nil {
		t.Fatalf("second submission not found: %v", err)
	}
	if second.ProjectInfo.ProjectName != "Segunda" {
		t.Errorf("resubmission did not replace content: %q", second.ProjectInfo.ProjectName)
	}
	if !second.SubmittedAt.Equal(first.SubmittedAt) {
		t.Errorf("resubmission changed SubmittedAt: %v vs %v", second.SubmittedAt, first.SubmittedAt)
	}
}

func TestSubmitRequiresContact(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := newHandler(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	lead := fx.CreateLead(ctx, "Carlos", "carlos@example.com", "")

	body := `{"contactInfo": {"name": "", "email": ""}}`
	req := httptest.NewRequest(http.MethodPost, "/api/leads/"+lead.ID.Hex()+"/form", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithChiURLParam(req, "leadID", lead.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Nombre y email de contacto son obligatorios.") {
		t.Errorf("body %s", rec.Body.String())
	}
}
