package portal_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/devinnolab/proplanner/internal/app/features/portal"
	projectstore "github.com/devinnolab/proplanner/internal/app/store/projects"
	"github.com/devinnolab/proplanner/internal/domain/models"
	"github.com/devinnolab/proplanner/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func seedProjectWithModule(t *testing.T, ctx context.Context, db *mongo.Database) *models.Project {
	t.Helper()
	store := projectstore.New(db)
	p := testutil.NewFixtures(t, db).CreateProject(ctx, "Portal de Cliente")
	updated, err := store.Mutate(ctx, p.ID.Hex(), func(proj *models.Project) error {
		m := proj.AddModule("Diseño", "Mockups y estilos", p.Deadline)
		return proj.ReplaceModuleParts(m.ID, []models.Part{
			{Name: "Wireframes"},
			{Name: "Paleta de colores"},
		})
	})
	if err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	return updated
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var view map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("bad response body: %v (%s)", err, rec.Body.String())
	}
	return view
}

func TestViewHidesInternalFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := portal.NewHandler(projectstore.New(db), zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := seedProjectWithModule(t, ctx, db)

	req := httptest.NewRequest(http.MethodGet, "/api/portal/"+p.ShareableLinkID, nil)
	req = testutil.WithChiURLParam(req, "linkID", p.ShareableLinkID)
	rec := httptest.NewRecorder()
	h.HandleView(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	view := decodeView(t, rec)
	if _, ok := view["id"]; ok {
		t.Error("portal view must not expose the internal project id")
	}
	if _, ok := view["version"]; ok {
		t.Error("portal view must not expose the version token")
	}
	if _, ok := view["shareableLinkId"]; ok {
		t.Error("portal view must not echo the link id")
	}
	var name string
	if err := json.Unmarshal(view["name"], &name); err != nil || name != "Portal de Cliente" {
		t.Errorf("name %q (%v)", name, err)
	}
}

func TestViewUnknownLink(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := portal.NewHandler(projectstore.New(db), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/portal/client-link-nope", nil)
	req = testutil.WithChiURLParam(req, "linkID", "client-link-nope")
	rec := httptest.NewRecorder()
	h.HandleView(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Proyecto no encontrado.") {
		t.Errorf("body %s", rec.Body.String())
	}
}

func TestClientApprovesModule(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := portal.NewHandler(projectstore.New(db), zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := seedProjectWithModule(t, ctx, db)
	moduleID := p.Modules[0].ID

	url := "/api/portal/" + p.ShareableLinkID + "/modules/" + moduleID + "/approve"
	req := httptest.NewRequest(http.MethodPost, url, nil)
	req = testutil.WithChiURLParam(req, "linkID", p.ShareableLinkID)
	req = testutil.WithChiURLParam(req, "moduleID", moduleID)
	rec := httptest.NewRecorder()
	h.HandleApproveModule(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}

	stored, err := projectstore.New(db).GetByShareableLinkID(ctx, p.ShareableLinkID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stored.Modules[0].Status != models.ModuleStatusComplete {
		t.Errorf("module status %q, want %q", stored.Modules[0].Status, models.ModuleStatusComplete)
	}
	newest := stored.TimelineEvents[0]
	if newest.Actor != models.ActorClient {
		t.Errorf("ledger actor %q, want %q", newest.Actor, models.ActorClient)
	}
	if newest.EventDescription != `El cliente ha aprobado el módulo: "Diseño"` {
		t.Errorf("ledger description %q", newest.EventDescription)
	}
}

func TestClientApprovesPart(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := portal.NewHandler(projectstore.New(db), zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := seedProjectWithModule(t, ctx, db)
	moduleID := p.Modules[0].ID
	partID := p.Modules[0].Parts[0].ID

	url := "/api/portal/" + p.ShareableLinkID + "/modules/" + moduleID + "/parts/" + partID + "/approve"
	req := httptest.NewRequest(http.MethodPost, url, nil)
	req = testutil.WithChiURLParam(req, "linkID", p.ShareableLinkID)
	req = testutil.WithChiURLParam(req, "moduleID", moduleID)
	req = testutil.WithChiURLParam(req, "partID", partID)
	rec := httptest.NewRecorder()
	h.HandleApprovePart(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}

	stored, err := projectstore.New(db).GetByShareableLinkID(ctx, p.ShareableLinkID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stored.Modules[0].Parts[0].Status != models.ModuleStatusComplete {
		t.Errorf("part status %q", stored.Modules[0].Parts[0].Status)
	}
	if stored.Modules[0].Status != models.ModuleStatusPending {
		t.Errorf("approving one task must not complete the module, got %q", stored.Modules[0].Status)
	}
	want := `El cliente ha aprobado la tarea: "Wireframes" en el módulo "Diseño"`
	if stored.TimelineEvents[0].EventDescription != want {
		t.Errorf("ledger description %q, want %q", stored.TimelineEvents[0].EventDescription, want)
	}
}

func TestClientSubmitsChangeRequest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := portal.NewHandler(projectstore.New(db), zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := seedProjectWithModule(t, ctx, db)

	body := `{"requestDetails": "Quiero <b>otro</b> color de fondo"}`
	url := "/api/portal/" + p.ShareableLinkID + "/change-requests"
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithChiURLParam(req, "linkID", p.ShareableLinkID)
	rec := httptest.NewRecorder()
	h.HandleAddChangeRequest(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}

	stored, err := projectstore.New(db).GetByShareableLinkID(ctx, p.ShareableLinkID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(stored.ChangeRequests) != 1 {
		t.Fatalf("expected one change request, got %d", len(stored.ChangeRequests))
	}
	cr := stored.ChangeRequests[0]
	if cr.Status != models.ChangeRequestPending {
		t.Errorf("status %q, want %q", cr.Status, models.ChangeRequestPending)
	}
	if cr.RequestDetails != "Quiero otro color de fondo" {
		t.Errorf("markup not stripped: %q", cr.RequestDetails)
	}
	newest := stored.TimelineEvents[0]
	if newest.Actor != models.ActorClient {
		t.Errorf("ledger actor %q", newest.Actor)
	}
	if newest.EventDescription != "El cliente ha enviado una nueva solicitud de cambio." {
		t.Errorf("ledger description %q", newest.EventDescription)
	}
}

func TestChangeRequestRequiresDetails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := portal.NewHandler(projectstore.New(db), zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := seedProjectWithModule(t, ctx, db)

	body := `{"requestDetails": "<script>solo markup</script>"}`
	url := "/api/portal/" + p.ShareableLinkID + "/change-requests"
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithChiURLParam(req, "linkID", p.ShareableLinkID)
	rec := httptest.NewRecorder()
	h.HandleAddChangeRequest(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Los detalles de la solicitud son obligatorios.") {
		t.Errorf("body %s", rec.Body.String())
	}
}

func TestApproveUnknownModule(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := portal.NewHandler(projectstore.New(db), zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := seedProjectWithModule(t, ctx, db)

	url := "/api/portal/" + p.ShareableLinkID + "/modules/mod-nope/approve"
	req := httptest.NewRequest(http.MethodPost, url, nil)
	req = testutil.WithChiURLParam(req, "linkID", p.ShareableLinkID)
	req = testutil.WithChiURLParam(req, "moduleID", "mod-nope")
	rec := httptest.NewRecorder()
	h.HandleApproveModule(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Módulo no encontrado.") {
		t.Errorf("body %s", rec.Body.String())
	}
}
