package leadstore_test

import (
	"strings"
	"testing"

	leadstore "github.com/devinnolab/proplanner/internal/app/store/leads"
	"github.com/devinnolab/proplanner/internal/domain/models"
	"github.com/devinnolab/proplanner/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCreateLead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := leadstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	lead, err := store.Create(ctx, "  Carlos Vega ", "CARLOS@Example.com", "Vega SA")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if lead.ID.IsZero() {
		t.Error("expected a canonical ObjectID at creation")
	}
	if lead.Status != models.LeadStatusNew {
		t.Errorf("expected status %q, got %q", models.LeadStatusNew, lead.Status)
	}
	if lead.Name != "Carlos Vega" || lead.Email != "carlos@example.com" {
		t.Errorf("contact fields not normalized: %q / %q", lead.Name, lead.Email)
	}
	want := models.FormLinkFor(lead.ID.Hex())
	if lead.FormLink != want {
		t.Errorf("form link %q, want %q", lead.FormLink, want)
	}
	if !strings.Contains(lead.FormLink, lead.ID.Hex()) {
		t.Errorf("form link %q does not embed the lead id", lead.FormLink)
	}
}

func TestResolveTiers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := leadstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	modern := fx.CreateLead(ctx, "Moderna", "moderna@example.com", "")
	legacy := fx.CreateLegacyLead(ctx, "lead-legacy-123", "Antigua", "antigua@example.com")

	got, err := store.Resolve(ctx, modern.ID.Hex())
	if err != nil {
		t.Fatalf("Resolve by ObjectID failed: %v", err)
	}
	if got.Email != "moderna@example.com" {
		t.Errorf("resolved wrong lead: %q", got.Email)
	}

	got, err = store.Resolve(ctx, "lead-legacy-123")
	if err != nil {
		t.Fatalf("Resolve by legacy id failed: %v", err)
	}
	if got.Email != "antigua@example.com" {
		t.Errorf("resolved wrong lead: %q", got.Email)
	}
	if got.LegacyID != legacy.LegacyID {
		t.Errorf("legacy id %q, want %q", got.LegacyID, legacy.LegacyID)
	}

	if _, err := store.Resolve(ctx, "no-such-lead"); err != leadstore.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveByFormLinkDoesNotRewrite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := leadstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	// A record whose stored ids diverged from the id embedded in the
	// link it was sent out with.
	lead := fx.CreateLegacyLead(ctx, "internal-id-1", "Divergente", "div@example.com")
	linkID := "mailed-out-id-9"
	wantLink := models.FormLinkFor(linkID)
	if _, err := db.Collection("leads").UpdateOne(ctx,
		bson.M{"id": lead.LegacyID},
		bson.M{"$set": bson.M{"formLink": wantLink}},
	); err != nil {
		t.Fatalf("failed to adjust fixture: %v", err)
	}

	got, err := store.Resolve(ctx, linkID)
	if err != nil {
		t.Fatalf("Resolve via form link failed: %v", err)
	}
	if got.LegacyID != "internal-id-1" {
		t.Errorf("resolved wrong lead: %q", got.LegacyID)
	}

	// The stored record keeps its original ids.
	stored, err := store.GetByID(ctx, "internal-id-1")
	if err != nil {
		t.Fatalf("GetByID after resolve failed: %v", err)
	}
	if stored.FormLink != wantLink {
		t.Errorf("form link rewritten to %q", stored.FormLink)
	}
}

func TestMarkSubmitted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := leadstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	lead := fx.CreateLead(ctx, "Antes", "antes@example.com", "")
	err := store.MarkSubmitted(ctx, &lead, models.ContactInfo{
		Name:    "Despues Martinez",
		Email:   "Despues@Example.com",
		Company: "Martinez SL",
	})
	if err != nil {
		t.Fatalf("MarkSubmitted failed: %v", err)
	}

	got, err := store.GetByID(ctx, lead.ID.Hex())
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.LeadStatusProposal {
		t.Errorf("status %q, want %q", got.Status, models.LeadStatusProposal)
	}
	if got.Name != "Despues Martinez" || got.Email != "despues@example.com" || got.Company != "Martinez SL" {
		t.Errorf("contact fields not refreshed: %+v", got)
	}
	if got.FormLink != lead.FormLink {
		t.Errorf("form link changed to %q", got.FormLink)
	}
}

func TestDeleteLead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := leadstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	lead := fx.CreateLead(ctx, "Borrar", "borrar@example.com", "")
	if err := store.Delete(ctx, lead.ID.Hex()); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, lead.ID.Hex()); err != leadstore.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, lead.ID.Hex()); err != leadstore.ErrNotFound {
		t.Errorf("double delete: expected ErrNotFound, got %v", err)
	}
}
