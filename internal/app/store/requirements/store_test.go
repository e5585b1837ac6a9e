package requirements_test

import (
	"testing"

	reqstore "github.com/devinnolab/proplanner/internal/app/store/requirements"
	"github.com/devinnolab/proplanner/internal/domain/models"
	"github.com/devinnolab/proplanner/internal/testutil"
)

func submission(leadID, projectName string) models.ClientRequirements {
	return models.ClientRequirements{
		LeadID: leadID,
		ContactInfo: models.ContactInfo{
			ClientType: "empresa",
			Name:       "Cliente",
			Email:      "cliente@example.com",
		},
		ProjectInfo: models.ProjectInfo{
			ProjectName: projectName,
			ProjectIdea: "Una idea",
		},
	}
}

func TestUpsertInsertsThenReplaces(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := reqstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, err := store.Upsert(ctx, submission("lead-1", "Primera Version"))
	if err != nil {
		t.Fatalf("Upsert insert failed: %v", err)
	}
	if first.ID.IsZero() {
		t.Error("expected inserted submission to carry an id")
	}
	if first.SubmittedAt.IsZero() {
		t.Error("expected SubmittedAt to be stamped on insert")
	}

	second, err := store.Upsert(ctx, submission("lead-1", "Segunda Version"))
	if err != nil {
		t.Fatalf("Upsert replace failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("resubmission changed the document id: %s vs %s", second.ID.Hex(), first.ID.Hex())
	}
	if !second.SubmittedAt.Equal(first.SubmittedAt) {
		t.Errorf("resubmission changed SubmittedAt: %v vs %v", second.SubmittedAt, first.SubmittedAt)
	}
	if second.ProjectInfo.ProjectName != "Segunda Version" {
		t.Errorf("resubmission did not replace content: %q", second.ProjectInfo.ProjectName)
	}

	stored, err := store.GetByLeadID(ctx, "lead-1")
	if err != nil {
		t.Fatalf("GetByLeadID failed: %v", err)
	}
	if stored.ProjectInfo.ProjectName != "Segunda Version" {
		t.Errorf("stored submission %q, want %q", stored.ProjectInfo.ProjectName, "Segunda Version")
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected exactly one document per lead, got %d", len(all))
	}
}

func TestGetByLeadIDNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := reqstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByLeadID(ctx, "nobody"); err != reqstore.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteByLeadID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := reqstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Upsert(ctx, submission("lead-del", "Proyecto")); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := store.DeleteByLeadID(ctx, "lead-del"); err != nil {
		t.Fatalf("DeleteByLeadID failed: %v", err)
	}
	if _, err := store.GetByLeadID(ctx, "lead-del"); err != reqstore.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a lead with no submission is a no-op.
	if err := store.DeleteByLeadID(ctx, "lead-del"); err != nil {
		t.Errorf("DeleteByLeadID on empty set: %v", err)
	}
}
