package userstore_test

import (
	"testing"

	userstore "github.com/devinnolab/proplanner/internal/app/store/users"
	"github.com/devinnolab/proplanner/internal/testutil"
)

func TestCreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, "  Ana Torres  ", "ANA@Example.COM", "secret123", true)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("expected created user to have an ObjectID")
	}
	if created.Name != "Ana Torres" {
		t.Errorf("expected trimmed name, got %q", created.Name)
	}
	if created.Email != "ana@example.com" {
		t.Errorf("expected lowercased email, got %q", created.Email)
	}
	if created.PasswordHash == "secret123" || created.PasswordHash == "" {
		t.Error("password must be stored as a hash")
	}

	byEmail, err := store.GetByEmail(ctx, "Ana@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if byEmail.HexID() != created.HexID() {
		t.Errorf("GetByEmail returned wrong user: %s", byEmail.HexID())
	}

	byID, err := store.GetByID(ctx, created.HexID())
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if byID.Email != "ana@example.com" {
		t.Errorf("GetByID returned wrong user: %s", byID.Email)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "Primero", "dup@example.com", "pass1", true); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if _, err := store.Create(ctx, "Segundo", "DUP@example.com", "pass2", true); err != userstore.ErrDuplicateEmail {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestVerifyPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, "Ana", "ana@example.com", "correct-horse", true)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := userstore.VerifyPassword(&u, "correct-horse"); err != nil {
		t.Errorf("expected matching password to verify, got %v", err)
	}
	if err := userstore.VerifyPassword(&u, "wrong"); err != userstore.ErrWrongPassword {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
}

func TestUpdateUserKeepsHashOnBlankPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, "Ana", "ana@example.com", "original", true)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := store.UpdateUser(ctx, u.HexID(), userstore.Update{
		Name:   "Ana Renombrada",
		Email:  "ana.nueva@example.com",
		Active: true,
	})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.Name != "Ana Renombrada" || updated.Email != "ana.nueva@example.com" {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.PasswordHash != u.PasswordHash {
		t.Error("blank password must keep the existing hash")
	}
	if !updated.CreatedAt.Equal(u.CreatedAt) {
		t.Errorf("created_at changed: %v vs %v", updated.CreatedAt, u.CreatedAt)
	}

	withNewPassword, err := store.UpdateUser(ctx, u.HexID(), userstore.Update{
		Name:     updated.Name,
		Email:    updated.Email,
		Password: "brand-new",
		Active:   true,
	})
	if err != nil {
		t.Fatalf("UpdateUser with password failed: %v", err)
	}
	if withNewPassword.PasswordHash == u.PasswordHash {
		t.Error("expected a new hash when a password is supplied")
	}
	if err := userstore.VerifyPassword(&withNewPassword, "brand-new"); err != nil {
		t.Errorf("new password does not verify: %v", err)
	}
}

func TestUpdateUserRejectsTakenEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Create(ctx, "Ana", "ana@example.com", "pass", true)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, "Beto", "beto@example.com", "pass", true); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = store.UpdateUser(ctx, a.HexID(), userstore.Update{
		Name:   "Ana",
		Email:  "beto@example.com",
		Active: true,
	})
	if err != userstore.ErrDuplicateEmail {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestLastActiveUserGuard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	only, err := store.Create(ctx, "Unica", "unica@example.com", "pass", true)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Delete(ctx, only.HexID()); err != userstore.ErrLastActiveUser {
		t.Errorf("Delete of last active user: expected ErrLastActiveUser, got %v", err)
	}
	if _, err := store.SetActive(ctx, only.HexID(), false); err != userstore.ErrLastActiveUser {
		t.Errorf("SetActive(false) on last active user: expected ErrLastActiveUser, got %v", err)
	}

	// An inactive user does not lift the guard.
	if _, err := store.Create(ctx, "Dormida", "dormida@example.com", "pass", false); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Delete(ctx, only.HexID()); err != userstore.ErrLastActiveUser {
		t.Errorf("expected guard to ignore inactive users, got %v", err)
	}

	// A second active user does.
	second, err := store.Create(ctx, "Segunda", "segunda@example.com", "pass", true)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Delete(ctx, only.HexID()); err != nil {
		t.Errorf("Delete with another active user should succeed, got %v", err)
	}
	if _, err := store.GetByID(ctx, only.HexID()); err != userstore.ErrNotFound {
		t.Errorf("deleted user still found: %v", err)
	}

	toggled, err := store.SetActive(ctx, second.HexID(), true)
	if err != nil {
		t.Fatalf("SetActive(true) failed: %v", err)
	}
	if !toggled.Active {
		t.Error("expected user to remain active")
	}
}

func TestFetcherHonorsActiveFlag(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	fetcher := userstore.NewFetcher(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	active := fx.CreateUser(ctx, "Activa", "activa@example.com", "pass")
	inactive := fx.CreateInactiveUser(ctx, "Inactiva", "inactiva@example.com", "pass")

	su, err := fetcher.FetchSessionUser(ctx, active.HexID())
	if err != nil {
		t.Fatalf("FetchSessionUser failed: %v", err)
	}
	if su == nil || su.Email != "activa@example.com" {
		t.Errorf("expected session user for active account, got %+v", su)
	}

	su, err = fetcher.FetchSessionUser(ctx, inactive.HexID())
	if err != nil {
		t.Fatalf("FetchSessionUser failed: %v", err)
	}
	if su != nil {
		t.Errorf("inactive user must not yield a session user, got %+v", su)
	}

	su, err = fetcher.FetchSessionUser(ctx, "64b0000000000000000000ff")
	if err != nil {
		t.Fatalf("FetchSessionUser failed: %v", err)
	}
	if su != nil {
		t.Errorf("missing user must not yield a session user, got %+v", su)
	}
}
