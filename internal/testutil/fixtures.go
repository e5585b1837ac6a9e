package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/devinnolab/proplanner/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts an active user with the given credentials.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, password string) models.User {
	f.t.Helper()
	return f.createUser(ctx, name, email, password, true)
}

// CreateInactiveUser inserts a deactivated user.
func (f *Fixtures) CreateInactiveUser(ctx context.Context, name, email, password string) models.User {
	f.t.Helper()
	return f.createUser(ctx, name, email, password, false)
}

func (f *Fixtures) createUser(ctx context.Context, name, email, password string, active bool) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash test password: %v", err)
	}

	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Active:       active,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateLead inserts a lead in Nuevo status with a derived form link.
func (f *Fixtures) CreateLead(ctx context.Context, name, email, company string) models.Lead {
	f.t.Helper()

	id := primitive.NewObjectID()
	l := models.Lead{
		ID:        id,
		Name:      name,
		Email:     email,
		Company:   company,
		Status:    models.LeadStatusNew,
		FormLink:  models.FormLinkFor(id.Hex()),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("leads").InsertOne(ctx, l); err != nil {
		f.t.Fatalf("failed to create test lead: %v", err)
	}
	return l
}

// CreateLegacyLead inserts a lead that only has a legacy string id, the
// shape records created before ObjectIDs became canonical have.
func (f *Fixtures) CreateLegacyLead(ctx context.Context, legacyID, name, email string) models.Lead {
	f.t.Helper()

	l := models.Lead{
		LegacyID:  legacyID,
		Name:      name,
		Email:     email,
		Status:    models.LeadStatusNew,
		FormLink:  models.FormLinkFor(legacyID),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("leads").InsertOne(ctx, l); err != nil {
		f.t.Fatalf("failed to create test legacy lead: %v", err)
	}
	return l
}

// CreateProject inserts a fresh project aggregate.
func (f *Fixtures) CreateProject(ctx context.Context, name string) *models.Project {
	f.t.Helper()

	p := models.NewProject(name, "", "", time.Now().UTC(), time.Now().UTC().AddDate(0, 3, 0))
	p.ID = primitive.NewObjectID()
	p.Version = 1
	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// CreateRequirements inserts a submitted form document for a lead.
func (f *Fixtures) CreateRequirements(ctx context.Context, leadID string) models.ClientRequirements {
	f.t.Helper()

	req := models.ClientRequirements{
		ID:          primitive.NewObjectID(),
		LeadID:      leadID,
		SubmittedAt: time.Now().UTC(),
		ContactInfo: models.ContactInfo{
			ClientType: "empresa",
			Name:       "Cliente de Prueba",
			Email:      "cliente@example.com",
		},
		ProjectInfo: models.ProjectInfo{
			ProjectName: "Proyecto de Prueba",
			ProjectIdea: "Una tienda online",
		},
	}
	if _, err := f.db.Collection("clientRequirements").InsertOne(ctx, req); err != nil {
		f.t.Fatalf("failed to create test requirements: %v", err)
	}
	return req
}
