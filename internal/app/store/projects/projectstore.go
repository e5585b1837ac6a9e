package projectstore

import (
	"context"
	"errors"

	"github.com/devinnolab/proplanner/internal/app/store/recordid"
	"github.com/devinnolab/proplanner/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no project matches under either key.
	ErrNotFound = errors.New("project not found")
	// ErrVersionConflict is returned when a Save loses a write race:
	// the aggregate changed between load and store. The caller retries
	// or reports the conflict; nothing is overwritten.
	ErrVersionConflict = errors.New("project was modified concurrently")
)

// Store persists Project aggregates. The whole document is written per
// mutation, guarded by the version token so concurrent edits cannot
// silently drop each other's changes.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

// EnsureIndexes creates the shareable-link lookup index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "shareableLinkId", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	})
	return err
}

// Insert stores a freshly built aggregate at version 1.
func (s *Store) Insert(ctx context.Context, p *models.Project) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.Version = 1
	_, err := s.c.InsertOne(ctx, p)
	return err
}

// GetByID loads a project by ObjectID hex or legacy string id.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, recordid.Filter(id)).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByShareableLinkID loads a project through its public portal key.
// The internal id is never used on this path.
func (s *Store) GetByShareableLinkID(ctx context.Context, linkID string) (*models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"shareableLinkId": linkID}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns all projects, newest start date first.
func (s *Store) List(ctx context.Context) ([]models.Project, error) {
	cursor, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Save writes the mutated aggregate back as one unit. The filter pins
// the version seen at load time; if another writer got there first the
// replace matches nothing and the caller gets ErrVersionConflict.
func (s *Store) Save(ctx context.Context, p *models.Project) error {
	loaded := p.Version
	p.Version = loaded + 1

	filter := s.keyFilter(p)
	// Documents written before versioning have no version field; treat
	// that the same as version 0.
	if loaded == 0 {
		filter["version"] = bson.M{"$in": bson.A{int64(0), nil}}
	} else {
		filter["version"] = loaded
	}

	res, err := s.c.ReplaceOne(ctx, filter, p)
	if err != nil {
		p.Version = loaded
		return err
	}
	if res.MatchedCount == 0 {
		p.Version = loaded
		return ErrVersionConflict
	}
	return nil
}

// Delete removes a project under either key.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.c.DeleteOne(ctx, recordid.Filter(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Mutate is the aggregate read-modify-write template every ledger
// operation follows: load, apply, append exactly one timeline event
// (done inside fn by the aggregate methods), save version-checked.
func (s *Store) Mutate(ctx context.Context, id string, fn func(*models.Project) error) (*models.Project, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// MutateByShareableLink is Mutate keyed by the public portal id, for the
// three client-reachable operations.
func (s *Store) MutateByShareableLink(ctx context.Context, linkID string, fn func(*models.Project) error) (*models.Project, error) {
	p, err := s.GetByShareableLinkID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) keyFilter(p *models.Project) bson.M {
	if !p.ID.IsZero() {
		return bson.M{"_id": p.ID}
	}
	return bson.M{"id": p.LegacyID}
}
