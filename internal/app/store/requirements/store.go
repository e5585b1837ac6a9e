package requirements

import (
	"context"
	"errors"
	"time"

	"github.com/devinnolab/proplanner/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no submission exists for a lead.
var ErrNotFound = errors.New("requirements not found")

// Store manages clientRequirements documents, one per lead.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("clientRequirements")}
}

// EnsureIndexes enforces the one-submission-per-lead invariant.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "leadId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// GetByLeadID returns the submission for a lead, if any.
func (s *Store) GetByLeadID(ctx context.Context, leadID string) (*models.ClientRequirements, error) {
	var req models.ClientRequirements
	if err := s.c.FindOne(ctx, bson.M{"leadId": leadID}).Decode(&req); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// List returns all submissions.
func (s *Store) List(ctx context.Context) ([]models.ClientRequirements, error) {
	cursor, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reqs []models.ClientRequirements
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// Upsert writes the submission keyed by leadId. A resubmission replaces
// every field except SubmittedAt, which keeps the first submission's
// timestamp.
func (s *Store) Upsert(ctx context.Context, req models.ClientRequirements) (models.ClientRequirements, error) {
	existing, err := s.GetByLeadID(ctx, req.LeadID)
	switch {
	case err == nil:
		req.ID = existing.ID
		req.SubmittedAt = existing.SubmittedAt
		if req.SubmittedAt.IsZero() {
			req.SubmittedAt = time.Now().UTC()
		}
		if _, err := s.c.ReplaceOne(ctx, bson.M{"_id": existing.ID}, req); err != nil {
			return models.ClientRequirements{}, err
		}
		return req, nil
	case err == ErrNotFound:
		req.SubmittedAt = time.Now().UTC()
		res, err := s.c.InsertOne(ctx, req)
		if err != nil {
			return models.ClientRequirements{}, err
		}
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			req.ID = oid
		}
		return req, nil
	default:
		return models.ClientRequirements{}, err
	}
}

// DeleteByLeadID removes all submissions for a lead (the cascade step of
// lead deletion).
func (s *Store) DeleteByLeadID(ctx context.Context, leadID string) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"leadId": leadID})
	return err
}
