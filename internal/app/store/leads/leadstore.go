package leadstore

import (
	"context"
	"errors"
	"time"

	"github.com/devinnolab/proplanner/internal/app/store/recordid"
	"github.com/devinnolab/proplanner/internal/app/system/normalize"
	"github.com/devinnolab/proplanner/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no lead resolves under any lookup tier.
var ErrNotFound = errors.New("lead not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("leads")}
}

// Create inserts a new lead in Nuevo status. The form link embeds the
// canonical id and is never rewritten afterwards.
func (s *Store) Create(ctx context.Context, name, email, company string) (models.Lead, error) {
	id := primitive.NewObjectID()
	lead := models.Lead{
		ID:        id,
		Name:      normalize.Name(name),
		Email:     normalize.Email(email),
		Company:   company,
		Status:    models.LeadStatusNew,
		FormLink:  models.FormLinkFor(id.Hex()),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, lead); err != nil {
		return models.Lead{}, err
	}
	return lead, nil
}

// GetByID loads a lead by ObjectID hex or legacy string id.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	var l models.Lead
	if err := s.c.FindOne(ctx, recordid.Filter(id)).Decode(&l); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// Resolve finds the lead behind a form submission: by ObjectID, by
// legacy string id, and finally by matching the stored formLink against
// the id embedded in the URL. The formLink tier is read-only — a hit
// there does not rewrite the stored id.
func (s *Store) Resolve(ctx context.Context, leadID string) (*models.Lead, error) {
	l, err := s.GetByID(ctx, leadID)
	if err == nil {
		return l, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	var byLink models.Lead
	err = s.c.FindOne(ctx, bson.M{"formLink": models.FormLinkFor(leadID)}).Decode(&byLink)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &byLink, nil
}

// List returns all leads, newest first.
func (s *Store) List(ctx context.Context) ([]models.Lead, error) {
	cursor, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var leads []models.Lead
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// MarkSubmitted flips the lead to Propuesta Enviada and refreshes its
// contact fields from the form payload. The id and formLink are never
// touched.
func (s *Store) MarkSubmitted(ctx context.Context, lead *models.Lead, contact models.ContactInfo) error {
	set := bson.M{
		"status":  models.LeadStatusProposal,
		"name":    contact.Name,
		"email":   normalize.Email(contact.Email),
		"company": contact.Company,
	}
	var filter bson.M
	if !lead.ID.IsZero() {
		filter = bson.M{"_id": lead.ID}
	} else {
		filter = bson.M{"id": lead.LegacyID}
	}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a lead under either key.
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
