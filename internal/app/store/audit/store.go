// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories.
const (
	CategoryAuth  = "auth"
	CategoryAdmin = "admin"
)

// Auth event types.
const (
	EventLoginSuccess             = "login_success"
	EventLoginFailedUserNotFound  = "login_failed_user_not_found"
	EventLoginFailedWrongPassword = "login_failed_wrong_password"
	EventLoginFailedUserInactive  = "login_failed_user_inactive"
	EventLogout                   = "logout"
)

// Admin event types.
const (
	EventUserCreated         = "user_created"
	EventUserUpdated         = "user_updated"
	EventUserDeleted         = "user_deleted"
	EventUserActiveToggled   = "user_active_toggled"
	EventLeadCreated         = "lead_created"
	EventLeadDeleted         = "lead_deleted"
	EventLeadFormSubmitted   = "lead_form_submitted"
	EventProjectCreated      = "project_created"
	EventProjectDeleted      = "project_deleted"
	EventAttachmentsUploaded = "attachments_uploaded"
)

// Event is one operational audit record. This trail is for operators;
// the client-visible project history lives on the project aggregate's
// timeline, not here.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp time.Time          `bson:"timestamp"`

	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	// ActorID is the admin user behind the action; EntityID is the
	// affected record. Both are canonical string ids, since legacy
	// records may not have ObjectIDs.
	ActorID  string `bson:"actor_id,omitempty"`
	EntityID string `bson:"entity_id,omitempty"`

	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`

	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	Details map[string]string `bson:"details,omitempty"`
}

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// EnsureIndexes creates indexes for the common query shapes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{
			{Key: "category", Value: 1},
			{Key: "event_type", Value: 1},
			{Key: "timestamp", Value: -1},
		}},
		{Keys: bson.D{
			{Key: "actor_id", Value: 1},
			{Key: "timestamp", Value: -1},
		}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Log records an audit event.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// QueryFilter narrows GetRecent-style queries.
type QueryFilter struct {
	Category  string
	EventType string
	ActorID   string
	Limit     int64
}

// Query retrieves events matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.EventType != "" {
		query["event_type"] = filter.EventType
	}
	if filter.ActorID != "" {
		query["actor_id"] = filter.ActorID
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetRecent retrieves the most recent events across all categories.
func (s *Store) GetRecent(ctx context.Context, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{Limit: limit})
}
