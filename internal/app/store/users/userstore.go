package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/devinnolab/proplanner/internal/app/store/recordid"
	"github.com/devinnolab/proplanner/internal/app/system/auth"
	"github.com/devinnolab/proplanner/internal/app/system/normalize"
	"github.com/devinnolab/proplanner/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrNotFound is returned when no user matches under either key.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the email is already taken.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrLastActiveUser guards the at-least-one-active-user invariant.
	ErrLastActiveUser = errors.New("cannot remove the last active user")
	// ErrWrongPassword is returned by VerifyPassword on mismatch.
	ErrWrongPassword = errors.New("wrong password")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// EnsureIndexes creates the unique email index, closing the
// lookup-then-insert race on duplicate emails.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// GetByID loads a user by ObjectID hex or legacy string id.
func (s *Store) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, recordid.Filter(id)).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// List returns all users sorted by creation time.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	cursor, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the total number of users.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// Create inserts a new user with a bcrypt-hashed password.
func (s *Store) Create(ctx context.Context, name, email, password string, active bool) (models.User, error) {
	email = normalize.Email(email)

	if existing, err := s.GetByEmail(ctx, email); err == nil && existing != nil {
		return models.User{}, ErrDuplicateEmail
	} else if err != nil && err != ErrNotFound {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	u := models.User{
		Name:         normalize.Name(name),
		Email:        email,
		PasswordHash: string(hash),
		Active:       active,
		CreatedAt:    time.Now().UTC(),
	}

	res, err := s.c.InsertOne(ctx, u)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return u, nil
}

// Update holds the mutable user fields. A blank Password keeps the
// existing hash; CreatedAt is always preserved.
type Update struct {
	Name     string
	Email    string
	Password string
	Active   bool
}

// UpdateUser applies an Update, rejecting an email already used by a
// different user.
func (s *Store) UpdateUser(ctx context.Context, id string, upd Update) (models.User, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	email := normalize.Email(upd.Email)
	if other, err := s.GetByEmail(ctx, email); err == nil && other.HexID() != existing.HexID() {
		return models.User{}, ErrDuplicateEmail
	} else if err != nil && err != ErrNotFound {
		return models.User{}, err
	}

	set := bson.M{
		"name":       normalize.Name(upd.Name),
		"email":      email,
		"active":     upd.Active,
		"created_at": existing.CreatedAt,
	}
	if upd.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, err
		}
		set["password_hash"] = string(hash)
	}

	if _, err := s.c.UpdateOne(ctx, recordid.Filter(id), bson.M{"$set": set}); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	return *updated, nil
}

// Delete removes a user. It fails with ErrLastActiveUser when the
// deletion would leave no active user behind.
func (s *Store) Delete(ctx context.Context, id string) error {
	target, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ensureOtherActive(ctx, target.HexID()); err != nil {
		return err
	}
	res, err := s.c.DeleteOne(ctx, recordid.Filter(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive toggles a user's active flag. Deactivating the last active
// user fails with ErrLastActiveUser; the user set is left unchanged.
func (s *Store) SetActive(ctx context.Context, id string, active bool) (*models.User, error) {
	target, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target.Active && !active {
		if err := s.ensureOtherActive(ctx, target.HexID()); err != nil {
			return nil, err
		}
	}
	if _, err := s.c.UpdateOne(ctx, recordid.Filter(id), bson.M{"$set": bson.M{"active": active}}); err != nil {
		return nil, err
	}
	target.Active = active
	return target, nil
}

// VerifyPassword checks a candidate against the stored bcrypt hash.
func VerifyPassword(u *models.User, candidate string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// ensureOtherActive verifies at least one other active user exists.
// Legacy records force the comparison into memory rather than a $ne on
// _id alone.
func (s *Store) ensureOtherActive(ctx context.Context, excludeHexID string) error {
	cursor, err := s.c.Find(ctx, bson.M{"active": true})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var active []models.User
	if err := cursor.All(ctx, &active); err != nil {
		return err
	}
	for i := range active {
		if active[i].HexID() != excludeHexID {
			return nil
		}
	}
	return ErrLastActiveUser
}

// Fetcher adapts the store to the session middleware: a session is only
// honored while its user still exists and is active.
type Fetcher struct {
	s *Store
}

func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{s: New(db)}
}

func (f *Fetcher) FetchSessionUser(ctx context.Context, userID string) (*auth.SessionUser, error) {
	u, err := f.s.GetByID(ctx, userID)
	if err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	if !u.Active {
		return nil, nil
	}
	return &auth.SessionUser{ID: u.HexID(), Name: u.Name, Email: u.Email}, nil
}
