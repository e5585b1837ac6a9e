// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an admin account for the back office. There is a single user
// table; anyone who can log in can manage leads and projects.
//
// PasswordHash is a bcrypt hash. It is never serialized to JSON.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LegacyID     string             `bson:"id,omitempty" json:"-"` // string id carried by records created before ObjectIDs became canonical
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Active       bool               `bson:"active" json:"active"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// HexID returns the canonical id for API responses: the ObjectID hex, or
// the legacy string id for records that predate ObjectID addressing.
func (u *User) HexID() string {
	if !u.ID.IsZero() {
		return u.ID.Hex()
	}
	return u.LegacyID
}
