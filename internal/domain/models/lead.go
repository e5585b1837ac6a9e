// internal/domain/models/lead.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lead statuses. Stored verbatim; the UI vocabulary is Spanish.
const (
	LeadStatusNew      = "Nuevo"
	LeadStatusProposal = "Propuesta Enviada"
)

// Lead is a prospective client tracked from first contact through
// requirements submission.
//
// FormLink is the public path of the requirements form. It embeds the
// lead's canonical id and never changes after creation, even if contact
// fields are refreshed by a form submission.
type Lead struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LegacyID  string             `bson:"id,omitempty" json:"-"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Company   string             `bson:"company,omitempty" json:"company,omitempty"`
	Status    string             `bson:"status" json:"status"`
	FormLink  string             `bson:"formLink" json:"formLink"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// HexID returns the ObjectID hex, or the legacy string id for records
// created before ObjectIDs became canonical.
func (l *Lead) HexID() string {
	if !l.ID.IsZero() {
		return l.ID.Hex()
	}
	return l.LegacyID
}

// FormLinkFor builds the public requirements-form path for a lead id.
func FormLinkFor(leadID string) string {
	return "/leads/" + leadID + "/form"
}
