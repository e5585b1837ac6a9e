// internal/domain/models/requirements.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientRequirements is the payload of the public multi-step intake form,
// stored one document per lead (upserted on resubmission). Field names
// mirror the form sections so the document round-trips unchanged.
type ClientRequirements struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	LeadID             string             `bson:"leadId" json:"leadId"`
	SubmittedAt        time.Time          `bson:"submittedAt" json:"submittedAt"`
	ContactInfo        ContactInfo        `bson:"contactInfo" json:"contactInfo"`
	ProjectInfo        ProjectInfo        `bson:"projectInfo" json:"projectInfo"`
	ScopeAndFeatures   ScopeAndFeatures   `bson:"scopeAndFeatures" json:"scopeAndFeatures"`
	DesignAndUX        DesignAndUX        `bson:"designAndUX" json:"designAndUX"`
	ContentAndStrategy ContentAndStrategy `bson:"contentAndStrategy" json:"contentAndStrategy"`
	Attachments        []Attachment       `bson:"attachments,omitempty" json:"attachments,omitempty"`
}

// ContactInfo identifies the person (or company) behind the submission.
type ContactInfo struct {
	ClientType string `bson:"clientType" json:"clientType"` // empresa | particular
	Name       string `bson:"name" json:"name"`
	Company    string `bson:"company,omitempty" json:"company,omitempty"`
	Email      string `bson:"email" json:"email"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// ProjectInfo describes what the client wants built.
type ProjectInfo struct {
	ProjectName    string   `bson:"projectName" json:"projectName"`
	ProjectIdea    string   `bson:"projectIdea" json:"projectIdea"`
	TargetAudience string   `bson:"targetAudience,omitempty" json:"targetAudience,omitempty"`
	MainGoals      []string `bson:"mainGoals,omitempty" json:"mainGoals,omitempty"`
	Competitors    string   `bson:"competitors,omitempty" json:"competitors,omitempty"`
	Country        string   `bson:"country,omitempty" json:"country,omitempty"`
}

// ScopeAndFeatures lists platforms and requested functionality.
type ScopeAndFeatures struct {
	Platforms      []string `bson:"platforms,omitempty" json:"platforms,omitempty"`
	CommonFeatures []string `bson:"commonFeatures,omitempty" json:"commonFeatures,omitempty"`
	OtherFeatures  []string `bson:"otherFeatures,omitempty" json:"otherFeatures,omitempty"`
}

// DesignAndUX captures branding and visual direction.
type DesignAndUX struct {
	HasBrandIdentity   string   `bson:"hasBrandIdentity,omitempty" json:"hasBrandIdentity,omitempty"` // yes | no
	DesignInspirations []string `bson:"designInspirations,omitempty" json:"designInspirations,omitempty"`
	LookAndFeel        string   `bson:"lookAndFeel,omitempty" json:"lookAndFeel,omitempty"`
}

// ContentAndStrategy covers marketing and maintenance expectations.
type ContentAndStrategy struct {
	MarketingPlan string `bson:"marketingPlan,omitempty" json:"marketingPlan,omitempty"`
	Maintenance   string `bson:"maintenance,omitempty" json:"maintenance,omitempty"`
}

// Attachment is a file the client uploaded with the form, already relayed
// to external storage; URL is the viewable link.
type Attachment struct {
	Name string `bson:"name" json:"name"`
	URL  string `bson:"url" json:"url"`
}
