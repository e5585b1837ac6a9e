// internal/domain/models/project.go
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Timeline actors.
const (
	ActorSystem = "sistema"
	ActorAdmin  = "admin"
	ActorClient = "cliente"
)

// Module and part statuses.
const (
	ModuleStatusPending  = "Pendiente"
	ModuleStatusComplete = "Completado"
)

// Change request statuses.
const (
	ChangeRequestPending  = "Pendiente de Aprobación"
	ChangeRequestApproved = "Aprobada"
	ChangeRequestRejected = "Rechazada"
)

// Project statuses.
const (
	ProjectStatusActive   = "Activo"
	ProjectStatusComplete = "Completado"
)

// Sub-entity lookup failures. Callers map these to not-found responses.
var (
	ErrModuleNotFound        = errors.New("module not found")
	ErrPartNotFound          = errors.New("part not found")
	ErrChangeRequestNotFound = errors.New("change request not found")
	ErrRequirementNotFound   = errors.New("requirement not found")
)

// Project is the aggregate root for an engaged client's body of work.
// All child collections are embedded; the document is read, mutated, and
// written back as a unit. Version is the optimistic-concurrency token
// checked on every write, so concurrent edits fail loudly instead of
// silently overwriting each other.
//
// TimelineEvents is the append-only audit ledger of the aggregate:
// every mutation prepends exactly one event (newest first), and events
// are never edited or removed.
type Project struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LegacyID            string             `bson:"id,omitempty" json:"-"`
	Name                string             `bson:"name" json:"name"`
	Description         string             `bson:"description,omitempty" json:"description,omitempty"`
	Status              string             `bson:"status" json:"status"`
	StartDate           time.Time          `bson:"startDate" json:"startDate"`
	Deadline            time.Time          `bson:"deadline" json:"deadline"`
	ShareableLinkID     string             `bson:"shareableLinkId" json:"shareableLinkId"`
	Modules             []Module           `bson:"modules" json:"modules"`
	TimelineEvents      []TimelineEvent    `bson:"timelineEvents" json:"timelineEvents"`
	ChangeRequests      []ChangeRequest    `bson:"changeRequests" json:"changeRequests"`
	InitialRequirements []Requirement      `bson:"initialRequirements" json:"initialRequirements"`
	ProjectDocuments    []Document         `bson:"projectDocuments" json:"projectDocuments"`
	Version             int64              `bson:"version" json:"-"`
}

// Module is a deliverable unit of a project.
type Module struct {
	ID           string     `bson:"id" json:"id"`
	Name         string     `bson:"name" json:"name"`
	Description  string     `bson:"description,omitempty" json:"description,omitempty"`
	Status       string     `bson:"status" json:"status"`
	Deadline     time.Time  `bson:"deadline" json:"deadline"`
	Parts        []Part     `bson:"parts" json:"parts"`
	Stages       []Stage    `bson:"stages" json:"stages"`
	Requirements []string   `bson:"requirements" json:"requirements"`
	Reviews      []Review   `bson:"reviews" json:"reviews"`
	Deliverables []Document `bson:"deliverables" json:"deliverables"`
	Documents    []Document `bson:"documents" json:"documents"`
}

// Part is a task within a module.
type Part struct {
	ID     string `bson:"id" json:"id"`
	Name   string `bson:"name" json:"name"`
	Status string `bson:"status" json:"status"`
}

// Stage is a named phase of a module's delivery.
type Stage struct {
	ID     string `bson:"id" json:"id"`
	Name   string `bson:"name" json:"name"`
	Status string `bson:"status" json:"status"`
}

// Review is client or internal feedback recorded on a module.
type Review struct {
	ID        string    `bson:"id" json:"id"`
	Comment   string    `bson:"comment" json:"comment"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// ChangeRequest is a client-submitted ask for scope modification.
type ChangeRequest struct {
	ID             string    `bson:"id" json:"id"`
	RequestDetails string    `bson:"requestDetails" json:"requestDetails"`
	Status         string    `bson:"status" json:"status"`
	SubmittedAt    time.Time `bson:"submittedAt" json:"submittedAt"`
}

// Requirement is an initial project requirement managed by the admin.
type Requirement struct {
	ID          string `bson:"id" json:"id"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// Document is a named link attached to a project or module.
type Document struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
	URL  string `bson:"url" json:"url"`
}

// TimelineEvent is one append-only audit entry on the project ledger.
type TimelineEvent struct {
	EventDescription string    `bson:"eventDescription" json:"eventDescription"`
	EventDate        time.Time `bson:"eventDate" json:"eventDate"`
	Actor            string    `bson:"actor" json:"actor"` // sistema | admin | cliente
}

// NewEntityID generates a sub-entity id with a readable prefix.
func NewEntityID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// NewProject builds a project aggregate with empty child collections and
// the seed timeline event. ShareableLinkID is a fresh unguessable id,
// distinct from the internal id and never regenerated afterwards.
func NewProject(name, description, status string, startDate, deadline time.Time) *Project {
	if status == "" {
		status = ProjectStatusActive
	}
	p := &Project{
		Name:                name,
		Description:         description,
		Status:              status,
		StartDate:           startDate,
		Deadline:            deadline,
		ShareableLinkID:     "client-link-" + uuid.NewString(),
		Modules:             []Module{},
		TimelineEvents:      []TimelineEvent{},
		ChangeRequests:      []ChangeRequest{},
		InitialRequirements: []Requirement{},
		ProjectDocuments:    []Document{},
	}
	p.logEvent(ActorSystem, fmt.Sprintf("Proyecto %q creado.", name))
	return p
}

// HexID returns the ObjectID hex, or the legacy string id for records
// created before ObjectIDs became canonical.
func (p *Project) HexID() string {
	if !p.ID.IsZero() {
		return p.ID.Hex()
	}
	return p.LegacyID
}

// logEvent prepends one timeline event; the ledger stays newest-first.
func (p *Project) logEvent(actor, description string) {
	ev := TimelineEvent{
		EventDescription: description,
		EventDate:        time.Now().UTC(),
		Actor:            actor,
	}
	p.TimelineEvents = append([]TimelineEvent{ev}, p.TimelineEvents...)
}

// Progress returns the percentage of completed modules, 0 when the
// project has no modules.
func (p *Project) Progress() float64 {
	total := len(p.Modules)
	if total == 0 {
		return 0
	}
	done := 0
	for _, m := range p.Modules {
		if m.Status == ModuleStatusComplete {
			done++
		}
	}
	return float64(done) / float64(total) * 100
}

// UpdateDetails edits the project header fields. A zero-valued status
// or date keeps the current value.
func (p *Project) UpdateDetails(name, description, status string, startDate, deadline time.Time) {
	p.Name = name
	p.Description = description
	if status != "" {
		p.Status = status
	}
	if !startDate.IsZero() {
		p.StartDate = startDate
	}
	if !deadline.IsZero() {
		p.Deadline = deadline
	}
	p.logEvent(ActorAdmin, fmt.Sprintf("Proyecto actualizado: %q", p.Name))
}

func (p *Project) findModule(moduleID string) *Module {
	for i := range p.Modules {
		if p.Modules[i].ID == moduleID {
			return &p.Modules[i]
		}
	}
	return nil
}

// AddModule appends a module with Pendiente status and empty child
// collections, attributed to the admin.
func (p *Project) AddModule(name, description string, deadline time.Time) Module {
	m := newModule(name, description, deadline)
	p.Modules = append(p.Modules, m)
	p.logEvent(ActorAdmin, fmt.Sprintf("Nuevo módulo añadido: %q", m.Name))
	return m
}

// ModuleInput describes a module to be created in a batch.
type ModuleInput struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
}

// AddModulesBatch appends generated modules in one mutation with a single
// system-attributed timeline event.
func (p *Project) AddModulesBatch(inputs []ModuleInput) []Module {
	added := make([]Module, 0, len(inputs))
	for _, in := range inputs {
		m := newModule(in.Name, in.Description, in.Deadline)
		p.Modules = append(p.Modules, m)
		added = append(added, m)
	}
	p.logEvent(ActorSystem, fmt.Sprintf("%d módulos generados por IA", len(added)))
	return added
}

func newModule(name, description string, deadline time.Time) Module {
	return Module{
		ID:           NewEntityID("mod"),
		Name:         name,
		Description:  description,
		Status:       ModuleStatusPending,
		Deadline:     deadline,
		Parts:        []Part{},
		Stages:       []Stage{},
		Requirements: []string{},
		Reviews:      []Review{},
		Deliverables: []Document{},
		Documents:    []Document{},
	}
}

// ReplaceModule swaps a module wholesale by id, keeping its position.
func (p *Project) ReplaceModule(updated Module) error {
	m := p.findModule(updated.ID)
	if m == nil {
		return ErrModuleNotFound
	}
	*m = updated
	p.logEvent(ActorAdmin, fmt.Sprintf("Módulo actualizado: %q", updated.Name))
	return nil
}

// RemoveModule deletes a module by id.
func (p *Project) RemoveModule(moduleID string) error {
	idx := -1
	for i := range p.Modules {
		if p.Modules[i].ID == moduleID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrModuleNotFound
	}
	name := p.Modules[idx].Name
	p.Modules = append(p.Modules[:idx], p.Modules[idx+1:]...)
	p.logEvent(ActorAdmin, fmt.Sprintf("Módulo eliminado: %q", name))
	return nil
}

// ReplaceModuleParts swaps a module's task list wholesale.
func (p *Project) ReplaceModuleParts(moduleID string, parts []Part) error {
	m := p.findModule(moduleID)
	if m == nil {
		return ErrModuleNotFound
	}
	for i := range parts {
		if parts[i].ID == "" {
			parts[i].ID = NewEntityID("part")
		}
		if parts[i].Status == "" {
			parts[i].Status = ModuleStatusPending
		}
	}
	m.Parts = parts
	p.logEvent(ActorAdmin, fmt.Sprintf("Tareas actualizadas para el módulo %q", m.Name))
	return nil
}

// ApproveModule marks a module Completado. The actor decides the ledger
// wording: client approval through the portal versus admin approval.
func (p *Project) ApproveModule(moduleID, actor string) error {
	m := p.findModule(moduleID)
	if m == nil {
		return ErrModuleNotFound
	}
	m.Status = ModuleStatusComplete
	switch actor {
	case ActorClient:
		p.logEvent(ActorClient, fmt.Sprintf("El cliente ha aprobado el módulo: %q", m.Name))
	default:
		p.logEvent(ActorAdmin, fmt.Sprintf("El administrador ha aprobado el módulo: %q", m.Name))
	}
	return nil
}

// ApprovePart marks a single task Completado on behalf of the client.
func (p *Project) ApprovePart(moduleID, partID string) error {
	m := p.findModule(moduleID)
	if m == nil {
		return ErrModuleNotFound
	}
	for i := range m.Parts {
		if m.Parts[i].ID == partID {
			m.Parts[i].Status = ModuleStatusComplete
			p.logEvent(ActorClient, fmt.Sprintf("El cliente ha aprobado la tarea: %q en el módulo %q", m.Parts[i].Name, m.Name))
			return nil
		}
	}
	return ErrPartNotFound
}

// AddChangeRequest appends a client scope-change ask in Pendiente de
// Aprobación status.
func (p *Project) AddChangeRequest(requestDetails string) ChangeRequest {
	cr := ChangeRequest{
		ID:             NewEntityID("cr"),
		RequestDetails: requestDetails,
		Status:         ChangeRequestPending,
		SubmittedAt:    time.Now().UTC(),
	}
	p.ChangeRequests = append(p.ChangeRequests, cr)
	p.logEvent(ActorClient, "El cliente ha enviado una nueva solicitud de cambio.")
	return cr
}

// UpdateChangeRequestStatus mutates a change request's status.
func (p *Project) UpdateChangeRequestStatus(requestID, status string) error {
	for i := range p.ChangeRequests {
		if p.ChangeRequests[i].ID == requestID {
			p.ChangeRequests[i].Status = status
			p.logEvent(ActorAdmin, fmt.Sprintf("Solicitud de cambio #%s ha sido %s", shortID(requestID), strings.ToLower(status)))
			return nil
		}
	}
	return ErrChangeRequestNotFound
}

// AddRequirement appends an initial requirement.
func (p *Project) AddRequirement(title, description string) Requirement {
	req := Requirement{
		ID:          NewEntityID("req"),
		Title:       title,
		Description: description,
	}
	p.InitialRequirements = append(p.InitialRequirements, req)
	p.logEvent(ActorAdmin, fmt.Sprintf("Nuevo requisito añadido: %q", req.Title))
	return req
}

// ReplaceRequirement swaps a requirement wholesale by id.
func (p *Project) ReplaceRequirement(updated Requirement) error {
	for i := range p.InitialRequirements {
		if p.InitialRequirements[i].ID == updated.ID {
			p.InitialRequirements[i] = updated
			p.logEvent(ActorAdmin, fmt.Sprintf("Requisito actualizado: %q", updated.Title))
			return nil
		}
	}
	return ErrRequirementNotFound
}

// RemoveRequirement deletes a requirement by id.
func (p *Project) RemoveRequirement(requirementID string) error {
	for i := range p.InitialRequirements {
		if p.InitialRequirements[i].ID == requirementID {
			title := p.InitialRequirements[i].Title
			p.InitialRequirements = append(p.InitialRequirements[:i], p.InitialRequirements[i+1:]...)
			p.logEvent(ActorAdmin, fmt.Sprintf("Requisito eliminado: %q", title))
			return nil
		}
	}
	return ErrRequirementNotFound
}

// AddDocument appends a project document.
func (p *Project) AddDocument(name, url string) Document {
	doc := Document{
		ID:   NewEntityID("doc"),
		Name: name,
		URL:  url,
	}
	p.ProjectDocuments = append(p.ProjectDocuments, doc)
	p.logEvent(ActorAdmin, fmt.Sprintf("Nuevo documento de proyecto añadido: %q", doc.Name))
	return doc
}

// shortID returns the tail of a sub-entity id for display in ledger text.
func shortID(id string) string {
	if len(id) <= 4 {
		return id
	}
	return id[len(id)-4:]
}
