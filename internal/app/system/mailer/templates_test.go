package mailer

import (
	"strings"
	"testing"

	"github.com/devinnolab/proplanner/internal/domain/models"
)

func sampleRequirements() models.ClientRequirements {
	return models.ClientRequirements{
		LeadID: "64b000000000000000000002",
		ContactInfo: models.ContactInfo{
			ClientType: "empresa",
			Name:       "María García",
			Company:    "Acme SL",
			Email:      "maria@acme.es",
		},
		ProjectInfo: models.ProjectInfo{
			ProjectName: "Tienda Online",
			ProjectIdea: "Una tienda de productos artesanales",
			MainGoals:   []string{"Vender online", ""},
		},
		Attachments: []models.Attachment{
			{Name: "logo.png", URL: "https://files.example.com/logo.png"},
		},
	}
}

func TestBuildLeadNotificationEmail(t *testing.T) {
	e := BuildLeadNotificationEmail(sampleRequirements())

	if want := "Nuevo Formulario de Requerimientos - Tienda Online"; e.Subject != want {
		t.Errorf("subject: got %q, want %q", e.Subject, want)
	}
	if e.To != "" {
		t.Errorf("To should be left for the caller, got %q", e.To)
	}
	for _, s := range []string{"María García", "Acme SL", "maria@acme.es", "Tienda Online", "logo.png"} {
		if !strings.Contains(e.HTMLBody, s) {
			t.Errorf("HTML body missing %q", s)
		}
	}
	if !strings.Contains(e.TextBody, "Vender online") {
		t.Errorf("text body missing goal: %q", e.TextBody)
	}
	// The empty goal entry must not produce an empty line item.
	if strings.Contains(e.TextBody, "Objetivo: \n") {
		t.Error("text body contains an empty goal line")
	}
}

func TestBuildLeadNotificationEmailDefaults(t *testing.T) {
	e := BuildLeadNotificationEmail(models.ClientRequirements{})
	if want := "Nuevo Formulario de Requerimientos - Sin nombre"; e.Subject != want {
		t.Errorf("subject: got %q, want %q", e.Subject, want)
	}
}

func TestBuildClientConfirmationEmail(t *testing.T) {
	e := BuildClientConfirmationEmail("ProPlanner", sampleRequirements())

	if e.To != "maria@acme.es" {
		t.Errorf("To: got %q, want client email", e.To)
	}
	if want := "Confirmación de Recepción - Tienda Online"; e.Subject != want {
		t.Errorf("subject: got %q, want %q", e.Subject, want)
	}
	for _, s := range []string{"María García", "ProPlanner", "Tienda Online"} {
		if !strings.Contains(e.HTMLBody, s) {
			t.Errorf("HTML body missing %q", s)
		}
	}
}
