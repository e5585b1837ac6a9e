// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/devinnolab/proplanner/internal/domain/models"
)

// leadNotificationData is the view model for the internal notification
// sent when a requirements form is submitted.
type leadNotificationData struct {
	ClientType   string
	Contact      models.ContactInfo
	Project      models.ProjectInfo
	MainGoals    []string
	Scope        models.ScopeAndFeatures
	Design       models.DesignAndUX
	Inspirations []string
	Content      models.ContentAndStrategy
	Attachments  []models.Attachment
	HasBrand     bool
}

// confirmationData is the view model for the client confirmation email.
type confirmationData struct {
	SiteName    string
	ClientName  string
	ProjectName string
	Email       string
	Phone       string
}

// BuildLeadNotificationEmail creates the admin-facing notification with a
// full dump of the submitted requirements. To is set by the caller.
func BuildLeadNotificationEmail(req models.ClientRequirements) Email {
	data := leadNotificationData{
		ClientType:   "Particular",
		Contact:      req.ContactInfo,
		Project:      req.ProjectInfo,
		MainGoals:    nonEmpty(req.ProjectInfo.MainGoals),
		Scope:        req.ScopeAndFeatures,
		Design:       req.DesignAndUX,
		Inspirations: nonEmpty(req.DesignAndUX.DesignInspirations),
		Content:      req.ContentAndStrategy,
		Attachments:  req.Attachments,
		HasBrand:     req.DesignAndUX.HasBrandIdentity == "yes",
	}
	if req.ContactInfo.ClientType == "empresa" {
		data.ClientType = "Empresa"
	}

	projectName := req.ProjectInfo.ProjectName
	if projectName == "" {
		projectName = "Sin nombre"
	}

	return Email{
		Subject:  fmt.Sprintf("Nuevo Formulario de Requerimientos - %s", projectName),
		TextBody: buildLeadNotificationText(req),
		HTMLBody: renderTemplate("lead_notification", leadNotificationHTMLTemplate, data),
	}
}

// BuildClientConfirmationEmail creates the confirmation sent to the
// client after a successful form submission.
func BuildClientConfirmationEmail(siteName string, req models.ClientRequirements) Email {
	projectName := req.ProjectInfo.ProjectName
	if projectName == "" {
		projectName = "tu proyecto"
	}
	data := confirmationData{
		SiteName:    siteName,
		ClientName:  req.ContactInfo.Name,
		ProjectName: projectName,
		Email:       req.ContactInfo.Email,
		Phone:       orUnspecified(req.ContactInfo.Phone),
	}
	return Email{
		To:       req.ContactInfo.Email,
		Subject:  fmt.Sprintf("Confirmación de Recepción - %s", projectName),
		TextBody: buildConfirmationText(data),
		HTMLBody: renderTemplate("client_confirmation", confirmationHTMLTemplate, data),
	}
}

func buildLeadNotificationText(req models.ClientRequirements) string {
	var buf bytes.Buffer
	buf.WriteString("Nuevo formulario de requerimientos enviado\n\n")
	fmt.Fprintf(&buf, "Nombre: %s\n", req.ContactInfo.Name)
	if req.ContactInfo.Company != "" {
		fmt.Fprintf(&buf, "Empresa: %s\n", req.ContactInfo.Company)
	}
	fmt.Fprintf(&buf, "Email: %s\n", req.ContactInfo.Email)
	fmt.Fprintf(&buf, "Teléfono: %s\n", orUnspecified(req.ContactInfo.Phone))
	fmt.Fprintf(&buf, "Proyecto: %s\n", req.ProjectInfo.ProjectName)
	fmt.Fprintf(&buf, "Idea: %s\n", req.ProjectInfo.ProjectIdea)
	for _, g := range nonEmpty(req.ProjectInfo.MainGoals) {
		fmt.Fprintf(&buf, "Objetivo: %s\n", g)
	}
	for _, a := range req.Attachments {
		fmt.Fprintf(&buf, "Adjunto: %s (%s)\n", a.Name, a.URL)
	}
	return buf.String()
}

func buildConfirmationText(data confirmationData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hola %s,\n\n", data.ClientName)
	fmt.Fprintf(&buf, "Hemos recibido correctamente tu información sobre el proyecto %q.\n\n", data.ProjectName)
	buf.WriteString("Nuestro equipo revisará tu solicitud y nos pondremos en contacto contigo pronto.\n\n")
	fmt.Fprintf(&buf, "Saludos,\nEl equipo de %s\n", data.SiteName)
	return buf.String()
}

func renderTemplate(name, text string, data any) string {
	tmpl := template.Must(template.New(name).Parse(text))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func orUnspecified(s string) string {
	if s == "" {
		return "No especificado"
	}
	return s
}

const leadNotificationHTMLTemplate = `<h2>Nuevo Formulario de Requerimientos Enviado</h2>

<h3>Información de Contacto</h3>
<ul>
  <li><strong>Tipo de Cliente:</strong> {{.ClientType}}</li>
  <li><strong>Nombre:</strong> {{.Contact.Name}}</li>
  {{if .Contact.Company}}<li><strong>Empresa:</strong> {{.Contact.Company}}</li>{{end}}
  <li><strong>Email:</strong> {{.Contact.Email}}</li>
  <li><strong>Teléfono:</strong> {{if .Contact.Phone}}{{.Contact.Phone}}{{else}}No especificado{{end}}</li>
</ul>

<h3>Sobre el Proyecto</h3>
<ul>
  <li><strong>Nombre del Proyecto:</strong> {{.Project.ProjectName}}</li>
  <li><strong>Idea/Problema:</strong> {{.Project.ProjectIdea}}</li>
  <li><strong>Público Objetivo:</strong> {{if .Project.TargetAudience}}{{.Project.TargetAudience}}{{else}}No especificado{{end}}</li>
  {{if .MainGoals}}
  <li><strong>Objetivos Principales:</strong>
    <ul>{{range .MainGoals}}<li>{{.}}</li>{{end}}</ul>
  </li>
  {{end}}
  <li><strong>Competidores:</strong> {{if .Project.Competitors}}{{.Project.Competitors}}{{else}}No especificado{{end}}</li>
  <li><strong>País:</strong> {{if .Project.Country}}{{.Project.Country}}{{else}}No especificado{{end}}</li>
</ul>

<h3>Alcance y Funcionalidades</h3>
<ul>
  {{if .Scope.Platforms}}<li><strong>Plataformas:</strong> {{range $i, $p := .Scope.Platforms}}{{if $i}}, {{end}}{{$p}}{{end}}</li>{{end}}
  {{if .Scope.CommonFeatures}}
  <li><strong>Funcionalidades Seleccionadas:</strong>
    <ul>{{range .Scope.CommonFeatures}}<li>{{.}}</li>{{end}}</ul>
  </li>
  {{end}}
  {{if .Scope.OtherFeatures}}
  <li><strong>Otras Funcionalidades:</strong>
    <ul>{{range .Scope.OtherFeatures}}<li>{{.}}</li>{{end}}</ul>
  </li>
  {{end}}
</ul>

<h3>Diseño y Experiencia de Usuario</h3>
<ul>
  <li><strong>Identidad de Marca:</strong> {{if .HasBrand}}Sí{{else}}No{{end}}</li>
  {{if .Inspirations}}
  <li><strong>Inspiraciones:</strong>
    <ul>{{range .Inspirations}}<li>{{.}}</li>{{end}}</ul>
  </li>
  {{end}}
  <li><strong>Estilo Visual:</strong> {{if .Design.LookAndFeel}}{{.Design.LookAndFeel}}{{else}}No especificado{{end}}</li>
</ul>

<h3>Contenido y Estrategia</h3>
<ul>
  <li><strong>Plan de Marketing:</strong> {{if .Content.MarketingPlan}}{{.Content.MarketingPlan}}{{else}}No especificado{{end}}</li>
  <li><strong>Mantenimiento:</strong> {{if .Content.Maintenance}}{{.Content.Maintenance}}{{else}}No especificado{{end}}</li>
</ul>

{{if .Attachments}}
<h3>Archivos Adjuntos</h3>
<ul>{{range .Attachments}}<li><a href="{{.URL}}">{{.Name}}</a></li>{{end}}</ul>
{{end}}

<hr>
<p><small>Este email fue generado automáticamente cuando se completó el formulario de requerimientos.</small></p>`

const confirmationHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background-color: #3b82f6; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
    .content { background-color: #f9fafb; padding: 30px; border-radius: 0 0 8px 8px; }
    .footer { text-align: center; margin-top: 20px; color: #6b7280; font-size: 12px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>¡Gracias por contactarnos!</h1>
    </div>
    <div class="content">
      <p>Hola <strong>{{.ClientName}}</strong>,</p>

      <p>Hemos recibido correctamente tu información sobre el proyecto <strong>"{{.ProjectName}}"</strong>.</p>

      <p>Nuestro equipo revisará tu solicitud y nos pondremos en contacto contigo pronto para discutir los próximos pasos.</p>

      <h3>Resumen de tu solicitud:</h3>
      <ul>
        <li><strong>Proyecto:</strong> {{.ProjectName}}</li>
        <li><strong>Email de contacto:</strong> {{.Email}}</li>
        <li><strong>Teléfono:</strong> {{.Phone}}</li>
      </ul>

      <p>Si tienes alguna pregunta o necesitas hacer algún cambio en tu solicitud, no dudes en contactarnos.</p>

      <p>¡Esperamos trabajar contigo!</p>

      <p>Saludos,<br>
      <strong>El equipo de {{.SiteName}}</strong></p>
    </div>
    <div class="footer">
      <p>Este es un email automático de confirmación. Por favor, no respondas a este mensaje.</p>
    </div>
  </div>
</body>
</html>`
