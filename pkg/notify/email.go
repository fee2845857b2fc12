package notify

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
)

type emailTemplate struct {
	subject *template.Template
	body    *template.Template
}

var emailTemplates = map[model.NotificationKind]emailTemplate{
	model.NotificationAccepted: {
		subject: template.Must(template.New("accepted_subject").Parse(
			`You are on the team for "{{.ProjectName}}"`)),
		body: template.Must(template.New("accepted_body").Parse(`Hello, {{.VolunteerName}}!

The organizer has accepted your application to "{{.ProjectName}}".
{{- if .StartsAt}}
The event starts on {{.StartsAt}}{{if .Address}} at {{.Address}}{{end}}.
{{- end}}

Project page: {{.ProjectURL}}

{{.SiteName}}
`)),
	},
	model.NotificationRejected: {
		subject: template.Must(template.New("rejected_subject").Parse(
			`Your participation in "{{.ProjectName}}" was cancelled`)),
		body: template.Must(template.New("rejected_body").Parse(`Hello, {{.VolunteerName}}!

The organizer has removed you from the team of "{{.ProjectName}}".
You can find other projects looking for volunteers at {{.SiteURL}}.

{{.SiteName}}
`)),
	},
}

type emailData struct {
	VolunteerName string
	ProjectName   string
	StartsAt      string
	Address       string
	ProjectURL    string
	SiteURL       string
	SiteName      string
}

// renderEmail builds the subject and body of a notification for the given volunteer and project.
// Event times are shown in loc.
func renderEmail(n model.Notification, volunteer *model.Volunteer, project *model.Project, loc *time.Location) (string, string, error) {
	tmpl, ok := emailTemplates[n.Kind]
	if !ok {
		return "", "", fmt.Errorf("unknown notification kind %q", n.Kind)
	}
	if loc == nil {
		loc = time.UTC
	}

	data := emailData{
		VolunteerName: volunteer.DisplayName(),
		ProjectName:   project.Name,
		ProjectURL:    n.Site.URL() + "/projects/" + project.ID,
		SiteURL:       n.Site.URL(),
		SiteName:      n.Site.Name,
	}
	if project.StartDatetime != nil {
		data.StartsAt = project.StartDatetime.In(loc).Format("02.01.2006 at 15:04")
	}
	if project.Address != nil {
		data.Address = project.Address.AddressLine
	}

	var subject, body bytes.Buffer
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return "", "", fmt.Errorf("failed to render subject: %w", err)
	}
	if err := tmpl.body.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("failed to render body: %w", err)
	}

	return strings.TrimSpace(subject.String()), body.String(), nil
}
