package registrations

import (
	"bytes"
	"fmt"
	"html/template"
	texttemplate "text/template"

	"github.com/fahrschule-lenz/backend/config"
	"github.com/fahrschule-lenz/backend/internal/mailer"
	"github.com/fahrschule-lenz/backend/internal/models"
)

// Fixed subjects and the internal alert body. The internal alert carries no
// submission data; it only signals that a submission arrived.
const (
	operatorSubject = "Neue Anmeldung über die Website"
	internalSubject = "Neue Anmeldung eingegangen"
	internalBody    = "Eine neue Anmeldung ist über die Website eingegangen."
)

// templateData is a submission with placeholders already substituted.
type templateData struct {
	Vorname      string
	Nachname     string
	Email        string
	Telefon      string
	Geburtsdatum string
	Klasse       string
	Starttermin  string
	Nachricht    string
}

var operatorHTML = template.Must(template.New("operator_html").Parse(`<!DOCTYPE html>
<html lang="de">
  <body style="font-family: Arial, sans-serif; color: #222;">
    <h2>Neue Anmeldung über die Website</h2>
    <table cellpadding="6" cellspacing="0" border="0">
      <tr><td><strong>Vorname:</strong></td><td>{{.Vorname}}</td></tr>
      <tr><td><strong>Nachname:</strong></td><td>{{.Nachname}}</td></tr>
      <tr><td><strong>E-Mail:</strong></td><td>{{.Email}}</td></tr>
      <tr><td><strong>Telefon:</strong></td><td>{{.Telefon}}</td></tr>
      <tr><td><strong>Geburtsdatum:</strong></td><td>{{.Geburtsdatum}}</td></tr>
      <tr><td><strong>Führerscheinklasse:</strong></td><td>{{.Klasse}}</td></tr>
      <tr><td><strong>Gewünschter Starttermin:</strong></td><td>{{.Starttermin}}</td></tr>
    </table>
    <h3>Nachricht</h3>
    <p>{{.Nachricht}}</p>
  </body>
</html>
`))

var operatorText = texttemplate.Must(texttemplate.New("operator_text").Parse(`Neue Anmeldung über die Website

Vorname: {{.Vorname}}
Nachname: {{.Nachname}}
E-Mail: {{.Email}}
Telefon: {{.Telefon}}
Geburtsdatum: {{.Geburtsdatum}}
Führerscheinklasse: {{.Klasse}}
Gewünschter Starttermin: {{.Starttermin}}

Nachricht:
{{.Nachricht}}
`))

func newTemplateData(sub models.Submission) templateData {
	return templateData{
		Vorname:      models.FieldOrDefault(sub.Vorname),
		Nachname:     models.FieldOrDefault(sub.Nachname),
		Email:        models.FieldOrDefault(sub.Email),
		Telefon:      models.FieldOrDefault(sub.Telefon),
		Geburtsdatum: models.FieldOrDefault(sub.Geburtsdatum),
		Klasse:       models.FieldOrDefault(sub.Klasse),
		Starttermin:  models.FieldOrDefault(sub.Starttermin),
		Nachricht:    models.MessageOrDefault(sub.Nachricht),
	}
}

// operatorMessage renders the detailed notification for the school inbox.
func operatorMessage(mail config.MailConfig, sub models.Submission) (*mailer.Message, error) {
	data := newTemplateData(sub)

	var htmlBuf, textBuf bytes.Buffer
	if err := operatorHTML.Execute(&htmlBuf, data); err != nil {
		return nil, fmt.Errorf("render operator html: %w", err)
	}
	if err := operatorText.Execute(&textBuf, data); err != nil {
		return nil, fmt.Errorf("render operator text: %w", err)
	}

	return &mailer.Message{
		From:     mail.FromAddress,
		FromName: mail.FromName,
		To:       mail.OperatorEmail,
		Subject:  operatorSubject,
		Text:     textBuf.String(),
		HTML:     htmlBuf.String(),
	}, nil
}

// internalMessage builds the fixed monitoring alert. Same content for every
// submission.
func internalMessage(mail config.MailConfig) *mailer.Message {
	return &mailer.Message{
		From:     mail.FromAddress,
		FromName: mail.FromName,
		To:       mail.InternalEmail,
		Subject:  internalSubject,
		Text:     internalBody,
	}
}
