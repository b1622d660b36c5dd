package registrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahrschule-lenz/backend/internal/models"
)

func TestOperatorMessageSubstitutesAllFields(t *testing.T) {
	sub := models.Submission{
		Vorname:      "Max",
		Nachname:     "Mustermann",
		Email:        "max@example.de",
		Telefon:      "0171 2345678",
		Geburtsdatum: "01.02.2003",
		Klasse:       "B",
		Starttermin:  "September",
		Nachricht:    "Ich möchte möglichst bald anfangen.",
	}
	msg, err := operatorMessage(testMail, sub)
	require.NoError(t, err)

	assert.Equal(t, testMail.OperatorEmail, msg.To)
	assert.Equal(t, testMail.FromAddress, msg.From)
	for _, v := range []string{
		"Max", "Mustermann", "max@example.de", "0171 2345678",
		"01.02.2003", "September", "Ich möchte möglichst bald anfangen.",
	} {
		assert.Contains(t, msg.HTML, v)
		assert.Contains(t, msg.Text, v)
	}
	assert.NotContains(t, msg.Text, models.PlaceholderShort)
	assert.NotContains(t, msg.Text, models.PlaceholderMessage)
}

func TestOperatorMessageEscapesHTML(t *testing.T) {
	msg, err := operatorMessage(testMail, models.Submission{Nachricht: `<script>alert("x")</script>`})
	require.NoError(t, err)

	assert.NotContains(t, msg.HTML, "<script>")
	// the plain-text part carries the value verbatim
	assert.Contains(t, msg.Text, `<script>alert("x")</script>`)
}

func TestInternalMessageIsFixed(t *testing.T) {
	a := internalMessage(testMail)
	b := internalMessage(testMail)

	assert.Equal(t, testMail.InternalEmail, a.To)
	assert.Equal(t, internalSubject, a.Subject)
	assert.Equal(t, internalBody, a.Text)
	assert.Empty(t, a.HTML)
	assert.Equal(t, a, b)
}
