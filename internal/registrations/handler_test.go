package registrations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahrschule-lenz/backend/config"
	"github.com/fahrschule-lenz/backend/internal/mailer"
	"github.com/fahrschule-lenz/backend/internal/models"
)

var testMail = config.MailConfig{
	FromAddress:   "noreply@example.de",
	FromName:      "Fahrschule",
	OperatorEmail: "info@example.de",
	InternalEmail: "intern@example.de",
}

// fakeSender records messages and fails for configured recipients.
type fakeSender struct {
	mu     sync.Mutex
	sent   []*mailer.Message
	failTo map[string]error
}

func (f *fakeSender) Send(_ context.Context, msg *mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failTo[msg.To]; ok {
		return err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) sentTo(addr string) *mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.sent {
		if m.To == addr {
			return m
		}
	}
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// fakeRecorder collects audit entries.
type fakeRecorder struct {
	mu      sync.Mutex
	entries []*models.EmailLog
}

func (f *fakeRecorder) Record(_ context.Context, entry *models.EmailLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func newRouter(t *testing.T, sender mailer.Sender, audit Recorder) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewHandler(sender, testMail, audit, nil)
	r := gin.New()
	r.Any("/api/send-emails", h.SendEmails)
	return r
}

func postJSON(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/send-emails", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRejectsNonPost(t *testing.T) {
	sender := &fakeSender{}
	r := newRouter(t, sender, nil)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, "/api/send-emails", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		assert.JSONEq(t, `{"message":"Only POST requests are allowed"}`, w.Body.String(), method)
	}
	assert.Zero(t, sender.count(), "no send may be attempted for non-POST")
}

func TestBothSendsSucceed(t *testing.T) {
	sender := &fakeSender{}
	r := newRouter(t, sender, nil)

	w := postJSON(r, `{"vorname":"Max","nachname":"Mustermann","email":"max@example.de"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Emails sent successfully"}`, w.Body.String())
	assert.Equal(t, 2, sender.count())

	op := sender.sentTo(testMail.OperatorEmail)
	require.NotNil(t, op)
	assert.Equal(t, "Neue Anmeldung über die Website", op.Subject)
	in := sender.sentTo(testMail.InternalEmail)
	require.NotNil(t, in)
	assert.Equal(t, internalBody, in.Text)
	assert.Empty(t, in.HTML)
}

func TestOneSendFailsIsPartial(t *testing.T) {
	for _, failing := range []string{testMail.OperatorEmail, testMail.InternalEmail} {
		sender := &fakeSender{failTo: map[string]error{failing: errors.New("relay refused")}}
		r := newRouter(t, sender, nil)

		w := postJSON(r, `{"vorname":"Max"}`)
		assert.Equal(t, http.StatusMultiStatus, w.Code, failing)
		assert.JSONEq(t, `{"message":"One or more emails failed to send, but others succeeded."}`, w.Body.String(), failing)
		assert.Equal(t, 1, sender.count(), failing)
	}
}

func TestBothSendsFail(t *testing.T) {
	sender := &fakeSender{failTo: map[string]error{
		testMail.OperatorEmail: errors.New("relay down"),
		testMail.InternalEmail: errors.New("relay down"),
	}}
	r := newRouter(t, sender, nil)

	w := postJSON(r, `{"vorname":"Max"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Error sending email"}`, w.Body.String())
	assert.Zero(t, sender.count())
}

func TestProvidedFieldsRenderedVerbatimMissingAsPlaceholders(t *testing.T) {
	sender := &fakeSender{}
	r := newRouter(t, sender, nil)

	w := postJSON(r, `{"vorname":"Max"}`)
	require.Equal(t, http.StatusOK, w.Code)

	op := sender.sentTo(testMail.OperatorEmail)
	require.NotNil(t, op)
	assert.Contains(t, op.HTML, "Max")
	assert.Contains(t, op.HTML, models.PlaceholderShort)
	assert.Contains(t, op.HTML, models.PlaceholderMessage)
	assert.Contains(t, op.Text, "Vorname: Max")
	assert.Contains(t, op.Text, "Nachname: N/A")
	assert.Contains(t, op.Text, "E-Mail: N/A")
	assert.Contains(t, op.Text, "Telefon: N/A")
	assert.Contains(t, op.Text, "Geburtsdatum: N/A")
	assert.Contains(t, op.Text, "Führerscheinklasse: N/A")
	assert.Contains(t, op.Text, "Gewünschter Starttermin: N/A")
	assert.Contains(t, op.Text, models.PlaceholderMessage)
}

func TestMissingBodyIsAnEmptyForm(t *testing.T) {
	sender := &fakeSender{}
	r := newRouter(t, sender, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/send-emails", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	op := sender.sentTo(testMail.OperatorEmail)
	require.NotNil(t, op)
	assert.Contains(t, op.Text, "Vorname: N/A")
}

func TestMalformedBodyIsAnEmptyForm(t *testing.T) {
	sender := &fakeSender{}
	r := newRouter(t, sender, nil)

	w := postJSON(r, `{broken`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, sender.count())
}

func TestAuditTrailRecordsBothOutcomes(t *testing.T) {
	sender := &fakeSender{failTo: map[string]error{testMail.InternalEmail: errors.New("relay refused")}}
	audit := &fakeRecorder{}
	r := newRouter(t, sender, audit)

	w := postJSON(r, `{"vorname":"Max"}`)
	require.Equal(t, http.StatusMultiStatus, w.Code)

	require.Len(t, audit.entries, 2)
	byRecipient := map[string]*models.EmailLog{}
	for _, e := range audit.entries {
		byRecipient[e.Recipient] = e
	}
	require.Contains(t, byRecipient, models.EmailRecipientOperator)
	require.Contains(t, byRecipient, models.EmailRecipientInternal)
	assert.Equal(t, models.EmailLogStatusSent, byRecipient[models.EmailRecipientOperator].Status)
	assert.Equal(t, models.EmailLogStatusFailed, byRecipient[models.EmailRecipientInternal].Status)
	assert.Contains(t, byRecipient[models.EmailRecipientInternal].ErrorMessage, "relay refused")
}
