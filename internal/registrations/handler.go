// Package registrations forwards website registration forms as notification
// emails to the driving school.
package registrations

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fahrschule-lenz/backend/config"
	"github.com/fahrschule-lenz/backend/internal/mailer"
	"github.com/fahrschule-lenz/backend/internal/models"
)

// Fixed response bodies; the frontend matches on these exact messages.
const (
	msgMethodNotAllowed = "Only POST requests are allowed"
	msgAllSent          = "Emails sent successfully"
	msgPartial          = "One or more emails failed to send, but others succeeded."
	msgAllFailed        = "Error sending email"
)

// Recorder appends rows to the delivery audit trail. May be absent.
type Recorder interface {
	Record(ctx context.Context, entry *models.EmailLog) error
}

// Handler handles the registration notification endpoint.
type Handler struct {
	sender mailer.Sender
	mail   config.MailConfig
	audit  Recorder // nil disables the audit trail
	logger *zap.Logger
}

// NewHandler creates a registrations handler. audit may be nil.
func NewHandler(sender mailer.Sender, mail config.MailConfig, audit Recorder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{sender: sender, mail: mail, audit: audit, logger: logger}
}

// SendEmails handles /api/send-emails. Only POST is accepted. The form is
// read permissively: every field is optional and empty fields render as
// placeholders, never as an error. Two emails are dispatched concurrently
// (operator notification and internal alert) and the response reflects how
// many of the two went out: 200 for both, 207 for one, 500 for none.
func (h *Handler) SendEmails(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": msgMethodNotAllowed})
		return
	}

	// A missing or malformed body is treated like an empty form.
	var sub models.Submission
	_ = c.ShouldBindJSON(&sub)

	opMsg, err := operatorMessage(h.mail, sub)
	if err != nil {
		h.logger.Error("render notification email", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgAllFailed})
		return
	}
	inMsg := internalMessage(h.mail)

	ctx := c.Request.Context()
	msgs := [2]*mailer.Message{opMsg, inMsg}
	var errs [2]error

	// Fan out both sends and wait for both to settle. One failing send must
	// never prevent observing the other's outcome.
	var wg sync.WaitGroup
	for i := range msgs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = h.sender.Send(ctx, msgs[i])
		}(i)
	}
	wg.Wait()

	h.recordOutcome(ctx, models.EmailRecipientOperator, opMsg, errs[0])
	h.recordOutcome(ctx, models.EmailRecipientInternal, inMsg, errs[1])

	opErr, inErr := errs[0], errs[1]
	switch {
	case opErr == nil && inErr == nil:
		c.JSON(http.StatusOK, gin.H{"message": msgAllSent})
	case opErr != nil && inErr != nil:
		h.logger.Error("all notification emails failed", zap.Error(errors.Join(opErr, inErr)))
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgAllFailed})
	default:
		failed := opErr
		if failed == nil {
			failed = inErr
		}
		h.logger.Error("notification email failed", zap.Error(failed))
		c.JSON(http.StatusMultiStatus, gin.H{"message": msgPartial})
	}
}

// recordOutcome writes one audit row. Audit failures are logged only; the
// response never depends on the audit trail.
func (h *Handler) recordOutcome(ctx context.Context, recipient string, msg *mailer.Message, sendErr error) {
	if h.audit == nil {
		return
	}
	entry := &models.EmailLog{
		Recipient:      recipient,
		RecipientEmail: msg.To,
		Subject:        msg.Subject,
		Status:         models.EmailLogStatusSent,
	}
	if sendErr != nil {
		entry.Status = models.EmailLogStatusFailed
		entry.ErrorMessage = sendErr.Error()
	}
	if err := h.audit.Record(ctx, entry); err != nil {
		h.logger.Warn("email audit write failed", zap.Error(err))
	}
}
