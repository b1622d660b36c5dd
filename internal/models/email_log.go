package models

import (
	"time"

	"github.com/google/uuid"
)

// Recipient class of a notification email.
const (
	EmailRecipientOperator = "operator"
	EmailRecipientInternal = "internal"
)

// Delivery outcome.
const (
	EmailLogStatusSent   = "sent"
	EmailLogStatusFailed = "failed"
)

// EmailLog is one row of the delivery audit trail: one attempted send of a
// registration notification. Purely observational; the send path never
// reads it back.
type EmailLog struct {
	ID             uuid.UUID `json:"id"`
	Recipient      string    `json:"recipient"`
	RecipientEmail string    `json:"recipient_email"`
	Subject        string    `json:"subject"`
	Status         string    `json:"status"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
