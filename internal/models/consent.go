package models

import "time"

// ConsentSchemaVersion is the current version of the persisted consent
// record. Records written under any other version are discarded on load.
const ConsentSchemaVersion = "1"

// ConsentState is the durable cookie consent decision of one visitor.
// DecidedAt is nil exactly when the visitor has never made an explicit
// accept/decline/save choice.
type ConsentState struct {
	ExternalMediaAllowed bool       `json:"externalMediaAllowed"`
	DecidedAt            *time.Time `json:"decidedAt"`
	SchemaVersion        string     `json:"schemaVersion"`
}

// DefaultConsentState returns the no-decision-yet state: external media
// blocked, no decision timestamp.
func DefaultConsentState() ConsentState {
	return ConsentState{
		ExternalMediaAllowed: false,
		DecidedAt:            nil,
		SchemaVersion:        ConsentSchemaVersion,
	}
}

// HasDecided reports whether the visitor has made an explicit choice.
func (s ConsentState) HasDecided() bool {
	return s.DecidedAt != nil
}

// ConsentUpdate is a partial update applied by Manager.Update. Nil fields
// keep their current value.
type ConsentUpdate struct {
	ExternalMediaAllowed *bool `json:"externalMediaAllowed,omitempty"`
}
