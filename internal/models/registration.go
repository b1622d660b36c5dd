package models

// Submission is one registration form payload from the website. Every field
// is optional: the frontend validates what it cares about, the backend only
// forwards what it got. Field names follow the form (German).
type Submission struct {
	Vorname      string `json:"vorname"`
	Nachname     string `json:"nachname"`
	Email        string `json:"email"`
	Telefon      string `json:"telefon"`
	Geburtsdatum string `json:"geburtsdatum"`
	Klasse       string `json:"klasse"`
	Starttermin  string `json:"starttermin"`
	Nachricht    string `json:"nachricht"`
}

// Placeholders used when a field was left empty.
const (
	PlaceholderShort   = "N/A"
	PlaceholderMessage = "Keine Nachricht hinterlassen."
)

// FieldOrDefault returns v, or the short placeholder if v is empty.
func FieldOrDefault(v string) string {
	if v == "" {
		return PlaceholderShort
	}
	return v
}

// MessageOrDefault returns the free-text message, or its placeholder
// sentence if empty.
func MessageOrDefault(v string) string {
	if v == "" {
		return PlaceholderMessage
	}
	return v
}
