package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SubmissionSource tags every record produced by the popup form.
const SubmissionSource = "popup_newsletter"

// FormState holds the raw user-entered values of one submission attempt.
// It is created fresh per attempt and discarded afterwards.
type FormState struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Birthdate string `json:"birthdate,omitempty"` // DD/MM/YYYY, optional
	Consent   bool   `json:"consent"`
}

// SubmissionRecord is the derived record built only after every field passed
// validation.
type SubmissionRecord struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Birthdate string    `json:"birthdate,omitempty"`
	Consent   bool      `json:"consent"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// NewSubmissionRecord builds a SubmissionRecord from validated form state.
func NewSubmissionRecord(form FormState) SubmissionRecord {
	return SubmissionRecord{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(form.Name),
		Email:     strings.TrimSpace(form.Email),
		Birthdate: strings.TrimSpace(form.Birthdate),
		Consent:   form.Consent,
		Timestamp: time.Now().UTC(),
		Source:    SubmissionSource,
	}
}

// FirstName returns the first space-separated token of the full name.
func (r SubmissionRecord) FirstName() string {
	name := strings.TrimSpace(r.Name)
	if i := strings.IndexByte(name, ' '); i >= 0 {
		return name[:i]
	}
	return name
}

// LastName returns everything after the first space, or "" for single-token
// names. The host platform accepts an empty last name.
func (r SubmissionRecord) LastName() string {
	name := strings.TrimSpace(r.Name)
	if i := strings.IndexByte(name, ' '); i >= 0 {
		return strings.TrimSpace(name[i+1:])
	}
	return ""
}
