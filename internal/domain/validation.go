package domain

// Validation failure codes, surfaced per field.
const (
	ValidationRequired         = "REQUIRED"
	ValidationTooShort         = "TOO_SHORT"
	ValidationInvalidFormat    = "INVALID_FORMAT"
	ValidationOutOfRange       = "OUT_OF_RANGE"
	ValidationCalendarMismatch = "CALENDAR_MISMATCH"
)

// ValidationResult is the outcome of a single field check. Message is empty
// when the field is valid.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK is the passing result.
func OK() ValidationResult {
	return ValidationResult{Valid: true}
}

// Fail builds a failing result with a code and human-readable reason.
func Fail(code, message string) ValidationResult {
	return ValidationResult{Valid: false, Code: code, Message: message}
}

// FormValidation aggregates the per-field results of a full form check.
// Every field is always evaluated, no short-circuit, so all errors surface
// at once.
type FormValidation struct {
	Name      ValidationResult `json:"name"`
	Email     ValidationResult `json:"email"`
	Birthdate ValidationResult `json:"birthdate"`
	Consent   ValidationResult `json:"consent"`
}

// Valid is the logical AND of all four fields.
func (v FormValidation) Valid() bool {
	return v.Name.Valid && v.Email.Valid && v.Birthdate.Valid && v.Consent.Valid
}
