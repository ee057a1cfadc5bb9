package validate

// maxBirthdateDigits caps the masked input at DDMMYYYY.
const maxBirthdateDigits = 8

// MaskBirthdate formats a birthdate field as it is typed: non-digits are
// stripped, "/" separators are inserted after the 2nd and 4th digits, and
// input is capped at 8 digits total.
func MaskBirthdate(raw string) string {
	digits := make([]byte, 0, maxBirthdateDigits)
	for i := 0; i < len(raw) && len(digits) < maxBirthdateDigits; i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}

	switch {
	case len(digits) <= 2:
		return string(digits)
	case len(digits) <= 4:
		return string(digits[:2]) + "/" + string(digits[2:])
	default:
		return string(digits[:2]) + "/" + string(digits[2:4]) + "/" + string(digits[4:])
	}
}
