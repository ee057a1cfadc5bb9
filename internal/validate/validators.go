package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
)

const (
	minNameLength = 2
	minBirthYear  = 1900
)

var (
	// local@domain.tld shaped, no embedded whitespace, at least one dot
	// after the @.
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// Strict DD/MM/YYYY digit grouping.
	birthdateRegex = regexp.MustCompile(`^([0-9]{2})/([0-9]{2})/([0-9]{4})$`)
)

// Name fails Required for empty input (after trimming) and TooShort for
// fewer than 2 characters.
func Name(value string) domain.ValidationResult {
	value = strings.TrimSpace(value)

	if value == "" {
		return domain.Fail(domain.ValidationRequired, "Name is required")
	}
	if len([]rune(value)) < minNameLength {
		return domain.Fail(domain.ValidationTooShort,
			fmt.Sprintf("Name must be at least %d characters", minNameLength))
	}

	return domain.OK()
}

// Email fails Required for empty input and InvalidFormat for anything not
// shaped like local@domain.tld.
func Email(value string) domain.ValidationResult {
	value = strings.TrimSpace(value)

	if value == "" {
		return domain.Fail(domain.ValidationRequired, "Email is required")
	}
	if !emailRegex.MatchString(value) {
		return domain.Fail(domain.ValidationInvalidFormat, "Please enter a valid email address")
	}

	return domain.OK()
}

// Birthdate is optional: empty input is valid. Present input must match
// DD/MM/YYYY exactly, with day/month/year in range and the day not exceeding
// the actual days in that month, leap years included.
func Birthdate(value string) domain.ValidationResult {
	value = strings.TrimSpace(value)

	if value == "" {
		return domain.OK()
	}

	groups := birthdateRegex.FindStringSubmatch(value)
	if groups == nil {
		return domain.Fail(domain.ValidationInvalidFormat,
			"Invalid format. Use DD/MM/YYYY (e.g. 15/03/1990)")
	}

	day, _ := strconv.Atoi(groups[1])
	month, _ := strconv.Atoi(groups[2])
	year, _ := strconv.Atoi(groups[3])

	if day < 1 || day > 31 || month < 1 || month > 12 {
		return domain.Fail(domain.ValidationOutOfRange, "Invalid date. Check the day and month")
	}

	currentYear := time.Now().Year()
	if year < minBirthYear || year > currentYear {
		return domain.Fail(domain.ValidationOutOfRange,
			fmt.Sprintf("Invalid year. Must be between %d and %d", minBirthYear, currentYear))
	}

	if day > daysInMonth(month, year) {
		return domain.Fail(domain.ValidationCalendarMismatch,
			"Invalid date for the selected month and year")
	}

	return domain.OK()
}

// Consent fails Required unless the checkbox is checked.
func Consent(checked bool) domain.ValidationResult {
	if !checked {
		return domain.Fail(domain.ValidationRequired, "You must accept the terms to continue")
	}
	return domain.OK()
}

// Form evaluates every field, never short-circuiting, so all relevant
// errors surface simultaneously.
func Form(form domain.FormState) domain.FormValidation {
	return domain.FormValidation{
		Name:      Name(form.Name),
		Email:     Email(form.Email),
		Birthdate: Birthdate(form.Birthdate),
		Consent:   Consent(form.Consent),
	}
}

func daysInMonth(month, year int) int {
	switch month {
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// Divisible by 4, not by 100 unless also by 400.
func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
