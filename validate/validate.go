// Package validate holds the shallow input checks applied before anything
// is sent upstream.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ValidationError describes a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MultiError collects multiple validation errors for a single request.
type MultiError struct {
	Errors []ValidationError
}

// Add appends a validation error. If err is nil, Add is a no-op.
func (m *MultiError) Add(err error) {
	if err == nil {
		return
	}
	switch e := err.(type) {
	case *ValidationError:
		m.Errors = append(m.Errors, *e)
	case *MultiError:
		m.Errors = append(m.Errors, e.Errors...)
	default:
		m.Errors = append(m.Errors, ValidationError{Field: "request", Message: err.Error()})
	}
}

// HasErrors reports whether any errors have been collected.
func (m *MultiError) HasErrors() bool { return len(m.Errors) > 0 }

// Err returns m when it holds errors and nil otherwise.
func (m *MultiError) Err() error {
	if m.HasErrors() {
		return m
	}
	return nil
}

func (m *MultiError) Error() string {
	parts := make([]string, len(m.Errors))
	for i, e := range m.Errors {
		parts[i] = e.Error()
	}
	return strings.Join(parts, " | ")
}

// Fields returns the collected failures of err when it is a validation
// error, or nil otherwise.
func Fields(err error) []ValidationError {
	switch e := err.(type) {
	case *ValidationError:
		return []ValidationError{*e}
	case *MultiError:
		return e.Errors
	}
	return nil
}

// NonEmpty validates that value is not empty or whitespace-only.
func NonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "must not be empty"}
	}
	return nil
}

var slugRE = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Slug validates a lowercase hyphenated identifier such as "hanh-dong".
func Slug(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Message: "must not be empty"}
	}
	if !slugRE.MatchString(value) {
		return &ValidationError{Field: field, Message: "must contain only lowercase letters, digits and single hyphens"}
	}
	return nil
}

var nonSlugRE = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a display name into a slug: Vietnamese diacritics are
// stripped, đ becomes d and any run of other characters becomes one hyphen.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}
	plain = strings.ToLower(plain)
	plain = strings.ReplaceAll(plain, "đ", "d")
	return strings.Trim(nonSlugRE.ReplaceAllString(plain, "-"), "-")
}

// IntRange validates that value is within [min, max] inclusive.
func IntRange(field string, value, min, max int) error {
	if value < min || value > max {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be between %d and %d", min, max)}
	}
	return nil
}

// Positive validates that value is greater than zero.
func Positive(field string, value int) error {
	if value <= 0 {
		return &ValidationError{Field: field, Message: "must be greater than 0"}
	}
	return nil
}

// OneOf validates that value is one of allowed.
func OneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &ValidationError{Field: field, Message: "must be one of " + strings.Join(allowed, ", ")}
}

var timeRE = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ScheduleTime validates a 24h "HH:MM" airing time.
func ScheduleTime(field, value string) error {
	if !timeRE.MatchString(value) {
		return &ValidationError{Field: field, Message: "must be a time in HH:MM format"}
	}
	return nil
}

// Weekday validates a weekday number, 2 (Monday) to 8 (Sunday).
func Weekday(field string, value int) error {
	return IntRange(field, value, 2, 8)
}

var countryCodeRE = regexp.MustCompile(`^[A-Za-z]{2,3}$`)

// CountryCode validates a two or three letter country code. Case is not
// checked; codes are upper-cased before they are stored.
func CountryCode(field, value string) error {
	if !countryCodeRE.MatchString(strings.TrimSpace(value)) {
		return &ValidationError{Field: field, Message: "must be a 2 or 3 letter country code"}
	}
	return nil
}
