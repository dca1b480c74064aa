// Package contact validates the contact form and simulates sending it.
package contact

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Field names as they appear in the HTML form.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldMessage = "message"
)

// MinMessageLength is the shortest accepted message, in characters.
const MinMessageLength = 10

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// FieldErrors maps a field name to a user-facing message.
type FieldErrors map[string]string

// Clear drops the error for field, as when the visitor starts typing again.
func (e FieldErrors) Clear(field string) {
	delete(e, field)
}

// Fields returns the failing field names in sorted order.
func (e FieldErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Validate checks every field and returns the failures; an empty result
// means the form can be submitted.
func (f Form) Validate() FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(f.Name) == "" {
		errs[FieldName] = "Name is required"
	}

	// The pattern sees the raw input, so surrounding spaces are rejected.
	switch {
	case strings.TrimSpace(f.Email) == "":
		errs[FieldEmail] = "Email is required"
	case !emailPattern.MatchString(f.Email):
		errs[FieldEmail] = "Enter a valid email address"
	}

	message := strings.TrimSpace(f.Message)
	switch {
	case message == "":
		errs[FieldMessage] = "Message is required"
	case utf8.RuneCountInString(message) < MinMessageLength:
		errs[FieldMessage] = "Message must be at least 10 characters"
	}

	return errs
}

// Trimmed returns a copy with surrounding whitespace removed.
func (f Form) Trimmed() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
	}
}

// ValidationError is returned by Submit when the form is rejected.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return "contact: invalid fields: " + strings.Join(e.Fields.Fields(), ", ")
}
