package contract

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// =============================================================================
// Output Naming
// =============================================================================

// recipientFields maps a template kind to the variable naming the person the
// generated file is for.
var recipientFields = map[string]string{
	"employment": "employee_name",
	"freelance":  "freelancer_name",
	"nda":        "recipient_name",
}

// fallbackRecipient is used when no recipient variable is present.
const fallbackRecipient = "unnamed"

// RecipientName selects the recipient for output naming based on the
// template kind. Unknown kinds and absent or blank variables fall back to
// "unnamed".
func RecipientName(kind string, variables map[string]string) string {
	field, ok := recipientFields[kind]
	if !ok {
		return fallbackRecipient
	}
	name := strings.TrimSpace(variables[field])
	if name == "" {
		return fallbackRecipient
	}
	return name
}

// SanitizeRecipient strips a recipient name down to characters safe for
// filenames: letters, digits, space, hyphen, and underscore. Everything
// else is dropped, not replaced.
//
// Example:
//
//	SanitizeRecipient("O'Brien & Co.")  // "OBrien  Co"
func SanitizeRecipient(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// OutputFilename builds the name of a rendered contract file:
// {kind}-{sanitized recipient}-{YYYYMMDD_HHMMSS}-{token}.pdf. The token
// keeps concurrent same-second renders for the same recipient from
// colliding; timestamp granularity alone cannot guarantee that.
func OutputFilename(kind, recipient string, at time.Time, token string) string {
	return fmt.Sprintf("%s-%s-%s-%s.pdf",
		strings.ToLower(kind),
		SanitizeRecipient(recipient),
		at.Format("20060102_150405"),
		token,
	)
}

// NewFilenameToken returns a short random token for filename uniqueness.
func NewFilenameToken() string {
	return uuid.New().String()[:8]
}
