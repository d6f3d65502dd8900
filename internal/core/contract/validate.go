package contract

import (
	"regexp"
	"strings"
)

// =============================================================================
// Kind Normalization
// =============================================================================

// kindSeparatorRegex matches runs of spaces and hyphens, which collapse to a
// single underscore in canonical kind keys.
var kindSeparatorRegex = regexp.MustCompile(`[\s-]+`)

// NormalizeKind converts a requested template type to its canonical lookup
// key: lowercase, trimmed, a trailing literal word "contract" removed, and
// runs of spaces and hyphens collapsed to a single underscore.
//
// Normalization is idempotent.
//
// Examples:
//
//	NormalizeKind("Employment Contract")  // "employment"
//	NormalizeKind("  NDA ")               // "nda"
//	NormalizeKind("non disclosure")       // "non_disclosure"
func NormalizeKind(requested string) string {
	kind := strings.ToLower(strings.TrimSpace(requested))
	kind = strings.TrimSuffix(kind, " contract")
	kind = strings.TrimSpace(kind)
	return kindSeparatorRegex.ReplaceAllString(kind, "_")
}

// =============================================================================
// Variable Validation
// =============================================================================

// Validate checks a requested template type and variable set against a
// template's field declaration. A nil reqs means the kind is unknown; in
// that case no missing-field computation happens.
//
// Missing fields preserve the declaration order of reqs.Required. The
// function consults only the declaration, never section bodies, so it can
// run before any template text is loaded.
func Validate(requested string, reqs *Requirements, variables map[string]string) ValidationResult {
	result := ValidationResult{
		NormalizedKind: NormalizeKind(requested),
		MissingFields:  []string{},
	}

	if reqs == nil {
		return result
	}
	result.TemplateFound = true

	for _, field := range reqs.Required {
		if _, ok := variables[field]; !ok {
			result.MissingFields = append(result.MissingFields, field)
		}
	}
	result.IsValid = len(result.MissingFields) == 0

	return result
}
