package contract

import (
	"errors"
	"strings"
)

// =============================================================================
// Definition Validation
// =============================================================================

var (
	// Kind validation errors
	ErrKindRequired     = errors.New("kind is required")
	ErrKindNotCanonical = errors.New("kind must be in canonical form (lowercase, underscore separated)")

	// Section validation errors
	ErrNoSections          = errors.New("definition must have at least one section")
	ErrSectionNameRequired = errors.New("section name is required")
	ErrSectionDuplicate    = errors.New("duplicate section name")

	// Field validation errors
	ErrFieldNameRequired = errors.New("field name is required")
	ErrFieldDuplicate    = errors.New("duplicate field name")
)

// ValidateDefinition validates a template definition and returns all
// validation errors found. Used when loading operator-supplied definitions,
// since template kinds are pure data and never code.
func ValidateDefinition(def *TemplateDefinition) []error {
	var errs []error

	if err := validateKind(def.Kind); err != nil {
		errs = append(errs, err)
	}

	if len(def.Sections) == 0 {
		errs = append(errs, ErrNoSections)
	}
	seenSections := make(map[string]bool)
	for _, s := range def.Sections {
		if strings.TrimSpace(s.Name) == "" {
			errs = append(errs, ErrSectionNameRequired)
			continue
		}
		if seenSections[s.Name] {
			errs = append(errs, ErrSectionDuplicate)
			continue
		}
		seenSections[s.Name] = true
	}

	errs = append(errs, validateFields(def.RequiredFields)...)
	errs = append(errs, validateFields(def.OptionalFields)...)

	return errs
}

func validateKind(kind string) error {
	if kind == "" {
		return ErrKindRequired
	}
	if kind != NormalizeKind(kind) {
		return ErrKindNotCanonical
	}
	return nil
}

func validateFields(fields []string) []error {
	var errs []error
	seen := make(map[string]bool)
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			errs = append(errs, ErrFieldNameRequired)
			continue
		}
		if seen[f] {
			errs = append(errs, ErrFieldDuplicate)
			continue
		}
		seen[f] = true
	}
	return errs
}
