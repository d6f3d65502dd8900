// Package contract contains the core domain types and logic for contract
// generation. This is part of the Functional Core - all functions are pure
// with no I/O.
package contract

import "time"

// =============================================================================
// Template Definition
// =============================================================================

// Section is a named block of template text containing {field} placeholders.
type Section struct {
	Name string `json:"name" yaml:"name"`
	Text string `json:"text" yaml:"text"`
}

// TemplateDefinition describes one contract kind: its ordered sections and
// the fields a caller must (or may) supply. Definitions are immutable once
// loaded and safe to share across concurrent requests.
type TemplateDefinition struct {
	ID             int       `json:"-"`
	Kind           string    `json:"kind"`
	Sections       []Section `json:"sections"`
	RequiredFields []string  `json:"required_fields"`
	OptionalFields []string  `json:"optional_fields,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FieldRequirements returns just the field declaration of the definition.
func (d *TemplateDefinition) FieldRequirements() *Requirements {
	return &Requirements{
		Required: d.RequiredFields,
		Optional: d.OptionalFields,
	}
}

// Requirements is the field declaration of a template kind, loadable
// without the section bodies so validation can run before they are.
type Requirements struct {
	Required []string `json:"required_fields"`
	Optional []string `json:"optional_fields,omitempty"`
}

// =============================================================================
// Validation Result
// =============================================================================

// ValidationResult reports whether a requested kind and variable set are
// sufficient to build a contract. Computed fresh per request.
type ValidationResult struct {
	IsValid        bool     `json:"is_valid"`
	TemplateFound  bool     `json:"template_found"`
	NormalizedKind string   `json:"normalized_type"`
	MissingFields  []string `json:"missing_fields"`
}
