package contract

import (
	"regexp"
	"strings"
)

// =============================================================================
// Draft Assembly
// =============================================================================

// placeholderRegex matches {field_name} placeholders in section text.
var placeholderRegex = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// SubstitutePlaceholders replaces every {field} occurrence with the value
// from variables. Placeholders with no matching variable are left verbatim -
// downstream pipeline stages may fill them later, so this is a deliberate
// leniency rather than an error.
//
// Examples:
//
//	SubstitutePlaceholders("between {employer_name} and {employee_name}",
//		map[string]string{"employer_name": "Acme"})
//	// Returns: "between Acme and {employee_name}"
func SubstitutePlaceholders(text string, variables map[string]string) string {
	if variables == nil {
		variables = make(map[string]string)
	}

	return placeholderRegex.ReplaceAllStringFunc(text, func(match string) string {
		name := match[1 : len(match)-1]
		if value, ok := variables[name]; ok {
			return value
		}
		return match
	})
}

// BuildDraft assembles the flat draft document from a template definition.
// Sections are processed in declaration order: placeholders substituted,
// then a customization for the exact section name replaces the substituted
// text entirely (full override, never a merge). Sections are joined with
// one blank line and the whole draft is trimmed.
//
// BuildDraft never fails; missing variables degrade to literal placeholders.
func BuildDraft(def *TemplateDefinition, variables, customizations map[string]string) string {
	parts := make([]string, 0, len(def.Sections))

	for _, section := range def.Sections {
		text := SubstitutePlaceholders(section.Text, variables)
		if override, ok := customizations[section.Name]; ok {
			text = override
		}
		parts = append(parts, strings.TrimSpace(text))
	}

	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}
