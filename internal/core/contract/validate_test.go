package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Test Fixtures
// =============================================================================

var employmentRequired = []string{
	"date", "employer_name", "employee_name", "position", "salary",
	"start_date", "location", "jurisdiction", "employee_address", "duties",
	"benefits", "working_hours", "probation_period",
}

var freelanceRequired = []string{
	"date", "client_name", "client_address", "client_title",
	"freelancer_name", "freelancer_address", "project_description",
	"payment_terms", "delivery_timeline", "jurisdiction",
}

var ndaRequired = []string{
	"date", "company_name", "company_address", "company_title",
	"recipient_name", "recipient_address", "confidential_info_definition",
	"permitted_use", "duration", "jurisdiction",
}

func allFields(fields []string) map[string]string {
	vars := make(map[string]string, len(fields))
	for _, f := range fields {
		vars[f] = "value"
	}
	return vars
}

// =============================================================================
// NormalizeKind Tests
// =============================================================================

func TestNormalizeKind_Lowercase(t *testing.T) {
	assert.Equal(t, "employment", NormalizeKind("EMPLOYMENT"))
}

func TestNormalizeKind_TrimsWhitespace(t *testing.T) {
	assert.Equal(t, "nda", NormalizeKind("  NDA  "))
}

func TestNormalizeKind_DropsTrailingContractWord(t *testing.T) {
	assert.Equal(t, "employment", NormalizeKind("Employment Contract"))
	assert.Equal(t, "freelance", NormalizeKind("freelance contract"))
}

func TestNormalizeKind_CollapsesSeparators(t *testing.T) {
	assert.Equal(t, "non_disclosure", NormalizeKind("non disclosure"))
	assert.Equal(t, "non_disclosure", NormalizeKind("Non-Disclosure"))
	assert.Equal(t, "non_disclosure", NormalizeKind("non  -  disclosure"))
}

func TestNormalizeKind_Idempotent(t *testing.T) {
	inputs := []string{"Employment Contract", "  NDA ", "Non-Disclosure", "freelance"}
	for _, in := range inputs {
		once := NormalizeKind(in)
		assert.Equal(t, once, NormalizeKind(once), "input %q", in)
	}
}

func TestNormalizeKind_ContractAlone(t *testing.T) {
	// "contract" is only dropped as a trailing word, not as the whole name
	assert.Equal(t, "contract", NormalizeKind("contract"))
}

// =============================================================================
// Validate Tests
// =============================================================================

func TestValidate_AllRequiredPresent(t *testing.T) {
	kinds := map[string][]string{
		"employment": employmentRequired,
		"freelance":  freelanceRequired,
		"nda":        ndaRequired,
	}

	for kind, required := range kinds {
		reqs := &Requirements{Required: required}
		result := Validate(kind, reqs, allFields(required))

		assert.True(t, result.IsValid, "kind %s", kind)
		assert.True(t, result.TemplateFound, "kind %s", kind)
		assert.Empty(t, result.MissingFields, "kind %s", kind)
		assert.Equal(t, kind, result.NormalizedKind)
	}
}

func TestValidate_EachMissingFieldDetected(t *testing.T) {
	reqs := &Requirements{Required: employmentRequired}

	for _, removed := range employmentRequired {
		vars := allFields(employmentRequired)
		delete(vars, removed)

		result := Validate("employment", reqs, vars)
		assert.False(t, result.IsValid, "removed %s", removed)
		assert.Equal(t, []string{removed}, result.MissingFields)
	}
}

func TestValidate_MissingFieldsPreserveDeclarationOrder(t *testing.T) {
	reqs := &Requirements{Required: ndaRequired}
	result := Validate("NDA", reqs, map[string]string{"date": "2024-01-01"})

	assert.False(t, result.IsValid)
	assert.True(t, result.TemplateFound)
	assert.Equal(t, ndaRequired[1:], result.MissingFields)
}

func TestValidate_UnknownKind(t *testing.T) {
	result := Validate("partnership", nil, map[string]string{"date": "2024-01-01"})

	assert.False(t, result.IsValid)
	assert.False(t, result.TemplateFound)
	assert.Equal(t, "partnership", result.NormalizedKind)
	assert.Empty(t, result.MissingFields)
}

func TestValidate_NormalizationParity(t *testing.T) {
	reqs := &Requirements{Required: employmentRequired}
	vars := allFields(employmentRequired)

	a := Validate("Employment Contract", reqs, vars)
	b := Validate("employment", reqs, vars)

	assert.Equal(t, a, b)
}

func TestValidate_ExtraVariablesIgnored(t *testing.T) {
	reqs := &Requirements{Required: []string{"date"}}
	result := Validate("nda", reqs, map[string]string{
		"date":       "2024-01-01",
		"unexpected": "ignored",
	})

	assert.True(t, result.IsValid)
	assert.Empty(t, result.MissingFields)
}

func TestValidate_NilVariables(t *testing.T) {
	reqs := &Requirements{Required: []string{"date", "duration"}}
	result := Validate("nda", reqs, nil)

	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"date", "duration"}, result.MissingFields)
}
