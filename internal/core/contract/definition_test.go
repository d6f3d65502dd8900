package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validDefinition() *TemplateDefinition {
	return &TemplateDefinition{
		Kind: "nda",
		Sections: []Section{
			{Name: "title", Text: "**NDA**"},
			{Name: "body", Text: "Between {company_name} and {recipient_name}."},
		},
		RequiredFields: []string{"company_name", "recipient_name"},
		OptionalFields: []string{"special_terms"},
	}
}

func TestValidateDefinition_Valid(t *testing.T) {
	assert.Empty(t, ValidateDefinition(validDefinition()))
}

func TestValidateDefinition_KindRequired(t *testing.T) {
	def := validDefinition()
	def.Kind = ""
	assert.Contains(t, ValidateDefinition(def), ErrKindRequired)
}

func TestValidateDefinition_KindMustBeCanonical(t *testing.T) {
	def := validDefinition()
	def.Kind = "Employment Contract"
	assert.Contains(t, ValidateDefinition(def), ErrKindNotCanonical)
}

func TestValidateDefinition_NoSections(t *testing.T) {
	def := validDefinition()
	def.Sections = nil
	assert.Contains(t, ValidateDefinition(def), ErrNoSections)
}

func TestValidateDefinition_SectionNameRequired(t *testing.T) {
	def := validDefinition()
	def.Sections = append(def.Sections, Section{Name: "  ", Text: "text"})
	assert.Contains(t, ValidateDefinition(def), ErrSectionNameRequired)
}

func TestValidateDefinition_DuplicateSection(t *testing.T) {
	def := validDefinition()
	def.Sections = append(def.Sections, Section{Name: "title", Text: "again"})
	assert.Contains(t, ValidateDefinition(def), ErrSectionDuplicate)
}

func TestValidateDefinition_DuplicateField(t *testing.T) {
	def := validDefinition()
	def.RequiredFields = append(def.RequiredFields, "company_name")
	assert.Contains(t, ValidateDefinition(def), ErrFieldDuplicate)
}
