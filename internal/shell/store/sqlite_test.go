package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/artpar/contractor/internal/core/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func setupSeededStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s := setupTestStore(t)
	require.NoError(t, s.Seed(context.Background()))
	return s
}

func testDefinition() *contract.TemplateDefinition {
	return &contract.TemplateDefinition{
		Kind: "partnership",
		Sections: []contract.Section{
			{Name: "title", Text: "**PARTNERSHIP AGREEMENT**"},
			{Name: "parties", Text: "Between {partner_a} and {partner_b}."},
		},
		RequiredFields: []string{"partner_a", "partner_b"},
		OptionalFields: []string{"profit_split"},
	}
}

// =============================================================================
// Put / Load Tests
// =============================================================================

func TestPutAndLoad_RoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testDefinition()))

	def, err := s.Load(ctx, "partnership")
	require.NoError(t, err)
	assert.Equal(t, "partnership", def.Kind)
	assert.Equal(t, []contract.Section{
		{Name: "title", Text: "**PARTNERSHIP AGREEMENT**"},
		{Name: "parties", Text: "Between {partner_a} and {partner_b}."},
	}, def.Sections)
	assert.Equal(t, []string{"partner_a", "partner_b"}, def.RequiredFields)
	assert.Equal(t, []string{"profit_split"}, def.OptionalFields)
	assert.False(t, def.CreatedAt.IsZero())
}

func TestLoad_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Load(context.Background(), "unknown")
	assert.True(t, IsNotFound(err))
}

func TestPut_Upsert(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	def := testDefinition()
	require.NoError(t, s.Put(ctx, def))

	def.Sections[0].Text = "**REVISED PARTNERSHIP AGREEMENT**"
	require.NoError(t, s.Put(ctx, def))

	loaded, err := s.Load(ctx, "partnership")
	require.NoError(t, err)
	assert.Equal(t, "**REVISED PARTNERSHIP AGREEMENT**", loaded.Sections[0].Text)

	defs, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, defs, 1)
}

func TestPut_RejectsInvalidDefinition(t *testing.T) {
	s := setupTestStore(t)

	def := testDefinition()
	def.Kind = "Not Canonical"
	err := s.Put(context.Background(), def)
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

// =============================================================================
// Requirements Tests
// =============================================================================

func TestRequirements_FieldsOnly(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, testDefinition()))

	reqs, err := s.Requirements(ctx, "partnership")
	require.NoError(t, err)
	assert.Equal(t, []string{"partner_a", "partner_b"}, reqs.Required)
	assert.Equal(t, []string{"profit_split"}, reqs.Optional)
}

func TestRequirements_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Requirements(context.Background(), "unknown")
	assert.True(t, IsNotFound(err))
}

// =============================================================================
// Seed Tests
// =============================================================================

func TestSeed_BuiltInKindsPresent(t *testing.T) {
	s := setupSeededStore(t)
	ctx := context.Background()

	for _, kind := range []string{"employment", "freelance", "nda"} {
		def, err := s.Load(ctx, kind)
		require.NoError(t, err, "kind %s", kind)
		assert.NotEmpty(t, def.Sections, "kind %s", kind)
		assert.NotEmpty(t, def.RequiredFields, "kind %s", kind)
	}
}

func TestSeed_RequiredFieldDeclarations(t *testing.T) {
	s := setupSeededStore(t)
	ctx := context.Background()

	reqs, err := s.Requirements(ctx, "nda")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"date", "company_name", "company_address", "company_title",
		"recipient_name", "recipient_address", "confidential_info_definition",
		"permitted_use", "duration", "jurisdiction",
	}, reqs.Required)

	reqs, err = s.Requirements(ctx, "employment")
	require.NoError(t, err)
	assert.Len(t, reqs.Required, 13)
	assert.Equal(t, "date", reqs.Required[0])
	assert.Equal(t, "probation_period", reqs.Required[12])

	reqs, err = s.Requirements(ctx, "freelance")
	require.NoError(t, err)
	assert.Len(t, reqs.Required, 10)
	assert.Equal(t, "jurisdiction", reqs.Required[9])
}

func TestSeed_DoesNotOverwriteExisting(t *testing.T) {
	s := setupSeededStore(t)
	ctx := context.Background()

	def, err := s.Load(ctx, "nda")
	require.NoError(t, err)
	def.Sections[0].Text = "**OPERATOR EDITED**"
	require.NoError(t, s.Put(ctx, def))

	require.NoError(t, s.Seed(ctx))

	reloaded, err := s.Load(ctx, "nda")
	require.NoError(t, err)
	assert.Equal(t, "**OPERATOR EDITED**", reloaded.Sections[0].Text)
}

func TestSeed_SectionTextUsesDeclaredFields(t *testing.T) {
	// Every required field should appear as a placeholder somewhere in the
	// section bodies, otherwise the declaration and the text drifted apart.
	s := setupSeededStore(t)
	ctx := context.Background()

	defs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 3)

	for _, def := range defs {
		var all string
		for _, sec := range def.Sections {
			all += sec.Text
		}
		for _, field := range def.RequiredFields {
			assert.Contains(t, all, "{"+field+"}", "kind %s", def.Kind)
		}
	}
}

// =============================================================================
// Definition Directory Tests
// =============================================================================

func TestLoadDefinitionsDir(t *testing.T) {
	dir := t.TempDir()
	doc := `kind: consulting
required_fields:
  - date
  - consultant_name
optional_fields: []
sections:
  - name: title
    text: "**CONSULTING AGREEMENT**"
  - name: parties
    text: "Consultant {consultant_name}, dated {date}."
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "consulting.yaml"), []byte(doc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	defs, err := LoadDefinitionsDir(dir)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "consulting", defs[0].Kind)
	assert.Equal(t, []string{"date", "consultant_name"}, defs[0].RequiredFields)
	assert.Equal(t, "title", defs[0].Sections[0].Name)
}

func TestLoadDefinitionsDir_Missing(t *testing.T) {
	defs, err := LoadDefinitionsDir(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestLoadDefinitionsDir_InvalidDefinition(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"),
		[]byte("kind: Not Canonical\nsections: []\n"), 0o644))

	_, err := LoadDefinitionsDir(dir)
	assert.Error(t, err)
}

func TestParseDefinition_SectionOrderSurvives(t *testing.T) {
	doc := `kind: ordered
required_fields: [a]
sections:
  - name: one
    text: first
  - name: two
    text: second
  - name: three
    text: third
`
	def, err := ParseDefinition([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"},
		[]string{def.Sections[0].Name, def.Sections[1].Name, def.Sections[2].Name})
}
