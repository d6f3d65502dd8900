package store

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/artpar/contractor/internal/core/contract"
	"gopkg.in/yaml.v3"
)

//go:embed seed/*.yaml
var seedFS embed.FS

// =============================================================================
// Definition Parsing
// =============================================================================

// definitionDoc is the YAML shape of a template definition. Sections are a
// sequence, so declaration order survives parsing.
type definitionDoc struct {
	Kind           string             `yaml:"kind"`
	RequiredFields []string           `yaml:"required_fields"`
	OptionalFields []string           `yaml:"optional_fields"`
	Sections       []contract.Section `yaml:"sections"`
}

// ParseDefinition parses a single YAML template definition and validates it.
func ParseDefinition(data []byte) (*contract.TemplateDefinition, error) {
	var doc definitionDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	def := &contract.TemplateDefinition{
		Kind:           doc.Kind,
		Sections:       doc.Sections,
		RequiredFields: doc.RequiredFields,
		OptionalFields: doc.OptionalFields,
	}
	if errs := contract.ValidateDefinition(def); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, errs[0])
	}
	return def, nil
}

// LoadDefinitionsDir reads every *.yaml / *.yml file in dir as a template
// definition. New contract kinds are data: dropping a file into dir adds a
// kind without any code change. A missing dir is not an error.
func LoadDefinitionsDir(dir string) ([]*contract.TemplateDefinition, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read template dir: %w", err)
	}

	var defs []*contract.TemplateDefinition
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", entry.Name(), err)
		}
		def, err := ParseDefinition(data)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", entry.Name(), err)
		}
		defs = append(defs, def)
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].Kind < defs[j].Kind })
	return defs, nil
}

// =============================================================================
// Seeding
// =============================================================================

// Seed inserts the built-in template definitions (employment, freelance,
// nda) for kinds not already present. Existing rows are never overwritten,
// so operator edits survive restarts.
func (s *SQLiteStore) Seed(ctx context.Context) error {
	entries, err := seedFS.ReadDir("seed")
	if err != nil {
		return NewStoreError("Seed", "", err.Error(), err)
	}

	for _, entry := range entries {
		data, err := seedFS.ReadFile("seed/" + entry.Name())
		if err != nil {
			return NewStoreError("Seed", "", err.Error(), err)
		}
		def, err := ParseDefinition(data)
		if err != nil {
			return NewStoreError("Seed", "", fmt.Sprintf("%s: %v", entry.Name(), err), err)
		}

		_, err = s.Requirements(ctx, def.Kind)
		if err == nil {
			continue // already present
		}
		if !IsNotFound(err) {
			return err
		}
		if err := s.Put(ctx, def); err != nil {
			return err
		}
	}
	return nil
}
