package store

import (
	"context"

	"github.com/artpar/contractor/internal/core/contract"
)

// =============================================================================
// Store Interface
// =============================================================================

// TemplateStore defines the persistence interface for template definitions.
// Definitions are read-mostly; implementations must be safe for concurrent
// use.
type TemplateStore interface {
	// Load returns the full definition for a canonical kind.
	Load(ctx context.Context, kind string) (*contract.TemplateDefinition, error)

	// Requirements returns only the field declaration for a kind, without
	// section bodies, so validation can run before any template text loads.
	Requirements(ctx context.Context, kind string) (*contract.Requirements, error)

	// Put inserts or replaces a definition. The kind must be canonical.
	Put(ctx context.Context, def *contract.TemplateDefinition) error

	// List returns all known definitions ordered by kind.
	List(ctx context.Context) ([]contract.TemplateDefinition, error)

	// Close releases the underlying resources.
	Close() error
}
