package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/artpar/contractor/internal/core/contract"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// =============================================================================
// SQLiteStore
// =============================================================================

// SQLiteStore implements TemplateStore using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore creates a new SQLite store and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite3", dsn+"?_foreign_keys=on")
	if err != nil {
		return nil, NewStoreError("NewSQLiteStore", "", "failed to open database", ErrConnectionFailed)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "failed to ping database", ErrConnectionFailed)
	}

	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", err.Error(), ErrMigrationFailed)
	}

	return &SQLiteStore{db: db}, nil
}

// runMigrations runs database migrations using embedded SQL files.
func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// Row Mapping
// =============================================================================

// templateRow represents a template definition row in the database.
type templateRow struct {
	ID             int    `db:"id"`
	Kind           string `db:"kind"`
	Sections       string `db:"sections"`
	RequiredFields string `db:"required_fields"`
	OptionalFields string `db:"optional_fields"`
	CreatedAt      string `db:"created_at"`
	UpdatedAt      string `db:"updated_at"`
}

func (r *templateRow) toDefinition() (*contract.TemplateDefinition, error) {
	def := &contract.TemplateDefinition{
		ID:   r.ID,
		Kind: r.Kind,
	}

	if err := json.Unmarshal([]byte(r.Sections), &def.Sections); err != nil {
		return nil, fmt.Errorf("sections: %w", err)
	}
	if err := json.Unmarshal([]byte(r.RequiredFields), &def.RequiredFields); err != nil {
		return nil, fmt.Errorf("required_fields: %w", err)
	}
	if err := json.Unmarshal([]byte(r.OptionalFields), &def.OptionalFields); err != nil {
		return nil, fmt.Errorf("optional_fields: %w", err)
	}

	if t, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
		def.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, r.UpdatedAt); err == nil {
		def.UpdatedAt = t
	}

	return def, nil
}

func rowFromDefinition(def *contract.TemplateDefinition, now time.Time) (*templateRow, error) {
	sections, err := json.Marshal(def.Sections)
	if err != nil {
		return nil, fmt.Errorf("sections: %w", err)
	}
	required, err := json.Marshal(fieldsOrEmpty(def.RequiredFields))
	if err != nil {
		return nil, fmt.Errorf("required_fields: %w", err)
	}
	optional, err := json.Marshal(fieldsOrEmpty(def.OptionalFields))
	if err != nil {
		return nil, fmt.Errorf("optional_fields: %w", err)
	}

	created := def.CreatedAt
	if created.IsZero() {
		created = now
	}

	return &templateRow{
		Kind:           def.Kind,
		Sections:       string(sections),
		RequiredFields: string(required),
		OptionalFields: string(optional),
		CreatedAt:      created.UTC().Format(time.RFC3339),
		UpdatedAt:      now.UTC().Format(time.RFC3339),
	}, nil
}

// fieldsOrEmpty keeps nil field lists serializable as [] rather than null.
func fieldsOrEmpty(fields []string) []string {
	if fields == nil {
		return []string{}
	}
	return fields
}

// =============================================================================
// Template Operations
// =============================================================================

// Load returns the full definition for a canonical kind.
func (s *SQLiteStore) Load(ctx context.Context, kind string) (*contract.TemplateDefinition, error) {
	var row templateRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, kind, sections, required_fields, optional_fields, created_at, updated_at
		 FROM contract_templates WHERE kind = ?`, kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewStoreError("Load", kind, "not found", ErrTemplateNotFound)
	}
	if err != nil {
		return nil, NewStoreError("Load", kind, err.Error(), err)
	}

	def, err := row.toDefinition()
	if err != nil {
		return nil, NewStoreError("Load", kind, err.Error(), ErrInvalidData)
	}
	return def, nil
}

// Requirements returns only the field declaration for a kind.
func (s *SQLiteStore) Requirements(ctx context.Context, kind string) (*contract.Requirements, error) {
	var row struct {
		RequiredFields string `db:"required_fields"`
		OptionalFields string `db:"optional_fields"`
	}
	err := s.db.GetContext(ctx, &row,
		`SELECT required_fields, optional_fields FROM contract_templates WHERE kind = ?`, kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewStoreError("Requirements", kind, "not found", ErrTemplateNotFound)
	}
	if err != nil {
		return nil, NewStoreError("Requirements", kind, err.Error(), err)
	}

	var reqs contract.Requirements
	if err := json.Unmarshal([]byte(row.RequiredFields), &reqs.Required); err != nil {
		return nil, NewStoreError("Requirements", kind, err.Error(), ErrInvalidData)
	}
	if err := json.Unmarshal([]byte(row.OptionalFields), &reqs.Optional); err != nil {
		return nil, NewStoreError("Requirements", kind, err.Error(), ErrInvalidData)
	}
	return &reqs, nil
}

// Put inserts or replaces a definition after domain validation.
func (s *SQLiteStore) Put(ctx context.Context, def *contract.TemplateDefinition) error {
	if errs := contract.ValidateDefinition(def); len(errs) > 0 {
		return NewStoreError("Put", def.Kind, errs[0].Error(), ErrInvalidDefinition)
	}

	row, err := rowFromDefinition(def, time.Now())
	if err != nil {
		return NewStoreError("Put", def.Kind, err.Error(), ErrInvalidData)
	}

	_, err = s.db.NamedExecContext(ctx,
		`INSERT INTO contract_templates (kind, sections, required_fields, optional_fields, created_at, updated_at)
		 VALUES (:kind, :sections, :required_fields, :optional_fields, :created_at, :updated_at)
		 ON CONFLICT(kind) DO UPDATE SET
		   sections = excluded.sections,
		   required_fields = excluded.required_fields,
		   optional_fields = excluded.optional_fields,
		   updated_at = excluded.updated_at`, row)
	if err != nil {
		return NewStoreError("Put", def.Kind, err.Error(), err)
	}
	return nil
}

// List returns all known definitions ordered by kind.
func (s *SQLiteStore) List(ctx context.Context) ([]contract.TemplateDefinition, error) {
	var rows []templateRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, kind, sections, required_fields, optional_fields, created_at, updated_at
		 FROM contract_templates ORDER BY kind`)
	if err != nil {
		return nil, NewStoreError("List", "", err.Error(), err)
	}

	defs := make([]contract.TemplateDefinition, 0, len(rows))
	for i := range rows {
		def, err := rows[i].toDefinition()
		if err != nil {
			return nil, NewStoreError("List", rows[i].Kind, err.Error(), ErrInvalidData)
		}
		defs = append(defs, *def)
	}
	return defs, nil
}
