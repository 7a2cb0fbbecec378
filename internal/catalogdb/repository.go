// Package catalogdb stores the module catalog in Postgres. Each import
// replaces the whole catalog and is recorded as an import batch.
package catalogdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spcalc/spcalc/pkg/catalog"
)

// ErrEmptyCatalog is returned when an import carries no modules.
var ErrEmptyCatalog = errors.New("catalog has no modules")

// Repository provides catalog persistence backed by Postgres.
type Repository struct {
	db *sql.DB
}

// Import describes one catalog import batch.
type Import struct {
	ID          string
	Source      string
	ModuleCount int
	ImportedAt  time.Time
}

// NewRepository creates a new catalog Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ReplaceCatalog swaps the stored catalog for modules in a single
// transaction and returns the new import ID.
func (r *Repository) ReplaceCatalog(ctx context.Context, source string, modules []catalog.Module) (string, error) {
	if len(modules) == 0 {
		return "", ErrEmptyCatalog
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	importID := uuid.New().String()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO catalog_imports (id, source, module_count) VALUES ($1, $2, $3)`,
		importID, source, len(modules),
	); err != nil {
		return "", fmt.Errorf("record import: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_modules`); err != nil {
		return "", fmt.Errorf("clear catalog: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO catalog_modules (code, position, title, credits, semester, import_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (code) DO NOTHING`)
	if err != nil {
		return "", fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range modules {
		if _, err := stmt.ExecContext(ctx, m.Code, i, m.Title, m.Credits, m.Semester, importID); err != nil {
			return "", fmt.Errorf("insert module %s: %w", m.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit import: %w", err)
	}
	return importID, nil
}

// ListModules returns the stored catalog in its original order.
func (r *Repository) ListModules(ctx context.Context) ([]catalog.Module, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT code, title, credits, semester
		 FROM catalog_modules ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	var modules []catalog.Module
	for rows.Next() {
		var m catalog.Module
		if err := rows.Scan(&m.Code, &m.Title, &m.Credits, &m.Semester); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

// LoadCatalog reads the stored modules into an in-memory Catalog.
func (r *Repository) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	modules, err := r.ListModules(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.New(modules), nil
}

// LatestImport returns the most recent import batch.
func (r *Repository) LatestImport(ctx context.Context) (*Import, error) {
	imp := &Import{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, source, module_count, imported_at
		 FROM catalog_imports ORDER BY imported_at DESC LIMIT 1`,
	).Scan(&imp.ID, &imp.Source, &imp.ModuleCount, &imp.ImportedAt)
	if err != nil {
		return nil, fmt.Errorf("latest import: %w", err)
	}
	return imp, nil
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
