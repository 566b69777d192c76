package locations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// storageKey is the fixed key the document is stored under. The whole list
// lives in a single row, matching the write-through document model.
const storageKey = "saved_locations"

// PostgresRepository is a PostgreSQL implementation of Repository for the
// server deployment. The list is kept as one JSONB document so mutation
// semantics stay identical to the file store.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL locations repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Load reads the document row. A missing row is an empty list; a document
// that fails to parse yields ErrCorruptData.
func (r *PostgresRepository) Load(ctx context.Context) ([]SavedLocation, error) {
	query := `SELECT document FROM kv_documents WHERE key = $1`

	var raw []byte
	err := r.pool.QueryRow(ctx, query, storageKey).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return []SavedLocation{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load saved locations: %w", err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}

	if doc.Locations == nil {
		return []SavedLocation{}, nil
	}
	return doc.Locations, nil
}

// Save upserts the whole document under the fixed key.
func (r *PostgresRepository) Save(ctx context.Context, list []SavedLocation) error {
	doc := document{
		Version:   schemaVersion,
		Locations: list,
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode saved locations: %w", err)
	}

	query := `
		INSERT INTO kv_documents (key, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET document = EXCLUDED.document, updated_at = now()
	`

	if _, err := r.pool.Exec(ctx, query, storageKey, raw); err != nil {
		return fmt.Errorf("save saved locations: %w", err)
	}
	return nil
}

// Clear deletes the document row.
func (r *PostgresRepository) Clear(ctx context.Context) error {
	query := `DELETE FROM kv_documents WHERE key = $1`

	if _, err := r.pool.Exec(ctx, query, storageKey); err != nil {
		return fmt.Errorf("clear saved locations: %w", err)
	}
	return nil
}

// Ensure PostgresRepository implements Repository.
var _ Repository = (*PostgresRepository)(nil)
