package locations

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// schemaVersion identifies the on-disk document format. The original format
// had no version field; version 1 adds the envelope.
const schemaVersion = 1

// document is the on-disk envelope for the saved location list.
type document struct {
	Version   int             `json:"version"`
	Locations []SavedLocation `json:"locations"`
}

// FileRepository persists the list as a single JSON document on disk, the
// durable-local-storage equivalent of the mobile app's storage key.
type FileRepository struct {
	path string
}

// NewFileRepository creates a repository backed by the given file path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Load reads the document. A missing file is an empty list. A file that
// fails to parse yields ErrCorruptData.
func (r *FileRepository) Load(_ context.Context) ([]SavedLocation, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return []SavedLocation{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read saved locations: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}

	if doc.Locations == nil {
		return []SavedLocation{}, nil
	}
	return doc.Locations, nil
}

// Save writes the whole list atomically (temp file + rename).
func (r *FileRepository) Save(_ context.Context, list []SavedLocation) error {
	doc := document{
		Version:   schemaVersion,
		Locations: list,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode saved locations: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write saved locations: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace saved locations: %w", err)
	}

	return nil
}

// Clear removes the document; a missing file is not an error.
func (r *FileRepository) Clear(_ context.Context) error {
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear saved locations: %w", err)
	}
	return nil
}

// Ensure FileRepository implements Repository.
var _ Repository = (*FileRepository)(nil)
