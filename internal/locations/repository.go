package locations

import (
	"context"
	"errors"
)

// ErrCorruptData means the persisted document could not be parsed. The
// service recovers by clearing the store; callers never see this error.
var ErrCorruptData = errors.New("saved locations data corrupt")

// Repository persists the whole ordered location list as one document.
// Every mutation writes the full list (write-through, no partial updates).
type Repository interface {
	// Load reads the persisted list, most-recently-added first. A missing
	// document yields an empty list; an unparsable one yields ErrCorruptData.
	Load(ctx context.Context) ([]SavedLocation, error)

	// Save replaces the persisted list.
	Save(ctx context.Context, list []SavedLocation) error

	// Clear removes the persisted document entirely.
	Clear(ctx context.Context) error
}
