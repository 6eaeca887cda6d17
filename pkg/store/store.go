// Package store persists generated mind maps.
//
// A [MindMap] is the saved tree together with its title and timestamps.
// Backends implement [Store]:
//   - [MemoryStore]: in-process map for development and tests
//   - [FileStore]: one JSON file per mind map, for the CLI
//   - [MongoStore]: MongoDB collection for the HTTP server
//
// All backends report a missing mind map with errors.ErrCodeNotFound and
// hand out copies, so callers may modify what they get back.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperr "github.com/lectura/mindmap/pkg/errors"
	"github.com/lectura/mindmap/pkg/mindmap"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// MindMap is a stored mind map document.
type MindMap struct {
	ID        string        `json:"id" bson:"_id"`
	Title     string        `json:"title" bson:"title"`
	Root      *mindmap.Node `json:"root" bson:"root"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for mind map storage backends.
type Store interface {
	// Save inserts or replaces m. An empty ID is filled with a new UUID;
	// CreatedAt is kept when set and UpdatedAt is always refreshed. Save
	// writes the assigned fields back into m.
	Save(ctx context.Context, m *MindMap) error

	// Get returns the mind map with the given id.
	Get(ctx context.Context, id string) (*MindMap, error)

	// List returns up to limit mind maps, most recently updated first.
	List(ctx context.Context, limit int) ([]*MindMap, error)

	// Delete removes the mind map with the given id.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// now is replaced in tests.
var now = time.Now

// prepare validates m and assigns its id and timestamps.
func prepare(m *MindMap) error {
	if m == nil || m.Root.IsZero() {
		return apperr.New(apperr.ErrCodeNoData, "no mind map data available")
	}
	if err := apperr.ValidateTitle(m.Title); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	} else if err := ValidateID(m.ID); err != nil {
		return err
	}
	t := now().UTC().Truncate(time.Millisecond)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = t
	}
	m.UpdatedAt = t
	return nil
}

// ValidateID checks that id is a UUID as assigned by Save.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid mind map id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return apperr.New(apperr.ErrCodeNotFound, "mind map %q not found", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

// clone deep-copies m through its JSON form.
func clone(m *MindMap) (*MindMap, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("copy mind map: %w", err)
	}
	var out MindMap
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("copy mind map: %w", err)
	}
	return &out, nil
}

// newestFirst orders by UpdatedAt descending, then by ID.
func newestFirst(a, b *MindMap) int {
	if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
		return c
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}
