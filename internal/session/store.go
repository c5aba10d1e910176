package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

type Record struct {
	Id        uuid.UUID
	Data      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists serialized payloads keyed by session id. Save is an upsert
// that rewrites the whole blob, Delete of a missing id is not an error, and
// Load returns ErrNotFound when no row exists.
type Store interface {
	Load(ctx context.Context, id uuid.UUID) (Record, error)
	Save(ctx context.Context, id uuid.UUID, data []byte) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]Record, error)
}

// Purger is implemented by stores that do not expire rows on their own.
type Purger interface {
	Purge(ctx context.Context, before time.Time) (int64, error)
}
