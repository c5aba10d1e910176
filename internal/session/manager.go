package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Get returns the payload for an existing session. A missing row and a blob
// that no longer decodes are both reported as ErrNotFound.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (Payload, error) {
	if id == uuid.Nil {
		return Payload{}, ErrNotFound
	}

	rec, err := m.store.Load(ctx, id)
	if err != nil {
		return Payload{}, err
	}

	payload, err := decodePayload(rec.Data)
	if err != nil {
		slog.Warn("discarding unreadable session payload", "session_id", id, "error", err)
		return Payload{}, ErrNotFound
	}
	return payload, nil
}

// GetOrCreate returns the session for id if it exists and is readable,
// otherwise it persists a fresh payload under a newly minted id. Pass uuid.Nil
// when the client sent no id.
func (m *Manager) GetOrCreate(ctx context.Context, id uuid.UUID) (uuid.UUID, Payload, error) {
	payload, err := m.Get(ctx, id)
	if err == nil {
		return id, payload, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return uuid.Nil, Payload{}, err
	}

	newId := uuid.New()
	payload = NewPayload()
	if err := m.Update(ctx, newId, payload); err != nil {
		return uuid.Nil, Payload{}, err
	}
	slog.Info("created session", "session_id", newId)
	return newId, payload, nil
}

// Update overwrites the stored payload, creating the row if it is missing.
func (m *Manager) Update(ctx context.Context, id uuid.UUID, payload Payload) error {
	data, err := encodePayload(payload)
	if err != nil {
		return err
	}
	return m.store.Save(ctx, id, data)
}

// Reset puts the session back to its empty defaults, starting a fresh round.
func (m *Manager) Reset(ctx context.Context, id uuid.UUID) error {
	return m.Update(ctx, id, NewPayload())
}

func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	return m.store.Delete(ctx, id)
}

type Entry struct {
	Id        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	Payload   *Payload
	Err       error
}

// List decodes every stored session. Rows that fail to decode are returned
// with Err set rather than failing the whole listing.
func (m *Manager) List(ctx context.Context) ([]Entry, error) {
	records, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		entry := Entry{Id: rec.Id, CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt}
		if payload, err := decodePayload(rec.Data); err != nil {
			entry.Err = err
		} else {
			entry.Payload = &payload
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// PurgeExpired deletes sessions idle for longer than maxAge, if the store
// needs it. Stores with native expiry report zero.
func (m *Manager) PurgeExpired(ctx context.Context, maxAge time.Duration) (int64, error) {
	purger, ok := m.store.(Purger)
	if !ok {
		return 0, nil
	}
	n, err := purger.Purge(ctx, time.Now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("error purging expired sessions: %w", err)
	}
	return n, nil
}
