package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"santa-backend/internal/database"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB

	// SQLite only supports one writer at a time, so writes are serialized
	// when running against it.
	serializeWrites bool
	writeMu         sync.Mutex
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:              db,
		serializeWrites: db.Dialector.Name() == database.DriverSqlite,
	}
}

func (s *GormStore) lockWrites() func() {
	if !s.serializeWrites {
		return func() {}
	}
	s.writeMu.Lock()
	return s.writeMu.Unlock
}

func (s *GormStore) Load(ctx context.Context, id uuid.UUID) (Record, error) {
	var row database.SessionRecord
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("error loading session %s: %w", id, err)
	}
	return toRecord(row), nil
}

func (s *GormStore) Save(ctx context.Context, id uuid.UUID, data []byte) error {
	defer s.lockWrites()()

	now := time.Now().UTC()
	row := database.SessionRecord{
		Id:        id,
		Data:      datatypes.JSON(data),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("error saving session %s: %w", id, err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, id uuid.UUID) error {
	defer s.lockWrites()()

	if err := s.db.WithContext(ctx).Delete(&database.SessionRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("error deleting session %s: %w", id, err)
	}
	return nil
}

func (s *GormStore) List(ctx context.Context) ([]Record, error) {
	var rows []database.SessionRecord
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, toRecord(row))
	}
	return records, nil
}

// Purge removes sessions that have not been written since before.
func (s *GormStore) Purge(ctx context.Context, before time.Time) (int64, error) {
	defer s.lockWrites()()

	result := s.db.WithContext(ctx).Where("updated_at < ?", before.UTC()).Delete(&database.SessionRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("error purging sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func toRecord(row database.SessionRecord) Record {
	return Record{
		Id:        row.Id,
		Data:      []byte(row.Data),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
