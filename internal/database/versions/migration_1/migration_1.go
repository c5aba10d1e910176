package migration_1

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Adds the updated_at index used when purging expired sessions.

const indexName = "idx_sessions_updated_at"

type SessionRecord struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Data      datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index:idx_sessions_updated_at"`
}

func (SessionRecord) TableName() string {
	return "sessions"
}

func Migration(db *gorm.DB) error {
	if err := db.Migrator().CreateIndex(&SessionRecord{}, indexName); err != nil {
		return fmt.Errorf("error creating index %s: %w", indexName, err)
	}
	return nil
}

func Rollback(db *gorm.DB) error {
	if err := db.Migrator().DropIndex(&SessionRecord{}, indexName); err != nil {
		return fmt.Errorf("error dropping index %s: %w", indexName, err)
	}
	return nil
}
