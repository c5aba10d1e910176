package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SessionRecord is the persisted row behind a questionnaire session. Data holds
// the full serialized payload and is always rewritten as a whole.
type SessionRecord struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Data      datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index:idx_sessions_updated_at"`
}

func (SessionRecord) TableName() string {
	return "sessions"
}
