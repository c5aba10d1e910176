package migration_0

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SessionRecord struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Data      datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SessionRecord) TableName() string {
	return "sessions"
}

func Migration(db *gorm.DB) error {
	return db.AutoMigrate(&SessionRecord{})
}
