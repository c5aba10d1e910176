package api

import (
	"time"

	"github.com/google/uuid"
)

type AutosaveResponse struct {
	Status string `json:"status"`
}

type SessionListing struct {
	Id        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
}
