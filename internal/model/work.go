package model

import (
	"time"

	"github.com/google/uuid"
)

// Work statuses follow the values persisted by the legacy system.
const (
	WorkStatusActive    = "Ativa"
	WorkStatusCompleted = "Concluida"
)

// Work is a construction site/project that contracts are scoped to.
type Work struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string    `gorm:"uniqueIndex;not null"`
	Code       *string
	Address    string `gorm:"not null"`
	Contractor *string
	Status     string `gorm:"type:varchar(20);not null;default:'Ativa'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
