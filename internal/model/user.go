package model

import (
	"time"

	"github.com/google/uuid"
)

// UserType classifies users and carries the single permission flag the
// system needs: whether the type may approve or reject measurements.
type UserType struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name               string    `gorm:"uniqueIndex;not null"`
	ApproveMeasurement bool      `gorm:"not null;default:false"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// User stores system users. Passwords are bcrypt hashes, never plain text.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FirstName    string    `gorm:"not null"`
	LastName     string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	UserTypeID   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	UserType *UserType `gorm:"foreignKey:UserTypeID"`
}

// RefreshToken is a DB-backed refresh token. Only the SHA-256 hash of the
// opaque token is stored; a row is live while RevokedAt is null and
// ExpiresAt is in the future.
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	TokenHash string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	RevokedAt *time.Time
	CreatedAt time.Time
}
