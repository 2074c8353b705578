package model

import (
	"time"

	"github.com/google/uuid"
)

// Person types accepted for a supplier's tax document.
const (
	PersonTypeIndividual = "FISICA"
	PersonTypeCompany    = "JURIDICA"
)

// Supplier holds the commercial data of a contracted service provider.
// Document is the tax id (CPF for FISICA, CNPJ for JURIDICA) and must be
// unique across suppliers.
type Supplier struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string    `gorm:"not null"`
	TypePerson string    `gorm:"type:varchar(10);not null"`
	Document   string    `gorm:"type:varchar(14);uniqueIndex;not null"`
	// Pix is the optional instant-payment key used when paying measurements.
	Pix *string `gorm:"type:varchar(80)"`
	// Email receives measurement report notifications when present.
	Email     *string `gorm:"type:varchar(120)"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Contracts []Contract `gorm:"foreignKey:SupplierID"`
}
