package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Contract lifecycle statuses.
const (
	ContractStatusActive = "Ativo"
	ContractStatusClosed = "Encerrado"
)

// Contract approval statuses.
const (
	ContractApprovalPending  = "Pendente"
	ContractApprovalApproved = "Aprovado"
)

// Contract is an agreement with a Supplier for a Work, composed of priced
// line items. TotalValue is derived at creation time as the sum of its
// items' totals and is never edited independently afterwards.
type Contract struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkID     uuid.UUID `gorm:"type:uuid;index;not null"`
	SupplierID uuid.UUID `gorm:"type:uuid;index;not null"`
	Service    string    `gorm:"type:varchar(255);not null"`
	TotalValue decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	// RetentionPercentage is snapshotted onto each measurement at creation;
	// stored as a plain percentage in [0,100].
	RetentionPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	StartDate           time.Time       `gorm:"type:date;not null"`
	DeliveryTime        time.Time       `gorm:"type:date;not null"`
	Status              string          `gorm:"type:varchar(20);not null;default:'Ativo'"`
	ApprovalStatus      string          `gorm:"type:varchar(20);not null;default:'Pendente'"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Work     *Work          `gorm:"foreignKey:WorkID"`
	Supplier *Supplier      `gorm:"foreignKey:SupplierID"`
	Items    []ContractItem `gorm:"foreignKey:ContractID"`
}

// ContractItem is one priced, quantity-capped line item of a Contract.
// Quantity is the contracted ceiling that measurements draw down against.
// Items exist only as part of their contract; they are never added later.
type ContractItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContractID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	UnitMeasure    string          `gorm:"type:varchar(20);not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(19,4);not null"`
	UnitLaborValue decimal.Decimal `gorm:"type:decimal(19,4);not null"`
	TotalValue     decimal.Decimal `gorm:"type:decimal(19,4);not null"`
	Description    string          `gorm:"type:varchar(500);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
