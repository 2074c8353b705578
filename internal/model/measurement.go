package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Measurement approval statuses. PENDENTE may transition to APROVADO or
// REJEITADO; both are terminal.
const (
	MeasurementPending  = "PENDENTE"
	MeasurementApproved = "APROVADO"
	MeasurementRejected = "REJEITADO"
)

// Measurement is a periodic billing claim against a Contract, itemized per
// contract item. Monetary totals are derived once at creation:
//
//	TotalGrossValue = Σ item.TotalGrossValue
//	RetentionValue  = TotalGrossValue × retention% / 100
//	TotalNetValue   = TotalGrossValue − RetentionValue
//
// The retention percentage is snapshotted from the contract, not re-read.
type Measurement struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContractID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	IssueDate       time.Time       `gorm:"type:date;not null"`
	TotalGrossValue decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	RetentionValue  decimal.Decimal `gorm:"type:decimal(19,2);not null;default:0"`
	TotalNetValue   decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	ApprovalDate    *time.Time      `gorm:"type:date"`
	ApprovalStatus  string          `gorm:"type:varchar(20);not null;default:'PENDENTE'"`
	Notes           *string         `gorm:"type:varchar(255)"`
	// ReportPath is set by the report worker once the PDF statement exists.
	ReportPath *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Contract *Contract         `gorm:"foreignKey:ContractID"`
	Items    []MeasurementItem `gorm:"foreignKey:MeasurementID"`
}

// MeasurementItem is the quantity billed against one ContractItem within one
// Measurement. UnitLaborValue is copied from the contract item when the
// measurement is created; callers cannot override the price.
type MeasurementItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MeasurementID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	ContractItemID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(19,4);not null"`
	UnitLaborValue  decimal.Decimal `gorm:"type:decimal(19,4);not null"`
	TotalGrossValue decimal.Decimal `gorm:"type:decimal(19,4);not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	ContractItem *ContractItem `gorm:"foreignKey:ContractItemID"`
}
