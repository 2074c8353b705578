package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type MeasurementItemInput struct {
	ContractItemID string          `json:"contractItemId" validate:"required,uuid"`
	Quantity       decimal.Decimal `json:"quantity"       validate:"required,gt=0"`
}

type CreateMeasurementRequest struct {
	ContractID string                 `json:"contractId" validate:"required,uuid"`
	Notes      *string                `json:"notes"      validate:"omitempty,max=255"`
	Items      []MeasurementItemInput `json:"items"      validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MeasurementItemResponse struct {
	ID              string          `json:"id"`
	MeasurementID   string          `json:"measurementId"`
	ContractItemID  string          `json:"contractItemId"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitLaborValue  decimal.Decimal `json:"unitLaborValue"`
	TotalGrossValue decimal.Decimal `json:"totalGrossValue"`
}

type MeasurementResponse struct {
	ID              string                    `json:"id"`
	ContractID      string                    `json:"contractId"`
	IssueDate       string                    `json:"issueDate"`
	TotalGrossValue decimal.Decimal           `json:"totalGrossValue"`
	RetentionValue  decimal.Decimal           `json:"retentionValue"`
	TotalNetValue   decimal.Decimal           `json:"totalNetValue"`
	ApprovalDate    *string                   `json:"approvalDate"`
	ApprovalStatus  string                    `json:"approvalStatus"`
	Notes           *string                   `json:"notes,omitempty"`
	ReportPath      *string                   `json:"reportPath,omitempty"`
	Items           []MeasurementItemResponse `json:"items"`
}

// ContractSummary is the denormalized contract shape inside an enriched
// measurement.
type ContractSummary struct {
	ID         string `json:"id"`
	Service    string `json:"service"`
	WorkID     string `json:"workId"`
	SupplierID string `json:"supplierId"`
}

// EnrichedMeasurement joins a measurement with its contract, work and
// supplier summaries; assembled in memory from batched lookups.
type EnrichedMeasurement struct {
	MeasurementResponse
	Contract ContractSummary `json:"contract"`
	Work     WorkSummary     `json:"work"`
	Supplier SupplierSummary `json:"supplier"`
}
