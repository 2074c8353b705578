package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ContractItemInput struct {
	UnitMeasure    string          `json:"unitMeasure"    validate:"required,min=1,max=20"`
	Quantity       decimal.Decimal `json:"quantity"       validate:"required,gt=0"`
	UnitLaborValue decimal.Decimal `json:"unitLaborValue" validate:"min=0"`
	Description    string          `json:"description"    validate:"required,min=1,max=500"`
}

type CreateContractRequest struct {
	WorkID              string              `json:"workId"              validate:"required,uuid"`
	SupplierID          string              `json:"supplierId"          validate:"required,uuid"`
	Service             string              `json:"service"             validate:"required,max=255"`
	RetentionPercentage decimal.Decimal     `json:"retentionPercentage" validate:"min=0,max=100"`
	StartDate           string              `json:"startDate"           validate:"required"` // YYYY-MM-DD
	DeliveryTime        string              `json:"deliveryTime"        validate:"required"` // YYYY-MM-DD, not in the past
	Items               []ContractItemInput `json:"items"               validate:"required,min=1,dive"`
}

// ContractFilter is bound from the query string of GET /api/contracts.
type ContractFilter struct {
	WorkID         string `form:"workId"         validate:"omitempty,uuid"`
	SupplierID     string `form:"supplierId"     validate:"omitempty,uuid"`
	Status         string `form:"status"         validate:"omitempty,oneof=Ativo Encerrado"`
	ApprovalStatus string `form:"approvalStatus" validate:"omitempty,oneof=Pendente Aprovado"`
	IncludeDetails bool   `form:"includeDetails"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// WorkSummary and SupplierSummary are the denormalized nested shapes embedded
// in contract and measurement responses. Either may be nil when the referenced
// row no longer exists; that is not an error on the read side.
type WorkSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SupplierSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ContractItemResponse carries the line item plus its running accumulation:
// AccumulatedQuantity is the total already measured against the item and
// BalanceQuantity the remaining contracted headroom.
type ContractItemResponse struct {
	ID                  string          `json:"id"`
	ContractID          string          `json:"contractId"`
	UnitMeasure         string          `json:"unitMeasure"`
	Quantity            decimal.Decimal `json:"quantity"`
	UnitLaborValue      decimal.Decimal `json:"unitLaborValue"`
	TotalValue          decimal.Decimal `json:"totalValue"`
	Description         string          `json:"description"`
	AccumulatedQuantity decimal.Decimal `json:"accumulatedQuantity"`
	BalanceQuantity     decimal.Decimal `json:"balanceQuantity"`
}

type ContractResponse struct {
	ID                  string                 `json:"id"`
	Work                *WorkSummary           `json:"work"`
	Supplier            *SupplierSummary       `json:"supplier"`
	Service             string                 `json:"service"`
	TotalValue          decimal.Decimal        `json:"totalValue"`
	RetentionPercentage decimal.Decimal        `json:"retentionPercentage"`
	StartDate           string                 `json:"startDate"`
	DeliveryTime        string                 `json:"deliveryTime"`
	Status              string                 `json:"status"`
	ApprovalStatus      string                 `json:"approvalStatus"`
	Items               []ContractItemResponse `json:"items"`
}

// ContractListItem is the flat shape returned when includeDetails is false.
type ContractListItem struct {
	ID                  string          `json:"id"`
	WorkID              string          `json:"workId"`
	SupplierID          string          `json:"supplierId"`
	Service             string          `json:"service"`
	TotalValue          decimal.Decimal `json:"totalValue"`
	RetentionPercentage decimal.Decimal `json:"retentionPercentage"`
	StartDate           string          `json:"startDate"`
	DeliveryTime        string          `json:"deliveryTime"`
	Status              string          `json:"status"`
	ApprovalStatus      string          `json:"approvalStatus"`
}
