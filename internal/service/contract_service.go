package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/apierror"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/dto"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/model"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type ContractService interface {
	CreateContract(ctx context.Context, req dto.CreateContractRequest) (*dto.ContractResponse, error)
	GetContract(ctx context.Context, id uuid.UUID) (*dto.ContractResponse, error)
	ListContracts(ctx context.Context, filter dto.ContractFilter) ([]dto.ContractListItem, error)
	ListContractsWithDetails(ctx context.Context, filter dto.ContractFilter) ([]dto.ContractResponse, error)
}

type contractService struct {
	repo            repository.ContractRepository
	itemRepo        repository.ContractItemRepository
	workRepo        repository.WorkRepository
	supplierRepo    repository.SupplierRepository
	measurementRepo repository.MeasurementRepository
}

func NewContractService(
	repo repository.ContractRepository,
	itemRepo repository.ContractItemRepository,
	workRepo repository.WorkRepository,
	supplierRepo repository.SupplierRepository,
	measurementRepo repository.MeasurementRepository,
) ContractService {
	return &contractService{
		repo:            repo,
		itemRepo:        itemRepo,
		workRepo:        workRepo,
		supplierRepo:    supplierRepo,
		measurementRepo: measurementRepo,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── CreateContract ────────────────────────────────────────────────────────────
// Item totals and the contract total are derived here with decimal arithmetic;
// the contract and all its items commit in a single transaction.

func (s *contractService) CreateContract(ctx context.Context, req dto.CreateContractRequest) (*dto.ContractResponse, error) {
	workID, err := uuid.Parse(req.WorkID)
	if err != nil {
		return nil, fmt.Errorf("invalid workId: %w", err)
	}
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("invalid supplierId: %w", err)
	}
	if len(req.Items) == 0 {
		return nil, apierror.NewValidationError("Minimal one item per contract")
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, apierror.NewValidationError("Start date must be a valid date")
	}
	deliveryTime, err := time.Parse(dateLayout, req.DeliveryTime)
	if err != nil {
		return nil, apierror.NewValidationError("Delivery time must be a valid date")
	}
	// Compare calendar dates; deliveryTime parses to UTC midnight, so today is
	// built the same way from the server's current date.
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if deliveryTime.Before(today) {
		return nil, apierror.NewValidationError("Delivery time cannot be in the past")
	}

	contractID := uuid.New()
	items := make([]model.ContractItem, 0, len(req.Items))
	totalValue := decimal.Zero
	for _, in := range req.Items {
		itemTotal := in.Quantity.Mul(in.UnitLaborValue).Round(4)
		totalValue = totalValue.Add(itemTotal)
		items = append(items, model.ContractItem{
			ID:             uuid.New(),
			ContractID:     contractID,
			UnitMeasure:    in.UnitMeasure,
			Quantity:       in.Quantity,
			UnitLaborValue: in.UnitLaborValue,
			TotalValue:     itemTotal,
			Description:    in.Description,
		})
	}

	contract := model.Contract{
		ID:                  contractID,
		WorkID:              workID,
		SupplierID:          supplierID,
		Service:             req.Service,
		TotalValue:          totalValue.Round(2),
		RetentionPercentage: req.RetentionPercentage,
		StartDate:           startDate,
		DeliveryTime:        deliveryTime,
		Status:              model.ContractStatusActive,
		ApprovalStatus:      model.ContractApprovalPending,
		Items:               items,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, &contract)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := s.contractToResponse(ctx, &contract, contract.Items, nil)
	return resp, nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

// GetContract returns the contract enriched with its work and supplier
// summaries and with each item's accumulated measured quantity. Missing work
// or supplier rows yield nil summaries, not an error.
func (s *contractService) GetContract(ctx context.Context, id uuid.UUID) (*dto.ContractResponse, error) {
	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("Contract with id %s not found", id)
		}
		return nil, err
	}

	accumulated, err := s.measurementRepo.SumQuantitiesByContract(ctx, s.measurementRepo.DB(), id)
	if err != nil {
		return nil, err
	}

	return s.contractToResponse(ctx, contract, contract.Items, accumulated), nil
}

func (s *contractService) ListContracts(ctx context.Context, filter dto.ContractFilter) ([]dto.ContractListItem, error) {
	contracts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ContractListItem, 0, len(contracts))
	for _, c := range contracts {
		items = append(items, dto.ContractListItem{
			ID:                  c.ID.String(),
			WorkID:              c.WorkID.String(),
			SupplierID:          c.SupplierID.String(),
			Service:             c.Service,
			TotalValue:          c.TotalValue,
			RetentionPercentage: c.RetentionPercentage,
			StartDate:           c.StartDate.Format(dateLayout),
			DeliveryTime:        c.DeliveryTime.Format(dateLayout),
			Status:              c.Status,
			ApprovalStatus:      c.ApprovalStatus,
		})
	}
	return items, nil
}

// ListContractsWithDetails performs the full per-contract enrichment. The
// enrichments run sequentially; request volume in this domain is low.
func (s *contractService) ListContractsWithDetails(ctx context.Context, filter dto.ContractFilter) ([]dto.ContractResponse, error) {
	contracts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	details := make([]dto.ContractResponse, 0, len(contracts))
	for _, c := range contracts {
		full, err := s.GetContract(ctx, c.ID)
		if err != nil {
			if apierror.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		details = append(details, *full)
	}
	return details, nil
}

// contractToResponse assembles the enriched response shape. accumulated may
// be nil (a freshly created contract has no measurements yet).
func (s *contractService) contractToResponse(
	ctx context.Context,
	c *model.Contract,
	items []model.ContractItem,
	accumulated map[uuid.UUID]decimal.Decimal,
) *dto.ContractResponse {
	var workSummary *dto.WorkSummary
	if work, err := s.workRepo.FindByID(ctx, c.WorkID); err == nil {
		workSummary = &dto.WorkSummary{ID: work.ID.String(), Name: work.Name}
	}
	var supplierSummary *dto.SupplierSummary
	if supplier, err := s.supplierRepo.FindByID(ctx, c.SupplierID); err == nil {
		supplierSummary = &dto.SupplierSummary{ID: supplier.ID.String(), Name: supplier.Name}
	}

	itemResponses := make([]dto.ContractItemResponse, 0, len(items))
	for _, item := range items {
		acc := decimal.Zero
		if accumulated != nil {
			if v, ok := accumulated[item.ID]; ok {
				acc = v
			}
		}
		itemResponses = append(itemResponses, dto.ContractItemResponse{
			ID:                  item.ID.String(),
			ContractID:          item.ContractID.String(),
			UnitMeasure:         item.UnitMeasure,
			Quantity:            item.Quantity,
			UnitLaborValue:      item.UnitLaborValue,
			TotalValue:          item.TotalValue,
			Description:         item.Description,
			AccumulatedQuantity: acc,
			BalanceQuantity:     item.Quantity.Sub(acc),
		})
	}

	return &dto.ContractResponse{
		ID:                  c.ID.String(),
		Work:                workSummary,
		Supplier:            supplierSummary,
		Service:             c.Service,
		TotalValue:          c.TotalValue,
		RetentionPercentage: c.RetentionPercentage,
		StartDate:           c.StartDate.Format(dateLayout),
		DeliveryTime:        c.DeliveryTime.Format(dateLayout),
		Status:              c.Status,
		ApprovalStatus:      c.ApprovalStatus,
		Items:               itemResponses,
	}
}
