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
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var oneHundred = decimal.NewFromInt(100)

type MeasurementService interface {
	CreateMeasurement(ctx context.Context, req dto.CreateMeasurementRequest) (*dto.MeasurementResponse, error)
	GetMeasurement(ctx context.Context, id uuid.UUID) (*dto.MeasurementResponse, error)
	ListMeasurements(ctx context.Context) ([]dto.MeasurementResponse, error)
	GetEnrichedMeasurements(ctx context.Context) ([]dto.EnrichedMeasurement, error)
	Approve(ctx context.Context, id uuid.UUID) (*dto.MeasurementResponse, error)
	Reject(ctx context.Context, id uuid.UUID) (*dto.MeasurementResponse, error)
}

type measurementService struct {
	repo         repository.MeasurementRepository
	contractRepo repository.ContractRepository
	itemRepo     repository.ContractItemRepository
	workRepo     repository.WorkRepository
	supplierRepo repository.SupplierRepository
	dispatcher   *worker.Dispatcher
}

func NewMeasurementService(
	repo repository.MeasurementRepository,
	contractRepo repository.ContractRepository,
	itemRepo repository.ContractItemRepository,
	workRepo repository.WorkRepository,
	supplierRepo repository.SupplierRepository,
	dispatcher *worker.Dispatcher,
) MeasurementService {
	return &measurementService{
		repo:         repo,
		contractRepo: contractRepo,
		itemRepo:     itemRepo,
		workRepo:     workRepo,
		supplierRepo: supplierRepo,
		dispatcher:   dispatcher,
	}
}

// ── CreateMeasurement ─────────────────────────────────────────────────────────
// The whole validate-then-insert sequence runs inside one transaction that
// holds a row lock on the contract, so two concurrent measurements against the
// same contract cannot both pass the availability check on a stale
// accumulation and jointly over-commit a line item:
//  1. BEGIN TX, SELECT contract FOR UPDATE
//  2. batch-fetch the referenced contract items
//  3. fold all existing measurement items of the contract into accumulated
//     quantities and validate every requested quantity against the balance
//  4. build items with the contract item's unit labor value (price snapshot,
//     never taken from the request), derive gross/retention/net
//  5. insert measurement + items, COMMIT
// Any failure inside the transaction rolls everything back; no partial
// measurement is ever persisted.

func (s *measurementService) CreateMeasurement(ctx context.Context, req dto.CreateMeasurementRequest) (*dto.MeasurementResponse, error) {
	contractID, err := uuid.Parse(req.ContractID)
	if err != nil {
		return nil, fmt.Errorf("invalid contractId: %w", err)
	}
	if len(req.Items) == 0 {
		return nil, apierror.NewValidationError("At least one item is required")
	}

	itemIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, in := range req.Items {
		id, err := uuid.Parse(in.ContractItemID)
		if err != nil {
			return nil, fmt.Errorf("invalid contractItemId: %w", err)
		}
		itemIDs = append(itemIDs, id)
	}

	measurement := model.Measurement{
		ID:             uuid.New(),
		ContractID:     contractID,
		IssueDate:      time.Now(),
		ApprovalStatus: model.MeasurementPending,
		Notes:          req.Notes,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		contract, err := s.contractRepo.LockByID(ctx, tx, contractID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NewNotFound("Contract with id %s not found", contractID)
			}
			return err
		}
		retentionPercentage := contract.RetentionPercentage

		contractItems, err := s.itemRepo.FindByIDs(ctx, tx, itemIDs)
		if err != nil {
			return err
		}
		itemsByID := make(map[uuid.UUID]model.ContractItem, len(contractItems))
		for _, ci := range contractItems {
			itemsByID[ci.ID] = ci
		}

		accumulated, err := s.repo.SumQuantitiesByContract(ctx, tx, contractID)
		if err != nil {
			return err
		}

		// Validate the entire batch before building anything.
		for i, in := range req.Items {
			contractItem, ok := itemsByID[itemIDs[i]]
			if !ok {
				return apierror.NewNotFound("Contract item with id %s not found", itemIDs[i])
			}
			alreadyMeasured := accumulated[contractItem.ID]
			available := contractItem.Quantity.Sub(alreadyMeasured)
			if in.Quantity.GreaterThan(available) {
				return apierror.NewValidationError(
					"Quantity %s exceeds available quantity %s for contract item %q",
					in.Quantity, available, contractItem.Description,
				)
			}
		}

		totalGross := decimal.Zero
		items := make([]model.MeasurementItem, 0, len(req.Items))
		for i, in := range req.Items {
			contractItem := itemsByID[itemIDs[i]]
			// Rounded to the 4 fractional digits the column stores, so the
			// create response matches subsequent reads.
			itemGross := in.Quantity.Mul(contractItem.UnitLaborValue).Round(4)
			totalGross = totalGross.Add(itemGross)
			items = append(items, model.MeasurementItem{
				ID:              uuid.New(),
				MeasurementID:   measurement.ID,
				ContractItemID:  contractItem.ID,
				Quantity:        in.Quantity,
				UnitLaborValue:  contractItem.UnitLaborValue,
				TotalGrossValue: itemGross,
			})
		}

		totalGross = totalGross.Round(2)
		retention := totalGross.Mul(retentionPercentage).Div(oneHundred).Round(2)

		measurement.TotalGrossValue = totalGross
		measurement.RetentionValue = retention
		measurement.TotalNetValue = totalGross.Sub(retention)
		measurement.Items = items

		return s.repo.Create(ctx, tx, &measurement)
	})
	if txErr != nil {
		return nil, txErr
	}

	return measurementToResponse(&measurement), nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *measurementService) GetMeasurement(ctx context.Context, id uuid.UUID) (*dto.MeasurementResponse, error) {
	measurement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("Measurement with id %s not found", id)
		}
		return nil, err
	}
	return measurementToResponse(measurement), nil
}

func (s *measurementService) ListMeasurements(ctx context.Context) ([]dto.MeasurementResponse, error) {
	measurements, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.MeasurementResponse, 0, len(measurements))
	for i := range measurements {
		responses = append(responses, *measurementToResponse(&measurements[i]))
	}
	return responses, nil
}

// GetEnrichedMeasurements joins measurements with contract, work and supplier
// summaries. Referenced ids are deduplicated and each entity set is fetched
// once, then joined in memory; rows whose contract, work or supplier no
// longer exists are dropped from the result.
func (s *measurementService) GetEnrichedMeasurements(ctx context.Context) ([]dto.EnrichedMeasurement, error) {
	measurements, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(measurements) == 0 {
		return []dto.EnrichedMeasurement{}, nil
	}

	contractIDs := dedupe(measurements, func(m model.Measurement) uuid.UUID { return m.ContractID })
	contracts, err := s.contractRepo.FindByIDs(ctx, contractIDs)
	if err != nil {
		return nil, err
	}
	contractsByID := make(map[uuid.UUID]model.Contract, len(contracts))
	for _, c := range contracts {
		contractsByID[c.ID] = c
	}

	workIDs := dedupe(contracts, func(c model.Contract) uuid.UUID { return c.WorkID })
	works, err := s.workRepo.FindByIDs(ctx, workIDs)
	if err != nil {
		return nil, err
	}
	worksByID := make(map[uuid.UUID]model.Work, len(works))
	for _, w := range works {
		worksByID[w.ID] = w
	}

	supplierIDs := dedupe(contracts, func(c model.Contract) uuid.UUID { return c.SupplierID })
	suppliers, err := s.supplierRepo.FindByIDs(ctx, supplierIDs)
	if err != nil {
		return nil, err
	}
	suppliersByID := make(map[uuid.UUID]model.Supplier, len(suppliers))
	for _, sup := range suppliers {
		suppliersByID[sup.ID] = sup
	}

	enriched := make([]dto.EnrichedMeasurement, 0, len(measurements))
	for i := range measurements {
		m := &measurements[i]
		contract, ok := contractsByID[m.ContractID]
		if !ok {
			continue
		}
		work, workOK := worksByID[contract.WorkID]
		supplier, supplierOK := suppliersByID[contract.SupplierID]
		if !workOK || !supplierOK {
			continue
		}
		enriched = append(enriched, dto.EnrichedMeasurement{
			MeasurementResponse: *measurementToResponse(m),
			Contract: dto.ContractSummary{
				ID:         contract.ID.String(),
				Service:    contract.Service,
				WorkID:     contract.WorkID.String(),
				SupplierID: contract.SupplierID.String(),
			},
			Work:     dto.WorkSummary{ID: work.ID.String(), Name: work.Name},
			Supplier: dto.SupplierSummary{ID: supplier.ID.String(), Name: supplier.Name},
		})
	}
	return enriched, nil
}

// ── Approval workflow ─────────────────────────────────────────────────────────
// PENDENTE → APROVADO | REJEITADO; both outcomes are terminal.

func (s *measurementService) Approve(ctx context.Context, id uuid.UUID) (*dto.MeasurementResponse, error) {
	resp, err := s.review(ctx, id, model.MeasurementApproved)
	if err != nil {
		return nil, err
	}
	// Report generation is best-effort and asynchronous; approval never
	// fails because the queue is down.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReport(ctx, worker.ReportJobPayload{MeasurementID: id.String()})
	}
	return resp, nil
}

func (s *measurementService) Reject(ctx context.Context, id uuid.UUID) (*dto.MeasurementResponse, error) {
	return s.review(ctx, id, model.MeasurementRejected)
}

func (s *measurementService) review(ctx context.Context, id uuid.UUID, status string) (*dto.MeasurementResponse, error) {
	measurement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("Measurement with id %s not found", id)
		}
		return nil, err
	}
	if measurement.ApprovalStatus != model.MeasurementPending {
		return nil, apierror.NewValidationError(
			"Measurement %s has already been reviewed (status %s)", id, measurement.ApprovalStatus,
		)
	}
	now := time.Now()
	measurement.ApprovalStatus = status
	measurement.ApprovalDate = &now
	if err := s.repo.UpdateApproval(ctx, measurement); err != nil {
		return nil, err
	}
	return measurementToResponse(measurement), nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func dedupe[T any](in []T, key func(T) uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(in))
	ids := make([]uuid.UUID, 0, len(in))
	for _, v := range in {
		id := key(v)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func measurementToResponse(m *model.Measurement) *dto.MeasurementResponse {
	items := make([]dto.MeasurementItemResponse, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, dto.MeasurementItemResponse{
			ID:              item.ID.String(),
			MeasurementID:   item.MeasurementID.String(),
			ContractItemID:  item.ContractItemID.String(),
			Quantity:        item.Quantity,
			UnitLaborValue:  item.UnitLaborValue,
			TotalGrossValue: item.TotalGrossValue,
		})
	}
	var approvalDate *string
	if m.ApprovalDate != nil {
		formatted := m.ApprovalDate.Format(dateLayout)
		approvalDate = &formatted
	}
	return &dto.MeasurementResponse{
		ID:              m.ID.String(),
		ContractID:      m.ContractID.String(),
		IssueDate:       m.IssueDate.Format(dateLayout),
		TotalGrossValue: m.TotalGrossValue,
		RetentionValue:  m.RetentionValue,
		TotalNetValue:   m.TotalNetValue,
		ApprovalDate:    approvalDate,
		ApprovalStatus:  m.ApprovalStatus,
		Notes:           m.Notes,
		ReportPath:      m.ReportPath,
		Items:           items,
	}
}
