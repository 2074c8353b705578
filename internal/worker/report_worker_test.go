package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/dto"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/model"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeMeasurementRepo struct {
	measurement *model.Measurement
	reportPath  string
}

func (r *fakeMeasurementRepo) Create(_ context.Context, _ *gorm.DB, _ *model.Measurement) error {
	return nil
}
func (r *fakeMeasurementRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Measurement, error) {
	if r.measurement == nil || r.measurement.ID != id {
		return nil, errors.New("not found")
	}
	return r.measurement, nil
}
func (r *fakeMeasurementRepo) FindAll(_ context.Context) ([]model.Measurement, error) {
	return nil, nil
}
func (r *fakeMeasurementRepo) FindByContractID(_ context.Context, _ uuid.UUID) ([]model.Measurement, error) {
	return nil, nil
}
func (r *fakeMeasurementRepo) SumQuantitiesByContract(_ context.Context, _ *gorm.DB, _ uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	return nil, nil
}
func (r *fakeMeasurementRepo) UpdateApproval(_ context.Context, _ *model.Measurement) error {
	return nil
}
func (r *fakeMeasurementRepo) SetReportPath(_ context.Context, _ uuid.UUID, path string) error {
	r.reportPath = path
	return nil
}
func (r *fakeMeasurementRepo) ListApprovedWithoutReport(_ context.Context, _ int) ([]model.Measurement, error) {
	return nil, nil
}
func (r *fakeMeasurementRepo) DB() *gorm.DB { return nil }

var _ repository.MeasurementRepository = (*fakeMeasurementRepo)(nil)

type fakeContractRepo struct {
	contract *model.Contract
}

func (r *fakeContractRepo) Create(_ context.Context, _ *gorm.DB, _ *model.Contract) error {
	return nil
}
func (r *fakeContractRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Contract, error) {
	if r.contract == nil || r.contract.ID != id {
		return nil, errors.New("not found")
	}
	return r.contract, nil
}
func (r *fakeContractRepo) FindByIDs(_ context.Context, _ []uuid.UUID) ([]model.Contract, error) {
	return nil, nil
}
func (r *fakeContractRepo) LockByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Contract, error) {
	return r.FindByID(context.Background(), id)
}
func (r *fakeContractRepo) List(_ context.Context, _ dto.ContractFilter) ([]model.Contract, error) {
	return nil, nil
}
func (r *fakeContractRepo) DB() *gorm.DB { return nil }

var _ repository.ContractRepository = (*fakeContractRepo)(nil)

type fakeWorkRepo struct{}

func (fakeWorkRepo) Create(_ context.Context, _ *model.Work) error { return nil }
func (fakeWorkRepo) FindByID(_ context.Context, _ uuid.UUID) (*model.Work, error) {
	return nil, errors.New("not found")
}
func (fakeWorkRepo) FindByIDs(_ context.Context, _ []uuid.UUID) ([]model.Work, error) {
	return nil, nil
}
func (fakeWorkRepo) List(_ context.Context) ([]model.Work, error)     { return nil, nil }
func (fakeWorkRepo) Update(_ context.Context, _ *model.Work) error    { return nil }
func (fakeWorkRepo) Delete(_ context.Context, _ uuid.UUID) error      { return nil }

var _ repository.WorkRepository = (*fakeWorkRepo)(nil)

type fakeSupplierRepo struct{}

func (fakeSupplierRepo) Create(_ context.Context, _ *model.Supplier) error { return nil }
func (fakeSupplierRepo) FindByID(_ context.Context, _ uuid.UUID) (*model.Supplier, error) {
	return nil, errors.New("not found")
}
func (fakeSupplierRepo) FindByIDs(_ context.Context, _ []uuid.UUID) ([]model.Supplier, error) {
	return nil, nil
}
func (fakeSupplierRepo) FindByDocument(_ context.Context, _ string) (*model.Supplier, error) {
	return nil, errors.New("not found")
}
func (fakeSupplierRepo) List(_ context.Context) ([]model.Supplier, error)  { return nil, nil }
func (fakeSupplierRepo) Update(_ context.Context, _ *model.Supplier) error { return nil }

var _ repository.SupplierRepository = (*fakeSupplierRepo)(nil)

func seedApprovedMeasurement() (*model.Measurement, *model.Contract) {
	contractItem := model.ContractItem{
		ID:             uuid.New(),
		UnitMeasure:    "m2",
		Quantity:       decimal.NewFromInt(100),
		UnitLaborValue: decimal.RequireFromString("25.50"),
		Description:    "Parede externa",
	}
	contract := &model.Contract{
		ID:                  uuid.New(),
		WorkID:              uuid.New(),
		SupplierID:          uuid.New(),
		Service:             "Alvenaria",
		RetentionPercentage: decimal.RequireFromString("5.00"),
		Work:                &model.Work{ID: uuid.New(), Name: "Residencial Aurora"},
		Supplier:            &model.Supplier{ID: uuid.New(), Name: "Construtora Silva"},
		Items:               []model.ContractItem{contractItem},
	}
	m := &model.Measurement{
		ID:              uuid.New(),
		ContractID:      contract.ID,
		TotalGrossValue: decimal.RequireFromString("255.00"),
		RetentionValue:  decimal.RequireFromString("12.75"),
		TotalNetValue:   decimal.RequireFromString("242.25"),
		ApprovalStatus:  model.MeasurementApproved,
		Items: []model.MeasurementItem{
			{
				ID:              uuid.New(),
				MeasurementID:   uuid.New(),
				ContractItemID:  contractItem.ID,
				Quantity:        decimal.NewFromInt(10),
				UnitLaborValue:  decimal.RequireFromString("25.50"),
				TotalGrossValue: decimal.RequireFromString("255.00"),
				ContractItem:    &contractItem,
			},
		},
	}
	return m, contract
}

func TestReportWorker_GeneratesPDFAndStoresPath(t *testing.T) {
	m, contract := seedApprovedMeasurement()
	measurementRepo := &fakeMeasurementRepo{measurement: m}
	contractRepo := &fakeContractRepo{contract: contract}

	w := NewReportWorker(measurementRepo, contractRepo, fakeWorkRepo{}, fakeSupplierRepo{}, nil, t.TempDir())

	payload, err := json.Marshal(ReportJobPayload{MeasurementID: m.ID.String()})
	require.NoError(t, err)
	require.NoError(t, w.Process(context.Background(), payload))

	require.NotEmpty(t, measurementRepo.reportPath)
	info, err := os.Stat(measurementRepo.reportPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestReportWorker_InvalidMeasurementID_NoPanic(t *testing.T) {
	measurementRepo := &fakeMeasurementRepo{}
	contractRepo := &fakeContractRepo{}
	w := NewReportWorker(measurementRepo, contractRepo, fakeWorkRepo{}, fakeSupplierRepo{}, nil, t.TempDir())

	payload, _ := json.Marshal(ReportJobPayload{MeasurementID: "not-a-uuid"})
	assert.Error(t, w.Process(context.Background(), payload))
	assert.Empty(t, measurementRepo.reportPath)
}

func TestReportWorker_MeasurementNotFound_NoPath(t *testing.T) {
	measurementRepo := &fakeMeasurementRepo{}
	contractRepo := &fakeContractRepo{}
	w := NewReportWorker(measurementRepo, contractRepo, fakeWorkRepo{}, fakeSupplierRepo{}, nil, t.TempDir())

	payload, _ := json.Marshal(ReportJobPayload{MeasurementID: uuid.NewString()})
	assert.Error(t, w.Process(context.Background(), payload))
	assert.Empty(t, measurementRepo.reportPath)
}
