package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/apierror"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/dto"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/model"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contractFixture struct {
	svc             service.ContractService
	repo            *stubContractRepo
	itemRepo        *stubContractItemRepo
	workRepo        *stubWorkRepo
	supplierRepo    *stubSupplierRepo
	measurementRepo *stubMeasurementRepo
	work            *model.Work
	supplier        *model.Supplier
}

func newContractFixture() *contractFixture {
	f := &contractFixture{
		repo:            newStubContractRepo(),
		itemRepo:        newStubContractItemRepo(),
		workRepo:        newStubWorkRepo(),
		supplierRepo:    newStubSupplierRepo(),
		measurementRepo: newStubMeasurementRepo(),
	}
	f.svc = service.NewContractService(f.repo, f.itemRepo, f.workRepo, f.supplierRepo, f.measurementRepo)
	f.work = &model.Work{ID: uuid.New(), Name: "Residencial Aurora", Address: "Rua A"}
	f.supplier = &model.Supplier{ID: uuid.New(), Name: "Construtora Silva", TypePerson: model.PersonTypeCompany, Document: "12345678000190"}
	f.workRepo.works[f.work.ID] = f.work
	f.supplierRepo.suppliers[f.supplier.ID] = f.supplier
	return f
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func validCreateRequest(f *contractFixture) dto.CreateContractRequest {
	return dto.CreateContractRequest{
		WorkID:              f.work.ID.String(),
		SupplierID:          f.supplier.ID.String(),
		Service:             "Alvenaria",
		RetentionPercentage: dec("5.00"),
		StartDate:           futureDate(0),
		DeliveryTime:        futureDate(90),
		Items: []dto.ContractItemInput{
			{UnitMeasure: "m2", Quantity: dec("100"), UnitLaborValue: dec("25.50"), Description: "Parede externa"},
			{UnitMeasure: "m2", Quantity: dec("40.5"), UnitLaborValue: dec("30.0000"), Description: "Parede interna"},
		},
	}
}

func TestCreateContract_DerivesItemAndContractTotals(t *testing.T) {
	f := newContractFixture()

	resp, err := f.svc.CreateContract(context.Background(), validCreateRequest(f))
	require.NoError(t, err)

	// 100 × 25.50 = 2550, 40.5 × 30 = 1215, total 3765.00.
	assert.Equal(t, "3765.00", resp.TotalValue.StringFixed(2))
	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Items[0].TotalValue.Equal(dec("2550")))
	assert.True(t, resp.Items[1].TotalValue.Equal(dec("1215")))

	// New contracts start active and pending approval, items fully available.
	assert.Equal(t, model.ContractStatusActive, resp.Status)
	assert.Equal(t, model.ContractApprovalPending, resp.ApprovalStatus)
	assert.True(t, resp.Items[0].AccumulatedQuantity.IsZero())
	assert.True(t, resp.Items[0].BalanceQuantity.Equal(dec("100")))

	require.NotNil(t, resp.Work)
	assert.Equal(t, "Residencial Aurora", resp.Work.Name)
	require.NotNil(t, resp.Supplier)
	assert.Equal(t, "Construtora Silva", resp.Supplier.Name)
}

func TestCreateContract_RequiresAtLeastOneItem(t *testing.T) {
	f := newContractFixture()
	req := validCreateRequest(f)
	req.Items = nil

	_, err := f.svc.CreateContract(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apierror.IsValidation(err))
	assert.Contains(t, err.Error(), "Minimal one item per contract")
}

func TestCreateContract_RejectsPastDeliveryTime(t *testing.T) {
	f := newContractFixture()
	req := validCreateRequest(f)
	req.DeliveryTime = futureDate(-1)

	_, err := f.svc.CreateContract(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apierror.IsValidation(err))
	assert.Contains(t, err.Error(), "Delivery time cannot be in the past")
}

func TestCreateContract_AcceptsTodayAsDeliveryTime(t *testing.T) {
	f := newContractFixture()
	req := validCreateRequest(f)
	// Same-day delivery sits exactly on the boundary regardless of the
	// server's timezone offset.
	req.DeliveryTime = futureDate(0)

	_, err := f.svc.CreateContract(context.Background(), req)
	require.NoError(t, err)
}

func TestCreateContract_RejectsMalformedDates(t *testing.T) {
	f := newContractFixture()
	req := validCreateRequest(f)
	req.StartDate = "01/05/2026"

	_, err := f.svc.CreateContract(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apierror.IsValidation(err))
}

func TestGetContract_ReportsAccumulatedAndBalance(t *testing.T) {
	f := newContractFixture()
	created, err := f.svc.CreateContract(context.Background(), validCreateRequest(f))
	require.NoError(t, err)
	contractID := uuid.MustParse(created.ID)

	// Record measured quantities directly through the measurement repo.
	itemID := uuid.MustParse(created.Items[0].ID)
	m := &model.Measurement{
		ID:         uuid.New(),
		ContractID: contractID,
		Items: []model.MeasurementItem{
			{ID: uuid.New(), ContractItemID: itemID, Quantity: dec("12.5")},
			{ID: uuid.New(), ContractItemID: itemID, Quantity: dec("7.5")},
		},
	}
	require.NoError(t, f.measurementRepo.Create(context.Background(), nil, m))

	resp, err := f.svc.GetContract(context.Background(), contractID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Items[0].AccumulatedQuantity.Equal(dec("20")))
	assert.True(t, resp.Items[0].BalanceQuantity.Equal(dec("80")))
	assert.True(t, resp.Items[1].AccumulatedQuantity.IsZero())
}

func TestGetContract_NotFound(t *testing.T) {
	f := newContractFixture()

	_, err := f.svc.GetContract(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apierror.IsNotFound(err))
	assert.Contains(t, err.Error(), "Contract with id")
}

func TestGetContract_InfraErrorIsNotNotFound(t *testing.T) {
	f := newContractFixture()
	f.repo.findErr = errors.New("driver: bad connection")

	_, err := f.svc.GetContract(context.Background(), uuid.New())
	require.Error(t, err)
	assert.False(t, apierror.IsNotFound(err))
}

func TestGetContract_MissingWorkYieldsNilSummary(t *testing.T) {
	f := newContractFixture()
	created, err := f.svc.CreateContract(context.Background(), validCreateRequest(f))
	require.NoError(t, err)
	contractID := uuid.MustParse(created.ID)

	require.NoError(t, f.workRepo.Delete(context.Background(), f.work.ID))

	resp, err := f.svc.GetContract(context.Background(), contractID)
	require.NoError(t, err)
	assert.Nil(t, resp.Work)
	require.NotNil(t, resp.Supplier)
}

func TestListContracts_FiltersByStatus(t *testing.T) {
	f := newContractFixture()
	_, err := f.svc.CreateContract(context.Background(), validCreateRequest(f))
	require.NoError(t, err)
	closed, err := f.svc.CreateContract(context.Background(), validCreateRequest(f))
	require.NoError(t, err)
	f.repo.contracts[uuid.MustParse(closed.ID)].Status = model.ContractStatusClosed

	active, err := f.svc.ListContracts(context.Background(), dto.ContractFilter{Status: model.ContractStatusActive})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, model.ContractStatusActive, active[0].Status)

	all, err := f.svc.ListContracts(context.Background(), dto.ContractFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListContractsWithDetails_IncludesBalances(t *testing.T) {
	f := newContractFixture()
	_, err := f.svc.CreateContract(context.Background(), validCreateRequest(f))
	require.NoError(t, err)

	details, err := f.svc.ListContractsWithDetails(context.Background(), dto.ContractFilter{})
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.Len(t, details[0].Items, 2)
	assert.True(t, details[0].Items[0].BalanceQuantity.Equal(details[0].Items[0].Quantity))
}
