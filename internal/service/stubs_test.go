package service_test

// In-memory repository stubs shared by the service test files. All stubs
// ignore the tx argument: services run their transactions through runTx,
// which calls the function directly when no DB is wired.

import (
	"context"
	"errors"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/dto"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/model"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Works ─────────────────────────────────────────────────────────────────────

type stubWorkRepo struct {
	works   map[uuid.UUID]*model.Work
	findErr error
}

func newStubWorkRepo() *stubWorkRepo {
	return &stubWorkRepo{works: make(map[uuid.UUID]*model.Work)}
}

func (r *stubWorkRepo) Create(_ context.Context, w *model.Work) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	r.works[w.ID] = w
	return nil
}

func (r *stubWorkRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Work, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	w, ok := r.works[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return w, nil
}

func (r *stubWorkRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Work, error) {
	out := make([]model.Work, 0, len(ids))
	for _, id := range ids {
		if w, ok := r.works[id]; ok {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *stubWorkRepo) List(_ context.Context) ([]model.Work, error) {
	out := make([]model.Work, 0, len(r.works))
	for _, w := range r.works {
		out = append(out, *w)
	}
	return out, nil
}

func (r *stubWorkRepo) Update(_ context.Context, w *model.Work) error {
	r.works[w.ID] = w
	return nil
}

func (r *stubWorkRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.works, id)
	return nil
}

var _ repository.WorkRepository = (*stubWorkRepo)(nil)

// ── Suppliers ─────────────────────────────────────────────────────────────────

type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
	findErr   error
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Supplier, error) {
	out := make([]model.Supplier, 0, len(ids))
	for _, id := range ids {
		if s, ok := r.suppliers[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSupplierRepo) FindByDocument(_ context.Context, document string) (*model.Supplier, error) {
	for _, s := range r.suppliers {
		if s.Document == document {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSupplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	out := make([]model.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

// ── Contracts ─────────────────────────────────────────────────────────────────

type stubContractRepo struct {
	contracts map[uuid.UUID]*model.Contract
	lockErr   error
	findErr   error
}

func newStubContractRepo() *stubContractRepo {
	return &stubContractRepo{contracts: make(map[uuid.UUID]*model.Contract)}
}

func (r *stubContractRepo) Create(_ context.Context, _ *gorm.DB, c *model.Contract) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.contracts[c.ID] = c
	return nil
}

func (r *stubContractRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Contract, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	c, ok := r.contracts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubContractRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Contract, error) {
	out := make([]model.Contract, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.contracts[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubContractRepo) LockByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Contract, error) {
	if r.lockErr != nil {
		return nil, r.lockErr
	}
	c, ok := r.contracts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubContractRepo) List(_ context.Context, filter dto.ContractFilter) ([]model.Contract, error) {
	out := make([]model.Contract, 0, len(r.contracts))
	for _, c := range r.contracts {
		if filter.WorkID != "" && c.WorkID.String() != filter.WorkID {
			continue
		}
		if filter.SupplierID != "" && c.SupplierID.String() != filter.SupplierID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.ApprovalStatus != "" && c.ApprovalStatus != filter.ApprovalStatus {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubContractRepo) DB() *gorm.DB { return nil }

var _ repository.ContractRepository = (*stubContractRepo)(nil)

type stubContractItemRepo struct {
	items map[uuid.UUID]model.ContractItem
}

func newStubContractItemRepo() *stubContractItemRepo {
	return &stubContractItemRepo{items: make(map[uuid.UUID]model.ContractItem)}
}

func (r *stubContractItemRepo) add(items ...model.ContractItem) {
	for _, item := range items {
		r.items[item.ID] = item
	}
}

func (r *stubContractItemRepo) FindByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]model.ContractItem, error) {
	out := make([]model.ContractItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubContractItemRepo) FindByContractID(_ context.Context, contractID uuid.UUID) ([]model.ContractItem, error) {
	out := []model.ContractItem{}
	for _, item := range r.items {
		if item.ContractID == contractID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubContractItemRepo) DB() *gorm.DB { return nil }

var _ repository.ContractItemRepository = (*stubContractItemRepo)(nil)

// ── Measurements ──────────────────────────────────────────────────────────────

type stubMeasurementRepo struct {
	measurements map[uuid.UUID]*model.Measurement
	failCreate   bool
	findErr      error
}

func newStubMeasurementRepo() *stubMeasurementRepo {
	return &stubMeasurementRepo{measurements: make(map[uuid.UUID]*model.Measurement)}
}

func (r *stubMeasurementRepo) Create(_ context.Context, _ *gorm.DB, m *model.Measurement) error {
	if r.failCreate {
		return errors.New("insert failed")
	}
	r.measurements[m.ID] = m
	return nil
}

func (r *stubMeasurementRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Measurement, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	m, ok := r.measurements[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMeasurementRepo) FindAll(_ context.Context) ([]model.Measurement, error) {
	out := make([]model.Measurement, 0, len(r.measurements))
	for _, m := range r.measurements {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubMeasurementRepo) FindByContractID(_ context.Context, contractID uuid.UUID) ([]model.Measurement, error) {
	out := []model.Measurement{}
	for _, m := range r.measurements {
		if m.ContractID == contractID {
			out = append(out, *m)
		}
	}
	return out, nil
}

// SumQuantitiesByContract folds the stored measurements the same way the SQL
// aggregation does: every item of every measurement of the contract counts,
// regardless of approval status.
func (r *stubMeasurementRepo) SumQuantitiesByContract(_ context.Context, _ *gorm.DB, contractID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	acc := make(map[uuid.UUID]decimal.Decimal)
	for _, m := range r.measurements {
		if m.ContractID != contractID {
			continue
		}
		for _, item := range m.Items {
			acc[item.ContractItemID] = acc[item.ContractItemID].Add(item.Quantity)
		}
	}
	return acc, nil
}

func (r *stubMeasurementRepo) UpdateApproval(_ context.Context, m *model.Measurement) error {
	stored, ok := r.measurements[m.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.ApprovalStatus = m.ApprovalStatus
	stored.ApprovalDate = m.ApprovalDate
	return nil
}

func (r *stubMeasurementRepo) SetReportPath(_ context.Context, id uuid.UUID, path string) error {
	stored, ok := r.measurements[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.ReportPath = &path
	return nil
}

func (r *stubMeasurementRepo) ListApprovedWithoutReport(_ context.Context, limit int) ([]model.Measurement, error) {
	var list []model.Measurement
	for _, m := range r.measurements {
		if m.ApprovalStatus == model.MeasurementApproved && m.ReportPath == nil {
			list = append(list, *m)
		}
		if len(list) == limit {
			break
		}
	}
	return list, nil
}

func (r *stubMeasurementRepo) DB() *gorm.DB { return nil }

var _ repository.MeasurementRepository = (*stubMeasurementRepo)(nil)

// ── Users / auth ──────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

type stubUserTypeRepo struct {
	types map[uuid.UUID]*model.UserType
}

func newStubUserTypeRepo() *stubUserTypeRepo {
	return &stubUserTypeRepo{types: make(map[uuid.UUID]*model.UserType)}
}

func (r *stubUserTypeRepo) Create(_ context.Context, t *model.UserType) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.types[t.ID] = t
	return nil
}

func (r *stubUserTypeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.UserType, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubUserTypeRepo) FindByName(_ context.Context, name string) (*model.UserType, error) {
	for _, t := range r.types {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserTypeRepo) List(_ context.Context) ([]model.UserType, error) {
	out := make([]model.UserType, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, *t)
	}
	return out, nil
}

var _ repository.UserTypeRepository = (*stubUserTypeRepo)(nil)

type stubRefreshTokenRepo struct {
	tokens map[string]*model.RefreshToken // keyed by hash
}

func newStubRefreshTokenRepo() *stubRefreshTokenRepo {
	return &stubRefreshTokenRepo{tokens: make(map[string]*model.RefreshToken)}
}

func (r *stubRefreshTokenRepo) Create(_ context.Context, t *model.RefreshToken) error {
	r.tokens[t.TokenHash] = t
	return nil
}

func (r *stubRefreshTokenRepo) FindLiveByHash(_ context.Context, hash string) (*model.RefreshToken, error) {
	t, ok := r.tokens[hash]
	if !ok || t.RevokedAt != nil {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubRefreshTokenRepo) Revoke(_ context.Context, hash string) error {
	t, ok := r.tokens[hash]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := t.ExpiresAt // any non-nil time works for the stub
	t.RevokedAt = &now
	return nil
}

func (r *stubRefreshTokenRepo) RevokeAllForUser(_ context.Context, userID uuid.UUID) error {
	for _, t := range r.tokens {
		if t.UserID == userID {
			now := t.ExpiresAt
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *stubRefreshTokenRepo) DeleteExpired(_ context.Context) error { return nil }

var _ repository.RefreshTokenRepository = (*stubRefreshTokenRepo)(nil)
