package repository

import (
	"context"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/dto"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContractRepository interface {
	// Create inserts the contract together with its items. The caller owns
	// the transaction; passing the repo's DB directly is valid for callers
	// that need no surrounding transaction.
	Create(ctx context.Context, tx *gorm.DB, c *model.Contract) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Contract, error)
	// LockByID reads the contract inside tx holding a row lock (SELECT …
	// FOR UPDATE) so that concurrent measurement creations against the same
	// contract serialize on the availability check.
	LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Contract, error)
	List(ctx context.Context, filter dto.ContractFilter) ([]model.Contract, error)
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type contractRepo struct{ db *gorm.DB }

func NewContractRepository(db *gorm.DB) ContractRepository { return &contractRepo{db: db} }

func (r *contractRepo) DB() *gorm.DB { return r.db }

func (r *contractRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Contract) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *contractRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	var c model.Contract
	err := r.db.WithContext(ctx).Preload("Items").First(&c, "id = ?", id).Error
	return &c, err
}

func (r *contractRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Contract, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var contracts []model.Contract
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&contracts).Error
	return contracts, err
}

func (r *contractRepo) LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Contract, error) {
	var c model.Contract
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *contractRepo) List(ctx context.Context, filter dto.ContractFilter) ([]model.Contract, error) {
	q := r.db.WithContext(ctx).Model(&model.Contract{})

	if filter.WorkID != "" {
		q = q.Where("work_id = ?", filter.WorkID)
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ApprovalStatus != "" {
		q = q.Where("approval_status = ?", filter.ApprovalStatus)
	}

	var contracts []model.Contract
	err := q.Order("created_at DESC").Find(&contracts).Error
	return contracts, err
}

// ContractItemRepository reads line items. Items are written only through
// ContractRepository.Create as part of their contract.
type ContractItemRepository interface {
	// FindByIDs is a batched lookup; empty input returns an empty result
	// without touching the database. tx may be the repo's own DB when no
	// transactional view is needed.
	FindByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]model.ContractItem, error)
	FindByContractID(ctx context.Context, contractID uuid.UUID) ([]model.ContractItem, error)
	DB() *gorm.DB
}

type contractItemRepo struct{ db *gorm.DB }

func NewContractItemRepository(db *gorm.DB) ContractItemRepository {
	return &contractItemRepo{db: db}
}

func (r *contractItemRepo) DB() *gorm.DB { return r.db }

func (r *contractItemRepo) FindByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]model.ContractItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []model.ContractItem
	err := tx.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *contractItemRepo) FindByContractID(ctx context.Context, contractID uuid.UUID) ([]model.ContractItem, error) {
	var items []model.ContractItem
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}
