package repository

import (
	"context"
	"time"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MeasurementRepository interface {
	// Create inserts the measurement together with its items inside tx;
	// any failure rolls back the whole batch.
	Create(ctx context.Context, tx *gorm.DB, m *model.Measurement) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Measurement, error)
	FindAll(ctx context.Context) ([]model.Measurement, error)
	FindByContractID(ctx context.Context, contractID uuid.UUID) ([]model.Measurement, error)
	// SumQuantitiesByContract folds every measurement item of the contract
	// (any approval status) into a per-contract-item accumulated quantity.
	// Runs on tx so the measurement creation transaction sees a consistent
	// snapshot under the contract row lock.
	SumQuantitiesByContract(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	UpdateApproval(ctx context.Context, m *model.Measurement) error
	SetReportPath(ctx context.Context, id uuid.UUID, path string) error
	// ListApprovedWithoutReport feeds the report recovery cron: approved
	// measurements whose PDF statement was never stored.
	ListApprovedWithoutReport(ctx context.Context, limit int) ([]model.Measurement, error)
	DB() *gorm.DB
}

type measurementRepo struct{ db *gorm.DB }

func NewMeasurementRepository(db *gorm.DB) MeasurementRepository {
	return &measurementRepo{db: db}
}

func (r *measurementRepo) DB() *gorm.DB { return r.db }

func (r *measurementRepo) Create(ctx context.Context, tx *gorm.DB, m *model.Measurement) error {
	return tx.WithContext(ctx).Create(m).Error
}

func (r *measurementRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Measurement, error) {
	var m model.Measurement
	err := r.db.WithContext(ctx).Preload("Items").First(&m, "id = ?", id).Error
	return &m, err
}

func (r *measurementRepo) FindAll(ctx context.Context) ([]model.Measurement, error) {
	var measurements []model.Measurement
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("issue_date DESC").
		Find(&measurements).Error
	return measurements, err
}

func (r *measurementRepo) FindByContractID(ctx context.Context, contractID uuid.UUID) ([]model.Measurement, error) {
	var measurements []model.Measurement
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("contract_id = ?", contractID).
		Order("issue_date DESC").
		Find(&measurements).Error
	return measurements, err
}

func (r *measurementRepo) SumQuantitiesByContract(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	type row struct {
		ContractItemID uuid.UUID
		Total          decimal.Decimal
	}
	var rows []row
	err := tx.WithContext(ctx).
		Table("measurement_items mi").
		Select("mi.contract_item_id AS contract_item_id, SUM(mi.quantity) AS total").
		Joins("JOIN measurements m ON m.id = mi.measurement_id").
		Where("m.contract_id = ?", contractID).
		Group("mi.contract_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	accumulated := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, r := range rows {
		accumulated[r.ContractItemID] = r.Total
	}
	return accumulated, nil
}

func (r *measurementRepo) UpdateApproval(ctx context.Context, m *model.Measurement) error {
	return r.db.WithContext(ctx).Model(&model.Measurement{}).
		Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"approval_status": m.ApprovalStatus,
			"approval_date":   m.ApprovalDate,
		}).Error
}

func (r *measurementRepo) SetReportPath(ctx context.Context, id uuid.UUID, path string) error {
	return r.db.WithContext(ctx).Model(&model.Measurement{}).
		Where("id = ?", id).
		Update("report_path", path).Error
}

// ListApprovedWithoutReport skips measurements approved in the last 5 minutes
// so jobs still in flight are not re-enqueued.
func (r *measurementRepo) ListApprovedWithoutReport(ctx context.Context, limit int) ([]model.Measurement, error) {
	var list []model.Measurement
	err := r.db.WithContext(ctx).
		Where("approval_status = ? AND report_path IS NULL AND approval_date < ?",
			model.MeasurementApproved, time.Now().Add(-5*time.Minute)).
		Order("approval_date ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
