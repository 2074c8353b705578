package repository

import (
	"context"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkRepository interface {
	Create(ctx context.Context, w *model.Work) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Work, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Work, error)
	List(ctx context.Context) ([]model.Work, error)
	Update(ctx context.Context, w *model.Work) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type workRepo struct{ db *gorm.DB }

func NewWorkRepository(db *gorm.DB) WorkRepository { return &workRepo{db: db} }

func (r *workRepo) Create(ctx context.Context, w *model.Work) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *workRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Work, error) {
	var w model.Work
	err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error
	return &w, err
}

func (r *workRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Work, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var works []model.Work
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&works).Error
	return works, err
}

func (r *workRepo) List(ctx context.Context) ([]model.Work, error) {
	var works []model.Work
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&works).Error
	return works, err
}

func (r *workRepo) Update(ctx context.Context, w *model.Work) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *workRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Work{}, "id = ?", id).Error
}
