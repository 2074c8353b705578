package repository

import (
	"context"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Preload("UserType").First(&u, "id = ?", id).Error
	return &u, err
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Preload("UserType").Where("email = ?", email).First(&u).Error
	return &u, err
}

type UserTypeRepository interface {
	Create(ctx context.Context, t *model.UserType) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.UserType, error)
	FindByName(ctx context.Context, name string) (*model.UserType, error)
	List(ctx context.Context) ([]model.UserType, error)
}

type userTypeRepo struct{ db *gorm.DB }

func NewUserTypeRepository(db *gorm.DB) UserTypeRepository { return &userTypeRepo{db: db} }

func (r *userTypeRepo) Create(ctx context.Context, t *model.UserType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *userTypeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.UserType, error) {
	var t model.UserType
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *userTypeRepo) FindByName(ctx context.Context, name string) (*model.UserType, error) {
	var t model.UserType
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&t).Error
	return &t, err
}

func (r *userTypeRepo) List(ctx context.Context) ([]model.UserType, error) {
	var types []model.UserType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&types).Error
	return types, err
}
