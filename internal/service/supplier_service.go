package service

import (
	"context"
	"errors"

	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/apierror"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/dto"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/model"
	"github.com/Conferir-Systems/erp-conferir-engenharia/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierService interface {
	Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error)
	List(ctx context.Context) ([]dto.SupplierResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error)
}

type supplierService struct {
	repo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	// The document also carries a unique index; this check exists to return
	// a clean conflict instead of a driver error.
	if _, err := s.repo.FindByDocument(ctx, req.Document); err == nil {
		return nil, apierror.NewConflict("Supplier with document %s already exists", req.Document)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	supplier := &model.Supplier{
		ID:         uuid.New(),
		Name:       req.Name,
		TypePerson: req.TypePerson,
		Document:   req.Document,
		Pix:        req.Pix,
		Email:      req.Email,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplierToResponse(supplier), nil
}

func (s *supplierService) Get(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("Supplier with id %s not found", id)
		}
		return nil, err
	}
	return supplierToResponse(supplier), nil
}

func (s *supplierService) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	suppliers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		responses = append(responses, *supplierToResponse(&suppliers[i]))
	}
	return responses, nil
}

func (s *supplierService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("Supplier with id %s not found", id)
		}
		return nil, err
	}
	if req.Name != "" {
		supplier.Name = req.Name
	}
	if req.TypePerson != "" {
		supplier.TypePerson = req.TypePerson
	}
	if req.Pix != nil {
		supplier.Pix = req.Pix
	}
	if req.Email != nil {
		supplier.Email = req.Email
	}
	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplierToResponse(supplier), nil
}

func supplierToResponse(s *model.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:         s.ID.String(),
		Name:       s.Name,
		TypePerson: s.TypePerson,
		Document:   s.Document,
		Pix:        s.Pix,
		Email:      s.Email,
	}
}
