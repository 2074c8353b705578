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

type WorkService interface {
	Create(ctx context.Context, req dto.CreateWorkRequest) (*dto.WorkResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.WorkResponse, error)
	List(ctx context.Context) ([]dto.WorkResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateWorkRequest) (*dto.WorkResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type workService struct {
	repo repository.WorkRepository
}

func NewWorkService(repo repository.WorkRepository) WorkService {
	return &workService{repo: repo}
}

func (s *workService) Create(ctx context.Context, req dto.CreateWorkRequest) (*dto.WorkResponse, error) {
	status := req.Status
	if status == "" {
		status = model.WorkStatusActive
	}
	work := &model.Work{
		ID:         uuid.New(),
		Name:       req.Name,
		Code:       req.Code,
		Address:    req.Address,
		Contractor: req.Contractor,
		Status:     status,
	}
	if err := s.repo.Create(ctx, work); err != nil {
		return nil, err
	}
	return workToResponse(work), nil
}

func (s *workService) Get(ctx context.Context, id uuid.UUID) (*dto.WorkResponse, error) {
	work, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("Work with id %s not found", id)
		}
		return nil, err
	}
	return workToResponse(work), nil
}

func (s *workService) List(ctx context.Context) ([]dto.WorkResponse, error) {
	works, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.WorkResponse, 0, len(works))
	for i := range works {
		responses = append(responses, *workToResponse(&works[i]))
	}
	return responses, nil
}

func (s *workService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateWorkRequest) (*dto.WorkResponse, error) {
	work, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("Work with id %s not found", id)
		}
		return nil, err
	}
	if req.Name != "" {
		work.Name = req.Name
	}
	if req.Code != nil {
		work.Code = req.Code
	}
	if req.Address != "" {
		work.Address = req.Address
	}
	if req.Contractor != nil {
		work.Contractor = req.Contractor
	}
	if req.Status != "" {
		work.Status = req.Status
	}
	if err := s.repo.Update(ctx, work); err != nil {
		return nil, err
	}
	return workToResponse(work), nil
}

func (s *workService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NewNotFound("Work with id %s not found", id)
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func workToResponse(w *model.Work) *dto.WorkResponse {
	return &dto.WorkResponse{
		ID:         w.ID.String(),
		Name:       w.Name,
		Code:       w.Code,
		Address:    w.Address,
		Contractor: w.Contractor,
		Status:     w.Status,
	}
}
