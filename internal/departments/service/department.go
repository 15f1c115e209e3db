package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	departmentserrors "roombook/internal/departments/errors"
	"roombook/internal/departments/repository"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"
)

type DepartmentService interface {
	Create(ctx context.Context, department *model.Department) error
	GetAll(ctx context.Context) ([]*model.Department, error)
	Delete(ctx context.Context, id string) error
}

type departmentService struct {
	repo     repository.DepartmentRepository
	validate *validator.Validate
	cfg      *config.Config
}

func NewDepartmentService(repo repository.DepartmentRepository, cfg *config.Config) DepartmentService {
	return &departmentService{
		repo:     repo,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *departmentService) Create(ctx context.Context, department *model.Department) error {
	department.Name = sanitizer.NormalizeName(department.Name)
	department.Code = sanitizer.NormalizeLabel(department.Code)

	if err := s.validate.Struct(department); err != nil {
		s.cfg.Log.Warn("Department validation failed", "error", err)
		return apperrors.Validation("Department validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, department); err != nil {
		if errors.Is(err, departmentserrors.ErrDuplicateCode) {
			return apperrors.Conflict(fmt.Sprintf("Department code %s already exists", department.Code))
		}
		s.cfg.Log.Error("Failed to create department", "error", err)
		return apperrors.Internal("Failed to create department", err)
	}

	s.cfg.Log.Info("Department created successfully", "id", department.ID, "code", department.Code)
	return nil
}

func (s *departmentService) GetAll(ctx context.Context) ([]*model.Department, error) {
	departments, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list departments", "error", err)
		return nil, apperrors.Internal("Failed to retrieve departments", err)
	}
	return departments, nil
}

func (s *departmentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Department ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, departmentserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Department", id)
		}
		if errors.Is(err, departmentserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid department ID format")
		}
		return apperrors.Internal("Failed to delete department", err)
	}

	s.cfg.Log.Info("Department deleted", "id", id)
	return nil
}
