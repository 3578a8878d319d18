package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/uni-adp-api/internal/dto"
	"github.com/noah-isme/uni-adp-api/internal/models"
	appErrors "github.com/noah-isme/uni-adp-api/pkg/errors"
)

type departmentRepo interface {
	List(ctx context.Context) ([]models.Department, error)
	FindByID(ctx context.Context, id string) (*models.Department, error)
	Create(ctx context.Context, department *models.Department) error
}

// DepartmentService manages the department catalogue.
type DepartmentService struct {
	repo     departmentRepo
	validate *validator.Validate
}

// NewDepartmentService creates a department service.
func NewDepartmentService(repo departmentRepo, validate *validator.Validate) *DepartmentService {
	if validate == nil {
		validate = validator.New()
	}
	return &DepartmentService{repo: repo, validate: validate}
}

// List returns all departments.
func (s *DepartmentService) List(ctx context.Context) ([]models.Department, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, "DEPARTMENT_LIST_FAILED", http.StatusInternalServerError, "failed to list departments")
	}
	return departments, nil
}

// Get returns one department.
func (s *DepartmentService) Get(ctx context.Context, id string) (*models.Department, error) {
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, "DEPARTMENT_LOOKUP_FAILED", http.StatusInternalServerError, "failed to load department")
	}
	return department, nil
}

// Create registers a new department.
func (s *DepartmentService) Create(ctx context.Context, req dto.CreateDepartmentRequest) (*models.Department, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	department := &models.Department{
		Name: req.Name,
		Code: req.Code,
	}
	if err := s.repo.Create(ctx, department); err != nil {
		return nil, appErrors.Wrap(err, "DEPARTMENT_CREATE_FAILED", http.StatusInternalServerError, "failed to create department")
	}
	return department, nil
}
