package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/uni-adp-api/internal/dto"
	"github.com/noah-isme/uni-adp-api/internal/models"
	appErrors "github.com/noah-isme/uni-adp-api/pkg/errors"
)

type constraintRepo interface {
	List(ctx context.Context) ([]models.Constraint, error)
	ListForDepartment(ctx context.Context, departmentID string) ([]models.Constraint, error)
	Create(ctx context.Context, constraint *models.Constraint) error
	Delete(ctx context.Context, id string) error
}

// ConstraintService manages workload constraints.
type ConstraintService struct {
	repo     constraintRepo
	validate *validator.Validate
}

// NewConstraintService creates a constraint service.
func NewConstraintService(repo constraintRepo, validate *validator.Validate) *ConstraintService {
	if validate == nil {
		validate = validator.New()
	}
	return &ConstraintService{repo: repo, validate: validate}
}

// List returns constraints; scoped to a department (plus globals) when
// departmentID is non-empty.
func (s *ConstraintService) List(ctx context.Context, departmentID string) ([]models.Constraint, error) {
	var constraints []models.Constraint
	var err error
	if departmentID != "" {
		constraints, err = s.repo.ListForDepartment(ctx, departmentID)
	} else {
		constraints, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, "CONSTRAINT_LIST_FAILED", http.StatusInternalServerError, "failed to list constraints")
	}
	return constraints, nil
}

// Create registers a new workload constraint.
func (s *ConstraintService) Create(ctx context.Context, req dto.CreateConstraintRequest, createdBy string) (*models.Constraint, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	constraint := &models.Constraint{
		Role:        models.StaffRole(req.StaffRole),
		SubjectType: models.ConstraintSubjectType(req.SubjectType),
		MaxSubjects: req.MaxSubjects,
		MaxHours:    req.MaxHours,
		CreatedBy:   createdBy,
	}
	if dept := strings.TrimSpace(req.DepartmentID); dept != "" {
		constraint.DepartmentID = &dept
	}
	if err := s.repo.Create(ctx, constraint); err != nil {
		return nil, appErrors.Wrap(err, "CONSTRAINT_CREATE_FAILED", http.StatusInternalServerError, "failed to create constraint")
	}
	return constraint, nil
}

// Delete removes a constraint.
func (s *ConstraintService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, "CONSTRAINT_DELETE_FAILED", http.StatusInternalServerError, "failed to delete constraint")
	}
	return nil
}
