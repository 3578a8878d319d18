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

type subjectRepo interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
}

// SubjectService manages the subject catalogue.
type SubjectService struct {
	repo     subjectRepo
	validate *validator.Validate
}

// NewSubjectService creates a subject service.
func NewSubjectService(repo subjectRepo, validate *validator.Validate) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	return &SubjectService{repo: repo, validate: validate}
}

// List returns subjects matching the filter with a total count.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	subjects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, "SUBJECT_LIST_FAILED", http.StatusInternalServerError, "failed to list subjects")
	}
	return subjects, total, nil
}

// Get returns one subject.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, "SUBJECT_LOOKUP_FAILED", http.StatusInternalServerError, "failed to load subject")
	}
	return subject, nil
}

// Create registers a new subject.
func (s *SubjectService) Create(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	subject := &models.Subject{
		Name:         req.Name,
		Code:         req.Code,
		Credits:      req.Credits,
		DepartmentID: req.DepartmentID,
		SubjectType:  models.SubjectType(req.SubjectType),
	}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, "SUBJECT_CREATE_FAILED", http.StatusInternalServerError, "failed to create subject")
	}
	return subject, nil
}
