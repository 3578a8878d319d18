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

type classroomRepo interface {
	List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, error)
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
	Create(ctx context.Context, classroom *models.Classroom) error
}

// ClassroomService manages the classroom inventory.
type ClassroomService struct {
	repo     classroomRepo
	validate *validator.Validate
}

// NewClassroomService creates a classroom service.
func NewClassroomService(repo classroomRepo, validate *validator.Validate) *ClassroomService {
	if validate == nil {
		validate = validator.New()
	}
	return &ClassroomService{repo: repo, validate: validate}
}

// List returns classrooms matching the filter.
func (s *ClassroomService) List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, error) {
	classrooms, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, "CLASSROOM_LIST_FAILED", http.StatusInternalServerError, "failed to list classrooms")
	}
	return classrooms, nil
}

// Get returns one classroom.
func (s *ClassroomService) Get(ctx context.Context, id string) (*models.Classroom, error) {
	classroom, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return nil, appErrors.Wrap(err, "CLASSROOM_LOOKUP_FAILED", http.StatusInternalServerError, "failed to load classroom")
	}
	return classroom, nil
}

// Create registers a new classroom.
func (s *ClassroomService) Create(ctx context.Context, req dto.CreateClassroomRequest) (*models.Classroom, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	classroom := &models.Classroom{
		Name:         req.Name,
		Capacity:     req.Capacity,
		DepartmentID: req.DepartmentID,
		RoomType:     models.RoomType(req.RoomType),
	}
	if err := s.repo.Create(ctx, classroom); err != nil {
		return nil, appErrors.Wrap(err, "CLASSROOM_CREATE_FAILED", http.StatusInternalServerError, "failed to create classroom")
	}
	return classroom, nil
}
