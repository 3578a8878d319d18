package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-adp-api/internal/dto"
	"github.com/noah-isme/uni-adp-api/internal/models"
	appErrors "github.com/noah-isme/uni-adp-api/pkg/errors"
)

type staffRepo interface {
	List(ctx context.Context, filter models.StaffFilter) ([]models.StaffMember, int, error)
	FindByID(ctx context.Context, id string) (*models.StaffMember, error)
	Create(ctx context.Context, member *models.StaffMember) error
	UpdateSelectedSubjects(ctx context.Context, id string, subjectIDs []string) error
	LockSelection(ctx context.Context, id string) error
}

type subjectReader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// StaffService manages staff members and their subject selections.
type StaffService struct {
	repo     staffRepo
	subjects subjectReader
	validate *validator.Validate
	logger   *zap.Logger
}

// NewStaffService creates a staff service.
func NewStaffService(repo staffRepo, subjects subjectReader, validate *validator.Validate, logger *zap.Logger) *StaffService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{repo: repo, subjects: subjects, validate: validate, logger: logger}
}

// List returns staff members matching the filter with a total count.
func (s *StaffService) List(ctx context.Context, filter models.StaffFilter) ([]models.StaffMember, int, error) {
	staff, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, "STAFF_LIST_FAILED", http.StatusInternalServerError, "failed to list staff")
	}
	return staff, total, nil
}

// Get returns one staff member.
func (s *StaffService) Get(ctx context.Context, id string) (*models.StaffMember, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, "STAFF_LOOKUP_FAILED", http.StatusInternalServerError, "failed to load staff member")
	}
	return member, nil
}

// Create registers a new staff member with an empty, unlocked selection.
func (s *StaffService) Create(ctx context.Context, req dto.CreateStaffRequest) (*models.StaffMember, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	member := &models.StaffMember{
		Name:         req.Name,
		Email:        req.Email,
		StaffRole:    models.StaffRole(req.StaffRole),
		DepartmentID: req.DepartmentID,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, "STAFF_CREATE_FAILED", http.StatusInternalServerError, "failed to create staff member")
	}
	return member, nil
}

// SelectSubjects replaces a staff member's subject selection. Locked
// selections cannot be changed; every subject must exist and belong to
// the member's department.
func (s *StaffService) SelectSubjects(ctx context.Context, id string, req dto.UpdateStaffSubjectsRequest) (*models.StaffMember, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if member.SubjectsLocked {
		return nil, appErrors.Clone(appErrors.ErrLocked, "subject selection is locked")
	}

	seen := make(map[string]struct{}, len(req.SubjectIDs))
	for _, subjectID := range req.SubjectIDs {
		if _, dup := seen[subjectID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, "duplicate subject in selection")
		}
		seen[subjectID] = struct{}{}

		subject, err := s.subjects.FindByID(ctx, subjectID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "unknown subject in selection")
			}
			return nil, appErrors.Wrap(err, "SUBJECT_LOOKUP_FAILED", http.StatusInternalServerError, "failed to verify subject")
		}
		if subject.DepartmentID != member.DepartmentID {
			return nil, appErrors.Clone(appErrors.ErrValidation, "subject belongs to another department")
		}
	}

	if err := s.repo.UpdateSelectedSubjects(ctx, id, req.SubjectIDs); err != nil {
		return nil, appErrors.Wrap(err, "STAFF_UPDATE_FAILED", http.StatusInternalServerError, "failed to update subject selection")
	}
	member.SelectedSubjects = pq.StringArray(req.SubjectIDs)

	s.logger.Info("staff subject selection updated",
		zap.String("staff_id", id),
		zap.Int("subjects", len(req.SubjectIDs)),
	)
	return member, nil
}

// LockSelection finalises a staff member's subject selection. Locking is
// idempotent; locking an already locked selection succeeds.
func (s *StaffService) LockSelection(ctx context.Context, id string) (*models.StaffMember, error) {
	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if member.SubjectsLocked {
		return member, nil
	}
	if len(member.SelectedSubjects) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "cannot lock an empty subject selection")
	}
	if err := s.repo.LockSelection(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, "STAFF_LOCK_FAILED", http.StatusInternalServerError, "failed to lock subject selection")
	}
	member.SubjectsLocked = true

	s.logger.Info("staff subject selection locked", zap.String("staff_id", id))
	return member, nil
}
