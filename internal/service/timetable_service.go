package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-adp-api/internal/dto"
	"github.com/noah-isme/uni-adp-api/internal/models"
	"github.com/noah-isme/uni-adp-api/pkg/ai"
	appErrors "github.com/noah-isme/uni-adp-api/pkg/errors"
	"github.com/noah-isme/uni-adp-api/pkg/export"
)

type departmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Department, error)
}

type subjectLister interface {
	ListByDepartment(ctx context.Context, departmentID string) ([]models.Subject, error)
}

type staffLister interface {
	ListLockedByDepartment(ctx context.Context, departmentID string) ([]models.StaffMember, error)
}

type classroomLister interface {
	ListByDepartment(ctx context.Context, departmentID string) ([]models.Classroom, error)
}

type constraintLister interface {
	ListForDepartment(ctx context.Context, departmentID string) ([]models.Constraint, error)
}

type timetableStore interface {
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
	NextVersion(ctx context.Context, exec sqlx.ExtContext, departmentID string) (int, error)
	InsertSlots(ctx context.Context, exec sqlx.ExtContext, slots []models.TimetableSlot) error
	LatestVersion(ctx context.Context, departmentID string) (int, error)
	ListVersions(ctx context.Context, departmentID string) ([]models.TimetableVersion, error)
	ListSlots(ctx context.Context, departmentID string, version int) ([]models.TimetableSlot, error)
}

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// TimetableServiceConfig tunes generation behaviour.
type TimetableServiceConfig struct {
	DefaultMaxSubjects int
	DefaultMaxHours    int
	CacheTTL           time.Duration
	ProposalTimeout    time.Duration
}

// TimetableService generates, validates, stores and serves department
// timetables.
type TimetableService struct {
	departments departmentReader
	subjects    subjectLister
	staff       staffLister
	classrooms  classroomLister
	constraints constraintLister
	store       timetableStore
	cache       cacheStore
	generators  []ai.Generator
	allocator   *timetableAllocator
	resolver    *constraintResolver
	metrics     *MetricsService
	cfg         TimetableServiceConfig
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewTimetableService wires the engine. Cache, generators and metrics are
// optional; a nil cache disables read caching, an empty generator chain
// makes every run use the deterministic allocator.
func NewTimetableService(
	departments departmentReader,
	subjects subjectLister,
	staff staffLister,
	classrooms classroomLister,
	constraints constraintLister,
	store timetableStore,
	cache cacheStore,
	generators []ai.Generator,
	metrics *MetricsService,
	cfg TimetableServiceConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.ProposalTimeout <= 0 {
		cfg.ProposalTimeout = 10 * time.Second
	}
	return &TimetableService{
		departments: departments,
		subjects:    subjects,
		staff:       staff,
		classrooms:  classrooms,
		constraints: constraints,
		store:       store,
		cache:       cache,
		generators:  generators,
		allocator:   newTimetableAllocator(),
		resolver: newConstraintResolver(models.StaffLimits{
			MaxSubjects: cfg.DefaultMaxSubjects,
			MaxHours:    cfg.DefaultMaxHours,
		}),
		metrics:  metrics,
		cfg:      cfg,
		validate: validate,
		logger:   logger,
	}
}

// Generate builds and persists a new timetable version for a department.
// External proposals, when requested and configured, are tried first in
// chain order; each attempt gets its own timeout and a failed or empty
// attempt falls through to the next generator. The deterministic
// allocator is the final fallback and cannot itself fail, only
// under-allocate.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	department, err := s.departments.FindByID(ctx, req.DepartmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, "DEPARTMENT_LOOKUP_FAILED", http.StatusInternalServerError, "failed to load department")
	}

	subjects, err := s.subjects.ListByDepartment(ctx, req.DepartmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, "SUBJECT_LOOKUP_FAILED", http.StatusInternalServerError, "failed to load subjects")
	}
	if len(subjects) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "department has no subjects to schedule")
	}

	staff, err := s.staff.ListLockedByDepartment(ctx, req.DepartmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, "STAFF_LOOKUP_FAILED", http.StatusInternalServerError, "failed to load staff")
	}
	if len(staff) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "department has no staff with locked subject selections")
	}

	classrooms, err := s.classrooms.ListByDepartment(ctx, req.DepartmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, "CLASSROOM_LOOKUP_FAILED", http.StatusInternalServerError, "failed to load classrooms")
	}
	if len(classrooms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "department has no classrooms")
	}

	constraints, err := s.constraints.ListForDepartment(ctx, req.DepartmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, "CONSTRAINT_LOOKUP_FAILED", http.StatusInternalServerError, "failed to load constraints")
	}

	started := time.Now()
	source := models.TimetableSourceAllocator
	var slots []models.TimetableSlot
	var underAllocated []models.UnderAllocation

	if req.UseProposals && len(s.generators) > 0 {
		proposal := s.tryProposals(ctx, ai.ProposalInput{
			Department:  *department,
			Subjects:    subjects,
			Staff:       staff,
			Classrooms:  classrooms,
			Constraints: constraints,
		})
		if len(proposal) > 0 {
			source = models.TimetableSourceProposal
			slots = make([]models.TimetableSlot, 0, len(proposal))
			for _, in := range proposal {
				slots = append(slots, models.TimetableSlot{
					DepartmentID: req.DepartmentID,
					Day:          in.Day,
					TimeSlot:     in.TimeSlot,
					SubjectID:    in.SubjectID,
					StaffID:      in.StaffID,
					ClassroomID:  in.ClassroomID,
				})
			}
		}
	}

	if slots == nil {
		limits := s.resolver.ResolveAll(staff, constraints)
		result, allocErr := s.allocator.Allocate(ctx, allocatorInput{
			DepartmentID: req.DepartmentID,
			Subjects:     subjects,
			Staff:        staff,
			Classrooms:   classrooms,
			Limits:       limits,
		})
		if allocErr != nil {
			return nil, appErrors.Wrap(allocErr, "GENERATION_CANCELLED", http.StatusInternalServerError, "timetable generation cancelled")
		}
		slots = result.Slots
		underAllocated = result.UnderAllocated
	}

	version, err := s.persistVersion(ctx, req.DepartmentID, slots)
	if err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, req.DepartmentID)
	s.metrics.ObserveGeneration(string(source), len(slots), countDropped(underAllocated), time.Since(started))

	s.logger.Info("timetable generated",
		zap.String("department_id", req.DepartmentID),
		zap.Int("version", version),
		zap.String("source", string(source)),
		zap.Int("slots", len(slots)),
		zap.Int("under_allocated", len(underAllocated)),
	)

	return &dto.GenerateTimetableResponse{
		DepartmentID:   req.DepartmentID,
		Version:        version,
		Source:         source,
		Slots:          slots,
		UnderAllocated: underAllocated,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

// tryProposals walks the generator chain and returns the first validated
// non-empty proposal. Every candidate passes through the proposal filter
// before acceptance regardless of its source.
func (s *TimetableService) tryProposals(ctx context.Context, input ai.ProposalInput) []dto.TimetableSlotInput {
	refs := buildProposalReferences(input.Subjects, input.Staff, input.Classrooms)
	for _, generator := range s.generators {
		attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.ProposalTimeout)
		candidate, err := generator.Generate(attemptCtx, input)
		cancel()
		if err != nil {
			s.metrics.RecordGeneratorFallback(generator.Name())
			s.logger.Warn("proposal generator failed",
				zap.String("generator", generator.Name()),
				zap.Error(err),
			)
			continue
		}
		accepted := filterProposalSlots(candidate, refs)
		if len(accepted) == 0 {
			s.metrics.RecordGeneratorFallback(generator.Name())
			s.logger.Warn("proposal rejected, no valid slots",
				zap.String("generator", generator.Name()),
				zap.Int("candidate_slots", len(candidate)),
			)
			continue
		}
		s.logger.Info("proposal accepted",
			zap.String("generator", generator.Name()),
			zap.Int("accepted", len(accepted)),
			zap.Int("dropped", len(candidate)-len(accepted)),
		)
		return accepted
	}
	return nil
}

// persistVersion allocates the next version number and writes the slots
// atomically. Version allocation and insertion share one transaction so
// concurrent generations cannot produce duplicate versions.
func (s *TimetableService) persistVersion(ctx context.Context, departmentID string, slots []models.TimetableSlot) (int, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, "TIMETABLE_PERSIST_FAILED", http.StatusInternalServerError, "failed to start timetable transaction")
	}
	defer tx.Rollback()

	version, err := s.store.NextVersion(ctx, tx, departmentID)
	if err != nil {
		return 0, appErrors.Wrap(err, "TIMETABLE_PERSIST_FAILED", http.StatusInternalServerError, "failed to allocate timetable version")
	}
	for i := range slots {
		slots[i].Version = version
	}
	if err := s.store.InsertSlots(ctx, tx, slots); err != nil {
		return 0, appErrors.Wrap(err, "TIMETABLE_PERSIST_FAILED", http.StatusInternalServerError, "failed to store timetable slots")
	}
	if err := tx.Commit(); err != nil {
		return 0, appErrors.Wrap(err, "TIMETABLE_PERSIST_FAILED", http.StatusInternalServerError, "failed to commit timetable")
	}
	return version, nil
}

// Validate filters an externally supplied candidate schedule and returns
// the conflict-free subsequence without persisting anything.
func (s *TimetableService) Validate(ctx context.Context, req dto.ValidateProposalRequest) (*dto.ValidateProposalResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	subjects, err := s.subjects.ListByDepartment(ctx, req.DepartmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, "SUBJECT_LOOKUP_FAILED", http.StatusInternalServerError, "failed to load subjects")
	}
	staff, err := s.staff.ListLockedByDepartment(ctx, req.DepartmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, "STAFF_LOOKUP_FAILED", http.StatusInternalServerError, "failed to load staff")
	}
	classrooms, err := s.classrooms.ListByDepartment(ctx, req.DepartmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, "CLASSROOM_LOOKUP_FAILED", http.StatusInternalServerError, "failed to load classrooms")
	}

	refs := buildProposalReferences(subjects, staff, classrooms)
	accepted := filterProposalSlots(req.Slots, refs)
	return &dto.ValidateProposalResponse{
		Accepted: accepted,
		Dropped:  len(req.Slots) - len(accepted),
	}, nil
}

// Get returns one stored timetable version, the latest when version is
// zero. Reads go through the cache when one is configured.
func (s *TimetableService) Get(ctx context.Context, departmentID string, version int) (*models.Timetable, error) {
	if departmentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "department id is required")
	}

	if version == 0 {
		latest, err := s.store.LatestVersion(ctx, departmentID)
		if err != nil {
			return nil, appErrors.Wrap(err, "TIMETABLE_LOOKUP_FAILED", http.StatusInternalServerError, "failed to resolve latest version")
		}
		if latest == 0 {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no timetable generated for department")
		}
		version = latest
	}

	cacheKey := timetableCacheKey(departmentID, version)
	if s.cache != nil {
		var cached models.Timetable
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("timetable cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheOperation(false)
	}

	slots, err := s.store.ListSlots(ctx, departmentID, version)
	if err != nil {
		return nil, appErrors.Wrap(err, "TIMETABLE_LOOKUP_FAILED", http.StatusInternalServerError, "failed to load timetable slots")
	}
	if len(slots) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable version not found")
	}

	timetable := &models.Timetable{
		DepartmentID: departmentID,
		Version:      version,
		Slots:        slots,
		GeneratedAt:  slots[0].CreatedAt,
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, timetable, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("timetable cache write failed", zap.Error(err))
		}
	}
	return timetable, nil
}

// Versions lists stored version metadata for a department, newest first.
func (s *TimetableService) Versions(ctx context.Context, departmentID string) ([]models.TimetableVersion, error) {
	if departmentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "department id is required")
	}
	versions, err := s.store.ListVersions(ctx, departmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, "TIMETABLE_LOOKUP_FAILED", http.StatusInternalServerError, "failed to list timetable versions")
	}
	return versions, nil
}

// Export renders a stored timetable version as CSV or PDF bytes.
func (s *TimetableService) Export(ctx context.Context, departmentID string, version int, format string) ([]byte, string, error) {
	timetable, err := s.Get(ctx, departmentID, version)
	if err != nil {
		return nil, "", err
	}

	dataset := export.Dataset{
		Headers: []string{"Day", "Time Slot", "Subject", "Staff", "Classroom"},
	}
	for _, slot := range timetable.Slots {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Day":       slot.Day,
			"Time Slot": slot.TimeSlot,
			"Subject":   slot.SubjectID,
			"Staff":     slot.StaffID,
			"Classroom": slot.ClassroomID,
		})
	}

	switch format {
	case "", "csv":
		data, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, "EXPORT_FAILED", http.StatusInternalServerError, "failed to render csv export")
		}
		return data, "text/csv", nil
	case "pdf":
		title := fmt.Sprintf("Timetable %s v%d", departmentID, timetable.Version)
		data, err := export.NewPDFExporter().Render(dataset, title)
		if err != nil {
			return nil, "", appErrors.Wrap(err, "EXPORT_FAILED", http.StatusInternalServerError, "failed to render pdf export")
		}
		return data, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func (s *TimetableService) invalidateCache(ctx context.Context, departmentID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, fmt.Sprintf("timetable:%s:*", departmentID)); err != nil {
		s.logger.Warn("timetable cache invalidation failed",
			zap.String("department_id", departmentID),
			zap.Error(err),
		)
	}
}

func timetableCacheKey(departmentID string, version int) string {
	return fmt.Sprintf("timetable:%s:%d", departmentID, version)
}

func countDropped(under []models.UnderAllocation) int {
	total := 0
	for _, u := range under {
		total += u.Expected - u.Scheduled
	}
	return total
}
