package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-adp-api/internal/dto"
	"github.com/noah-isme/uni-adp-api/internal/models"
	"github.com/noah-isme/uni-adp-api/pkg/ai"
	appErrors "github.com/noah-isme/uni-adp-api/pkg/errors"
)

type stubDepartments struct {
	department *models.Department
	err        error
}

func (s *stubDepartments) FindByID(ctx context.Context, id string) (*models.Department, error) {
	return s.department, s.err
}

type stubSubjects struct {
	subjects []models.Subject
	err      error
}

func (s *stubSubjects) ListByDepartment(ctx context.Context, departmentID string) ([]models.Subject, error) {
	return s.subjects, s.err
}

type stubStaff struct {
	staff []models.StaffMember
	err   error
}

func (s *stubStaff) ListLockedByDepartment(ctx context.Context, departmentID string) ([]models.StaffMember, error) {
	if s.err != nil {
		return nil, s.err
	}
	var locked []models.StaffMember
	for _, member := range s.staff {
		if member.SubjectsLocked {
			locked = append(locked, member)
		}
	}
	return locked, nil
}

type stubClassrooms struct {
	classrooms []models.Classroom
	err        error
}

func (s *stubClassrooms) ListByDepartment(ctx context.Context, departmentID string) ([]models.Classroom, error) {
	return s.classrooms, s.err
}

type stubConstraints struct {
	constraints []models.Constraint
	err         error
}

func (s *stubConstraints) ListForDepartment(ctx context.Context, departmentID string) ([]models.Constraint, error) {
	return s.constraints, s.err
}

// stubTimetableStore delegates transaction lifecycle to sqlmock and keeps
// slot writes in memory.
type stubTimetableStore struct {
	db          *sqlx.DB
	nextVersion int
	inserted    []models.TimetableSlot
	insertErr   error
	latest      int
	versions    []models.TimetableVersion
	slots       []models.TimetableSlot
	listErr     error
}

func (s *stubTimetableStore) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return s.db.BeginTxx(ctx, nil)
}

func (s *stubTimetableStore) NextVersion(ctx context.Context, exec sqlx.ExtContext, departmentID string) (int, error) {
	return s.nextVersion, nil
}

func (s *stubTimetableStore) InsertSlots(ctx context.Context, exec sqlx.ExtContext, slots []models.TimetableSlot) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, slots...)
	return nil
}

func (s *stubTimetableStore) LatestVersion(ctx context.Context, departmentID string) (int, error) {
	return s.latest, nil
}

func (s *stubTimetableStore) ListVersions(ctx context.Context, departmentID string) ([]models.TimetableVersion, error) {
	return s.versions, nil
}

func (s *stubTimetableStore) ListSlots(ctx context.Context, departmentID string, version int) ([]models.TimetableSlot, error) {
	return s.slots, s.listErr
}

type stubCache struct {
	entries map[string][]byte
	deleted []string
}

func (s *stubCache) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (s *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (s *stubCache) DeleteByPattern(ctx context.Context, pattern string) error {
	s.deleted = append(s.deleted, pattern)
	return nil
}

type stubGenerator struct {
	name  string
	slots []dto.TimetableSlotInput
	err   error
	calls int
}

func (s *stubGenerator) Name() string { return s.name }

func (s *stubGenerator) Generate(ctx context.Context, input ai.ProposalInput) ([]dto.TimetableSlotInput, error) {
	s.calls++
	return s.slots, s.err
}

type timetableFixture struct {
	departments *stubDepartments
	subjects    *stubSubjects
	staff       *stubStaff
	classrooms  *stubClassrooms
	constraints *stubConstraints
	store       *stubTimetableStore
	cache       *stubCache
	mock        sqlmock.Sqlmock
}

func newTimetableFixture(t *testing.T) *timetableFixture {
	t.Helper()
	rawDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { rawDB.Close() })

	return &timetableFixture{
		departments: &stubDepartments{department: &models.Department{ID: "dept-1", Name: "Computer Science"}},
		subjects: &stubSubjects{subjects: []models.Subject{
			{ID: "sub-1", Credits: 2, SubjectType: models.SubjectTypeTheory},
		}},
		staff: &stubStaff{staff: []models.StaffMember{
			{ID: "staff-a", StaffRole: models.StaffRoleProfessor, DepartmentID: "dept-1", SelectedSubjects: []string{"sub-1"}, SubjectsLocked: true},
		}},
		classrooms: &stubClassrooms{classrooms: []models.Classroom{
			{ID: "room-1", RoomType: models.RoomTypeLecture},
		}},
		constraints: &stubConstraints{},
		store:       &stubTimetableStore{db: sqlx.NewDb(rawDB, "postgres"), nextVersion: 1},
		cache:       &stubCache{},
		mock:        mock,
	}
}

func (f *timetableFixture) service(generators ...ai.Generator) *TimetableService {
	return NewTimetableService(
		f.departments, f.subjects, f.staff, f.classrooms, f.constraints,
		f.store, f.cache, generators, nil,
		TimetableServiceConfig{}, nil, nil,
	)
}

func TestTimetableServiceGenerateAllocatorPath(t *testing.T) {
	f := newTimetableFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.service().Generate(context.Background(), dto.GenerateTimetableRequest{DepartmentID: "dept-1"})
	require.NoError(t, err)

	assert.Equal(t, models.TimetableSourceAllocator, resp.Source)
	assert.Equal(t, 1, resp.Version)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, 1, resp.Slots[0].Version)
	assert.Len(t, f.store.inserted, 2)
	assert.Equal(t, []string{"timetable:dept-1:*"}, f.cache.deleted)
}

func TestTimetableServiceGenerateUnknownDepartment(t *testing.T) {
	f := newTimetableFixture(t)
	f.departments.department = nil
	f.departments.err = sql.ErrNoRows

	_, err := f.service().Generate(context.Background(), dto.GenerateTimetableRequest{DepartmentID: "ghost"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestTimetableServiceGenerateSchedulesLockedStaffOnly(t *testing.T) {
	f := newTimetableFixture(t)
	f.staff.staff = append(f.staff.staff, models.StaffMember{
		ID: "staff-open", StaffRole: models.StaffRoleProfessor, DepartmentID: "dept-1",
		SelectedSubjects: []string{"sub-1"},
	})
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.service().Generate(context.Background(), dto.GenerateTimetableRequest{DepartmentID: "dept-1"})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Slots)
	for _, slot := range resp.Slots {
		assert.Equal(t, "staff-a", slot.StaffID)
	}
}

func TestTimetableServiceGenerateRejectsWhenNoLockedStaff(t *testing.T) {
	f := newTimetableFixture(t)
	f.staff.staff = []models.StaffMember{
		{ID: "staff-open", StaffRole: models.StaffRoleProfessor, DepartmentID: "dept-1", SelectedSubjects: []string{"sub-1"}},
	}

	_, err := f.service().Generate(context.Background(), dto.GenerateTimetableRequest{DepartmentID: "dept-1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusPreconditionFailed, appErr.Status)
	assert.Contains(t, appErr.Message, "locked")
}

func TestTimetableServiceGeneratePreconditions(t *testing.T) {
	cases := []struct {
		name  string
		setup func(f *timetableFixture)
	}{
		{"no subjects", func(f *timetableFixture) { f.subjects.subjects = nil }},
		{"no staff", func(f *timetableFixture) { f.staff.staff = nil }},
		{"no classrooms", func(f *timetableFixture) { f.classrooms.classrooms = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newTimetableFixture(t)
			tc.setup(f)

			_, err := f.service().Generate(context.Background(), dto.GenerateTimetableRequest{DepartmentID: "dept-1"})
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, http.StatusPreconditionFailed, appErr.Status)
		})
	}
}

func TestTimetableServiceGenerateProposalAccepted(t *testing.T) {
	f := newTimetableFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	generator := &stubGenerator{
		name: "groq",
		slots: []dto.TimetableSlotInput{
			{Day: "Monday", TimeSlot: "09:00-10:00", SubjectID: "sub-1", StaffID: "staff-a", ClassroomID: "room-1"},
		},
	}

	resp, err := f.service(generator).Generate(context.Background(), dto.GenerateTimetableRequest{
		DepartmentID: "dept-1",
		UseProposals: true,
	})
	require.NoError(t, err)

	assert.Equal(t, models.TimetableSourceProposal, resp.Source)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "staff-a", resp.Slots[0].StaffID)
	assert.Equal(t, 1, generator.calls)
}

func TestTimetableServiceGenerateFallsThroughFailingGenerators(t *testing.T) {
	f := newTimetableFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	failing := &stubGenerator{name: "groq", err: errors.New("upstream unavailable")}
	// All slots invalid, the proposal is rejected as a whole.
	invalid := &stubGenerator{name: "gemini", slots: []dto.TimetableSlotInput{
		{Day: "Sunday", TimeSlot: "09:00-10:00", SubjectID: "sub-1", StaffID: "staff-a", ClassroomID: "room-1"},
	}}

	resp, err := f.service(failing, invalid).Generate(context.Background(), dto.GenerateTimetableRequest{
		DepartmentID: "dept-1",
		UseProposals: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, invalid.calls)
	assert.Equal(t, models.TimetableSourceAllocator, resp.Source)
	assert.Len(t, resp.Slots, 2)
}

func TestTimetableServiceGeneratePersistFailure(t *testing.T) {
	f := newTimetableFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	f.store.insertErr = errors.New("disk full")

	_, err := f.service().Generate(context.Background(), dto.GenerateTimetableRequest{DepartmentID: "dept-1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "TIMETABLE_PERSIST_FAILED", appErr.Code)
	assert.Empty(t, f.cache.deleted)
}

func TestTimetableServiceValidate(t *testing.T) {
	f := newTimetableFixture(t)

	resp, err := f.service().Validate(context.Background(), dto.ValidateProposalRequest{
		DepartmentID: "dept-1",
		Slots: []dto.TimetableSlotInput{
			{Day: "Monday", TimeSlot: "09:00-10:00", SubjectID: "sub-1", StaffID: "staff-a", ClassroomID: "room-1"},
			{Day: "Monday", TimeSlot: "09:00-10:00", SubjectID: "sub-1", StaffID: "staff-a", ClassroomID: "room-1"},
			{Day: "Saturday", TimeSlot: "09:00-10:00", SubjectID: "sub-1", StaffID: "staff-a", ClassroomID: "room-1"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Accepted, 1)
	assert.Equal(t, 2, resp.Dropped)
}

func TestTimetableServiceGetResolvesLatestVersion(t *testing.T) {
	f := newTimetableFixture(t)
	createdAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	f.store.latest = 2
	f.store.slots = []models.TimetableSlot{
		{ID: "slot-1", DepartmentID: "dept-1", Day: "Monday", TimeSlot: "09:00-10:00", Version: 2, CreatedAt: createdAt},
	}

	timetable, err := f.service().Get(context.Background(), "dept-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, timetable.Version)
	assert.Equal(t, createdAt, timetable.GeneratedAt)
	require.Len(t, timetable.Slots, 1)
}

func TestTimetableServiceGetNoTimetable(t *testing.T) {
	f := newTimetableFixture(t)
	f.store.latest = 0

	_, err := f.service().Get(context.Background(), "dept-1", 0)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestTimetableServiceExportCSV(t *testing.T) {
	f := newTimetableFixture(t)
	f.store.slots = []models.TimetableSlot{
		{ID: "slot-1", DepartmentID: "dept-1", Day: "Monday", TimeSlot: "09:00-10:00", SubjectID: "sub-1", StaffID: "staff-a", ClassroomID: "room-1", Version: 1},
	}

	data, contentType, err := f.service().Export(context.Background(), "dept-1", 1, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(data), "Monday")
	assert.Contains(t, string(data), "09:00-10:00")
}

func TestTimetableServiceExportUnknownFormat(t *testing.T) {
	f := newTimetableFixture(t)
	f.store.slots = []models.TimetableSlot{
		{ID: "slot-1", Version: 1},
	}

	_, _, err := f.service().Export(context.Background(), "dept-1", 1, "xlsx")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}
