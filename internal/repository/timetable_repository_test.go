package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-adp-api/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestTimetableRepositoryNextVersion(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTimetableRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT COALESCE(MAX(version), 0) + 1 FROM timetable_slots WHERE department_id = $1`,
	)).WithArgs("dept-1").WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))

	version, err := repo.NextVersion(context.Background(), nil, "dept-1")
	require.NoError(t, err)
	assert.Equal(t, 3, version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryInsertSlotsAssignsDefaults(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTimetableRepository(db)

	insert := regexp.QuoteMeta(`INSERT INTO timetable_slots`)
	mock.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(0, 1))

	slots := []models.TimetableSlot{
		{DepartmentID: "dept-1", Day: "Monday", TimeSlot: "09:00-10:00", SubjectID: "s1", StaffID: "t1", ClassroomID: "r1", Version: 1},
		{DepartmentID: "dept-1", Day: "Monday", TimeSlot: "10:00-11:00", SubjectID: "s1", StaffID: "t1", ClassroomID: "r1", Version: 1},
	}
	err := repo.InsertSlots(context.Background(), nil, slots)
	require.NoError(t, err)

	assert.NotEmpty(t, slots[0].ID)
	assert.False(t, slots[0].CreatedAt.IsZero())
	assert.Equal(t, 0, slots[0].Position)
	assert.Equal(t, 1, slots[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryInsertSlotsInsideTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT COALESCE(MAX(version), 0) + 1 FROM timetable_slots WHERE department_id = $1`,
	)).WithArgs("dept-1").WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO timetable_slots`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	version, err := repo.NextVersion(ctx, tx, "dept-1")
	require.NoError(t, err)

	slots := []models.TimetableSlot{
		{DepartmentID: "dept-1", Day: "Tuesday", TimeSlot: "11:00-12:00", SubjectID: "s1", StaffID: "t1", ClassroomID: "r1", Version: version},
	}
	require.NoError(t, repo.InsertSlots(ctx, tx, slots))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryListVersions(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTimetableRepository(db)

	createdAt := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"version", "slot_count", "created_at"}).
		AddRow(2, 14, createdAt).
		AddRow(1, 12, createdAt.Add(-24*time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT version, COUNT(*) AS slot_count, MIN(created_at) AS created_at`,
	)).WithArgs("dept-1").WillReturnRows(rows)

	versions, err := repo.ListVersions(context.Background(), "dept-1")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 2, versions[0].Version)
	assert.Equal(t, 14, versions[0].SlotCount)
	assert.Equal(t, 1, versions[1].Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryListSlotsOrdered(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTimetableRepository(db)

	createdAt := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "department_id", "day", "time_slot", "subject_id", "staff_id", "classroom_id", "version", "position", "created_at",
	}).
		AddRow("slot-1", "dept-1", "Monday", "09:00-10:00", "s1", "t1", "r1", 1, 0, createdAt).
		AddRow("slot-2", "dept-1", "Monday", "10:00-11:00", "s1", "t2", "r2", 1, 1, createdAt)
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY position ASC`)).
		WithArgs("dept-1", 1).WillReturnRows(rows)

	slots, err := repo.ListSlots(context.Background(), "dept-1", 1)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "slot-1", slots[0].ID)
	assert.Equal(t, "09:00-10:00", slots[0].TimeSlot)
	assert.NoError(t, mock.ExpectationsWereMet())
}
