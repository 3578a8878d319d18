package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staffRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "email", "staff_role", "department_id", "selected_subjects", "subjects_locked", "created_at",
	})
}

func TestStaffRepositoryListLockedByDepartment(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStaffRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM staff WHERE department_id = $1 AND subjects_locked = TRUE ORDER BY name ASC`,
	)).WithArgs("dept-1").WillReturnRows(staffRows().
		AddRow("staff-a", "Ada", "ada@uni.edu", "professor", "dept-1", "{sub-1}", true, time.Now()))

	staff, err := repo.ListLockedByDepartment(context.Background(), "dept-1")
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, "staff-a", staff[0].ID)
	assert.True(t, staff[0].SubjectsLocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffRepositoryListLockedByDepartmentEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStaffRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`subjects_locked = TRUE`,
	)).WithArgs("dept-1").WillReturnRows(staffRows())

	staff, err := repo.ListLockedByDepartment(context.Background(), "dept-1")
	require.NoError(t, err)
	assert.Empty(t, staff)
	assert.NoError(t, mock.ExpectationsWereMet())
}
