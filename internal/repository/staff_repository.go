package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/uni-adp-api/internal/models"
)

// StaffRepository handles persistence for teaching staff.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository creates a new repository instance.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// List returns staff members matching the filter with pagination.
func (r *StaffRepository) List(ctx context.Context, filter models.StaffFilter) ([]models.StaffMember, int, error) {
	conditions := []string{"1=1"}
	args := map[string]interface{}{}

	if filter.DepartmentID != "" {
		conditions = append(conditions, "department_id = :department_id")
		args["department_id"] = filter.DepartmentID
	}
	if filter.LockedOnly {
		conditions = append(conditions, "subjects_locked = TRUE")
	}

	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM staff WHERE %s", where)
	countStmt, err := r.db.PrepareNamedContext(ctx, countQuery)
	if err != nil {
		return nil, 0, fmt.Errorf("prepare staff count: %w", err)
	}
	defer countStmt.Close()

	var total int
	if err := countStmt.GetContext(ctx, &total, args); err != nil {
		return nil, 0, fmt.Errorf("count staff: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	args["limit"] = pageSize
	args["offset"] = (page - 1) * pageSize

	listQuery := fmt.Sprintf(`SELECT id, name, email, staff_role, department_id, selected_subjects, subjects_locked, created_at
		FROM staff WHERE %s ORDER BY name ASC LIMIT :limit OFFSET :offset`, where)
	listStmt, err := r.db.PrepareNamedContext(ctx, listQuery)
	if err != nil {
		return nil, 0, fmt.Errorf("prepare staff list: %w", err)
	}
	defer listStmt.Close()

	var staff []models.StaffMember
	if err := listStmt.SelectContext(ctx, &staff, args); err != nil {
		return nil, 0, fmt.Errorf("list staff: %w", err)
	}
	return staff, total, nil
}

// ListLockedByDepartment returns the department staff whose subject
// selections are locked. Timetable generation reads staff through this
// method only, so an unlocked selection can never reach a stored version.
func (r *StaffRepository) ListLockedByDepartment(ctx context.Context, departmentID string) ([]models.StaffMember, error) {
	const query = `SELECT id, name, email, staff_role, department_id, selected_subjects, subjects_locked, created_at
		FROM staff WHERE department_id = $1 AND subjects_locked = TRUE ORDER BY name ASC`
	var staff []models.StaffMember
	if err := r.db.SelectContext(ctx, &staff, query, departmentID); err != nil {
		return nil, fmt.Errorf("list locked department staff: %w", err)
	}
	return staff, nil
}

// FindByID loads one staff member.
func (r *StaffRepository) FindByID(ctx context.Context, id string) (*models.StaffMember, error) {
	const query = `SELECT id, name, email, staff_role, department_id, selected_subjects, subjects_locked, created_at
		FROM staff WHERE id = $1`
	var member models.StaffMember
	if err := r.db.GetContext(ctx, &member, query, id); err != nil {
		return nil, err
	}
	return &member, nil
}

// Create inserts a new staff member.
func (r *StaffRepository) Create(ctx context.Context, member *models.StaffMember) error {
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	if member.CreatedAt.IsZero() {
		member.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO staff (id, name, email, staff_role, department_id, selected_subjects, subjects_locked, created_at)
		VALUES (:id, :name, :email, :staff_role, :department_id, :selected_subjects, :subjects_locked, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("insert staff member: %w", err)
	}
	return nil
}

// UpdateSelectedSubjects replaces a staff member's subject selection.
func (r *StaffRepository) UpdateSelectedSubjects(ctx context.Context, id string, subjectIDs []string) error {
	const query = `UPDATE staff SET selected_subjects = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, pq.StringArray(subjectIDs), id)
	if err != nil {
		return fmt.Errorf("update selected subjects: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update selected subjects rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("staff member %s not found", id)
	}
	return nil
}

// LockSelection marks a staff member's subject selection as final.
func (r *StaffRepository) LockSelection(ctx context.Context, id string) error {
	const query = `UPDATE staff SET subjects_locked = TRUE WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("lock subject selection: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("lock subject selection rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("staff member %s not found", id)
	}
	return nil
}
