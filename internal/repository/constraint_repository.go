package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-adp-api/internal/models"
)

// ConstraintRepository handles persistence for workload constraints.
type ConstraintRepository struct {
	db *sqlx.DB
}

// NewConstraintRepository creates a new repository instance.
func NewConstraintRepository(db *sqlx.DB) *ConstraintRepository {
	return &ConstraintRepository{db: db}
}

// ListForDepartment returns constraints scoped to the department plus
// global constraints (NULL department), newest first.
func (r *ConstraintRepository) ListForDepartment(ctx context.Context, departmentID string) ([]models.Constraint, error) {
	const query = `SELECT id, department_id, staff_role, subject_type, max_subjects, max_hours, created_by, created_at
		FROM constraints WHERE department_id = $1 OR department_id IS NULL ORDER BY created_at DESC`
	var constraints []models.Constraint
	if err := r.db.SelectContext(ctx, &constraints, query, departmentID); err != nil {
		return nil, fmt.Errorf("list department constraints: %w", err)
	}
	return constraints, nil
}

// List returns every constraint, newest first.
func (r *ConstraintRepository) List(ctx context.Context) ([]models.Constraint, error) {
	const query = `SELECT id, department_id, staff_role, subject_type, max_subjects, max_hours, created_by, created_at
		FROM constraints ORDER BY created_at DESC`
	var constraints []models.Constraint
	if err := r.db.SelectContext(ctx, &constraints, query); err != nil {
		return nil, fmt.Errorf("list constraints: %w", err)
	}
	return constraints, nil
}

// Create inserts a new constraint.
func (r *ConstraintRepository) Create(ctx context.Context, constraint *models.Constraint) error {
	if constraint.ID == "" {
		constraint.ID = uuid.NewString()
	}
	if constraint.CreatedAt.IsZero() {
		constraint.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO constraints (id, department_id, staff_role, subject_type, max_subjects, max_hours, created_by, created_at)
		VALUES (:id, :department_id, :staff_role, :subject_type, :max_subjects, :max_hours, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, constraint); err != nil {
		return fmt.Errorf("insert constraint: %w", err)
	}
	return nil
}

// Delete removes a constraint.
func (r *ConstraintRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM constraints WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete constraint: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete constraint rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("constraint %s not found", id)
	}
	return nil
}
