package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-adp-api/internal/models"
)

// SubjectRepository handles persistence for subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns subjects matching the filter with pagination.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	conditions := []string{"1=1"}
	args := map[string]interface{}{}

	if filter.DepartmentID != "" {
		conditions = append(conditions, "department_id = :department_id")
		args["department_id"] = filter.DepartmentID
	}
	if filter.SubjectType != "" {
		conditions = append(conditions, "subject_type = :subject_type")
		args["subject_type"] = filter.SubjectType
	}

	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM subjects WHERE %s", where)
	countStmt, err := r.db.PrepareNamedContext(ctx, countQuery)
	if err != nil {
		return nil, 0, fmt.Errorf("prepare subject count: %w", err)
	}
	defer countStmt.Close()

	var total int
	if err := countStmt.GetContext(ctx, &total, args); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
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

	listQuery := fmt.Sprintf(`SELECT id, name, code, credits, department_id, subject_type, created_at
		FROM subjects WHERE %s ORDER BY code ASC LIMIT :limit OFFSET :offset`, where)
	listStmt, err := r.db.PrepareNamedContext(ctx, listQuery)
	if err != nil {
		return nil, 0, fmt.Errorf("prepare subject list: %w", err)
	}
	defer listStmt.Close()

	var subjects []models.Subject
	if err := listStmt.SelectContext(ctx, &subjects, args); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, total, nil
}

// ListByDepartment returns every subject of a department ordered by code.
// The timetable engine consumes the full set, so no pagination here.
func (r *SubjectRepository) ListByDepartment(ctx context.Context, departmentID string) ([]models.Subject, error) {
	const query = `SELECT id, name, code, credits, department_id, subject_type, created_at
		FROM subjects WHERE department_id = $1 ORDER BY code ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, departmentID); err != nil {
		return nil, fmt.Errorf("list department subjects: %w", err)
	}
	return subjects, nil
}

// FindByID loads one subject.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	const query = `SELECT id, name, code, credits, department_id, subject_type, created_at
		FROM subjects WHERE id = $1`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// Create inserts a new subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO subjects (id, name, code, credits, department_id, subject_type, created_at)
		VALUES (:id, :name, :code, :credits, :department_id, :subject_type, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("insert subject: %w", err)
	}
	return nil
}
