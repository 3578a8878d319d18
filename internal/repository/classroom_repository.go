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

// ClassroomRepository handles persistence for classrooms.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository creates a new repository instance.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// List returns classrooms matching the filter.
func (r *ClassroomRepository) List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, error) {
	conditions := []string{"1=1"}
	args := map[string]interface{}{}

	if filter.DepartmentID != "" {
		conditions = append(conditions, "department_id = :department_id")
		args["department_id"] = filter.DepartmentID
	}
	if filter.RoomType != "" {
		conditions = append(conditions, "room_type = :room_type")
		args["room_type"] = filter.RoomType
	}

	query := fmt.Sprintf(`SELECT id, name, capacity, department_id, room_type, created_at
		FROM classrooms WHERE %s ORDER BY name ASC`, strings.Join(conditions, " AND "))
	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("prepare classroom list: %w", err)
	}
	defer stmt.Close()

	var classrooms []models.Classroom
	if err := stmt.SelectContext(ctx, &classrooms, args); err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	return classrooms, nil
}

// ListByDepartment returns all classrooms of a department ordered by name.
func (r *ClassroomRepository) ListByDepartment(ctx context.Context, departmentID string) ([]models.Classroom, error) {
	const query = `SELECT id, name, capacity, department_id, room_type, created_at
		FROM classrooms WHERE department_id = $1 ORDER BY name ASC`
	var classrooms []models.Classroom
	if err := r.db.SelectContext(ctx, &classrooms, query, departmentID); err != nil {
		return nil, fmt.Errorf("list department classrooms: %w", err)
	}
	return classrooms, nil
}

// FindByID loads one classroom.
func (r *ClassroomRepository) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	const query = `SELECT id, name, capacity, department_id, room_type, created_at
		FROM classrooms WHERE id = $1`
	var classroom models.Classroom
	if err := r.db.GetContext(ctx, &classroom, query, id); err != nil {
		return nil, err
	}
	return &classroom, nil
}

// Create inserts a new classroom.
func (r *ClassroomRepository) Create(ctx context.Context, classroom *models.Classroom) error {
	if classroom.ID == "" {
		classroom.ID = uuid.NewString()
	}
	if classroom.CreatedAt.IsZero() {
		classroom.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO classrooms (id, name, capacity, department_id, room_type, created_at)
		VALUES (:id, :name, :capacity, :department_id, :room_type, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, classroom); err != nil {
		return fmt.Errorf("insert classroom: %w", err)
	}
	return nil
}
