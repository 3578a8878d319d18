package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-adp-api/internal/models"
)

// TimetableRepository handles persistence for versioned timetable slots.
// Write operations accept an optional sqlx.ExtContext so the service layer
// can run version allocation and slot insertion inside one transaction.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository creates a new repository instance.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

func (r *TimetableRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// NextVersion reserves the next version number for a department's timetable.
// Callers must hold a transaction when the returned version is about to be
// written, otherwise concurrent generations can collide.
func (r *TimetableRepository) NextVersion(ctx context.Context, exec sqlx.ExtContext, departmentID string) (int, error) {
	const query = `SELECT COALESCE(MAX(version), 0) + 1 FROM timetable_slots WHERE department_id = $1`
	var version int
	if err := sqlx.GetContext(ctx, r.exec(exec), &version, query, departmentID); err != nil {
		return 0, fmt.Errorf("next timetable version: %w", err)
	}
	return version, nil
}

// InsertSlots writes a batch of timetable slots. IDs and timestamps are
// assigned when missing, positions follow the slice order.
func (r *TimetableRepository) InsertSlots(ctx context.Context, exec sqlx.ExtContext, slots []models.TimetableSlot) error {
	const query = `INSERT INTO timetable_slots
		(id, department_id, day, time_slot, subject_id, staff_id, classroom_id, version, position, created_at)
		VALUES (:id, :department_id, :day, :time_slot, :subject_id, :staff_id, :classroom_id, :version, :position, :created_at)`

	e := r.exec(exec)
	now := time.Now().UTC()
	for i := range slots {
		if slots[i].ID == "" {
			slots[i].ID = uuid.NewString()
		}
		if slots[i].CreatedAt.IsZero() {
			slots[i].CreatedAt = now
		}
		slots[i].Position = i
		if _, err := sqlx.NamedExecContext(ctx, e, query, slots[i]); err != nil {
			return fmt.Errorf("insert timetable slot %d: %w", i, err)
		}
	}
	return nil
}

// LatestVersion returns the highest stored version for a department,
// zero when no timetable exists yet.
func (r *TimetableRepository) LatestVersion(ctx context.Context, departmentID string) (int, error) {
	const query = `SELECT COALESCE(MAX(version), 0) FROM timetable_slots WHERE department_id = $1`
	var version int
	if err := r.db.GetContext(ctx, &version, query, departmentID); err != nil {
		return 0, fmt.Errorf("latest timetable version: %w", err)
	}
	return version, nil
}

// ListVersions returns version metadata for a department, newest first.
func (r *TimetableRepository) ListVersions(ctx context.Context, departmentID string) ([]models.TimetableVersion, error) {
	const query = `SELECT version, COUNT(*) AS slot_count, MIN(created_at) AS created_at
		FROM timetable_slots WHERE department_id = $1 GROUP BY version ORDER BY version DESC`
	var versions []models.TimetableVersion
	if err := r.db.SelectContext(ctx, &versions, query, departmentID); err != nil {
		return nil, fmt.Errorf("list timetable versions: %w", err)
	}
	return versions, nil
}

// ListSlots returns the slots of one timetable version in allocation order.
func (r *TimetableRepository) ListSlots(ctx context.Context, departmentID string, version int) ([]models.TimetableSlot, error) {
	const query = `SELECT id, department_id, day, time_slot, subject_id, staff_id, classroom_id, version, position, created_at
		FROM timetable_slots WHERE department_id = $1 AND version = $2 ORDER BY position ASC`
	var slots []models.TimetableSlot
	if err := r.db.SelectContext(ctx, &slots, query, departmentID, version); err != nil {
		return nil, fmt.Errorf("list timetable slots: %w", err)
	}
	return slots, nil
}

// BeginTx starts a database transaction for versioned writes.
func (r *TimetableRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin timetable tx: %w", err)
	}
	return tx, nil
}
