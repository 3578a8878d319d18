package dto

import (
	"time"

	"github.com/noah-isme/uni-adp-api/internal/models"
)

// GenerateTimetableRequest instructs the engine to build a new timetable
// version for the department.
type GenerateTimetableRequest struct {
	DepartmentID string `json:"department_id" validate:"required"`
	// UseProposals routes generation through the external proposal chain
	// first; the deterministic allocator remains the final fallback.
	UseProposals bool `json:"use_proposals"`
	Async        bool `json:"async"`
}

// TimetableSlotInput is the wire format for one candidate slot supplied by
// an external generator or manual override. Field values must match the
// fixed grid exactly.
type TimetableSlotInput struct {
	Day         string `json:"day"`
	TimeSlot    string `json:"time_slot"`
	SubjectID   string `json:"subject_id"`
	StaffID     string `json:"staff_id"`
	ClassroomID string `json:"classroom_id"`
}

// GenerateTimetableResponse returns the persisted timetable version.
type GenerateTimetableResponse struct {
	DepartmentID   string                   `json:"department_id"`
	Version        int                      `json:"version"`
	Source         models.TimetableSource   `json:"source"`
	Slots          []models.TimetableSlot   `json:"slots"`
	UnderAllocated []models.UnderAllocation `json:"under_allocated,omitempty"`
	GeneratedAt    time.Time                `json:"generated_at"`
}

// ValidateProposalRequest carries an untrusted candidate schedule to filter.
type ValidateProposalRequest struct {
	DepartmentID string               `json:"department_id" validate:"required"`
	Slots        []TimetableSlotInput `json:"slots" validate:"required,min=1,dive"`
}

// ValidateProposalResponse returns the conflict-free subsequence.
type ValidateProposalResponse struct {
	Accepted []TimetableSlotInput `json:"accepted"`
	Dropped  int                  `json:"dropped"`
}
