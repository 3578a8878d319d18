package models

import "time"

// ConstraintSubjectType scopes a constraint to a subject delivery type.
// "both" matches theory and lab subjects alike.
type ConstraintSubjectType string

const (
	ConstraintSubjectTheory ConstraintSubjectType = "theory"
	ConstraintSubjectLab    ConstraintSubjectType = "lab"
	ConstraintSubjectBoth   ConstraintSubjectType = "both"
)

// Constraint caps the weekly workload for a (role, subject type) pair.
// A nil DepartmentID marks a global constraint matching every department.
type Constraint struct {
	ID           string                `db:"id" json:"id"`
	DepartmentID *string               `db:"department_id" json:"department_id,omitempty"`
	Role         StaffRole             `db:"staff_role" json:"role"`
	SubjectType  ConstraintSubjectType `db:"subject_type" json:"subject_type"`
	MaxSubjects  int                   `db:"max_subjects" json:"max_subjects"`
	MaxHours     int                   `db:"max_hours" json:"max_hours"`
	CreatedBy    string                `db:"created_by" json:"created_by"`
	CreatedAt    time.Time             `db:"created_at" json:"created_at"`
}

// AppliesTo reports whether the constraint matches the given role and
// department. Global constraints (nil department) match every department.
func (c Constraint) AppliesTo(role StaffRole, departmentID string) bool {
	if c.Role != role {
		return false
	}
	return c.DepartmentID == nil || *c.DepartmentID == departmentID
}

// StaffLimits holds the resolved workload ceilings for one staff member.
type StaffLimits struct {
	MaxSubjects int `json:"max_subjects"`
	MaxHours    int `json:"max_hours"`
}
