package models

import (
	"time"

	"github.com/lib/pq"
)

// StaffRole enumerates teaching roles recognised by workload constraints.
type StaffRole string

const (
	StaffRoleAssistantProfessor StaffRole = "assistant_professor"
	StaffRoleProfessor          StaffRole = "professor"
	StaffRoleHOD                StaffRole = "hod"
)

// StaffMember represents a teaching staff record. SelectedSubjects is the
// set of subject ids the member is qualified and willing to teach; once
// SubjectsLocked is set the selection is immutable.
type StaffMember struct {
	ID               string         `db:"id" json:"id"`
	Name             string         `db:"name" json:"name"`
	Email            string         `db:"email" json:"email"`
	StaffRole        StaffRole      `db:"staff_role" json:"staff_role"`
	DepartmentID     string         `db:"department_id" json:"department_id"`
	SelectedSubjects pq.StringArray `db:"selected_subjects" json:"selected_subjects"`
	SubjectsLocked   bool           `db:"subjects_locked" json:"subjects_locked"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

// Teaches reports whether the staff member selected the given subject.
func (m StaffMember) Teaches(subjectID string) bool {
	for _, id := range m.SelectedSubjects {
		if id == subjectID {
			return true
		}
	}
	return false
}

// StaffFilter captures filtering options for listing staff.
type StaffFilter struct {
	DepartmentID string
	LockedOnly   bool
	Page         int
	PageSize     int
}
