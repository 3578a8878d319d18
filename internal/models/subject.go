package models

import "time"

// SubjectType classifies how a subject is delivered.
type SubjectType string

const (
	SubjectTypeTheory SubjectType = "theory"
	SubjectTypeLab    SubjectType = "lab"
)

// Subject represents an academic subject offered by a department.
type Subject struct {
	ID           string      `db:"id" json:"id"`
	Name         string      `db:"name" json:"name"`
	Code         string      `db:"code" json:"code"`
	Credits      int         `db:"credits" json:"credits"`
	DepartmentID string      `db:"department_id" json:"department_id"`
	SubjectType  SubjectType `db:"subject_type" json:"subject_type"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
}

// WeeklySessions derives how many sessions per week the subject requires
// from its credit count. Zero-credit records still get one session.
func (s Subject) WeeklySessions() int {
	if s.Credits < 1 {
		return 1
	}
	return s.Credits
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	DepartmentID string
	SubjectType  string
	Search       string
	Page         int
	PageSize     int
}
