package dto

// CreateDepartmentRequest registers a department.
type CreateDepartmentRequest struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"code" validate:"required,uppercase"`
}

// CreateSubjectRequest registers a subject within a department.
type CreateSubjectRequest struct {
	Name         string `json:"name" validate:"required"`
	Code         string `json:"code" validate:"required"`
	Credits      int    `json:"credits" validate:"required,min=1,max=10"`
	DepartmentID string `json:"department_id" validate:"required"`
	SubjectType  string `json:"subject_type" validate:"required,oneof=theory lab"`
}

// CreateClassroomRequest registers a classroom.
type CreateClassroomRequest struct {
	Name         string `json:"name" validate:"required"`
	Capacity     int    `json:"capacity" validate:"required,min=1"`
	DepartmentID string `json:"department_id" validate:"required"`
	RoomType     string `json:"room_type" validate:"required,oneof=lecture lab seminar"`
}

// CreateStaffRequest registers a staff member.
type CreateStaffRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	StaffRole    string `json:"staff_role" validate:"required,oneof=assistant_professor professor hod"`
	DepartmentID string `json:"department_id" validate:"required"`
}

// UpdateStaffSubjectsRequest replaces a staff member's subject selection.
type UpdateStaffSubjectsRequest struct {
	SubjectIDs []string `json:"subject_ids" validate:"required,dive,required"`
}

// CreateConstraintRequest defines a workload ceiling for a staff role.
// An empty DepartmentID makes the constraint global.
type CreateConstraintRequest struct {
	DepartmentID string `json:"department_id"`
	StaffRole    string `json:"staff_role" validate:"required,oneof=assistant_professor professor hod"`
	SubjectType  string `json:"subject_type" validate:"required,oneof=theory lab both"`
	MaxSubjects  int    `json:"max_subjects" validate:"required,min=1"`
	MaxHours     int    `json:"max_hours" validate:"required,min=1"`
}
