package models

import "time"

// RoomType classifies classrooms for subject-type matching.
type RoomType string

const (
	RoomTypeLecture RoomType = "lecture"
	RoomTypeLab     RoomType = "lab"
	RoomTypeSeminar RoomType = "seminar"
)

// Classroom represents a bookable room owned by a department.
type Classroom struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Capacity     int       `db:"capacity" json:"capacity"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	RoomType     RoomType  `db:"room_type" json:"room_type"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ClassroomFilter captures filtering options for listing classrooms.
type ClassroomFilter struct {
	DepartmentID string
	RoomType     string
	Page         int
	PageSize     int
}
