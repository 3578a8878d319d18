package models

import "time"

// Weekdays lists scheduling days in grid order. The engine scans them in
// this exact sequence, so the order is part of the allocation contract.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// TimeSlots lists the daily teaching windows in grid order. There is no
// 13:00-14:00 window; the hour between 12:00-13:00 and 14:00-15:00 is the
// lunch break.
var TimeSlots = []string{
	"09:00-10:00",
	"10:00-11:00",
	"11:00-12:00",
	"12:00-13:00",
	"14:00-15:00",
	"15:00-16:00",
	"16:00-17:00",
}

var (
	weekdaySet  = make(map[string]struct{}, len(Weekdays))
	timeSlotSet = make(map[string]struct{}, len(TimeSlots))
)

func init() {
	for _, day := range Weekdays {
		weekdaySet[day] = struct{}{}
	}
	for _, slot := range TimeSlots {
		timeSlotSet[slot] = struct{}{}
	}
}

// IsWeekday reports whether day names one of the five scheduling days.
func IsWeekday(day string) bool {
	_, ok := weekdaySet[day]
	return ok
}

// IsTimeSlot reports whether slot names one of the seven grid windows.
func IsTimeSlot(slot string) bool {
	_, ok := timeSlotSet[slot]
	return ok
}

// TimetableSource records which path produced a timetable version.
type TimetableSource string

const (
	TimetableSourceAllocator TimetableSource = "allocator"
	TimetableSourceProposal  TimetableSource = "proposal"
)

// TimetableSlot is the atomic unit of assignment: one subject taught by one
// staff member in one room at a fixed (day, time slot) cell.
type TimetableSlot struct {
	ID           string    `db:"id" json:"id"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	Day          string    `db:"day" json:"day"`
	TimeSlot     string    `db:"time_slot" json:"time_slot"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	StaffID      string    `db:"staff_id" json:"staff_id"`
	ClassroomID  string    `db:"classroom_id" json:"classroom_id"`
	Version      int       `db:"version" json:"version"`
	Position     int       `db:"position" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Timetable is one immutable generated schedule version for a department.
// Source is only known at generation time; stored versions omit it.
type Timetable struct {
	DepartmentID string          `json:"department_id"`
	Version      int             `json:"version"`
	Source       TimetableSource `json:"source,omitempty"`
	Slots        []TimetableSlot `json:"slots"`
	GeneratedAt  time.Time       `json:"generated_at"`
}

// TimetableVersion summarises one stored version for list views.
type TimetableVersion struct {
	Version   int       `db:"version" json:"version"`
	SlotCount int       `db:"slot_count" json:"slot_count"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// UnderAllocation reports a subject that received fewer weekly sessions
// than its credits require. Under-allocation is not an error; callers
// needing completeness guarantees inspect these entries.
type UnderAllocation struct {
	SubjectID string `json:"subject_id"`
	Expected  int    `json:"expected"`
	Scheduled int    `json:"scheduled"`
}
