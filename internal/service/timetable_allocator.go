package service

import (
	"context"

	"github.com/noah-isme/uni-adp-api/internal/models"
)

// allocatorInput carries everything the greedy pass needs. Slices keep
// their caller-provided order; the allocator iterates them verbatim, so
// identical input always yields an identical timetable.
type allocatorInput struct {
	DepartmentID string
	Subjects     []models.Subject
	Staff        []models.StaffMember
	Classrooms   []models.Classroom
	Limits       map[string]models.StaffLimits
}

// allocatorResult is the outcome of one greedy pass.
type allocatorResult struct {
	Slots          []models.TimetableSlot
	UnderAllocated []models.UnderAllocation
}

// staffLoad tracks how much work the allocator has already assigned to
// one staff member.
type staffLoad struct {
	hours    int
	subjects map[string]struct{}
}

// timetableAllocator places weekly sessions on the day/slot grid with a
// deterministic greedy strategy: subjects in input order, for each
// session the first free day/slot cell, the least-loaded qualified
// staff member, and a free room preferring an exact type match.
type timetableAllocator struct{}

func newTimetableAllocator() *timetableAllocator {
	return &timetableAllocator{}
}

// Allocate runs the greedy pass. Sessions that cannot be placed are
// dropped and reported in UnderAllocated rather than failing the run.
// The context is checked between subjects so a cancelled generation
// stops promptly.
func (a *timetableAllocator) Allocate(ctx context.Context, input allocatorInput) (allocatorResult, error) {
	occupancy := newSlotOccupancy()
	loads := make(map[string]*staffLoad, len(input.Staff))
	for _, member := range input.Staff {
		loads[member.ID] = &staffLoad{subjects: make(map[string]struct{})}
	}

	var result allocatorResult
	for _, subject := range input.Subjects {
		if err := ctx.Err(); err != nil {
			return allocatorResult{}, err
		}

		wanted := subject.WeeklySessions()
		scheduled := 0

	sessions:
		for session := 0; session < wanted; session++ {
			for _, day := range models.Weekdays {
				for _, timeSlot := range models.TimeSlots {
					staffID, ok := a.pickStaff(input, loads, occupancy, subject, day, timeSlot)
					if !ok {
						continue
					}
					roomID, ok := a.pickRoom(input.Classrooms, occupancy, subject, day, timeSlot)
					if !ok {
						continue
					}

					occupancy.Commit(staffID, roomID, day, timeSlot)
					load := loads[staffID]
					load.hours++
					load.subjects[subject.ID] = struct{}{}

					result.Slots = append(result.Slots, models.TimetableSlot{
						DepartmentID: input.DepartmentID,
						Day:          day,
						TimeSlot:     timeSlot,
						SubjectID:    subject.ID,
						StaffID:      staffID,
						ClassroomID:  roomID,
					})
					scheduled++
					continue sessions
				}
			}
			// Grid exhausted for this subject, remaining sessions
			// cannot be placed either.
			break
		}

		if scheduled < wanted {
			result.UnderAllocated = append(result.UnderAllocated, models.UnderAllocation{
				SubjectID: subject.ID,
				Expected:  wanted,
				Scheduled: scheduled,
			})
		}
	}
	return result, nil
}

// pickStaff selects the qualified staff member with the lowest assigned
// hours that is free at day/slot and still inside its workload ceilings.
// Ties resolve to the earliest member in input order.
func (a *timetableAllocator) pickStaff(input allocatorInput, loads map[string]*staffLoad, occupancy *slotOccupancy, subject models.Subject, day, timeSlot string) (string, bool) {
	best := ""
	bestHours := 0
	for _, member := range input.Staff {
		if !member.Teaches(subject.ID) {
			continue
		}
		load := loads[member.ID]
		limits := input.Limits[member.ID]
		if load.hours >= limits.MaxHours {
			continue
		}
		if _, teaching := load.subjects[subject.ID]; !teaching && len(load.subjects) >= limits.MaxSubjects {
			continue
		}
		if best == "" || load.hours < bestHours {
			best = member.ID
			bestHours = load.hours
		}
	}
	if best == "" {
		return "", false
	}
	if !occupancy.StaffFree(best, day, timeSlot) {
		// The chosen member is booked here. Other members are not
		// considered, the next grid cell is tried instead.
		return "", false
	}
	return best, true
}

// pickRoom selects a free classroom, preferring an exact type match
// (lab subjects in lab rooms, theory subjects outside them). When no
// matching room is free the first free room of any type is used so a
// session is not dropped over room typing alone.
func (a *timetableAllocator) pickRoom(classrooms []models.Classroom, occupancy *slotOccupancy, subject models.Subject, day, timeSlot string) (string, bool) {
	fallback := ""
	for _, room := range classrooms {
		if !occupancy.RoomFree(room.ID, day, timeSlot) {
			continue
		}
		if roomMatchesSubject(room.RoomType, subject.SubjectType) {
			return room.ID, true
		}
		if fallback == "" {
			fallback = room.ID
		}
	}
	if fallback != "" {
		return fallback, true
	}
	return "", false
}

// roomMatchesSubject reports whether a room type is the preferred fit
// for a subject type: labs for lab subjects, anything else for theory.
func roomMatchesSubject(roomType models.RoomType, subjectType models.SubjectType) bool {
	if subjectType == models.SubjectTypeLab {
		return roomType == models.RoomTypeLab
	}
	return roomType != models.RoomTypeLab
}
