package service

import (
	"github.com/noah-isme/uni-adp-api/internal/dto"
	"github.com/noah-isme/uni-adp-api/internal/models"
)

// proposalReferences indexes the department's entities for O(1) lookup
// while filtering proposal slots.
type proposalReferences struct {
	subjects map[string]models.Subject
	staff    map[string]models.StaffMember
	rooms    map[string]models.Classroom
}

func buildProposalReferences(subjects []models.Subject, staff []models.StaffMember, classrooms []models.Classroom) proposalReferences {
	refs := proposalReferences{
		subjects: make(map[string]models.Subject, len(subjects)),
		staff:    make(map[string]models.StaffMember, len(staff)),
		rooms:    make(map[string]models.Classroom, len(classrooms)),
	}
	for _, s := range subjects {
		refs.subjects[s.ID] = s
	}
	for _, m := range staff {
		refs.staff[m.ID] = m
	}
	for _, r := range classrooms {
		refs.rooms[r.ID] = r
	}
	return refs
}

// filterProposalSlots validates externally produced timetable slots and
// returns the accepted subset in input order. A slot is dropped when its
// day or time slot is off the grid, any referenced id is unknown, the
// room type does not match the subject type, or it collides with an
// earlier accepted slot (first occurrence wins). Slots are never
// repaired, only kept or dropped, so accepted output fed back through
// the filter passes unchanged.
//
// Room typing is enforced strictly here, with no any-room fallback:
// a proposal is trusted input claiming full placement, so a lab subject
// in a lecture hall is an error in the proposal, not a shortage to work
// around.
func filterProposalSlots(slots []dto.TimetableSlotInput, refs proposalReferences) []dto.TimetableSlotInput {
	occupancy := newSlotOccupancy()
	accepted := make([]dto.TimetableSlotInput, 0, len(slots))

	for _, slot := range slots {
		if !models.IsWeekday(slot.Day) || !models.IsTimeSlot(slot.TimeSlot) {
			continue
		}
		subject, ok := refs.subjects[slot.SubjectID]
		if !ok {
			continue
		}
		if _, ok := refs.staff[slot.StaffID]; !ok {
			continue
		}
		room, ok := refs.rooms[slot.ClassroomID]
		if !ok {
			continue
		}
		if !roomMatchesSubject(room.RoomType, subject.SubjectType) {
			continue
		}
		if !occupancy.StaffFree(slot.StaffID, slot.Day, slot.TimeSlot) {
			continue
		}
		if !occupancy.RoomFree(slot.ClassroomID, slot.Day, slot.TimeSlot) {
			continue
		}
		occupancy.Commit(slot.StaffID, slot.ClassroomID, slot.Day, slot.TimeSlot)
		accepted = append(accepted, slot)
	}
	return accepted
}
