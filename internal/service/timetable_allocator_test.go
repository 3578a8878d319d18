package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-adp-api/internal/models"
)

func defaultLimits(staff []models.StaffMember) map[string]models.StaffLimits {
	limits := make(map[string]models.StaffLimits, len(staff))
	for _, m := range staff {
		limits[m.ID] = models.StaffLimits{MaxSubjects: fallbackMaxSubjects, MaxHours: fallbackMaxHours}
	}
	return limits
}

func TestAllocatorSpreadsSessionsAcrossStaff(t *testing.T) {
	input := allocatorInput{
		DepartmentID: "dept-1",
		Subjects: []models.Subject{
			{ID: "sub-1", Credits: 3, SubjectType: models.SubjectTypeTheory},
		},
		Staff: []models.StaffMember{
			{ID: "staff-a", SelectedSubjects: []string{"sub-1"}},
			{ID: "staff-b", SelectedSubjects: []string{"sub-1"}},
		},
		Classrooms: []models.Classroom{
			{ID: "room-1", RoomType: models.RoomTypeLecture},
			{ID: "room-2", RoomType: models.RoomTypeLecture},
		},
	}
	input.Limits = defaultLimits(input.Staff)

	result, err := newTimetableAllocator().Allocate(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, result.Slots, 3)
	assert.Empty(t, result.UnderAllocated)

	// First session: both staff idle, the tie resolves to input order.
	assert.Equal(t, "Monday", result.Slots[0].Day)
	assert.Equal(t, "09:00-10:00", result.Slots[0].TimeSlot)
	assert.Equal(t, "staff-a", result.Slots[0].StaffID)
	assert.Equal(t, "room-1", result.Slots[0].ClassroomID)

	// Second session: staff-b has fewer hours, same cell is still free
	// for them and the second room.
	assert.Equal(t, "Monday", result.Slots[1].Day)
	assert.Equal(t, "09:00-10:00", result.Slots[1].TimeSlot)
	assert.Equal(t, "staff-b", result.Slots[1].StaffID)
	assert.Equal(t, "room-2", result.Slots[1].ClassroomID)

	// Third session: tied again, staff-a wins but is booked at the first
	// cell, so the scan moves to the next slot.
	assert.Equal(t, "Monday", result.Slots[2].Day)
	assert.Equal(t, "10:00-11:00", result.Slots[2].TimeSlot)
	assert.Equal(t, "staff-a", result.Slots[2].StaffID)
	assert.Equal(t, "room-1", result.Slots[2].ClassroomID)
}

func TestAllocatorIsDeterministic(t *testing.T) {
	input := allocatorInput{
		DepartmentID: "dept-1",
		Subjects: []models.Subject{
			{ID: "sub-1", Credits: 4, SubjectType: models.SubjectTypeTheory},
			{ID: "sub-2", Credits: 2, SubjectType: models.SubjectTypeLab},
			{ID: "sub-3", Credits: 3, SubjectType: models.SubjectTypeTheory},
		},
		Staff: []models.StaffMember{
			{ID: "staff-a", SelectedSubjects: []string{"sub-1", "sub-3"}},
			{ID: "staff-b", SelectedSubjects: []string{"sub-1", "sub-2"}},
			{ID: "staff-c", SelectedSubjects: []string{"sub-2", "sub-3"}},
		},
		Classrooms: []models.Classroom{
			{ID: "room-1", RoomType: models.RoomTypeLecture},
			{ID: "room-2", RoomType: models.RoomTypeLab},
		},
	}
	input.Limits = defaultLimits(input.Staff)

	allocator := newTimetableAllocator()
	first, err := allocator.Allocate(context.Background(), input)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := allocator.Allocate(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, first.Slots, again.Slots)
		assert.Equal(t, first.UnderAllocated, again.UnderAllocated)
	}
}

func TestAllocatorNeverDoubleBooks(t *testing.T) {
	input := allocatorInput{
		DepartmentID: "dept-1",
		Subjects: []models.Subject{
			{ID: "sub-1", Credits: 5, SubjectType: models.SubjectTypeTheory},
			{ID: "sub-2", Credits: 5, SubjectType: models.SubjectTypeTheory},
			{ID: "sub-3", Credits: 5, SubjectType: models.SubjectTypeLab},
		},
		Staff: []models.StaffMember{
			{ID: "staff-a", SelectedSubjects: []string{"sub-1", "sub-2", "sub-3"}},
			{ID: "staff-b", SelectedSubjects: []string{"sub-1", "sub-2", "sub-3"}},
		},
		Classrooms: []models.Classroom{
			{ID: "room-1", RoomType: models.RoomTypeLecture},
			{ID: "room-2", RoomType: models.RoomTypeLab},
		},
	}
	input.Limits = defaultLimits(input.Staff)

	result, err := newTimetableAllocator().Allocate(context.Background(), input)
	require.NoError(t, err)

	staffSeen := make(map[occupancyKey]bool)
	roomSeen := make(map[occupancyKey]bool)
	for _, slot := range result.Slots {
		staffKey := occupancyKey{EntityID: slot.StaffID, Day: slot.Day, TimeSlot: slot.TimeSlot}
		roomKey := occupancyKey{EntityID: slot.ClassroomID, Day: slot.Day, TimeSlot: slot.TimeSlot}
		assert.False(t, staffSeen[staffKey], "staff double booked at %v", staffKey)
		assert.False(t, roomSeen[roomKey], "room double booked at %v", roomKey)
		staffSeen[staffKey] = true
		roomSeen[roomKey] = true
	}
}

func TestAllocatorPrefersMatchingRoomButRelaxes(t *testing.T) {
	input := allocatorInput{
		DepartmentID: "dept-1",
		Subjects: []models.Subject{
			{ID: "lab-1", Credits: 1, SubjectType: models.SubjectTypeLab},
		},
		Staff: []models.StaffMember{
			{ID: "staff-a", SelectedSubjects: []string{"lab-1"}},
		},
		Classrooms: []models.Classroom{
			{ID: "hall-1", RoomType: models.RoomTypeLecture},
			{ID: "lab-room", RoomType: models.RoomTypeLab},
		},
	}
	input.Limits = defaultLimits(input.Staff)

	result, err := newTimetableAllocator().Allocate(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, result.Slots, 1)
	// The lab room wins even though the lecture hall comes first.
	assert.Equal(t, "lab-room", result.Slots[0].ClassroomID)

	// Without any lab room the session still lands somewhere.
	input.Classrooms = []models.Classroom{{ID: "hall-1", RoomType: models.RoomTypeLecture}}
	result, err = newTimetableAllocator().Allocate(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, result.Slots, 1)
	assert.Equal(t, "hall-1", result.Slots[0].ClassroomID)
}

func TestAllocatorReportsUnderAllocation(t *testing.T) {
	// One staff member capped at 2 hours cannot cover 4 sessions.
	input := allocatorInput{
		DepartmentID: "dept-1",
		Subjects: []models.Subject{
			{ID: "sub-1", Credits: 4, SubjectType: models.SubjectTypeTheory},
		},
		Staff: []models.StaffMember{
			{ID: "staff-a", SelectedSubjects: []string{"sub-1"}},
		},
		Classrooms: []models.Classroom{
			{ID: "room-1", RoomType: models.RoomTypeLecture},
		},
		Limits: map[string]models.StaffLimits{
			"staff-a": {MaxSubjects: 5, MaxHours: 2},
		},
	}

	result, err := newTimetableAllocator().Allocate(context.Background(), input)
	require.NoError(t, err)
	assert.Len(t, result.Slots, 2)
	require.Len(t, result.UnderAllocated, 1)
	assert.Equal(t, "sub-1", result.UnderAllocated[0].SubjectID)
	assert.Equal(t, 4, result.UnderAllocated[0].Expected)
	assert.Equal(t, 2, result.UnderAllocated[0].Scheduled)
}

func TestAllocatorEnforcesSubjectCeiling(t *testing.T) {
	input := allocatorInput{
		DepartmentID: "dept-1",
		Subjects: []models.Subject{
			{ID: "sub-1", Credits: 1, SubjectType: models.SubjectTypeTheory},
			{ID: "sub-2", Credits: 1, SubjectType: models.SubjectTypeTheory},
		},
		Staff: []models.StaffMember{
			{ID: "staff-a", SelectedSubjects: []string{"sub-1", "sub-2"}},
		},
		Classrooms: []models.Classroom{
			{ID: "room-1", RoomType: models.RoomTypeLecture},
		},
		Limits: map[string]models.StaffLimits{
			"staff-a": {MaxSubjects: 1, MaxHours: 20},
		},
	}

	result, err := newTimetableAllocator().Allocate(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, result.Slots, 1)
	assert.Equal(t, "sub-1", result.Slots[0].SubjectID)
	require.Len(t, result.UnderAllocated, 1)
	assert.Equal(t, "sub-2", result.UnderAllocated[0].SubjectID)
	assert.Equal(t, 0, result.UnderAllocated[0].Scheduled)
}

func TestAllocatorSkipsUnqualifiedSubjects(t *testing.T) {
	input := allocatorInput{
		DepartmentID: "dept-1",
		Subjects: []models.Subject{
			{ID: "sub-1", Credits: 2, SubjectType: models.SubjectTypeTheory},
		},
		Staff: []models.StaffMember{
			{ID: "staff-a", SelectedSubjects: []string{"other"}},
		},
		Classrooms: []models.Classroom{
			{ID: "room-1", RoomType: models.RoomTypeLecture},
		},
	}
	input.Limits = defaultLimits(input.Staff)

	result, err := newTimetableAllocator().Allocate(context.Background(), input)
	require.NoError(t, err)
	assert.Empty(t, result.Slots)
	require.Len(t, result.UnderAllocated, 1)
	assert.Equal(t, 0, result.UnderAllocated[0].Scheduled)
}

func TestAllocatorZeroCreditSubjectGetsOneSession(t *testing.T) {
	input := allocatorInput{
		DepartmentID: "dept-1",
		Subjects: []models.Subject{
			{ID: "sub-1", Credits: 0, SubjectType: models.SubjectTypeTheory},
		},
		Staff: []models.StaffMember{
			{ID: "staff-a", SelectedSubjects: []string{"sub-1"}},
		},
		Classrooms: []models.Classroom{
			{ID: "room-1", RoomType: models.RoomTypeLecture},
		},
	}
	input.Limits = defaultLimits(input.Staff)

	result, err := newTimetableAllocator().Allocate(context.Background(), input)
	require.NoError(t, err)
	assert.Len(t, result.Slots, 1)
}

func TestAllocatorStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := allocatorInput{
		DepartmentID: "dept-1",
		Subjects: []models.Subject{
			{ID: "sub-1", Credits: 1, SubjectType: models.SubjectTypeTheory},
		},
		Staff: []models.StaffMember{
			{ID: "staff-a", SelectedSubjects: []string{"sub-1"}},
		},
		Classrooms: []models.Classroom{
			{ID: "room-1", RoomType: models.RoomTypeLecture},
		},
	}
	input.Limits = defaultLimits(input.Staff)

	_, err := newTimetableAllocator().Allocate(ctx, input)
	assert.ErrorIs(t, err, context.Canceled)
}
