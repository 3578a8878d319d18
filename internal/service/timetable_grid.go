package service

// occupancyKey identifies one booking of an entity (staff member or
// classroom) at a specific day and time slot.
type occupancyKey struct {
	EntityID string
	Day      string
	TimeSlot string
}

// slotOccupancy tracks which staff and rooms are already booked across
// the weekly grid. Staff and room bookings are kept in separate maps so
// a staff id colliding with a room id can never mask a conflict.
type slotOccupancy struct {
	staff map[occupancyKey]struct{}
	rooms map[occupancyKey]struct{}
}

func newSlotOccupancy() *slotOccupancy {
	return &slotOccupancy{
		staff: make(map[occupancyKey]struct{}),
		rooms: make(map[occupancyKey]struct{}),
	}
}

// StaffFree reports whether the staff member is unbooked at day/slot.
func (o *slotOccupancy) StaffFree(staffID, day, timeSlot string) bool {
	_, busy := o.staff[occupancyKey{EntityID: staffID, Day: day, TimeSlot: timeSlot}]
	return !busy
}

// RoomFree reports whether the classroom is unbooked at day/slot.
func (o *slotOccupancy) RoomFree(roomID, day, timeSlot string) bool {
	_, busy := o.rooms[occupancyKey{EntityID: roomID, Day: day, TimeSlot: timeSlot}]
	return !busy
}

// Commit records a placed session, booking both the staff member and
// the classroom for that day/slot.
func (o *slotOccupancy) Commit(staffID, roomID, day, timeSlot string) {
	o.staff[occupancyKey{EntityID: staffID, Day: day, TimeSlot: timeSlot}] = struct{}{}
	o.rooms[occupancyKey{EntityID: roomID, Day: day, TimeSlot: timeSlot}] = struct{}{}
}
