package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/noah-isme/uni-adp-api/internal/dto"
	"github.com/noah-isme/uni-adp-api/internal/models"
)

// ProposalInput is the department snapshot handed to external generators.
type ProposalInput struct {
	Department  models.Department
	Subjects    []models.Subject
	Staff       []models.StaffMember
	Classrooms  []models.Classroom
	Constraints []models.Constraint
}

// Generator produces candidate timetable slots from an untrusted external
// source. Output is never used directly; callers must pass it through the
// proposal validator.
type Generator interface {
	Name() string
	Generate(ctx context.Context, input ProposalInput) ([]dto.TimetableSlotInput, error)
}

const systemPrompt = "You are an expert timetable scheduler. Generate optimal academic schedules following all constraints. Return only valid JSON."

// BuildPrompt renders the generation instructions for a chat-style model.
func BuildPrompt(input ProposalInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate an optimal weekly timetable for the %s department with the following data:\n\n", input.Department.Name)

	b.WriteString("SUBJECTS:\n")
	for _, s := range input.Subjects {
		fmt.Fprintf(&b, "- %s (%s, id=%s): %d credits, %s\n", s.Name, s.Code, s.ID, s.Credits, s.SubjectType)
	}

	b.WriteString("\nSTAFF:\n")
	for _, m := range input.Staff {
		fmt.Fprintf(&b, "- %s (id=%s, %s): selected subjects [%s]\n", m.Name, m.ID, m.StaffRole, strings.Join(m.SelectedSubjects, ", "))
	}

	b.WriteString("\nCLASSROOMS:\n")
	for _, c := range input.Classrooms {
		fmt.Fprintf(&b, "- %s (id=%s): capacity %d, type %s\n", c.Name, c.ID, c.Capacity, c.RoomType)
	}

	b.WriteString("\nCONSTRAINTS:\n")
	for _, c := range input.Constraints {
		scope := "global"
		if c.DepartmentID != nil {
			scope = "department " + *c.DepartmentID
		}
		fmt.Fprintf(&b, "- %s (%s, %s): max %d subjects, max %d hours/week\n", c.Role, c.SubjectType, scope, c.MaxSubjects, c.MaxHours)
	}

	fmt.Fprintf(&b, "\nDays: %s\n", strings.Join(models.Weekdays, ", "))
	fmt.Fprintf(&b, "Time slots: %s\n", strings.Join(models.TimeSlots, ", "))
	b.WriteString(`
Rules:
1. No staff member may have overlapping classes
2. No classroom may have overlapping bookings
3. Lab subjects need lab rooms, theory subjects need non-lab rooms
4. Respect staff workload constraints
5. Schedule max(credits, 1) sessions per subject, distributed evenly

Return ONLY a JSON array of slots in this exact format:
[{"day": "Monday", "time_slot": "09:00-10:00", "subject_id": "...", "staff_id": "...", "classroom_id": "..."}]
`)
	return b.String()
}

// ExtractSlots pulls the first JSON array out of a model completion and
// decodes it. Models often wrap the payload in prose or code fences, so
// everything outside the outermost brackets is ignored.
func ExtractSlots(raw string) ([]dto.TimetableSlotInput, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var slots []dto.TimetableSlotInput
	if err := json.Unmarshal([]byte(raw[start:end+1]), &slots); err != nil {
		return nil, fmt.Errorf("decode proposal slots: %w", err)
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("empty proposal")
	}
	return slots, nil
}
