package service

import "github.com/noah-isme/uni-adp-api/internal/models"

// Fallback workload ceilings applied when no constraint matches a
// staff member's role.
const (
	fallbackMaxSubjects = 5
	fallbackMaxHours    = 20
)

// constraintResolver turns the stored constraint rows into per-staff
// workload ceilings.
type constraintResolver struct {
	defaults models.StaffLimits
}

func newConstraintResolver(defaults models.StaffLimits) *constraintResolver {
	if defaults.MaxSubjects <= 0 {
		defaults.MaxSubjects = fallbackMaxSubjects
	}
	if defaults.MaxHours <= 0 {
		defaults.MaxHours = fallbackMaxHours
	}
	return &constraintResolver{defaults: defaults}
}

// Resolve computes the effective limits for one staff member. Multiple
// matching constraints are merged permissively: each ceiling is the
// maximum across all matches, taken independently, so a staff member is
// never held below what any single applicable constraint would allow.
// When nothing matches, the configured defaults apply.
func (r *constraintResolver) Resolve(member models.StaffMember, constraints []models.Constraint) models.StaffLimits {
	limits := models.StaffLimits{}
	matched := false
	for _, c := range constraints {
		if !c.AppliesTo(member.StaffRole, member.DepartmentID) {
			continue
		}
		matched = true
		if c.MaxSubjects > limits.MaxSubjects {
			limits.MaxSubjects = c.MaxSubjects
		}
		if c.MaxHours > limits.MaxHours {
			limits.MaxHours = c.MaxHours
		}
	}
	if !matched {
		return r.defaults
	}
	return limits
}

// ResolveAll maps every staff member id to its effective limits.
func (r *constraintResolver) ResolveAll(staff []models.StaffMember, constraints []models.Constraint) map[string]models.StaffLimits {
	limits := make(map[string]models.StaffLimits, len(staff))
	for _, member := range staff {
		limits[member.ID] = r.Resolve(member, constraints)
	}
	return limits
}
