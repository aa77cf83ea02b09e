package planning

import (
	"time"

	"github.com/alexanderramin/fieldplan/internal/domain"
)

// DefaultPrivilegedPriority is the highest priority number still treated as privileged.
// Lower numbers denote more privilege.
const DefaultPrivilegedPriority = 4

// Policy evaluates role- and date-dependent rules. It holds no session state:
// the acting priority and the current day are always passed in.
type Policy struct {
	PrivilegedPriority int
}

// NewPolicy returns a Policy with the given threshold, falling back to the default for non-positive values.
func NewPolicy(privilegedPriority int) Policy {
	if privilegedPriority <= 0 {
		privilegedPriority = DefaultPrivilegedPriority
	}
	return Policy{PrivilegedPriority: privilegedPriority}
}

// Privileged reports whether priority is within the privileged threshold.
func (p Policy) Privileged(priority int) bool {
	return priority <= p.PrivilegedPriority
}

// IsReadOnly decides whether the header is editable. Rules apply in order,
// first match wins:
//  1. past days are immutable
//  2. CLOSED/REVISED are locked; a reopen moves the plan back to OPEN
//  3. non-privileged roles may only edit a plan still in NEW
//
// A missing header (plan not created yet) is always editable.
func (p Policy) IsReadOnly(h *domain.PlanningHeader, priority int, today time.Time) bool {
	if h == nil {
		return false
	}
	if domain.DayBefore(h.Day, today) {
		return true
	}
	if h.Status.Locked() {
		return true
	}
	if !p.Privileged(priority) && h.Status != domain.StatusNew {
		return true
	}
	return false
}

// ShowResources reports whether assigned resources are visible and editable.
// Only privileged roles see them, and only once the plan has left NEW.
func (p Policy) ShowResources(h *domain.PlanningHeader, priority int) bool {
	return p.Privileged(priority) && h != nil && h.Status != domain.StatusNew
}

// CanReopen reports whether Reopen would be accepted, without building the result.
func (p Policy) CanReopen(h *domain.PlanningHeader, priority int, today time.Time) bool {
	_, err := p.Reopen(h, domain.Actor{Priority: priority}, today)
	return err == nil
}
