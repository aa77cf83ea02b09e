package planning

import (
	"fmt"
	"time"

	"github.com/alexanderramin/fieldplan/internal/domain"
)

// NewHeader materializes the header created by the first save of a day.
func NewHeader(day time.Time, actor domain.Actor) (*domain.PlanningHeader, error) {
	if day.IsZero() {
		return nil, fmt.Errorf("%w: day is required to create a planning", domain.ErrValidation)
	}
	return &domain.PlanningHeader{
		Day:        domain.NormalizeDay(day),
		Status:     domain.StatusNew,
		Revision:   0,
		CreatedBy:  actor.Attribution,
		ModifiedBy: actor.Attribution,
	}, nil
}

// NextStatus computes the status a save leaves the header in.
// A draft save never moves the lifecycle. Finalize moves NEW to OPEN for any
// role, and OPEN to CLOSED (first cycle) or REVISED (after a reopen) for
// privileged roles only.
func (p Policy) NextStatus(h *domain.PlanningHeader, finalize bool, priority int) (domain.PlanStatus, error) {
	if !finalize {
		return h.Status, nil
	}
	switch h.Status {
	case domain.StatusNew:
		return domain.StatusOpen, nil
	case domain.StatusOpen:
		if !p.Privileged(priority) {
			return h.Status, fmt.Errorf("%w: finalizing an open planning", domain.ErrNotPermitted)
		}
		if h.Revision > 0 {
			return domain.StatusRevised, nil
		}
		return domain.StatusClosed, nil
	default:
		return h.Status, fmt.Errorf("%w: cannot finalize a %s planning", domain.ErrInvalidTransition, h.Status)
	}
}

// ApplySave returns a copy of h with the status and attribution a save produces.
func (p Policy) ApplySave(h *domain.PlanningHeader, finalize bool, actor domain.Actor) (*domain.PlanningHeader, error) {
	next, err := p.NextStatus(h, finalize, actor.Priority)
	if err != nil {
		return nil, err
	}
	out := h.Clone()
	out.Status = next
	out.ModifiedBy = actor.Attribution
	return out, nil
}

// Reopen unlocks a finalized planning for another cycle. Privileged roles
// only, only from CLOSED/REVISED, and only for days strictly after today.
func (p Policy) Reopen(h *domain.PlanningHeader, actor domain.Actor, today time.Time) (*domain.PlanningHeader, error) {
	if h == nil {
		return nil, fmt.Errorf("%w: no planning to reopen", domain.ErrInvalidTransition)
	}
	if !p.Privileged(actor.Priority) {
		return nil, fmt.Errorf("%w: reopening a planning", domain.ErrNotPermitted)
	}
	if !h.Status.Locked() {
		return nil, fmt.Errorf("%w: cannot reopen a %s planning", domain.ErrInvalidTransition, h.Status)
	}
	if !domain.DayAfter(h.Day, today) {
		return nil, fmt.Errorf("%w: only future plannings can be reopened (day %s)",
			domain.ErrInvalidTransition, h.Day.Format(domain.DayLayout))
	}
	out := h.Clone()
	out.Status = domain.StatusOpen
	out.Revision++
	out.ModifiedBy = actor.Attribution
	return out, nil
}
