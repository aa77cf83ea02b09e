package domain

import (
	"fmt"
	"time"
)

// PlanningHeader is the per-day plan record carrying the lifecycle status.
type PlanningHeader struct {
	ID         int64
	Day        time.Time
	Status     PlanStatus
	Revision   int
	CreatedBy  string
	ModifiedBy string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Persisted reports whether the header has a store identity.
func (h *PlanningHeader) Persisted() bool {
	return h != nil && h.ID != 0
}

// Validate checks the status/revision invariant: revision stays zero until a
// reopen, and a NEW plan never carries a revision.
func (h *PlanningHeader) Validate() error {
	if h.Day.IsZero() {
		return fmt.Errorf("%w: planning day is required", ErrValidation)
	}
	if !ValidPlanStatuses[string(h.Status)] {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, h.Status)
	}
	if h.Revision < 0 {
		return fmt.Errorf("%w: revision must be non-negative", ErrValidation)
	}
	if h.Status == StatusNew && h.Revision != 0 {
		return fmt.Errorf("%w: NEW planning cannot carry revision %d", ErrValidation, h.Revision)
	}
	return nil
}

// Clone returns a copy safe to mutate.
func (h *PlanningHeader) Clone() *PlanningHeader {
	if h == nil {
		return nil
	}
	c := *h
	return &c
}

// PlanningSummary is the listing view of a header used by the month calendar.
type PlanningSummary struct {
	ID         int64
	Day        time.Time
	Status     PlanStatus
	Revision   int
	Locked     bool
	RowCount   int
	CreatedBy  string
	ModifiedBy string
	UpdatedAt  time.Time
}
