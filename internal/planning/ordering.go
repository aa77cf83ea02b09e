package planning

import (
	"sort"

	"github.com/alexanderramin/fieldplan/internal/domain"
)

// Reconciling reports whether the external feed is still authoritative for h:
// the plan does not exist yet or is still in NEW.
func Reconciling(h *domain.PlanningHeader) bool {
	return h == nil || h.Status == domain.StatusNew
}

// SortRows applies the row ordering in place while the plan is reconciling:
//  1. time slot: AM < PM < unset
//  2. manual rows before externally sourced rows
//  3. externally sourced rows by feed order, manual rows by insertion order
//
// Outside NEW the persisted order is authoritative and rows are left as they are.
func SortRows(rows []domain.DetailRow, h *domain.PlanningHeader) {
	if !Reconciling(h) {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]

		if ra, rb := a.TimeSlot.Rank(), b.TimeSlot.Rank(); ra != rb {
			return ra < rb
		}

		if a.IsExternal() != b.IsExternal() {
			return !a.IsExternal()
		}

		if a.IsExternal() && a.FeedIndex != b.FeedIndex {
			return a.FeedIndex < b.FeedIndex
		}
		return false
	})
}
