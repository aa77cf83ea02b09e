package planning

import (
	"github.com/alexanderramin/fieldplan/internal/domain"
	"github.com/google/uuid"
)

// PlaceholderTitle labels synthesized rows whose event has neither title nor description.
const PlaceholderTitle = "New calendar activity"

// ReconcileResult is the classified outcome of merging the feed into the row set.
type ReconcileResult struct {
	Rows []domain.DetailRow
	// Orphans are externally linked rows whose event disappeared from the feed.
	Orphans []domain.DetailRow
	// Skipped is set when the plan has left NEW and the feed was ignored.
	Skipped bool
}

// PersistedOrphans returns the orphans the caller has to delete from the store.
func (r ReconcileResult) PersistedOrphans() []domain.DetailRow {
	var out []domain.DetailRow
	for _, o := range r.Orphans {
		if !o.IsNew() {
			out = append(out, o)
		}
	}
	return out
}

// Reconciler merges calendar events into detail rows. It performs no I/O.
type Reconciler struct {
	NewKey func() string
}

// NewReconciler returns a Reconciler generating uuid row keys.
func NewReconciler() *Reconciler {
	return &Reconciler{NewKey: func() string { return uuid.New().String() }}
}

// Reconcile produces the working row set for h from the existing rows and the
// live events. Manual rows are kept verbatim; linked rows keep every editable
// field and only refresh provenance; events with no row become new rows.
func (rc *Reconciler) Reconcile(existing []domain.DetailRow, events []domain.CalendarEvent, h *domain.PlanningHeader) ReconcileResult {
	if !Reconciling(h) {
		return ReconcileResult{Rows: cloneRows(existing), Skipped: true}
	}

	type indexedEvent struct {
		event domain.CalendarEvent
		index int
	}
	lookup := make(map[string]indexedEvent, len(events))
	ordered := make([]indexedEvent, 0, len(events))
	for i, ev := range events {
		if ev.ExternalID == "" {
			continue
		}
		if _, dup := lookup[ev.ExternalID]; dup {
			continue
		}
		ie := indexedEvent{event: ev, index: i}
		lookup[ev.ExternalID] = ie
		ordered = append(ordered, ie)
	}

	var manual, matched []domain.DetailRow
	var orphans []domain.DetailRow
	linked := make(map[string]bool, len(existing))

	for _, row := range existing {
		r := row.Clone()
		if !r.IsExternal() {
			if r.Key == "" {
				r.Key = rc.NewKey()
			}
			r.FeedIndex = -1
			manual = append(manual, r)
			continue
		}
		ie, ok := lookup[r.ExternalEventID]
		if !ok || linked[r.ExternalEventID] {
			orphans = append(orphans, r)
			continue
		}
		linked[r.ExternalEventID] = true
		r.ExternalTitle = eventTitle(ie.event)
		r.ExternalColor = ie.event.Color
		r.FeedIndex = ie.index
		if r.Key == "" {
			r.Key = rc.NewKey()
		}
		matched = append(matched, r)
	}

	var synthesized []domain.DetailRow
	for _, ie := range ordered {
		if linked[ie.event.ExternalID] {
			continue
		}
		synthesized = append(synthesized, rc.rowFromEvent(ie.event, ie.index))
	}

	rows := make([]domain.DetailRow, 0, len(manual)+len(matched)+len(synthesized))
	rows = append(rows, manual...)
	rows = append(rows, matched...)
	rows = append(rows, synthesized...)
	SortRows(rows, h)

	return ReconcileResult{Rows: rows, Orphans: orphans}
}

func (rc *Reconciler) rowFromEvent(ev domain.CalendarEvent, index int) domain.DetailRow {
	title := eventTitle(ev)
	row := domain.DetailRow{
		Key:             rc.NewKey(),
		ExternalEventID: ev.ExternalID,
		ExternalTitle:   title,
		ExternalColor:   ev.Color,
		FeedIndex:       index,
		Description:     title,
		Notes:           ev.Notes,
		TimeSlot:        ev.TimeSlot,
	}
	if ev.MaterialAvailable != nil {
		row.MaterialAvailable = *ev.MaterialAvailable
	}
	return row
}

func eventTitle(ev domain.CalendarEvent) string {
	return domain.CoalesceStr(ev.Title, ev.Description, PlaceholderTitle)
}

func cloneRows(rows []domain.DetailRow) []domain.DetailRow {
	out := make([]domain.DetailRow, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
