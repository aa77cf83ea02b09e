package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/fieldplan/internal/calendar"
	"github.com/alexanderramin/fieldplan/internal/db"
	"github.com/alexanderramin/fieldplan/internal/domain"
	"github.com/alexanderramin/fieldplan/internal/planning"
	"github.com/alexanderramin/fieldplan/internal/repository"
	"golang.org/x/sync/errgroup"
)

// Session is the editing state of one plan. It owns the working row set, the
// dirty flag, the last persisted snapshot and the buffer of queued edits.
//
// All methods are safe for concurrent use. Saves, deletes and reopens hold
// the session lock for the duration of their I/O, so they never overlap and
// edits issued meanwhile wait for them to finish.
type Session struct {
	svc   *planningService
	actor domain.Actor
	day   time.Time

	mu       sync.Mutex
	header   *domain.PlanningHeader
	rows     []domain.DetailRow
	snapshot []domain.DetailRow
	events   []domain.CalendarEvent
	orphans  []domain.DetailRow
	catalogs domain.Catalogs
	feedErr  error
	dirty    bool
	closed   bool

	// eventsLoaded is set once the feed has answered at least once.
	eventsLoaded bool

	pending []Edit
	timer   *time.Timer
}

func newSession(svc *planningService, actor domain.Actor, day time.Time, header *domain.PlanningHeader) *Session {
	return &Session{svc: svc, actor: actor, day: day, header: header}
}

// Day is the calendar day of the plan.
func (s *Session) Day() time.Time { return s.day }

// Header returns a copy of the current header, nil while the plan is unsaved.
func (s *Session) Header() *domain.PlanningHeader {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.header.Clone()
}

// Rows returns a copy of the working row set in display order.
func (s *Session) Rows() []domain.DetailRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRows(s.rows)
}

// Row returns a copy of the row with the given key.
func (s *Session) Row(key string) (domain.DetailRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(key); i >= 0 {
		return s.rows[i].Clone(), true
	}
	return domain.DetailRow{}, false
}

// Catalogs returns the catalogs loaded with the plan.
func (s *Session) Catalogs() domain.Catalogs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalogs
}

// Dirty reports whether there are edits not yet persisted, queued ones included.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty || len(s.pending) > 0
}

func (s *Session) ReadOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readOnlyLocked()
}

// ShowResources reports whether assigned resources are visible and editable
// for the acting user.
func (s *Session) ShowResources() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.svc.policy.ShowResources(s.header, s.actor.Priority)
}

// CanReopen reports whether Reopen would be accepted now.
func (s *Session) CanReopen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.svc.policy.CanReopen(s.header, s.actor.Priority, s.svc.today())
}

// Orphans returns persisted rows whose calendar event disappeared but whose
// delete failed. The next save supersedes them.
func (s *Session) Orphans() []domain.DetailRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRows(s.orphans)
}

// FeedError returns the last calendar failure that did not abort the
// operation, typically an unauthorized feed. It is nil after a good fetch.
func (s *Session) FeedError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedErr
}

// AddManualRow appends a user-created row and returns its key.
func (s *Session) AddManualRow(description string, slot domain.TimeSlot) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editableLocked() {
		return "", false
	}
	s.flushLocked()
	row := domain.DetailRow{
		Key:         s.svc.reconciler.NewKey(),
		FeedIndex:   -1,
		Description: strings.TrimSpace(description),
		TimeSlot:    slot,
	}
	s.rows = append(s.rows, row)
	planning.SortRows(s.rows, s.header)
	s.dirty = true
	return row.Key, true
}

// Edit applies e immediately, after any queued edits.
func (s *Session) Edit(e Edit) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked()
	return s.applyLocked(e)
}

// QueueEdit buffers e for the debounce window. A later edit of the same
// field of the same row replaces it. It returns false when e targets an
// unknown row or a field the user may not change; input validity is only
// checked when the buffer is flushed.
func (s *Session) QueueEdit(e Edit) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editableLocked() || s.indexLocked(e.Key) < 0 || !s.fieldAllowedLocked(e.Field) {
		return false
	}
	if s.svc.debounce <= 0 {
		s.flushLocked()
		return s.applyLocked(e)
	}

	replaced := false
	for i := range s.pending {
		if s.pending[i].sameTarget(e) {
			s.pending[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		s.pending = append(s.pending, e)
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.svc.debounce, s.onDebounce)
	return true
}

// Flush applies queued edits now.
func (s *Session) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked()
}

func (s *Session) onDebounce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.flushLocked()
}

// AddIntervention adds one unit of the intervention type to the row, or
// increments it when the type is already present.
func (s *Session) AddIntervention(key string, typeID int64) bool {
	return s.mutateRow(key, func(row *domain.DetailRow) bool {
		t, ok := s.catalogs.InterventionTypeByID(typeID)
		if !ok {
			return false
		}
		row.AddIntervention(t.ID, t.Name())
		return true
	})
}

// SetInterventionQuantity sets the quantity from raw user input. Unparsable
// input counts as 1 and values below 1 are clamped.
func (s *Session) SetInterventionQuantity(key string, typeID int64, raw string) bool {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		qty = 1
	}
	return s.mutateRow(key, func(row *domain.DetailRow) bool {
		return row.SetInterventionQuantity(typeID, qty)
	})
}

func (s *Session) RemoveIntervention(key string, typeID int64) bool {
	return s.mutateRow(key, func(row *domain.DetailRow) bool {
		return row.RemoveIntervention(typeID)
	})
}

func (s *Session) mutateRow(key string, fn func(*domain.DetailRow) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editableLocked() {
		return false
	}
	s.flushLocked()
	i := s.indexLocked(key)
	if i < 0 {
		return false
	}
	row := s.rows[i].Clone()
	if !fn(&row) {
		return false
	}
	s.rows[i] = row
	s.dirty = true
	return true
}

// DeleteRow removes the row. A persisted row is deleted from the store at
// once; if that fails the row is put back at its previous position and the
// error is returned.
func (s *Session) DeleteRow(ctx context.Context, key string) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.svc.observer, "delete_row", start, err, s.fields())
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.flushLocked()
	if s.readOnlyLocked() {
		return fmt.Errorf("%w: planning for %s", domain.ErrReadOnly, s.dayKey())
	}
	idx := s.indexLocked(key)
	if idx < 0 {
		return fmt.Errorf("row %s: %w", key, domain.ErrNotFound)
	}

	removed := s.rows[idx]
	s.rows = append(s.rows[:idx:idx], s.rows[idx+1:]...)
	if removed.IsNew() {
		s.dirty = true
		return nil
	}

	err = s.svc.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteDetailRepo(tx).Delete(ctx, removed.ID); err != nil {
			return err
		}
		return repository.NewSQLiteOperationLogRepo(tx).Append(ctx, &domain.OperationLog{
			HeaderID:    s.header.ID,
			Operation:   domain.OpDeleteRow,
			Description: fmt.Sprintf("row %d: %s", removed.ID, removed.DisplayTitle()),
			User:        s.actor.Attribution,
		})
	})
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.rows = insertRow(s.rows, idx, removed)
		return fmt.Errorf("%w: deleting row %d: %w", ErrPersistence, removed.ID, err)
	}
	// The delete and its log entry are committed; dirty keeps tracking only
	// edits that still need a save.
	s.snapshot = withoutID(s.snapshot, removed.ID)
	return nil
}

// Save persists the header and the full row set in one atomic update. With
// finalize set the lifecycle advances; otherwise the status is kept. On
// failure nothing in memory changes and the session stays dirty.
func (s *Session) Save(ctx context.Context, finalize bool) (h *domain.PlanningHeader, err error) {
	start := time.Now()
	name := "save"
	if finalize {
		name = "finalize"
	}
	defer func() { observe(ctx, s.svc.observer, name, start, err, s.fields()) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, finalize)
}

func (s *Session) saveLocked(ctx context.Context, finalize bool) (*domain.PlanningHeader, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	s.flushLocked()
	if s.readOnlyLocked() {
		return nil, fmt.Errorf("%w: planning for %s", domain.ErrReadOnly, s.dayKey())
	}

	base := s.header
	if base == nil {
		var err error
		if base, err = planning.NewHeader(s.day, s.actor); err != nil {
			return nil, err
		}
	}
	next, err := s.svc.policy.ApplySave(base, finalize, s.actor)
	if err != nil {
		return nil, err
	}

	payload := planning.BuildPayload(s.rows)
	op := domain.OpSave
	if finalize {
		op = domain.OpFinalize
	}
	added, changed, removed := diffRows(s.snapshot, s.rows)

	var (
		saved   *domain.PlanningHeader
		records []domain.DetailRecord
	)
	err = s.svc.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		headers := repository.NewSQLiteHeaderRepo(tx)
		id := base.ID
		if !base.Persisted() {
			created := base.Clone()
			if err := headers.Create(ctx, created); err != nil {
				return err
			}
			id = created.ID
		}
		if err := headers.Update(ctx, id, domain.HeaderUpdate{
			Status:     next.Status,
			Revision:   next.Revision,
			ModifiedBy: next.ModifiedBy,
		}); err != nil {
			return err
		}
		var err error
		if records, err = repository.NewSQLiteDetailRepo(tx).ReplaceForHeader(ctx, id, payload, s.actor.Attribution); err != nil {
			return err
		}
		desc := fmt.Sprintf("%s -> %s: %d added, %d changed, %d removed",
			base.Status, next.Status, added, changed, removed)
		if err := repository.NewSQLiteOperationLogRepo(tx).Append(ctx, &domain.OperationLog{
			HeaderID:    id,
			Operation:   op,
			Description: desc,
			User:        s.actor.Attribution,
		}); err != nil {
			return err
		}
		saved, err = headers.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: saving planning for %s: %w", ErrPersistence, s.dayKey(), err)
	}

	// Committed. Ids are taken over before anything else can fail so a retry
	// updates these rows instead of inserting them again.
	for i := range records {
		if i < len(s.rows) {
			s.rows[i].ID = records[i].ID
		}
	}
	s.header = saved
	s.dirty = false
	s.orphans = nil
	s.rebuildLocked(ctx, records)
	return saved.Clone(), nil
}

// rebuildLocked replaces the working set with the stored records, keeping
// session keys and provenance, and reconciles again while the plan is NEW.
func (s *Session) rebuildLocked(ctx context.Context, records []domain.DetailRecord) {
	byID := make(map[int64]domain.DetailRow, len(s.rows))
	for _, r := range s.rows {
		if r.ID != 0 {
			byID[r.ID] = r
		}
	}
	rows := make([]domain.DetailRow, 0, len(records))
	for _, rec := range records {
		prev, ok := byID[rec.ID]
		key := prev.Key
		if !ok || key == "" {
			key = s.svc.reconciler.NewKey()
		}
		row := planning.RowFromRecord(rec, &s.catalogs, key)
		row.ExternalTitle = prev.ExternalTitle
		row.ExternalColor = prev.ExternalColor
		row.FeedIndex = prev.FeedIndex
		rows = append(rows, row)
	}
	s.snapshot = cloneRows(rows)

	if !planning.Reconciling(s.header) || s.svc.feed == nil || s.readOnlyLocked() {
		s.rows = rows
		return
	}
	events, err := s.svc.feed.ListEvents(ctx, s.day)
	switch {
	case err != nil && !s.eventsLoaded:
		// Without any feed result, reconciling would orphan every linked row.
		s.noteFeedErrLocked(ctx, err)
		planning.SortRows(rows, s.header)
		s.rows = rows
		return
	case err != nil:
		s.noteFeedErrLocked(ctx, err)
		events = s.events
	default:
		s.events, s.eventsLoaded, s.feedErr = events, true, nil
	}
	res := s.svc.reconciler.Reconcile(rows, events, s.header)
	s.rows = res.Rows
	s.deleteOrphansLocked(ctx, res.PersistedOrphans())
}

// Reopen unlocks a finalized plan for editing within this session.
func (s *Session) Reopen(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.svc.observer, "reopen", start, err, s.fields()) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.flushLocked()
	saved, err := s.svc.reopen(ctx, s.header, s.actor)
	if err != nil {
		return err
	}
	s.header = saved
	return nil
}

// Refresh reloads the plan from the store and the feed, discarding local
// edits.
func (s *Session) Refresh(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { observe(ctx, s.svc.observer, "refresh", start, err, s.fields()) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.stopTimerLocked()
	s.pending = nil

	var header *domain.PlanningHeader
	if s.header.Persisted() {
		header, err = s.svc.headers.GetByID(ctx, s.header.ID)
	} else {
		header, err = s.svc.headers.GetByDay(ctx, s.day)
		if errors.Is(err, domain.ErrNotFound) {
			header, err = nil, nil
		}
	}
	if err != nil {
		return err
	}
	s.header = header
	return s.loadLocked(ctx)
}

// Close flushes queued edits and, when the plan is editable and dirty,
// saves a draft. If that save fails the session stays open.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.flushLocked()
	if s.dirty && !s.readOnlyLocked() {
		if _, err := s.saveLocked(ctx, false); err != nil {
			return err
		}
	}
	s.closed = true
	return nil
}

// loadLocked fetches catalogs, stored rows and, while reconciling, the
// feed, then rebuilds the working set. An unauthorized feed keeps the stored
// rows unreconciled; any other load failure is returned.
func (s *Session) loadLocked(ctx context.Context) error {
	var (
		cat     *domain.Catalogs
		records []domain.DetailRecord
		events  []domain.CalendarEvent
		feedErr error
	)
	// A read-only plan is shown as stored; reconciling it would write to a
	// day that can no longer change.
	reconciling := planning.Reconciling(s.header) && s.svc.feed != nil && !s.readOnlyLocked()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cat, err = s.svc.Catalogs(gctx)
		return err
	})
	if s.header.Persisted() {
		g.Go(func() (err error) {
			if records, err = s.svc.details.ListByHeader(gctx, s.header.ID); err != nil {
				return fmt.Errorf("loading planning rows: %w", err)
			}
			return nil
		})
	}
	if reconciling {
		g.Go(func() error {
			ev, err := s.svc.feed.ListEvents(gctx, s.day)
			switch {
			case errors.Is(err, calendar.ErrUnauthorized):
				feedErr = err
			case err != nil:
				return fmt.Errorf("loading calendar events: %w", err)
			default:
				events = ev
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.catalogs = *cat
	rows := make([]domain.DetailRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, planning.RowFromRecord(rec, &s.catalogs, s.svc.reconciler.NewKey()))
	}
	s.snapshot = cloneRows(rows)
	s.dirty = false
	s.orphans = nil
	s.feedErr = nil

	switch {
	case !reconciling:
		s.rows = rows
	case feedErr != nil:
		s.noteFeedErrLocked(ctx, feedErr)
		planning.SortRows(rows, s.header)
		s.rows = rows
	default:
		s.events, s.eventsLoaded = events, true
		res := s.svc.reconciler.Reconcile(rows, events, s.header)
		s.rows = res.Rows
		s.deleteOrphansLocked(ctx, res.PersistedOrphans())
	}
	return nil
}

// deleteOrphansLocked removes stored rows whose event disappeared. Failures
// are logged and kept in s.orphans; the next full save supersedes them.
func (s *Session) deleteOrphansLocked(ctx context.Context, orphans []domain.DetailRow) {
	for _, o := range orphans {
		err := s.svc.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			if err := repository.NewSQLiteDetailRepo(tx).Delete(ctx, o.ID); err != nil {
				return err
			}
			return repository.NewSQLiteOperationLogRepo(tx).Append(ctx, &domain.OperationLog{
				HeaderID:    s.header.ID,
				Operation:   domain.OpDeleteRow,
				Description: fmt.Sprintf("row %d: calendar event %s disappeared", o.ID, o.ExternalEventID),
				User:        s.actor.Attribution,
			})
		})
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.svc.logger.WarnContext(ctx, "orphan_delete_failed",
				"row_id", o.ID, "event_id", o.ExternalEventID, "error", err)
			s.orphans = append(s.orphans, o)
			continue
		}
		s.snapshot = withoutID(s.snapshot, o.ID)
	}
}

func (s *Session) noteFeedErrLocked(ctx context.Context, err error) {
	s.feedErr = err
	s.svc.logger.WarnContext(ctx, "calendar_feed_failed", "day", s.dayKey(), "error", err)
}

func (s *Session) applyLocked(e Edit) bool {
	if !s.editableLocked() || !s.fieldAllowedLocked(e.Field) {
		return false
	}
	i := s.indexLocked(e.Key)
	if i < 0 {
		return false
	}
	row := s.rows[i].Clone()
	if !e.apply(&row, &s.catalogs) {
		return false
	}
	s.rows[i] = row
	s.dirty = true
	if e.Field == FieldTimeSlot {
		planning.SortRows(s.rows, s.header)
	}
	return true
}

func (s *Session) flushLocked() {
	s.stopTimerLocked()
	pending := s.pending
	s.pending = nil
	for _, e := range pending {
		if !s.applyLocked(e) {
			s.svc.logger.Debug("queued_edit_rejected", "row", e.Key, "field", string(e.Field))
		}
	}
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) fieldAllowedLocked(f Field) bool {
	if f == FieldResources {
		return s.svc.policy.ShowResources(s.header, s.actor.Priority)
	}
	return true
}

func (s *Session) editableLocked() bool {
	return !s.closed && !s.readOnlyLocked()
}

func (s *Session) readOnlyLocked() bool {
	return s.svc.policy.IsReadOnly(s.header, s.actor.Priority, s.svc.today())
}

func (s *Session) indexLocked(key string) int {
	for i := range s.rows {
		if s.rows[i].Key == key {
			return i
		}
	}
	return -1
}

func (s *Session) dayKey() string {
	return s.day.Format(domain.DayLayout)
}

// fields snapshots observability fields. It takes the lock itself.
func (s *Session) fields() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := map[string]any{"day": s.dayKey(), "rows": len(s.rows)}
	if s.header != nil {
		f["header_id"] = s.header.ID
		f["status"] = string(s.header.Status)
	}
	return f
}

func cloneRows(rows []domain.DetailRow) []domain.DetailRow {
	if rows == nil {
		return nil
	}
	out := make([]domain.DetailRow, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

func insertRow(rows []domain.DetailRow, idx int, row domain.DetailRow) []domain.DetailRow {
	if idx > len(rows) {
		idx = len(rows)
	}
	out := make([]domain.DetailRow, 0, len(rows)+1)
	out = append(out, rows[:idx]...)
	out = append(out, row)
	return append(out, rows[idx:]...)
}

func withoutID(rows []domain.DetailRow, id int64) []domain.DetailRow {
	out := rows[:0:0]
	for _, r := range rows {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

// diffRows compares the working set with the persisted snapshot by stored
// id, on the fields that are saved.
func diffRows(snapshot, rows []domain.DetailRow) (added, changed, removed int) {
	before := make(map[int64]domain.DetailPayload, len(snapshot))
	for _, p := range planning.BuildPayload(snapshot) {
		before[p.ID] = p
	}
	seen := make(map[int64]bool, len(rows))
	for _, p := range planning.BuildPayload(rows) {
		prev, ok := before[p.ID]
		switch {
		case p.ID == 0 || !ok:
			added++
		case !reflect.DeepEqual(prev, p):
			changed++
		}
		seen[p.ID] = true
	}
	for id := range before {
		if !seen[id] {
			removed++
		}
	}
	return added, changed, removed
}
