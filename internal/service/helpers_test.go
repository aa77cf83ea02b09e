package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/fieldplan/internal/calendar"
	"github.com/alexanderramin/fieldplan/internal/domain"
	"github.com/alexanderramin/fieldplan/internal/planning"
	"github.com/alexanderramin/fieldplan/internal/repository"
	"github.com/alexanderramin/fieldplan/internal/testutil"
	"github.com/stretchr/testify/require"
)

var (
	today     = testutil.Day("2026-10-14")
	futureDay = testutil.Day("2026-10-20")
	pastDay   = testutil.Day("2026-10-10")

	planner  = domain.Actor{Attribution: "mrossi", Priority: 2}
	operator = domain.Actor{Attribution: "operator", Priority: 5}
)

type harness struct {
	db       *sql.DB
	uow      *testutil.FailOnNthExecUoW
	feed     *calendar.StaticFeed
	headers  *repository.SQLiteHeaderRepo
	details  *repository.SQLiteDetailRepo
	oplog    *repository.SQLiteOperationLogRepo
	observer *recordingObserver
	svc      PlanningService
}

// newHarness wires the service over an in-memory store with seeded catalogs,
// a static feed, a fixed clock and sequential row keys. Edits apply at once
// unless a WithDebounce option is passed.
func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	database, _ := testutil.NewSeededDB(t)

	h := &harness{
		db:       database,
		uow:      &testutil.FailOnNthExecUoW{DB: database, Err: fmt.Errorf("injected store failure")},
		feed:     calendar.NewStaticFeed(),
		headers:  repository.NewSQLiteHeaderRepo(database),
		details:  repository.NewSQLiteDetailRepo(database),
		oplog:    repository.NewSQLiteOperationLogRepo(database),
		observer: &recordingObserver{},
	}

	n := 0
	base := []Option{
		WithClock(func() time.Time { return today }),
		WithDebounce(0),
		WithObserver(h.observer),
		WithReconciler(&planning.Reconciler{NewKey: func() string {
			n++
			return fmt.Sprintf("row-%d", n)
		}}),
	}
	h.svc = NewPlanningService(h.uow, h.headers, h.details,
		repository.NewSQLiteCatalogRepo(database), repository.NewSQLiteReportRepo(database),
		h.oplog, h.feed, append(base, opts...)...)
	return h
}

func (h *harness) open(t *testing.T, day time.Time, actor domain.Actor) *Session {
	t.Helper()
	sess, err := h.svc.Open(context.Background(), OpenRequest{Day: day, Actor: actor})
	require.NoError(t, err)
	return sess
}

// storeHeader persists a header directly, bypassing the lifecycle.
func (h *harness) storeHeader(t *testing.T, day time.Time, opts ...testutil.HeaderOption) *domain.PlanningHeader {
	t.Helper()
	hdr := testutil.NewTestHeader(day, opts...)
	require.NoError(t, h.headers.Create(context.Background(), hdr))
	return hdr
}

func (h *harness) storedRows(t *testing.T, headerID int64) []domain.DetailRecord {
	t.Helper()
	recs, err := h.details.ListByHeader(context.Background(), headerID)
	require.NoError(t, err)
	return recs
}

func (h *harness) history(t *testing.T, headerID int64) []domain.OperationLog {
	t.Helper()
	entries, err := h.oplog.ListByHeader(context.Background(), headerID)
	require.NoError(t, err)
	return entries
}

func eventIDs(rows []domain.DetailRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ExternalEventID
	}
	return out
}

func rowIDs(rows []domain.DetailRow) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) named(name string) []UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []UseCaseEvent
	for _, e := range o.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
