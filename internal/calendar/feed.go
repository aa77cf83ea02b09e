package calendar

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/fieldplan/internal/domain"
)

// Feed lists the external calendar events of one day. An authorization
// failure surfaces as an error matching ErrUnauthorized.
type Feed interface {
	ListEvents(ctx context.Context, day time.Time) ([]domain.CalendarEvent, error)
}

// StaticFeed serves a fixed set of events per day. It backs offline runs and
// tests. SetErr makes every call fail.
type StaticFeed struct {
	mu     sync.Mutex
	events map[string][]domain.CalendarEvent
	err    error
	calls  int
}

// NewStaticFeed creates an empty StaticFeed.
func NewStaticFeed() *StaticFeed {
	return &StaticFeed{events: make(map[string][]domain.CalendarEvent)}
}

// Set replaces the events served for day.
func (f *StaticFeed) Set(day time.Time, events ...domain.CalendarEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[domain.NormalizeDay(day).Format(domain.DayLayout)] = events
}

// SetErr makes subsequent calls fail with err; nil restores normal results.
func (f *StaticFeed) SetErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Calls returns how many times ListEvents was invoked.
func (f *StaticFeed) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *StaticFeed) ListEvents(_ context.Context, day time.Time) ([]domain.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	src := f.events[domain.NormalizeDay(day).Format(domain.DayLayout)]
	out := make([]domain.CalendarEvent, len(src))
	copy(out, src)
	return out, nil
}
