package service

import (
	"log/slog"
	"time"

	"github.com/alexanderramin/fieldplan/internal/planning"
)

// DefaultDebounce is the coalescing window for queued field edits.
const DefaultDebounce = 300 * time.Millisecond

// Option configures a PlanningService.
type Option func(*planningService)

func WithPolicy(p planning.Policy) Option {
	return func(s *planningService) { s.policy = p }
}

// WithDebounce sets the queued-edit window. Zero applies queued edits at once.
func WithDebounce(d time.Duration) Option {
	return func(s *planningService) {
		if d >= 0 {
			s.debounce = d
		}
	}
}

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *planningService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *planningService) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithObserver(o UseCaseObserver) Option {
	return func(s *planningService) {
		if o != nil {
			s.observer = o
		}
	}
}

func WithReconciler(r *planning.Reconciler) Option {
	return func(s *planningService) {
		if r != nil {
			s.reconciler = r
		}
	}
}
