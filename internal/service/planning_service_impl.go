package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/fieldplan/internal/calendar"
	"github.com/alexanderramin/fieldplan/internal/db"
	"github.com/alexanderramin/fieldplan/internal/domain"
	"github.com/alexanderramin/fieldplan/internal/importer"
	"github.com/alexanderramin/fieldplan/internal/planning"
	"github.com/alexanderramin/fieldplan/internal/repository"
	"golang.org/x/sync/errgroup"
)

type planningService struct {
	uow      db.UnitOfWork
	headers  repository.HeaderRepo
	details  repository.DetailRepo
	catalogs repository.CatalogRepo
	reports  repository.ReportRepo
	oplog    repository.OperationLogRepo
	feed     calendar.Feed

	policy     planning.Policy
	reconciler *planning.Reconciler
	debounce   time.Duration
	now        func() time.Time
	logger     *slog.Logger
	observer   UseCaseObserver
}

// NewPlanningService wires the planning use cases. Reads go through the given
// repositories; every write runs inside uow with repositories bound to the
// transaction. A nil feed disables calendar reconciliation.
func NewPlanningService(
	uow db.UnitOfWork,
	headers repository.HeaderRepo,
	details repository.DetailRepo,
	catalogs repository.CatalogRepo,
	reports repository.ReportRepo,
	oplog repository.OperationLogRepo,
	feed calendar.Feed,
	opts ...Option,
) PlanningService {
	s := &planningService{
		uow:        uow,
		headers:    headers,
		details:    details,
		catalogs:   catalogs,
		reports:    reports,
		oplog:      oplog,
		feed:       feed,
		policy:     planning.NewPolicy(planning.DefaultPrivilegedPriority),
		reconciler: planning.NewReconciler(),
		debounce:   DefaultDebounce,
		now:        time.Now,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer:   NoopUseCaseObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *planningService) today() time.Time {
	return domain.NormalizeDay(s.now())
}

func (s *planningService) Open(ctx context.Context, req OpenRequest) (sess *Session, err error) {
	start := time.Now()
	fields := map[string]any{"header_id": req.HeaderID}
	defer func() { observe(ctx, s.observer, "open", start, err, fields) }()

	var header *domain.PlanningHeader
	switch {
	case req.HeaderID != 0:
		if header, err = s.headers.GetByID(ctx, req.HeaderID); err != nil {
			return nil, err
		}
	case !req.Day.IsZero():
		header, err = s.headers.GetByDay(ctx, req.Day)
		if errors.Is(err, domain.ErrNotFound) {
			header, err = nil, nil
		}
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: a day or a planning id is required", domain.ErrValidation)
	}

	day := domain.NormalizeDay(req.Day)
	if header != nil {
		day = header.Day
	}
	sess = newSession(s, req.Actor, day, header)

	sess.mu.Lock()
	err = sess.loadLocked(ctx)
	fields["day"] = day.Format(domain.DayLayout)
	fields["rows"] = len(sess.rows)
	sess.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *planningService) List(ctx context.Context, from, to time.Time) ([]domain.PlanningSummary, error) {
	if err := validRange(from, to); err != nil {
		return nil, err
	}
	return s.headers.List(ctx, from, to)
}

// Reopen unlocks a finalized plan outside of an editing session.
func (s *planningService) Reopen(ctx context.Context, headerID int64, actor domain.Actor) (h *domain.PlanningHeader, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "reopen", start, err, map[string]any{"header_id": headerID})
	}()

	current, err := s.headers.GetByID(ctx, headerID)
	if err != nil {
		return nil, err
	}
	return s.reopen(ctx, current, actor)
}

// reopen applies the reopen transition and persists it with its log entry.
func (s *planningService) reopen(ctx context.Context, current *domain.PlanningHeader, actor domain.Actor) (*domain.PlanningHeader, error) {
	next, err := s.policy.Reopen(current, actor, s.today())
	if err != nil {
		return nil, err
	}

	var saved *domain.PlanningHeader
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		headers := repository.NewSQLiteHeaderRepo(tx)
		if err := headers.Update(ctx, next.ID, domain.HeaderUpdate{
			Status:     next.Status,
			Revision:   next.Revision,
			ModifiedBy: next.ModifiedBy,
		}); err != nil {
			return err
		}
		if err := repository.NewSQLiteOperationLogRepo(tx).Append(ctx, &domain.OperationLog{
			HeaderID:    next.ID,
			Operation:   domain.OpReopen,
			Description: fmt.Sprintf("%s -> %s, revision %d", current.Status, next.Status, next.Revision),
			User:        actor.Attribution,
		}); err != nil {
			return err
		}
		var err error
		saved, err = headers.GetByID(ctx, next.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: reopening planning %d: %w", ErrPersistence, current.ID, err)
	}
	return saved, nil
}

func (s *planningService) History(ctx context.Context, headerID int64) ([]domain.OperationLog, error) {
	return s.oplog.ListByHeader(ctx, headerID)
}

// Catalogs loads the three catalogs concurrently.
func (s *planningService) Catalogs(ctx context.Context) (*domain.Catalogs, error) {
	var cat domain.Catalogs
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cat.Clients, err = s.catalogs.ListClients(gctx)
		return err
	})
	g.Go(func() (err error) {
		cat.InterventionTypes, err = s.catalogs.ListInterventionTypes(gctx)
		return err
	})
	g.Go(func() (err error) {
		cat.Resources, err = s.catalogs.ListResources(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading catalogs: %w", err)
	}
	return &cat, nil
}

// ImportCatalog validates schema and upserts every record in one transaction.
func (s *planningService) ImportCatalog(ctx context.Context, schema *importer.CatalogSchema) (res *ImportResult, err error) {
	start := time.Now()
	defer func() { observe(ctx, s.observer, "import_catalog", start, err, nil) }()

	cat, err := importer.Convert(schema)
	if err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteCatalogRepo(tx)
		if err := repo.UpsertClients(ctx, cat.Clients); err != nil {
			return err
		}
		if err := repo.UpsertInterventionTypes(ctx, cat.InterventionTypes); err != nil {
			return err
		}
		return repo.UpsertResources(ctx, cat.Resources)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: importing catalog: %w", ErrPersistence, err)
	}
	return &ImportResult{
		Clients:           len(cat.Clients),
		InterventionTypes: len(cat.InterventionTypes),
		Resources:         len(cat.Resources),
	}, nil
}

func (s *planningService) InterventionsReport(ctx context.Context, f domain.InterventionReportFilter) ([]domain.InterventionTotal, error) {
	if err := validRange(f.From, f.To); err != nil {
		return nil, err
	}
	return s.reports.InterventionsByPeriod(ctx, f)
}

func (s *planningService) TopResourcesReport(ctx context.Context, from, to time.Time, limit int) ([]domain.ResourceTotal, error) {
	if err := validRange(from, to); err != nil {
		return nil, err
	}
	return s.reports.TopResources(ctx, from, to, limit)
}

func validRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("%w: both ends of the period are required", domain.ErrValidation)
	}
	if domain.DayAfter(from, to) {
		return fmt.Errorf("%w: period starts after it ends", domain.ErrValidation)
	}
	return nil
}
