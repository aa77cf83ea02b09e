package service

import (
	"context"
	"time"

	"github.com/alexanderramin/fieldplan/internal/domain"
	"github.com/alexanderramin/fieldplan/internal/importer"
)

// OpenRequest selects the plan to open, by stored id or by day. When both
// are set the id wins. A day without a stored plan opens an unsaved one.
type OpenRequest struct {
	HeaderID int64
	Day      time.Time
	Actor    domain.Actor
}

// ImportResult counts the catalog records written by an import.
type ImportResult struct {
	Clients           int
	InterventionTypes int
	Resources         int
}

type PlanningService interface {
	Open(ctx context.Context, req OpenRequest) (*Session, error)
	List(ctx context.Context, from, to time.Time) ([]domain.PlanningSummary, error)
	Reopen(ctx context.Context, headerID int64, actor domain.Actor) (*domain.PlanningHeader, error)
	History(ctx context.Context, headerID int64) ([]domain.OperationLog, error)
	Catalogs(ctx context.Context) (*domain.Catalogs, error)
	ImportCatalog(ctx context.Context, schema *importer.CatalogSchema) (*ImportResult, error)
	InterventionsReport(ctx context.Context, f domain.InterventionReportFilter) ([]domain.InterventionTotal, error)
	TopResourcesReport(ctx context.Context, from, to time.Time, limit int) ([]domain.ResourceTotal, error)
}
