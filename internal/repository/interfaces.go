package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/fieldplan/internal/domain"
)

// HeaderRepo persists one planning header per calendar day.
type HeaderRepo interface {
	Create(ctx context.Context, h *domain.PlanningHeader) error
	GetByID(ctx context.Context, id int64) (*domain.PlanningHeader, error)
	GetByDay(ctx context.Context, day time.Time) (*domain.PlanningHeader, error)
	Update(ctx context.Context, id int64, upd domain.HeaderUpdate) error
	List(ctx context.Context, from, to time.Time) ([]domain.PlanningSummary, error)
}

// DetailRepo persists the detail rows of a header. ReplaceForHeader rewrites
// the complete row set and returns it as stored, in payload order.
type DetailRepo interface {
	ListByHeader(ctx context.Context, headerID int64) ([]domain.DetailRecord, error)
	ReplaceForHeader(ctx context.Context, headerID int64, details []domain.DetailPayload, user string) ([]domain.DetailRecord, error)
	Delete(ctx context.Context, id int64) error
}

type CatalogRepo interface {
	ListClients(ctx context.Context) ([]domain.Client, error)
	ListInterventionTypes(ctx context.Context) ([]domain.InterventionType, error)
	ListResources(ctx context.Context) ([]domain.Resource, error)
	UpsertClients(ctx context.Context, clients []domain.Client) error
	UpsertInterventionTypes(ctx context.Context, types []domain.InterventionType) error
	UpsertResources(ctx context.Context, resources []domain.Resource) error
}

type ReportRepo interface {
	InterventionsByPeriod(ctx context.Context, f domain.InterventionReportFilter) ([]domain.InterventionTotal, error)
	TopResources(ctx context.Context, from, to time.Time, limit int) ([]domain.ResourceTotal, error)
}

type OperationLogRepo interface {
	Append(ctx context.Context, entry *domain.OperationLog) error
	ListByHeader(ctx context.Context, headerID int64) ([]domain.OperationLog, error)
}
