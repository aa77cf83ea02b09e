package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/fieldplan/internal/domain"
	"github.com/alexanderramin/fieldplan/internal/repository"
)

// Day parses a YYYY-MM-DD literal and panics on malformed input.
func Day(s string) time.Time {
	d, err := domain.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Header options
type HeaderOption func(*domain.PlanningHeader)

func WithStatus(s domain.PlanStatus) HeaderOption {
	return func(h *domain.PlanningHeader) {
		h.Status = s
	}
}

func WithRevision(r int) HeaderOption {
	return func(h *domain.PlanningHeader) {
		h.Revision = r
	}
}

func WithAttribution(user string) HeaderOption {
	return func(h *domain.PlanningHeader) {
		h.CreatedBy = user
		h.ModifiedBy = user
	}
}

func NewTestHeader(day time.Time, opts ...HeaderOption) *domain.PlanningHeader {
	h := &domain.PlanningHeader{
		Day:        domain.NormalizeDay(day),
		Status:     domain.StatusNew,
		CreatedBy:  "test",
		ModifiedBy: "test",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Event options
type EventOption func(*domain.CalendarEvent)

func WithEventSlot(s domain.TimeSlot) EventOption {
	return func(e *domain.CalendarEvent) {
		e.TimeSlot = s
	}
}

func WithEventColor(c string) EventOption {
	return func(e *domain.CalendarEvent) {
		e.Color = c
	}
}

func WithEventMaterial(available bool) EventOption {
	return func(e *domain.CalendarEvent) {
		e.MaterialAvailable = &available
	}
}

func NewTestEvent(id, title string, opts ...EventOption) domain.CalendarEvent {
	e := domain.CalendarEvent{ExternalID: id, Title: title}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Catalog ids used by TestCatalogs.
const (
	SiteSogesa     int64 = 10
	SiteSogesaNord int64 = 11
	SiteMichelino  int64 = 20

	TypeBoiler int64 = 1
	TypePump   int64 = 2
	TypeSurvey int64 = 3
)

// TestCatalogs returns a small fixed catalog set.
func TestCatalogs() *domain.Catalogs {
	return &domain.Catalogs{
		Clients: []domain.Client{
			{SiteID: SiteSogesa, ClientName: "Sogesa", SiteName: domain.SameSiteMarker},
			{SiteID: SiteSogesaNord, ClientName: "Sogesa", SiteName: "Magazzino Nord"},
			{SiteID: SiteMichelino, ClientName: "V. Michelino", SiteName: domain.SameSiteMarker},
		},
		InterventionTypes: []domain.InterventionType{
			{ID: TypeBoiler, Description: "Manutenzione caldaia"},
			{ID: TypePump, Description: "Sostituzione pompa"},
			{ID: TypeSurvey, Description: "Sopralluogo"},
		},
		Resources: []domain.Resource{
			{Username: "mrossi", FirstName: "Mario", LastName: "Rossi"},
			{Username: "lbianchi", FirstName: "Luca", LastName: "Bianchi"},
			{Username: "tech3"},
		},
	}
}

// SeedCatalogs writes TestCatalogs into database.
func SeedCatalogs(t *testing.T, database *sql.DB) *domain.Catalogs {
	t.Helper()
	cat := TestCatalogs()
	repo := repository.NewSQLiteCatalogRepo(database)
	ctx := context.Background()
	if err := repo.UpsertClients(ctx, cat.Clients); err != nil {
		t.Fatalf("seeding clients: %v", err)
	}
	if err := repo.UpsertInterventionTypes(ctx, cat.InterventionTypes); err != nil {
		t.Fatalf("seeding intervention types: %v", err)
	}
	if err := repo.UpsertResources(ctx, cat.Resources); err != nil {
		t.Fatalf("seeding resources: %v", err)
	}
	return cat
}

// SiteID returns a pointer to id, for payload literals.
func SiteID(id int64) *int64 {
	return &id
}
