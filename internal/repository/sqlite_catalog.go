package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/fieldplan/internal/db"
	"github.com/alexanderramin/fieldplan/internal/domain"
)

// SQLiteCatalogRepo implements CatalogRepo using a SQLite database.
type SQLiteCatalogRepo struct {
	db db.DBTX
}

// NewSQLiteCatalogRepo creates a new SQLiteCatalogRepo.
func NewSQLiteCatalogRepo(db db.DBTX) *SQLiteCatalogRepo {
	return &SQLiteCatalogRepo{db: db}
}

func (r *SQLiteCatalogRepo) ListClients(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT site_id, client_name, site_name FROM clients ORDER BY client_name COLLATE NOCASE, site_name`)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var out []domain.Client
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.SiteID, &c.ClientName, &c.SiteName); err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteCatalogRepo) ListInterventionTypes(ctx context.Context) ([]domain.InterventionType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, description FROM intervention_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing intervention types: %w", err)
	}
	defer rows.Close()

	var out []domain.InterventionType
	for rows.Next() {
		var t domain.InterventionType
		if err := rows.Scan(&t.ID, &t.Description); err != nil {
			return nil, fmt.Errorf("scanning intervention type: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteCatalogRepo) ListResources(ctx context.Context) ([]domain.Resource, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT username, first_name, last_name FROM resources ORDER BY last_name COLLATE NOCASE, first_name, username`)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	defer rows.Close()

	var out []domain.Resource
	for rows.Next() {
		var res domain.Resource
		if err := rows.Scan(&res.Username, &res.FirstName, &res.LastName); err != nil {
			return nil, fmt.Errorf("scanning resource: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *SQLiteCatalogRepo) UpsertClients(ctx context.Context, clients []domain.Client) error {
	for _, c := range clients {
		if c.SiteID == 0 || c.ClientName == "" {
			return fmt.Errorf("%w: client requires site id and name", domain.ErrValidation)
		}
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO clients (site_id, client_name, site_name) VALUES (?, ?, ?)
			ON CONFLICT(site_id) DO UPDATE SET client_name = excluded.client_name, site_name = excluded.site_name`,
			c.SiteID, c.ClientName, c.SiteName); err != nil {
			return fmt.Errorf("upserting client %d: %w", c.SiteID, err)
		}
	}
	return nil
}

func (r *SQLiteCatalogRepo) UpsertInterventionTypes(ctx context.Context, types []domain.InterventionType) error {
	for _, t := range types {
		if t.ID == 0 {
			return fmt.Errorf("%w: intervention type requires an id", domain.ErrValidation)
		}
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO intervention_types (id, description) VALUES (?, ?)
			ON CONFLICT(id) DO UPDATE SET description = excluded.description`,
			t.ID, t.Description); err != nil {
			return fmt.Errorf("upserting intervention type %d: %w", t.ID, err)
		}
	}
	return nil
}

func (r *SQLiteCatalogRepo) UpsertResources(ctx context.Context, resources []domain.Resource) error {
	for _, res := range resources {
		if res.Username == "" {
			return fmt.Errorf("%w: resource requires a username", domain.ErrValidation)
		}
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO resources (username, first_name, last_name) VALUES (?, ?, ?)
			ON CONFLICT(username) DO UPDATE SET first_name = excluded.first_name, last_name = excluded.last_name`,
			res.Username, res.FirstName, res.LastName); err != nil {
			return fmt.Errorf("upserting resource %s: %w", res.Username, err)
		}
	}
	return nil
}
