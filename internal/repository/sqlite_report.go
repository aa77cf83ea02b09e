package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/fieldplan/internal/db"
	"github.com/alexanderramin/fieldplan/internal/domain"
)

// SQLiteReportRepo implements ReportRepo using a SQLite database.
type SQLiteReportRepo struct {
	db db.DBTX
}

// NewSQLiteReportRepo creates a new SQLiteReportRepo.
func NewSQLiteReportRepo(db db.DBTX) *SQLiteReportRepo {
	return &SQLiteReportRepo{db: db}
}

// InterventionsByPeriod sums intervention quantities per type over the plans
// dated within the filter's range. The client filter is a case-insensitive
// substring match on the client name.
func (r *SQLiteReportRepo) InterventionsByPeriod(ctx context.Context, f domain.InterventionReportFilter) ([]domain.InterventionTotal, error) {
	var (
		where = []string{"h.day BETWEEN ? AND ?"}
		args  = []any{formatDay(f.From), formatDay(f.To)}
	)
	if name := strings.TrimSpace(f.ClientName); name != "" {
		where = append(where, "c.client_name LIKE '%' || ? || '%'")
		args = append(args, name)
	}
	if f.Username != "" {
		where = append(where, "EXISTS (SELECT 1 FROM detail_resources r WHERE r.detail_id = d.id AND r.username = ?)")
		args = append(args, f.Username)
	}
	if f.TypeID != 0 {
		where = append(where, "i.intervention_type_id = ?")
		args = append(args, f.TypeID)
	}

	query := `SELECT i.intervention_type_id, COALESCE(t.description, ''), SUM(i.quantity), COUNT(DISTINCT d.id)
		FROM detail_interventions i
		JOIN planning_details d ON d.id = i.detail_id
		JOIN planning_headers h ON h.id = d.header_id
		LEFT JOIN intervention_types t ON t.id = i.intervention_type_id
		LEFT JOIN clients c ON c.site_id = d.site_id
		WHERE ` + strings.Join(where, " AND ") + `
		GROUP BY i.intervention_type_id
		ORDER BY SUM(i.quantity) DESC, i.intervention_type_id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying interventions report: %w", err)
	}
	defer rows.Close()

	var out []domain.InterventionTotal
	for rows.Next() {
		var (
			tot  domain.InterventionTotal
			desc string
		)
		if err := rows.Scan(&tot.TypeID, &desc, &tot.Quantity, &tot.Rows); err != nil {
			return nil, fmt.Errorf("scanning interventions report: %w", err)
		}
		tot.TypeName = domain.InterventionType{ID: tot.TypeID, Description: desc}.Name()
		out = append(out, tot)
	}
	return out, rows.Err()
}

// TopResources ranks resources by the number of rows they are assigned to.
// A non-positive limit returns every resource.
func (r *SQLiteReportRepo) TopResources(ctx context.Context, from, to time.Time, limit int) ([]domain.ResourceTotal, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.username, COALESCE(res.first_name, ''), COALESCE(res.last_name, ''), COUNT(*)
		FROM detail_resources r
		JOIN planning_details d ON d.id = r.detail_id
		JOIN planning_headers h ON h.id = d.header_id
		LEFT JOIN resources res ON res.username = r.username
		WHERE h.day BETWEEN ? AND ?
		GROUP BY r.username
		ORDER BY COUNT(*) DESC, r.username
		LIMIT ?`,
		formatDay(from), formatDay(to), limit)
	if err != nil {
		return nil, fmt.Errorf("querying top resources: %w", err)
	}
	defer rows.Close()

	var out []domain.ResourceTotal
	for rows.Next() {
		var (
			tot         domain.ResourceTotal
			first, last string
		)
		if err := rows.Scan(&tot.Username, &first, &last, &tot.Rows); err != nil {
			return nil, fmt.Errorf("scanning top resources: %w", err)
		}
		tot.Name = domain.CoalesceStr(strings.TrimSpace(first+" "+last), tot.Username)
		out = append(out, tot)
	}
	return out, rows.Err()
}
