package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/fieldplan/internal/db"
	"github.com/alexanderramin/fieldplan/internal/domain"
)

// SQLiteHeaderRepo implements HeaderRepo using a SQLite database.
type SQLiteHeaderRepo struct {
	db db.DBTX
}

// NewSQLiteHeaderRepo creates a new SQLiteHeaderRepo.
func NewSQLiteHeaderRepo(db db.DBTX) *SQLiteHeaderRepo {
	return &SQLiteHeaderRepo{db: db}
}

const headerColumns = `id, day, status, revision, created_by, modified_by, created_at, updated_at`

// Create inserts h and assigns its ID and timestamps.
func (r *SQLiteHeaderRepo) Create(ctx context.Context, h *domain.PlanningHeader) error {
	if err := h.Validate(); err != nil {
		return err
	}
	now := nowUTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO planning_headers (day, status, revision, created_by, modified_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		formatDay(h.Day), string(h.Status), h.Revision, h.CreatedBy, h.ModifiedBy, now, now,
	)
	if err != nil {
		return fmt.Errorf("inserting planning header: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading planning header id: %w", err)
	}
	h.ID = id
	h.Day = domain.NormalizeDay(h.Day)
	h.CreatedAt = parseTimestamp(now)
	h.UpdatedAt = h.CreatedAt
	return nil
}

func (r *SQLiteHeaderRepo) GetByID(ctx context.Context, id int64) (*domain.PlanningHeader, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+headerColumns+` FROM planning_headers WHERE id = ?`, id)
	h, err := scanHeader(row)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("planning %d: %w", id, err)
	}
	return h, err
}

func (r *SQLiteHeaderRepo) GetByDay(ctx context.Context, day time.Time) (*domain.PlanningHeader, error) {
	key := formatDay(day)
	row := r.db.QueryRowContext(ctx, `SELECT `+headerColumns+` FROM planning_headers WHERE day = ?`, key)
	h, err := scanHeader(row)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("planning for %s: %w", key, err)
	}
	return h, err
}

// Update applies the status, revision and attribution of upd. Details are
// not touched here; see DetailRepo.ReplaceForHeader.
func (r *SQLiteHeaderRepo) Update(ctx context.Context, id int64, upd domain.HeaderUpdate) error {
	if !domain.ValidPlanStatuses[string(upd.Status)] {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, upd.Status)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE planning_headers SET status = ?, revision = ?, modified_by = ?, updated_at = ? WHERE id = ?`,
		string(upd.Status), upd.Revision, upd.ModifiedBy, nowUTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating planning header: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("planning %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List returns the plans whose day falls within [from, to], ordered by day.
func (r *SQLiteHeaderRepo) List(ctx context.Context, from, to time.Time) ([]domain.PlanningSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT h.id, h.day, h.status, h.revision, h.created_by, h.modified_by, h.updated_at,
			(SELECT COUNT(*) FROM planning_details d WHERE d.header_id = h.id)
		FROM planning_headers h
		WHERE h.day BETWEEN ? AND ?
		ORDER BY h.day`,
		formatDay(from), formatDay(to),
	)
	if err != nil {
		return nil, fmt.Errorf("listing planning headers: %w", err)
	}
	defer rows.Close()

	var out []domain.PlanningSummary
	for rows.Next() {
		var (
			s                   domain.PlanningSummary
			day, status, update string
		)
		if err := rows.Scan(&s.ID, &day, &status, &s.Revision, &s.CreatedBy, &s.ModifiedBy, &update, &s.RowCount); err != nil {
			return nil, fmt.Errorf("scanning planning summary: %w", err)
		}
		if s.Day, err = parseDay(day); err != nil {
			return nil, err
		}
		s.Status = domain.PlanStatus(status)
		s.Locked = s.Status.Locked()
		s.UpdatedAt = parseTimestamp(update)
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanHeader(row *sql.Row) (*domain.PlanningHeader, error) {
	var (
		h                           domain.PlanningHeader
		day, status, created, update string
	)
	err := row.Scan(&h.ID, &day, &status, &h.Revision, &h.CreatedBy, &h.ModifiedBy, &created, &update)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning planning header: %w", err)
	}
	if h.Day, err = parseDay(day); err != nil {
		return nil, err
	}
	h.Status = domain.PlanStatus(status)
	h.CreatedAt = parseTimestamp(created)
	h.UpdatedAt = parseTimestamp(update)
	return &h, nil
}
