package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/fieldplan/internal/db"
	"github.com/alexanderramin/fieldplan/internal/domain"
)

// SQLiteDetailRepo implements DetailRepo using a SQLite database.
type SQLiteDetailRepo struct {
	db db.DBTX
}

// NewSQLiteDetailRepo creates a new SQLiteDetailRepo.
func NewSQLiteDetailRepo(db db.DBTX) *SQLiteDetailRepo {
	return &SQLiteDetailRepo{db: db}
}

// ListByHeader returns the stored rows of a header in position order, with
// their resources and interventions attached.
func (r *SQLiteDetailRepo) ListByHeader(ctx context.Context, headerID int64) ([]domain.DetailRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, header_id, position, external_event_id, description, site_id, notes,
			time_slot, material_available, created_by, modified_by
		FROM planning_details WHERE header_id = ? ORDER BY position, id`, headerID)
	if err != nil {
		return nil, fmt.Errorf("listing planning details: %w", err)
	}

	var records []domain.DetailRecord
	for rows.Next() {
		var (
			rec      domain.DetailRecord
			extID    sql.NullString
			siteID   sql.NullInt64
			slot     string
			material int
		)
		if err := rows.Scan(&rec.ID, &rec.HeaderID, &rec.Position, &extID, &rec.Description, &siteID,
			&rec.Notes, &slot, &material, &rec.CreatedBy, &rec.ModifiedBy); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning planning detail: %w", err)
		}
		rec.ExternalEventID = extID.String
		rec.SiteID = int64Ptr(siteID)
		rec.TimeSlot = domain.TimeSlot(slot)
		rec.MaterialAvailable = material != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating planning details: %w", err)
	}
	rows.Close()

	// Child lookups run after the parent cursor is closed so a single
	// connection is never asked to serve two open result sets.
	if len(records) == 0 {
		return records, nil
	}
	byID := make(map[int64]*domain.DetailRecord, len(records))
	for i := range records {
		byID[records[i].ID] = &records[i]
	}
	if err := r.attachResources(ctx, headerID, byID); err != nil {
		return nil, err
	}
	if err := r.attachInterventions(ctx, headerID, byID); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *SQLiteDetailRepo) attachResources(ctx context.Context, headerID int64, byID map[int64]*domain.DetailRecord) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.detail_id, r.username FROM detail_resources r
		JOIN planning_details d ON d.id = r.detail_id
		WHERE d.header_id = ? ORDER BY r.detail_id, r.position`, headerID)
	if err != nil {
		return fmt.Errorf("listing detail resources: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			detailID int64
			username string
		)
		if err := rows.Scan(&detailID, &username); err != nil {
			return fmt.Errorf("scanning detail resource: %w", err)
		}
		if rec, ok := byID[detailID]; ok {
			rec.Resources = append(rec.Resources, username)
		}
	}
	return rows.Err()
}

func (r *SQLiteDetailRepo) attachInterventions(ctx context.Context, headerID int64, byID map[int64]*domain.DetailRecord) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT i.detail_id, i.intervention_type_id, i.quantity FROM detail_interventions i
		JOIN planning_details d ON d.id = i.detail_id
		WHERE d.header_id = ? ORDER BY i.detail_id, i.position`, headerID)
	if err != nil {
		return fmt.Errorf("listing detail interventions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			detailID int64
			ip       domain.InterventionPayload
		)
		if err := rows.Scan(&detailID, &ip.TypeID, &ip.Quantity); err != nil {
			return fmt.Errorf("scanning detail intervention: %w", err)
		}
		if rec, ok := byID[detailID]; ok {
			rec.Interventions = append(rec.Interventions, ip)
		}
	}
	return rows.Err()
}

// ReplaceForHeader makes details the complete row set of the header. Payloads
// carrying a stored id update that row in place; the rest are inserted. Rows
// of the header that are absent from details are deleted. The result is in
// payload order.
func (r *SQLiteDetailRepo) ReplaceForHeader(ctx context.Context, headerID int64, details []domain.DetailPayload, user string) ([]domain.DetailRecord, error) {
	existing, err := r.detailIDs(ctx, headerID)
	if err != nil {
		return nil, err
	}

	now := nowUTC()
	kept := make(map[int64]bool, len(details))
	ids := make([]int64, len(details))
	for pos, p := range details {
		slot := p.TimeSlot.OrDefault()
		if p.ID != 0 && existing[p.ID] && !kept[p.ID] {
			_, err := r.db.ExecContext(ctx,
				`UPDATE planning_details SET position = ?, external_event_id = ?, description = ?, site_id = ?,
					notes = ?, time_slot = ?, material_available = ?, modified_by = ?, updated_at = ?
				WHERE id = ?`,
				pos, nullableString(p.ExternalEventID), p.Description, nullableInt64(p.SiteID),
				p.Notes, string(slot), boolToInt(p.MaterialAvailable), user, now, p.ID,
			)
			if err != nil {
				return nil, fmt.Errorf("updating planning detail %d: %w", p.ID, err)
			}
			ids[pos] = p.ID
		} else {
			res, err := r.db.ExecContext(ctx,
				`INSERT INTO planning_details (header_id, position, external_event_id, description, site_id,
					notes, time_slot, material_available, created_by, modified_by, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				headerID, pos, nullableString(p.ExternalEventID), p.Description, nullableInt64(p.SiteID),
				p.Notes, string(slot), boolToInt(p.MaterialAvailable), user, user, now, now,
			)
			if err != nil {
				return nil, fmt.Errorf("inserting planning detail: %w", err)
			}
			if ids[pos], err = res.LastInsertId(); err != nil {
				return nil, fmt.Errorf("reading planning detail id: %w", err)
			}
		}
		kept[ids[pos]] = true

		if err := r.replaceChildren(ctx, ids[pos], p); err != nil {
			return nil, err
		}
	}

	for id := range existing {
		if kept[id] {
			continue
		}
		if _, err := r.db.ExecContext(ctx, `DELETE FROM planning_details WHERE id = ?`, id); err != nil {
			return nil, fmt.Errorf("deleting superseded detail %d: %w", id, err)
		}
	}

	return r.ListByHeader(ctx, headerID)
}

func (r *SQLiteDetailRepo) replaceChildren(ctx context.Context, detailID int64, p domain.DetailPayload) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM detail_resources WHERE detail_id = ?`, detailID); err != nil {
		return fmt.Errorf("clearing detail resources: %w", err)
	}
	for i, username := range p.Resources {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO detail_resources (detail_id, username, position) VALUES (?, ?, ?)`,
			detailID, username, i); err != nil {
			return fmt.Errorf("inserting detail resource: %w", err)
		}
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM detail_interventions WHERE detail_id = ?`, detailID); err != nil {
		return fmt.Errorf("clearing detail interventions: %w", err)
	}
	for i, ip := range p.Interventions {
		qty := ip.Quantity
		if qty < 1 {
			qty = 1
		}
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO detail_interventions (detail_id, intervention_type_id, quantity, position)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(detail_id, intervention_type_id) DO UPDATE SET quantity = excluded.quantity`,
			detailID, ip.TypeID, qty, i); err != nil {
			return fmt.Errorf("inserting detail intervention: %w", err)
		}
	}
	return nil
}

func (r *SQLiteDetailRepo) detailIDs(ctx context.Context, headerID int64) (map[int64]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM planning_details WHERE header_id = ?`, headerID)
	if err != nil {
		return nil, fmt.Errorf("listing detail ids: %w", err)
	}
	defer rows.Close()
	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning detail id: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// Delete removes a stored row. Resources and interventions cascade.
func (r *SQLiteDetailRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM planning_details WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting planning detail: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("planning detail %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
