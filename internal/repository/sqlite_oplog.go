package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/fieldplan/internal/db"
	"github.com/alexanderramin/fieldplan/internal/domain"
)

// SQLiteOperationLogRepo implements OperationLogRepo using a SQLite database.
type SQLiteOperationLogRepo struct {
	db db.DBTX
}

// NewSQLiteOperationLogRepo creates a new SQLiteOperationLogRepo.
func NewSQLiteOperationLogRepo(db db.DBTX) *SQLiteOperationLogRepo {
	return &SQLiteOperationLogRepo{db: db}
}

func (r *SQLiteOperationLogRepo) Append(ctx context.Context, entry *domain.OperationLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO operation_logs (header_id, operation, description, user, created_at) VALUES (?, ?, ?, ?, ?)`,
		entry.HeaderID, string(entry.Operation), entry.Description, entry.User, entry.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting operation log: %w", err)
	}
	if entry.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("reading operation log id: %w", err)
	}
	return nil
}

func (r *SQLiteOperationLogRepo) ListByHeader(ctx context.Context, headerID int64) ([]domain.OperationLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, header_id, operation, description, user, created_at
		FROM operation_logs WHERE header_id = ? ORDER BY id`, headerID)
	if err != nil {
		return nil, fmt.Errorf("listing operation logs: %w", err)
	}
	defer rows.Close()

	var out []domain.OperationLog
	for rows.Next() {
		var (
			e           domain.OperationLog
			op, created string
		)
		if err := rows.Scan(&e.ID, &e.HeaderID, &op, &e.Description, &e.User, &created); err != nil {
			return nil, fmt.Errorf("scanning operation log: %w", err)
		}
		e.Operation = domain.OperationKind(op)
		e.CreatedAt = parseTimestamp(created)
		out = append(out, e)
	}
	return out, rows.Err()
}
