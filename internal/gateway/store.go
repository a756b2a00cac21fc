package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CommandRecord is one audited gateway call. Failed calls are recorded
// too, with the mapped status and extracted device message.
type CommandRecord struct {
	ID         int64     `json:"id"`
	RouterID   string    `json:"router_id"`
	Protocol   string    `json:"protocol"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Status     int       `json:"status"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// GatewayStore provides database access for the Gateway module.
type GatewayStore struct {
	db *sql.DB
}

// NewGatewayStore creates a new GatewayStore wrapping the given database connection.
func NewGatewayStore(db *sql.DB) *GatewayStore {
	return &GatewayStore{db: db}
}

// InsertCommand records an executed gateway command.
func (s *GatewayStore) InsertCommand(ctx context.Context, rec *CommandRecord) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO gateway_audit_log (router_id, protocol, method, path, status, outcome, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RouterID, rec.Protocol, rec.Method, rec.Path,
		rec.Status, rec.Outcome, rec.Error, rec.DurationMS, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert gateway audit row: %w", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

// ListCommands returns audit rows, optionally filtered by router ID.
// Pass empty routerID to list all rows.
func (s *GatewayStore) ListCommands(ctx context.Context, routerID string, limit int) ([]CommandRecord, error) {
	var query string
	var args []any

	if routerID != "" {
		query = `SELECT id, router_id, protocol, method, path, status, outcome, error, duration_ms, created_at
			FROM gateway_audit_log WHERE router_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`
		args = []any{routerID, limit}
	} else {
		query = `SELECT id, router_id, protocol, method, path, status, outcome, error, duration_ms, created_at
			FROM gateway_audit_log ORDER BY created_at DESC, id DESC LIMIT ?`
		args = []any{limit}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list gateway audit rows: %w", err)
	}
	defer rows.Close()

	var records []CommandRecord
	for rows.Next() {
		var rec CommandRecord
		if err := rows.Scan(&rec.ID, &rec.RouterID, &rec.Protocol, &rec.Method,
			&rec.Path, &rec.Status, &rec.Outcome, &rec.Error,
			&rec.DurationMS, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan gateway audit row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteOldCommands deletes audit rows older than the given time.
func (s *GatewayStore) DeleteOldCommands(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM gateway_audit_log WHERE created_at < ?`, before)
	if err != nil {
		return 0, fmt.Errorf("delete old gateway audit rows: %w", err)
	}
	return result.RowsAffected()
}

// CommandCount returns the total number of audit rows.
func (s *GatewayStore) CommandCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM gateway_audit_log`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count gateway audit rows: %w", err)
	}
	return count, nil
}
