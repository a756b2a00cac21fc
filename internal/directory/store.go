package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/HerbHall/wispgate/pkg/models"
	"github.com/HerbHall/wispgate/pkg/roles"
)

// ErrNotFound indicates no directory record matched the requested ID.
// It aliases the cross-plugin sentinel so consumers resolving this plugin
// through its role never import the internal package.
var ErrNotFound = roles.ErrRouterNotFound

// RouterRecord is a directory row with the credential still sealed.
type RouterRecord struct {
	ID             string
	Name           string
	Host           string
	Port           int
	APIType        string
	Username       string
	SealedPassword []byte
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Public returns the record as an API-facing router with no credential.
func (rec *RouterRecord) Public() models.Router {
	return models.Router{
		ID:        rec.ID,
		Name:      rec.Name,
		Host:      rec.Host,
		Port:      rec.Port,
		APIType:   models.APIType(rec.APIType),
		User:      rec.Username,
		Notes:     rec.Notes,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

// MetaRecord is the singleton sealing metadata row.
type MetaRecord struct {
	Salt         []byte
	Verification []byte
}

// RouterStore provides database access for the Directory module.
type RouterStore struct {
	db *sql.DB
}

// NewRouterStore creates a RouterStore wrapping the given database connection.
func NewRouterStore(db *sql.DB) *RouterStore {
	return &RouterStore{db: db}
}

// --- Sealing metadata ---

// GetMeta returns the singleton sealing metadata, or nil if the directory
// has never sealed anything.
func (s *RouterStore) GetMeta(ctx context.Context) (*MetaRecord, error) {
	var rec MetaRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT salt, verification_blob FROM directory_meta WHERE id = 1`,
	).Scan(&rec.Salt, &rec.Verification)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sealing metadata: %w", err)
	}
	return &rec, nil
}

// UpsertMeta inserts or updates the singleton sealing metadata row.
func (s *RouterStore) UpsertMeta(ctx context.Context, salt, verification []byte) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO directory_meta (id, salt, verification_blob, created_at, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			salt = excluded.salt,
			verification_blob = excluded.verification_blob,
			updated_at = excluded.updated_at`,
		salt, verification, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert sealing metadata: %w", err)
	}
	return nil
}

// --- Routers ---

// InsertRouter inserts a new router record.
func (s *RouterStore) InsertRouter(ctx context.Context, rec *RouterRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO directory_routers (id, name, host, port, api_type, username, sealed_password, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Host, rec.Port, rec.APIType, rec.Username,
		rec.SealedPassword, rec.Notes, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert router: %w", err)
	}
	return nil
}

// GetRouter returns a router record by ID. Returns nil, nil if not found.
func (s *RouterStore) GetRouter(ctx context.Context, id string) (*RouterRecord, error) {
	var rec RouterRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, host, port, api_type, username, sealed_password, notes, created_at, updated_at
		FROM directory_routers WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.Name, &rec.Host, &rec.Port, &rec.APIType, &rec.Username,
		&rec.SealedPassword, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get router: %w", err)
	}
	return &rec, nil
}

// ListRouters returns all router records ordered by creation time.
func (s *RouterStore) ListRouters(ctx context.Context) ([]RouterRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, host, port, api_type, username, sealed_password, notes, created_at, updated_at
		FROM directory_routers ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list routers: %w", err)
	}
	defer rows.Close()

	var recs []RouterRecord
	for rows.Next() {
		var rec RouterRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Host, &rec.Port, &rec.APIType,
			&rec.Username, &rec.SealedPassword, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan router row: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// UpdateRouter updates an existing router record.
func (s *RouterStore) UpdateRouter(ctx context.Context, rec *RouterRecord) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE directory_routers SET
			name = ?, host = ?, port = ?, api_type = ?, username = ?,
			sealed_password = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		rec.Name, rec.Host, rec.Port, rec.APIType, rec.Username,
		rec.SealedPassword, rec.Notes, rec.UpdatedAt, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("update router: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRouter deletes a router record by ID.
func (s *RouterStore) DeleteRouter(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM directory_routers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete router: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// RouterCount returns the total number of directory records.
func (s *RouterStore) RouterCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM directory_routers`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count routers: %w", err)
	}
	return count, nil
}
