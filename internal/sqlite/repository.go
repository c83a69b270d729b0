package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/opengrove/feedbridge/internal/domain"
	_ "modernc.org/sqlite"
)

// Repository implements the domain repositories (edge graph, external
// records, external accounts, feed cursors) on a single SQLite database.
type Repository struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path, verifies the
// connection, and ensures the schema exists. The caller should call Close
// when the repository is no longer needed.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

func ensureSchema(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS edges (
			src_id        TEXT NOT NULL,
			relation_type TEXT NOT NULL,
			dst_id        TEXT NOT NULL,
			PRIMARY KEY (src_id, relation_type, dst_id)
		)`,
		`CREATE TABLE IF NOT EXISTS external_records (
			id         TEXT PRIMARY KEY,
			domain     TEXT NOT NULL,
			object_key TEXT NOT NULL,
			viewable   INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS external_accounts (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			provider_type TEXT NOT NULL,
			domain        TEXT NOT NULL,
			token         TEXT NOT NULL,
			can_view      INTEGER NOT NULL DEFAULT 0,
			can_edit      INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS feed_cursors (
			service      TEXT PRIMARY KEY,
			cursor_value INTEGER NOT NULL,
			updated_at   TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// DestinationIDs returns the destination IDs of all edges of the given
// relation type originating at sourceID.
func (r *Repository) DestinationIDs(ctx context.Context, sourceID, relationType string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT dst_id FROM edges
		WHERE src_id = ? AND relation_type = ?
		ORDER BY dst_id`,
		sourceID, relationType,
	)
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RecordsByIDs fetches viewable external records by ID. Unknown or
// non-viewable IDs are dropped.
func (r *Repository) RecordsByIDs(ctx context.Context, ids []string) ([]domain.ExternalRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := fmt.Sprintf(`
		SELECT id, domain, object_key FROM external_records
		WHERE viewable = 1 AND id IN (%s)
		ORDER BY id`,
		placeholders(len(ids)),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query external records: %w", err)
	}
	defer rows.Close()

	var records []domain.ExternalRecord
	for rows.Next() {
		var rec domain.ExternalRecord
		if err := rows.Scan(&rec.ID, &rec.Domain, &rec.ObjectKey); err != nil {
			return nil, fmt.Errorf("scan external record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// AccountsFor returns the account bindings matching the query. Result order
// is unspecified; the domain service re-orders by candidate priority.
func (r *Repository) AccountsFor(ctx context.Context, q domain.AccountQuery) ([]domain.ExternalAccount, error) {
	if len(q.UserIDs) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	args := make([]any, 0, len(q.UserIDs)+2)
	sb.WriteString(`
		SELECT id, user_id, provider_type, domain, token FROM external_accounts
		WHERE provider_type = ? AND domain = ?`)
	args = append(args, q.ProviderType, q.Domain)

	sb.WriteString(` AND user_id IN (` + placeholders(len(q.UserIDs)) + `)`)
	for _, id := range q.UserIDs {
		args = append(args, id)
	}

	for _, capability := range q.Capabilities {
		switch capability {
		case domain.CapabilityView:
			sb.WriteString(` AND can_view = 1`)
		case domain.CapabilityEdit:
			sb.WriteString(` AND can_edit = 1`)
		default:
			return nil, fmt.Errorf("unknown capability %q", capability)
		}
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query external accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.ExternalAccount
	for rows.Next() {
		var a domain.ExternalAccount
		if err := rows.Scan(&a.ID, &a.UserID, &a.ProviderType, &a.Domain, &a.Token); err != nil {
			return nil, fmt.Errorf("scan external account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// GetCursor retrieves the saved feed cursor for a service.
func (r *Repository) GetCursor(ctx context.Context, service string) (int64, error) {
	var cursor int64
	err := r.db.QueryRowContext(ctx,
		`SELECT cursor_value FROM feed_cursors WHERE service = ?`, service,
	).Scan(&cursor)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return cursor, err
}

// UpdateCursor upserts the feed cursor for a service.
func (r *Repository) UpdateCursor(ctx context.Context, service string, cursor int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feed_cursors (service, cursor_value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (service) DO UPDATE SET cursor_value = excluded.cursor_value, updated_at = excluded.updated_at`,
		service, cursor, time.Now().UTC(),
	)
	return err
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
