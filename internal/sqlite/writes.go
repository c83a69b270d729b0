package sqlite

import (
	"context"

	"github.com/opengrove/feedbridge/internal/domain"
)

// The write side of the store is populated by upstream sync (the link graph
// and account bindings are established elsewhere); these helpers exist for
// that sync path, the backfill CLI, and tests.

// PutEdge records an edge between two objects. Inserting an existing edge
// is a no-op.
func (r *Repository) PutEdge(ctx context.Context, sourceID, relationType, destinationID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO edges (src_id, relation_type, dst_id)
		VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING`,
		sourceID, relationType, destinationID,
	)
	return err
}

// PutExternalRecord upserts a linked tracker record.
func (r *Repository) PutExternalRecord(ctx context.Context, rec domain.ExternalRecord, viewable bool) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO external_records (id, domain, object_key, viewable)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET domain = excluded.domain, object_key = excluded.object_key, viewable = excluded.viewable`,
		rec.ID, rec.Domain, rec.ObjectKey, boolInt(viewable),
	)
	return err
}

// PutExternalAccount upserts an account binding with its capabilities.
func (r *Repository) PutExternalAccount(ctx context.Context, a domain.ExternalAccount, canView, canEdit bool) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO external_accounts (id, user_id, provider_type, domain, token, can_view, can_edit)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			user_id = excluded.user_id,
			provider_type = excluded.provider_type,
			domain = excluded.domain,
			token = excluded.token,
			can_view = excluded.can_view,
			can_edit = excluded.can_edit`,
		a.ID, a.UserID, a.ProviderType, a.Domain, a.Token, boolInt(canView), boolInt(canEdit),
	)
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
