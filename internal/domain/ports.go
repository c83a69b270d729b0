package domain

import "context"

// EdgeRepository reads the edge graph linking subjects to other objects.
type EdgeRepository interface {
	// DestinationIDs returns the identities of all edges of the given
	// relation type originating at sourceID. Returns an empty slice if the
	// source has no such edges.
	DestinationIDs(ctx context.Context, sourceID, relationType string) ([]string, error)
}

// ExternalRecordRepository reads linked tracker records.
type ExternalRecordRepository interface {
	// RecordsByIDs fetches the external records with the given identities,
	// filtered to those the service is permitted to view. Unknown or
	// non-viewable IDs are silently dropped.
	RecordsByIDs(ctx context.Context, ids []string) ([]ExternalRecord, error)
}

// AccountQuery selects external account bindings.
type AccountQuery struct {
	// UserIDs restricts results to accounts owned by these users.
	UserIDs []string

	// ProviderType restricts results to one tracker provider kind.
	ProviderType string

	// Domain restricts results to one tracker instance.
	Domain string

	// Capabilities are the permissions every returned binding must carry.
	Capabilities []Capability
}

// ExternalAccountRepository reads external account bindings.
type ExternalAccountRepository interface {
	// AccountsFor returns all account bindings matching the query. Result
	// order is unspecified; callers impose their own ordering.
	AccountsFor(ctx context.Context, q AccountQuery) ([]ExternalAccount, error)
}

// CursorRepository persists the feed resume cursor.
type CursorRepository interface {
	// GetCursor retrieves the last-processed feed cursor for the given
	// service name. Returns 0 if no cursor has been saved.
	GetCursor(ctx context.Context, service string) (int64, error)

	// UpdateCursor persists the feed cursor so we can resume on restart.
	UpdateCursor(ctx context.Context, service string, cursor int64) error
}

// TrackerClient issues publish calls against an external tracker,
// authenticated as a specific account. A nil return means the call was
// accepted; any error is treated as a failed attempt for that account.
type TrackerClient interface {
	// PostComment creates a comment on the issue identified by key.
	PostComment(ctx context.Context, account ExternalAccount, key, body string) error

	// PostRemoteLink creates or updates a remote link on the issue
	// identified by key.
	PostRemoteLink(ctx context.Context, account ExternalAccount, key string, link RemoteLinkInfo) error
}
