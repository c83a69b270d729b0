package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// ErrNoProviderConfigured is returned when a story arrives but no tracker
// provider is configured. It is the only permanent failure this service
// raises; every other empty-result condition completes as a no-op.
var ErrNoProviderConfigured = errors.New("no tracker provider configured")

// ProviderConfig describes the tracker provider to publish through. It is
// passed in at construction rather than looked up globally.
type ProviderConfig struct {
	// Type is the provider kind account bindings are matched against
	// (e.g. "jira").
	Type string

	// BaseURL is the tracker API base URL (scheme + host).
	BaseURL string
}

// Configured reports whether a provider has been set up.
func (p ProviderConfig) Configured() bool {
	return p.Type != "" && p.BaseURL != ""
}

// ActionConfig selects which publish actions are active.
type ActionConfig struct {
	// PostComment enables posting the story as an issue comment.
	PostComment bool

	// PostLink enables creating a remote link back to the subject.
	PostLink bool
}

// PublishService is the core domain service. It owns the business logic for
// resolving which tracker issues a story should be mirrored onto, which
// users may act as the publishing voice, and executing the publish attempts.
type PublishService struct {
	provider   ProviderConfig
	actions    ActionConfig
	edges      EdgeRepository
	records    ExternalRecordRepository
	accounts   ExternalAccountRepository
	tracker    TrackerClient
	publishers *PublisherRegistry
	stats      *PublishStats
	logger     *slog.Logger
}

// NewPublishService creates a PublishService. The tracker client must match
// the configured provider's base URL.
func NewPublishService(
	provider ProviderConfig,
	actions ActionConfig,
	edges EdgeRepository,
	records ExternalRecordRepository,
	accounts ExternalAccountRepository,
	tracker TrackerClient,
	logger *slog.Logger,
) *PublishService {
	return &PublishService{
		provider:   provider,
		actions:    actions,
		edges:      edges,
		records:    records,
		accounts:   accounts,
		tracker:    tracker,
		publishers: NewPublisherRegistry(),
		stats:      &PublishStats{},
		logger:     logger,
	}
}

// Stats returns the service's publish counters.
func (s *PublishService) Stats() *PublishStats {
	return s.stats
}

// PublishStory mirrors one story onto every tracker issue linked to its
// subject. Empty results at any stage (no linked issues, no viewable
// records, no candidate users) complete successfully without publishing.
// Only a missing provider configuration returns an error; per-account and
// per-record publish failures are logged and absorbed.
func (s *PublishService) PublishStory(ctx context.Context, story *Story, subject *Subject) error {
	if !s.provider.Configured() {
		return ErrNoProviderConfigured
	}
	s.stats.StoriesProcessed.Add(1)

	pub, err := s.publishers.For(subject)
	if err != nil {
		return fmt.Errorf("resolve publisher: %w", err)
	}

	byDomain, err := s.resolveLinks(ctx, subject)
	if err != nil {
		return fmt.Errorf("resolve linked records: %w", err)
	}
	if len(byDomain) == 0 {
		s.logger.Info("story subject has no linked tracker issues", "story", story.ID, "subject", subject.ID)
		return nil
	}

	candidates := buildCandidates(story, pub, subject)
	if len(candidates) == 0 {
		s.logger.Info("no users to act on linked tracker issues", "story", story.ID, "subject", subject.ID)
		return nil
	}

	// Deterministic domain order; record order within a domain follows the
	// repository result.
	domains := make([]string, 0, len(byDomain))
	for d := range byDomain {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	link := RemoteLinkInfo{
		SubjectID: subject.ID,
		URL:       pub.URIOf(subject),
		ShortName: subject.ShortName,
		Title:     subject.Title,
		Resolved:  pub.IsClosed(subject),
	}
	body := pub.TextOf(story, subject) + "\n\n" + pub.URIOf(subject)

	for _, d := range domains {
		accounts, err := s.resolveAccounts(ctx, d, candidates)
		if err != nil {
			return fmt.Errorf("resolve accounts for domain %s: %w", d, err)
		}
		for _, record := range byDomain[d] {
			s.publishRecord(ctx, record, accounts, body, link)
		}
	}
	return nil
}

// resolveLinks loads the tracker records linked to the subject, grouped by
// tracker domain. An empty map means there is nothing to publish to.
func (s *PublishService) resolveLinks(ctx context.Context, subject *Subject) (map[string][]ExternalRecord, error) {
	ids, err := s.edges.DestinationIDs(ctx, subject.ID, LinkedIssueEdge)
	if err != nil {
		return nil, fmt.Errorf("load linked issue edges: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	records, err := s.records.RecordsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load external records: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	byDomain := make(map[string][]ExternalRecord)
	for _, r := range records {
		byDomain[r.Domain] = append(byDomain[r.Domain], r)
	}
	return byDomain, nil
}

// resolveAccounts returns the usable account bindings for one domain, in
// candidate priority order. The result is always a subsequence of
// candidates: bindings are fetched in bulk, keyed by user, and re-emitted
// in candidate order, skipping candidates with no usable binding. Eligible
// accounts are domain-specific, so this runs once per domain.
func (s *PublishService) resolveAccounts(ctx context.Context, domain string, candidates []string) ([]ExternalAccount, error) {
	found, err := s.accounts.AccountsFor(ctx, AccountQuery{
		UserIDs:      candidates,
		ProviderType: s.provider.Type,
		Domain:       domain,
		Capabilities: []Capability{CapabilityView, CapabilityEdit},
	})
	if err != nil {
		return nil, err
	}

	// TODO: revisit if a user may link multiple accounts on one domain;
	// today the last binding per user wins.
	byUser := make(map[string]ExternalAccount, len(found))
	for _, a := range found {
		byUser[a.UserID] = a
	}

	ordered := make([]ExternalAccount, 0, len(byUser))
	for _, userID := range candidates {
		if a, ok := byUser[userID]; ok {
			ordered = append(ordered, a)
		}
	}
	return ordered, nil
}
