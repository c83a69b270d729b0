package domain

import "fmt"

// Publisher exposes the story-relevant view of one subject kind. Each kind
// of publishable object registers its own Publisher; the worker never
// inspects subjects directly.
type Publisher interface {
	// OwnerOf returns the subject's owner identity, empty if unowned.
	OwnerOf(s *Subject) string

	// ActiveUsersOf returns users currently required to act on the subject.
	ActiveUsersOf(s *Subject) []string

	// PassiveUsersOf returns users involved with the subject but not
	// blocking it.
	PassiveUsersOf(s *Subject) []string

	// FollowersOf returns users subscribed to the subject.
	FollowersOf(s *Subject) []string

	// URIOf returns the subject's canonical web URI.
	URIOf(s *Subject) string

	// TextOf renders the outbound story text for the subject.
	TextOf(story *Story, s *Subject) string

	// IsClosed reports whether the subject is in a terminal state.
	IsClosed(s *Subject) bool
}

// PublisherRegistry maps subject kinds to their Publisher.
type PublisherRegistry struct {
	publishers map[string]Publisher
}

// NewPublisherRegistry returns a registry with the built-in publishers
// registered.
func NewPublisherRegistry() *PublisherRegistry {
	r := &PublisherRegistry{publishers: make(map[string]Publisher)}
	r.Register(SubjectKindChange, changePublisher{})
	return r
}

// Register adds a publisher for a subject kind, replacing any existing one.
func (r *PublisherRegistry) Register(kind string, p Publisher) {
	r.publishers[kind] = p
}

// For returns the publisher for a subject's kind.
func (r *PublisherRegistry) For(s *Subject) (Publisher, error) {
	p, ok := r.publishers[s.Kind]
	if !ok {
		return nil, fmt.Errorf("no publisher registered for subject kind %q", s.Kind)
	}
	return p, nil
}

// SubjectKindChange is the subject kind for reviewable code changes.
const SubjectKindChange = "change"

// changePublisher publishes reviewable changes. Active users are the
// reviewers still expected to act; passive users are past reviewers and
// commenters; followers are explicit subscribers.
type changePublisher struct{}

func (changePublisher) OwnerOf(s *Subject) string          { return s.OwnerID }
func (changePublisher) ActiveUsersOf(s *Subject) []string  { return s.ActiveUserIDs }
func (changePublisher) PassiveUsersOf(s *Subject) []string { return s.PassiveUserIDs }
func (changePublisher) FollowersOf(s *Subject) []string    { return s.FollowerIDs }
func (changePublisher) URIOf(s *Subject) string            { return s.URI }
func (changePublisher) IsClosed(s *Subject) bool           { return s.Closed }

func (changePublisher) TextOf(story *Story, s *Subject) string {
	return story.Text
}
