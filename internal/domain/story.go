package domain

// Story is an immutable activity event about a subject, delivered by the
// upstream feed. It carries everything needed to mirror the update onto
// linked tracker issues.
type Story struct {
	// ID uniquely identifies the story event.
	ID string

	// SubjectID is the identity of the object the story is about.
	SubjectID string

	// AuthorID is the identity of the user whose action produced the story.
	AuthorID string

	// Text is the rendered human-readable story text.
	Text string
}

// Subject is the internal object a story is about, snapshotted at the time
// the story was emitted.
type Subject struct {
	// ID is the subject's identity.
	ID string

	// Kind selects which Publisher renders this subject (e.g. "change").
	Kind string

	// ShortName is the compact human-readable name (e.g. "D123").
	ShortName string

	// Title is the full title of the subject.
	Title string

	// URI is the canonical web URI of the subject.
	URI string

	// Closed reports whether the subject has reached a terminal state.
	Closed bool

	// OwnerID is the identity of the subject's owner, empty if none.
	OwnerID string

	// ActiveUserIDs are users currently required to act on the subject.
	ActiveUserIDs []string

	// PassiveUserIDs are users involved with the subject but not blocking it.
	PassiveUserIDs []string

	// FollowerIDs are users subscribed to updates on the subject.
	FollowerIDs []string
}
