package domain

// LinkedIssueEdge is the relation type connecting a subject to the tracker
// issues it is linked to in the edge graph.
const LinkedIssueEdge = "has-linked-issue"

// ExternalRecord is one linked row in an external tracker.
type ExternalRecord struct {
	// ID is the internal identity of the linked record.
	ID string

	// Domain identifies which tracker instance the record lives on. A
	// single provider may span several domains (e.g. multiple JIRA sites).
	Domain string

	// ObjectKey is the tracker-native identifier (e.g. "PROJ-42").
	ObjectKey string
}

// ExternalAccount binds an internal user to an account on one tracker
// domain, with the permissions needed to act as that user.
type ExternalAccount struct {
	// ID is the internal identity of the binding.
	ID string

	// UserID is the internal user the account belongs to.
	UserID string

	// ProviderType is the tracker provider kind (e.g. "jira").
	ProviderType string

	// Domain is the tracker instance the account is valid on.
	Domain string

	// Token is the credential used to authenticate calls as this account.
	Token string
}

// Capability names a permission required on an external account binding.
type Capability string

const (
	CapabilityView Capability = "view"
	CapabilityEdit Capability = "edit"
)

// RemoteLinkInfo carries the subject-derived fields of a tracker remote
// link. The tracker client maps it onto the provider's wire format.
type RemoteLinkInfo struct {
	// SubjectID is the global identity embedded in the link so repeated
	// publishes update the same remote link instead of accumulating.
	SubjectID string

	// URL is the subject's canonical web URI.
	URL string

	// ShortName is the link title (the subject's compact name).
	ShortName string

	// Title is the link summary (the subject's full title).
	Title string

	// Resolved mirrors the subject's closed state onto the link status.
	Resolved bool
}
