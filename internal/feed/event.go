package feed

// storyEvent is the raw JSON structure delivered by the story feed.
type storyEvent struct {
	TimeUS int64         `json:"time_us"`
	Kind   string        `json:"kind"`
	Story  *storyRecord  `json:"story,omitempty"`
	Object *objectRecord `json:"object,omitempty"`
}

// storyRecord is the raw story payload.
type storyRecord struct {
	ID        string `json:"id"`
	SubjectID string `json:"subject_id"`
	AuthorID  string `json:"author_id"`
	Text      string `json:"text"`
}

// objectRecord is the snapshot of the story's subject at emit time.
type objectRecord struct {
	ID             string   `json:"id"`
	Kind           string   `json:"kind"`
	ShortName      string   `json:"short_name"`
	Title          string   `json:"title"`
	URI            string   `json:"uri"`
	Closed         bool     `json:"closed"`
	OwnerID        string   `json:"owner_id"`
	ActiveUserIDs  []string `json:"active_user_ids"`
	PassiveUserIDs []string `json:"passive_user_ids"`
	FollowerIDs    []string `json:"follower_ids"`
}
