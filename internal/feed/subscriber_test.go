package feed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengrove/feedbridge/internal/domain"
)

func TestParseEvent_Story(t *testing.T) {
	raw := []byte(`{
		"time_us": 1700000000000001,
		"kind": "story",
		"story": {
			"id": "ST1",
			"subject_id": "S1",
			"author_id": "U2",
			"text": "U2 updated the change."
		},
		"object": {
			"id": "S1",
			"kind": "change",
			"short_name": "D42",
			"title": "Fix the frobnicator",
			"uri": "https://code.example.com/D42",
			"closed": true,
			"owner_id": "U1",
			"active_user_ids": ["U2"],
			"follower_ids": ["U3"]
		}
	}`)

	event, err := parseEvent(raw)
	require.NoError(t, err)

	assert.Equal(t, int64(1700000000000001), event.TimeUS)
	assert.Equal(t, "story", event.Kind)
	require.NotNil(t, event.Story)
	assert.Equal(t, "ST1", event.Story.ID)
	assert.Equal(t, "U2", event.Story.AuthorID)
	require.NotNil(t, event.Object)
	assert.Equal(t, "D42", event.Object.ShortName)
	assert.True(t, event.Object.Closed)
	assert.Equal(t, []string{"U2"}, event.Object.ActiveUserIDs)
}

func TestParseEvent_Malformed(t *testing.T) {
	_, err := parseEvent([]byte(`{"kind": `))
	require.Error(t, err)
}

func TestBuildURL_Cursor(t *testing.T) {
	s := &Subscriber{url: "wss://feed.example.com/stories"}

	assert.Equal(t, "wss://feed.example.com/stories", s.buildURL(0))
	assert.Equal(t, "wss://feed.example.com/stories?cursor=42", s.buildURL(42))
}

func TestHandleStory_PermanentFailurePropagates(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := domain.NewPublishService(
		domain.ProviderConfig{}, // not configured
		domain.ActionConfig{},
		nil, nil, nil, nil,
		logger,
	)
	s := NewSubscriber("wss://feed.example.com/stories", service, nil, logger)

	event := &storyEvent{
		Kind:   "story",
		Story:  &storyRecord{SubjectID: "S1", AuthorID: "U1", Text: "hi"},
		Object: &objectRecord{ID: "S1", Kind: domain.SubjectKindChange},
	}

	err := s.handleStory(context.Background(), event)
	require.ErrorIs(t, err, domain.ErrNoProviderConfigured)
}
