package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func changePub(t *testing.T) Publisher {
	t.Helper()
	pub, err := NewPublisherRegistry().For(&Subject{Kind: SubjectKindChange})
	require.NoError(t, err)
	return pub
}

func TestBuildCandidates_PriorityOrder(t *testing.T) {
	story := &Story{AuthorID: "U-author"}
	subject := &Subject{
		Kind:           SubjectKindChange,
		OwnerID:        "U-owner",
		ActiveUserIDs:  []string{"U-active1", "U-active2"},
		PassiveUserIDs: []string{"U-passive"},
		FollowerIDs:    []string{"U-follower"},
	}

	got := buildCandidates(story, changePub(t), subject)

	assert.Equal(t, []string{
		"U-author", "U-owner", "U-active1", "U-active2", "U-passive", "U-follower",
	}, got)
}

func TestBuildCandidates_DedupKeepsFirstOccurrence(t *testing.T) {
	// The author reviews their own change and also follows it: they must
	// appear exactly once, in the author slot.
	story := &Story{AuthorID: "U-author"}
	subject := &Subject{
		Kind:           SubjectKindChange,
		OwnerID:        "U-owner",
		ActiveUserIDs:  []string{"U-author", "U-owner"},
		PassiveUserIDs: []string{"U-passive"},
		FollowerIDs:    []string{"U-author", "U-passive", "U-follower"},
	}

	got := buildCandidates(story, changePub(t), subject)

	assert.Equal(t, []string{"U-author", "U-owner", "U-passive", "U-follower"}, got)

	seen := make(map[string]int)
	for _, id := range got {
		seen[id]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "identity %s appears more than once", id)
	}
}

func TestBuildCandidates_DropsEmptyIdentities(t *testing.T) {
	story := &Story{AuthorID: "U-author"}
	subject := &Subject{
		Kind:          SubjectKindChange,
		OwnerID:       "", // unowned subject
		ActiveUserIDs: []string{"", "U-active"},
	}

	got := buildCandidates(story, changePub(t), subject)

	assert.Equal(t, []string{"U-author", "U-active"}, got)
}

func TestBuildCandidates_Empty(t *testing.T) {
	got := buildCandidates(&Story{}, changePub(t), &Subject{Kind: SubjectKindChange})
	assert.Empty(t, got)
}
