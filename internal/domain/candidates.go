package domain

// buildCandidates returns the ordered list of user identities eligible to
// act as the publishing voice for a story, highest priority first:
// the story's author, then the subject's owner, active users, passive
// users, and followers. The author goes first even when not otherwise
// related to the subject, so the update is posted in the voice of the
// actor whenever possible. Duplicates keep their first position; empty
// identities are dropped.
func buildCandidates(story *Story, pub Publisher, subject *Subject) []string {
	ordered := make([]string, 0, 8)
	ordered = append(ordered, story.AuthorID)
	ordered = append(ordered, pub.OwnerOf(subject))
	ordered = append(ordered, pub.ActiveUsersOf(subject)...)
	ordered = append(ordered, pub.PassiveUsersOf(subject)...)
	ordered = append(ordered, pub.FollowersOf(subject)...)

	seen := make(map[string]struct{}, len(ordered))
	candidates := ordered[:0]
	for _, id := range ordered {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		candidates = append(candidates, id)
	}
	return candidates
}
