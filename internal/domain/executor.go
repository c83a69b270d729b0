package domain

import "context"

// publishRecord walks the resolved accounts in priority order and attempts
// the enabled publish actions for one tracker record. The first account
// whose attempt fully succeeds wins and the walk stops; a failed attempt
// is logged with the record key and acting user, then the next account is
// tried. If every account fails the record stays unpublished for this run,
// counted and logged but never escalated to a job failure.
func (s *PublishService) publishRecord(ctx context.Context, record ExternalRecord, accounts []ExternalAccount, body string, link RemoteLinkInfo) {
	for _, account := range accounts {
		if err := s.attempt(ctx, account, record.ObjectKey, body, link); err != nil {
			s.stats.AttemptFailures.Add(1)
			s.logger.Warn("failed to update tracker issue",
				"key", record.ObjectKey,
				"user", account.UserID,
				"error", err,
			)
			continue
		}
		s.stats.RecordsPublished.Add(1)
		return
	}

	s.stats.RecordsUnpublished.Add(1)
	s.logger.Warn("tracker issue left unpublished, all accounts failed",
		"key", record.ObjectKey,
		"accounts_tried", len(accounts),
	)
}

// attempt runs every enabled action against the tracker as one account. A
// failure of either action fails the whole attempt. With no actions
// enabled the attempt succeeds vacuously without contacting the tracker.
func (s *PublishService) attempt(ctx context.Context, account ExternalAccount, key, body string, link RemoteLinkInfo) error {
	if s.actions.PostComment {
		if err := s.tracker.PostComment(ctx, account, key, body); err != nil {
			return err
		}
	}
	if s.actions.PostLink {
		if err := s.tracker.PostRemoteLink(ctx, account, key, link); err != nil {
			return err
		}
	}
	return nil
}
