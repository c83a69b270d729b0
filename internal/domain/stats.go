package domain

import "sync/atomic"

// PublishStats counts publish outcomes across the life of the process.
// Residual-unpublished records never fail a job, so these counters (and the
// warn logs beside them) are the only operator-visible signal that delivery
// to the tracker is silently failing.
type PublishStats struct {
	// StoriesProcessed counts stories that reached the publish pipeline.
	StoriesProcessed atomic.Int64

	// RecordsPublished counts tracker records updated by some account.
	RecordsPublished atomic.Int64

	// RecordsUnpublished counts tracker records for which every candidate
	// account failed this run.
	RecordsUnpublished atomic.Int64

	// AttemptFailures counts individual per-account publish failures.
	AttemptFailures atomic.Int64
}

// StatsSnapshot is a point-in-time copy of the publish counters.
type StatsSnapshot struct {
	StoriesProcessed   int64 `json:"stories_processed"`
	RecordsPublished   int64 `json:"records_published"`
	RecordsUnpublished int64 `json:"records_unpublished"`
	AttemptFailures    int64 `json:"attempt_failures"`
}

// Snapshot returns a consistent-enough copy of the counters for reporting.
func (p *PublishStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		StoriesProcessed:   p.StoriesProcessed.Load(),
		RecordsPublished:   p.RecordsPublished.Load(),
		RecordsUnpublished: p.RecordsUnpublished.Load(),
		AttemptFailures:    p.AttemptFailures.Load(),
	}
}
