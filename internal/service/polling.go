package service

import "time"

// Summary refresh bounds: the interval shortens while a relevant entity is
// active, trading request volume for freshness.
const (
	activeSummaryPollInterval = 15 * time.Second
	idleSummaryPollInterval   = 60 * time.Second
)

// SummaryPollInterval returns how often a consumer should refresh its
// booking/trip summaries given whether any watched entity is in an
// active (pending/ongoing) state.
func SummaryPollInterval(active bool) time.Duration {
	if active {
		return activeSummaryPollInterval
	}
	return idleSummaryPollInterval
}
