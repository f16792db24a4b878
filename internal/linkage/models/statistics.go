package models

// LinkageStatistics reports how many subjects carry at least one link.
type LinkageStatistics struct {
	Total          int64   `json:"total_subjects"`
	Linked         int64   `json:"linked_subjects"`
	UnmatchedNames int64   `json:"unmatched_names"`
	Rate           float64 `json:"linkage_rate"`
}

// ComputeLinkageStatistics derives the linkage rate as a percentage.
// The rate is 0 when there are no subjects.
func ComputeLinkageStatistics(total, linked int64) LinkageStatistics {
	stats := LinkageStatistics{Total: total, Linked: linked}
	if total > 0 {
		stats.Rate = float64(linked) / float64(total) * 100
	}
	return stats
}

// MeetsTarget reports whether the rate is at or above threshold percent.
func (s LinkageStatistics) MeetsTarget(threshold float64) bool {
	return s.Rate >= threshold
}
