package ranking

// AggregateStats are the challenge-wide totals over a ranked participant
// list.
type AggregateStats struct {
	ActiveParticipants int                `json:"active_participants"`
	TotalWeightLoss    float64            `json:"total_weight_loss"`
	AverageWeightLoss  float64            `json:"average_weight_loss"`
	ParticipationRate  float64            `json:"participation_rate"`
	TopPerformer       *ParticipantRecord `json:"top_performer"`
}

// RollupStatistics computes challenge-wide totals from an already ranked
// participant list. The average divides by the declared roster size, not
// the active-participant count, so non-participating members dilute it.
// TopPerformer is the ranked leader; when every weight loss is nil that is
// just the first roster entry and callers should not present it as a
// winner.
func RollupStatistics(ranked []*ParticipantRecord, rosterSize int) *AggregateStats {
	stats := &AggregateStats{}

	for _, r := range ranked {
		if r.LatestWeight != nil {
			stats.ActiveParticipants++
		}
		if r.WeightLoss != nil {
			stats.TotalWeightLoss += *r.WeightLoss
		}
	}

	if rosterSize > 0 {
		stats.AverageWeightLoss = stats.TotalWeightLoss / float64(rosterSize)
		stats.ParticipationRate = float64(stats.ActiveParticipants) / float64(rosterSize) * 100
	}

	if len(ranked) > 0 {
		stats.TopPerformer = ranked[0]
	}

	return stats
}
