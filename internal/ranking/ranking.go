package ranking

import (
	"sort"
	"time"

	"slimSquadAPI/internal/types/weightlog"
	"slimSquadAPI/internal/user"
)

// ParticipantRecord is one roster member's derived progress snapshot. It is
// recomputed on every read and never persisted. Nil fields mean "no data",
// which is distinct from a legitimate zero: a participant with exactly one
// log has WeightLoss == 0, not nil. WeightLoss is signed: positive means
// the participant weighs less than at their first log, negative means they
// gained.
type ParticipantRecord struct {
	User         *user.User             `json:"user"`
	StartWeight  *float64               `json:"start_weight"`
	LatestWeight *float64               `json:"latest_weight"`
	WeightLoss   *float64               `json:"weight_loss"`
	LastLoggedAt *time.Time             `json:"last_logged_at"`
	Logs         []*weightlog.WeightLog `json:"logs"`
	Rank         int                    `json:"rank"`
}

// ReduceLogs derives one participant's snapshot from their unordered log
// entries. The input slice is not mutated.
func ReduceLogs(u *user.User, logs []*weightlog.WeightLog) *ParticipantRecord {
	ordered := make([]*weightlog.WeightLog, len(logs))
	copy(ordered, logs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].LoggedAt.Before(ordered[j].LoggedAt)
	})

	record := &ParticipantRecord{
		User: u,
		Logs: ordered,
	}

	if len(ordered) == 0 {
		return record
	}

	first := ordered[0]
	last := ordered[len(ordered)-1]

	startWeight := first.Weight
	latestWeight := last.Weight
	loss := startWeight - latestWeight
	lastLoggedAt := last.LoggedAt

	record.StartWeight = &startWeight
	record.LatestWeight = &latestWeight
	record.WeightLoss = &loss
	record.LastLoggedAt = &lastLoggedAt

	return record
}

// RankParticipants reduces every roster member's logs and orders the
// result by weight loss descending. This is the single shared ranking
// routine: the dashboard, the polling refresher and the participants
// endpoint all go through it so their orderings can never drift.
//
// Ordering rules: a nil weight loss ranks strictly below any non-nil
// value; ties (including nil-nil) keep roster insertion order. Logs whose
// user is not on the roster are silently excluded.
func RankParticipants(roster []*user.User, logs []*weightlog.WeightLog) []*ParticipantRecord {
	byUser := make(map[string][]*weightlog.WeightLog, len(roster))
	for _, u := range roster {
		byUser[u.ID] = nil
	}
	for _, l := range logs {
		if _, ok := byUser[l.UserID]; ok {
			byUser[l.UserID] = append(byUser[l.UserID], l)
		}
	}

	records := make([]*ParticipantRecord, 0, len(roster))
	for _, u := range roster {
		records = append(records, ReduceLogs(u, byUser[u.ID]))
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].WeightLoss, records[j].WeightLoss
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a > *b
	})

	for i, r := range records {
		r.Rank = i + 1
	}

	return records
}
