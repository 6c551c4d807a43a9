package ranking

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slimSquadAPI/internal/types/weightlog"
	"slimSquadAPI/internal/user"
)

func testUser(id string) *user.User {
	return &user.User{ID: id, Username: "user-" + id}
}

func testLog(userID string, day int, weight float64) *weightlog.WeightLog {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	return &weightlog.WeightLog{
		ID:       fmt.Sprintf("%s-day%d", userID, day),
		UserID:   userID,
		Weight:   weight,
		LoggedAt: base.AddDate(0, 0, day-1),
	}
}

func TestReduceLogs_Empty(t *testing.T) {
	record := ReduceLogs(testUser("a"), nil)

	assert.Nil(t, record.StartWeight)
	assert.Nil(t, record.LatestWeight)
	assert.Nil(t, record.WeightLoss)
	assert.Nil(t, record.LastLoggedAt)
	assert.Empty(t, record.Logs)
}

func TestReduceLogs_SingleLogIsZeroLossNotNil(t *testing.T) {
	record := ReduceLogs(testUser("a"), []*weightlog.WeightLog{
		testLog("a", 1, 90),
	})

	require.NotNil(t, record.WeightLoss)
	assert.Equal(t, 0.0, *record.WeightLoss)
	require.NotNil(t, record.StartWeight)
	require.NotNil(t, record.LatestWeight)
	assert.Equal(t, *record.StartWeight, *record.LatestWeight)
}

func TestReduceLogs_SortsChronologically(t *testing.T) {
	// Deliberately out of order: the latest measurement comes first.
	logs := []*weightlog.WeightLog{
		testLog("a", 10, 75),
		testLog("a", 1, 80),
		testLog("a", 5, 78),
	}

	record := ReduceLogs(testUser("a"), logs)

	require.NotNil(t, record.StartWeight)
	require.NotNil(t, record.LatestWeight)
	assert.Equal(t, 80.0, *record.StartWeight)
	assert.Equal(t, 75.0, *record.LatestWeight)
	assert.Equal(t, 5.0, *record.WeightLoss)
	assert.Equal(t, testLog("a", 10, 75).LoggedAt, *record.LastLoggedAt)

	// Input slice untouched.
	assert.Equal(t, 75.0, logs[0].Weight)
}

func TestReduceLogs_NegativeLossMeansGain(t *testing.T) {
	record := ReduceLogs(testUser("a"), []*weightlog.WeightLog{
		testLog("a", 1, 80),
		testLog("a", 10, 83),
	})

	require.NotNil(t, record.WeightLoss)
	assert.Equal(t, -3.0, *record.WeightLoss)
}

func TestRankParticipants_OrdersByLossDescending(t *testing.T) {
	roster := []*user.User{testUser("a"), testUser("b"), testUser("c")}
	logs := []*weightlog.WeightLog{
		testLog("a", 1, 80), testLog("a", 10, 78),
		testLog("b", 1, 90), testLog("b", 10, 85),
		testLog("c", 1, 70), testLog("c", 10, 69),
	}

	ranked := RankParticipants(roster, logs)

	require.Len(t, ranked, 3)
	assert.Equal(t, "b", ranked[0].User.ID)
	assert.Equal(t, "a", ranked[1].User.ID)
	assert.Equal(t, "c", ranked[2].User.ID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, 3, ranked[2].Rank)
}

func TestRankParticipants_NilLossRanksLast(t *testing.T) {
	roster := []*user.User{testUser("noData"), testUser("gained"), testUser("alsoNoData")}
	logs := []*weightlog.WeightLog{
		testLog("gained", 1, 80), testLog("gained", 10, 85),
	}

	ranked := RankParticipants(roster, logs)

	require.Len(t, ranked, 3)
	// Even a negative loss beats "no data".
	assert.Equal(t, "gained", ranked[0].User.ID)
	// Nil-loss records keep roster insertion order.
	assert.Equal(t, "noData", ranked[1].User.ID)
	assert.Equal(t, "alsoNoData", ranked[2].User.ID)
}

func TestRankParticipants_TiesKeepRosterOrder(t *testing.T) {
	roster := []*user.User{testUser("a"), testUser("b"), testUser("c")}
	logs := []*weightlog.WeightLog{
		testLog("a", 1, 80), testLog("a", 10, 75),
		testLog("b", 1, 95), testLog("b", 10, 90),
		testLog("c", 1, 70), testLog("c", 10, 65),
	}

	ranked := RankParticipants(roster, logs)

	require.Len(t, ranked, 3)
	assert.Equal(t, "a", ranked[0].User.ID)
	assert.Equal(t, "b", ranked[1].User.ID)
	assert.Equal(t, "c", ranked[2].User.ID)
}

func TestRankParticipants_Idempotent(t *testing.T) {
	roster := []*user.User{testUser("a"), testUser("b"), testUser("c"), testUser("d")}
	logs := []*weightlog.WeightLog{
		testLog("a", 1, 80), testLog("a", 10, 75),
		testLog("b", 1, 90),
		testLog("d", 1, 85), testLog("d", 10, 80),
	}

	first := RankParticipants(roster, logs)
	second := RankParticipants(roster, logs)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].User.ID, second[i].User.ID)
		assert.Equal(t, first[i].Rank, second[i].Rank)
	}
}

func TestRankParticipants_ExcludesLogsOutsideRoster(t *testing.T) {
	roster := []*user.User{testUser("a")}
	logs := []*weightlog.WeightLog{
		testLog("a", 1, 80),
		testLog("intruder", 1, 200), // not on the roster
	}

	ranked := RankParticipants(roster, logs)

	require.Len(t, ranked, 1)
	require.Len(t, ranked[0].Logs, 1)
	assert.Equal(t, "a", ranked[0].Logs[0].UserID)
}

func TestRankParticipants_EmptyRoster(t *testing.T) {
	ranked := RankParticipants(nil, []*weightlog.WeightLog{testLog("a", 1, 80)})
	assert.Empty(t, ranked)
}

// Full scenario: A loses 5kg, B logs once (zero loss), C never logs.
func TestRankParticipants_EndToEndWithRollup(t *testing.T) {
	roster := []*user.User{testUser("a"), testUser("b"), testUser("c")}
	logs := []*weightlog.WeightLog{
		testLog("a", 1, 80), testLog("a", 10, 75),
		testLog("b", 1, 90),
	}

	ranked := RankParticipants(roster, logs)

	require.Len(t, ranked, 3)
	assert.Equal(t, "a", ranked[0].User.ID)
	assert.Equal(t, 5.0, *ranked[0].WeightLoss)
	assert.Equal(t, "b", ranked[1].User.ID)
	assert.Equal(t, 0.0, *ranked[1].WeightLoss)
	assert.Equal(t, "c", ranked[2].User.ID)
	assert.Nil(t, ranked[2].WeightLoss)

	stats := RollupStatistics(ranked, len(roster))

	assert.Equal(t, 2, stats.ActiveParticipants)
	assert.Equal(t, 5.0, stats.TotalWeightLoss)
	assert.InDelta(t, 5.0/3.0, stats.AverageWeightLoss, 0.001)
	assert.InDelta(t, 2.0/3.0*100, stats.ParticipationRate, 0.001)
	require.NotNil(t, stats.TopPerformer)
	assert.Equal(t, "a", stats.TopPerformer.User.ID)
}
