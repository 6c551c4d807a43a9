package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
)

func TestResolveStatus(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want Status
	}{
		{"before start", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), StatusUpcoming},
		{"mid challenge", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), StatusActive},
		{"after end", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), StatusCompleted},
		{"exactly at start", start, StatusActive},
		{"exactly at end", end, StatusActive},
		{"instant after end", end.Add(time.Nanosecond), StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStatus(&start, end, tt.now))
		})
	}
}

func TestResolveStatus_NoStartDateMeansAlreadyRunning(t *testing.T) {
	assert.Equal(t, StatusActive, ResolveStatus(nil, end, start))
	assert.Equal(t, StatusActive, ResolveStatus(nil, end, end))
	assert.Equal(t, StatusCompleted, ResolveStatus(nil, end, end.Add(time.Hour)))
}

func TestComputeProgress_MidChallenge(t *testing.T) {
	now := start.AddDate(0, 0, 15)

	p := ComputeProgress(&start, end, now)

	assert.Equal(t, 30, p.TotalDays)
	assert.Equal(t, 15, p.DaysElapsed)
	assert.Equal(t, 15, p.DaysRemaining)
	assert.InDelta(t, 50.0, p.ProgressPercentage, 0.001)
}

func TestComputeProgress_EndedChallengeClampsTo100(t *testing.T) {
	now := time.Now()
	s := now.AddDate(0, 0, -10)
	e := now.AddDate(0, 0, -1)

	p := ComputeProgress(&s, e, now)

	assert.Equal(t, 0, p.DaysRemaining)
	assert.InDelta(t, 100.0, p.ProgressPercentage, 0.001)
}

func TestComputeProgress_BeforeStartClampsToZero(t *testing.T) {
	now := start.AddDate(0, 0, -5)

	p := ComputeProgress(&start, end, now)

	assert.Equal(t, 0, p.DaysElapsed)
	assert.InDelta(t, 0.0, p.ProgressPercentage, 0.001)
	assert.Equal(t, 35, p.DaysRemaining)
}

// With no declared start, "now" is the start: zero elapsed, everything
// remaining. A quirk inherited on purpose, not a bug.
func TestComputeProgress_NoStartDate(t *testing.T) {
	now := start

	p := ComputeProgress(nil, end, now)

	assert.Equal(t, 30, p.TotalDays)
	assert.Equal(t, 0, p.DaysElapsed)
	assert.Equal(t, 30, p.DaysRemaining)
	assert.InDelta(t, 0.0, p.ProgressPercentage, 0.001)
}

func TestComputeProgress_DegenerateRange(t *testing.T) {
	now := start
	e := start.AddDate(0, 0, -3) // end before start

	p := ComputeProgress(&start, e, now)

	assert.LessOrEqual(t, p.TotalDays, 0)
	assert.Equal(t, 0, p.DaysElapsed)
	assert.Equal(t, 0, p.DaysRemaining)
	assert.Equal(t, 0.0, p.ProgressPercentage)
}
