package schedule

import "time"

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Progress describes how far along a challenge is, at calendar-day
// granularity.
type Progress struct {
	TotalDays          int     `json:"total_days"`
	DaysElapsed        int     `json:"days_elapsed"`
	DaysRemaining      int     `json:"days_remaining"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

// ResolveStatus computes the challenge status from its date boundaries.
// A challenge with no declared start is treated as already running. Both
// boundary instants count as active: the status flips to completed only
// strictly after endDate.
func ResolveStatus(startDate *time.Time, endDate, now time.Time) Status {
	if startDate == nil {
		if now.After(endDate) {
			return StatusCompleted
		}
		return StatusActive
	}
	if now.Before(*startDate) {
		return StatusUpcoming
	}
	if now.After(endDate) {
		return StatusCompleted
	}
	return StatusActive
}

// ComputeProgress computes elapsed/remaining days and a 0-100 completion
// ratio. With no start date, "now" is treated as the start, which yields
// zero elapsed days and the full range remaining on first evaluation.
// Degenerate ranges (end before start) clamp to zero rather than erroring.
func ComputeProgress(startDate *time.Time, endDate, now time.Time) Progress {
	effectiveStart := now
	if startDate != nil {
		effectiveStart = *startDate
	}

	totalDays := daysBetween(effectiveStart, endDate)

	daysElapsed := daysBetween(effectiveStart, now)
	if daysElapsed < 0 {
		daysElapsed = 0
	}

	daysRemaining := daysBetween(now, endDate)
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	var pct float64
	if totalDays > 0 {
		pct = float64(daysElapsed) / float64(totalDays) * 100
		if pct > 100 {
			pct = 100
		}
	}

	return Progress{
		TotalDays:          totalDays,
		DaysElapsed:        daysElapsed,
		DaysRemaining:      daysRemaining,
		ProgressPercentage: pct,
	}
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
