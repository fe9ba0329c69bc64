package services

import (
	"math"
	"time"

	"github.com/terraincognita07/ember/internal/models"
)

const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

const momentumWindowDueDays = 7

// momentumLookbackDays bounds how far back due days are collected for the
// momentum windows; a monthly habit scheduled on the 31st still finds 14 due
// days well inside two years.
const momentumLookbackDays = 730

type MomentumResult struct {
	Current          int    `json:"current"`
	Previous         int    `json:"previous"`
	Trend            string `json:"trend"`
	PercentageChange int    `json:"percentage_change"`
}

// RollingAverage computes the completion rate over the trailing window
// ending at asOf. The window start is clamped forward to the habit's start
// or creation day so a young habit is not penalized for days before it
// existed — unless records were backfilled before the clamp point, in which
// case the genuine history wins and the full window is used.
func RollingAverage(habit models.Habit, records []models.CompletionRecord, windowDays int, asOf time.Time) int {
	if windowDays < 1 {
		windowDays = 1
	}
	windowStart := asOf.AddDate(0, 0, -(windowDays - 1))

	// StartDate is already a day key; CreatedAt is a real timestamp and
	// needs reducing to the habit-local day first.
	location := LoadLocationOrUTC(habit.Timezone)
	clampPoint := laterDay(habit.StartDate, DayKeyFromInstant(habit.CreatedAt, location))
	if clampPoint.After(windowStart) && !anyRecordBefore(records, clampPoint) {
		windowStart = clampPoint
	}

	dueDays := DueDayKeys(habit, windowStart, asOf)
	return CompletionRate(recordsWithin(records, windowStart, asOf), len(dueDays))
}

// Momentum compares the completion rate over the most recent seven due days
// against the seven due days immediately before them.
func Momentum(habit models.Habit, records []models.CompletionRecord, asOf time.Time) MomentumResult {
	dueDays := trailingDueDays(habit, asOf, 2*momentumWindowDueDays)

	currentDays := tailDays(dueDays, momentumWindowDueDays)
	previousDays := tailDays(dueDays[:len(dueDays)-len(currentDays)], momentumWindowDueDays)

	current := CompletionRate(recordsOnDays(records, currentDays), len(currentDays))
	previous := CompletionRate(recordsOnDays(records, previousDays), len(previousDays))

	return buildMomentumResult(current, previous)
}

// UserMomentum aggregates per-habit momenta, each computed at its own
// habit-local day. The aggregate is a sum of per-habit percentages, not a
// normalized blend; callers presenting it as a rate must divide by the habit
// count themselves.
func UserMomentum(momenta []MomentumResult) MomentumResult {
	currentTotal := 0
	previousTotal := 0
	for _, habitMomentum := range momenta {
		currentTotal += habitMomentum.Current
		previousTotal += habitMomentum.Previous
	}
	return buildMomentumResult(currentTotal, previousTotal)
}

func buildMomentumResult(current int, previous int) MomentumResult {
	result := MomentumResult{Current: current, Previous: previous, Trend: TrendStable}
	switch {
	case current > previous:
		result.Trend = TrendUp
	case current < previous:
		result.Trend = TrendDown
	}

	switch {
	case previous > 0:
		result.PercentageChange = int(math.Round(float64(current-previous) / float64(previous) * 100))
	case current > 0:
		result.PercentageChange = 100
	}
	return result
}

// trailingDueDays collects up to limit due days ending at asOf, newest last.
func trailingDueDays(habit models.Habit, asOf time.Time, limit int) []time.Time {
	collected := make([]time.Time, 0, limit)
	earliest := asOf.AddDate(0, 0, -momentumLookbackDays)
	for cursor := asOf; !cursor.Before(earliest) && len(collected) < limit; cursor = cursor.AddDate(0, 0, -1) {
		if IsDue(cursor, habit.Frequency, habit.ScheduleDays) {
			collected = append(collected, cursor)
		}
	}
	reverseDays(collected)
	return collected
}

func tailDays(days []time.Time, count int) []time.Time {
	if len(days) <= count {
		return days
	}
	return days[len(days)-count:]
}

func reverseDays(days []time.Time) {
	for left, right := 0, len(days)-1; left < right; left, right = left+1, right-1 {
		days[left], days[right] = days[right], days[left]
	}
}

func anyRecordBefore(records []models.CompletionRecord, dayKey time.Time) bool {
	for _, record := range records {
		if record.Day.Before(dayKey) {
			return true
		}
	}
	return false
}

func recordsWithin(records []models.CompletionRecord, from time.Time, to time.Time) []models.CompletionRecord {
	matched := make([]models.CompletionRecord, 0, len(records))
	for _, record := range records {
		if record.Day.Before(from) || record.Day.After(to) {
			continue
		}
		matched = append(matched, record)
	}
	return matched
}

func recordsOnDays(records []models.CompletionRecord, days []time.Time) []models.CompletionRecord {
	wanted := make(map[string]struct{}, len(days))
	for _, dayKey := range days {
		wanted[DayKeyString(dayKey)] = struct{}{}
	}

	matched := make([]models.CompletionRecord, 0, len(days))
	for _, record := range records {
		if _, ok := wanted[DayKeyString(record.Day)]; ok {
			matched = append(matched, record)
		}
	}
	return matched
}
