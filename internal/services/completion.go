package services

import (
	"math"

	"github.com/terraincognita07/ember/internal/models"
)

// RecordWeight maps a record to its contribution in [0, 1]: an explicit
// percent wins, otherwise done counts fully and everything else not at all.
func RecordWeight(record models.CompletionRecord) float64 {
	if record.PercentComplete != nil {
		return clampFloat(float64(*record.PercentComplete)/100, 0, 1)
	}
	if record.Status == models.StatusDone {
		return 1
	}
	return 0
}

// CompletionRate returns the rounded percentage of due days covered by the
// records. The denominator is the due-day count, not the record count: a due
// day with no record still lowers the rate. Records outside the due set (a
// schedule edited after logging) can push the total past the denominator, so
// the result is clamped to [0, 100].
func CompletionRate(records []models.CompletionRecord, dueCount int) int {
	if dueCount < 1 {
		dueCount = 1
	}
	total := 0.0
	for _, record := range records {
		total += RecordWeight(record)
	}
	rate := int(math.Round(total / float64(dueCount) * 100))
	if rate < 0 {
		return 0
	}
	if rate > 100 {
		return 100
	}
	return rate
}

// CountsTowardStreak reports whether a record keeps a streak alive: done
// outright, or partial work at or above the threshold percent.
func CountsTowardStreak(record models.CompletionRecord, threshold int) bool {
	if record.Status == models.StatusDone {
		return true
	}
	return record.PercentComplete != nil && *record.PercentComplete >= threshold
}

func clampFloat(value float64, low float64, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
