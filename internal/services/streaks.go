package services

import (
	"time"

	"github.com/terraincognita07/ember/internal/models"
)

type StreakInfo struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

// CalculateStreaks walks the due days in ascending order. A due day counts
// iff its record clears the threshold; a missing or failing due day resets
// the running streak. Non-due days never appear in dueDayKeys and so cannot
// break a streak. The current streak is whatever the running counter holds
// after the most recent due day.
func CalculateStreaks(records []models.CompletionRecord, dueDayKeys []time.Time, threshold int) StreakInfo {
	if threshold <= 0 {
		threshold = models.DefaultStreakThreshold
	}

	recordsByDay := make(map[string]models.CompletionRecord, len(records))
	for _, record := range records {
		recordsByDay[DayKeyString(record.Day)] = record
	}

	info := StreakInfo{}
	running := 0
	for _, dayKey := range dueDayKeys {
		record, exists := recordsByDay[DayKeyString(dayKey)]
		if exists && CountsTowardStreak(record, threshold) {
			running++
			if running > info.LongestStreak {
				info.LongestStreak = running
			}
			continue
		}
		running = 0
	}

	info.CurrentStreak = running
	return info
}
