package services

import (
	"time"

	"github.com/terraincognita07/ember/internal/models"
)

// IsDue reports whether a habit with the given frequency and schedule days
// requires action on the day the key represents. Day keys already encode the
// habit-local calendar date, so weekday and day-of-month are read off the
// key itself. Empty schedule days mean every day; an unknown frequency is
// treated as due so a misconfigured habit never silently disappears.
func IsDue(dayKey time.Time, frequency string, scheduleDays []int) bool {
	switch frequency {
	case models.FrequencyDaily:
		return true
	case models.FrequencyWeekly, models.FrequencyCustom:
		if len(scheduleDays) == 0 {
			return true
		}
		return containsInt(scheduleDays, int(dayKey.UTC().Weekday()))
	case models.FrequencyMonthly:
		if len(scheduleDays) == 0 {
			return true
		}
		return containsInt(scheduleDays, dayKey.UTC().Day())
	default:
		return true
	}
}

// HabitDueOn additionally applies the habit's start and end bounds. Both
// bounds are stored as day keys, so they compare directly against dayKey.
func HabitDueOn(habit models.Habit, dayKey time.Time) bool {
	if dayKey.Before(habit.StartDate) {
		return false
	}
	if habit.EndDate != nil && dayKey.After(*habit.EndDate) {
		return false
	}
	return IsDue(dayKey, habit.Frequency, habit.ScheduleDays)
}

// DueDayKeys filters an inclusive day range down to the habit's due days.
func DueDayKeys(habit models.Habit, from time.Time, to time.Time) []time.Time {
	dueDays := make([]time.Time, 0)
	for _, dayKey := range DayKeysBetween(from, to) {
		if IsDue(dayKey, habit.Frequency, habit.ScheduleDays) {
			dueDays = append(dueDays, dayKey)
		}
	}
	return dueDays
}

func containsInt(values []int, needle int) bool {
	for _, value := range values {
		if value == needle {
			return true
		}
	}
	return false
}
