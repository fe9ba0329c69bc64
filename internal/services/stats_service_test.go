package services

import (
	"testing"
	"time"

	"github.com/terraincognita07/ember/internal/models"
)

type stubStatsHabits struct {
	habits []models.Habit
}

func (stub *stubStatsHabits) ListActiveByUser(userID uint) ([]models.Habit, error) {
	return stub.habits, nil
}

type stubStatsRecords struct {
	byHabit map[uint][]models.CompletionRecord
}

func (stub *stubStatsRecords) ListByHabitRange(habitID uint, from time.Time, to time.Time) ([]models.CompletionRecord, error) {
	matched := make([]models.CompletionRecord, 0)
	for _, record := range stub.byHabit[habitID] {
		if !record.Day.Before(from) && !record.Day.After(to) {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

func completedRange(t *testing.T, from string, to string) []models.CompletionRecord {
	t.Helper()
	records := doneRange(t, from, to)
	for i := range records {
		records[i].Completed = true
	}
	return records
}

func TestBuildHabitStatsWindowsFromHabitStart(t *testing.T) {
	habit := dailyHabit(t, "2025-06-24")
	habit.ID = 1
	service := NewStatsService(
		&stubStatsHabits{habits: []models.Habit{habit}},
		&stubStatsRecords{byHabit: map[uint][]models.CompletionRecord{1: completedRange(t, "2025-06-24", "2025-06-30")}},
	)

	stats, err := service.BuildHabitStats(habit, dayKey(t, "2025-06-30"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.CompletionRate != 100 {
		t.Fatalf("expected completion rate 100 for a fully logged week, got %#v", stats)
	}
	if stats.Streak.CurrentStreak != 7 {
		t.Fatalf("expected 7-day streak, got %#v", stats.Streak)
	}
	if stats.Momentum.Current != 100 {
		t.Fatalf("expected momentum current 100, got %#v", stats.Momentum)
	}
}

func TestBuildOverviewUsesHabitLocalDay(t *testing.T) {
	habit := dailyHabit(t, "2025-01-01")
	habit.ID = 1
	habit.Timezone = "America/Los_Angeles"
	service := NewStatsService(
		&stubStatsHabits{habits: []models.Habit{habit}},
		&stubStatsRecords{byHabit: map[uint][]models.CompletionRecord{1: completedRange(t, "2025-06-24", "2025-06-30")}},
	)

	// 02:00 UTC on July 1st is still the evening of June 30th in Los
	// Angeles, so the overview must count June 30th as today.
	now := time.Date(2025, time.July, 1, 2, 0, 0, 0, time.UTC)
	overview, err := service.BuildOverview(9, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if overview.DueToday != 1 || overview.CompletedToday != 1 {
		t.Fatalf("expected 1 due / 1 completed today, got %d/%d", overview.DueToday, overview.CompletedToday)
	}
	if len(overview.Habits) != 1 {
		t.Fatalf("expected one habit entry, got %#v", overview.Habits)
	}
	if overview.Momentum.Current != overview.Habits[0].Momentum.Current {
		t.Fatalf("expected aggregate momentum to match the habit's, got %#v vs %#v",
			overview.Momentum, overview.Habits[0].Momentum)
	}
	if overview.Momentum.Current != 100 || overview.Momentum.Trend != TrendUp {
		t.Fatalf("expected current 100 trending up, got %#v", overview.Momentum)
	}
}
