package services

import (
	"time"

	"github.com/terraincognita07/ember/internal/models"
)

type StatsHabitReader interface {
	ListActiveByUser(userID uint) ([]models.Habit, error)
}

type StatsRecordReader interface {
	ListByHabitRange(habitID uint, from time.Time, to time.Time) ([]models.CompletionRecord, error)
}

type StatsService struct {
	habits  StatsHabitReader
	records StatsRecordReader
}

func NewStatsService(habits StatsHabitReader, records StatsRecordReader) *StatsService {
	return &StatsService{habits: habits, records: records}
}

type HabitStats struct {
	HabitID        uint           `json:"habit_id"`
	Name           string         `json:"name"`
	CompletionRate int            `json:"completion_rate"`
	Streak         StreakInfo     `json:"streak"`
	Rolling7       int            `json:"rolling_7"`
	Rolling14      int            `json:"rolling_14"`
	Rolling30      int            `json:"rolling_30"`
	Momentum       MomentumResult `json:"momentum"`
}

type OverviewStats struct {
	DueToday       int            `json:"due_today"`
	CompletedToday int            `json:"completed_today"`
	Habits         []HabitStats   `json:"habits"`
	Momentum       MomentumResult `json:"momentum"`
}

type HeatmapEntry struct {
	Date   string  `json:"date"`
	Due    bool    `json:"due"`
	Weight float64 `json:"weight"`
}

// statsHistoryDays bounds the history window read for streaks and the
// overall completion rate.
const statsHistoryDays = 365

// BuildHabitStats derives all advisory statistics for one habit as of now.
// Nothing here mutates the store; slightly stale reads are acceptable.
func (service *StatsService) BuildHabitStats(habit models.Habit, now time.Time) (HabitStats, error) {
	location := LoadLocationOrUTC(habit.Timezone)
	today := DayKeyFromInstant(now, location)
	windowStart := today.AddDate(0, 0, -statsHistoryDays)

	records, err := service.records.ListByHabitRange(habit.ID, windowStart, today)
	if err != nil {
		return HabitStats{}, err
	}

	historyStart := laterDay(windowStart, laterDay(
		habit.StartDate,
		DayKeyFromInstant(habit.CreatedAt, location),
	))
	if anyRecordBefore(records, historyStart) {
		historyStart = windowStart
	}

	dueDays := DueDayKeys(habit, historyStart, today)
	return HabitStats{
		HabitID:        habit.ID,
		Name:           habit.Name,
		CompletionRate: CompletionRate(recordsWithin(records, historyStart, today), len(dueDays)),
		Streak:         CalculateStreaks(records, dueDays, models.DefaultStreakThreshold),
		Rolling7:       RollingAverage(habit, records, 7, today),
		Rolling14:      RollingAverage(habit, records, 14, today),
		Rolling30:      RollingAverage(habit, records, 30, today),
		Momentum:       Momentum(habit, records, today),
	}, nil
}

// BuildOverview aggregates statistics across a user's active habits. The
// aggregate momentum sums the per-habit momenta already computed at each
// habit's local day, so habits west of UTC are not shifted onto the wrong
// calendar day.
func (service *StatsService) BuildOverview(userID uint, now time.Time) (OverviewStats, error) {
	habits, err := service.habits.ListActiveByUser(userID)
	if err != nil {
		return OverviewStats{}, err
	}

	overview := OverviewStats{Habits: make([]HabitStats, 0, len(habits))}
	momenta := make([]MomentumResult, 0, len(habits))

	for _, habit := range habits {
		stats, err := service.BuildHabitStats(habit, now)
		if err != nil {
			return OverviewStats{}, err
		}
		overview.Habits = append(overview.Habits, stats)
		momenta = append(momenta, stats.Momentum)

		today := DayKeyFromInstant(now, LoadLocationOrUTC(habit.Timezone))
		if HabitDueOn(habit, today) {
			overview.DueToday++
			records, err := service.records.ListByHabitRange(habit.ID, today, today)
			if err != nil {
				return OverviewStats{}, err
			}
			for _, record := range records {
				if record.Completed {
					overview.CompletedToday++
					break
				}
			}
		}
	}

	overview.Momentum = UserMomentum(momenta)
	return overview, nil
}

// BuildHeatmap returns per-day weight entries for rendering a completion
// heatmap over an inclusive day-key range.
func (service *StatsService) BuildHeatmap(habit models.Habit, from time.Time, to time.Time) ([]HeatmapEntry, error) {
	records, err := service.records.ListByHabitRange(habit.ID, from, to)
	if err != nil {
		return nil, err
	}

	weightsByDay := make(map[string]float64, len(records))
	for _, record := range records {
		weightsByDay[DayKeyString(record.Day)] = RecordWeight(record)
	}

	entries := make([]HeatmapEntry, 0)
	for _, dayKey := range DayKeysBetween(from, to) {
		key := DayKeyString(dayKey)
		entries = append(entries, HeatmapEntry{
			Date:   key,
			Due:    HabitDueOn(habit, dayKey),
			Weight: weightsByDay[key],
		})
	}
	return entries, nil
}
