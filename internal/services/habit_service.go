package services

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/terraincognita07/ember/internal/models"
)

var (
	ErrHabitNotFound     = errors.New("habit not found")
	ErrInvalidHabitInput = errors.New("invalid habit input")
)

var reminderTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type HabitStore interface {
	Create(habit *models.Habit) error
	Save(habit *models.Habit) error
	FindByIDAndUser(habitID uint, userID uint) (models.Habit, bool, error)
	ListByUser(userID uint) ([]models.Habit, error)
	SoftDelete(habitID uint, userID uint, deletedAt time.Time) error
}

type HabitService struct {
	habits HabitStore
}

func NewHabitService(habits HabitStore) *HabitService {
	return &HabitService{habits: habits}
}

type HabitInput struct {
	Name         string
	Description  string
	Frequency    string
	ScheduleDays []int
	StartDate    string
	EndDate      string
	Timezone     string
	ReminderTime string
}

func (service *HabitService) Create(userID uint, input HabitInput, now time.Time) (models.Habit, error) {
	habit, err := buildHabitFromInput(userID, input)
	if err != nil {
		return models.Habit{}, err
	}
	habit.Active = true
	habit.CreatedAt = now

	if err := service.habits.Create(&habit); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

func (service *HabitService) Update(userID uint, habitID uint, input HabitInput, active bool) (models.Habit, error) {
	existing, found, err := service.habits.FindByIDAndUser(habitID, userID)
	if err != nil {
		return models.Habit{}, err
	}
	if !found {
		return models.Habit{}, ErrHabitNotFound
	}

	updated, err := buildHabitFromInput(userID, input)
	if err != nil {
		return models.Habit{}, err
	}

	existing.Name = updated.Name
	existing.Description = updated.Description
	existing.Frequency = updated.Frequency
	existing.ScheduleDays = updated.ScheduleDays
	existing.StartDate = updated.StartDate
	existing.EndDate = updated.EndDate
	existing.Timezone = updated.Timezone
	existing.ReminderTime = updated.ReminderTime
	existing.Active = active

	if err := service.habits.Save(&existing); err != nil {
		return models.Habit{}, err
	}
	return existing, nil
}

func (service *HabitService) Get(userID uint, habitID uint) (models.Habit, error) {
	habit, found, err := service.habits.FindByIDAndUser(habitID, userID)
	if err != nil {
		return models.Habit{}, err
	}
	if !found {
		return models.Habit{}, ErrHabitNotFound
	}
	return habit, nil
}

func (service *HabitService) List(userID uint) ([]models.Habit, error) {
	return service.habits.ListByUser(userID)
}

func (service *HabitService) Delete(userID uint, habitID uint, now time.Time) error {
	_, found, err := service.habits.FindByIDAndUser(habitID, userID)
	if err != nil {
		return err
	}
	if !found {
		return ErrHabitNotFound
	}
	return service.habits.SoftDelete(habitID, userID, now)
}

func buildHabitFromInput(userID uint, input HabitInput) (models.Habit, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Habit{}, ErrInvalidHabitInput
	}

	frequency := strings.ToLower(strings.TrimSpace(input.Frequency))
	if !models.KnownFrequency(frequency) {
		return models.Habit{}, ErrInvalidHabitInput
	}

	if !validScheduleDays(frequency, input.ScheduleDays) {
		return models.Habit{}, ErrInvalidHabitInput
	}

	reminderTime := strings.TrimSpace(input.ReminderTime)
	if reminderTime != "" && !reminderTimePattern.MatchString(reminderTime) {
		return models.Habit{}, ErrInvalidHabitInput
	}

	location := LoadLocationOrUTC(input.Timezone)
	startDay, err := DayKeyFromString(input.StartDate, location)
	if err != nil {
		return models.Habit{}, err
	}

	var endDay *time.Time
	if strings.TrimSpace(input.EndDate) != "" {
		parsed, err := DayKeyFromString(input.EndDate, location)
		if err != nil {
			return models.Habit{}, err
		}
		if parsed.Before(startDay) {
			return models.Habit{}, ErrInvalidHabitInput
		}
		endDay = &parsed
	}

	return models.Habit{
		UserID:       userID,
		Name:         name,
		Description:  strings.TrimSpace(input.Description),
		Frequency:    frequency,
		ScheduleDays: normalizeScheduleDays(input.ScheduleDays),
		StartDate:    startDay,
		EndDate:      endDay,
		Timezone:     location.String(),
		ReminderTime: reminderTime,
	}, nil
}

// validScheduleDays checks member ranges per frequency: weekday 0-6 for
// weekly/custom, day-of-month 1-31 for monthly. Daily habits carry none.
func validScheduleDays(frequency string, scheduleDays []int) bool {
	if len(scheduleDays) == 0 {
		return true
	}
	switch frequency {
	case models.FrequencyWeekly, models.FrequencyCustom:
		for _, day := range scheduleDays {
			if day < 0 || day > 6 {
				return false
			}
		}
		return true
	case models.FrequencyMonthly:
		for _, day := range scheduleDays {
			if day < 1 || day > 31 {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func normalizeScheduleDays(scheduleDays []int) []int {
	seen := make(map[int]struct{}, len(scheduleDays))
	normalized := make([]int, 0, len(scheduleDays))
	for _, day := range scheduleDays {
		if _, exists := seen[day]; exists {
			continue
		}
		seen[day] = struct{}{}
		normalized = append(normalized, day)
	}
	return normalized
}
