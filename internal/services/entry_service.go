package services

import (
	"errors"
	"time"

	"github.com/terraincognita07/ember/internal/models"
)

var (
	ErrScheduleViolation = errors.New("habit is not due on this day")
	ErrEntryExists       = errors.New("day already logged")
	ErrEntryNotFound     = errors.New("entry not found")
	ErrInvalidEntryInput = errors.New("invalid entry input")
)

type EntryRecordStore interface {
	FindByHabitAndDay(habitID uint, day time.Time) (models.CompletionRecord, bool, error)
	CreateIfAbsent(record *models.CompletionRecord) (models.CompletionRecord, error)
	Save(record *models.CompletionRecord) error
	ListByHabitRange(habitID uint, from time.Time, to time.Time) ([]models.CompletionRecord, error)
}

type EntryService struct {
	records EntryRecordStore
}

func NewEntryService(records EntryRecordStore) *EntryService {
	return &EntryService{records: records}
}

type EntryInput struct {
	Date            string
	Status          string
	PercentComplete *int
	Notes           string
}

// Log records a completion for one day, once. The insert goes through the
// store's conditional create so a concurrent log of the same day resolves to
// one winner and one conflict; callers change logged days through Update.
func (service *EntryService) Log(habit models.Habit, input EntryInput) (models.CompletionRecord, error) {
	dayKey, status, percent, err := validateEntryInput(habit, input)
	if err != nil {
		return models.CompletionRecord{}, err
	}

	record := models.CompletionRecord{
		HabitID:         habit.ID,
		Day:             dayKey,
		Status:          status,
		PercentComplete: percent,
		Completed:       status == models.StatusDone,
		Notes:           input.Notes,
	}
	created, err := service.records.CreateIfAbsent(&record)
	if err != nil {
		return models.CompletionRecord{}, err
	}
	if record.ID == 0 {
		// The store returned an existing row instead of inserting ours.
		return models.CompletionRecord{}, ErrEntryExists
	}
	return created, nil
}

// Update changes an already-logged day. The reminder-sent flag is left
// untouched so the dispatcher's history stays truthful.
func (service *EntryService) Update(habit models.Habit, input EntryInput) (models.CompletionRecord, error) {
	dayKey, status, percent, err := validateEntryInput(habit, input)
	if err != nil {
		return models.CompletionRecord{}, err
	}

	record, exists, err := service.records.FindByHabitAndDay(habit.ID, dayKey)
	if err != nil {
		return models.CompletionRecord{}, err
	}
	if !exists {
		return models.CompletionRecord{}, ErrEntryNotFound
	}

	record.Status = status
	record.PercentComplete = percent
	record.Completed = status == models.StatusDone
	record.Notes = input.Notes
	if err := service.records.Save(&record); err != nil {
		return models.CompletionRecord{}, err
	}
	return record, nil
}

func (service *EntryService) ListRange(habit models.Habit, fromInput string, toInput string) ([]models.CompletionRecord, error) {
	location := LoadLocationOrUTC(habit.Timezone)
	from, err := DayKeyFromString(fromInput, location)
	if err != nil {
		return nil, err
	}
	to, err := DayKeyFromString(toInput, location)
	if err != nil {
		return nil, err
	}
	return service.records.ListByHabitRange(habit.ID, from, to)
}

func validateEntryInput(habit models.Habit, input EntryInput) (time.Time, string, *int, error) {
	location := LoadLocationOrUTC(habit.Timezone)
	dayKey, err := DayKeyFromString(input.Date, location)
	if err != nil {
		return time.Time{}, "", nil, err
	}

	if !HabitDueOn(habit, dayKey) {
		return time.Time{}, "", nil, ErrScheduleViolation
	}

	status := input.Status
	if !models.KnownStatus(status) {
		return time.Time{}, "", nil, ErrInvalidEntryInput
	}

	percent := input.PercentComplete
	if percent != nil && (*percent < 0 || *percent > 100) {
		return time.Time{}, "", nil, ErrInvalidEntryInput
	}
	if percent == nil {
		switch status {
		case models.StatusDone:
			full := 100
			percent = &full
		case models.StatusNotDone:
			zero := 0
			percent = &zero
		}
	}

	return dayKey, status, percent, nil
}
