package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/terraincognita07/ember/internal/models"
)

type stubEntryRecords struct {
	mu      sync.Mutex
	byDay   map[string]models.CompletionRecord
	creates int
	saves   int
}

func newStubEntryRecords() *stubEntryRecords {
	return &stubEntryRecords{byDay: make(map[string]models.CompletionRecord)}
}

func (stub *stubEntryRecords) FindByHabitAndDay(habitID uint, day time.Time) (models.CompletionRecord, bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	record, exists := stub.byDay[recordLookupKey(habitID, day)]
	return record, exists, nil
}

func (stub *stubEntryRecords) CreateIfAbsent(record *models.CompletionRecord) (models.CompletionRecord, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	key := recordLookupKey(record.HabitID, record.Day)
	if existing, exists := stub.byDay[key]; exists {
		// Mirror the repository: the caller's record keeps a zero ID when
		// another insert already holds the day.
		return existing, nil
	}
	stub.creates++
	record.ID = uint(stub.creates)
	stub.byDay[key] = *record
	return *record, nil
}

func (stub *stubEntryRecords) Save(record *models.CompletionRecord) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.saves++
	stub.byDay[recordLookupKey(record.HabitID, record.Day)] = *record
	return nil
}

func (stub *stubEntryRecords) ListByHabitRange(habitID uint, from time.Time, to time.Time) ([]models.CompletionRecord, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	records := make([]models.CompletionRecord, 0)
	for _, record := range stub.byDay {
		if record.HabitID == habitID && !record.Day.Before(from) && !record.Day.After(to) {
			records = append(records, record)
		}
	}
	return records, nil
}

func entryTestHabit(t *testing.T) models.Habit {
	t.Helper()
	return models.Habit{
		ID:           4,
		Frequency:    models.FrequencyWeekly,
		ScheduleDays: []int{1, 3, 5},
		StartDate:    dayKey(t, "2025-01-01"),
		Timezone:     "UTC",
	}
}

func TestLogRejectsNonDueDay(t *testing.T) {
	service := NewEntryService(newStubEntryRecords())

	// June 3rd 2025 is a Tuesday; the habit runs Mon/Wed/Fri.
	_, err := service.Log(entryTestHabit(t), EntryInput{Date: "2025-06-03", Status: models.StatusDone})
	if !errors.Is(err, ErrScheduleViolation) {
		t.Fatalf("expected ErrScheduleViolation, got %v", err)
	}
}

func TestLogCreatesOnceThenConflicts(t *testing.T) {
	records := newStubEntryRecords()
	service := NewEntryService(records)
	habit := entryTestHabit(t)

	record, err := service.Log(habit, EntryInput{Date: "2025-06-02", Status: models.StatusDone})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !record.Completed {
		t.Fatalf("expected done entry marked completed, got %#v", record)
	}
	if record.PercentComplete == nil || *record.PercentComplete != 100 {
		t.Fatalf("expected done entry to default percent to 100, got %#v", record.PercentComplete)
	}

	if _, err := service.Log(habit, EntryInput{Date: "2025-06-02", Status: models.StatusNotDone}); !errors.Is(err, ErrEntryExists) {
		t.Fatalf("expected ErrEntryExists on second create, got %v", err)
	}
	if records.creates != 1 {
		t.Fatalf("expected single create, got %d", records.creates)
	}
}

func TestLogConcurrentSameDaySingleWinner(t *testing.T) {
	records := newStubEntryRecords()
	service := NewEntryService(records)
	habit := entryTestHabit(t)

	const attempts = 8
	var wait sync.WaitGroup
	var mu sync.Mutex
	var logged, conflicts int
	for i := 0; i < attempts; i++ {
		wait.Add(1)
		go func() {
			defer wait.Done()
			_, err := service.Log(habit, EntryInput{Date: "2025-06-02", Status: models.StatusDone})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				logged++
			case errors.Is(err, ErrEntryExists):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wait.Wait()

	if logged != 1 || conflicts != attempts-1 {
		t.Fatalf("expected one winner and %d conflicts, got %d/%d", attempts-1, logged, conflicts)
	}
	if records.creates != 1 {
		t.Fatalf("expected single create, got %d", records.creates)
	}
}

func TestLogDefaultsNotDonePercentToZero(t *testing.T) {
	service := NewEntryService(newStubEntryRecords())

	record, err := service.Log(entryTestHabit(t), EntryInput{Date: "2025-06-02", Status: models.StatusNotDone})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.PercentComplete == nil || *record.PercentComplete != 0 {
		t.Fatalf("expected percent 0, got %#v", record.PercentComplete)
	}
	if record.Completed {
		t.Fatalf("expected not-done entry to stay incomplete")
	}
}

func TestLogValidatesInput(t *testing.T) {
	service := NewEntryService(newStubEntryRecords())
	habit := entryTestHabit(t)

	if _, err := service.Log(habit, EntryInput{Date: "junk", Status: models.StatusDone}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := service.Log(habit, EntryInput{Date: "2025-06-02", Status: "snoozed"}); !errors.Is(err, ErrInvalidEntryInput) {
		t.Fatalf("expected ErrInvalidEntryInput for unknown status, got %v", err)
	}
	over := 120
	if _, err := service.Log(habit, EntryInput{Date: "2025-06-02", Status: models.StatusPartial, PercentComplete: &over}); !errors.Is(err, ErrInvalidEntryInput) {
		t.Fatalf("expected ErrInvalidEntryInput for percent out of range, got %v", err)
	}
}

func TestUpdateChangesExistingEntry(t *testing.T) {
	records := newStubEntryRecords()
	service := NewEntryService(records)
	habit := entryTestHabit(t)

	if _, err := service.Update(habit, EntryInput{Date: "2025-06-02", Status: models.StatusDone}); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound before logging, got %v", err)
	}

	if _, err := service.Log(habit, EntryInput{Date: "2025-06-02", Status: models.StatusNotDone}); err != nil {
		t.Fatalf("log: %v", err)
	}

	partial := 60
	record, err := service.Update(habit, EntryInput{Date: "2025-06-02", Status: models.StatusPartial, PercentComplete: &partial})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if record.Status != models.StatusPartial || record.Completed {
		t.Fatalf("expected partial incomplete entry, got %#v", record)
	}
	if records.saves != 1 || records.creates != 1 {
		t.Fatalf("expected one create and one save, got %d/%d", records.creates, records.saves)
	}
}
