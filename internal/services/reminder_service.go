package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/ember/internal/models"
)

type ReminderHabitSource interface {
	ListReminderEligible() ([]models.Habit, error)
}

type ReminderUserSource interface {
	FindByID(userID uint) (models.User, error)
}

type ReminderRecordStore interface {
	FindByHabitAndDay(habitID uint, day time.Time) (models.CompletionRecord, bool, error)
	CreateIfAbsent(record *models.CompletionRecord) (models.CompletionRecord, error)
	ClaimReminder(recordID uint) (int64, error)
	ReleaseReminderClaim(recordID uint) error
}

type Notifier interface {
	Send(ctx context.Context, recipient string, subject string, body string) error
}

type ReminderConfig struct {
	Interval     time.Duration
	GraceMinutes int
	SendTimeout  time.Duration
}

// ReminderDispatcher wakes on a fixed tick and, for every habit whose local
// wall clock sits inside its reminder window, claims and sends at most one
// notification per (habit, day). The claim is a conditional update in the
// record store; no other locking is used or needed.
type ReminderDispatcher struct {
	habits   ReminderHabitSource
	users    ReminderUserSource
	records  ReminderRecordStore
	notifier Notifier
	now      func() time.Time
	config   ReminderConfig
}

func NewReminderDispatcher(habits ReminderHabitSource, users ReminderUserSource, records ReminderRecordStore, notifier Notifier, config ReminderConfig) *ReminderDispatcher {
	if config.Interval <= 0 {
		config.Interval = time.Minute
	}
	if config.GraceMinutes < 0 {
		config.GraceMinutes = 0
	}
	if config.SendTimeout <= 0 {
		config.SendTimeout = 10 * time.Second
	}

	return &ReminderDispatcher{
		habits:   habits,
		users:    users,
		records:  records,
		notifier: notifier,
		now:      time.Now,
		config:   config,
	}
}

// WithClock replaces the dispatcher's time source. Tests inject a fixed
// clock here instead of waiting for ticks.
func (dispatcher *ReminderDispatcher) WithClock(now func() time.Time) *ReminderDispatcher {
	dispatcher.now = now
	return dispatcher
}

func (dispatcher *ReminderDispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(dispatcher.config.Interval)
	go func() {
		defer ticker.Stop()

		dispatcher.RunOnce(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				dispatcher.RunOnce(ctx)
			}
		}
	}()
}

// RunOnce processes one tick. A failure on one habit is logged and never
// aborts the batch.
func (dispatcher *ReminderDispatcher) RunOnce(ctx context.Context) {
	habits, err := dispatcher.habits.ListReminderEligible()
	if err != nil {
		log.Printf("reminders: fetch eligible habits failed: %v", err)
		return
	}

	for _, habit := range habits {
		if ctx.Err() != nil {
			return
		}
		if err := dispatcher.dispatchHabit(ctx, habit); err != nil {
			log.Printf("reminders: habit %d: %v", habit.ID, err)
		}
	}
}

func (dispatcher *ReminderDispatcher) dispatchHabit(ctx context.Context, habit models.Habit) error {
	location := LoadLocationOrUTC(habit.Timezone)
	localNow := dispatcher.now().In(location)

	if !withinReminderWindow(localNow, habit.ReminderTime, dispatcher.config.GraceMinutes) {
		return nil
	}

	today := DayKeyFromInstant(localNow, location)
	if !HabitDueOn(habit, today) {
		return nil
	}

	record, err := dispatcher.ensureRecord(habit.ID, today)
	if err != nil {
		return fmt.Errorf("ensure record: %w", err)
	}
	if record.Completed || record.ReminderSent {
		return nil
	}

	affected, err := dispatcher.records.ClaimReminder(record.ID)
	if err != nil {
		return fmt.Errorf("claim reminder: %w", err)
	}
	if affected != 1 {
		// Another invocation owns this (habit, day).
		return nil
	}

	if err := dispatcher.deliver(ctx, habit, record); err != nil {
		if releaseErr := dispatcher.records.ReleaseReminderClaim(record.ID); releaseErr != nil {
			return fmt.Errorf("deliver failed (%v); release claim: %w", err, releaseErr)
		}
		return fmt.Errorf("deliver: %w", err)
	}
	return nil
}

// ensureRecord creates today's placeholder when missing; losing a creation
// race to another process is success, the existing row wins.
func (dispatcher *ReminderDispatcher) ensureRecord(habitID uint, today time.Time) (models.CompletionRecord, error) {
	record, found, err := dispatcher.records.FindByHabitAndDay(habitID, today)
	if err != nil {
		return models.CompletionRecord{}, err
	}
	if found {
		return record, nil
	}

	placeholder := models.CompletionRecord{
		HabitID: habitID,
		Day:     today,
		Status:  models.StatusNotDone,
	}
	return dispatcher.records.CreateIfAbsent(&placeholder)
}

func (dispatcher *ReminderDispatcher) deliver(ctx context.Context, habit models.Habit, record models.CompletionRecord) error {
	owner, err := dispatcher.users.FindByID(habit.UserID)
	if err != nil {
		return fmt.Errorf("load owner: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, dispatcher.config.SendTimeout)
	defer cancel()

	subject := "Ember reminder"
	body := fmt.Sprintf("Time for %q (%s).", habit.Name, DayKeyString(record.Day))
	return dispatcher.notifier.Send(sendCtx, owner.TelegramChatID, subject, body)
}

// withinReminderWindow matches the configured HH:mm minute, widened forward
// by the grace window so a rolled-back claim still gets retried on the next
// ticks of the same day.
func withinReminderWindow(localNow time.Time, reminderTime string, graceMinutes int) bool {
	parts := strings.SplitN(strings.TrimSpace(reminderTime), ":", 2)
	if len(parts) != 2 {
		return false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return false
	}

	scheduled := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), hour, minute, 0, 0, localNow.Location())
	elapsed := localNow.Sub(scheduled)
	return elapsed >= 0 && elapsed < time.Duration(graceMinutes+1)*time.Minute
}
