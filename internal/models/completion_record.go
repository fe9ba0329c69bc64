package models

import "time"

const (
	StatusDone    = "done"
	StatusPartial = "partial"
	StatusNotDone = "not_done"
)

// CompletionRecord stores at most one row per (habit, day). Day is the
// canonical day key: midnight UTC of the habit-local calendar date.
type CompletionRecord struct {
	ID              uint      `gorm:"primaryKey"`
	HabitID         uint      `gorm:"not null;uniqueIndex:uidx_habit_day"`
	Day             time.Time `gorm:"type:date;not null;uniqueIndex:uidx_habit_day"`
	Status          string    `gorm:"not null;default:not_done"`
	PercentComplete *int
	Completed       bool `gorm:"not null;default:false"`
	ReminderSent    bool `gorm:"not null;default:false"`
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func KnownStatus(status string) bool {
	switch status {
	case StatusDone, StatusPartial, StatusNotDone:
		return true
	default:
		return false
	}
}
