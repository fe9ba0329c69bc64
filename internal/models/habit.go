package models

import "time"

const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyCustom  = "custom"
)

const DefaultStreakThreshold = 50

type Habit struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       uint   `gorm:"not null;index"`
	Name         string `gorm:"not null"`
	Description  string
	Frequency    string     `gorm:"not null;default:daily"`
	ScheduleDays []int      `gorm:"serializer:json"`
	StartDate    time.Time  `gorm:"type:date;not null"`
	EndDate      *time.Time `gorm:"type:date"`
	Timezone     string     `gorm:"not null;default:UTC"`
	ReminderTime string
	Active       bool       `gorm:"not null;default:true"`
	DeletedAt    *time.Time `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func KnownFrequency(frequency string) bool {
	switch frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyCustom:
		return true
	default:
		return false
	}
}
