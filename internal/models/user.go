package models

import "time"

type User struct {
	ID                uint   `gorm:"primaryKey"`
	Email             string `gorm:"uniqueIndex;not null"`
	PasswordHash      string `gorm:"not null"`
	DisplayName       string
	Timezone          string `gorm:"not null;default:UTC"`
	RemindersOptIn    bool   `gorm:"not null;default:false"`
	EmailVerified     bool   `gorm:"not null;default:false"`
	TelegramChatID    string
	VerificationToken string
	CreatedAt         time.Time `gorm:"not null"`
}
