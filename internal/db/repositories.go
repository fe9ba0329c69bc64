package db

import "gorm.io/gorm"

type Repositories struct {
	Users       *UserRepository
	Habits      *HabitRepository
	Completions *CompletionRecordRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(database),
		Habits:      NewHabitRepository(database),
		Completions: NewCompletionRecordRepository(database),
	}
}
