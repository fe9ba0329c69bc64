package db

import (
	"time"

	"github.com/terraincognita07/ember/internal/models"
	"gorm.io/gorm"
)

type HabitRepository struct {
	database *gorm.DB
}

func NewHabitRepository(database *gorm.DB) *HabitRepository {
	return &HabitRepository{database: database}
}

func (repo *HabitRepository) Create(habit *models.Habit) error {
	return repo.database.Create(habit).Error
}

func (repo *HabitRepository) Save(habit *models.Habit) error {
	return repo.database.Save(habit).Error
}

func (repo *HabitRepository) FindByIDAndUser(habitID uint, userID uint) (models.Habit, bool, error) {
	habit := models.Habit{}
	result := repo.database.
		Where("id = ? AND user_id = ? AND deleted_at IS NULL", habitID, userID).
		Limit(1).
		Find(&habit)
	if result.Error != nil {
		return models.Habit{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Habit{}, false, nil
	}
	return habit, true, nil
}

func (repo *HabitRepository) ListByUser(userID uint) ([]models.Habit, error) {
	habits := make([]models.Habit, 0)
	if err := repo.database.
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Order("created_at ASC, id ASC").
		Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

func (repo *HabitRepository) ListActiveByUser(userID uint) ([]models.Habit, error) {
	habits := make([]models.Habit, 0)
	if err := repo.database.
		Where("user_id = ? AND active = ? AND deleted_at IS NULL", userID, true).
		Order("created_at ASC, id ASC").
		Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

// ListReminderEligible returns active habits with a configured reminder time
// whose owner has opted into reminders and verified their email.
func (repo *HabitRepository) ListReminderEligible() ([]models.Habit, error) {
	habits := make([]models.Habit, 0)
	if err := repo.database.
		Joins("JOIN users ON users.id = habits.user_id").
		Where("habits.active = ? AND habits.deleted_at IS NULL AND habits.reminder_time <> ''", true).
		Where("users.reminders_opt_in = ? AND users.email_verified = ?", true, true).
		Order("habits.id ASC").
		Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

// SoftDelete marks the habit deleted so analytics history stays intact.
func (repo *HabitRepository) SoftDelete(habitID uint, userID uint, deletedAt time.Time) error {
	return repo.database.Model(&models.Habit{}).
		Where("id = ? AND user_id = ? AND deleted_at IS NULL", habitID, userID).
		Updates(map[string]any{"deleted_at": deletedAt, "active": false}).Error
}
