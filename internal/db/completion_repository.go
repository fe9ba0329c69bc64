package db

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/ember/internal/models"
	"gorm.io/gorm"
)

type CompletionRecordRepository struct {
	database *gorm.DB
}

func NewCompletionRecordRepository(database *gorm.DB) *CompletionRecordRepository {
	return &CompletionRecordRepository{database: database}
}

func (repo *CompletionRecordRepository) FindByHabitAndDay(habitID uint, day time.Time) (models.CompletionRecord, bool, error) {
	record := models.CompletionRecord{}
	result := repo.database.
		Where("habit_id = ? AND day = ?", habitID, day).
		Limit(1).
		Find(&record)
	if result.Error != nil {
		return models.CompletionRecord{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.CompletionRecord{}, false, nil
	}
	return record, true, nil
}

// CreateIfAbsent inserts the record unless a row for (habit, day) already
// exists. Losing a creation race counts as success: the winning row is read
// back and returned.
func (repo *CompletionRecordRepository) CreateIfAbsent(record *models.CompletionRecord) (models.CompletionRecord, error) {
	err := repo.database.Create(record).Error
	if err == nil {
		return *record, nil
	}
	if !isUniqueViolation(err) {
		return models.CompletionRecord{}, err
	}

	existing, found, readErr := repo.FindByHabitAndDay(record.HabitID, record.Day)
	if readErr != nil {
		return models.CompletionRecord{}, readErr
	}
	if !found {
		return models.CompletionRecord{}, err
	}
	return existing, nil
}

func (repo *CompletionRecordRepository) Save(record *models.CompletionRecord) error {
	return repo.database.Save(record).Error
}

func (repo *CompletionRecordRepository) ListByHabitRange(habitID uint, from time.Time, to time.Time) ([]models.CompletionRecord, error) {
	records := make([]models.CompletionRecord, 0)
	if err := repo.database.
		Where("habit_id = ? AND day >= ? AND day <= ?", habitID, from, to).
		Order("day ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ClaimReminder is the single compare-and-swap the dispatcher relies on:
// one conditional UPDATE that flips reminder_sent only while the record is
// still unsent and incomplete. The affected-row count decides the winner.
func (repo *CompletionRecordRepository) ClaimReminder(recordID uint) (int64, error) {
	result := repo.database.Model(&models.CompletionRecord{}).
		Where("id = ? AND reminder_sent = ? AND completed = ?", recordID, false, false).
		Update("reminder_sent", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (repo *CompletionRecordRepository) ReleaseReminderClaim(recordID uint) error {
	return repo.database.Model(&models.CompletionRecord{}).
		Where("id = ?", recordID).
		Update("reminder_sent", false).Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint") || strings.Contains(message, "constraint failed")
}
