package db

import (
	"context"

	"github.com/terraincognita07/agenda/internal/models"
	"gorm.io/gorm"
)

type EntryRepository struct {
	database *gorm.DB
}

func NewEntryRepository(database *gorm.DB) *EntryRepository {
	return &EntryRepository{database: database}
}

func (repo *EntryRepository) List(ctx context.Context) ([]models.Entry, error) {
	entries := make([]models.Entry, 0)
	if err := repo.database.WithContext(ctx).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *EntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	return repo.database.WithContext(ctx).Create(entry).Error
}

// Delete removes the entry and its delivery history. Deleting an unknown id
// is not an error.
func (repo *EntryRepository) Delete(ctx context.Context, entryID uint) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", entryID).Delete(&models.ReminderDelivery{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", entryID).Delete(&models.Entry{}).Error
	})
}
