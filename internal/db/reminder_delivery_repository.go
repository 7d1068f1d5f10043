package db

import (
	"context"

	"github.com/terraincognita07/agenda/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReminderDeliveryRepository struct {
	database *gorm.DB
}

func NewReminderDeliveryRepository(database *gorm.DB) *ReminderDeliveryRepository {
	return &ReminderDeliveryRepository{database: database}
}

// Claim records the delivery and reports whether this call inserted it. A
// false result means the same reminder was already claimed.
func (repo *ReminderDeliveryRepository) Claim(ctx context.Context, delivery *models.ReminderDelivery) (bool, error) {
	result := repo.database.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(delivery)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repo *ReminderDeliveryRepository) ListByEntry(ctx context.Context, entryID uint) ([]models.ReminderDelivery, error) {
	deliveries := make([]models.ReminderDelivery, 0)
	if err := repo.database.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Order("sent_at ASC, id ASC").
		Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}
