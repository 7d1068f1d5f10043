package models

import "time"

const (
	TriggerFiveDays = "five_days"
	TriggerOneDay   = "one_day"
	TriggerStart    = "start"
)

type ReminderDelivery struct {
	ID          uint      `gorm:"primaryKey"`
	EntryID     uint      `gorm:"not null;uniqueIndex:uidx_reminder_deliveries_claim"`
	TriggerKind string    `gorm:"not null;uniqueIndex:uidx_reminder_deliveries_claim"`
	Occurrence  string    `gorm:"not null;uniqueIndex:uidx_reminder_deliveries_claim"`
	SentAt      time.Time `gorm:"not null"`
}
