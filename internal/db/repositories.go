package db

import "gorm.io/gorm"

type Repositories struct {
	Entries    *EntryRepository
	Deliveries *ReminderDeliveryRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Entries:    NewEntryRepository(database),
		Deliveries: NewReminderDeliveryRepository(database),
	}
}
