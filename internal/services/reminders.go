package services

import (
	"time"

	"github.com/terraincognita07/agenda/internal/mailer"
	"github.com/terraincognita07/agenda/internal/models"
)

// ReminderOptions carries the message settings that do not come from the entry.
type ReminderOptions struct {
	From string
	// RecipientName greets the student in class and CIPA reminders. When
	// empty, the local part of the entry's email is used.
	RecipientName string
}

type Reminder struct {
	Entry      models.Entry
	Trigger    string
	Occurrence time.Time
	Message    mailer.Message
}

// EvaluateReminders returns every reminder due at now's minute. Entries with
// an unknown weekday or a missing or malformed anchor are skipped.
func EvaluateReminders(now time.Time, entries []models.Entry, options ReminderOptions) []Reminder {
	reminders := make([]Reminder, 0)
	for _, entry := range entries {
		reminders = append(reminders, EvaluateEntry(now, entry, options)...)
	}
	return reminders
}

func EvaluateEntry(now time.Time, entry models.Entry, options ReminderOptions) []Reminder {
	day, clock := entry.Anchor()
	if day == "" || clock == "" {
		return nil
	}
	weekday, ok := ParseWeekday(day)
	if !ok {
		return nil
	}
	hour, minute, ok := ParseClock(clock)
	if !ok {
		return nil
	}

	// All three triggers require the anchor minute.
	if now.Hour() != hour || now.Minute() != minute {
		return nil
	}

	next := nextOccurrence(now, weekday, hour, minute)
	reminders := make([]Reminder, 0, 1)

	if sameDate(now, next.AddDate(0, 0, -5)) {
		reminders = append(reminders, Reminder{
			Entry:      entry,
			Trigger:    models.TriggerFiveDays,
			Occurrence: next,
			Message:    composeAdvanceReminder(now, entry, next, 5, options),
		})
	}
	if sameDate(now, next.AddDate(0, 0, -1)) {
		reminders = append(reminders, Reminder{
			Entry:      entry,
			Trigger:    models.TriggerOneDay,
			Occurrence: next,
			Message:    composeAdvanceReminder(now, entry, next, 1, options),
		})
	}
	if now.Weekday() == weekday {
		year, month, date := now.Date()
		reminders = append(reminders, Reminder{
			Entry:      entry,
			Trigger:    models.TriggerStart,
			Occurrence: time.Date(year, month, date, hour, minute, 0, 0, now.Location()),
			Message:    composeStartReminder(entry, options),
		})
	}
	return reminders
}
