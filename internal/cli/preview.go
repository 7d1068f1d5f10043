package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/agenda/internal/db"
	"github.com/terraincognita07/agenda/internal/models"
	"github.com/terraincognita07/agenda/internal/services"
)

const PreviewTimeLayout = "2006-01-02 15:04"

type PreviewOptions struct {
	DBPath   string
	At       string
	Location *time.Location
	Reminder services.ReminderOptions
}

// RunPreviewCommand prints the reminders that would go out at the given
// minute. Nothing is sent and no delivery is recorded.
func RunPreviewCommand(out io.Writer, options PreviewOptions, logger zerolog.Logger) error {
	location := options.Location
	if location == nil {
		location = time.UTC
	}

	at, err := ParsePreviewTime(options.At, location, time.Now)
	if err != nil {
		return err
	}

	database, err := db.OpenSQLite(options.DBPath, logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer func() {
		if closeErr := db.Close(database); closeErr != nil {
			logger.Warn().Err(closeErr).Msg("database close failed")
		}
	}()

	entries, err := db.NewEntryRepository(database).List(context.Background())
	if err != nil {
		return fmt.Errorf("load entries: %w", err)
	}

	return writePreview(out, at, entries, services.EvaluateReminders(at, entries, options.Reminder))
}

// ParsePreviewTime reads raw in location. An empty value means the current
// minute.
func ParsePreviewTime(raw string, location *time.Location, now func() time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return now().In(location).Truncate(time.Minute), nil
	}

	parsed, err := time.ParseInLocation(PreviewTimeLayout, trimmed, location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at value %q, expected %q: %w", trimmed, PreviewTimeLayout, err)
	}
	return parsed, nil
}

func writePreview(out io.Writer, at time.Time, entries []models.Entry, reminders []services.Reminder) error {
	if _, err := fmt.Fprintf(out, "Reminders due at %s %s (%s): %d from %d entries\n",
		services.WeekdayName(at.Weekday()), at.Format(PreviewTimeLayout), at.Location(), len(reminders), len(entries)); err != nil {
		return err
	}

	for _, reminder := range reminders {
		if _, err := fmt.Fprintf(out, "- [%s] #%d %s -> %s\n  Subject: %s\n  Occurrence: %s\n",
			reminder.Trigger,
			reminder.Entry.ID,
			reminder.Entry.Name,
			reminder.Message.To,
			reminder.Message.Subject,
			reminder.Occurrence.Format(PreviewTimeLayout),
		); err != nil {
			return err
		}
	}
	return nil
}
