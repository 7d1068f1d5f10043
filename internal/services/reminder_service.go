package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/terraincognita07/agenda/internal/mailer"
	"github.com/terraincognita07/agenda/internal/models"
)

const (
	DefaultReminderSchedule = "* * * * *"
	// OccurrenceLayout is the delivery ledger key format for an occurrence.
	OccurrenceLayout = "2006-01-02 15:04"
)

type ReminderEntryLister interface {
	List(ctx context.Context) ([]models.Entry, error)
}

type ReminderDeliveryClaimer interface {
	Claim(ctx context.Context, delivery *models.ReminderDelivery) (bool, error)
}

type ReminderDispatcher interface {
	Dispatch(message mailer.Message, kind string)
}

type ReminderServiceConfig struct {
	Schedule string
	Location *time.Location
	Options  ReminderOptions
}

type ReminderRunSummary struct {
	Entries    int
	Due        int
	Dispatched int
	Duplicates int
}

// ReminderService evaluates all entries on a cron schedule and hands due
// reminders to the dispatcher. A reminder is dispatched only after its
// delivery has been claimed, so a repeated pass in the same minute is a no-op.
type ReminderService struct {
	entries    ReminderEntryLister
	deliveries ReminderDeliveryClaimer
	dispatcher ReminderDispatcher
	schedule   string
	location   *time.Location
	options    ReminderOptions
	logger     zerolog.Logger
	now        func() time.Time

	mu      sync.Mutex
	cron    *cron.Cron
	stopped context.Context
}

func NewReminderService(entries ReminderEntryLister, deliveries ReminderDeliveryClaimer, dispatcher ReminderDispatcher, config ReminderServiceConfig, logger zerolog.Logger) (*ReminderService, error) {
	if entries == nil || dispatcher == nil {
		return nil, errors.New("reminder service requires an entry source and a dispatcher")
	}

	schedule := strings.TrimSpace(config.Schedule)
	if schedule == "" {
		schedule = DefaultReminderSchedule
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("parse reminder schedule %q: %w", schedule, err)
	}

	location := config.Location
	if location == nil {
		location = time.UTC
	}

	return &ReminderService{
		entries:    entries,
		deliveries: deliveries,
		dispatcher: dispatcher,
		schedule:   schedule,
		location:   location,
		options:    config.Options,
		logger:     logger.With().Str("component", "reminders").Logger(),
		now:        time.Now,
	}, nil
}

// Start schedules reminder passes until ctx is cancelled or Stop is called.
func (service *ReminderService) Start(ctx context.Context) error {
	service.mu.Lock()
	defer service.mu.Unlock()

	if service.cron != nil {
		return errors.New("reminder service already started")
	}

	cronLog := cronLogger{logger: service.logger}
	scheduler := cron.New(
		cron.WithLocation(service.location),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
	if _, err := scheduler.AddFunc(service.schedule, func() {
		if _, err := service.RunOnce(ctx, service.now()); err != nil {
			service.logger.Error().Err(err).Msg("reminder pass failed")
		}
	}); err != nil {
		return fmt.Errorf("schedule reminders: %w", err)
	}

	service.cron = scheduler
	scheduler.Start()
	service.logger.Info().Str("schedule", service.schedule).Str("tz", service.location.String()).Msg("reminder scheduler started")

	go func() {
		<-ctx.Done()
		service.Stop()
	}()
	return nil
}

// Stop halts the schedule. The returned context is done once a running pass
// has finished.
func (service *ReminderService) Stop() context.Context {
	service.mu.Lock()
	defer service.mu.Unlock()

	if service.cron == nil {
		if service.stopped != nil {
			return service.stopped
		}
		done, cancel := context.WithCancel(context.Background())
		cancel()
		return done
	}
	service.stopped = service.cron.Stop()
	service.cron = nil
	service.logger.Info().Msg("reminder scheduler stopped")
	return service.stopped
}

// RunOnce performs a single pass for the minute containing now.
func (service *ReminderService) RunOnce(ctx context.Context, now time.Time) (ReminderRunSummary, error) {
	summary := ReminderRunSummary{}
	now = now.In(service.location)

	entries, err := service.entries.List(ctx)
	if err != nil {
		return summary, fmt.Errorf("list entries: %w", err)
	}
	summary.Entries = len(entries)

	for _, entry := range entries {
		reason, skipped := skipReason(entry)
		if !skipped {
			continue
		}
		service.logger.Debug().Uint("entry_id", entry.ID).Str("reason", reason).Msg("entry skipped")
	}

	reminders := EvaluateReminders(now, entries, service.options)
	summary.Due = len(reminders)

	for _, reminder := range reminders {
		claimed, err := service.claim(ctx, reminder, now)
		if err != nil {
			// The ledger is best effort; the reminder still goes out.
			service.logger.Error().Err(err).Uint("entry_id", reminder.Entry.ID).Str("trigger", reminder.Trigger).Msg("delivery claim failed")
		} else if !claimed {
			summary.Duplicates++
			service.logger.Debug().Uint("entry_id", reminder.Entry.ID).Str("trigger", reminder.Trigger).Msg("reminder already delivered")
			continue
		}

		service.dispatcher.Dispatch(reminder.Message, reminder.Trigger)
		summary.Dispatched++
	}

	if summary.Due > 0 {
		service.logger.Info().
			Int("entries", summary.Entries).
			Int("dispatched", summary.Dispatched).
			Int("duplicates", summary.Duplicates).
			Msg("reminder pass")
	}
	return summary, nil
}

func (service *ReminderService) claim(ctx context.Context, reminder Reminder, now time.Time) (bool, error) {
	if service.deliveries == nil {
		return true, nil
	}
	return service.deliveries.Claim(ctx, &models.ReminderDelivery{
		EntryID:     reminder.Entry.ID,
		TriggerKind: reminder.Trigger,
		Occurrence:  reminder.Occurrence.Format(OccurrenceLayout),
		SentAt:      now,
	})
}

// skipReason reports why the evaluator ignores entry, if it does.
func skipReason(entry models.Entry) (string, bool) {
	day, clock := entry.Anchor()
	if day == "" || clock == "" {
		return "missing anchor", true
	}
	if _, ok := ParseWeekday(day); !ok {
		return "unknown weekday", true
	}
	if _, _, ok := ParseClock(clock); !ok {
		return "malformed time", true
	}
	return "", false
}

// cronLogger routes cron's own logging into zerolog.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
