package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/terraincognita07/agenda/internal/api"
	"github.com/terraincognita07/agenda/internal/cli"
	"github.com/terraincognita07/agenda/internal/config"
	"github.com/terraincognita07/agenda/internal/db"
	"github.com/terraincognita07/agenda/internal/logging"
	"github.com/terraincognita07/agenda/internal/mailer"
	"github.com/terraincognita07/agenda/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "agenda: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)
	for _, warning := range cfg.Warnings {
		log.Warn().Msg(warning)
	}

	if len(args) == 0 {
		return serve(cfg, log)
	}
	switch args[0] {
	case "serve":
		return serve(cfg, log)
	case "preview":
		return runPreview(args[1:], cfg, log)
	default:
		return fmt.Errorf("unknown command %q (want serve or preview)", args[0])
	}
}

func runPreview(args []string, cfg config.Config, log zerolog.Logger) error {
	flags := flag.NewFlagSet("preview", flag.ContinueOnError)
	at := flags.String("at", "", "minute to evaluate, as \""+cli.PreviewTimeLayout+"\" (default: now)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	return cli.RunPreviewCommand(os.Stdout, cli.PreviewOptions{
		DBPath:   cfg.DBPath,
		At:       *at,
		Location: cfg.Location,
		Reminder: reminderOptions(cfg),
	}, log)
}

func serve(cfg config.Config, log zerolog.Logger) error {
	database, err := db.OpenSQLite(cfg.DBPath, log)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			log.Error().Err(err).Msg("database close failed")
		}
	}()

	transport, err := newTransport(cfg.Email, log)
	if err != nil {
		return fmt.Errorf("mail transport init failed: %w", err)
	}
	dispatcher := mailer.NewDispatcher(transport, mailer.DispatcherConfig{
		RatePerSec:  cfg.Email.RatePerSec,
		SendTimeout: cfg.Email.SendTimeout,
	}, log)

	repositories := db.NewRepositories(database)
	reminders, err := services.NewReminderService(repositories.Entries, repositories.Deliveries, dispatcher, services.ReminderServiceConfig{
		Schedule: cfg.Reminder.Schedule,
		Location: cfg.Location,
		Options:  reminderOptions(cfg),
	}, log)
	if err != nil {
		return fmt.Errorf("reminder service init failed: %w", err)
	}

	handler, err := api.NewHandler(database, api.HandlerConfig{
		SecretKey:           cfg.SecretKey,
		CookieSecure:        cfg.CookieSecure,
		RequireSession:      cfg.RequireSession,
		InstitutionalDomain: cfg.InstitutionalDomain,
	}, log)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := newApp(cfg, handler, log)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if err := reminders.Start(sigCtx); err != nil {
		return err
	}

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("db", cfg.DBPath).
		Str("tz", cfg.Location.String()).
		Str("mail", transport.Name()).
		Msg("agenda listening")
	serveErr := app.Listen(":" + cfg.Port)

	stopSignals()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	select {
	case <-reminders.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn().Msg("reminder pass still running at shutdown")
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("pending mail abandoned at shutdown")
	}

	if serveErr != nil {
		return fmt.Errorf("server exited: %w", serveErr)
	}
	return nil
}

func newApp(cfg config.Config, handler *api.Handler, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Agenda",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Output: log.With().Str("component", "http").Logger(),
	}))
	app.Use(compress.New())

	api.RegisterRoutes(app, handler, cfg.StaticDir)
	return app
}

func newTransport(cfg config.EmailConfig, log zerolog.Logger) (mailer.Transport, error) {
	switch cfg.Transport {
	case config.TransportSendGrid:
		return mailer.NewSendGridTransport(cfg.SendGridAPIKey, ""), nil
	case config.TransportConsole:
		return mailer.NewConsoleTransport(log), nil
	default:
		return mailer.NewSMTPTransport(mailer.SMTPConfig{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Secure:   cfg.Secure,
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}
}

func reminderOptions(cfg config.Config) services.ReminderOptions {
	return services.ReminderOptions{
		From:          cfg.Email.From,
		RecipientName: cfg.Reminder.RecipientName,
	}
}
