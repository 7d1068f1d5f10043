package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/terraincognita07/agenda/internal/security"
)

const (
	TransportSMTP     = "smtp"
	TransportSendGrid = "sendgrid"
	TransportConsole  = "console"

	generatedSecretLength = 48
)

type Config struct {
	Port                string
	DBPath              string
	Location            *time.Location
	SecretKey           string
	SecretGenerated     bool
	CookieSecure        bool
	RequireSession      bool
	StaticDir           string
	InstitutionalDomain string
	Log                 LogConfig
	Reminder            ReminderConfig
	Email               EmailConfig
	// Warnings collects recoverable problems found while loading.
	Warnings []string
}

type LogConfig struct {
	Level  string
	Format string
}

type ReminderConfig struct {
	Schedule      string
	RecipientName string
}

type EmailConfig struct {
	Transport      string
	Host           string
	Port           int
	Secure         bool
	Username       string
	Password       string
	From           string
	SendGridAPIKey string
	RatePerSec     int
	SendTimeout    time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("DB_PATH", filepath.Join("data", "data.db"))
	v.SetDefault("TZ", "America/Bogota")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("REQUIRE_SESSION", false)
	v.SetDefault("STATIC_DIR", "public")
	v.SetDefault("INSTITUTIONAL_DOMAIN", "unadvirtual.edu.co")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("REMINDER_SCHEDULE", "* * * * *")
	v.SetDefault("EMAIL_TRANSPORT", TransportSMTP)
	v.SetDefault("EMAIL_HOST", "smtp.example.com")
	v.SetDefault("EMAIL_PORT", 587)
	v.SetDefault("EMAIL_SECURE", false)
	v.SetDefault("EMAIL_FROM", "noreply@example.com")
	v.SetDefault("EMAIL_RATE_PER_SEC", 5)
	v.SetDefault("EMAIL_SEND_TIMEOUT", 30*time.Second)
}

// Load reads configuration from the environment, after loading envFile when
// it exists. Variables already present in the environment win over the file.
func Load(envFile string) (Config, error) {
	if strings.TrimSpace(envFile) != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return Config{}, fmt.Errorf("load %s: %w", envFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("stat %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := Config{
		Port:                strings.TrimSpace(v.GetString("PORT")),
		DBPath:              strings.TrimSpace(v.GetString("DB_PATH")),
		SecretKey:           strings.TrimSpace(v.GetString("SECRET_KEY")),
		CookieSecure:        v.GetBool("COOKIE_SECURE"),
		RequireSession:      v.GetBool("REQUIRE_SESSION"),
		StaticDir:           strings.TrimSpace(v.GetString("STATIC_DIR")),
		InstitutionalDomain: strings.ToLower(strings.TrimSpace(strings.TrimPrefix(v.GetString("INSTITUTIONAL_DOMAIN"), "@"))),
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Reminder: ReminderConfig{
			Schedule:      strings.TrimSpace(v.GetString("REMINDER_SCHEDULE")),
			RecipientName: strings.TrimSpace(v.GetString("REMINDER_RECIPIENT_NAME")),
		},
		Email: EmailConfig{
			Transport:      strings.ToLower(strings.TrimSpace(v.GetString("EMAIL_TRANSPORT"))),
			Host:           strings.TrimSpace(v.GetString("EMAIL_HOST")),
			Port:           v.GetInt("EMAIL_PORT"),
			Secure:         v.GetString("EMAIL_SECURE") == "true",
			Username:       v.GetString("EMAIL_USER"),
			Password:       v.GetString("EMAIL_PASS"),
			From:           strings.TrimSpace(v.GetString("EMAIL_FROM")),
			SendGridAPIKey: strings.TrimSpace(v.GetString("SENDGRID_API_KEY")),
			RatePerSec:     v.GetInt("EMAIL_RATE_PER_SEC"),
			SendTimeout:    v.GetDuration("EMAIL_SEND_TIMEOUT"),
		},
	}

	cfg.Location = loadLocation(v.GetString("TZ"), &cfg.Warnings)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	if cfg.SecretKey == "" {
		secret, err := security.RandomString(generatedSecretLength, security.AlphanumericAlphabet)
		if err != nil {
			return Config{}, fmt.Errorf("generate secret key: %w", err)
		}
		cfg.SecretKey = secret
		cfg.SecretGenerated = true
		cfg.Warnings = append(cfg.Warnings, "SECRET_KEY is empty, sessions will not survive a restart")
	}

	return cfg, nil
}

func (cfg Config) validate() error {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", cfg.Port)
	}
	if cfg.DBPath == "" {
		return errors.New("DB_PATH is required")
	}
	if cfg.InstitutionalDomain == "" {
		return errors.New("INSTITUTIONAL_DOMAIN is required")
	}
	if cfg.Reminder.Schedule == "" {
		return errors.New("REMINDER_SCHEDULE is required")
	}

	switch cfg.Email.Transport {
	case TransportSMTP:
		if cfg.Email.Host == "" {
			return errors.New("EMAIL_HOST is required for the smtp transport")
		}
		if cfg.Email.Port < 1 || cfg.Email.Port > 65535 {
			return fmt.Errorf("invalid EMAIL_PORT %d", cfg.Email.Port)
		}
	case TransportSendGrid:
		if cfg.Email.SendGridAPIKey == "" {
			return errors.New("SENDGRID_API_KEY is required for the sendgrid transport")
		}
	case TransportConsole:
	default:
		return fmt.Errorf("unknown EMAIL_TRANSPORT %q", cfg.Email.Transport)
	}

	if cfg.Email.RatePerSec < 1 {
		return fmt.Errorf("invalid EMAIL_RATE_PER_SEC %d", cfg.Email.RatePerSec)
	}
	if cfg.Email.SendTimeout <= 0 {
		return fmt.Errorf("invalid EMAIL_SEND_TIMEOUT %s", cfg.Email.SendTimeout)
	}
	return nil
}

func loadLocation(name string, warnings *[]string) *time.Location {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return time.Local
	}
	location, err := time.LoadLocation(trimmed)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("invalid TZ %q, falling back to UTC", trimmed))
		return time.UTC
	}
	return location
}
