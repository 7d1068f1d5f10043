package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/agenda/internal/db"
	"github.com/terraincognita07/agenda/internal/security"
	"github.com/terraincognita07/agenda/internal/services"
	"gorm.io/gorm"
)

const sessionKeyPurpose = "agenda.session.v1"

func NewHandler(database *gorm.DB, config HandlerConfig, logger zerolog.Logger) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if strings.TrimSpace(config.SecretKey) == "" {
		return nil, errors.New("secret key is required")
	}

	sessionKey, err := security.DeriveKey([]byte(config.SecretKey), sessionKeyPurpose)
	if err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}

	repositories := db.NewRepositories(database)
	return &Handler{
		secretKey:      sessionKey,
		cookieSecure:   config.CookieSecure,
		requireSession: config.RequireSession,
		logger:         logger.With().Str("component", "api").Logger(),
		authService:    services.NewAuthService(config.InstitutionalDomain),
		entryService:   services.NewEntryService(repositories.Entries),
	}, nil
}
