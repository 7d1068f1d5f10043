package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/terraincognita07/agenda/internal/services"
)

type Handler struct {
	secretKey      []byte
	cookieSecure   bool
	requireSession bool
	logger         zerolog.Logger

	authService  *services.AuthService
	entryService *services.EntryService
}

type HandlerConfig struct {
	SecretKey           string
	CookieSecure        bool
	RequireSession      bool
	InstitutionalDomain string
}

const defaultAuthTokenTTL = 7 * 24 * time.Hour

type authClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}
