package services

import (
	"fmt"
	"regexp"
	"strings"
)

const DefaultInstitutionalDomain = "unadvirtual.edu.co"

// AuthService admits institutional addresses only. There is no credential
// store: the password is accepted as given and never checked.
type AuthService struct {
	domain  string
	pattern *regexp.Regexp
}

func NewAuthService(domain string) *AuthService {
	domain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "@"))
	if domain == "" {
		domain = DefaultInstitutionalDomain
	}
	return &AuthService{
		domain:  domain,
		pattern: regexp.MustCompile("^.+@" + regexp.QuoteMeta(domain) + "$"),
	}
}

func (service *AuthService) Domain() string {
	return service.domain
}

func (service *AuthService) DomainErrorMessage() string {
	return fmt.Sprintf("Solo se permite acceso con correo estudiantil (@%s)", service.domain)
}

// Login returns the normalized email when it belongs to the institutional
// domain.
func (service *AuthService) Login(email string, _ string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if !service.pattern.MatchString(normalized) {
		return "", &ValidationError{Message: service.DomainErrorMessage()}
	}
	return normalized, nil
}
