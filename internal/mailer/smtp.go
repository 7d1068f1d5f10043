package mailer

import (
	"context"
	"fmt"
	"strings"

	gomail "github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Secure   bool
	Username string
	Password string
}

// SMTPTransport dials the server for every message, so no connection state
// is shared between goroutines.
type SMTPTransport struct {
	config SMTPConfig
}

func NewSMTPTransport(config SMTPConfig) (*SMTPTransport, error) {
	if strings.TrimSpace(config.Host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if config.Port <= 0 {
		config.Port = 587
	}
	return &SMTPTransport{config: config}, nil
}

func (transport *SMTPTransport) Name() string {
	return "smtp"
}

func (transport *SMTPTransport) clientOptions() []gomail.Option {
	options := []gomail.Option{}
	if transport.config.Secure {
		options = append(options, gomail.WithSSL())
	} else {
		options = append(options, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	options = append(options, gomail.WithPort(transport.config.Port))

	if transport.config.Username != "" {
		options = append(options,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(transport.config.Username),
			gomail.WithPassword(transport.config.Password),
		)
	}
	return options
}

func (transport *SMTPTransport) Send(ctx context.Context, message Message) error {
	if err := message.Validate(); err != nil {
		return err
	}

	msg := gomail.NewMsg()
	if err := msg.From(message.From); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(message.To); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	msg.Subject(message.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, message.Text)

	client, err := gomail.NewClient(transport.config.Host, transport.clientOptions()...)
	if err != nil {
		return fmt.Errorf("build smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send to %s:%d: %w", transport.config.Host, transport.config.Port, err)
	}
	return nil
}
