package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	defaultSendGridHost = "https://api.sendgrid.com"
	sendGridEndpoint    = "/v3/mail/send"
)

type SendGridTransport struct {
	key  string
	host string
}

// NewSendGridTransport uses the public API host when host is empty.
func NewSendGridTransport(key string, host string) *SendGridTransport {
	if host == "" {
		host = defaultSendGridHost
	}
	return &SendGridTransport{key: key, host: host}
}

func (transport *SendGridTransport) Name() string {
	return "sendgrid"
}

func (transport *SendGridTransport) prepare(message Message) *sgmail.SGMailV3 {
	personalization := sgmail.NewPersonalization()
	personalization.Subject = message.Subject
	personalization.AddTos(sgmail.NewEmail("", message.To))

	mail := sgmail.NewV3Mail()
	mail.SetFrom(sgmail.NewEmail("", message.From))
	mail.AddPersonalizations(personalization)
	mail.AddContent(sgmail.NewContent("text/plain", message.Text))
	return mail
}

func (transport *SendGridTransport) Send(ctx context.Context, message Message) error {
	if err := message.Validate(); err != nil {
		return err
	}

	request := sendgrid.GetRequest(transport.key, sendGridEndpoint, transport.host)
	request.Method = http.MethodPost
	request.Body = sgmail.GetRequestBody(transport.prepare(message))

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if response.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}
