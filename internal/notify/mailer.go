package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// Mailer is the outbound email boundary. Send returns the provider's
// delivery id.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, html string) (string, error)
}

// ResendMailer delivers through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey), from: from}
}

func (m *ResendMailer) Send(ctx context.Context, to []string, subject, html string) (string, error) {
	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      to,
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return "", fmt.Errorf("resend: %w", err)
	}
	return sent.Id, nil
}
