// Package mail sends the board's notification email.
//
// Delivery is strictly best-effort: callers dispatch from a goroutine and
// ignore the result beyond a log line. A broken SMTP relay must never fail
// a registration.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

// Sender delivers notification email. The auth service depends on this
// interface so tests can drop in a recorder.
type Sender interface {
	SendWelcome(ctx context.Context, toEmail, toName string) error
}

// SMTPSender delivers mail through a configured SMTP relay.
type SMTPSender struct {
	client      *gomail.Client
	from        string
	frontendURL string
	logger      *slog.Logger
}

// NewSMTPSender builds a sender for the given relay. Credentials may be
// empty for relays that accept unauthenticated local delivery.
func NewSMTPSender(host string, port int, user, pass, from, frontendURL string, logger *slog.Logger) (*SMTPSender, error) {
	opts := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if user != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(user),
			gomail.WithPassword(pass),
		)
	}

	client, err := gomail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail: creating SMTP client: %w", err)
	}

	return &SMTPSender{
		client:      client,
		from:        from,
		frontendURL: frontendURL,
		logger:      logger,
	}, nil
}

// SendWelcome mails the post-registration greeting.
func (s *SMTPSender) SendWelcome(ctx context.Context, toEmail, toName string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("mail: setting from address: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("mail: setting to address: %w", err)
	}
	msg.Subject("Welcome to the community job board")
	msg.SetBodyString(gomail.TypeTextHTML, welcomeBody(toName, s.frontendURL))

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: sending welcome mail to %s: %w", toEmail, err)
	}

	s.logger.Info("welcome mail sent", slog.String("to", toEmail))
	return nil
}

func welcomeBody(name, frontendURL string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Hello, %s!</h2>
  <p>Thanks for registering with the community job board.</p>
  <p>You can now browse openings, apply, and keep track of your applications.</p>
  <p><a href="%s">Browse jobs</a></p>
  <p style="color:#666;font-size:0.9rem;">If you didn't register, you can ignore this mail.</p>
</div>`, name, frontendURL)
}

// NopSender is used when no SMTP host is configured; it records the intent
// and does nothing.
type NopSender struct {
	Logger *slog.Logger
}

func (s *NopSender) SendWelcome(ctx context.Context, toEmail, toName string) error {
	s.Logger.Debug("mail disabled, skipping welcome mail", slog.String("to", toEmail))
	return nil
}
