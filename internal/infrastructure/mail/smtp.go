// Package mail delivers notification emails over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/koifarm/backend/internal/infrastructure/config"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// ErrNoRecipient is returned when Send is called without an address
var ErrNoRecipient = errors.New("mail: recipient is required")

// sender is the part of *gomail.Client the notifier uses
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// SMTPNotifier sends HTML messages through an SMTP relay
type SMTPNotifier struct {
	client   sender
	from     string
	fromName string
	logger   *zap.Logger
}

// NewSMTPNotifier creates a notifier for the configured relay
func NewSMTPNotifier(cfg config.MailConfig, logger *zap.Logger) (*SMTPNotifier, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(tlsPolicy(cfg.TLSPolicy)),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(cfg.Timeout))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return newSMTPNotifier(client, cfg.From, cfg.FromName, logger), nil
}

func newSMTPNotifier(client sender, from, fromName string, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		client:   client,
		from:     from,
		fromName: fromName,
		logger:   logger,
	}
}

// Send delivers one HTML message to one recipient
func (n *SMTPNotifier) Send(ctx context.Context, to, title, htmlBody string) error {
	if to == "" {
		return ErrNoRecipient
	}

	msg := gomail.NewMsg()
	if err := n.setFrom(msg); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(title)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	n.logger.Debug("Mail delivered", zap.String("to", to), zap.String("subject", title))
	return nil
}

func (n *SMTPNotifier) setFrom(msg *gomail.Msg) error {
	var err error
	if n.fromName != "" {
		err = msg.FromFormat(n.fromName, n.from)
	} else {
		err = msg.From(n.from)
	}
	if err != nil {
		return fmt.Errorf("invalid sender %q: %w", n.from, err)
	}
	return nil
}

func tlsPolicy(policy string) gomail.TLSPolicy {
	switch policy {
	case "none":
		return gomail.NoTLS
	case "opportunistic":
		return gomail.TLSOpportunistic
	default:
		return gomail.TLSMandatory
	}
}
