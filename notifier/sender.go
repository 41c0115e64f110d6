package notifier

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// ISender delivers rendered e-mails.
type ISender interface {
	Send(ctx context.Context, email Email) error
}

// SMTPConfig holds the relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// GomailSender sends through an SMTP relay, one connection per message.
type GomailSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewGomailSender creates a GomailSender.
func NewGomailSender(cfg SMTPConfig) *GomailSender {
	return &GomailSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *GomailSender) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if email.To == "" {
		return fmt.Errorf("email %q has no recipient", email.Subject)
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", email.To)
	if email.ReplyTo != "" {
		msg.SetHeader("Reply-To", email.ReplyTo)
	}
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/html", email.HTML)
	return s.dialer.DialAndSend(msg)
}
