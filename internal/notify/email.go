package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// EmailSender delivers alerts over SMTP with plain auth.
type EmailSender struct {
	server   string
	port     int
	from     string
	password string
	to       []string
}

type EmailConfig struct {
	Server   string
	Port     int
	From     string
	Password string
	To       []string
}

func NewEmailSender(cfg EmailConfig) *EmailSender {
	return &EmailSender{
		server:   cfg.Server,
		port:     cfg.Port,
		from:     cfg.From,
		password: cfg.Password,
		to:       cfg.To,
	}
}

func (e *EmailSender) Send(ctx context.Context, title, message string) error {
	if len(e.to) == 0 {
		return nil
	}

	msg := strings.Join([]string{
		"From: " + e.from,
		"To: " + strings.Join(e.to, ", "),
		"Subject: " + title,
		"",
		message,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", e.server, e.port)
	auth := smtp.PlainAuth("", e.from, e.password, e.server)
	if err := smtp.SendMail(addr, auth, e.from, e.to, []byte(msg)); err != nil {
		return fmt.Errorf("email: send via %s: %w", addr, err)
	}
	return nil
}

func (e *EmailSender) Name() string {
	return "email"
}
