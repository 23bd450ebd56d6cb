// Package mailer sends transactional email over SMTP.
//
// In development the defaults point at a Mailtrap sandbox inbox (smtp.mailtrap.io:2525);
// production deployments set SMTP_HOST and SMTP_PORT to their relay.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// Message is a single outgoing email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

// SMTPMailer sends messages through an SMTP relay with PLAIN auth.
type SMTPMailer struct {
	cfg      Config
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New creates an SMTPMailer.
func New(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, sendMail: smtp.SendMail}
}

// Send validates and delivers msg. smtp.SendMail has no context support, so ctx is
// only checked before dialing.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.validate(msg); err != nil {
		return err
	}

	raw := buildMessage(m.cfg.From, msg, time.Now())
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)

	if err := m.sendMail(addr, auth, m.cfg.From, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) validate(msg Message) error {
	// Basic validation
	if msg.To == "" {
		return errors.New("recipient email address cannot be empty")
	}
	if m.cfg.From == "" {
		return errors.New("sender email address cannot be empty")
	}
	if msg.Subject == "" {
		return errors.New("email subject cannot be empty")
	}
	if m.cfg.User == "" || m.cfg.Password == "" {
		return errors.New("SMTP username and password must be provided")
	}
	if strings.ContainsAny(msg.To+msg.Subject, "\r\n") {
		return errors.New("email headers must not contain line breaks")
	}
	return nil
}

// buildMessage renders headers and body. Bodies containing <html> or <p> are sent as HTML.
func buildMessage(from string, msg Message, now time.Time) []byte {
	contentType := "text/plain; charset=UTF-8"
	lower := strings.ToLower(msg.Body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") {
		contentType = "text/html; charset=UTF-8"
	}

	return []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Date: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", msg.To, from, msg.Subject, now.Format(time.RFC1123Z), contentType, msg.Body))
}
