// Copyright (c) 2026 Push-It. All rights reserved.

/*
Package mailer implements the outbound notification dispatcher.

It sends the two transactional emails the platform needs — email verification
and password reset — over SMTP. Delivery is best-effort by contract: callers
dispatch in the background, log failures, and never retry.
*/
package mailer

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/smtp"
	"net/url"

	"github.com/jordan-wright/email"
)

// Kind labels for dispatch metrics and logging.
const (
	KindVerification  = "verification"
	KindPasswordReset = "password_reset"
)

// Mailer is the notification dispatch contract.
//
// Implementations must not retry: errors are reported to the caller once and
// the caller decides what (if anything) to log.
type Mailer interface {
	// SendVerification emails a verification link for the given token.
	SendVerification(toAddress, token string) error

	// SendPasswordReset emails a password reset link for the given token.
	SendPasswordReset(toAddress, token string) error
}

// SMTPConfig holds the connection settings for the SMTP dispatcher.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// SkipTLSVerify disables certificate validation. Deliberate per-environment
	// configuration; must stay false in production.
	SkipTLSVerify bool

	// BaseURL is the public address links are built against.
	BaseURL string
}

// SMTPMailer sends transactional email over an implicit-TLS SMTP connection.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer constructs an [SMTPMailer].
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendVerification implements [Mailer].
func (mailer *SMTPMailer) SendVerification(toAddress, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", mailer.cfg.BaseURL, url.QueryEscape(token))
	body := fmt.Sprintf(`<p>Welcome to Push-It!</p><p>Click <a href="%s">here</a> to verify your email.</p>`, link)

	return mailer.send(toAddress, "Verify your email", body)
}

// SendPasswordReset implements [Mailer].
func (mailer *SMTPMailer) SendPasswordReset(toAddress, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", mailer.cfg.BaseURL, url.QueryEscape(token))
	body := fmt.Sprintf(`<p>Click <a href="%s">here</a> to reset your password.</p><p>The link expires in one hour. If you did not request this, ignore this email.</p>`, link)

	return mailer.send(toAddress, "Reset your password", body)
}

// send composes and delivers a single HTML email.
func (mailer *SMTPMailer) send(toAddress, subject, htmlBody string) error {
	message := email.NewEmail()
	message.From = mailer.cfg.From
	message.To = []string{toAddress}
	message.Subject = subject
	message.HTML = []byte(htmlBody)

	hostAndPort := fmt.Sprintf("%s:%d", mailer.cfg.Host, mailer.cfg.Port)
	plainAuth := smtp.PlainAuth("", mailer.cfg.Username, mailer.cfg.Password, mailer.cfg.Host)

	tlsConfig := &tls.Config{
		ServerName:         mailer.cfg.Host,
		InsecureSkipVerify: mailer.cfg.SkipTLSVerify,
	}

	if err := message.SendWithTLS(hostAndPort, plainAuth, tlsConfig); err != nil {
		return fmt.Errorf("mailer: failed to send %q to %s: %w", subject, toAddress, err)
	}

	return nil
}

// LogMailer is a [Mailer] that only logs, used in development environments
// where no SMTP relay is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer constructs a [LogMailer].
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendVerification implements [Mailer].
func (mailer *LogMailer) SendVerification(toAddress, token string) error {
	mailer.logger.Info("email_skipped_no_smtp",
		slog.String("kind", KindVerification),
		slog.String("to", toAddress),
		slog.String("token", token),
	)
	return nil
}

// SendPasswordReset implements [Mailer].
func (mailer *LogMailer) SendPasswordReset(toAddress, token string) error {
	mailer.logger.Info("email_skipped_no_smtp",
		slog.String("kind", KindPasswordReset),
		slog.String("to", toAddress),
	)
	return nil
}
