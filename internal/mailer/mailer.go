// Package mailer sends transactional email over plain SMTP. It is used
// for the best-effort registration-confirmation message after a payment
// succeeds; delivery failures are logged by the caller, never fatal.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer holds the SMTP settings for outgoing mail.
type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// New creates a Mailer. It does not dial the server; a bad configuration
// surfaces on the first send.
func New(host, port, username, password, from string) *Mailer {
	return &Mailer{Host: host, Port: port, Username: username, Password: password, From: from}
}

// Configured reports whether the mailer has enough settings to send.
func (m *Mailer) Configured() bool {
	return m != nil && m.Host != "" && m.Username != "" && m.Password != "" && m.From != ""
}

// Send sends a single email. The Content-Type header is inferred from the
// body: anything that looks like HTML is sent as text/html.
func (m *Mailer) Send(recipient, subject, body string) error {
	if !m.Configured() {
		return fmt.Errorf("mailer is not configured")
	}
	if recipient == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}

	contentType := "text/plain; charset=UTF-8"
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") {
		contentType = "text/html; charset=UTF-8"
	}

	message := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", recipient, m.From, subject, contentType, body))

	addr := m.Host + ":" + m.Port
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)

	if err := smtp.SendMail(addr, auth, m.From, []string{recipient}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
