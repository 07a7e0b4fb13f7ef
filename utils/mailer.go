package authUtils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// Mailer is the notification-service boundary. Delivery is best effort:
// a failed send is logged and never rolls back the mutation that
// triggered it.
type Mailer interface {
	Send(to []string, subject, body string) error
}

// ActiveMailer is the process-wide mailer. main replaces it with an SMTP
// mailer when credentials are configured; tests and credential-less dev
// keep the logging no-op.
var ActiveMailer Mailer = LogMailer{}

// SendAsync fires a notification without blocking the caller.
func SendAsync(to []string, subject, body string) {
	if len(to) == 0 {
		return
	}
	go func() {
		if err := ActiveMailer.Send(to, subject, body); err != nil {
			log.Printf("mail delivery failed (subject %q, %d recipients): %v", subject, len(to), err)
		}
	}()
}

// LogMailer records sends instead of delivering them.
type LogMailer struct{}

func (LogMailer) Send(to []string, subject, _ string) error {
	log.Printf("mail (not delivered): %q to %d recipients", subject, len(to))
	return nil
}

// SMTPMailer delivers over plain SMTP with AUTH.
type SMTPMailer struct {
	Host     string
	Port     string
	From     string
	Password string
}

// NewSMTPMailerFromEnv builds a mailer from SMTP_HOST, SMTP_PORT,
// EMAIL_USER and EMAIL_PASS. Returns nil when no credentials are set.
func NewSMTPMailerFromEnv() *SMTPMailer {
	user := os.Getenv("EMAIL_USER")
	pass := os.Getenv("EMAIL_PASS")
	if user == "" || pass == "" {
		return nil
	}
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return &SMTPMailer{Host: host, Port: port, From: user, Password: pass}
}

func (m *SMTPMailer) Send(to []string, subject, body string) error {
	msg := strings.Join([]string{
		"From: CivicConnect <" + m.From + ">",
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)
	addr := fmt.Sprintf("%s:%s", m.Host, m.Port)
	return smtp.SendMail(addr, auth, m.From, to, []byte(msg))
}
