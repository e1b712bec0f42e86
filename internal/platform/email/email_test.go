package email

import (
	"strings"
	"testing"

	"appraisal/internal/platform/config"
)

func TestNewFallsBackToNoop(t *testing.T) {
	if _, ok := New(config.Config{EmailEnabled: false, SMTPHost: "mail.example.com"}).(noopMailer); !ok {
		t.Fatalf("disabled email must yield the noop mailer")
	}
	if _, ok := New(config.Config{EmailEnabled: true, SMTPHost: ""}).(noopMailer); !ok {
		t.Fatalf("missing SMTP host must yield the noop mailer")
	}
	if _, ok := New(config.Config{EmailEnabled: true, SMTPHost: "mail.example.com"}).(*Sender); !ok {
		t.Fatalf("enabled email with a host must yield the SMTP sender")
	}
}

func TestMessageHeaders(t *testing.T) {
	msg := string(message("no-reply@example.com", "mgr@example.com", "Self review submitted", "Asha Rao submitted their self review."))

	wantLines := []string{
		"From: no-reply@example.com",
		"To: mgr@example.com",
		"Subject: Self review submitted",
		"Content-Type: text/plain; charset=\"UTF-8\"",
	}
	for _, line := range wantLines {
		if !strings.Contains(msg, line+"\r\n") {
			t.Fatalf("message missing header %q:\n%s", line, msg)
		}
	}
	if !strings.HasSuffix(msg, "\r\n\r\nAsha Rao submitted their self review.") {
		t.Fatalf("body must follow a blank line:\n%s", msg)
	}
}
