package mailtext

import (
	"net/mail"
	"strings"
	"testing"
)

func parseMessage(t *testing.T, raw string) *mail.Message {
	t.Helper()
	msg, err := mail.ReadMessage(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to parse test message: %v", err)
	}
	return msg
}

func TestExtractPlainMessage(t *testing.T) {
	msg := parseMessage(t, "From: alice@example.com\r\n"+
		"Subject: hello\r\n"+
		"\r\n"+
		"Just a plain body.\r\n")

	got, err := Extract(msg)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(got, "Just a plain body.") {
		t.Errorf("Extract() = %q, want plain body text", got)
	}
}

func TestExtractMultipart(t *testing.T) {
	msg := parseMessage(t, "From: alice@example.com\r\n"+
		"Content-Type: multipart/alternative; boundary=\"BOUND\"\r\n"+
		"\r\n"+
		"--BOUND\r\n"+
		"Content-Type: text/plain; charset=utf-8\r\n"+
		"\r\n"+
		"Readable text part.\r\n"+
		"--BOUND\r\n"+
		"Content-Type: text/html; charset=utf-8\r\n"+
		"\r\n"+
		"<p>HTML part</p>\r\n"+
		"--BOUND--\r\n")

	got, err := Extract(msg)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(got, "Readable text part.") {
		t.Errorf("Extract() = %q, want text/plain content", got)
	}
	if strings.Contains(got, "HTML part") {
		t.Errorf("Extract() = %q, must not include text/html parts", got)
	}
}

func TestExtractMultipartWithoutPlainPart(t *testing.T) {
	msg := parseMessage(t, "From: alice@example.com\r\n"+
		"Content-Type: multipart/mixed; boundary=\"BOUND\"\r\n"+
		"\r\n"+
		"--BOUND\r\n"+
		"Content-Type: application/octet-stream\r\n"+
		"\r\n"+
		"binarybinary\r\n"+
		"--BOUND--\r\n")

	got, err := Extract(msg)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "" {
		t.Errorf("Extract() = %q, want empty string when no text/plain part exists", got)
	}
}

func TestExtractInvalidContentTypeFallsBack(t *testing.T) {
	msg := parseMessage(t, "From: alice@example.com\r\n"+
		"Content-Type: not a valid content type\r\n"+
		"\r\n"+
		"Body treated as plain text.\r\n")

	got, err := Extract(msg)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(got, "Body treated as plain text.") {
		t.Errorf("Extract() = %q, want raw body fallback", got)
	}
}
