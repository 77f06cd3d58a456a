package notify

import (
	"strings"
	"testing"
)

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("Info <info@kathamritam.online>", "devotee@example.org", "user1", []byte{0x89, 'P', 'N', 'G'}))

	for _, want := range []string{
		"From: Info <info@kathamritam.online>",
		"To: devotee@example.org",
		"MIME-Version: 1.0",
		"multipart/mixed",
		"Content-Type: text/html; charset=UTF-8",
		"Content-Type: image/png",
		`filename="qr_user1.png"`,
		"Bhagavata Kathamrita",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}

	// 添付はbase64
	if !strings.Contains(msg, "iVBORw==") {
		t.Error("expected base64 encoded attachment body")
	}
}

func TestEnvelopeAddr(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Info <info@kathamritam.online>", "info@kathamritam.online"},
		{"info@kathamritam.online", "info@kathamritam.online"},
		{"", ""},
	}
	for _, c := range cases {
		if got := envelopeAddr(c.in); got != c.want {
			t.Errorf("envelopeAddr(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSendConfirmationSkipped(t *testing.T) {
	// 認証情報なしなら送信自体を行わず skipped を返す
	m := NewMailer("smtp.example.org", 587, "user", "", "info@example.org")
	res := m.SendConfirmation("devotee@example.org", "user1", "nonexistent.png")
	if res.Status != StatusSkipped {
		t.Errorf("expected skipped, got %q (%s)", res.Status, res.Error)
	}

	m = NewMailer("smtp.example.org", 587, "user", "secret", "info@example.org")
	res = m.SendConfirmation("", "user1", "nonexistent.png")
	if res.Status != StatusSkipped {
		t.Errorf("expected skipped for empty recipient, got %q", res.Status)
	}
}

func TestSendConfirmationMissingQR(t *testing.T) {
	m := NewMailer("smtp.example.org", 587, "user", "secret", "info@example.org")
	res := m.SendConfirmation("devotee@example.org", "user1", "definitely/not/there.png")
	if res.Status != StatusFailed {
		t.Errorf("expected failed when QR file is missing, got %q", res.Status)
	}
	if res.Error == "" {
		t.Error("expected error detail")
	}
}
