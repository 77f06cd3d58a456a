package notify

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"
	"os"
	"strings"
)

// Status: メール送信の結果区分。
// 確定の成功/失敗と「そもそも送っていない（設定なし）」を区別する。
type Status string

const (
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

type SendResult struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

func sent() SendResult { return SendResult{Status: StatusSent} }

func failed(err error) SendResult {
	return SendResult{Status: StatusFailed, Error: err.Error()}
}

func skipped(reason string) SendResult {
	return SendResult{Status: StatusSkipped, Error: reason}
}

// Mailer: 確認メール（QR添付）のSMTP送信
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewMailer(host string, port int, username, password, from string) *Mailer {
	return &Mailer{host: host, port: port, username: username, password: password, from: from}
}

// SendConfirmation: 確認済みユーザーへQRコードを添付して送信する。
// 送信失敗は呼び出し側で握りつぶさず SendResult として返す。
func (m *Mailer) SendConfirmation(toEmail, userID, qrPath string) SendResult {
	if m.password == "" {
		return skipped("mail credentials not configured")
	}
	if toEmail == "" {
		return skipped("user has no email address")
	}

	png, err := os.ReadFile(qrPath)
	if err != nil {
		return failed(fmt.Errorf("QR画像の読み込みに失敗: %w", err))
	}

	msg := buildMessage(m.from, toEmail, userID, png)

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	if err := smtp.SendMail(addr, auth, envelopeAddr(m.from), []string{toEmail}, msg); err != nil {
		return failed(err)
	}
	return sent()
}

const confirmationSubject = "QR Code for offline pass"

const confirmationBody = `<!DOCTYPE html>
<html lang="en">
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background-color: #d4a017; color: #fff; padding: 10px; text-align: center;">
      <h2>Bhagavata Kathamrita - Your QR Code &amp; Verification</h2>
    </div>
    <div style="background-color: #fff; padding: 20px;">
      <p>Dear Devotee,</p>
      <p>We are delighted to confirm that your registration for the
      <strong>Bhagavata Kathamrita</strong> event has been successfully verified!
      Attached to this email, you will find your unique QR code, which will allow
      you to collect your offline pass at the event stall.</p>
      <p><strong>How to Get Your Offline Pass:</strong></p>
      <ul>
        <li>Save the attached QR code to your mobile device or print it.</li>
        <li>Visit the Bhagavata Kathamrita event stall on the day of the event.</li>
        <li>Present the QR code to our team to receive your offline pass.</li>
      </ul>
      <p>With warm regards,<br>The Bhagavata Kathamrita Team</p>
    </div>
  </div>
</body>
</html>`

// buildMessage: multipart/mixed（HTML本文＋PNG添付）のMIMEメッセージを組み立てる
func buildMessage(from, to, userID string, qrPNG []byte) []byte {
	const boundary = "kathamritam-mail-boundary"

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", confirmationSubject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n", boundary)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(confirmationBody)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: image/png\r\n")
	buf.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n", "qr_"+userID+".png")
	buf.WriteString("\r\n")
	writeBase64(&buf, qrPNG)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	return buf.Bytes()
}

// writeBase64: 76桁で折り返して書き出す（RFC 2045）
func writeBase64(buf *bytes.Buffer, data []byte) {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		buf.WriteString(encoded[:76])
		buf.WriteString("\r\n")
		encoded = encoded[76:]
	}
	buf.WriteString(encoded)
	buf.WriteString("\r\n")
}

// envelopeAddr: "Name <addr>" 形式からエンベロープ用アドレスを取り出す
func envelopeAddr(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.LastIndex(from, ">"); j > i {
			return from[i+1 : j]
		}
	}
	return from
}
