package mailer

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
)

// SMTPMailer targets Mailpit in local development and plain STARTTLS relays
// in staging. SMTP has no provider message id, so Send fabricates one for a
// consistent caller contract.
type SMTPMailer struct {
	Host string
	Port int
	User string
	Pass string
}

func NewSMTPMailer(host string, port int, user, pass string) *SMTPMailer {
	return &SMTPMailer{
		Host: strings.TrimSpace(host),
		Port: port,
		User: strings.TrimSpace(user),
		Pass: pass,
	}
}

func (s *SMTPMailer) Send(_ context.Context, in Message) (string, error) {
	to := strings.TrimSpace(in.To)
	if to == "" {
		return "", fmt.Errorf("mailer: empty recipient email")
	}

	var buf bytes.Buffer
	boundary := "mixed-boundary"
	fmt.Fprintf(&buf, "From: %s <%s>\r\n", in.FromName, in.FromEmail)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	if len(in.CC) > 0 {
		fmt.Fprintf(&buf, "Cc: %s\r\n", strings.Join(in.CC, ", "))
	}
	fmt.Fprintf(&buf, "Subject: %s\r\n", in.Subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	// text part
	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", in.Text)

	// html part
	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/html; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", in.HTML)

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	rcpts := append([]string{to}, in.CC...)
	rcpts = append(rcpts, in.BCC...)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}

	if err := smtp.SendMail(addr, auth, in.FromEmail, rcpts, buf.Bytes()); err != nil {
		return "", err
	}
	return "smtp-" + uuid.NewString(), nil
}

var _ Service = (*SMTPMailer)(nil)
