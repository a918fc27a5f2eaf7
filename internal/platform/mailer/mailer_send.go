package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSend struct {
	client *mailersend.Mailersend
}

func NewMailerSend(apiKey string) (*MailerSend, error) {
	if apiKey == "" {
		return nil, errors.New("mailer: MAILERSEND_API_KEY is not configured")
	}
	return &MailerSend{client: mailersend.NewMailersend(apiKey)}, nil
}

func (m *MailerSend) Send(ctx context.Context, in Message) (string, error) {
	if strings.TrimSpace(in.To) == "" {
		return "", errors.New("mailer: empty recipient email")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(mailersend.From{Name: in.FromName, Email: in.FromEmail})
	msg.SetRecipients([]mailersend.Recipient{{Name: in.ToName, Email: in.To}})
	if len(in.CC) > 0 {
		msg.SetCc(recipients(in.CC))
	}
	if len(in.BCC) > 0 {
		msg.SetBcc(recipients(in.BCC))
	}
	msg.SetSubject(in.Subject)
	if strings.TrimSpace(in.Text) != "" {
		msg.SetText(in.Text)
	}
	if strings.TrimSpace(in.HTML) != "" {
		msg.SetHTML(in.HTML)
	}

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	// MailerSend uses X-Message-Id
	return res.Header.Get("X-Message-Id"), nil
}

func recipients(emails []string) []mailersend.Recipient {
	out := make([]mailersend.Recipient, 0, len(emails))
	for _, e := range emails {
		out = append(out, mailersend.Recipient{Email: e})
	}
	return out
}

var _ Service = (*MailerSend)(nil)
