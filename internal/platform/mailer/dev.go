package mailer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/velorahq/velora-api/pkg/logger"
)

// DevMailer prints emails to the log instead of sending them.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) Send(ctx context.Context, in Message) (string, error) {
	id := "dev-" + uuid.NewString()

	logger.InfoContext(ctx, "📧 [DEV MAIL]",
		"to", in.To,
		"cc", in.CC,
		"bcc", in.BCC,
		"from", in.FromEmail,
		"subject", in.Subject,
		"message_id", id,
	)

	fmt.Printf("\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"📧 OUTBOUND EMAIL (DEV MODE)\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"From: %s <%s>\n"+
		"To: %s\n"+
		"Subject: %s\n"+
		"\n"+
		"%s\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n",
		in.FromName, in.FromEmail, in.To, in.Subject, in.HTML)

	return id, nil
}

var _ Service = (*DevMailer)(nil)
