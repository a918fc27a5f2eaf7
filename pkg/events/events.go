package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/velorahq/velora-api/pkg/logger"
)

// Subjects published by the email subsystem.
const (
	SubjectAttemptCreated = "booking.attempt_created"
	SubjectEmailSent      = "email.sent"
	SubjectLeadCaptured   = "lead.captured"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type AttemptCreated struct {
	AttemptID int64     `json:"attempt_id"`
	Email     string    `json:"email"`
	VehicleID string    `json:"vehicle_id"`
	CreatedAt time.Time `json:"created_at"`
}

type EmailSent struct {
	To        string    `json:"to"`
	Kind      string    `json:"kind"`
	MessageID string    `json:"message_id"`
	SentAt    time.Time `json:"sent_at"`
}

type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn}, nil
}

func (n *NATSPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSPublisher) Close() error {
	n.conn.Close()
	return nil
}

// Emit publishes on a best-effort basis. A nil publisher or a broker error
// never fails the request that produced the event.
func Emit(ctx context.Context, pub Publisher, subject string, data interface{}) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, subject, data); err != nil {
		logger.WarnContext(ctx, "Event publish failed", "subject", subject, "error", err)
	}
}
