package mailer

import "context"

// Message is a fully-rendered email: HTML is the complete document produced
// by the shell renderer, never a fragment.
type Message struct {
	FromName  string
	FromEmail string
	To        string
	ToName    string
	CC        []string
	BCC       []string
	Subject   string
	Text      string
	HTML      string
}

// Service is the outbound delivery provider. Send returns the provider's
// message id on success. There is no retry layer behind it; callers surface
// failures synchronously.
type Service interface {
	Send(ctx context.Context, msg Message) (string, error)
}
