package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/velorahq/velora-api/internal/adminpin"
	"github.com/velorahq/velora-api/internal/email/shell"
	"github.com/velorahq/velora-api/internal/email/templates"
	"github.com/velorahq/velora-api/internal/http/response"
	"github.com/velorahq/velora-api/internal/platform/auth"
	"github.com/velorahq/velora-api/internal/platform/mailer"
	"github.com/velorahq/velora-api/internal/utils"
	"github.com/velorahq/velora-api/pkg/events"
	"github.com/velorahq/velora-api/pkg/logger"
)

const outboxFallbackSubject = "A message from Velora"

var errMissingSession = errors.New("missing bearer session token")

// OutboxHandler is the internal "send a branded email" tool. Sends require
// the operator PIN plus an admin session whose email is on the admin
// allow-list, and the from address must be on the sender allow-list. Checks
// run before any side effect, in a fixed order.
type OutboxHandler struct {
	Pin          *adminpin.Verifier
	Sessions     auth.SessionVerifier
	Mailer       mailer.Service
	Shell        *shell.Renderer
	Events       events.Publisher
	AdminEmails  []string
	SenderEmails []string
	FromName     string
}

func NewOutboxHandler(pin *adminpin.Verifier, sessions auth.SessionVerifier, m mailer.Service, sh *shell.Renderer, pub events.Publisher, adminEmails, senderEmails []string, fromName string) *OutboxHandler {
	return &OutboxHandler{
		Pin:          pin,
		Sessions:     sessions,
		Mailer:       m,
		Shell:        sh,
		Events:       pub,
		AdminEmails:  adminEmails,
		SenderEmails: senderEmails,
		FromName:     fromName,
	}
}

func (h *OutboxHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/send", h.send)
	return r
}

type outboxReq struct {
	Pin              string         `json:"pin"`
	From             string         `json:"from"`
	To               string         `json:"to"`
	CC               []string       `json:"cc,omitempty"`
	BCC              []string       `json:"bcc,omitempty"`
	Subject          string         `json:"subject,omitempty"`
	TemplateKey      string         `json:"templateKey,omitempty"`
	Vars             templates.Vars `json:"vars,omitempty"`
	HeadlineOverride string         `json:"headlineOverride,omitempty"`
}

type outboxRes struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

func (h *OutboxHandler) send(w http.ResponseWriter, r *http.Request) {
	var in outboxReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	if !h.Pin.Verify(in.Pin) {
		response.Unauthorized(w, "Invalid PIN")
		return
	}

	in.From = utils.NormalizeEmail(in.From)
	if !slices.Contains(h.SenderEmails, in.From) {
		response.BadRequest(w, "From address is not an approved sender")
		return
	}

	admin, err := h.verifySession(r)
	if err != nil {
		response.Unauthorized(w, "Invalid or missing session")
		return
	}
	if !slices.Contains(h.AdminEmails, admin) {
		response.Forbidden(w, "Not authorized to use the outbox")
		return
	}

	in.To = utils.NormalizeEmail(in.To)
	if in.To == "" {
		response.BadRequest(w, "Recipient is required")
		return
	}

	key := templates.Key(in.TemplateKey)
	if in.TemplateKey == "" {
		key = templates.KeyCustom
	}
	if key == templates.KeyCustom && strings.TrimSpace(string(in.Vars.MessageHTML)) == "" {
		response.BadRequest(w, "messageHtml is required for custom messages")
		return
	}

	rendered := templates.Render(key, in.Vars)

	subject := in.Subject
	if subject == "" {
		subject = rendered.SubjectHint
	}
	if subject == "" {
		subject = outboxFallbackSubject
	}

	headline := in.HeadlineOverride
	if headline == "" {
		headline = rendered.Headline
	}
	if headline == "" {
		headline = subject
	}

	ctx := context.WithValue(r.Context(), logger.AdminKey, admin)
	doc := h.Shell.Wrap(headline, "", rendered.BodyHTML)

	id, err := h.Mailer.Send(ctx, mailer.Message{
		FromName:  h.FromName,
		FromEmail: in.From,
		To:        in.To,
		CC:        in.CC,
		BCC:       in.BCC,
		Subject:   subject,
		HTML:      doc,
	})
	if err != nil {
		logger.ErrorContext(ctx, "outbox delivery failed", "error", err, "to", in.To, "template", string(key))
		response.WriteErrorWithDetails(w, http.StatusBadGateway,
			"Delivery provider rejected the send", response.CodeDeliveryFailed, err.Error())
		return
	}

	logger.InfoContext(ctx, "outbox email sent", "to", in.To, "template", string(key), "message_id", id)
	events.Emit(ctx, h.Events, events.SubjectEmailSent, events.EmailSent{
		To:        in.To,
		Kind:      string(key),
		MessageID: id,
		SentAt:    time.Now(),
	})

	response.WriteJSON(w, http.StatusOK, outboxRes{OK: true, ID: id})
}

func (h *OutboxHandler) verifySession(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenString == "" {
		return "", errMissingSession
	}

	claims, err := h.Sessions.Verify(tokenString)
	if err != nil {
		return "", err
	}
	return utils.NormalizeEmail(claims.Email), nil
}
