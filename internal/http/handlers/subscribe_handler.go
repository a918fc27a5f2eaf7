package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/velorahq/velora-api/internal/brand"
	"github.com/velorahq/velora-api/internal/repo/postgres"
	"github.com/velorahq/velora-api/internal/token"
	"github.com/velorahq/velora-api/pkg/logger"
)

// SubscribeHandler consumes availability-subscribe links from booking emails.
// It is browser-navigated, so every outcome is an HTML page, never JSON.
// Replays are idempotent: the upsert and the opt-in flag converge on the same
// state, a second click is a no-op rather than an error.
type SubscribeHandler struct {
	Tokens      *token.Codec
	Attempts    postgres.AttemptsRepo
	Subscribers postgres.SubscribersRepo
}

func NewSubscribeHandler(codec *token.Codec, attempts postgres.AttemptsRepo, subscribers postgres.SubscribersRepo) *SubscribeHandler {
	return &SubscribeHandler{Tokens: codec, Attempts: attempts, Subscribers: subscribers}
}

func (h *SubscribeHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/subscribe", h.subscribe)
	return r
}

func (h *SubscribeHandler) subscribe(w http.ResponseWriter, r *http.Request) {
	// Tampered, malformed and mis-shaped tokens all land here with the same
	// message, so the page leaks nothing about which check failed.
	payload := h.Tokens.Verify(r.URL.Query().Get("token"))
	if payload == nil {
		h.renderPage(w, http.StatusBadRequest, "This link isn't valid",
			"The link you followed is invalid or expired. If you still want availability alerts, submit a new booking request.")
		return
	}

	email, _ := payload["email"].(string)
	attemptIDRaw, _ := payload["attempt_id"].(string)
	attemptID, err := strconv.ParseInt(attemptIDRaw, 10, 64)
	if err != nil {
		h.renderPage(w, http.StatusBadRequest, "This link isn't valid",
			"The link you followed is invalid or expired. If you still want availability alerts, submit a new booking request.")
		return
	}

	// A valid signature is not enough: the referenced attempt must exist, or
	// the link subscribes an email to nothing.
	attempt, err := h.Attempts.GetByID(r.Context(), attemptID)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to load attempt for subscribe", "error", err, "attempt_id", attemptID)
		h.renderPage(w, http.StatusInternalServerError, "Something went wrong",
			"We couldn't save your preference right now. Please try the link again in a moment.")
		return
	}
	if attempt == nil {
		h.renderPage(w, http.StatusBadRequest, "This link isn't valid",
			"The link you followed is invalid or expired. If you still want availability alerts, submit a new booking request.")
		return
	}

	if err := h.Subscribers.Upsert(r.Context(), email, attemptID); err != nil {
		logger.ErrorContext(r.Context(), "failed to upsert subscriber", "error", err)
		h.renderPage(w, http.StatusInternalServerError, "Something went wrong",
			"We couldn't save your preference right now. Please try the link again in a moment.")
		return
	}

	if _, err := h.Attempts.SetOptedIn(r.Context(), attemptID); err != nil {
		logger.ErrorContext(r.Context(), "failed to flag attempt opt-in", "error", err, "attempt_id", attemptID)
		h.renderPage(w, http.StatusInternalServerError, "Something went wrong",
			"We couldn't save your preference right now. Please try the link again in a moment.")
		return
	}

	logger.InfoContext(r.Context(), "availability subscriber recorded", "attempt_id", attemptID)
	h.renderPage(w, http.StatusOK, "You're on the list",
		fmt.Sprintf("We'll email %s as soon as your vehicle becomes available.", email))
}

func (h *SubscribeHandler) renderPage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	b := brand.Default
	fmt.Fprintf(w, subscribePage,
		template.HTMLEscapeString(title),
		template.HTMLEscapeString(b.Name),
		template.HTMLEscapeString(title),
		template.HTMLEscapeString(message),
		template.HTMLEscapeString(b.ContactURL),
	)
}

const subscribePage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>
  body { margin: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background: #efece7; color: #1c1b1a; }
  .card { max-width: 460px; margin: 80px auto; background: #fff; border-radius: 12px; padding: 40px; }
  h1 { font-size: 24px; margin: 0 0 16px; }
  p { font-size: 15px; line-height: 1.6; color: #3d3d3d; margin: 0 0 24px; }
  a { color: #1c1b1a; }
</style>
</head>
<body>
<div class="card">
<p style="font-weight:700;letter-spacing:2px;text-transform:uppercase;font-size:13px;">%s</p>
<h1>%s</h1>
<p>%s</p>
<p><a href="%s">Contact us</a> if you need a hand.</p>
</div>
</body>
</html>`
