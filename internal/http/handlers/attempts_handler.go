package handlers

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/velorahq/velora-api/internal/domain"
	"github.com/velorahq/velora-api/internal/email/shell"
	"github.com/velorahq/velora-api/internal/email/templates"
	"github.com/velorahq/velora-api/internal/http/response"
	"github.com/velorahq/velora-api/internal/platform/mailer"
	"github.com/velorahq/velora-api/internal/repo/postgres"
	"github.com/velorahq/velora-api/internal/token"
	"github.com/velorahq/velora-api/internal/utils"
	"github.com/velorahq/velora-api/internal/vehicles"
	"github.com/velorahq/velora-api/pkg/events"
	"github.com/velorahq/velora-api/pkg/logger"
)

// AttemptsHandler runs the booking-attempt flow: persist the attempt, mint a
// subscribe token, send the "currently unavailable" email. Persistence
// success is never rolled back by a delivery failure.
type AttemptsHandler struct {
	Repo       postgres.AttemptsRepo
	Mailer     mailer.Service
	Tokens     *token.Codec
	Shell      *shell.Renderer
	Events     events.Publisher
	SiteOrigin string
	FromName   string
	FromEmail  string
}

func NewAttemptsHandler(repo postgres.AttemptsRepo, m mailer.Service, codec *token.Codec, sh *shell.Renderer, pub events.Publisher, siteOrigin, fromName, fromEmail string) *AttemptsHandler {
	return &AttemptsHandler{
		Repo:       repo,
		Mailer:     m,
		Tokens:     codec,
		Shell:      sh,
		Events:     pub,
		SiteOrigin: siteOrigin,
		FromName:   fromName,
		FromEmail:  fromEmail,
	}
}

func (h *AttemptsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.create)
	return r
}

type attemptRes struct {
	OK                  bool   `json:"ok"`
	AttemptID           int64  `json:"attempt_id"`
	AvailabilityMessage string `json:"availability_message"`
	ResendID            string `json:"resend_id,omitempty"`
}

type attemptDeliveryErr struct {
	OK        bool   `json:"ok"`
	Error     string `json:"error"`
	Code      string `json:"code"`
	AttemptID int64  `json:"attempt_id"`
}

func (h *AttemptsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in domain.AttemptReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	in.Name = utils.NormalizeString(in.Name)
	in.Email = utils.NormalizeEmail(in.Email)
	in.Pickup = utils.NormalizeString(in.Pickup)
	in.Dropoff = utils.NormalizeString(in.Dropoff)
	in.Notes = utils.NormalizeString(in.Notes)
	in.VehicleID = utils.NormalizeString(in.VehicleID)
	if in.Name == "" || in.Email == "" || in.VehicleID == "" {
		response.BadRequest(w, "Name, email and vehicle_id are required")
		return
	}
	if !utils.IsValidEmail(in.Email) {
		response.BadRequest(w, "Invalid email format")
		return
	}

	vehicle, ok := vehicles.Find(in.VehicleID)
	if !ok {
		response.WriteError(w, http.StatusBadRequest, "We don't recognize that vehicle", response.CodeNotFound)
		return
	}

	message := fmt.Sprintf(
		"Hi %s, the %s is currently unavailable due to high demand. Leave your email and we'll let you know the moment it opens up.",
		in.Name, vehicle.Name)

	attempt, err := h.Repo.Create(r.Context(), &domain.BookingAttempt{
		Name:                in.Name,
		Email:               in.Email,
		Phone:               utils.NormalizePhone(in.Phone),
		Pickup:              in.Pickup,
		Dropoff:             in.Dropoff,
		Notes:               in.Notes,
		VehicleID:           vehicle.ID,
		VehicleName:         vehicle.Name,
		VehicleImage:        vehicle.ImageURL,
		VehiclePrice:        vehicle.Price,
		AvailabilityMessage: message,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to persist booking attempt", "error", err)
		response.InternalError(w, "Could not save your booking request")
		return
	}

	events.Emit(r.Context(), h.Events, events.SubjectAttemptCreated, events.AttemptCreated{
		AttemptID: attempt.ID,
		Email:     attempt.Email,
		VehicleID: attempt.VehicleID,
		CreatedAt: attempt.CreatedAt,
	})

	subscribeLink, err := h.subscribeLink(attempt)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to mint subscribe token", "error", err, "attempt_id", attempt.ID)
		response.WriteErrorWithDetails(w, http.StatusInternalServerError,
			"Your request was recorded but we could not prepare the notification email",
			response.CodeInternalError, fmt.Sprintf("attempt_id=%d", attempt.ID))
		return
	}

	doc, subject := h.renderUnavailableEmail(attempt, subscribeLink)

	msgID, err := h.Mailer.Send(r.Context(), mailer.Message{
		FromName:  h.FromName,
		FromEmail: h.FromEmail,
		To:        attempt.Email,
		ToName:    attempt.Name,
		Subject:   subject,
		Text:      message + "\n\nGet notified: " + subscribeLink,
		HTML:      doc,
	})
	if err != nil {
		// The attempt row exists even though notification failed; surface the
		// id so the customer has something to quote to support.
		logger.ErrorContext(r.Context(), "delivery provider rejected send", "error", err, "attempt_id", attempt.ID)
		response.WriteJSON(w, http.StatusBadGateway, attemptDeliveryErr{
			Error:     "We saved your request but couldn't send the confirmation email",
			Code:      response.CodeDeliveryFailed,
			AttemptID: attempt.ID,
		})
		return
	}

	events.Emit(r.Context(), h.Events, events.SubjectEmailSent, events.EmailSent{
		To:        attempt.Email,
		Kind:      string(templates.KeyBookingUpdate),
		MessageID: msgID,
		SentAt:    time.Now(),
	})

	response.WriteJSON(w, http.StatusCreated, attemptRes{
		OK:                  true,
		AttemptID:           attempt.ID,
		AvailabilityMessage: message,
		ResendID:            msgID,
	})
}

func (h *AttemptsHandler) subscribeLink(attempt *domain.BookingAttempt) (string, error) {
	tok, err := h.Tokens.Sign(map[string]any{
		"email":      attempt.Email,
		"attempt_id": strconv.FormatInt(attempt.ID, 10),
		"ts":         time.Now().UnixMilli(),
	})
	if err != nil {
		return "", err
	}
	return h.SiteOrigin + "/api/notify/subscribe?token=" + url.QueryEscape(tok), nil
}

func (h *AttemptsHandler) renderUnavailableEmail(attempt *domain.BookingAttempt, subscribeLink string) (doc, subject string) {
	rendered := templates.Render(templates.KeyBookingUpdate, templates.Vars{
		CustomerName: attempt.Name,
		StatusLabel:  "High demand",
		StatusTitle:  "Your ride request is on the waitlist",
		// Server-computed string, trusted by construction.
		StatusMessage: template.HTML(template.HTMLEscapeString(attempt.AvailabilityMessage)),
		VehicleName:   attempt.VehicleName,
		VehicleImage:  attempt.VehicleImage,
		VehiclePrice:  attempt.VehiclePrice,
		Reference:     fmt.Sprintf("VLR-%06d", attempt.ID),
		Pickup:        attempt.Pickup,
		Destination:   attempt.Dropoff,
		Email:         attempt.Email,
		Notes:         attempt.Notes,
		PrimaryCTA: templates.CTA{
			Label: "Notify me when it's available",
			URL:   subscribeLink,
		},
		ClosingNoteHTML: "You're receiving this because you requested a ride at velora.example. The notify link above works only for this request.",
	})

	subject = rendered.SubjectHint
	doc = h.Shell.Wrap(rendered.Headline, attempt.AvailabilityMessage, rendered.BodyHTML)
	return doc, subject
}
