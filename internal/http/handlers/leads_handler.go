package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/velorahq/velora-api/internal/domain"
	"github.com/velorahq/velora-api/internal/http/response"
	"github.com/velorahq/velora-api/internal/repo/postgres"
	"github.com/velorahq/velora-api/internal/utils"
	"github.com/velorahq/velora-api/pkg/events"
	"github.com/velorahq/velora-api/pkg/logger"
)

// LeadsHandler backs the marketing site's capture forms: waitlist, partner
// application and contact. Each submission is one row insert.
type LeadsHandler struct {
	Repo   postgres.LeadsRepo
	Events events.Publisher
}

func NewLeadsHandler(repo postgres.LeadsRepo, pub events.Publisher) *LeadsHandler {
	return &LeadsHandler{Repo: repo, Events: pub}
}

func (h *LeadsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{kind}", h.create)
	return r
}

type leadRes struct {
	OK     bool  `json:"ok"`
	LeadID int64 `json:"lead_id"`
}

func (h *LeadsHandler) create(w http.ResponseWriter, r *http.Request) {
	kind, ok := domain.ParseLeadKind(chi.URLParam(r, "kind"))
	if !ok {
		response.NotFound(w, "Unknown form")
		return
	}

	var in domain.LeadReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	in.Name = utils.NormalizeString(in.Name)
	in.Email = utils.NormalizeEmail(in.Email)
	in.Company = utils.NormalizeString(in.Company)
	in.Message = utils.NormalizeString(in.Message)
	if in.Name == "" || in.Email == "" {
		response.BadRequest(w, "Name and email are required")
		return
	}
	if !utils.IsValidEmail(in.Email) {
		response.BadRequest(w, "Invalid email format")
		return
	}
	if kind == domain.LeadPartner && in.Company == "" {
		response.BadRequest(w, "Company is required for partner applications")
		return
	}

	lead, err := h.Repo.Create(r.Context(), &domain.Lead{
		Kind:    kind,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   utils.NormalizePhone(in.Phone),
		Company: in.Company,
		Message: in.Message,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to persist lead", "error", err, "kind", string(kind))
		response.InternalError(w, "Could not save your submission")
		return
	}

	events.Emit(r.Context(), h.Events, events.SubjectLeadCaptured, lead)

	response.WriteJSON(w, http.StatusCreated, leadRes{OK: true, LeadID: lead.ID})
}
