package domain

import "time"

// BookingAttempt is a row capturing a booking request we could not serve.
// The attempt exists independently of whether the notification email made it
// out; delivery failure never rolls it back.
type BookingAttempt struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`

	Pickup  string `json:"pickup_location,omitempty"`
	Dropoff string `json:"dropoff_location,omitempty"`
	Notes   string `json:"notes,omitempty"`

	VehicleID    string `json:"vehicle_id"`
	VehicleName  string `json:"vehicle_name"`
	VehicleImage string `json:"vehicle_image,omitempty"`
	VehiclePrice string `json:"vehicle_price,omitempty"`

	AvailabilityMessage string `json:"availability_message"`

	OptedIn   bool      `json:"opted_in"`
	CreatedAt time.Time `json:"created_at"`
}

// AttemptReq is the booking-attempt endpoint's request body.
type AttemptReq struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Pickup    string `json:"pickup_location,omitempty"`
	Dropoff   string `json:"dropoff_location,omitempty"`
	Notes     string `json:"notes,omitempty"`
	VehicleID string `json:"vehicle_id"`
}

// Subscriber is an email address opted into availability alerts, keyed by
// email with upsert semantics.
type Subscriber struct {
	Email     string    `json:"email"`
	AttemptID int64     `json:"attempt_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LeadKind distinguishes the marketing site's capture forms.
type LeadKind string

const (
	LeadWaitlist LeadKind = "waitlist"
	LeadPartner  LeadKind = "partner"
	LeadContact  LeadKind = "contact"
)

func ParseLeadKind(s string) (LeadKind, bool) {
	switch LeadKind(s) {
	case LeadWaitlist, LeadPartner, LeadContact:
		return LeadKind(s), true
	default:
		return "", false
	}
}

type Lead struct {
	ID        int64     `json:"id"`
	Kind      LeadKind  `json:"kind"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type LeadReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Message string `json:"message,omitempty"`
}
