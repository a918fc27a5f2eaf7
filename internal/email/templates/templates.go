// Package templates is the catalogue of message kinds the brand knows how to
// send. Render is a pure function from a key plus variables to a body
// fragment for the email shell; it never touches the network or storage.
//
// Two trust tiers coexist here and the types keep them apart: plain string
// fields are entity-escaped before interpolation, template.HTML fields are
// spliced in as-is. The HTML fields are only ever populated by allow-listed
// outbox operators or by server-computed strings, never by anonymous input.
package templates

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"
)

type Key string

const (
	KeyBookingUpdate   Key = "booking_update"
	KeyPaymentReceipt  Key = "payment_receipt"
	KeyBillingIssue    Key = "billing_issue"
	KeyLegalNotice     Key = "legal_notice"
	KeyEmergencyUpdate Key = "emergency_update"
	KeyPartnerMessage  Key = "partner_message"
	KeySalesFollowup   Key = "sales_followup"
	KeyPrivacyNotice   Key = "privacy_notice"
	KeyCustom          Key = "custom"
)

// CTA is rendered only when both Label and URL are present.
type CTA struct {
	Label string `json:"label,omitempty"`
	URL   string `json:"url,omitempty"`
}

func (c CTA) empty() bool { return c.Label == "" || c.URL == "" }

// Vars is the open variable bag for a render. Which fields matter depends on
// the key; unused fields are ignored.
type Vars struct {
	CustomerName string `json:"customerName,omitempty"`

	// booking_update fields.
	IntroHTML     template.HTML `json:"introHtml,omitempty"`
	StatusLabel   string        `json:"statusLabel,omitempty"`
	StatusTitle   string        `json:"statusTitle,omitempty"`
	StatusMessage template.HTML `json:"statusMessage,omitempty"`
	VehicleName   string        `json:"vehicleName,omitempty"`
	VehicleImage  string        `json:"vehicleImage,omitempty"`
	VehiclePrice  string        `json:"vehiclePrice,omitempty"`
	Reference     string        `json:"reference,omitempty"`
	Pickup        string        `json:"pickup,omitempty"`
	Destination   string        `json:"destination,omitempty"`
	Email         string        `json:"email,omitempty"`
	Notes         string        `json:"notes,omitempty"`

	PrimaryCTA   CTA `json:"primaryCta,omitempty"`
	SecondaryCTA CTA `json:"secondaryCta,omitempty"`

	ClosingNoteHTML template.HTML `json:"closingNoteHtml,omitempty"`

	// custom fields. MessageHTML passes through the script-tag neutralizer
	// only; it is a partial mitigation, not a sanitizer.
	MessageHTML template.HTML `json:"messageHtml,omitempty"`
	Footnote    string        `json:"footnote,omitempty"`
}

// Rendered is the stable output contract: the shell places Headline above
// BodyHTML, and orchestrators may override SubjectHint.
type Rendered struct {
	Headline    string
	SubjectHint string
	BodyHTML    template.HTML
}

// Render dispatches on key. An unrecognized key falls back to the custom
// shape so the send pipeline always produces something renderable.
func Render(key Key, vars Vars) Rendered {
	switch key {
	case KeyBookingUpdate:
		return renderBookingUpdate(vars)
	case KeyPaymentReceipt, KeyBillingIssue, KeyLegalNotice, KeyEmergencyUpdate,
		KeyPartnerMessage, KeySalesFollowup, KeyPrivacyNotice:
		return renderNotice(key, vars)
	default:
		return renderCustom(vars)
	}
}

func esc(s string) string { return template.HTMLEscapeString(s) }

func greeting(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Hi there,"
	}
	return "Hi " + esc(name) + ","
}

// ---------- booking_update ----------

func renderBookingUpdate(vars Vars) Rendered {
	var b strings.Builder

	intro := string(vars.IntroHTML)
	if intro == "" {
		intro = fmt.Sprintf(
			`<p style="margin:0 0 20px;font-size:16px;line-height:1.6;color:#3d3d3d;">%s thanks for riding with Velora. Here is the latest on your booking.</p>`,
			greeting(vars.CustomerName))
	}
	b.WriteString(intro)

	statusLabel := vars.StatusLabel
	if statusLabel == "" {
		statusLabel = "Update"
	}
	statusTitle := vars.StatusTitle
	if statusTitle == "" {
		statusTitle = "No title provided"
	}
	statusMessage := string(vars.StatusMessage)
	if statusMessage == "" {
		statusMessage = "No further details were included with this update."
	}

	b.WriteString(`<table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color:#f7f5f2;border-radius:10px;margin:0 0 24px;"><tr><td style="padding:24px;">`)
	b.WriteString(fmt.Sprintf(`<span style="display:inline-block;padding:4px 12px;border-radius:999px;background-color:#1c1b1a;color:#f5d48a;font-size:12px;font-weight:600;letter-spacing:1px;text-transform:uppercase;">%s</span>`, esc(statusLabel)))
	b.WriteString(fmt.Sprintf(`<h2 style="margin:16px 0 8px;font-size:20px;font-weight:600;color:#1c1b1a;">%s</h2>`, esc(statusTitle)))
	b.WriteString(fmt.Sprintf(`<div style="font-size:15px;line-height:1.6;color:#3d3d3d;">%s</div>`, statusMessage))
	b.WriteString(`</td></tr></table>`)

	if vars.VehicleName != "" {
		b.WriteString(`<table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="border:1px solid #e8e4de;border-radius:10px;margin:0 0 24px;"><tr>`)
		if vars.VehicleImage != "" {
			b.WriteString(fmt.Sprintf(`<td width="180" style="padding:16px 0 16px 16px;"><img src="%s" alt="%s" width="164" style="display:block;width:164px;border-radius:8px;"></td>`, esc(vars.VehicleImage), esc(vars.VehicleName)))
		}
		b.WriteString(`<td style="padding:16px;vertical-align:middle;">`)
		b.WriteString(fmt.Sprintf(`<p style="margin:0 0 4px;font-size:16px;font-weight:600;color:#1c1b1a;">%s</p>`, esc(vars.VehicleName)))
		if vars.VehiclePrice != "" {
			b.WriteString(fmt.Sprintf(`<p style="margin:0;font-size:14px;color:#6b6a68;">%s</p>`, esc(vars.VehiclePrice)))
		}
		b.WriteString(`</td></tr></table>`)
	}

	if vars.Reference != "" {
		b.WriteString(fmt.Sprintf(`<p style="margin:0 0 20px;font-size:13px;color:#6b6a68;">Reference: <span style="font-family:'Courier New',monospace;color:#1c1b1a;">%s</span></p>`, esc(vars.Reference)))
	}

	writeDetails(&b, vars)
	writeCTAs(&b, vars.PrimaryCTA, vars.SecondaryCTA)

	if vars.ClosingNoteHTML != "" {
		b.WriteString(fmt.Sprintf(`<div style="margin:24px 0 0;font-size:14px;line-height:1.6;color:#6b6a68;">%s</div>`, vars.ClosingNoteHTML))
	}

	return Rendered{
		Headline:    "Booking update",
		SubjectHint: "An update on your Velora booking",
		BodyHTML:    template.HTML(b.String()),
	}
}

// writeDetails renders the submitted-details rows in a fixed display order,
// skipping empty values.
func writeDetails(b *strings.Builder, vars Vars) {
	rows := []struct {
		label string
		value string
	}{
		{"Pickup", vars.Pickup},
		{"Destination", vars.Destination},
		{"Email", vars.Email},
		{"Notes", vars.Notes},
	}

	any := false
	for _, row := range rows {
		if row.value != "" {
			any = true
			break
		}
	}
	if !any {
		return
	}

	b.WriteString(`<table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="margin:0 0 24px;">`)
	b.WriteString(`<tr><td colspan="2" style="padding:0 0 8px;font-size:12px;font-weight:600;letter-spacing:1px;text-transform:uppercase;color:#6b6a68;">Submitted details</td></tr>`)
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		b.WriteString(fmt.Sprintf(
			`<tr><td width="120" style="padding:6px 0;font-size:14px;color:#6b6a68;vertical-align:top;">%s</td><td style="padding:6px 0;font-size:14px;color:#1c1b1a;">%s</td></tr>`,
			esc(row.label), esc(row.value)))
	}
	b.WriteString(`</table>`)
}

func writeCTAs(b *strings.Builder, primary, secondary CTA) {
	if primary.empty() && secondary.empty() {
		return
	}

	b.WriteString(`<table role="presentation" cellspacing="0" cellpadding="0" style="margin:0 0 8px;"><tr>`)
	if !primary.empty() {
		b.WriteString(fmt.Sprintf(
			`<td style="padding:0 12px 0 0;"><a href="%s" style="display:inline-block;padding:12px 28px;background-color:#1c1b1a;color:#ffffff;text-decoration:none;font-size:15px;font-weight:600;border-radius:6px;">%s</a></td>`,
			esc(primary.URL), esc(primary.Label)))
	}
	if !secondary.empty() {
		b.WriteString(fmt.Sprintf(
			`<td style="padding:0;"><a href="%s" style="display:inline-block;padding:11px 27px;background-color:transparent;color:#1c1b1a;text-decoration:none;font-size:15px;font-weight:600;border:1px solid #1c1b1a;border-radius:6px;">%s</a></td>`,
			esc(secondary.URL), esc(secondary.Label)))
	}
	b.WriteString(`</tr></table>`)
}

// ---------- fixed notice presets ----------

type noticePreset struct {
	headline    string
	subjectHint string
	// message copy is fixed brand voice per kind, parameterized only by
	// customer name. It may carry line breaks and bold tags.
	message func(name string) string
}

var noticePresets = map[Key]noticePreset{
	KeyPaymentReceipt: {
		headline:    "Payment received",
		subjectHint: "Your Velora payment receipt",
		message: func(name string) string {
			return greeting(name) + `<br><br>We have received your payment. Your receipt is attached to this message and a copy is available from your ride history at any time.<br><br>Thank you for riding with <b>Velora</b>.`
		},
	},
	KeyBillingIssue: {
		headline:    "Action needed on your billing",
		subjectHint: "A billing issue with your Velora account",
		message: func(name string) string {
			return greeting(name) + `<br><br>We ran into a problem processing a recent payment on your account. Please review your payment method so your upcoming rides are not interrupted.<br><br>If you believe this is an error, reply to this email and our billing team will take a look.`
		},
	},
	KeyLegalNotice: {
		headline:    "A legal notice from Velora",
		subjectHint: "Legal notice regarding your Velora account",
		message: func(name string) string {
			return greeting(name) + `<br><br>This message is a formal notice regarding your Velora account. Please read it carefully and retain a copy for your records.<br><br>No action is required unless specifically stated below.`
		},
	},
	KeyEmergencyUpdate: {
		headline:    "Important service update",
		subjectHint: "Important: a Velora service update",
		message: func(name string) string {
			return greeting(name) + `<br><br><b>This is an important update about Velora service in your area.</b><br><br>Conditions may affect scheduled pickups. We will notify you directly if a booking of yours is impacted.`
		},
	},
	KeyPartnerMessage: {
		headline:    "A message for our partners",
		subjectHint: "A message from the Velora partners team",
		message: func(name string) string {
			return greeting(name) + `<br><br>Thank you for partnering with Velora. There is an update from our partnerships team that applies to your account.<br><br>Your partner manager is available if you have any questions.`
		},
	},
	KeySalesFollowup: {
		headline:    "Following up on your inquiry",
		subjectHint: "Following up from the Velora team",
		message: func(name string) string {
			return greeting(name) + `<br><br>Thanks for your interest in Velora. We wanted to follow up on your inquiry and see whether you have any questions we can answer.<br><br>We would love to get you on the road.`
		},
	},
	KeyPrivacyNotice: {
		headline:    "An update to our privacy practices",
		subjectHint: "An update to Velora's privacy practices",
		message: func(name string) string {
			return greeting(name) + `<br><br>We are writing to let you know about an update to how Velora handles your data. The updated policy is linked below.<br><br>You do not need to do anything to continue riding with us.`
		},
	},
}

func renderNotice(key Key, vars Vars) Rendered {
	preset := noticePresets[key]

	var b strings.Builder
	b.WriteString(`<table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color:#f7f5f2;border-radius:10px;margin:0 0 24px;"><tr><td style="padding:24px;">`)
	b.WriteString(fmt.Sprintf(`<h2 style="margin:0 0 12px;font-size:20px;font-weight:600;color:#1c1b1a;">%s</h2>`, esc(preset.headline)))
	b.WriteString(fmt.Sprintf(`<div style="font-size:15px;line-height:1.6;color:#3d3d3d;">%s</div>`, preset.message(vars.CustomerName)))
	b.WriteString(`</td></tr></table>`)

	writeCTAs(&b, vars.PrimaryCTA, vars.SecondaryCTA)

	if vars.Footnote != "" {
		b.WriteString(fmt.Sprintf(`<p style="margin:24px 0 0;font-size:13px;line-height:1.6;color:#6b6a68;">%s</p>`, esc(vars.Footnote)))
	}

	return Rendered{
		Headline:    preset.headline,
		SubjectHint: preset.subjectHint,
		BodyHTML:    template.HTML(b.String()),
	}
}

// ---------- custom / fallback ----------

// scriptOpener matches opening and closing script tag openers, any case.
var scriptOpener = regexp.MustCompile(`(?i)<(/?)script`)

// neutralizeScripts entity-escapes the < of script tag openers and leaves all
// other markup intact. Known-incomplete: it is a narrow backstop behind the
// outbox PIN+session+allow-list gate, not a security boundary. Relaxing that
// gate requires replacing this with a real sanitizer.
func neutralizeScripts(s string) string {
	return scriptOpener.ReplaceAllString(s, "&lt;${1}script")
}

func renderCustom(vars Vars) Rendered {
	message := neutralizeScripts(string(vars.MessageHTML))
	if message == "" {
		message = "This message had no content."
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<div style="font-size:15px;line-height:1.7;color:#3d3d3d;">%s</div>`, message))

	writeCTAs(&b, vars.PrimaryCTA, vars.SecondaryCTA)

	if vars.Footnote != "" {
		b.WriteString(fmt.Sprintf(`<p style="margin:24px 0 0;font-size:13px;line-height:1.6;color:#6b6a68;">%s</p>`, esc(vars.Footnote)))
	}

	return Rendered{
		Headline:    "A message from Velora",
		SubjectHint: "A message from Velora",
		BodyHTML:    template.HTML(b.String()),
	}
}
