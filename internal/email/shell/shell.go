// Package shell wraps a rendered body fragment in the full branded HTML
// document that every outbound Velora email shares.
package shell

import (
	"bytes"
	"html/template"

	"github.com/velorahq/velora-api/internal/brand"
)

type Renderer struct {
	brand brand.Brand
	tmpl  *template.Template
}

func New(b brand.Brand) *Renderer {
	return &Renderer{
		brand: b,
		tmpl:  template.Must(template.New("shell").Parse(shellTemplate)),
	}
}

type shellData struct {
	Title     string
	Preheader string
	Body      template.HTML
	Brand     brand.Brand
}

// Wrap produces the final HTML document handed to the delivery provider.
// Title is escaped; body is pre-rendered trusted markup and spliced in
// verbatim. Identical inputs produce byte-identical output.
func (r *Renderer) Wrap(title, preheader string, body template.HTML) string {
	var buf bytes.Buffer
	// The only error paths are invalid template actions, caught at parse time.
	_ = r.tmpl.Execute(&buf, shellData{
		Title:     title,
		Preheader: preheader,
		Body:      body,
		Brand:     r.brand,
	})
	return buf.String()
}

const shellTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta name="color-scheme" content="light dark">
<meta name="supported-color-schemes" content="light dark">
<title>{{.Title}}</title>
<style>
  body { margin: 0; padding: 0; background-color: #efece7; }
  @media (prefers-color-scheme: dark) {
    body, .email-bg { background-color: #141311 !important; }
    .email-card { background-color: #1f1d1a !important; }
    .email-title, .email-body { color: #f2efe9 !important; }
    .email-footer, .email-footer a { color: #8a8783 !important; }
  }
</style>
</head>
<body style="margin:0;padding:0;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,'Helvetica Neue',Arial,sans-serif;background-color:#efece7;">
{{if .Preheader}}<div style="display:none;max-height:0;overflow:hidden;font-size:1px;line-height:1px;color:transparent;opacity:0;">{{.Preheader}}</div>
{{end}}<table role="presentation" width="100%" cellspacing="0" cellpadding="0" class="email-bg" style="background-color:#efece7;">
<tr><td align="center" style="padding:40px 16px;">
<table role="presentation" width="620" cellspacing="0" cellpadding="0" class="email-card" style="width:620px;max-width:100%;background-color:#ffffff;border-radius:12px;">
<tr><td style="padding:36px 40px 24px;">
<img src="{{.Brand.LogoURL}}" alt="{{.Brand.Name}}" width="132" style="display:block;width:132px;">
</td></tr>
<tr><td style="padding:0 40px 8px;">
<h1 class="email-title" style="margin:0 0 24px;font-size:26px;font-weight:700;color:#1c1b1a;">{{.Title}}</h1>
</td></tr>
<tr><td class="email-body" style="padding:0 40px 36px;">{{.Body}}</td></tr>
<tr><td class="email-footer" style="padding:24px 40px 36px;border-top:1px solid #e8e4de;">
<p style="margin:0 0 12px;font-size:12px;color:#8a8783;">
<a href="{{.Brand.PrivacyURL}}" style="color:#8a8783;text-decoration:underline;">Privacy</a> &middot;
<a href="{{.Brand.TermsURL}}" style="color:#8a8783;text-decoration:underline;">Terms</a> &middot;
<a href="{{.Brand.ContactURL}}" style="color:#8a8783;text-decoration:underline;">Contact</a> &middot;
<a href="{{.Brand.CookiesURL}}" style="color:#8a8783;text-decoration:underline;">Cookies</a>
</p>
{{range .Brand.AddressLines}}<p style="margin:0;font-size:12px;line-height:1.5;color:#8a8783;">{{.}}</p>
{{end}}</td></tr>
</table>
</td></tr>
</table>
</body>
</html>`
