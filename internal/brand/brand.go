package brand

// Brand holds every piece of brand identity that appears in outbound email.
// Changing the brand anywhere is an edit to Default and nothing else.
type Brand struct {
	Name         string
	LogoURL      string
	PrivacyURL   string
	TermsURL     string
	ContactURL   string
	CookiesURL   string
	AddressLines []string
}

var Default = Brand{
	Name:       "Velora",
	LogoURL:    "https://cdn.velora.example/brand/velora-logo-email.png",
	PrivacyURL: "https://velora.example/privacy",
	TermsURL:   "https://velora.example/terms",
	ContactURL: "https://velora.example/contact",
	CookiesURL: "https://velora.example/cookies",
	AddressLines: []string{
		"Velora Mobility Inc.",
		"548 Market Street, Suite 62000",
		"San Francisco, CA 94104",
	},
}
