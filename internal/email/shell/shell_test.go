package shell_test

import (
	"strings"
	"testing"

	"github.com/velorahq/velora-api/internal/brand"
	"github.com/velorahq/velora-api/internal/email/shell"
)

func TestWrap_Pure(t *testing.T) {
	r := shell.New(brand.Default)

	first := r.Wrap("Booking update", "preview text", "<p>body</p>")
	second := r.Wrap("Booking update", "preview text", "<p>body</p>")

	if first != second {
		t.Fatal("Wrap is not byte-deterministic for identical inputs")
	}
}

func TestWrap_FullDocument(t *testing.T) {
	r := shell.New(brand.Default)

	doc := r.Wrap("Booking update", "preview text", "<p>body</p>")

	for _, want := range []string{
		"<!DOCTYPE html>",
		"prefers-color-scheme: dark",
		`content="light dark"`,
		brand.Default.LogoURL,
		brand.Default.PrivacyURL,
		brand.Default.TermsURL,
		brand.Default.ContactURL,
		brand.Default.CookiesURL,
		brand.Default.AddressLines[0],
		"<p>body</p>",
		"preview text",
		`width="620"`,
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("Document missing %q", want)
		}
	}
}

func TestWrap_EscapesTitleNotBody(t *testing.T) {
	r := shell.New(brand.Default)

	doc := r.Wrap("<Tickets> & updates", "", "<b>bold</b>")

	if strings.Contains(doc, "<Tickets>") {
		t.Fatal("Title was not escaped")
	}
	if !strings.Contains(doc, "&lt;Tickets&gt;") {
		t.Fatal("Escaped title missing from document")
	}
	if !strings.Contains(doc, "<b>bold</b>") {
		t.Fatal("Body fragment was escaped")
	}
}

func TestWrap_PreheaderOmittedEntirely(t *testing.T) {
	r := shell.New(brand.Default)

	with := r.Wrap("Title", "inbox preview", "<p>x</p>")
	without := r.Wrap("Title", "", "<p>x</p>")

	if !strings.Contains(with, "display:none;max-height:0") {
		t.Fatal("Preheader div missing when preheader supplied")
	}
	if strings.Contains(without, "display:none;max-height:0") {
		t.Fatal("Preheader div present despite empty preheader")
	}
}
