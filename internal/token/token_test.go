package token_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/velorahq/velora-api/internal/token"
)

func newCodec(t *testing.T) *token.Codec {
	t.Helper()
	c, err := token.NewCodec("test-signing-secret")
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	return c
}

func TestCodec_RequiresSecret(t *testing.T) {
	if _, err := token.NewCodec(""); err == nil {
		t.Fatal("Expected error for empty secret")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	c := newCodec(t)

	payload := map[string]any{
		"email":      "ada@example.com",
		"attempt_id": "42",
		"ts":         float64(time.Now().UnixMilli()),
		"extra":      "consumers tolerate unknown keys",
	}

	tok, err := c.Sign(payload)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	got := c.Verify(tok)
	if got == nil {
		t.Fatal("Verify returned nil for a freshly signed token")
	}

	for k, want := range payload {
		if got[k] != want {
			t.Fatalf("Field %q: expected %v, got %v", k, want, got[k])
		}
	}
}

func TestCodec_TamperSensitivity(t *testing.T) {
	c := newCodec(t)

	tok, err := c.Sign(map[string]any{"email": "ada@example.com", "attempt_id": "42"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	dot := strings.IndexByte(tok, '.')
	payload, sig := tok[:dot], tok[dot+1:]

	// The signature covers the encoded payload string, so changing any
	// character of it must invalidate the token.
	for i := 0; i < len(payload); i++ {
		flipped := []byte(tok)
		if flipped[i] == 'A' {
			flipped[i] = 'B'
		} else {
			flipped[i] = 'A'
		}
		if got := c.Verify(string(flipped)); got != nil {
			t.Fatalf("Verify accepted token with payload byte %d flipped", i)
		}
	}

	// Tamper with the signature at the decoded-byte level so every change is
	// a real change to the compared digest.
	raw, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		t.Fatalf("Signature segment did not decode: %v", err)
	}
	for i := range raw {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[i] ^= 0x01

		forged := payload + "." + base64.RawURLEncoding.EncodeToString(tampered)
		if got := c.Verify(forged); got != nil {
			t.Fatalf("Verify accepted token with signature byte %d altered", i)
		}
	}
}

func TestCodec_ShapeSensitivity(t *testing.T) {
	c := newCodec(t)

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"missing email", map[string]any{"attempt_id": "42"}},
		{"missing attempt_id", map[string]any{"email": "ada@example.com"}},
		{"empty email", map[string]any{"email": "", "attempt_id": "42"}},
		{"empty attempt_id", map[string]any{"email": "ada@example.com", "attempt_id": ""}},
		{"wrong types", map[string]any{"email": 1, "attempt_id": 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := c.Sign(tt.payload)
			if err != nil {
				t.Fatalf("Sign failed: %v", err)
			}
			if got := c.Verify(tok); got != nil {
				t.Fatal("Verify accepted a validly-signed but mis-shaped payload")
			}
		})
	}
}

func TestCodec_MalformedInput(t *testing.T) {
	c := newCodec(t)

	tests := []string{
		"",
		"no-dot-at-all",
		"a.b.c",
		".sig-only",
		"payload-only.",
		"!!!.###",
	}

	for _, tok := range tests {
		if got := c.Verify(tok); got != nil {
			t.Fatalf("Verify accepted malformed token %q", tok)
		}
	}
}

func TestCodec_DifferentSecretRejects(t *testing.T) {
	a := newCodec(t)
	b, err := token.NewCodec("a-different-secret")
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	tok, err := a.Sign(map[string]any{"email": "ada@example.com", "attempt_id": "42"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if got := b.Verify(tok); got != nil {
		t.Fatal("Verify accepted a token signed with a different secret")
	}
	if !strings.Contains(tok, ".") {
		t.Fatal("Token missing segment separator")
	}
}
