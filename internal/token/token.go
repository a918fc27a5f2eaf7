// Package token mints and verifies the signed capability tokens embedded in
// availability-subscribe links. A token is self-contained: the payload rides
// along with its HMAC, so verification needs no lookup and no server-side
// token table.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// Wire format: base64url(json(payload)) + "." + base64url(hmac).
// The HMAC is computed over the encoded payload segment, not the raw JSON
// bytes. Any cross-service verifier must match that exactly.

var ErrNoSecret = errors.New("token: signing secret is not configured")

type Codec struct {
	secret []byte
}

func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Sign encodes payload and appends its signature. The codec imposes no schema;
// callers wanting the token to pass Verify later must include non-empty
// "email" and "attempt_id" values.
func (c *Codec) Sign(payload map[string]any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	encoded := base64.RawURLEncoding.EncodeToString(raw)

	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encoded))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	return encoded + "." + sig, nil
}

// Verify checks the signature and the minimal payload shape. Every failure
// mode collapses to nil so callers present one "invalid or expired link"
// message without revealing which check rejected the token.
func (c *Codec) Verify(token string) map[string]any {
	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil
	}

	gotSig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil
	}

	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(parts[0]))
	if !hmac.Equal(mac.Sum(nil), gotSig) {
		return nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}

	// Signature validity alone is not enough: a token signed for another
	// purpose with the same secret must not open this door.
	if !nonEmptyString(payload["email"]) || !nonEmptyString(payload["attempt_id"]) {
		return nil
	}

	return payload
}

func nonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}
