// Package adminpin verifies the operator PIN that gates the internal outbox
// tool. The stored spec is pbkdf2:<iterations>:<hex-digest>; the digest is a
// 32-byte PBKDF2-HMAC-SHA256 key over the candidate and a deployment salt.
package adminpin

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Iterations below this make a short PIN cheap to brute-force, so specs
// configured with fewer never match anything.
const minIterations = 50000

const keyLength = 32

var ErrNotConfigured = errors.New("adminpin: salt or spec missing from configuration")

type Verifier struct {
	salt       string
	iterations int
	digest     []byte
	usable     bool
}

// New fails loudly on absent configuration: a missing salt or spec is a
// deployment defect, not a wrong PIN. A present-but-malformed spec instead
// yields a verifier that rejects every candidate.
func New(salt, spec string) (*Verifier, error) {
	if salt == "" || spec == "" {
		return nil, ErrNotConfigured
	}

	v := &Verifier{salt: salt}

	parts := strings.Split(spec, ":")
	if len(parts) != 3 || parts[0] != "pbkdf2" {
		return v, nil
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations < minIterations {
		return v, nil
	}

	digest, err := hex.DecodeString(parts[2])
	if err != nil {
		return v, nil
	}

	v.iterations = iterations
	v.digest = digest
	v.usable = true
	return v, nil
}

// Verify derives a key from candidate and compares it to the stored digest in
// constant time. Length mismatch is "not equal", checked up front so the
// constant-time compare never sees mismatched buffers.
func (v *Verifier) Verify(candidate string) bool {
	if !v.usable {
		return false
	}

	derived := pbkdf2.Key([]byte(candidate), []byte(v.salt), v.iterations, keyLength, sha256.New)
	if len(derived) != len(v.digest) {
		return false
	}

	return subtle.ConstantTimeCompare(derived, v.digest) == 1
}

// Spec derives the stored form for a PIN. Used by provisioning tooling and
// tests; the service itself only verifies.
func Spec(pin, salt string, iterations int) string {
	key := pbkdf2.Key([]byte(pin), []byte(salt), iterations, keyLength, sha256.New)
	return "pbkdf2:" + strconv.Itoa(iterations) + ":" + hex.EncodeToString(key)
}
