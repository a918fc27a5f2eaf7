package adminpin_test

import (
	"testing"

	"github.com/velorahq/velora-api/internal/adminpin"
)

const testSalt = "velora-test-salt"

func TestNew_MissingConfigFailsLoudly(t *testing.T) {
	if _, err := adminpin.New("", "pbkdf2:50000:ab"); err == nil {
		t.Fatal("Expected error for missing salt")
	}
	if _, err := adminpin.New(testSalt, ""); err == nil {
		t.Fatal("Expected error for missing spec")
	}
}

func TestVerify_CorrectPin(t *testing.T) {
	spec := adminpin.Spec("483920", testSalt, 50000)

	v, err := adminpin.New(testSalt, spec)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if !v.Verify("483920") {
		t.Fatal("Expected correct PIN to verify")
	}
	if v.Verify("483921") {
		t.Fatal("Wrong PIN verified")
	}
	if v.Verify("") {
		t.Fatal("Empty PIN verified")
	}
	if v.Verify("48392") {
		t.Fatal("Shorter candidate verified")
	}
	if v.Verify("4839200000000000") {
		t.Fatal("Longer candidate verified")
	}
}

func TestVerify_MalformedSpecNeverMatches(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{"wrong kind", "bcrypt:50000:" + adminpin.Spec("1234", testSalt, 50000)[13:]},
		{"too few iterations", adminpin.Spec("1234", testSalt, 49999)},
		{"bad hex", "pbkdf2:50000:not-hex-at-all"},
		{"missing parts", "pbkdf2:50000"},
		{"garbage", "what-even-is-this"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := adminpin.New(testSalt, tt.spec)
			if err != nil {
				t.Fatalf("New failed for malformed spec: %v", err)
			}
			if v.Verify("1234") {
				t.Fatal("Malformed spec verified a candidate")
			}
		})
	}
}

func TestVerify_SaltSensitivity(t *testing.T) {
	spec := adminpin.Spec("777777", testSalt, 60000)

	v, err := adminpin.New("a-different-salt", spec)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if v.Verify("777777") {
		t.Fatal("PIN verified against a spec derived with another salt")
	}
}
