package blog

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	digest, err := HashPassword("correct horse battery staple", 1000)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !strings.HasPrefix(digest, "pbkdf2-sha256$1000$") {
		t.Errorf("digest = %q, want pbkdf2-sha256$1000$ prefix", digest)
	}
	if !VerifyPassword(digest, "correct horse battery staple") {
		t.Error("VerifyPassword should accept the original password")
	}
	if VerifyPassword(digest, "wrong password") {
		t.Error("VerifyPassword should reject a wrong password")
	}
}

func TestHashPasswordUniqueSalt(t *testing.T) {
	d1, err := HashPassword("same password", 1000)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	d2, err := HashPassword("same password", 1000)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if d1 == d2 {
		t.Error("two digests of the same password should differ (random salt)")
	}
}

func TestHashPasswordEmpty(t *testing.T) {
	if _, err := HashPassword("", 1000); err == nil {
		t.Error("empty password should be rejected")
	}
}

func TestHashPasswordDefaultIterations(t *testing.T) {
	digest, err := HashPassword("pw", 0)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !strings.HasPrefix(digest, "pbkdf2-sha256$600000$") {
		t.Errorf("digest = %q, want default iteration count 600000", digest)
	}
}

func TestVerifyPasswordMalformedDigest(t *testing.T) {
	malformed := []string{
		"",
		"not a digest",
		"pbkdf2-sha256$abc$salt$key",
		"pbkdf2-sha256$1000$!!!$key",
		"argon2id$1000$c2FsdA$a2V5",
	}
	for _, d := range malformed {
		if VerifyPassword(d, "anything") {
			t.Errorf("VerifyPassword(%q) should be false", d)
		}
	}
}
