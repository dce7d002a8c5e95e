package blog

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	defaultHashIterations = 600000
	saltLength            = 8
	keyLength             = 32

	// Cap hashing input so oversized passwords can't burn CPU.
	maxPasswordLength = 1024
)

// HashPassword derives a pbkdf2-sha256 digest of password with a fresh
// random salt. The returned string is self-describing:
//
//	pbkdf2-sha256$<iterations>$<salt-b64>$<key-b64>
func HashPassword(password string, iterations int) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	if len(password) > maxPasswordLength {
		return "", errors.New("password exceeds maximum length")
	}
	if iterations <= 0 {
		iterations = defaultHashIterations
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)

	return fmt.Sprintf("pbkdf2-sha256$%d$%s$%s",
		iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword reports whether password matches the encoded digest.
// Malformed digests verify as false rather than erroring, so a corrupted
// row can never log anyone in.
func VerifyPassword(digest, password string) bool {
	if len(password) > maxPasswordLength {
		return false
	}
	salt, key, iterations, err := decodeDigest(digest)
	if err != nil {
		return false
	}
	testKey := pbkdf2.Key([]byte(password), salt, iterations, len(key), sha256.New)
	return subtle.ConstantTimeCompare(key, testKey) == 1
}

func decodeDigest(digest string) (salt, key []byte, iterations int, err error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 4 || parts[0] != "pbkdf2-sha256" {
		return nil, nil, 0, errors.New("invalid digest format")
	}
	iterations, err = strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return nil, nil, 0, errors.New("invalid iteration count")
	}
	salt, err = base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, nil, 0, err
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return nil, nil, 0, err
	}
	if len(key) == 0 {
		return nil, nil, 0, errors.New("empty key")
	}
	return salt, key, iterations, nil
}
