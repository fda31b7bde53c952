package util

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidToken reports a malformed, tampered or expired API token.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenSigner mints and validates the bearer tokens used by the management
// API. Tokens carry the user id and an expiry, signed with a shared HMAC
// secret so any process holding the secret can validate them.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenSigner builds a signer with the given secret and token lifetime.
func NewTokenSigner(secret []byte, ttl time.Duration) *TokenSigner {
	return &TokenSigner{secret: secret, ttl: ttl}
}

// Issue creates a token of the form userID.expiryUnix.signature.
func (s *TokenSigner) Issue(userID string) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("token signer has no secret configured")
	}
	if userID == "" || strings.Contains(userID, ".") {
		return "", fmt.Errorf("invalid user id %q", userID)
	}

	expiry := time.Now().Add(s.ttl).Unix()
	payload := fmt.Sprintf("%s.%d", userID, expiry)
	return payload + "." + s.sign(payload), nil
}

// Validate checks the signature and expiry and returns the embedded user id.
func (s *TokenSigner) Validate(token string) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("token signer has no secret configured")
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", ErrInvalidToken
	}
	userID, expiryStr, sig := parts[0], parts[1], parts[2]

	payload := userID + "." + expiryStr
	if !hmac.Equal([]byte(s.sign(payload)), []byte(sig)) {
		return "", ErrInvalidToken
	}

	expiry, err := strconv.ParseInt(expiryStr, 10, 64)
	if err != nil || time.Now().Unix() > expiry {
		return "", ErrInvalidToken
	}

	return userID, nil
}

func (s *TokenSigner) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
