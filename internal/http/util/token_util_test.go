package util

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTokenSigner_RoundTrip(t *testing.T) {
	signer := NewTokenSigner([]byte("secret"), time.Minute)

	token, err := signer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	userID, err := signer.Validate(token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected user-1, got %s", userID)
	}
}

func TestTokenSigner_TamperedTokenRejected(t *testing.T) {
	signer := NewTokenSigner([]byte("secret"), time.Minute)

	token, err := signer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	tampered := strings.Replace(token, "user-1", "user-2", 1)
	if _, err := signer.Validate(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenSigner_ExpiredTokenRejected(t *testing.T) {
	signer := NewTokenSigner([]byte("secret"), -time.Minute)

	token, err := signer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := signer.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenSigner_WrongSecretRejected(t *testing.T) {
	token, err := NewTokenSigner([]byte("secret"), time.Minute).Issue("user-1")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	other := NewTokenSigner([]byte("different"), time.Minute)
	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
