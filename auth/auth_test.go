// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
	"time"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer("test-secret", time.Hour, 15*time.Minute)
}

func TestMagicLinkToken_RoundTrip(t *testing.T) {
	issuer := newTestIssuer()

	token, err := issuer.CreateMagicLinkToken("alice@example.com")
	if err != nil {
		t.Fatalf("CreateMagicLinkToken() error = %v", err)
	}

	email, err := issuer.VerifyMagicLinkToken(token)
	if err != nil {
		t.Fatalf("VerifyMagicLinkToken() error = %v", err)
	}
	if email != "alice@example.com" {
		t.Errorf("VerifyMagicLinkToken() = %q, want alice@example.com", email)
	}
}

func TestAccessToken_RoundTrip(t *testing.T) {
	issuer := newTestIssuer()

	token, err := issuer.CreateAccessToken("user-123")
	if err != nil {
		t.Fatalf("CreateAccessToken() error = %v", err)
	}

	userID, err := issuer.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken() error = %v", err)
	}
	if userID != "user-123" {
		t.Errorf("VerifyAccessToken() = %q, want user-123", userID)
	}
}

func TestVerify_Rejects(t *testing.T) {
	issuer := newTestIssuer()
	other := NewTokenIssuer("other-secret", time.Hour, time.Hour)
	expired := NewTokenIssuer("test-secret", -time.Minute, -time.Minute)

	magic, _ := issuer.CreateMagicLinkToken("bob@example.com")
	access, _ := issuer.CreateAccessToken("user-1")
	foreign, _ := other.CreateAccessToken("user-1")
	stale, _ := expired.CreateAccessToken("user-1")
	staleMagic, _ := expired.CreateMagicLinkToken("bob@example.com")

	tests := []struct {
		name    string
		verify  func(string) (string, error)
		token   string
		wantErr error
	}{
		{"magic link used as access token", issuer.VerifyAccessToken, magic, ErrWrongTokenType},
		{"access token used as magic link", issuer.VerifyMagicLinkToken, access, ErrWrongTokenType},
		{"signed with another secret", issuer.VerifyAccessToken, foreign, ErrInvalidToken},
		{"expired access token", issuer.VerifyAccessToken, stale, ErrInvalidToken},
		{"expired magic link", issuer.VerifyMagicLinkToken, staleMagic, ErrInvalidToken},
		{"garbage", issuer.VerifyAccessToken, "not-a-jwt", ErrInvalidToken},
		{"empty", issuer.VerifyMagicLinkToken, "", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.verify(tt.token)
			if err != tt.wantErr {
				t.Errorf("verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateInviteCode(t *testing.T) {
	code, err := GenerateInviteCode()
	if err != nil {
		t.Fatalf("GenerateInviteCode() error = %v", err)
	}

	// 8 bytes -> 11 base64 chars without padding
	if len(code) != 11 {
		t.Errorf("GenerateInviteCode() length = %d, want 11", len(code))
	}
	if strings.Contains(code, "=") {
		t.Error("GenerateInviteCode() contains padding characters")
	}

	// Test randomness - should not produce duplicates
	codes := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateInviteCode()
		if err != nil {
			t.Fatalf("GenerateInviteCode() error on iteration %d: %v", i, err)
		}
		if codes[code] {
			t.Errorf("GenerateInviteCode() produced duplicate code: %s", code)
		}
		codes[code] = true
	}
}

func BenchmarkCreateAccessToken(b *testing.B) {
	issuer := newTestIssuer()
	for i := 0; i < b.N; i++ {
		issuer.CreateAccessToken("user-123")
	}
}
