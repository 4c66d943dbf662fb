// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrWrongTokenType = errors.New("wrong token type")
)

// Token types carried in the "type" claim
const (
	TypeMagicLink = "magic_link"
	TypeAccess    = "access"
)

// Claims are the JWT claims for both magic-link and access tokens.
// Subject is the email for magic links and the user ID for access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Type string `json:"type"`
}

// TokenIssuer signs and verifies HS256 tokens with the configured secret.
type TokenIssuer struct {
	secret         []byte
	accessTokenTTL time.Duration
	magicLinkTTL   time.Duration
}

func NewTokenIssuer(secret string, accessTokenTTL, magicLinkTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:         []byte(secret),
		accessTokenTTL: accessTokenTTL,
		magicLinkTTL:   magicLinkTTL,
	}
}

// CreateMagicLinkToken issues a short-lived token identifying an email address
func (ti *TokenIssuer) CreateMagicLinkToken(email string) (string, error) {
	return ti.sign(email, TypeMagicLink, ti.magicLinkTTL)
}

// VerifyMagicLinkToken returns the email the token was issued for
func (ti *TokenIssuer) VerifyMagicLinkToken(token string) (string, error) {
	return ti.verify(token, TypeMagicLink)
}

// CreateAccessToken issues a session token for a user
func (ti *TokenIssuer) CreateAccessToken(userID string) (string, error) {
	return ti.sign(userID, TypeAccess, ti.accessTokenTTL)
}

// VerifyAccessToken returns the user ID the token was issued for
func (ti *TokenIssuer) VerifyAccessToken(token string) (string, error) {
	return ti.verify(token, TypeAccess)
}

func (ti *TokenIssuer) sign(subject, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Type: tokenType,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (ti *TokenIssuer) verify(tokenString, tokenType string) (string, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return ti.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.Type != tokenType {
		return "", ErrWrongTokenType
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// GenerateInviteCode creates a random URL-safe group invite code
func GenerateInviteCode() (string, error) {
	b := make([]byte, 8)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}
