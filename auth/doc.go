// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token issuing and invite code generation.

# Magic Links

Sign-in is passwordless. A magic-link token is a short-lived HS256 JWT
whose subject is the email address:

	issuer := auth.NewTokenIssuer(cfg.SecretKey, cfg.AccessTokenTTL, cfg.MagicLinkTTL)
	token, err := issuer.CreateMagicLinkToken("alice@example.com")
	email, err := issuer.VerifyMagicLinkToken(token)

# Access Tokens

Verifying a magic link yields a longer-lived access token whose subject is
the user ID. Clients send it as a bearer token:

	Authorization: Bearer <token>

Each token carries a "type" claim, so a magic-link token is never accepted
as an access token and vice versa (ErrWrongTokenType).

# Invite Codes

Groups are joined by a random 8-byte invite code:

	code, err := auth.GenerateInviteCode()  // 11 URL-safe characters
*/
package auth
