// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Config is an immutable value. It is built once in main and handed to the
components that need it; there is no package-level settings cache.

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type (sqlite or postgres)
	-secret       Token signing secret
	-access-ttl   Access token lifetime (minutes)
	-magic-ttl    Magic link lifetime (minutes)
	-magic-rate   Magic link requests per minute per IP
	-base-url     Public base URL used in magic links
	-trust-proxy  Use X-Forwarded-For for client IPs
	-debug        Debug mode
	-log-level    debug, info, warn or error

# Environment Variables

Flags fall back to environment variables (main loads .env first):

	PORT                        → -p            (default 8000)
	DATABASE_URL                → -d            (default file:forecast_club.db for sqlite)
	DATABASE_TYPE               → -t            (default sqlite)
	SECRET_KEY                  → -secret       (required)
	ACCESS_TOKEN_EXPIRE_MINUTES → -access-ttl   (default 10080, 7 days)
	MAGIC_LINK_EXPIRE_MINUTES   → -magic-ttl    (default 15)
	MAGIC_LINK_RATE_PER_MINUTE  → -magic-rate   (default 5)
	BASE_URL                    → -base-url     (default http://localhost:8000)
	TRUST_PROXY                 → -trust-proxy
	DEBUG                       → -debug
	LOG_LEVEL                   → -log-level    (default info)

CLI flags take precedence over environment variables.
*/
package cliparse
