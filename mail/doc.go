// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package mail delivers sign-in links. The only implementation, LogMailer,
// writes them to the structured log.
package mail
