// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the persistence layer behind the HTTP handlers.

Repository is the interface handlers depend on; SQLStore implements it
over sqlx for both PostgreSQL and SQLite. Queries use ? placeholders and
are rebound for the connected driver.

# Errors

Lookups that find nothing return an error wrapping ErrNotFound. Duplicate
memberships and second forecasts by the same user wrap ErrConflict.
Resolving a prediction that is not open wraps ErrAlreadyResolved. Check
them with errors.Is.

# Transactions

Multi-row writes run in one transaction: group creation with the
creator's admin membership, and prediction deletion with its forecasts.
The cascade is explicit so it does not depend on foreign key enforcement.
*/
package store
