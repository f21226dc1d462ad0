// Package common defines shared constants and sentinel errors used across
// the agent and server layers of Tabstock. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound    = errors.New("not found")
	ErrSKUConflict = errors.New("sku already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Validation errors are terminal and never retried.
	ErrValidation = errors.New("validation error")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Webhook errors.
	ErrWebhookNotConfigured = errors.New("webhook secret not configured")
	ErrBadSignature         = errors.New("invalid webhook signature")
	ErrReplayWindow         = errors.New("timestamp outside replay window")
)

// ForeignKeyError reports a remote write rejected by a foreign-key
// constraint. Column identifies the referencing column so callers can
// decide whether a downgrade retry applies.
type ForeignKeyError struct {
	Column string
}

func (e *ForeignKeyError) Error() string {
	return "foreign key violation on column " + e.Column
}
