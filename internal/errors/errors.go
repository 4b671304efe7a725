// Package errors defines the sentinel errors shared across the credential
// lifecycle, the Yahoo client, and the tool handlers. Callers wrap these
// with fmt.Errorf("...: %w") and test with errors.Is.
package errors

import "errors"

// Credential lifecycle errors.
var (
	ErrConfigMissing       = errors.New("required credential not configured")
	ErrAuthorizationDenied = errors.New("authorization denied or verification code invalid")
	ErrRefreshRejected     = errors.New("refresh token rejected by identity provider")
	ErrTransientNetwork    = errors.New("transient network failure")
)

// Degraded-mode errors. These are logged and never abort the operation.
var (
	ErrHostConfigUnavailable     = errors.New("host config unavailable")
	ErrOptionalCredentialMissing = errors.New("optional credential missing")
)

// Server/transport errors.
var (
	ErrInvalidToken = errors.New("invalid or expired access token")
	ErrAPIRequest   = errors.New("API request failed")
	ErrAPIResponse  = errors.New("unexpected API response")
)
