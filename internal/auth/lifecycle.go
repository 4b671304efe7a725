package auth

import (
	"time"

	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/credentials"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/state"
)

// LifecycleState is where the stored tokens are in their lifetime.
type LifecycleState string

const (
	Unauthenticated LifecycleState = "unauthenticated"
	Authenticated   LifecycleState = "authenticated"
	AccessExpired   LifecycleState = "access_expired"
	FullyExpired    LifecycleState = "fully_expired"
)

// Lifecycle derives the token state from the credential record and the
// stored metadata. Metadata only applies while its fingerprint matches the
// access token on file; tokens written by something else have unknown
// expiry and are assumed valid.
func Lifecycle(rec credentials.Record, meta state.TokenMeta, haveMeta bool, now time.Time) LifecycleState {
	if rec.AccessToken == "" && rec.RefreshToken == "" {
		return Unauthenticated
	}

	current := haveMeta && meta.AccessFingerprint == credentials.Fingerprint(rec.AccessToken)

	if haveMeta && meta.Rejected() && (current || meta.AccessFingerprint == "") {
		return FullyExpired
	}

	expired := rec.AccessToken == ""
	if current && !meta.ExpiresAt.IsZero() && !now.Before(meta.ExpiresAt) {
		expired = true
	}

	switch {
	case !expired:
		return Authenticated
	case rec.RefreshToken != "":
		return AccessExpired
	default:
		return FullyExpired
	}
}
