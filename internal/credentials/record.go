// Package credentials owns the credential file: a flat KEY=VALUE env file
// that is the single source of truth for Yahoo and Reddit secrets. It
// reads the file into a Record, applies in-place upserts that keep every
// other line byte-identical, and hands snapshots of the current Record to
// the tool handlers.
package credentials

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Credential file keys.
const (
	KeyClientID           = "YAHOO_CLIENT_ID"
	KeyClientSecret       = "YAHOO_CLIENT_SECRET"
	KeyAccessToken        = "YAHOO_ACCESS_TOKEN"
	KeyRefreshToken       = "YAHOO_REFRESH_TOKEN"
	KeyGUID               = "YAHOO_GUID"
	KeyRedditClientID     = "REDDIT_CLIENT_ID"
	KeyRedditClientSecret = "REDDIT_CLIENT_SECRET"
	KeyRedditUsername     = "REDDIT_USERNAME"
)

// Keys lists every managed key in canonical order. New keys are appended
// to the credential file in this order.
var Keys = []string{
	KeyClientID,
	KeyClientSecret,
	KeyAccessToken,
	KeyRefreshToken,
	KeyGUID,
	KeyRedditClientID,
	KeyRedditClientSecret,
	KeyRedditUsername,
}

// Record is the full set of secrets the system manages. Missing keys are
// left empty.
type Record struct {
	ClientID           string `env:"YAHOO_CLIENT_ID"`
	ClientSecret       string `env:"YAHOO_CLIENT_SECRET"`
	AccessToken        string `env:"YAHOO_ACCESS_TOKEN"`
	RefreshToken       string `env:"YAHOO_REFRESH_TOKEN"`
	GUID               string `env:"YAHOO_GUID"`
	RedditClientID     string `env:"REDDIT_CLIENT_ID"`
	RedditClientSecret string `env:"REDDIT_CLIENT_SECRET"`
	RedditUsername     string `env:"REDDIT_USERNAME"`
}

// FromMap binds a key/value map onto a Record. Unknown keys are ignored.
func FromMap(m map[string]string) (Record, error) {
	if m == nil {
		// A nil Environment makes env fall back to the process environment.
		m = map[string]string{}
	}

	var rec Record
	if err := env.ParseWithOptions(&rec, env.Options{Environment: m}); err != nil {
		return Record{}, fmt.Errorf("binding credential record: %w", err)
	}
	return rec, nil
}

// Map returns the non-empty fields of the record keyed by file key.
func (r Record) Map() map[string]string {
	all := map[string]string{
		KeyClientID:           r.ClientID,
		KeyClientSecret:       r.ClientSecret,
		KeyAccessToken:        r.AccessToken,
		KeyRefreshToken:       r.RefreshToken,
		KeyGUID:               r.GUID,
		KeyRedditClientID:     r.RedditClientID,
		KeyRedditClientSecret: r.RedditClientSecret,
		KeyRedditUsername:     r.RedditUsername,
	}
	out := make(map[string]string, len(all))
	for k, v := range all {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Overlay returns a copy of r with every non-empty field of top applied.
func (r Record) Overlay(top Record) Record {
	m := r.Map()
	for k, v := range top.Map() {
		m[k] = v
	}
	out, _ := FromMap(m)
	return out
}

// HasClient reports whether the app credentials are configured.
func (r Record) HasClient() bool {
	return r.ClientID != "" && r.ClientSecret != ""
}

// HasReddit reports whether the optional Reddit app credentials are set.
func (r Record) HasReddit() bool {
	return r.RedditClientID != "" && r.RedditClientSecret != ""
}

// Fingerprint returns a short, non-reversible identifier for a secret so
// logs can tell tokens apart without exposing them.
func Fingerprint(secret string) string {
	if secret == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:4])
}
