// Package state keeps token metadata that the credential file has no room
// for: when the access token was obtained, when it expires, and whether
// the identity provider has rejected the refresh token. It also records
// the outcome of the last host config sync.
package state

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	// stateDirPerm is the permission mode for the state directory.
	stateDirPerm = fs.FileMode(0o700)

	// stateFilePerm is the permission mode for the state database file.
	stateFilePerm = fs.FileMode(0o600)

	// stateOpenTimeout is the maximum time to wait for the bolt database
	// lock. The MCP server and the auth CLI may run side by side, so the
	// database is opened per operation and never held.
	stateOpenTimeout = 2 * time.Second
)

var (
	tokenBucket = []byte("token")
	syncBucket  = []byte("sync")
	metaKey     = []byte("meta")
	lastSyncKey = []byte("last")
	allBuckets  = [][]byte{tokenBucket, syncBucket}
)

// TokenMeta describes the tokens currently in the credential file.
type TokenMeta struct {
	AccessFingerprint string    `json:"access_fingerprint"`
	ObtainedAt        time.Time `json:"obtained_at"`
	ExpiresAt         time.Time `json:"expires_at"`
	Source            string    `json:"source"`
	RefreshRejectedAt time.Time `json:"refresh_rejected_at"`
}

// Rejected reports whether the refresh token was rejected after the
// current tokens were obtained.
func (m TokenMeta) Rejected() bool {
	return !m.RefreshRejectedAt.IsZero() && !m.RefreshRejectedAt.Before(m.ObtainedAt)
}

// SyncTarget is the persisted outcome for one host config file.
type SyncTarget struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Outcome string `json:"outcome"`
	Detail  string `json:"detail,omitempty"`
}

// SyncRecord is the persisted outcome of one host config sync.
type SyncRecord struct {
	At      time.Time    `json:"at"`
	Targets []SyncTarget `json:"targets"`
}

// State wraps a bbolt database file.
type State struct {
	path string
}

// DefaultPath returns ~/.yahoo-fantasy-mcp/state.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}

	return filepath.Join(home, ".yahoo-fantasy-mcp", "state.db"), nil
}

// Open returns a State for the database at path, creating the file and
// its buckets if needed.
func Open(path string) (*State, error) {
	s := &State{path: path}

	err := s.update(func(tx *bolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("initializing state db: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *State) Path() string {
	return s.path
}

func (s *State) open() (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), stateDirPerm); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	db, err := bolt.Open(s.path, stateFilePerm, &bolt.Options{Timeout: stateOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	return db, nil
}

func (s *State) update(fn func(tx *bolt.Tx) error) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(fn)
}

func (s *State) view(fn func(tx *bolt.Tx) error) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	return db.View(fn)
}

func (s *State) get(bucket, key []byte, dest interface{}) (bool, error) {
	found := false

	err := s.view(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}

		v := b.Get(key)
		if v == nil {
			return nil
		}

		found = true

		return json.Unmarshal(v, dest)
	})

	return found, err
}

func (s *State) put(bucket, key []byte, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucket)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

// TokenMeta returns the stored token metadata. The boolean is false when
// nothing has been recorded yet.
func (s *State) TokenMeta() (TokenMeta, bool, error) {
	var m TokenMeta
	found, err := s.get(tokenBucket, metaKey, &m)
	return m, found, err
}

// SetTokenMeta replaces the token metadata. A fresh token pair clears any
// earlier rejection marker.
func (s *State) SetTokenMeta(m TokenMeta) error {
	return s.put(tokenBucket, metaKey, m)
}

// MarkRefreshRejected records that the identity provider rejected the
// refresh token at the given time.
func (s *State) MarkRefreshRejected(at time.Time) error {
	m, _, err := s.TokenMeta()
	if err != nil {
		return err
	}

	m.RefreshRejectedAt = at

	return s.put(tokenBucket, metaKey, m)
}

// LastSync returns the most recent host config sync outcome.
func (s *State) LastSync() (SyncRecord, bool, error) {
	var r SyncRecord
	found, err := s.get(syncBucket, lastSyncKey, &r)
	return r, found, err
}

// SetLastSync stores a host config sync outcome.
func (s *State) SetLastSync(r SyncRecord) error {
	return s.put(syncBucket, lastSyncKey, r)
}
