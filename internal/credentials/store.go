package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/fsutil"
	"github.com/joho/godotenv"
)

// filePerm is the mode for credential files this package creates.
const filePerm = fs.FileMode(0o600)

// Store reads and writes one credential file.
type Store struct {
	path string
}

// Open returns a Store for the given path. The file does not need to
// exist yet.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("credential file path cannot be empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving credential file path: %w", err)
	}

	return &Store{path: abs}, nil
}

// Path returns the absolute path of the credential file.
func (s *Store) Path() string {
	return s.path
}

// Read loads the credential file into a Record. A missing file yields an
// empty Record and no error.
func (s *Store) Read() (Record, error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return Record{}, nil
	}

	m, err := godotenv.Read(s.path)
	if err != nil {
		return Record{}, fmt.Errorf("reading credential file: %w", err)
	}

	return FromMap(m)
}

// Upsert sets each key in changes. Existing keys are replaced in place on
// their own line; new keys are appended. Nothing is written when every
// value already matches, so repeated calls are idempotent. A missing file
// is created with only the given keys.
func (s *Store) Upsert(changes map[string]string) (bool, error) {
	if len(changes) == 0 {
		return false, nil
	}

	data, err := os.ReadFile(s.path)
	existed := err == nil

	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("reading credential file: %w", err)
	}

	doc := parseDocument(data)

	changed, err := doc.upsert(changes)
	if err != nil {
		return false, err
	}

	if !changed && existed {
		return false, nil
	}

	if err := fsutil.WriteFileAtomic(s.path, doc.bytes(), filePerm); err != nil {
		return false, fmt.Errorf("writing credential file: %w", err)
	}

	return true, nil
}

// InsecurePermissions reports whether the credential file is readable by
// group or others. Always false on Windows and for missing files.
func (s *Store) InsecurePermissions() (fs.FileMode, bool) {
	if runtime.GOOS == "windows" {
		return 0, false
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return 0, false
	}

	mode := info.Mode().Perm()
	return mode, mode&0o077 != 0
}
