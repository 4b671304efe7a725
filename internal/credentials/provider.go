package credentials

import (
	"fmt"
	"sync/atomic"

	"github.com/caarlos0/env/v11"
)

// Provider holds the current credential Record for a long-running
// process. The base comes from the process environment (hosts inject
// credentials through their config's env map); the credential file is
// overlaid on top because it is refreshed first.
type Provider struct {
	store   *Store
	base    Record
	current atomic.Pointer[Record]
}

// NewProvider builds a Provider from the store and an environ slice in
// os.Environ form, and performs the initial read.
func NewProvider(store *Store, environ []string) (*Provider, error) {
	base, err := FromMap(env.ToMap(environ))
	if err != nil {
		return nil, err
	}

	p := &Provider{store: store, base: base}
	if _, err := p.Reload(); err != nil {
		return nil, err
	}

	return p, nil
}

// Current returns a snapshot of the credential Record.
func (p *Provider) Current() Record {
	if rec := p.current.Load(); rec != nil {
		return *rec
	}
	return p.base
}

// Reload re-reads the credential file and swaps the snapshot. On error the
// previous snapshot is kept.
func (p *Provider) Reload() (Record, error) {
	fileRec, err := p.store.Read()
	if err != nil {
		return p.Current(), fmt.Errorf("reloading credentials: %w", err)
	}

	rec := p.base.Overlay(fileRec)
	p.current.Store(&rec)

	return rec, nil
}
