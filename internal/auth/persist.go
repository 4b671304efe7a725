package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/credentials"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/hostconfig"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/state"
)

// HostSyncer propagates a credential record into host config files.
type HostSyncer interface {
	Sync(ctx context.Context, rec credentials.Record) hostconfig.Report
}

// Persister writes newly obtained tokens to the credential file first,
// then records token metadata, then fans out to host configs. The
// credential file is the only step whose failure fails the operation.
type Persister struct {
	store  *credentials.Store
	state  *state.State
	hosts  HostSyncer
	logger *slog.Logger
	now    func() time.Time
}

// NewPersister returns a Persister. st and hosts may be nil.
func NewPersister(store *credentials.Store, st *state.State, hosts HostSyncer, logger *slog.Logger) *Persister {
	return &Persister{store: store, state: st, hosts: hosts, logger: logger, now: time.Now}
}

// Result is the outcome of a successful authorization or refresh.
type Result struct {
	Tokens  Tokens
	Rotated bool
	Changed bool
	Report  hostconfig.Report
}

// Persist upserts the tokens, then records metadata and syncs hosts.
func (p *Persister) Persist(ctx context.Context, t Tokens, source string) (*Result, error) {
	changes := map[string]string{
		credentials.KeyAccessToken:  t.AccessToken,
		credentials.KeyRefreshToken: t.RefreshToken,
	}
	if t.GUID != "" {
		changes[credentials.KeyGUID] = t.GUID
	}

	changed, err := p.store.Upsert(changes)
	if err != nil {
		p.logger.Error("tokens obtained but not saved; re-run authorization",
			slog.String("path", p.store.Path()),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("persisting tokens: %w", err)
	}

	p.recordMeta(t, source)

	rec, err := p.store.Read()
	if err != nil {
		return nil, fmt.Errorf("re-reading credential file: %w", err)
	}

	res := &Result{Tokens: t, Changed: changed}
	if p.hosts != nil {
		res.Report = p.hosts.Sync(ctx, rec)
		p.recordSync(res.Report)
	}

	return res, nil
}

// MarkRejected records that the identity provider rejected the refresh
// token currently on file.
func (p *Persister) MarkRejected() {
	if p.state == nil {
		return
	}
	if err := p.state.MarkRefreshRejected(p.now()); err != nil {
		p.logger.Warn("failed to record refresh rejection", slog.String("error", err.Error()))
	}
}

func (p *Persister) recordMeta(t Tokens, source string) {
	if p.state == nil {
		return
	}

	meta := state.TokenMeta{
		AccessFingerprint: credentials.Fingerprint(t.AccessToken),
		ObtainedAt:        p.now(),
		ExpiresAt:         t.ExpiresAt,
		Source:            source,
	}
	if err := p.state.SetTokenMeta(meta); err != nil {
		p.logger.Warn("failed to save token metadata", slog.String("error", err.Error()))
	}
}

func (p *Persister) recordSync(r hostconfig.Report) {
	if p.state == nil {
		return
	}
	if err := p.state.SetLastSync(SyncRecord(r, p.now())); err != nil {
		p.logger.Warn("failed to save sync report", slog.String("error", err.Error()))
	}
}

// SyncRecord converts a sync report into its persisted form.
func SyncRecord(r hostconfig.Report, at time.Time) state.SyncRecord {
	rec := state.SyncRecord{At: at, Targets: make([]state.SyncTarget, 0, len(r.Results))}
	for _, res := range r.Results {
		st := state.SyncTarget{
			Name:    res.Target.Name,
			Path:    res.Target.Path,
			Outcome: string(res.Outcome),
		}
		if res.Err != nil {
			st.Detail = res.Err.Error()
		}
		rec.Targets = append(rec.Targets, st)
	}
	return rec
}
