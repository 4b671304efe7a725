package reddit

import (
	"context"
	"log/slog"
	"sync"

	apperrors "github.com/alexjbarnes/yahoo-fantasy-mcp/internal/errors"
)

// Sentiment sources.
const (
	SourceReddit  = "reddit"
	SourceLexicon = "lexicon"
)

const searchLimit = 25

// Sentiment is a player's sentiment score in [-1, 1].
type Sentiment struct {
	Score    float64 `json:"score"`
	Label    string  `json:"label"`
	Mentions int     `json:"mentions"`
	Source   string  `json:"source"`
}

// Scorer rates players from subreddit posts when Reddit credentials are
// available and from local text through the lexicon otherwise.
type Scorer struct {
	lex    *Lexicon
	opts   Options
	logger *slog.Logger

	mu      sync.Mutex
	client  *Client
	creds   Credentials
	missing sync.Once
}

// NewScorer returns a Scorer.
func NewScorer(lex *Lexicon, opts Options, logger *slog.Logger) *Scorer {
	return &Scorer{lex: lex, opts: opts, logger: logger}
}

// Score rates one player. fallback is local text about the player (status,
// injury note) used when Reddit is unavailable.
func (s *Scorer) Score(ctx context.Context, creds Credentials, player, fallback string) Sentiment {
	if !creds.Complete() {
		s.missing.Do(func() {
			s.logger.Warn("reddit credentials not configured, using lexicon heuristic",
				slog.String("error", apperrors.ErrOptionalCredentialMissing.Error()),
			)
		})
		return s.local(fallback)
	}

	client, err := s.clientFor(creds)
	if err != nil {
		s.logger.Warn("reddit client unavailable", slog.String("error", err.Error()))
		return s.local(fallback)
	}

	posts, err := client.Search(ctx, `"`+player+`"`, searchLimit)
	if err != nil {
		s.logger.Warn("reddit search failed, using lexicon heuristic",
			slog.String("player", player),
			slog.String("error", err.Error()),
		)
		return s.local(fallback)
	}

	texts := make([]string, 0, 2*len(posts))
	for _, p := range posts {
		texts = append(texts, p.Title, p.Text)
	}

	score, _ := s.lex.Score(texts...)

	return Sentiment{Score: score, Label: Label(score), Mentions: len(posts), Source: SourceReddit}
}

func (s *Scorer) local(text string) Sentiment {
	score, _ := s.lex.Score(text)
	return Sentiment{Score: score, Label: Label(score), Source: SourceLexicon}
}

// clientFor returns a cached client, rebuilding it when the credentials
// change underneath a long-running server.
func (s *Scorer) clientFor(creds Credentials) (*Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil && s.creds == creds {
		return s.client, nil
	}

	c, err := NewClient(creds, s.opts, s.logger)
	if err != nil {
		return nil, err
	}

	s.client, s.creds = c, creds

	return c, nil
}
