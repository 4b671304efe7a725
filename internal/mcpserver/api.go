package mcpserver

//go:generate mockgen -source=api.go -destination=mock_api_test.go -package=mcpserver

import (
	"context"

	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/auth"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/credentials"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/reddit"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/yahoo"
)

// FantasyAPI is the part of the Yahoo Fantasy client the tools call.
type FantasyAPI interface {
	UserGUID(ctx context.Context, token string) (string, error)
	Leagues(ctx context.Context, token string, season int) ([]yahoo.League, error)
	LeagueSettings(ctx context.Context, token, leagueKey string) (yahoo.LeagueSettings, error)
	Teams(ctx context.Context, token, leagueKey string) ([]yahoo.Team, error)
	UserTeamKey(ctx context.Context, token, guid, leagueKey string) (string, error)
	Standings(ctx context.Context, token, leagueKey string) ([]yahoo.Team, error)
	DraftResults(ctx context.Context, token, leagueKey string) ([]yahoo.DraftPick, error)
	Roster(ctx context.Context, token, teamKey string, week int) ([]yahoo.Player, error)
	Players(ctx context.Context, token, leagueKey string, q yahoo.PlayerQuery) ([]yahoo.Player, error)
	GamePlayers(ctx context.Context, token string, q yahoo.PlayerQuery) ([]yahoo.Player, error)
	Matchups(ctx context.Context, token, teamKey string, week int) ([]yahoo.Matchup, error)
}

// CredentialSource hands out credential snapshots.
type CredentialSource interface {
	Current() credentials.Record
	Reload() (credentials.Record, error)
}

// TokenRefresher exchanges the refresh token for a new access token and
// persists the result.
type TokenRefresher interface {
	Refresh(ctx context.Context, rec credentials.Record) (*auth.Result, error)
}

// SentimentScorer rates a player. It never fails; it degrades to a local
// heuristic instead.
type SentimentScorer interface {
	Score(ctx context.Context, creds reddit.Credentials, player, fallback string) reddit.Sentiment
}
