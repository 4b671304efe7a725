// Package mcpserver registers the fantasy football MCP tools. Handlers
// read a credential snapshot at call time, call the Yahoo client, and
// return structured results.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/credentials"
	apperrors "github.com/alexjbarnes/yahoo-fantasy-mcp/internal/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultPlayerCount  = 25
	defaultRankingCount = 50
	maxPlayerCount      = 100
)

// Deps are the collaborators the tools need. Refresher and Sentiment may
// be nil, in which case ff_refresh_token fails and lineups skip sentiment.
type Deps struct {
	Credentials CredentialSource
	Yahoo       FantasyAPI
	Refresher   TokenRefresher
	Sentiment   SentimentScorer
	Logger      *slog.Logger
	Now         func() time.Time
}

type tools struct {
	Deps
}

// RegisterTools adds all fantasy football tools to the given MCP server.
func RegisterTools(server *mcp.Server, d Deps) {
	if d.Logger == nil {
		d.Logger = slog.New(slog.DiscardHandler)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	t := &tools{Deps: d}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_get_leagues",
		Description: "List the logged-in user's Yahoo fantasy football leagues. Use the returned league_key with every other tool.",
	}, t.leagues)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_get_league_info",
		Description: "League metadata, scoring type, current week, roster positions, and the user's team key.",
	}, t.leagueInfo)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_get_standings",
		Description: "League standings in rank order with win-loss-tie records and points for and against.",
	}, t.standings)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_get_roster",
		Description: "Players on a team's roster with positions, status, bye week, and season points. Defaults to the user's team and the current week.",
	}, t.roster)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_compare_teams",
		Description: "Fetch two teams' rosters side by side with season point totals.",
	}, t.compareTeams)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_get_matchup",
		Description: "The user's head-to-head matchup with points and projections. Omit week to get every week played so far.",
	}, t.matchup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_get_players",
		Description: "Search the league's player pool by position, status (A available, FA free agent, W waivers, T taken), or name.",
	}, t.players)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_build_lineup",
		Description: "Recommend starters and bench for the user's team. Strategy is balanced, floor, or ceiling. include_sentiment nudges values by recent Reddit sentiment.",
	}, t.buildLineup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_refresh_token",
		Description: "Refresh the Yahoo access token, save it to the credential file, and update every host config. Call this when another tool reports an expired token.",
	}, t.refreshToken)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_get_draft_results",
		Description: "Every pick of the league draft with round, pick number, and team name.",
	}, t.draftResults)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_get_waiver_wire",
		Description: "Available players in the league. Sort by rank, points, or name.",
	}, t.waiverWire)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ff_get_draft_rankings",
		Description: "Players ordered by overall rank with average draft pick and percent drafted. Without league_key the game-wide pool is used.",
	}, t.draftRankings)
}

// --- Input types ---
// The MCP SDK infers JSON schema from these struct types via jsonschema tags.

// LeaguesInput holds parameters for ff_get_leagues.
type LeaguesInput struct {
	Season int `json:"season,omitempty" jsonschema:"season year, defaults to the current season"`
}

// LeagueInput holds a league key.
type LeagueInput struct {
	LeagueKey string `json:"league_key" jsonschema:"league key such as 449.l.12345"`
}

// RosterInput holds parameters for ff_get_roster.
type RosterInput struct {
	LeagueKey string `json:"league_key" jsonschema:"league key"`
	TeamKey   string `json:"team_key,omitempty" jsonschema:"team key, defaults to the user's team"`
	Week      int    `json:"week,omitempty" jsonschema:"week number, defaults to the current week"`
}

// CompareInput holds parameters for ff_compare_teams.
type CompareInput struct {
	LeagueKey string `json:"league_key" jsonschema:"league key"`
	TeamKeyA  string `json:"team_key_a" jsonschema:"first team key"`
	TeamKeyB  string `json:"team_key_b" jsonschema:"second team key"`
	Week      int    `json:"week,omitempty" jsonschema:"week number, defaults to the current week"`
}

// MatchupInput holds parameters for ff_get_matchup.
type MatchupInput struct {
	LeagueKey string `json:"league_key" jsonschema:"league key"`
	Week      int    `json:"week,omitempty" jsonschema:"week number, omit for all weeks"`
}

// PlayersInput holds parameters for ff_get_players.
type PlayersInput struct {
	LeagueKey string `json:"league_key" jsonschema:"league key"`
	Position  string `json:"position,omitempty" jsonschema:"position filter such as QB or WR"`
	Status    string `json:"status,omitempty" jsonschema:"A, FA, W, T, or K"`
	Search    string `json:"search,omitempty" jsonschema:"player name search"`
	Count     int    `json:"count,omitempty" jsonschema:"number of players, defaults to 25"`
}

// LineupInput holds parameters for ff_build_lineup.
type LineupInput struct {
	LeagueKey        string `json:"league_key" jsonschema:"league key"`
	Week             int    `json:"week,omitempty" jsonschema:"week number, defaults to the current week"`
	Strategy         string `json:"strategy,omitempty" jsonschema:"balanced, floor, or ceiling"`
	IncludeSentiment bool   `json:"include_sentiment,omitempty" jsonschema:"adjust player values by Reddit sentiment"`
}

// RefreshInput has no parameters.
type RefreshInput struct{}

// WaiverInput holds parameters for ff_get_waiver_wire.
type WaiverInput struct {
	LeagueKey string `json:"league_key" jsonschema:"league key"`
	Position  string `json:"position,omitempty" jsonschema:"position filter"`
	Sort      string `json:"sort,omitempty" jsonschema:"rank, points, or name"`
	Count     int    `json:"count,omitempty" jsonschema:"number of players, defaults to 25"`
}

// RankingsInput holds parameters for ff_get_draft_rankings.
type RankingsInput struct {
	LeagueKey string `json:"league_key,omitempty" jsonschema:"league key, omit for the game-wide player pool"`
	Position  string `json:"position,omitempty" jsonschema:"position filter"`
	Count     int    `json:"count,omitempty" jsonschema:"number of players, defaults to 50"`
}

// session is the credential snapshot for one tool call.
type session struct {
	rec   credentials.Record
	token string
}

func (t *tools) session() (session, error) {
	rec := t.Credentials.Current()
	if rec.AccessToken == "" {
		return session{}, fmt.Errorf("%w: %s is not set; run yahoo-fantasy-auth reauth",
			apperrors.ErrConfigMissing, credentials.KeyAccessToken)
	}
	return session{rec: rec, token: rec.AccessToken}, nil
}

// userTeam resolves the logged-in user's team key in a league.
func (t *tools) userTeam(ctx context.Context, s session, leagueKey string) (string, error) {
	guid := s.rec.GUID
	if guid == "" {
		var err error
		guid, err = t.Yahoo.UserGUID(ctx, s.token)
		if err != nil {
			return "", fmt.Errorf("looking up user: %w", err)
		}
	}
	return t.Yahoo.UserTeamKey(ctx, s.token, guid, leagueKey)
}

func requireLeague(key string) error {
	if key == "" {
		return fmt.Errorf("league_key is required; call ff_get_leagues to list league keys")
	}
	return nil
}

func clampCount(n, def int) int {
	if n <= 0 {
		return def
	}
	if n > maxPlayerCount {
		return maxPlayerCount
	}
	return n
}

// textResult builds a CallToolResult with JSON text content from any value.
// This provides the unstructured content alongside the structured output
// that the SDK populates automatically.
func textResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("error marshaling result: %v", err)}},
			IsError: true,
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
}
