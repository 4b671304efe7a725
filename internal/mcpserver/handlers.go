package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/credentials"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/yahoo"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"
)

// --- Output types ---

// LeaguesResult is the output of ff_get_leagues.
type LeaguesResult struct {
	Leagues []yahoo.League `json:"leagues"`
}

// LeagueInfoResult is the output of ff_get_league_info.
type LeagueInfoResult struct {
	League          yahoo.League           `json:"league"`
	RosterPositions []yahoo.RosterPosition `json:"roster_positions"`
	UsesFAAB        bool                   `json:"uses_faab"`
	WaiverRule      string                 `json:"waiver_rule,omitempty"`
	TradeEndDate    string                 `json:"trade_end_date,omitempty"`
	PlayoffStart    int                    `json:"playoff_start_week,omitempty"`
	UserTeamKey     string                 `json:"user_team_key,omitempty"`
}

// StandingsResult is the output of ff_get_standings.
type StandingsResult struct {
	LeagueKey string       `json:"league_key"`
	Teams     []yahoo.Team `json:"teams"`
}

// RosterResult is one team's roster.
type RosterResult struct {
	TeamKey      string         `json:"team_key"`
	Week         int            `json:"week,omitempty"`
	SeasonPoints float64        `json:"season_points"`
	Players      []yahoo.Player `json:"players"`
}

// CompareResult is the output of ff_compare_teams.
type CompareResult struct {
	TeamA RosterResult `json:"team_a"`
	TeamB RosterResult `json:"team_b"`
	// Leader is the team key with more season points, empty on a tie.
	Leader string `json:"leader,omitempty"`
}

// MatchupResult is the output of ff_get_matchup.
type MatchupResult struct {
	TeamKey  string          `json:"team_key"`
	Matchups []yahoo.Matchup `json:"matchups"`
}

// PlayersResult is a player list.
type PlayersResult struct {
	LeagueKey string         `json:"league_key,omitempty"`
	Count     int            `json:"count"`
	Players   []yahoo.Player `json:"players"`
}

// RefreshResult is the output of ff_refresh_token.
type RefreshResult struct {
	Refreshed         bool          `json:"refreshed"`
	Rotated           bool          `json:"refresh_token_rotated"`
	AccessFingerprint string        `json:"access_token_fingerprint"`
	ExpiresAt         string        `json:"expires_at"`
	Hosts             []HostOutcome `json:"hosts"`
}

// HostOutcome is one host config sync result.
type HostOutcome struct {
	Host    string   `json:"host"`
	Path    string   `json:"path"`
	Outcome string   `json:"outcome"`
	Servers []string `json:"servers,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// DraftPick is a draft pick with its team name.
type DraftPick struct {
	Pick      int    `json:"pick"`
	Round     int    `json:"round"`
	TeamKey   string `json:"team_key"`
	TeamName  string `json:"team_name"`
	PlayerKey string `json:"player_key"`
}

// DraftResultsResult is the output of ff_get_draft_results.
type DraftResultsResult struct {
	LeagueKey string      `json:"league_key"`
	Picks     []DraftPick `json:"picks"`
}

// --- Handlers ---

func (t *tools) leagues(ctx context.Context, _ *mcp.CallToolRequest, input LeaguesInput) (*mcp.CallToolResult, *LeaguesResult, error) {
	s, err := t.session()
	if err != nil {
		return nil, nil, err
	}

	leagues, err := t.Yahoo.Leagues(ctx, s.token, input.Season)
	if err != nil {
		return nil, nil, err
	}

	result := &LeaguesResult{Leagues: leagues}
	return textResult(result), result, nil
}

func (t *tools) leagueInfo(ctx context.Context, _ *mcp.CallToolRequest, input LeagueInput) (*mcp.CallToolResult, *LeagueInfoResult, error) {
	if err := requireLeague(input.LeagueKey); err != nil {
		return nil, nil, err
	}
	s, err := t.session()
	if err != nil {
		return nil, nil, err
	}

	settings, err := t.Yahoo.LeagueSettings(ctx, s.token, input.LeagueKey)
	if err != nil {
		return nil, nil, err
	}

	result := &LeagueInfoResult{
		League:          settings.League,
		RosterPositions: settings.RosterPositions,
		UsesFAAB:        settings.UsesFAAB,
		WaiverRule:      settings.WaiverRule,
		TradeEndDate:    settings.TradeEndDate,
		PlayoffStart:    settings.PlayoffStart,
	}

	// A league the user only follows has no team; the info is still useful.
	teamKey, err := t.userTeam(ctx, s, input.LeagueKey)
	if err != nil {
		t.Logger.Warn("user team not resolved",
			slog.String("league", input.LeagueKey),
			slog.String("error", err.Error()),
		)
	}
	result.UserTeamKey = teamKey

	return textResult(result), result, nil
}

func (t *tools) standings(ctx context.Context, _ *mcp.CallToolRequest, input LeagueInput) (*mcp.CallToolResult, *StandingsResult, error) {
	if err := requireLeague(input.LeagueKey); err != nil {
		return nil, nil, err
	}
	s, err := t.session()
	if err != nil {
		return nil, nil, err
	}

	teams, err := t.Yahoo.Standings(ctx, s.token, input.LeagueKey)
	if err != nil {
		return nil, nil, err
	}

	result := &StandingsResult{LeagueKey: input.LeagueKey, Teams: teams}
	return textResult(result), result, nil
}

func (t *tools) roster(ctx context.Context, _ *mcp.CallToolRequest, input RosterInput) (*mcp.CallToolResult, *RosterResult, error) {
	if err := requireLeague(input.LeagueKey); err != nil {
		return nil, nil, err
	}
	s, err := t.session()
	if err != nil {
		return nil, nil, err
	}

	teamKey := input.TeamKey
	if teamKey == "" {
		teamKey, err = t.userTeam(ctx, s, input.LeagueKey)
		if err != nil {
			return nil, nil, err
		}
	}

	result, err := t.fetchRoster(ctx, s, teamKey, input.Week)
	if err != nil {
		return nil, nil, err
	}
	return textResult(result), result, nil
}

func (t *tools) fetchRoster(ctx context.Context, s session, teamKey string, week int) (*RosterResult, error) {
	players, err := t.Yahoo.Roster(ctx, s.token, teamKey, week)
	if err != nil {
		return nil, fmt.Errorf("roster for %s: %w", teamKey, err)
	}

	result := &RosterResult{TeamKey: teamKey, Week: week, Players: players}
	for _, p := range players {
		result.SeasonPoints += p.SeasonPoints
	}
	return result, nil
}

func (t *tools) compareTeams(ctx context.Context, _ *mcp.CallToolRequest, input CompareInput) (*mcp.CallToolResult, *CompareResult, error) {
	if err := requireLeague(input.LeagueKey); err != nil {
		return nil, nil, err
	}
	if input.TeamKeyA == "" || input.TeamKeyB == "" {
		return nil, nil, fmt.Errorf("team_key_a and team_key_b are required")
	}
	s, err := t.session()
	if err != nil {
		return nil, nil, err
	}

	var a, b *RosterResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a, err = t.fetchRoster(gctx, s, input.TeamKeyA, input.Week)
		return err
	})
	g.Go(func() error {
		var err error
		b, err = t.fetchRoster(gctx, s, input.TeamKeyB, input.Week)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	result := &CompareResult{TeamA: *a, TeamB: *b}
	switch {
	case a.SeasonPoints > b.SeasonPoints:
		result.Leader = a.TeamKey
	case b.SeasonPoints > a.SeasonPoints:
		result.Leader = b.TeamKey
	}

	return textResult(result), result, nil
}

func (t *tools) matchup(ctx context.Context, _ *mcp.CallToolRequest, input MatchupInput) (*mcp.CallToolResult, *MatchupResult, error) {
	if err := requireLeague(input.LeagueKey); err != nil {
		return nil, nil, err
	}
	s, err := t.session()
	if err != nil {
		return nil, nil, err
	}

	teamKey, err := t.userTeam(ctx, s, input.LeagueKey)
	if err != nil {
		return nil, nil, err
	}

	matchups, err := t.Yahoo.Matchups(ctx, s.token, teamKey, input.Week)
	if err != nil {
		return nil, nil, err
	}

	result := &MatchupResult{TeamKey: teamKey, Matchups: matchups}
	return textResult(result), result, nil
}

func (t *tools) players(ctx context.Context, _ *mcp.CallToolRequest, input PlayersInput) (*mcp.CallToolResult, *PlayersResult, error) {
	if err := requireLeague(input.LeagueKey); err != nil {
		return nil, nil, err
	}
	s, err := t.session()
	if err != nil {
		return nil, nil, err
	}

	players, err := t.Yahoo.Players(ctx, s.token, input.LeagueKey, yahoo.PlayerQuery{
		Position: strings.ToUpper(input.Position),
		Status:   strings.ToUpper(input.Status),
		Search:   input.Search,
		Count:    clampCount(input.Count, defaultPlayerCount),
	})
	if err != nil {
		return nil, nil, err
	}

	result := &PlayersResult{LeagueKey: input.LeagueKey, Count: len(players), Players: players}
	return textResult(result), result, nil
}

func (t *tools) refreshToken(ctx context.Context, _ *mcp.CallToolRequest, _ RefreshInput) (*mcp.CallToolResult, *RefreshResult, error) {
	if t.Refresher == nil {
		return nil, nil, fmt.Errorf("token refresh is not available in this server")
	}

	res, err := t.Refresher.Refresh(ctx, t.Credentials.Current())
	if err != nil {
		return nil, nil, err
	}

	// The watcher reloads on the file event too; reloading here makes the
	// next tool call see the new token without waiting for it.
	if _, err := t.Credentials.Reload(); err != nil {
		t.Logger.Warn("reloading credentials after refresh", slog.String("error", err.Error()))
	}

	result := &RefreshResult{
		Refreshed:         true,
		Rotated:           res.Rotated,
		AccessFingerprint: credentials.Fingerprint(res.Tokens.AccessToken),
		ExpiresAt:         res.Tokens.ExpiresAt.UTC().Format(time.RFC3339),
		Hosts:             []HostOutcome{},
	}
	for _, r := range res.Report.Results {
		h := HostOutcome{
			Host:    r.Target.Name,
			Path:    r.Target.Path,
			Outcome: string(r.Outcome),
			Servers: r.Servers,
		}
		if r.Err != nil {
			h.Error = r.Err.Error()
		}
		result.Hosts = append(result.Hosts, h)
	}

	return textResult(result), result, nil
}

func (t *tools) draftResults(ctx context.Context, _ *mcp.CallToolRequest, input LeagueInput) (*mcp.CallToolResult, *DraftResultsResult, error) {
	if err := requireLeague(input.LeagueKey); err != nil {
		return nil, nil, err
	}
	s, err := t.session()
	if err != nil {
		return nil, nil, err
	}

	var (
		picks []yahoo.DraftPick
		teams []yahoo.Team
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		picks, err = t.Yahoo.DraftResults(gctx, s.token, input.LeagueKey)
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = t.Yahoo.Teams(gctx, s.token, input.LeagueKey)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	names := make(map[string]string, len(teams))
	for _, tm := range teams {
		names[tm.TeamKey] = tm.Name
	}

	result := &DraftResultsResult{LeagueKey: input.LeagueKey, Picks: make([]DraftPick, 0, len(picks))}
	for _, p := range picks {
		result.Picks = append(result.Picks, DraftPick{
			Pick:      p.Pick,
			Round:     p.Round,
			TeamKey:   p.TeamKey,
			TeamName:  names[p.TeamKey],
			PlayerKey: p.PlayerKey,
		})
	}

	return textResult(result), result, nil
}

// waiverSorts maps tool sort names to Yahoo sort codes.
var waiverSorts = map[string]string{
	"":       "AR",
	"rank":   "AR",
	"points": "PTS",
	"name":   "NAME",
}

func (t *tools) waiverWire(ctx context.Context, _ *mcp.CallToolRequest, input WaiverInput) (*mcp.CallToolResult, *PlayersResult, error) {
	if err := requireLeague(input.LeagueKey); err != nil {
		return nil, nil, err
	}
	sort, ok := waiverSorts[strings.ToLower(input.Sort)]
	if !ok {
		return nil, nil, fmt.Errorf("unknown sort %q (want rank, points, or name)", input.Sort)
	}
	s, err := t.session()
	if err != nil {
		return nil, nil, err
	}

	players, err := t.Yahoo.Players(ctx, s.token, input.LeagueKey, yahoo.PlayerQuery{
		Position: strings.ToUpper(input.Position),
		Status:   "A",
		Sort:     sort,
		Count:    clampCount(input.Count, defaultPlayerCount),
	})
	if err != nil {
		return nil, nil, err
	}

	result := &PlayersResult{LeagueKey: input.LeagueKey, Count: len(players), Players: players}
	return textResult(result), result, nil
}

func (t *tools) draftRankings(ctx context.Context, _ *mcp.CallToolRequest, input RankingsInput) (*mcp.CallToolResult, *PlayersResult, error) {
	s, err := t.session()
	if err != nil {
		return nil, nil, err
	}

	q := yahoo.PlayerQuery{
		Position:      strings.ToUpper(input.Position),
		Sort:          "OR",
		Count:         clampCount(input.Count, defaultRankingCount),
		DraftAnalysis: true,
	}

	var players []yahoo.Player
	if input.LeagueKey != "" {
		players, err = t.Yahoo.Players(ctx, s.token, input.LeagueKey, q)
	} else {
		players, err = t.Yahoo.GamePlayers(ctx, s.token, q)
	}
	if err != nil {
		return nil, nil, err
	}

	result := &PlayersResult{LeagueKey: input.LeagueKey, Count: len(players), Players: players}
	return textResult(result), result, nil
}
