package yahoo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/alexjbarnes/yahoo-fantasy-mcp/internal/errors"
	"github.com/tidwall/gjson"
)

// GameCode is the Yahoo game code for NFL fantasy football.
const GameCode = "nfl"

// UserGUID returns the GUID of the user the token belongs to.
func (c *Client) UserGUID(ctx context.Context, token string) (string, error) {
	content, err := c.get(ctx, token, "users;use_login=1")
	if err != nil {
		return "", err
	}

	users := collection(content.Get("users"), "user")
	if len(users) == 0 {
		return "", fmt.Errorf("%w: no user in response", apperrors.ErrAPIResponse)
	}

	guid := flatten(users[0]).str("guid")
	if guid == "" {
		return "", fmt.Errorf("%w: user has no guid", apperrors.ErrAPIResponse)
	}

	return guid, nil
}

// Leagues returns the logged-in user's football leagues. A zero season
// means the current one.
func (c *Client) Leagues(ctx context.Context, token string, season int) ([]League, error) {
	path := "users;use_login=1/games;game_codes=" + GameCode
	if season > 0 {
		path += ";seasons=" + strconv.Itoa(season)
	}
	path += "/leagues"

	content, err := c.get(ctx, token, path)
	if err != nil {
		return nil, err
	}

	leagues := []League{}
	for _, user := range collection(content.Get("users"), "user") {
		for _, game := range collection(flatten(user)["games"], "game") {
			for _, l := range collection(flatten(game)["leagues"], "league") {
				leagues = append(leagues, parseLeague(flatten(l)))
			}
		}
	}

	return leagues, nil
}

// LeagueSettings returns league metadata and lineup configuration.
func (c *Client) LeagueSettings(ctx context.Context, token, leagueKey string) (LeagueSettings, error) {
	content, err := c.get(ctx, token, "league/"+leagueKey+"/settings")
	if err != nil {
		return LeagueSettings{}, err
	}

	lf := flatten(content.Get("league"))
	if lf.str("league_key") == "" {
		return LeagueSettings{}, fmt.Errorf("%w: league %s not found", apperrors.ErrAPIResponse, leagueKey)
	}

	sf := flatten(lf["settings"])

	return LeagueSettings{
		League:          parseLeague(lf),
		RosterPositions: RosterPositions(sf["roster_positions"]),
		UsesFAAB:        sf.flag("uses_faab"),
		WaiverRule:      sf.str("waiver_rule"),
		TradeEndDate:    sf.str("trade_end_date"),
		PlayoffStart:    sf.int("playoff_start_week"),
	}, nil
}

// RosterPositions parses a roster_positions node. Both the array form and
// the numeric-keyed collection form are accepted.
func RosterPositions(res gjson.Result) []RosterPosition {
	out := []RosterPosition{}

	add := func(v gjson.Result) {
		pos := v.Get("roster_position")
		if !pos.Exists() {
			pos = v
		}
		name := pos.Get("position").String()
		if name == "" {
			return
		}
		count := 1
		if n := pos.Get("count"); n.Exists() {
			count = int(n.Int())
		}
		out = append(out, RosterPosition{
			Position:     name,
			PositionType: pos.Get("position_type").String(),
			Count:        count,
		})
	}

	res.ForEach(func(k, v gjson.Result) bool {
		if k.String() != "count" && v.IsObject() {
			add(v)
		}
		return true
	})

	return out
}

// Teams returns every team in the league.
func (c *Client) Teams(ctx context.Context, token, leagueKey string) ([]Team, error) {
	content, err := c.get(ctx, token, "league/"+leagueKey+"/teams")
	if err != nil {
		return nil, err
	}

	teams := []Team{}
	for _, t := range collection(flatten(content.Get("league"))["teams"], "team") {
		teams = append(teams, parseTeam(flatten(t)))
	}

	return teams, nil
}

// UserTeamKey returns the key of the logged-in user's team in the league.
// Results are cached per league and token owner.
func (c *Client) UserTeamKey(ctx context.Context, token, guid, leagueKey string) (string, error) {
	cacheKey := guid + "|" + leagueKey
	if key, ok := c.teamKeys.Get(cacheKey); ok {
		return key, nil
	}

	teams, err := c.Teams(ctx, token, leagueKey)
	if err != nil {
		return "", err
	}

	for _, t := range teams {
		if t.IsOwnedByUser {
			c.teamKeys.Add(cacheKey, t.TeamKey)
			return t.TeamKey, nil
		}
	}

	return "", fmt.Errorf("%w: no team owned by the current user in league %s", apperrors.ErrAPIResponse, leagueKey)
}

// Standings returns the league's teams in rank order.
func (c *Client) Standings(ctx context.Context, token, leagueKey string) ([]Team, error) {
	content, err := c.get(ctx, token, "league/"+leagueKey+"/standings")
	if err != nil {
		return nil, err
	}

	standings := flatten(flatten(content.Get("league"))["standings"])

	teams := []Team{}
	for _, t := range collection(standings["teams"], "team") {
		teams = append(teams, parseTeam(flatten(t)))
	}

	return teams, nil
}

// DraftResults returns the league's draft picks in pick order.
func (c *Client) DraftResults(ctx context.Context, token, leagueKey string) ([]DraftPick, error) {
	content, err := c.get(ctx, token, "league/"+leagueKey+"/draftresults")
	if err != nil {
		return nil, err
	}

	picks := []DraftPick{}
	for _, d := range collection(flatten(content.Get("league"))["draft_results"], "draft_result") {
		f := flatten(d)
		picks = append(picks, DraftPick{
			Pick:      f.int("pick"),
			Round:     f.int("round"),
			TeamKey:   f.str("team_key"),
			PlayerKey: f.str("player_key"),
		})
	}

	return picks, nil
}

func parseLeague(f fields) League {
	return League{
		LeagueKey:   f.str("league_key"),
		LeagueID:    f.str("league_id"),
		Name:        f.str("name"),
		Season:      f.int("season"),
		NumTeams:    f.int("num_teams"),
		CurrentWeek: f.int("current_week"),
		StartWeek:   f.int("start_week"),
		EndWeek:     f.int("end_week"),
		ScoringType: f.str("scoring_type"),
		DraftStatus: f.str("draft_status"),
		IsFinished:  f.flag("is_finished"),
		URL:         f.str("url"),
	}
}

func parseTeam(f fields) Team {
	t := Team{
		TeamKey:       f.str("team_key"),
		TeamID:        f.str("team_id"),
		Name:          f.str("name"),
		IsOwnedByUser: f.flag("is_owned_by_current_login"),
		WaiverPrio:    f.int("waiver_priority"),
		FAABBalance:   f.int("faab_balance"),
		Moves:         f.int("number_of_moves"),
	}

	for _, m := range f["managers"].Array() {
		if nick := m.Get("manager.nickname").String(); nick != "" {
			t.Manager = nick
			break
		}
	}

	if st := f["team_standings"]; st.Exists() {
		t.Rank = int(st.Get("rank").Int())
		t.Wins = int(st.Get("outcome_totals.wins").Int())
		t.Losses = int(st.Get("outcome_totals.losses").Int())
		t.Ties = int(st.Get("outcome_totals.ties").Int())
		t.PointsFor = st.Get("points_for").Float()
		t.PointsAgainst = st.Get("points_against").Float()
	}

	return t
}

// LeagueOfTeam returns the league key prefix of a team key
// ("449.l.12345.t.3" -> "449.l.12345").
func LeagueOfTeam(teamKey string) string {
	if i := strings.Index(teamKey, ".t."); i >= 0 {
		return teamKey[:i]
	}
	return ""
}
