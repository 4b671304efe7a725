package yahoo

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Roster returns the team's players with season point totals. A zero week
// means the current week.
func (c *Client) Roster(ctx context.Context, token, teamKey string, week int) ([]Player, error) {
	path := "team/" + teamKey + "/roster"
	if week > 0 {
		path += ";week=" + strconv.Itoa(week)
	}
	path += "/players/stats;type=season"

	content, err := c.get(ctx, token, path)
	if err != nil {
		return nil, err
	}

	roster := flatten(content.Get("team"))["roster"]

	return parsePlayers(roster.Get("0.players")), nil
}

// Players searches the league's player pool.
func (c *Client) Players(ctx context.Context, token, leagueKey string, q PlayerQuery) ([]Player, error) {
	content, err := c.get(ctx, token, "league/"+leagueKey+"/players"+q.params())
	if err != nil {
		return nil, err
	}

	return parsePlayers(flatten(content.Get("league"))["players"]), nil
}

// GamePlayers searches the game-wide player pool, independent of any
// league.
func (c *Client) GamePlayers(ctx context.Context, token string, q PlayerQuery) ([]Player, error) {
	content, err := c.get(ctx, token, "game/"+GameCode+"/players"+q.params())
	if err != nil {
		return nil, err
	}

	return parsePlayers(flatten(content.Get("game"))["players"]), nil
}

func (q PlayerQuery) params() string {
	var b strings.Builder

	add := func(k, v string) {
		if v == "" {
			return
		}
		b.WriteString(";" + k + "=" + v)
	}

	add("position", strings.ToUpper(q.Position))
	add("status", strings.ToUpper(q.Status))
	if q.Search != "" {
		add("search", url.PathEscape(q.Search))
	}
	add("sort", q.Sort)
	if q.Week > 0 {
		add("sort_type", "week")
		add("sort_week", strconv.Itoa(q.Week))
	}
	if q.Start > 0 {
		add("start", strconv.Itoa(q.Start))
	}
	if q.Count > 0 {
		add("count", strconv.Itoa(q.Count))
	}

	out := []string{"stats", "percent_owned"}
	if q.DraftAnalysis {
		out = append(out, "draft_analysis")
	}
	add("out", strings.Join(out, ","))

	return b.String()
}

func parsePlayers(res gjson.Result) []Player {
	players := []Player{}
	for _, p := range collection(res, "player") {
		players = append(players, parsePlayer(flatten(p)))
	}
	return players
}

func parsePlayer(f fields) Player {
	p := Player{
		PlayerKey:         f.str("player_key"),
		Name:              f.str("name.full"),
		Team:              f.str("editorial_team_abbr"),
		Position:          f.str("display_position"),
		EligiblePositions: []string{},
		Status:            f.str("status"),
		InjuryNote:        f.str("injury_note"),
		ByeWeek:           f.int("bye_weeks.week"),
		SeasonPoints:      f.float("player_points.total"),
	}

	for _, e := range f["eligible_positions"].Array() {
		if pos := e.Get("position").String(); pos != "" {
			p.EligiblePositions = append(p.EligiblePositions, pos)
		}
	}

	if sp := f["selected_position"]; sp.Exists() {
		p.SelectedPosition = flatten(sp).str("position")
	}

	if po := f["percent_owned"]; po.Exists() {
		if po.IsArray() {
			p.PercentOwned = flatten(po).float("value")
		} else {
			p.PercentOwned = po.Float()
		}
	}

	if da := f["draft_analysis"]; da.Exists() {
		df := flatten(da)
		p.AveragePick = df.float("average_pick")
		p.PercentDrafted = df.float("percent_drafted")
	}

	return p
}
