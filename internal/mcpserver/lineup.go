package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/lineup"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/reddit"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/yahoo"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"
)

const sentimentWorkers = 4

// LineupResult is the output of ff_build_lineup.
type LineupResult struct {
	LeagueKey       string         `json:"league_key"`
	TeamKey         string         `json:"team_key"`
	Week            int            `json:"week"`
	Strategy        string         `json:"strategy"`
	ProjectedPoints float64        `json:"projected_points"`
	Starters        []LineupPlayer `json:"starters"`
	Bench           []LineupPlayer `json:"bench"`
	Excluded        []LineupPlayer `json:"excluded"`
	Unfilled        []string       `json:"unfilled_slots"`
}

// LineupPlayer is a player's place in a recommended lineup.
type LineupPlayer struct {
	Slot      string            `json:"slot,omitempty"`
	PlayerKey string            `json:"player_key"`
	Name      string            `json:"name"`
	Team      string            `json:"team,omitempty"`
	Position  string            `json:"position"`
	Status    string            `json:"status,omitempty"`
	Projected float64           `json:"projected_points"`
	Reason    string            `json:"reason,omitempty"`
	Sentiment *reddit.Sentiment `json:"sentiment,omitempty"`
}

// statusWords spells out Yahoo status codes for the sentiment fallback.
var statusWords = map[string]string{
	"Q":    "questionable",
	"D":    "doubtful",
	"O":    "out",
	"IR":   "injured reserve ir",
	"SUSP": "suspended",
}

func (t *tools) buildLineup(ctx context.Context, _ *mcp.CallToolRequest, input LineupInput) (*mcp.CallToolResult, *LineupResult, error) {
	if err := requireLeague(input.LeagueKey); err != nil {
		return nil, nil, err
	}
	strategy, err := lineup.ParseStrategy(input.Strategy)
	if err != nil {
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

	teamKey, err := t.userTeam(ctx, s, input.LeagueKey)
	if err != nil {
		return nil, nil, err
	}

	week := input.Week
	if week <= 0 {
		week = settings.League.CurrentWeek
	}

	roster, err := t.Yahoo.Roster(ctx, s.token, teamKey, week)
	if err != nil {
		return nil, nil, fmt.Errorf("roster for %s: %w", teamKey, err)
	}

	var sentiments []*reddit.Sentiment
	if input.IncludeSentiment && t.Sentiment != nil {
		sentiments = t.scoreSentiment(ctx, s, roster)
	}

	players := make([]lineup.Player, len(roster))
	byKey := make(map[string]int, len(roster))
	for i, p := range roster {
		players[i] = lineupPlayer(p)
		if sentiments != nil {
			players[i].Sentiment = sentiments[i].Score
		}
		byKey[p.PlayerKey] = i
	}

	slots := make([]lineup.Slot, 0, len(settings.RosterPositions))
	for _, rp := range settings.RosterPositions {
		slots = append(slots, lineup.Slot{Position: rp.Position, Count: rp.Count})
	}

	built := lineup.Build(players, lineup.SlotsFrom(slots), lineup.Options{
		Strategy:    strategy,
		Week:        week,
		WeeksPlayed: week - 1,
	})

	view := func(sc lineup.Scored) LineupPlayer {
		i := byKey[sc.Player.Key]
		lp := LineupPlayer{
			PlayerKey: sc.Player.Key,
			Name:      sc.Player.Name,
			Team:      sc.Player.Team,
			Position:  roster[i].Position,
			Status:    sc.Player.Status,
			Projected: sc.Value,
		}
		if sentiments != nil {
			lp.Sentiment = sentiments[i]
		}
		return lp
	}

	result := &LineupResult{
		LeagueKey:       input.LeagueKey,
		TeamKey:         teamKey,
		Week:            week,
		Strategy:        string(built.Strategy),
		ProjectedPoints: built.Total(),
		Starters:        make([]LineupPlayer, 0, len(built.Starters)),
		Bench:           make([]LineupPlayer, 0, len(built.Bench)),
		Excluded:        make([]LineupPlayer, 0, len(built.Excluded)),
		Unfilled:        built.Unfilled,
	}
	for _, a := range built.Starters {
		lp := view(a.Scored)
		lp.Slot = a.Slot
		result.Starters = append(result.Starters, lp)
	}
	for _, b := range built.Bench {
		result.Bench = append(result.Bench, view(b))
	}
	for _, e := range built.Excluded {
		lp := view(lineup.Scored{Player: e.Player})
		lp.Reason = e.Reason
		result.Excluded = append(result.Excluded, lp)
	}

	return textResult(result), result, nil
}

// scoreSentiment rates every rostered player, a few at a time. The result
// is indexed like roster.
func (t *tools) scoreSentiment(ctx context.Context, s session, roster []yahoo.Player) []*reddit.Sentiment {
	// Without a full app credential pair the scorer uses its lexicon.
	var creds reddit.Credentials
	if s.rec.HasReddit() {
		creds = reddit.Credentials{
			ClientID:     s.rec.RedditClientID,
			ClientSecret: s.rec.RedditClientSecret,
			Username:     s.rec.RedditUsername,
		}
	}

	out := make([]*reddit.Sentiment, len(roster))

	var g errgroup.Group
	g.SetLimit(sentimentWorkers)
	for i, p := range roster {
		g.Go(func() error {
			sent := t.Sentiment.Score(ctx, creds, p.Name, fallbackText(p))
			out[i] = &sent
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func fallbackText(p yahoo.Player) string {
	parts := make([]string, 0, 2)
	if w, ok := statusWords[strings.ToUpper(p.Status)]; ok {
		parts = append(parts, w)
	} else if p.Status == "" {
		parts = append(parts, "healthy")
	}
	if p.InjuryNote != "" {
		parts = append(parts, p.InjuryNote)
	}
	return strings.Join(parts, " ")
}

func lineupPlayer(p yahoo.Player) lineup.Player {
	positions := p.EligiblePositions
	if len(positions) == 0 && p.Position != "" {
		positions = []string{p.Position}
	}
	return lineup.Player{
		Key:          p.PlayerKey,
		Name:         p.Name,
		Team:         p.Team,
		Positions:    positions,
		Status:       p.Status,
		ByeWeek:      p.ByeWeek,
		SeasonPoints: p.SeasonPoints,
	}
}
