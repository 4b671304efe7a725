package yahoo

import (
	"context"
	"strconv"
)

// Matchups returns the team's matchups. A zero week returns every week
// played so far.
func (c *Client) Matchups(ctx context.Context, token, teamKey string, week int) ([]Matchup, error) {
	path := "team/" + teamKey + "/matchups"
	if week > 0 {
		path += ";weeks=" + strconv.Itoa(week)
	}

	content, err := c.get(ctx, token, path)
	if err != nil {
		return nil, err
	}

	matchups := []Matchup{}
	for _, m := range collection(flatten(content.Get("team"))["matchups"], "matchup") {
		mf := flatten(m)

		mu := Matchup{
			Week:          mf.int("week"),
			Status:        mf.str("status"),
			IsPlayoffs:    mf.flag("is_playoffs"),
			IsTied:        mf.flag("is_tied"),
			WinnerTeamKey: mf.str("winner_team_key"),
			Teams:         []MatchupTeam{},
		}

		for _, t := range collection(mf.get("0.teams"), "team") {
			tf := flatten(t)
			mu.Teams = append(mu.Teams, MatchupTeam{
				TeamKey:         tf.str("team_key"),
				Name:            tf.str("name"),
				Points:          tf.float("team_points.total"),
				ProjectedPoints: tf.float("team_projected_points.total"),
			})
		}

		matchups = append(matchups, mu)
	}

	return matchups, nil
}
