package yahoo

// League is a fantasy league the logged-in user belongs to.
type League struct {
	LeagueKey   string `json:"league_key"`
	LeagueID    string `json:"league_id"`
	Name        string `json:"name"`
	Season      int    `json:"season"`
	NumTeams    int    `json:"num_teams"`
	CurrentWeek int    `json:"current_week"`
	StartWeek   int    `json:"start_week"`
	EndWeek     int    `json:"end_week"`
	ScoringType string `json:"scoring_type"`
	DraftStatus string `json:"draft_status"`
	IsFinished  bool   `json:"is_finished"`
	URL         string `json:"url"`
}

// RosterPosition is one slot type in the league's lineup and how many of
// it a team starts.
type RosterPosition struct {
	Position     string `json:"position"`
	PositionType string `json:"position_type,omitempty"`
	Count        int    `json:"count"`
}

// LeagueSettings is league metadata plus the settings the tools use.
type LeagueSettings struct {
	League          League           `json:"league"`
	RosterPositions []RosterPosition `json:"roster_positions"`
	UsesFAAB        bool             `json:"uses_faab"`
	WaiverRule      string           `json:"waiver_rule,omitempty"`
	TradeEndDate    string           `json:"trade_end_date,omitempty"`
	PlayoffStart    int              `json:"playoff_start_week,omitempty"`
}

// Team is a fantasy team. Standing fields are only set when fetched
// through standings.
type Team struct {
	TeamKey       string  `json:"team_key"`
	TeamID        string  `json:"team_id"`
	Name          string  `json:"name"`
	Manager       string  `json:"manager,omitempty"`
	IsOwnedByUser bool    `json:"is_owned_by_current_login"`
	Rank          int     `json:"rank,omitempty"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	PointsFor     float64 `json:"points_for"`
	PointsAgainst float64 `json:"points_against"`
	WaiverPrio    int     `json:"waiver_priority,omitempty"`
	FAABBalance   int     `json:"faab_balance,omitempty"`
	Moves         int     `json:"number_of_moves,omitempty"`
}

// Player is a player as returned by roster and player collections.
type Player struct {
	PlayerKey         string   `json:"player_key"`
	Name              string   `json:"name"`
	Team              string   `json:"team"`
	Position          string   `json:"position"`
	EligiblePositions []string `json:"eligible_positions"`
	SelectedPosition  string   `json:"selected_position,omitempty"`
	Status            string   `json:"status,omitempty"`
	InjuryNote        string   `json:"injury_note,omitempty"`
	ByeWeek           int      `json:"bye_week,omitempty"`
	SeasonPoints      float64  `json:"season_points"`
	PercentOwned      float64  `json:"percent_owned,omitempty"`
	AveragePick       float64  `json:"average_pick,omitempty"`
	PercentDrafted    float64  `json:"percent_drafted,omitempty"`
}

// Matchup is one head-to-head week.
type Matchup struct {
	Week          int           `json:"week"`
	Status        string        `json:"status"`
	IsPlayoffs    bool          `json:"is_playoffs"`
	IsTied        bool          `json:"is_tied"`
	WinnerTeamKey string        `json:"winner_team_key,omitempty"`
	Teams         []MatchupTeam `json:"teams"`
}

// MatchupTeam is one side of a matchup.
type MatchupTeam struct {
	TeamKey         string  `json:"team_key"`
	Name            string  `json:"name"`
	Points          float64 `json:"points"`
	ProjectedPoints float64 `json:"projected_points"`
}

// DraftPick is one pick in a league draft.
type DraftPick struct {
	Pick      int    `json:"pick"`
	Round     int    `json:"round"`
	TeamKey   string `json:"team_key"`
	PlayerKey string `json:"player_key"`
}

// PlayerQuery filters a player collection.
type PlayerQuery struct {
	Position string
	Status   string
	Search   string
	Sort     string
	Count    int
	Start    int
	// Week limits stats and ownership to one week instead of the season.
	Week int
	// DraftAnalysis adds average pick and percent drafted.
	DraftAnalysis bool
}
