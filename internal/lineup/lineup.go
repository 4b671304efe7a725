// Package lineup picks weekly starters from a fantasy roster. Players are
// valued from season scoring, adjusted by strategy, injury status and an
// optional sentiment nudge, then slotted greedily: dedicated positions
// first, flex slots from whoever is left.
package lineup

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Strategy controls how player variance is weighed.
type Strategy string

const (
	Balanced Strategy = "balanced"
	Floor    Strategy = "floor"
	Ceiling  Strategy = "ceiling"
)

// ParseStrategy accepts balanced, floor, or ceiling. Empty means balanced.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Balanced:
		return Balanced, nil
	case Floor:
		return Floor, nil
	case Ceiling:
		return Ceiling, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want balanced, floor, or ceiling)", s)
	}
}

// Slot is a starting lineup position and how many of it to fill.
type Slot struct {
	Position string
	Count    int
}

// DefaultSlots is the standard Yahoo lineup.
var DefaultSlots = []Slot{
	{Position: "QB", Count: 1},
	{Position: "RB", Count: 2},
	{Position: "WR", Count: 2},
	{Position: "TE", Count: 1},
	{Position: "W/R/T", Count: 1},
	{Position: "K", Count: 1},
	{Position: "DEF", Count: 1},
}

// Player is a rostered player as the builder sees it.
type Player struct {
	Key          string
	Name         string
	Team         string
	Positions    []string
	Status       string
	ByeWeek      int
	SeasonPoints float64
	// Sentiment in [-1, 1]; zero means no signal.
	Sentiment float64
}

// Scored is a player with the value the builder assigned.
type Scored struct {
	Player Player
	Value  float64
}

// Assignment is a filled lineup slot.
type Assignment struct {
	Slot string
	Scored
}

// Excluded is a player who cannot start this week.
type Excluded struct {
	Player Player
	Reason string
}

// Lineup is the builder's result.
type Lineup struct {
	Strategy Strategy
	Starters []Assignment
	Bench    []Scored
	Excluded []Excluded
	// Unfilled lists slots no eligible player could take.
	Unfilled []string
}

// Options tunes a build.
type Options struct {
	Strategy Strategy
	// Week is the week being set; players on bye that week are excluded.
	// Zero skips the bye check.
	Week int
	// WeeksPlayed divides season points into a weekly average.
	WeeksPlayed int
}

// Status discounts for players who may still play.
var statusFactor = map[string]float64{
	"Q": 0.85,
	"D": 0.5,
}

// Statuses that rule a player out.
var outStatus = map[string]string{
	"O":     "out",
	"IR":    "injured reserve",
	"IR-R":  "injured reserve",
	"PUP-P": "physically unable to perform",
	"PUP-R": "physically unable to perform",
	"NFI-P": "non-football injury",
	"NFI-R": "non-football injury",
	"SUSP":  "suspended",
	"NA":    "inactive",
}

// volatility is the relative spread of weekly scoring by position.
var volatility = map[string]float64{
	"QB":  0.25,
	"RB":  0.35,
	"WR":  0.40,
	"TE":  0.40,
	"K":   0.30,
	"DEF": 0.35,
}

const (
	defaultVolatility = 0.35
	sentimentWeight   = 0.10
)

// benchSlots are roster positions that never start.
var benchSlots = map[string]bool{"BN": true, "IR": true, "IR+": true, "NA": true}

// SlotsFrom converts league roster positions to starting slots, dropping
// bench and reserve positions. An empty result falls back to DefaultSlots.
func SlotsFrom(positions []Slot) []Slot {
	out := make([]Slot, 0, len(positions))
	for _, p := range positions {
		if benchSlots[strings.ToUpper(p.Position)] || p.Count <= 0 {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return DefaultSlots
	}
	return out
}

// Build fills slots from players.
func Build(players []Player, slots []Slot, opts Options) Lineup {
	if opts.Strategy == "" {
		opts.Strategy = Balanced
	}
	if len(slots) == 0 {
		slots = DefaultSlots
	}

	lu := Lineup{
		Strategy: opts.Strategy,
		Starters: []Assignment{},
		Bench:    []Scored{},
		Excluded: []Excluded{},
		Unfilled: []string{},
	}

	pool := make([]Scored, 0, len(players))
	for _, p := range players {
		if reason, ok := outStatus[strings.ToUpper(p.Status)]; ok {
			lu.Excluded = append(lu.Excluded, Excluded{Player: p, Reason: reason})
			continue
		}
		if opts.Week > 0 && p.ByeWeek == opts.Week {
			lu.Excluded = append(lu.Excluded, Excluded{Player: p, Reason: "bye week"})
			continue
		}
		pool = append(pool, Scored{Player: p, Value: value(p, opts)})
	}

	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].Value != pool[j].Value {
			return pool[i].Value > pool[j].Value
		}
		return pool[i].Player.Name < pool[j].Player.Name
	})

	used := make([]bool, len(pool))

	fill := func(slot string) {
		eligible := slotPositions(slot)
		for i, s := range pool {
			if used[i] || !playsAny(s.Player, eligible) {
				continue
			}
			used[i] = true
			lu.Starters = append(lu.Starters, Assignment{Slot: slot, Scored: s})
			return
		}
		lu.Unfilled = append(lu.Unfilled, slot)
	}

	// Dedicated positions take their best players before flex slots
	// choose from the leftovers.
	for _, flex := range []bool{false, true} {
		for _, s := range slots {
			if isFlex(s.Position) != flex {
				continue
			}
			for n := 0; n < s.Count; n++ {
				fill(s.Position)
			}
		}
	}

	for i, s := range pool {
		if !used[i] {
			lu.Bench = append(lu.Bench, s)
		}
	}

	return lu
}

// Total is the summed value of the starters.
func (l Lineup) Total() float64 {
	var sum float64
	for _, a := range l.Starters {
		sum += a.Value
	}
	return sum
}

func value(p Player, opts Options) float64 {
	weeks := opts.WeeksPlayed
	if weeks < 1 {
		weeks = 1
	}

	v := p.SeasonPoints / float64(weeks)

	vol := defaultVolatility
	if len(p.Positions) > 0 {
		if pv, ok := volatility[normalizePosition(p.Positions[0])]; ok {
			vol = pv
		}
	}

	switch opts.Strategy {
	case Floor:
		v *= 1 - vol
	case Ceiling:
		v *= 1 + vol
	}

	if f, ok := statusFactor[strings.ToUpper(p.Status)]; ok {
		v *= f
	}

	v *= 1 + sentimentWeight*math.Max(-1, math.Min(1, p.Sentiment))

	return math.Round(v*100) / 100
}

var flexLetters = map[string]string{
	"Q": "QB",
	"W": "WR",
	"R": "RB",
	"T": "TE",
	"K": "K",
	"D": "DEF",
}

func isFlex(slot string) bool {
	return strings.Contains(slot, "/")
}

// slotPositions returns the player positions that may fill slot.
func slotPositions(slot string) []string {
	if !isFlex(slot) {
		return []string{normalizePosition(slot)}
	}

	var out []string
	for _, part := range strings.Split(slot, "/") {
		if pos, ok := flexLetters[strings.ToUpper(part)]; ok {
			out = append(out, pos)
		} else {
			out = append(out, normalizePosition(part))
		}
	}
	return out
}

func normalizePosition(p string) string {
	p = strings.ToUpper(strings.TrimSpace(p))
	switch p {
	case "D", "DST", "D/ST":
		return "DEF"
	}
	return p
}

func playsAny(p Player, positions []string) bool {
	for _, have := range p.Positions {
		have = normalizePosition(have)
		for _, want := range positions {
			if have == want {
				return true
			}
		}
	}
	return false
}
