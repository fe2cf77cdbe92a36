// Package stats computes read-only aggregations over all games and round
// scores: the global ranking, team profile analytics, rank thresholds,
// trends and percentile benchmarks.
//
// The engine recomputes everything from a snapshot on each request. That is
// acceptable at quiz-league scale and keeps the math trivially correct; the
// Source interface leaves room for a caching layer without touching call
// sites.
package stats

import (
	"errors"
	"math"
	"sort"
	"time"

	"quiz-night/internal/ranking"
)

// ErrTeamNotFound is returned by TeamProfile for an unknown team.
var ErrTeamNotFound = errors.New("team not found")

const eps = 1e-9

// Snapshot is the full persisted state the engine aggregates over.
type Snapshot struct {
	Teams          []Team
	Games          []Game
	TemplateRounds []TemplateRound
	Participants   []Participant
	Scores         []Score
}

// Team and Game appear verbatim in profile and last-game responses.
type Team struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	LogoPath  string    `json:"logo_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Game struct {
	ID         uint       `json:"id"`
	Name       string     `json:"name"`
	TemplateID uint       `json:"template_id"`
	Status     string     `json:"status"`
	EventDate  *time.Time `json:"event_date"`
	CreatedAt  time.Time  `json:"created_at"`
}

type TemplateRound struct {
	TemplateID  uint
	RoundNumber int
}

type Participant struct {
	GameID     uint
	TeamID     uint
	TableLabel string
}

type Score struct {
	GameID      uint
	TeamID      uint
	RoundNumber int
	Value       float64
}

// Source loads the snapshot the engine works from.
type Source interface {
	Snapshot() (*Snapshot, error)
}

// Engine is the aggregation entry point. It never mutates the store.
type Engine struct {
	source Source
}

func New(source Source) *Engine {
	return &Engine{source: source}
}

// gameResult is one game's scores and authoritative standings.
type gameResult struct {
	game      Game
	rounds    []int
	scores    map[uint]map[int]float64
	standings []ranking.Standing
}

// buildResults computes per-game standings for every game, most recent
// first. Games without any scores yield empty standings.
func buildResults(snap *Snapshot) []gameResult {
	roundsByTemplate := make(map[uint][]int)
	for _, tr := range snap.TemplateRounds {
		roundsByTemplate[tr.TemplateID] = append(roundsByTemplate[tr.TemplateID], tr.RoundNumber)
	}
	for _, rounds := range roundsByTemplate {
		sort.Ints(rounds)
	}

	scoresByGame := make(map[uint][]Score)
	for _, sc := range snap.Scores {
		scoresByGame[sc.GameID] = append(scoresByGame[sc.GameID], sc)
	}

	games := make([]Game, len(snap.Games))
	copy(games, snap.Games)
	sort.Slice(games, func(i, j int) bool {
		if !games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].CreatedAt.After(games[j].CreatedAt)
		}
		return games[i].ID > games[j].ID
	})

	results := make([]gameResult, 0, len(games))
	for _, g := range games {
		byTeam := make(map[uint]map[int]float64)
		for _, sc := range scoresByGame[g.ID] {
			if byTeam[sc.TeamID] == nil {
				byTeam[sc.TeamID] = make(map[int]float64)
			}
			byTeam[sc.TeamID][sc.RoundNumber] = sc.Value
		}
		rounds := roundsByTemplate[g.TemplateID]
		teams := make([]ranking.TeamScores, 0, len(byTeam))
		for teamID, scores := range byTeam {
			teams = append(teams, ranking.TeamScores{TeamID: teamID, Scores: scores})
		}
		results = append(results, gameResult{
			game:      g,
			rounds:    rounds,
			scores:    byTeam,
			standings: ranking.Compute(rounds, teams),
		})
	}
	return results
}

func teamNames(snap *Snapshot) map[uint]Team {
	byID := make(map[uint]Team, len(snap.Teams))
	for _, t := range snap.Teams {
		byID[t.ID] = t
	}
	return byID
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// percentile returns the inclusive fraction of values <= v, in [0, 1].
func percentile(values []float64, v float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, x := range values {
		if x <= v+eps {
			count++
		}
	}
	return float64(count) / float64(len(values))
}
