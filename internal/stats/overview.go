package stats

import "sort"

// Overview is the public landing-page aggregate: league size plus top-ten
// leaderboards.
type Overview struct {
	TotalGames    int            `json:"total_games"`
	TotalPoints   float64        `json:"total_points"`
	LeadersWins   []LeaderWins   `json:"leaders_wins"`
	LeadersAvg    []LeaderAvg    `json:"leaders_avg"`
	LeadersPlaces []LeaderPlaces `json:"leaders_places"`
}

type LeaderWins struct {
	TeamID   uint   `json:"team_id"`
	TeamName string `json:"team_name"`
	Wins     int    `json:"wins"`
}

type LeaderAvg struct {
	TeamID   uint    `json:"team_id"`
	TeamName string  `json:"team_name"`
	AvgTotal float64 `json:"avg_total"`
	Games    int     `json:"games"`
}

type LeaderPlaces struct {
	TeamID   uint   `json:"team_id"`
	TeamName string `json:"team_name"`
	First    int    `json:"first_places"`
	Second   int    `json:"second_places"`
	Third    int    `json:"third_places"`
}

// LastGame is the most recently created game with its totals per team.
type LastGame struct {
	Game   Game             `json:"game"`
	Totals map[uint]float64 `json:"totals_by_team"`
}

// Overview recomputes the public statistics across all games.
func (e *Engine) Overview() (*Overview, error) {
	snap, err := e.source.Snapshot()
	if err != nil {
		return nil, err
	}
	entries := buildGlobalEntries(snap, buildResults(snap))

	overview := &Overview{TotalGames: len(snap.Games)}
	for _, sc := range snap.Scores {
		overview.TotalPoints += sc.Value
	}
	overview.TotalPoints = round2(overview.TotalPoints)

	wins := make([]LeaderWins, 0, len(entries))
	avgs := make([]LeaderAvg, 0, len(entries))
	places := make([]LeaderPlaces, 0, len(entries))
	for _, entry := range entries {
		if entry.First > 0 {
			wins = append(wins, LeaderWins{TeamID: entry.TeamID, TeamName: entry.TeamName, Wins: entry.First})
		}
		avgs = append(avgs, LeaderAvg{TeamID: entry.TeamID, TeamName: entry.TeamName, AvgTotal: entry.AvgPoints, Games: entry.Games})
		places = append(places, LeaderPlaces{TeamID: entry.TeamID, TeamName: entry.TeamName, First: entry.First, Second: entry.Second, Third: entry.Third})
	}
	sort.Slice(wins, func(i, j int) bool {
		if wins[i].Wins != wins[j].Wins {
			return wins[i].Wins > wins[j].Wins
		}
		return wins[i].TeamID < wins[j].TeamID
	})
	sort.Slice(avgs, func(i, j int) bool {
		if avgs[i].AvgTotal != avgs[j].AvgTotal {
			return avgs[i].AvgTotal > avgs[j].AvgTotal
		}
		return avgs[i].TeamID < avgs[j].TeamID
	})
	sort.Slice(places, func(i, j int) bool {
		if places[i].First != places[j].First {
			return places[i].First > places[j].First
		}
		if places[i].Second != places[j].Second {
			return places[i].Second > places[j].Second
		}
		if places[i].Third != places[j].Third {
			return places[i].Third > places[j].Third
		}
		return places[i].TeamID < places[j].TeamID
	})

	overview.LeadersWins = truncate(wins)
	overview.LeadersAvg = truncate(avgs)
	overview.LeadersPlaces = truncate(places)
	return overview, nil
}

// LastGame returns the most recent game with totals by team, or nil when
// no games exist yet.
func (e *Engine) LastGame() (*LastGame, error) {
	snap, err := e.source.Snapshot()
	if err != nil {
		return nil, err
	}
	results := buildResults(snap)
	if len(results) == 0 {
		return nil, nil
	}
	latest := results[0]
	totals := make(map[uint]float64, len(latest.standings))
	for _, row := range latest.standings {
		totals[row.TeamID] = round2(row.Total)
	}
	return &LastGame{Game: latest.game, Totals: totals}, nil
}

func truncate[T any](v []T) []T {
	if len(v) > leadersLimit {
		return v[:leadersLimit]
	}
	return v
}
