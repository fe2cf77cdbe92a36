package stats

import (
	"fmt"
	"sort"
	"time"

	"quiz-night/internal/ranking"
)

const recentGamesLimit = 10

// Profile is the full aggregation bundle for one team's public page.
type Profile struct {
	Team        Team           `json:"team"`
	GamesPlayed int            `json:"games_played"`
	TotalPoints float64        `json:"total_points"`
	AvgPoints   float64        `json:"avg_points"`
	Placements  Placements     `json:"placements"`
	RecentGames []RecentGame   `json:"recent_games"`
	RoundAvgs   []RoundAverage `json:"round_averages"`
	RoundPlaces []RoundPlace   `json:"round_places"`
	HeadToHead  []HeadToHead   `json:"h2h"`
	TableStats  []TableStat    `json:"table_stats"`
	Streaks     Streaks        `json:"streaks"`
	Badges      []Badge        `json:"badges"`
	Ranking     RankStanding   `json:"ranking"`
	Trends      Trends         `json:"trends"`
	Benchmarks  Benchmarks     `json:"benchmarks"`
}

type Placements struct {
	First  int `json:"first"`
	Second int `json:"second"`
	Third  int `json:"third"`
}

type RecentGame struct {
	GameID    uint       `json:"game_id"`
	GameName  string     `json:"game_name"`
	Total     float64    `json:"total"`
	Place     int        `json:"place"`
	EventDate *time.Time `json:"event_date"`
}

// RoundAverage is a team's mean score in one round number across games.
type RoundAverage struct {
	RoundNumber int     `json:"round_number"`
	AvgScore    float64 `json:"avg_score"`
}

// RoundPlace is a team's mean placement when each game's ranking is
// restricted to a single round.
type RoundPlace struct {
	RoundNumber int     `json:"round_number"`
	AvgPlace    float64 `json:"avg_place"`
}

type HeadToHead struct {
	OpponentID   uint   `json:"opponent_id"`
	OpponentName string `json:"opponent_name"`
	Games        int    `json:"games"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	Draws        int    `json:"draws"`
}

type TableStat struct {
	TableLabel string  `json:"table_number"`
	Games      int     `json:"games"`
	AvgPlace   float64 `json:"avg_place"`
}

// Streaks counts consecutive wins and podiums over the most recent games.
type Streaks struct {
	Wins    int `json:"wins"`
	Podiums int `json:"podiums"`
}

type Badge struct {
	Label string `json:"label"`
	Tone  string `json:"tone"` // elite, achievement, streak, veteran
}

// Benchmarks are inclusive percentile ranks against all ranked teams.
type Benchmarks struct {
	AvgPointsPct   float64 `json:"avg_points_pct"`
	TotalPointsPct float64 `json:"total_points_pct"`
	GamesPct       float64 `json:"games_pct"`
}

// TeamProfile aggregates one team's full history. A team with no games yet
// produces an empty but valid profile.
func (e *Engine) TeamProfile(teamID uint) (*Profile, error) {
	snap, err := e.source.Snapshot()
	if err != nil {
		return nil, err
	}
	team, ok := teamNames(snap)[teamID]
	if !ok {
		return nil, ErrTeamNotFound
	}

	results := buildResults(snap)
	labels := tableLabels(snap, teamID)
	teams := teamNames(snap)

	profile := &Profile{Team: team, RecentGames: []RecentGame{}}
	roundScoreSums := make(map[int]float64)
	roundScoreCounts := make(map[int]int)
	roundPlaceSums := make(map[int]int)
	roundPlaceCounts := make(map[int]int)
	h2h := make(map[uint]*HeadToHead)
	tables := make(map[string]*TableStat)
	tablePlaceSums := make(map[string]int)
	var played []playedGame

	for _, res := range results {
		me := ranking.Find(res.standings, teamID)
		if me == nil {
			continue
		}
		place := me.Rank
		profile.GamesPlayed++
		profile.TotalPoints += me.Total
		switch place {
		case 1:
			profile.Placements.First++
		case 2:
			profile.Placements.Second++
		case 3:
			profile.Placements.Third++
		}
		if len(profile.RecentGames) < recentGamesLimit {
			profile.RecentGames = append(profile.RecentGames, RecentGame{
				GameID:    res.game.ID,
				GameName:  res.game.Name,
				Total:     round2(me.Total),
				Place:     place,
				EventDate: res.game.EventDate,
			})
		}

		when := res.game.CreatedAt
		dated := false
		if res.game.EventDate != nil {
			when = *res.game.EventDate
			dated = true
		}
		played = append(played, playedGame{
			gameID: res.game.ID,
			when:   when,
			dated:  dated,
			total:  round2(me.Total),
			place:  place,
		})

		collectRoundStats(res, teamID, roundScoreSums, roundScoreCounts, roundPlaceSums, roundPlaceCounts)

		for _, row := range res.standings {
			if row.TeamID == teamID {
				continue
			}
			rec := h2h[row.TeamID]
			if rec == nil {
				rec = &HeadToHead{OpponentID: row.TeamID, OpponentName: teams[row.TeamID].Name}
				h2h[row.TeamID] = rec
			}
			rec.Games++
			switch {
			case place < row.Rank:
				rec.Wins++
			case place > row.Rank:
				rec.Losses++
			default:
				rec.Draws++
			}
		}

		if label := labels[res.game.ID]; label != "" {
			stat := tables[label]
			if stat == nil {
				stat = &TableStat{TableLabel: label}
				tables[label] = stat
			}
			stat.Games++
			tablePlaceSums[label] += place
		}
	}

	if profile.GamesPlayed > 0 {
		profile.TotalPoints = round2(profile.TotalPoints)
		profile.AvgPoints = round2(profile.TotalPoints / float64(profile.GamesPlayed))
	}
	profile.RoundAvgs = roundAverages(roundScoreSums, roundScoreCounts)
	profile.RoundPlaces = roundPlaces(roundPlaceSums, roundPlaceCounts)
	profile.HeadToHead = sortedHeadToHead(h2h)
	profile.TableStats = sortedTableStats(tables, tablePlaceSums)
	profile.Streaks = streaks(profile.RecentGames)
	profile.Ranking = RankFor(profile.TotalPoints)
	profile.Trends = buildTrends(played)

	entries := buildGlobalEntries(snap, results)
	profile.Benchmarks = benchmarks(entries, profile)
	profile.Badges = badges(profile)
	return profile, nil
}

// collectRoundStats accumulates per-round averages and per-round placement
// by re-ranking each round in isolation.
func collectRoundStats(res gameResult, teamID uint, scoreSums map[int]float64, scoreCounts, placeSums, placeCounts map[int]int) {
	for _, rn := range res.rounds {
		scored := false
		teams := make([]ranking.TeamScores, 0, len(res.scores))
		for id, scores := range res.scores {
			if _, ok := scores[rn]; ok {
				scored = true
			}
			teams = append(teams, ranking.TeamScores{TeamID: id, Scores: scores})
		}
		if !scored {
			continue
		}
		scoreSums[rn] += res.scores[teamID][rn]
		scoreCounts[rn]++

		single := ranking.Compute([]int{rn}, teams)
		if place := ranking.Place(single, teamID); place > 0 {
			placeSums[rn] += place
			placeCounts[rn]++
		}
	}
}

func roundAverages(sums map[int]float64, counts map[int]int) []RoundAverage {
	out := make([]RoundAverage, 0, len(counts))
	for rn, n := range counts {
		out = append(out, RoundAverage{RoundNumber: rn, AvgScore: round2(sums[rn] / float64(n))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoundNumber < out[j].RoundNumber })
	return out
}

func roundPlaces(sums, counts map[int]int) []RoundPlace {
	out := make([]RoundPlace, 0, len(counts))
	for rn, n := range counts {
		out = append(out, RoundPlace{RoundNumber: rn, AvgPlace: round2(float64(sums[rn]) / float64(n))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoundNumber < out[j].RoundNumber })
	return out
}

func sortedHeadToHead(h2h map[uint]*HeadToHead) []HeadToHead {
	out := make([]HeadToHead, 0, len(h2h))
	for _, rec := range h2h {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Games != out[j].Games {
			return out[i].Games > out[j].Games
		}
		return out[i].OpponentID < out[j].OpponentID
	})
	return out
}

func sortedTableStats(tables map[string]*TableStat, placeSums map[string]int) []TableStat {
	out := make([]TableStat, 0, len(tables))
	for label, stat := range tables {
		stat.AvgPlace = round2(float64(placeSums[label]) / float64(stat.Games))
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgPlace != out[j].AvgPlace {
			return out[i].AvgPlace < out[j].AvgPlace
		}
		return out[i].TableLabel < out[j].TableLabel
	})
	return out
}

// streaks counts consecutive wins and podiums starting from the most
// recent game.
func streaks(recent []RecentGame) Streaks {
	var s Streaks
	for _, g := range recent {
		if g.Place != 1 {
			break
		}
		s.Wins++
	}
	for _, g := range recent {
		if g.Place < 1 || g.Place > 3 {
			break
		}
		s.Podiums++
	}
	return s
}

func benchmarks(entries []RankingEntry, profile *Profile) Benchmarks {
	avgPoints := make([]float64, 0, len(entries))
	totalPoints := make([]float64, 0, len(entries))
	games := make([]float64, 0, len(entries))
	for _, e := range entries {
		avgPoints = append(avgPoints, e.AvgPoints)
		totalPoints = append(totalPoints, e.TotalPoints)
		games = append(games, float64(e.Games))
	}
	return Benchmarks{
		AvgPointsPct:   percentile(avgPoints, profile.AvgPoints),
		TotalPointsPct: percentile(totalPoints, profile.TotalPoints),
		GamesPct:       percentile(games, float64(profile.GamesPlayed)),
	}
}

func badges(profile *Profile) []Badge {
	var out []Badge
	if profile.Benchmarks.AvgPointsPct >= 0.9 && profile.GamesPlayed > 0 {
		out = append(out, Badge{Label: "Top 10% by average total", Tone: "elite"})
	}
	if profile.Benchmarks.TotalPointsPct >= 0.9 && profile.GamesPlayed > 0 {
		out = append(out, Badge{Label: "Top 10% by total points", Tone: "elite"})
	}
	if profile.Placements.First >= 1 {
		out = append(out, Badge{Label: "First win", Tone: "achievement"})
	}
	if profile.Placements.First >= 5 {
		out = append(out, Badge{Label: "5 wins", Tone: "achievement"})
	}
	if profile.Placements.First >= 10 {
		out = append(out, Badge{Label: "10 wins", Tone: "achievement"})
	}
	if profile.Streaks.Wins >= 2 {
		out = append(out, Badge{Label: fmt.Sprintf("Win streak: %d", profile.Streaks.Wins), Tone: "streak"})
	}
	if profile.Streaks.Podiums >= 3 {
		out = append(out, Badge{Label: fmt.Sprintf("Podium streak: %d", profile.Streaks.Podiums), Tone: "streak"})
	}
	if profile.GamesPlayed >= 25 {
		out = append(out, Badge{Label: "League veteran", Tone: "veteran"})
	}
	return out
}

func tableLabels(snap *Snapshot, teamID uint) map[uint]string {
	labels := make(map[uint]string)
	for _, p := range snap.Participants {
		if p.TeamID == teamID && p.TableLabel != "" {
			labels[p.GameID] = p.TableLabel
		}
	}
	return labels
}
