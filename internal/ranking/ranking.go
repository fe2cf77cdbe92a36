// Package ranking turns per-round scores into an ordered standing with
// deterministic tie-breaking.
package ranking

import "sort"

// Epsilon guards float comparisons of one-decimal scores.
const Epsilon = 1e-9

// TeamScores is one team's scores keyed by round number. Rounds with no
// entry count as zero.
type TeamScores struct {
	TeamID uint
	Scores map[int]float64
}

// Standing is one row of a computed ranking. Key holds the team's per-round
// scores in ascending round order and doubles as the tie-break vector.
type Standing struct {
	TeamID uint
	Total  float64
	Key    []float64
	Rank   int
}

// Compute orders teams by total descending. Ties on total are broken by
// comparing round scores from the last round backward: the team with the
// higher score in the most recent round where they differ ranks first.
// Exactly tied teams share a rank; the next distinct team takes its list
// position plus one.
func Compute(rounds []int, teams []TeamScores) []Standing {
	standings := make([]Standing, 0, len(teams))
	for _, t := range teams {
		key := make([]float64, len(rounds))
		total := 0.0
		for i, rn := range rounds {
			v := t.Scores[rn]
			key[i] = v
			total += v
		}
		standings = append(standings, Standing{TeamID: t.TeamID, Total: total, Key: key})
	}

	// Pre-sort by team id so fully tied teams come out in a stable order
	// regardless of input order.
	sort.Slice(standings, func(i, j int) bool {
		return standings[i].TeamID < standings[j].TeamID
	})
	sort.SliceStable(standings, func(i, j int) bool {
		return compare(standings[i], standings[j]) < 0
	})

	for i := range standings {
		if i > 0 && compare(standings[i-1], standings[i]) == 0 {
			standings[i].Rank = standings[i-1].Rank
		} else {
			standings[i].Rank = i + 1
		}
	}
	return standings
}

// compare returns -1 if a ranks above b, 1 if below, 0 on an exact tie.
func compare(a, b Standing) int {
	if a.Total-b.Total > Epsilon {
		return -1
	}
	if b.Total-a.Total > Epsilon {
		return 1
	}
	for i := len(a.Key) - 1; i >= 0; i-- {
		d := a.Key[i] - b.Key[i]
		if d > Epsilon {
			return -1
		}
		if d < -Epsilon {
			return 1
		}
	}
	return 0
}

// Place returns the rank of teamID within standings, or 0 if absent.
func Place(standings []Standing, teamID uint) int {
	for _, s := range standings {
		if s.TeamID == teamID {
			return s.Rank
		}
	}
	return 0
}

// Find returns the standing row for teamID, or nil if absent.
func Find(standings []Standing, teamID uint) *Standing {
	for i := range standings {
		if standings[i].TeamID == teamID {
			return &standings[i]
		}
	}
	return nil
}
