package stats

// Rank is one tier of the fixed ladder teams climb with cumulative points.
type Rank struct {
	Title       string  `json:"title"`
	MinPoints   float64 `json:"min_points"`
	Description string  `json:"description"`
}

// Ladder is the ascending rank ladder. The lowest tier starts at zero so
// every team holds a rank.
var Ladder = []Rank{
	{Title: "Rookie", MinPoints: 0, Description: "Every team starts here"},
	{Title: "Contender", MinPoints: 100, Description: "100 cumulative points"},
	{Title: "Veteran", MinPoints: 250, Description: "250 cumulative points"},
	{Title: "Elite", MinPoints: 500, Description: "500 cumulative points"},
	{Title: "Champion", MinPoints: 1000, Description: "1000 cumulative points"},
	{Title: "Legend", MinPoints: 2000, Description: "2000 cumulative points"},
}

// RankStanding places a point total on the ladder.
type RankStanding struct {
	TotalPoints     float64 `json:"total_points"`
	Current         *Rank   `json:"current"`
	Next            *Rank   `json:"next,omitempty"`
	ProgressPercent float64 `json:"progress_percent"`
	Ladder          []Rank  `json:"ladder"`
}

// RankFor returns the highest rank whose threshold the points reach, the
// next tier, and the progress toward it as a percentage clamped to [0,100].
func RankFor(points float64) RankStanding {
	standing := RankStanding{TotalPoints: points, Ladder: Ladder}
	for i := range Ladder {
		if points+eps >= Ladder[i].MinPoints {
			standing.Current = &Ladder[i]
			if i+1 < len(Ladder) {
				standing.Next = &Ladder[i+1]
			} else {
				standing.Next = nil
			}
		}
	}
	if standing.Current == nil {
		// Negative totals sit below the ladder entirely.
		standing.Next = &Ladder[0]
	}

	switch {
	case standing.Current != nil && standing.Next == nil:
		standing.ProgressPercent = 100
	case standing.Current == nil:
		if standing.Next.MinPoints > 0 {
			standing.ProgressPercent = clampPercent(points / standing.Next.MinPoints * 100)
		}
	default:
		span := standing.Next.MinPoints - standing.Current.MinPoints
		standing.ProgressPercent = clampPercent((points - standing.Current.MinPoints) / span * 100)
	}
	standing.ProgressPercent = round2(standing.ProgressPercent)
	return standing
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
