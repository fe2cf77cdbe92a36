package stats

import (
	"sort"
	"time"
)

const formWindow = 5

// TimelinePoint is one game on a team's chronological timeline.
type TimelinePoint struct {
	GameID uint       `json:"game_id"`
	Date   *time.Time `json:"date"`
	Total  float64    `json:"total"`
	Place  int        `json:"place"`
}

// MonthlyAggregate summarizes one calendar month of a team's games.
type MonthlyAggregate struct {
	Month       string  `json:"month"`
	AvgTotal    float64 `json:"avg_total"`
	MedianPlace float64 `json:"median_place"`
	Games       int     `json:"games"`
}

// Trends is the chronological view of a team's results. FormDelta compares
// the average total of the most recent five games against the preceding
// five.
type Trends struct {
	Timeline  []TimelinePoint    `json:"timeline"`
	Monthly   []MonthlyAggregate `json:"monthly"`
	FormDelta float64            `json:"trend_score_delta"`
}

// playedGame is one game a team appeared in, with its effective date
// (event date, falling back to creation time).
type playedGame struct {
	gameID uint
	when   time.Time
	dated  bool // true when an explicit event date was set
	total  float64
	place  int
}

func buildTrends(played []playedGame) Trends {
	ordered := make([]playedGame, len(played))
	copy(ordered, played)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].when.Equal(ordered[j].when) {
			return ordered[i].when.Before(ordered[j].when)
		}
		return ordered[i].gameID < ordered[j].gameID
	})

	trends := Trends{Timeline: make([]TimelinePoint, 0, len(ordered))}
	type monthAgg struct {
		totalSum float64
		places   []int
		games    int
	}
	months := make(map[string]*monthAgg)
	for _, p := range ordered {
		point := TimelinePoint{GameID: p.gameID, Total: p.total, Place: p.place}
		if p.dated {
			when := p.when
			point.Date = &when
		}
		trends.Timeline = append(trends.Timeline, point)

		key := p.when.Format("2006-01")
		m := months[key]
		if m == nil {
			m = &monthAgg{}
			months[key] = m
		}
		m.totalSum += p.total
		m.places = append(m.places, p.place)
		m.games++
	}

	keys := make([]string, 0, len(months))
	for key := range months {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		m := months[key]
		trends.Monthly = append(trends.Monthly, MonthlyAggregate{
			Month:       key,
			AvgTotal:    round2(m.totalSum / float64(m.games)),
			MedianPlace: medianPlace(m.places),
			Games:       m.games,
		})
	}

	trends.FormDelta = formDelta(ordered)
	return trends
}

func medianPlace(places []int) float64 {
	if len(places) == 0 {
		return 0
	}
	sorted := make([]int, len(places))
	copy(sorted, places)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

func formDelta(ordered []playedGame) float64 {
	if len(ordered) < 2 {
		return 0
	}
	recentStart := len(ordered) - formWindow
	if recentStart < 0 {
		recentStart = 0
	}
	recent := ordered[recentStart:]
	prevStart := recentStart - formWindow
	if prevStart < 0 {
		prevStart = 0
	}
	previous := ordered[prevStart:recentStart]
	if len(previous) == 0 {
		return 0
	}
	return round2(meanTotal(recent) - meanTotal(previous))
}

func meanTotal(games []playedGame) float64 {
	sum := 0.0
	for _, g := range games {
		sum += g.total
	}
	return sum / float64(len(games))
}
