package stats

import "sort"

// Sort keys accepted by GlobalRanking.
const (
	SortGames       = "games"
	SortAvgPlace    = "avg_place"
	SortTotalPoints = "total_points"
	SortAvgPoints   = "avg_points"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	leadersLimit     = 10
)

// RankingQuery selects the sort key, direction and page of the global
// ranking. Zero values fall back to sensible defaults.
type RankingQuery struct {
	Sort  string
	Order string // "asc" or "desc"; empty picks the key's natural order
	Page  int
	Limit int
}

// RankingEntry is one team's row in the global ranking.
type RankingEntry struct {
	TeamID      uint    `json:"team_id"`
	TeamName    string  `json:"team_name"`
	Games       int     `json:"games"`
	TotalPoints float64 `json:"total_points"`
	AvgPoints   float64 `json:"avg_points"`
	AvgPlace    float64 `json:"avg_place"`
	First       int     `json:"first_places"`
	Second      int     `json:"second_places"`
	Third       int     `json:"third_places"`
}

// RankingPage is a sorted, paginated slice of the global ranking.
type RankingPage struct {
	Entries []RankingEntry `json:"entries"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
	Pages   int            `json:"pages"`
}

// GlobalRanking aggregates every team's results across all games and
// returns the requested page.
func (e *Engine) GlobalRanking(q RankingQuery) (*RankingPage, error) {
	snap, err := e.source.Snapshot()
	if err != nil {
		return nil, err
	}
	entries := buildGlobalEntries(snap, buildResults(snap))
	sortEntries(entries, q.Sort, q.Order)

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	total := len(entries)
	pages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return &RankingPage{
		Entries: entries[start:end],
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages,
	}, nil
}

func buildGlobalEntries(snap *Snapshot, results []gameResult) []RankingEntry {
	teams := teamNames(snap)
	type agg struct {
		games    int
		total    float64
		placeSum int
		first    int
		second   int
		third    int
	}
	byTeam := make(map[uint]*agg)
	for _, res := range results {
		for _, row := range res.standings {
			a := byTeam[row.TeamID]
			if a == nil {
				a = &agg{}
				byTeam[row.TeamID] = a
			}
			a.games++
			a.total += row.Total
			a.placeSum += row.Rank
			switch row.Rank {
			case 1:
				a.first++
			case 2:
				a.second++
			case 3:
				a.third++
			}
		}
	}

	entries := make([]RankingEntry, 0, len(byTeam))
	for teamID, a := range byTeam {
		entry := RankingEntry{
			TeamID:      teamID,
			TeamName:    teams[teamID].Name,
			Games:       a.games,
			TotalPoints: round2(a.total),
			First:       a.first,
			Second:      a.second,
			Third:       a.third,
		}
		if a.games > 0 {
			entry.AvgPoints = round2(a.total / float64(a.games))
			entry.AvgPlace = round2(float64(a.placeSum) / float64(a.games))
		}
		entries = append(entries, entry)
	}
	return entries
}

func sortEntries(entries []RankingEntry, key, order string) {
	type keyFunc func(RankingEntry) float64
	var primary keyFunc
	ascending := false
	switch key {
	case SortGames:
		primary = func(e RankingEntry) float64 { return float64(e.Games) }
	case SortAvgPlace:
		primary = func(e RankingEntry) float64 { return e.AvgPlace }
		ascending = true // lower place is better
	case SortAvgPoints:
		primary = func(e RankingEntry) float64 { return e.AvgPoints }
	default:
		primary = func(e RankingEntry) float64 { return e.TotalPoints }
	}
	switch order {
	case "asc":
		ascending = true
	case "desc":
		ascending = false
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := primary(entries[i]), primary(entries[j])
		if a != b {
			if ascending {
				return a < b
			}
			return a > b
		}
		if entries[i].AvgPoints != entries[j].AvgPoints {
			return entries[i].AvgPoints > entries[j].AvgPoints
		}
		if entries[i].Games != entries[j].Games {
			return entries[i].Games > entries[j].Games
		}
		return entries[i].TeamID < entries[j].TeamID
	})
}
