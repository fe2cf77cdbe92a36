package server

import (
	"net/http"

	"quiz-night/internal/stats"
)

func (s *Server) handleLastGame(w http.ResponseWriter, r *http.Request) {
	last, err := s.stats.LastGame()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if last == nil {
		writeError(w, http.StatusNotFound, "no games yet")
		return
	}
	writeJSON(w, http.StatusOK, last)
}

func (s *Server) handlePublicStats(w http.ResponseWriter, r *http.Request) {
	overview, err := s.stats.Overview()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handlePublicRanking(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r, 20, 100)
	query := stats.RankingQuery{
		Sort:  r.URL.Query().Get("sort"),
		Order: r.URL.Query().Get("order"),
		Page:  page,
		Limit: limit,
	}
	switch query.Sort {
	case "", stats.SortGames, stats.SortAvgPlace, stats.SortTotalPoints, stats.SortAvgPoints:
	default:
		writeError(w, http.StatusBadRequest, "sort must be games, avg_place, total_points or avg_points")
		return
	}
	switch query.Order {
	case "", "asc", "desc":
	default:
		writeError(w, http.StatusBadRequest, "order must be asc or desc")
		return
	}
	ranking, err := s.stats.GlobalRanking(query)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}

type publicTeamsResponse struct {
	Teams []teamResponse `json:"teams"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

func (s *Server) handlePublicTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.store.ListTeams()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	page, limit := parsePagination(r, 20, 100)
	start := (page - 1) * limit
	if start > len(teams) {
		start = len(teams)
	}
	end := start + limit
	if end > len(teams) {
		end = len(teams)
	}
	out := publicTeamsResponse{
		Teams: make([]teamResponse, 0, end-start),
		Total: len(teams),
		Page:  page,
		Limit: limit,
	}
	for _, t := range teams[start:end] {
		out.Teams = append(out.Teams, toTeamResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePublicTeamProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid team id")
		return
	}
	profile, err := s.stats.TeamProfile(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
