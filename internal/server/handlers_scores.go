package server

import (
	"net/http"

	"quiz-night/internal/scoring"
)

type scoreEntry struct {
	TeamID      uint    `json:"team_id"`
	RoundNumber int     `json:"round_number"`
	Score       float64 `json:"score"`
}

// submitScoresRequest accepts either a single entry in the top-level fields
// or a batch under entries. A batch coalesces into one broadcast.
type submitScoresRequest struct {
	TeamID      uint         `json:"team_id,omitempty"`
	RoundNumber int          `json:"round_number,omitempty"`
	Score       *float64     `json:"score,omitempty"`
	Entries     []scoreEntry `json:"entries,omitempty"`
}

type submitScoresResponse struct {
	Scores []scoring.Row `json:"scores"`
}

func (s *Server) handleSubmitScores(w http.ResponseWriter, r *http.Request) {
	gameID, ok := parseID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	var req submitScoresRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entries := req.Entries
	if len(entries) == 0 {
		if req.Score == nil {
			writeError(w, http.StatusBadRequest, "score is required")
			return
		}
		entries = []scoreEntry{{TeamID: req.TeamID, RoundNumber: req.RoundNumber, Score: *req.Score}}
	}

	stored := make([]scoring.Row, 0, len(entries))
	for _, entry := range entries {
		row, err := s.scores.Submit(gameID, entry.TeamID, entry.RoundNumber, entry.Score)
		if err != nil {
			// Entries before the failing one are already committed;
			// push them so live boards stay consistent.
			if len(stored) > 0 {
				s.broadcastScores(gameID)
			}
			writeStoreError(w, err)
			return
		}
		stored = append(stored, row)
	}

	s.log.Info("scores submitted", "game_id", gameID, "count", len(stored))
	s.broadcastScores(gameID)
	writeJSON(w, http.StatusOK, submitScoresResponse{Scores: stored})
}

// handleListScores returns a game's scores ordered by round, then team.
func (s *Server) handleListScores(w http.ResponseWriter, r *http.Request) {
	gameID, ok := parseID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	if _, err := s.store.GetGame(gameID); err != nil {
		writeStoreError(w, err)
		return
	}
	rows, err := s.store.ScoresForGame(gameID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submitScoresResponse{Scores: rows})
}
