package server

import "quiz-night/internal/scoring"

// Broadcast message types pushed to a game's websocket group.
const (
	msgScoresUpdated     = "scores-updated"
	msgRoundChanged      = "round-changed"
	msgGameStatusChanged = "game-status-changed"
)

type scoresUpdatedMessage struct {
	Type   string        `json:"type"`
	GameID uint          `json:"game_id"`
	Scores []scoring.Row `json:"scores"`
}

type roundChangedMessage struct {
	Type        string `json:"type"`
	GameID      uint   `json:"game_id"`
	RoundNumber int    `json:"round_number"`
}

type gameStatusChangedMessage struct {
	Type   string `json:"type"`
	GameID uint   `json:"game_id"`
	Status string `json:"status"`
}

// broadcastScores pushes the game's full score list to its group and
// appends the event row. Both are best-effort after the commit.
func (s *Server) broadcastScores(gameID uint) {
	rows, err := s.store.ScoresForGame(gameID)
	if err != nil {
		s.log.Error("load scores for broadcast", "game_id", gameID, "error", err)
		return
	}
	msg := scoresUpdatedMessage{Type: msgScoresUpdated, GameID: gameID, Scores: rows}
	s.hub.Broadcast(gameID, msg)
	if err := s.store.AppendEvent(gameID, msgScoresUpdated, msg); err != nil {
		s.log.Error("append event", "game_id", gameID, "type", msgScoresUpdated, "error", err)
	}
}

func (s *Server) broadcastRound(gameID uint, roundNumber int) {
	msg := roundChangedMessage{Type: msgRoundChanged, GameID: gameID, RoundNumber: roundNumber}
	s.hub.Broadcast(gameID, msg)
	if err := s.store.AppendEvent(gameID, msgRoundChanged, msg); err != nil {
		s.log.Error("append event", "game_id", gameID, "type", msgRoundChanged, "error", err)
	}
}

func (s *Server) broadcastStatus(gameID uint, status string) {
	msg := gameStatusChangedMessage{Type: msgGameStatusChanged, GameID: gameID, Status: status}
	s.hub.Broadcast(gameID, msg)
	if err := s.store.AppendEvent(gameID, msgGameStatusChanged, msg); err != nil {
		s.log.Error("append event", "game_id", gameID, "type", msgGameStatusChanged, "error", err)
	}
}
