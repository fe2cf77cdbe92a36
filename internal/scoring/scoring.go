// Package scoring validates and persists round score submissions.
//
// The contract mirrors the live entry form: scores are normalized to one
// decimal place before anything else looks at them, a template round may cap
// the value, and only participants of the game may receive a score.
package scoring

import "math"

const eps = 1e-9

// Row is a stored round score as returned by the score store.
type Row struct {
	GameID      uint    `json:"game_id"`
	TeamID      uint    `json:"team_id"`
	RoundNumber int     `json:"round_number"`
	Score       float64 `json:"score"`
}

// Store is the persistence surface the submission path needs.
type Store interface {
	// IsParticipant reports whether the team belongs to the game.
	IsParticipant(gameID, teamID uint) (bool, error)
	// RoundMax returns the template's per-round maximum (nil = unbounded)
	// and whether the game exists at all.
	RoundMax(gameID uint, roundNumber int) (max *float64, gameExists bool, err error)
	// UpsertScore writes the (game, team, round) row, overwriting any
	// previous value, and returns the stored row.
	UpsertScore(gameID, teamID uint, roundNumber int, score float64) (Row, error)
}

// Service is the round validation and upsert gate. All score mutation goes
// through Submit.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Normalize rounds a raw score to one decimal place, half up on value*10.
// It is idempotent: Normalize(Normalize(v)) == Normalize(v).
func Normalize(raw float64) float64 {
	return math.Floor(raw*10+0.5) / 10
}

// Submit validates raw against the game's template and participants, then
// upserts the score. It never writes on a validation failure. Broadcasting
// the updated score set is the caller's responsibility, so that batched
// submissions can coalesce into one broadcast.
func (s *Service) Submit(gameID, teamID uint, roundNumber int, raw float64) (Row, error) {
	if roundNumber <= 0 {
		return Row{}, ErrRoundNumber
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return Row{}, ErrScoreNotFinite
	}
	score := Normalize(raw)
	// Guard against values that still disagree beyond one decimal digit
	// after normalization (floating point quirks like 1.23).
	times10 := score * 10
	if math.Abs(times10-math.Round(times10)) > eps {
		return Row{}, ErrScorePrecision
	}

	ok, err := s.store.IsParticipant(gameID, teamID)
	if err != nil {
		return Row{}, err
	}
	if !ok {
		return Row{}, ErrNotParticipant
	}

	max, gameExists, err := s.store.RoundMax(gameID, roundNumber)
	if err != nil {
		return Row{}, err
	}
	if !gameExists {
		return Row{}, ErrGameNotFound
	}
	if max != nil && score-*max > eps {
		return Row{}, &MaxExceededError{Max: *max}
	}

	return s.store.UpsertScore(gameID, teamID, roundNumber, score)
}
