package scoring

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrRoundNumber    = errors.New("round_number must be a positive integer")
	ErrScoreNotFinite = errors.New("score must be a finite number")
	ErrScorePrecision = errors.New("score must have at most one decimal place")
	ErrNotParticipant = errors.New("team is not a participant of the game")
	ErrGameNotFound   = errors.New("game not found")
)

// MaxExceededError rejects a score above the round's template maximum. The
// limit is carried so the UI can show the exact bound.
type MaxExceededError struct {
	Max float64
}

func (e *MaxExceededError) Error() string {
	return fmt.Sprintf("round maximum exceeded (%s); adjust the value and retry", FormatScore(e.Max))
}

// FormatScore renders a score without trailing zeros (10 rather than 10.0,
// but 7.5 stays 7.5).
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
