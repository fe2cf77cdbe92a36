package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamExists       = errors.New("a team with this name already exists")
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplateInUse    = errors.New("template is referenced by existing games")
	ErrDuplicateRound   = errors.New("duplicate round number in template")
	ErrGameNotFound     = errors.New("game not found")
)

// DuplicateLabelError rejects a participant set that reuses a table label
// within one game.
type DuplicateLabelError struct {
	Label string
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("table label %q is already taken in this game", e.Label)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
