package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"quiz-night/internal/db"
	"quiz-night/internal/scoring"
	"quiz-night/internal/stats"
)

func readJSON(body io.Reader, dest any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeStoreError maps the known error taxonomy onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	var maxErr *scoring.MaxExceededError
	var labelErr *db.DuplicateLabelError
	switch {
	case errors.Is(err, db.ErrTeamNotFound),
		errors.Is(err, db.ErrTemplateNotFound),
		errors.Is(err, db.ErrGameNotFound),
		errors.Is(err, scoring.ErrGameNotFound),
		errors.Is(err, stats.ErrTeamNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, db.ErrTeamExists),
		errors.Is(err, db.ErrTemplateInUse),
		errors.Is(err, db.ErrDuplicateRound):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, scoring.ErrRoundNumber),
		errors.Is(err, scoring.ErrScoreNotFinite),
		errors.Is(err, scoring.ErrScorePrecision):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, scoring.ErrNotParticipant):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &maxErr):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &labelErr):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func parseID(raw string) (uint, bool) {
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}
