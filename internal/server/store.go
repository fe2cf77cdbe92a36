package server

import (
	"time"

	"quiz-night/internal/db"
	"quiz-night/internal/scoring"
	"quiz-night/internal/stats"
)

// Store is the persistence surface the handlers need. *db.Store implements
// it; tests substitute an in-memory fake.
type Store interface {
	scoring.Store
	stats.Source

	ListTeams() ([]db.Team, error)
	GetTeam(id uint) (db.Team, error)
	CreateTeam(name, logoPath string) (db.Team, error)
	UpdateTeam(id uint, name, logoPath string) (db.Team, error)
	DeleteTeam(id uint) error
	ImportTeams(names []string) (created []db.Team, skipped int, err error)

	ListTemplates() ([]db.GameTemplate, error)
	GetTemplate(id uint) (db.GameTemplate, error)
	CreateTemplate(name string, rounds []db.TemplateRound) (db.GameTemplate, error)
	DeleteTemplate(id uint) error

	ListGames() ([]db.Game, error)
	GetGame(id uint) (db.Game, error)
	CreateGame(name string, templateID uint, eventDate *time.Time, participants []db.GameParticipant) (db.Game, error)
	DeleteGame(id uint) error
	UpdateGameStatus(id uint, status string) (db.Game, error)
	UpdateGameRound(id uint, round int) (db.Game, error)
	UpdateParticipants(gameID uint, participants []db.GameParticipant) (db.Game, error)

	ScoresForGame(gameID uint) ([]scoring.Row, error)
	AppendEvent(gameID uint, eventType string, payload any) error
}

var _ Store = (*db.Store)(nil)
