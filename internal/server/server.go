// Package server is the HTTP and websocket boundary: thin handlers over the
// scoring service, the stats engine and the store.
package server

import (
	"log/slog"
	"net/http"

	"quiz-night/internal/config"
	"quiz-night/internal/scoring"
	"quiz-night/internal/stats"
)

type Server struct {
	store  Store
	scores *scoring.Service
	stats  *stats.Engine
	hub    *wsHub
	cfg    config.Config
	log    *slog.Logger
}

func New(store Store, cfg config.Config, log *slog.Logger) *Server {
	return &Server{
		store:  store,
		scores: scoring.NewService(store),
		stats:  stats.New(store),
		hub:    newWSHub(),
		cfg:    cfg,
		log:    log,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.HandleFunc("GET /api/teams", s.requireAdmin(s.handleListTeams))
	mux.HandleFunc("POST /api/teams", s.requireAdmin(s.handleCreateTeam))
	mux.HandleFunc("POST /api/teams/import", s.requireAdmin(s.handleImportTeams))
	mux.HandleFunc("PUT /api/teams/{id}", s.requireAdmin(s.handleUpdateTeam))
	mux.HandleFunc("DELETE /api/teams/{id}", s.requireAdmin(s.handleDeleteTeam))

	mux.HandleFunc("GET /api/templates", s.requireAdmin(s.handleListTemplates))
	mux.HandleFunc("POST /api/templates", s.requireAdmin(s.handleCreateTemplate))
	mux.HandleFunc("DELETE /api/templates/{id}", s.requireAdmin(s.handleDeleteTemplate))

	mux.HandleFunc("GET /api/games", s.requireAdmin(s.handleListGames))
	mux.HandleFunc("POST /api/games", s.requireAdmin(s.handleCreateGame))
	mux.HandleFunc("DELETE /api/games/{id}", s.requireAdmin(s.handleDeleteGame))
	mux.HandleFunc("PUT /api/games/{id}/status", s.requireAdmin(s.handleUpdateStatus))
	mux.HandleFunc("PUT /api/games/{id}/round", s.requireAdmin(s.handleUpdateRound))
	mux.HandleFunc("PUT /api/games/{id}/participants", s.requireAdmin(s.handleUpdateParticipants))
	mux.HandleFunc("PUT /api/games/{id}/scores", s.requireAdmin(s.handleSubmitScores))

	// The live scoreboard reads a single game and its scores without
	// logging in, the same way it reads the public stats endpoints.
	mux.HandleFunc("GET /api/games/{id}", s.handleGetGame)
	mux.HandleFunc("GET /api/games/{id}/scores", s.handleListScores)

	mux.HandleFunc("GET /api/public/last-game", s.handleLastGame)
	mux.HandleFunc("GET /api/public/stats", s.handlePublicStats)
	mux.HandleFunc("GET /api/public/ranking", s.handlePublicRanking)
	mux.HandleFunc("GET /api/public/teams", s.handlePublicTeams)
	mux.HandleFunc("GET /api/public/teams/{id}", s.handlePublicTeamProfile)

	mux.HandleFunc("GET /ws/games/{id}", s.handleWebsocket)
	return mux
}
