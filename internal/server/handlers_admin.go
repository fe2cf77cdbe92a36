package server

import (
	"net/http"
	"strings"
	"time"

	"quiz-night/internal/db"
)

type teamRequest struct {
	Name     string `json:"name"`
	LogoPath string `json:"logo_path"`
}

type teamResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	LogoPath string `json:"logo_path,omitempty"`
}

func toTeamResponse(t db.Team) teamResponse {
	return teamResponse{ID: t.ID, Name: t.Name, LogoPath: t.LogoPath}
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.store.ListTeams()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out := make([]teamResponse, 0, len(teams))
	for _, t := range teams {
		out = append(out, toTeamResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	team, err := s.store.CreateTeam(req.Name, req.LogoPath)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.log.Info("team created", "team_id", team.ID, "name", team.Name)
	writeJSON(w, http.StatusCreated, toTeamResponse(team))
}

func (s *Server) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid team id")
		return
	}
	var req teamRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	team, err := s.store.UpdateTeam(id, req.Name, req.LogoPath)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTeamResponse(team))
}

func (s *Server) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid team id")
		return
	}
	if err := s.store.DeleteTeam(id); err != nil {
		writeStoreError(w, err)
		return
	}
	s.log.Info("team deleted", "team_id", id)
	w.WriteHeader(http.StatusNoContent)
}

type importTeamsRequest struct {
	Names []string `json:"names"`
}

type importTeamsResponse struct {
	Created []teamResponse `json:"created"`
	Skipped int            `json:"skipped"`
}

// handleImportTeams bulk-creates teams, skipping names that already exist
// under case-insensitive comparison.
func (s *Server) handleImportTeams(w http.ResponseWriter, r *http.Request) {
	var req importTeamsRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Names) == 0 {
		writeError(w, http.StatusBadRequest, "names is required")
		return
	}
	created, skipped, err := s.store.ImportTeams(req.Names)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out := importTeamsResponse{Created: make([]teamResponse, 0, len(created)), Skipped: skipped}
	for _, t := range created {
		out.Created = append(out.Created, toTeamResponse(t))
	}
	s.log.Info("teams imported", "created", len(created), "skipped", skipped)
	writeJSON(w, http.StatusCreated, out)
}

type templateRoundRequest struct {
	RoundNumber int      `json:"round_number"`
	Name        string   `json:"name"`
	MaxScore    *float64 `json:"max_score"`
}

type createTemplateRequest struct {
	Name   string                 `json:"name"`
	Rounds []templateRoundRequest `json:"rounds"`
}

type templateRoundResponse struct {
	RoundNumber int      `json:"round_number"`
	Name        string   `json:"name,omitempty"`
	MaxScore    *float64 `json:"max_score"`
}

type templateResponse struct {
	ID     uint                    `json:"id"`
	Name   string                  `json:"name"`
	Rounds []templateRoundResponse `json:"rounds"`
}

func toTemplateResponse(t db.GameTemplate) templateResponse {
	out := templateResponse{ID: t.ID, Name: t.Name, Rounds: make([]templateRoundResponse, 0, len(t.Rounds))}
	for _, r := range t.Rounds {
		out.Rounds = append(out.Rounds, templateRoundResponse{
			RoundNumber: r.RoundNumber,
			Name:        r.Name,
			MaxScore:    r.MaxScore,
		})
	}
	return out
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.store.ListTemplates()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out := make([]templateResponse, 0, len(templates))
	for _, t := range templates {
		out = append(out, toTemplateResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(req.Rounds) == 0 {
		writeError(w, http.StatusBadRequest, "at least one round is required")
		return
	}
	rounds := make([]db.TemplateRound, 0, len(req.Rounds))
	for _, round := range req.Rounds {
		if round.RoundNumber <= 0 {
			writeError(w, http.StatusBadRequest, "round_number must be a positive integer")
			return
		}
		if round.MaxScore != nil && *round.MaxScore < 0 {
			writeError(w, http.StatusBadRequest, "max_score must not be negative")
			return
		}
		rounds = append(rounds, db.TemplateRound{
			RoundNumber: round.RoundNumber,
			Name:        strings.TrimSpace(round.Name),
			MaxScore:    round.MaxScore,
		})
	}
	template, err := s.store.CreateTemplate(req.Name, rounds)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.log.Info("template created", "template_id", template.ID, "rounds", len(template.Rounds))
	writeJSON(w, http.StatusCreated, toTemplateResponse(template))
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid template id")
		return
	}
	if err := s.store.DeleteTemplate(id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type participantRequest struct {
	TeamID     uint   `json:"team_id"`
	TableLabel string `json:"table_label"`
	Headcount  int    `json:"headcount"`
}

type createGameRequest struct {
	Name         string               `json:"name"`
	TemplateID   uint                 `json:"template_id"`
	EventDate    *time.Time           `json:"event_date"`
	Participants []participantRequest `json:"participants"`
}

type participantResponse struct {
	TeamID     uint   `json:"team_id"`
	TableLabel string `json:"table_label,omitempty"`
	Headcount  int    `json:"headcount,omitempty"`
}

type gameResponse struct {
	ID           uint                  `json:"id"`
	Name         string                `json:"name"`
	TemplateID   uint                  `json:"template_id"`
	Status       string                `json:"status"`
	CurrentRound int                   `json:"current_round"`
	EventDate    *time.Time            `json:"event_date"`
	Participants []participantResponse `json:"participants"`
}

func toGameResponse(g db.Game) gameResponse {
	out := gameResponse{
		ID:           g.ID,
		Name:         g.Name,
		TemplateID:   g.TemplateID,
		Status:       g.Status,
		CurrentRound: g.CurrentRound,
		EventDate:    g.EventDate,
		Participants: make([]participantResponse, 0, len(g.Participants)),
	}
	for _, p := range g.Participants {
		out.Participants = append(out.Participants, participantResponse{
			TeamID:     p.TeamID,
			TableLabel: p.TableLabel,
			Headcount:  p.Headcount,
		})
	}
	return out
}

func toParticipants(reqs []participantRequest) []db.GameParticipant {
	out := make([]db.GameParticipant, 0, len(reqs))
	for _, p := range reqs {
		out = append(out, db.GameParticipant{
			TeamID:     p.TeamID,
			TableLabel: strings.TrimSpace(p.TableLabel),
			Headcount:  p.Headcount,
		})
	}
	return out
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.store.ListGames()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out := make([]gameResponse, 0, len(games))
	for _, g := range games {
		out = append(out, toGameResponse(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.TemplateID == 0 {
		writeError(w, http.StatusBadRequest, "template_id is required")
		return
	}
	game, err := s.store.CreateGame(req.Name, req.TemplateID, req.EventDate, toParticipants(req.Participants))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.log.Info("game created", "game_id", game.ID, "template_id", game.TemplateID)
	writeJSON(w, http.StatusCreated, toGameResponse(game))
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	game, err := s.store.GetGame(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGameResponse(game))
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	if err := s.store.DeleteGame(id); err != nil {
		writeStoreError(w, err)
		return
	}
	s.log.Info("game deleted", "game_id", id)
	w.WriteHeader(http.StatusNoContent)
}

var gameStatuses = map[string]bool{
	"created":  true,
	"active":   true,
	"finished": true,
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	var req updateStatusRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !gameStatuses[req.Status] {
		writeError(w, http.StatusBadRequest, "status must be created, active or finished")
		return
	}
	game, err := s.store.UpdateGameStatus(id, req.Status)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.log.Info("game status changed", "game_id", id, "status", req.Status)
	s.broadcastStatus(id, req.Status)
	writeJSON(w, http.StatusOK, toGameResponse(game))
}

type updateRoundRequest struct {
	RoundNumber int `json:"round_number"`
}

func (s *Server) handleUpdateRound(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	var req updateRoundRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RoundNumber < 0 {
		writeError(w, http.StatusBadRequest, "round_number must not be negative")
		return
	}
	game, err := s.store.UpdateGameRound(id, req.RoundNumber)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.log.Info("game round changed", "game_id", id, "round_number", req.RoundNumber)
	s.broadcastRound(id, req.RoundNumber)
	writeJSON(w, http.StatusOK, toGameResponse(game))
}

type updateParticipantsRequest struct {
	Participants []participantRequest `json:"participants"`
}

func (s *Server) handleUpdateParticipants(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	var req updateParticipantsRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	game, err := s.store.UpdateParticipants(id, toParticipants(req.Participants))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	// Removing a team changes displayed totals, so push fresh scores.
	s.broadcastScores(id)
	writeJSON(w, http.StatusOK, toGameResponse(game))
}
