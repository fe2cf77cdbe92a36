package server

import (
	"net/http"
	"testing"

	"quiz-night/internal/db"
)

func TestTeamLifecycle(t *testing.T) {
	_, ts := newTestEnv(t)
	token := adminToken(t, ts)

	resp := doJSON(t, ts, http.MethodPost, "/api/teams", token, teamRequest{Name: "Quizzly Bears"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status = %d, want 201", resp.StatusCode)
	}
	var team teamResponse
	decodeBody(t, resp, &team)
	resp.Body.Close()

	// Same name under different casing is a conflict.
	resp = doJSON(t, ts, http.MethodPost, "/api/teams", token, teamRequest{Name: "QUIZZLY bears"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate: status = %d, want 409", resp.StatusCode)
	}

	resp = doJSON(t, ts, http.MethodPut, "/api/teams/"+itoa(team.ID), token, teamRequest{Name: "Quizzly Bears", LogoPath: "/logos/bears.png"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status = %d, want 200", resp.StatusCode)
	}
	decodeBody(t, resp, &team)
	resp.Body.Close()
	if team.LogoPath != "/logos/bears.png" {
		t.Fatalf("logo not updated: %+v", team)
	}

	resp = doJSON(t, ts, http.MethodDelete, "/api/teams/"+itoa(team.ID), token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status = %d, want 204", resp.StatusCode)
	}

	resp = doJSON(t, ts, http.MethodDelete, "/api/teams/"+itoa(team.ID), token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("delete again: status = %d, want 404", resp.StatusCode)
	}
}

func TestImportTeamsSkipsDuplicates(t *testing.T) {
	store, ts := newTestEnv(t)
	token := adminToken(t, ts)
	if _, err := store.CreateTeam("Existing", ""); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	resp := doJSON(t, ts, http.MethodPost, "/api/teams/import", token, importTeamsRequest{
		Names: []string{"Existing", "  ", "Fresh", "fresh", "Another"},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var out importTeamsResponse
	decodeBody(t, resp, &out)
	if len(out.Created) != 2 {
		t.Fatalf("created = %+v, want Fresh and Another", out.Created)
	}
	if out.Skipped != 3 {
		t.Fatalf("skipped = %d, want 3", out.Skipped)
	}
}

func TestTemplateDeleteWhileInUse(t *testing.T) {
	store, ts := newTestEnv(t)
	token := adminToken(t, ts)

	template, err := store.CreateTemplate("standard", []db.TemplateRound{{RoundNumber: 1}})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	if _, err := store.CreateGame("night", template.ID, nil, nil); err != nil {
		t.Fatalf("create game: %v", err)
	}

	resp := doJSON(t, ts, http.MethodDelete, "/api/templates/"+itoa(template.ID), token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestCreateTemplateRejectsDuplicateRounds(t *testing.T) {
	_, ts := newTestEnv(t)
	token := adminToken(t, ts)

	resp := doJSON(t, ts, http.MethodPost, "/api/templates", token, createTemplateRequest{
		Name: "broken",
		Rounds: []templateRoundRequest{
			{RoundNumber: 1},
			{RoundNumber: 1},
		},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestCreateGameRejectsDuplicateTableLabels(t *testing.T) {
	store, ts := newTestEnv(t)
	token := adminToken(t, ts)

	teamA, _ := store.CreateTeam("Alpha", "")
	teamB, _ := store.CreateTeam("Bravo", "")
	template, _ := store.CreateTemplate("standard", []db.TemplateRound{{RoundNumber: 1}})

	resp := doJSON(t, ts, http.MethodPost, "/api/games", token, createGameRequest{
		Name:       "collision",
		TemplateID: template.ID,
		Participants: []participantRequest{
			{TeamID: teamA.ID, TableLabel: "5"},
			{TeamID: teamB.ID, TableLabel: "5"},
		},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	store, ts := newTestEnv(t)
	token := adminToken(t, ts)
	gameID, _, _ := seedGame(t, store)

	resp := doJSON(t, ts, http.MethodPut, "/api/games/"+itoa(gameID)+"/status", token, updateStatusRequest{Status: "paused"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad status: status = %d, want 400", resp.StatusCode)
	}

	resp = doJSON(t, ts, http.MethodPut, "/api/games/"+itoa(gameID)+"/status", token, updateStatusRequest{Status: "active"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var game gameResponse
	decodeBody(t, resp, &game)
	resp.Body.Close()
	if game.Status != "active" {
		t.Fatalf("game status = %q, want active", game.Status)
	}
}

func TestUpdateRound(t *testing.T) {
	store, ts := newTestEnv(t)
	token := adminToken(t, ts)
	gameID, _, _ := seedGame(t, store)

	resp := doJSON(t, ts, http.MethodPut, "/api/games/"+itoa(gameID)+"/round", token, updateRoundRequest{RoundNumber: 2})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var game gameResponse
	decodeBody(t, resp, &game)
	resp.Body.Close()
	if game.CurrentRound != 2 {
		t.Fatalf("current round = %d, want 2", game.CurrentRound)
	}
}

func TestUpdateParticipantsDropsRemovedTeamScores(t *testing.T) {
	store, ts := newTestEnv(t)
	token := adminToken(t, ts)
	gameID, teamA, teamB := seedGame(t, store)

	if _, err := store.UpsertScore(gameID, teamA.ID, 1, 5); err != nil {
		t.Fatalf("seed score: %v", err)
	}
	if _, err := store.UpsertScore(gameID, teamB.ID, 1, 6); err != nil {
		t.Fatalf("seed score: %v", err)
	}

	resp := doJSON(t, ts, http.MethodPut, "/api/games/"+itoa(gameID)+"/participants", token, updateParticipantsRequest{
		Participants: []participantRequest{{TeamID: teamA.ID, TableLabel: "1"}},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	rows, err := store.ScoresForGame(gameID)
	if err != nil {
		t.Fatalf("scores: %v", err)
	}
	if len(rows) != 1 || rows[0].TeamID != teamA.ID {
		t.Fatalf("scores after removal: %+v", rows)
	}
}

func TestPublicRankingRejectsUnknownSort(t *testing.T) {
	store, ts := newTestEnv(t)
	seedGame(t, store)

	resp := doJSON(t, ts, http.MethodGet, "/api/public/ranking?sort=wins", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	resp = doJSON(t, ts, http.MethodGet, "/api/public/ranking?sort=avg_place&order=desc", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestPublicTeamsPagination(t *testing.T) {
	store, ts := newTestEnv(t)
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		if _, err := store.CreateTeam(name, ""); err != nil {
			t.Fatalf("seed team: %v", err)
		}
	}

	resp := doJSON(t, ts, http.MethodGet, "/api/public/teams?page=2&limit=2", "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out publicTeamsResponse
	decodeBody(t, resp, &out)
	if out.Total != 5 || len(out.Teams) != 2 {
		t.Fatalf("page: %+v", out)
	}
	if out.Teams[0].Name != "C" {
		t.Fatalf("expected page 2 to start at C, got %q", out.Teams[0].Name)
	}
}

func TestPublicTeamProfileNotFound(t *testing.T) {
	_, ts := newTestEnv(t)
	resp := doJSON(t, ts, http.MethodGet, "/api/public/teams/42", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestLastGameEmptyLeague(t *testing.T) {
	_, ts := newTestEnv(t)
	resp := doJSON(t, ts, http.MethodGet, "/api/public/last-game", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
