package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"quiz-night/internal/config"
	"quiz-night/internal/db"
	"quiz-night/internal/logger"
)

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	t.Cleanup(ts.Close)
	return ts
}

func newTestEnv(t *testing.T) (*fakeStore, *httptest.Server) {
	t.Helper()
	store := newFakeStore()
	srv := New(store, config.Default(), logger.NewWithWriter(config.Default().Log, io.Discard))
	return store, newTestServer(t, srv.Handler())
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func adminToken(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := doJSON(t, ts, http.MethodPost, "/api/login", "", loginRequest{Password: config.Default().Admin.Password})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var out loginResponse
	decodeBody(t, resp, &out)
	return out.Token
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// seedGame creates two teams, a two-round template (round 2 capped at 10)
// and a game with both teams, returning the ids.
func seedGame(t *testing.T, store *fakeStore) (gameID uint, teamA, teamB db.Team) {
	t.Helper()
	return seedGameNamed(t, store, "Friday night")
}

func seedGameNamed(t *testing.T, store *fakeStore, name string) (gameID uint, teamA, teamB db.Team) {
	t.Helper()
	teamA, err := store.CreateTeam(name+" Alpha", "")
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	teamB, err = store.CreateTeam(name+" Bravo", "")
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	max := 10.0
	template, err := store.CreateTemplate(name+" template", []db.TemplateRound{
		{RoundNumber: 1, Name: "warmup"},
		{RoundNumber: 2, Name: "themed", MaxScore: &max},
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	game, err := store.CreateGame(name, template.ID, nil, []db.GameParticipant{
		{TeamID: teamA.ID, TableLabel: "1"},
		{TeamID: teamB.ID, TableLabel: "2"},
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	return game.ID, teamA, teamB
}
