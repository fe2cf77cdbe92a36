package server

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"quiz-night/internal/db"
	"quiz-night/internal/scoring"
	"quiz-night/internal/stats"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	mu        sync.Mutex
	teams     map[uint]db.Team
	templates map[uint]db.GameTemplate
	games     map[uint]db.Game
	scores    map[string]scoring.Row
	events    []db.Event
	nextID    uint
}

var _ Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		teams:     make(map[uint]db.Team),
		templates: make(map[uint]db.GameTemplate),
		games:     make(map[uint]db.Game),
		scores:    make(map[string]scoring.Row),
	}
}

func (f *fakeStore) id() uint {
	f.nextID++
	return f.nextID
}

func scoreKey(gameID, teamID uint, roundNumber int) string {
	return fmt.Sprintf("%d/%d/%d", gameID, teamID, roundNumber)
}

func (f *fakeStore) ListTeams() ([]db.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]db.Team, 0, len(f.teams))
	for _, t := range f.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) GetTeam(id uint) (db.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	team, ok := f.teams[id]
	if !ok {
		return db.Team{}, db.ErrTeamNotFound
	}
	return team, nil
}

func (f *fakeStore) CreateTeam(name, logoPath string) (db.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createTeamLocked(name, logoPath)
}

func (f *fakeStore) createTeamLocked(name, logoPath string) (db.Team, error) {
	sl := db.TeamSlug(name)
	for _, t := range f.teams {
		if t.Slug == sl {
			return db.Team{}, db.ErrTeamExists
		}
	}
	team := db.Team{
		ID:        f.id(),
		Name:      strings.TrimSpace(name),
		Slug:      sl,
		LogoPath:  logoPath,
		CreatedAt: time.Now(),
	}
	f.teams[team.ID] = team
	return team, nil
}

func (f *fakeStore) UpdateTeam(id uint, name, logoPath string) (db.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	team, ok := f.teams[id]
	if !ok {
		return db.Team{}, db.ErrTeamNotFound
	}
	sl := db.TeamSlug(name)
	for _, t := range f.teams {
		if t.ID != id && t.Slug == sl {
			return db.Team{}, db.ErrTeamExists
		}
	}
	team.Name = strings.TrimSpace(name)
	team.Slug = sl
	team.LogoPath = logoPath
	f.teams[id] = team
	return team, nil
}

func (f *fakeStore) DeleteTeam(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.teams[id]; !ok {
		return db.ErrTeamNotFound
	}
	delete(f.teams, id)
	for key, row := range f.scores {
		if row.TeamID == id {
			delete(f.scores, key)
		}
	}
	for gameID, game := range f.games {
		kept := game.Participants[:0]
		for _, p := range game.Participants {
			if p.TeamID != id {
				kept = append(kept, p)
			}
		}
		game.Participants = kept
		f.games[gameID] = game
	}
	return nil
}

func (f *fakeStore) ImportTeams(names []string) ([]db.Team, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var created []db.Team
	skipped := 0
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			skipped++
			continue
		}
		team, err := f.createTeamLocked(name, "")
		if err != nil {
			skipped++
			continue
		}
		created = append(created, team)
	}
	return created, skipped, nil
}

func (f *fakeStore) ListTemplates() ([]db.GameTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]db.GameTemplate, 0, len(f.templates))
	for _, t := range f.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) GetTemplate(id uint) (db.GameTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	template, ok := f.templates[id]
	if !ok {
		return db.GameTemplate{}, db.ErrTemplateNotFound
	}
	return template, nil
}

func (f *fakeStore) CreateTemplate(name string, rounds []db.TemplateRound) (db.GameTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	numbers := make(map[int]bool, len(rounds))
	for _, r := range rounds {
		if numbers[r.RoundNumber] {
			return db.GameTemplate{}, db.ErrDuplicateRound
		}
		numbers[r.RoundNumber] = true
	}
	template := db.GameTemplate{ID: f.id(), Name: strings.TrimSpace(name), Rounds: rounds}
	f.templates[template.ID] = template
	return template, nil
}

func (f *fakeStore) DeleteTemplate(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.templates[id]; !ok {
		return db.ErrTemplateNotFound
	}
	for _, game := range f.games {
		if game.TemplateID == id {
			return db.ErrTemplateInUse
		}
	}
	delete(f.templates, id)
	return nil
}

func (f *fakeStore) ListGames() ([]db.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]db.Game, 0, len(f.games))
	for _, g := range f.games {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStore) GetGame(id uint) (db.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	game, ok := f.games[id]
	if !ok {
		return db.Game{}, db.ErrGameNotFound
	}
	return game, nil
}

func (f *fakeStore) CreateGame(name string, templateID uint, eventDate *time.Time, participants []db.GameParticipant) (db.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.templates[templateID]; !ok {
		return db.Game{}, db.ErrTemplateNotFound
	}
	if err := checkFakeLabels(participants); err != nil {
		return db.Game{}, err
	}
	game := db.Game{
		ID:         f.id(),
		Name:       strings.TrimSpace(name),
		TemplateID: templateID,
		Status:     "created",
		EventDate:  eventDate,
		CreatedAt:  time.Now(),
	}
	for i := range participants {
		participants[i].GameID = game.ID
	}
	game.Participants = participants
	f.games[game.ID] = game
	return game, nil
}

func (f *fakeStore) DeleteGame(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.games[id]; !ok {
		return db.ErrGameNotFound
	}
	delete(f.games, id)
	for key, row := range f.scores {
		if row.GameID == id {
			delete(f.scores, key)
		}
	}
	return nil
}

func (f *fakeStore) UpdateGameStatus(id uint, status string) (db.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	game, ok := f.games[id]
	if !ok {
		return db.Game{}, db.ErrGameNotFound
	}
	game.Status = status
	f.games[id] = game
	return game, nil
}

func (f *fakeStore) UpdateGameRound(id uint, round int) (db.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	game, ok := f.games[id]
	if !ok {
		return db.Game{}, db.ErrGameNotFound
	}
	game.CurrentRound = round
	f.games[id] = game
	return game, nil
}

func (f *fakeStore) UpdateParticipants(gameID uint, participants []db.GameParticipant) (db.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	game, ok := f.games[gameID]
	if !ok {
		return db.Game{}, db.ErrGameNotFound
	}
	if err := checkFakeLabels(participants); err != nil {
		return db.Game{}, err
	}
	keep := make(map[uint]bool, len(participants))
	for i := range participants {
		participants[i].GameID = gameID
		keep[participants[i].TeamID] = true
	}
	for key, row := range f.scores {
		if row.GameID == gameID && !keep[row.TeamID] {
			delete(f.scores, key)
		}
	}
	game.Participants = participants
	f.games[gameID] = game
	return game, nil
}

func checkFakeLabels(participants []db.GameParticipant) error {
	labels := make(map[string]bool)
	for _, p := range participants {
		if p.TableLabel == "" {
			continue
		}
		if labels[p.TableLabel] {
			return &db.DuplicateLabelError{Label: p.TableLabel}
		}
		labels[p.TableLabel] = true
	}
	return nil
}

func (f *fakeStore) IsParticipant(gameID, teamID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	game, ok := f.games[gameID]
	if !ok {
		return false, nil
	}
	for _, p := range game.Participants {
		if p.TeamID == teamID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) RoundMax(gameID uint, roundNumber int) (*float64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	game, ok := f.games[gameID]
	if !ok {
		return nil, false, nil
	}
	template, ok := f.templates[game.TemplateID]
	if !ok {
		return nil, true, nil
	}
	for _, round := range template.Rounds {
		if round.RoundNumber == roundNumber {
			return round.MaxScore, true, nil
		}
	}
	return nil, true, nil
}

func (f *fakeStore) UpsertScore(gameID, teamID uint, roundNumber int, score float64) (scoring.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row := scoring.Row{GameID: gameID, TeamID: teamID, RoundNumber: roundNumber, Score: score}
	f.scores[scoreKey(gameID, teamID, roundNumber)] = row
	return row, nil
}

func (f *fakeStore) ScoresForGame(gameID uint) ([]scoring.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]scoring.Row, 0)
	for _, row := range f.scores {
		if row.GameID == gameID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoundNumber != out[j].RoundNumber {
			return out[i].RoundNumber < out[j].RoundNumber
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out, nil
}

func (f *fakeStore) AppendEvent(gameID uint, eventType string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, db.Event{GameID: gameID, Type: eventType})
	return nil
}

func (f *fakeStore) Snapshot() (*stats.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := &stats.Snapshot{}
	for _, t := range f.teams {
		snap.Teams = append(snap.Teams, stats.Team{ID: t.ID, Name: t.Name, LogoPath: t.LogoPath, CreatedAt: t.CreatedAt})
	}
	for _, g := range f.games {
		snap.Games = append(snap.Games, stats.Game{
			ID:         g.ID,
			Name:       g.Name,
			TemplateID: g.TemplateID,
			Status:     g.Status,
			EventDate:  g.EventDate,
			CreatedAt:  g.CreatedAt,
		})
		for _, p := range g.Participants {
			snap.Participants = append(snap.Participants, stats.Participant{
				GameID:     p.GameID,
				TeamID:     p.TeamID,
				TableLabel: p.TableLabel,
			})
		}
	}
	for _, t := range f.templates {
		for _, r := range t.Rounds {
			snap.TemplateRounds = append(snap.TemplateRounds, stats.TemplateRound{
				TemplateID:  t.ID,
				RoundNumber: r.RoundNumber,
			})
		}
	}
	for _, row := range f.scores {
		snap.Scores = append(snap.Scores, stats.Score{
			GameID:      row.GameID,
			TeamID:      row.TeamID,
			RoundNumber: row.RoundNumber,
			Value:       row.Score,
		})
	}
	return snap, nil
}
