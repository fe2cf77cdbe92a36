package db

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quiz-night/internal/scoring"
)

// Store wraps the gorm connection and provides every persistence operation
// the server, the scoring service and the stats engine need.
type Store struct {
	db *gorm.DB
}

func NewStore(conn *gorm.DB) *Store {
	return &Store{db: conn}
}

// TeamSlug normalizes a team name for case-insensitive uniqueness checks.
func TeamSlug(name string) string {
	return slug.Make(name)
}

func (s *Store) ListTeams() ([]Team, error) {
	var teams []Team
	if err := s.db.Order("name ASC").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (s *Store) GetTeam(id uint) (Team, error) {
	var team Team
	if err := s.db.First(&team, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Team{}, ErrTeamNotFound
		}
		return Team{}, err
	}
	return team, nil
}

func (s *Store) CreateTeam(name, logoPath string) (Team, error) {
	team := Team{
		Name:     strings.TrimSpace(name),
		Slug:     TeamSlug(name),
		LogoPath: logoPath,
	}
	if err := s.db.Create(&team).Error; err != nil {
		if isUniqueViolation(err) {
			return Team{}, ErrTeamExists
		}
		return Team{}, err
	}
	return team, nil
}

func (s *Store) UpdateTeam(id uint, name, logoPath string) (Team, error) {
	team, err := s.GetTeam(id)
	if err != nil {
		return Team{}, err
	}
	team.Name = strings.TrimSpace(name)
	team.Slug = TeamSlug(name)
	team.LogoPath = logoPath
	if err := s.db.Save(&team).Error; err != nil {
		if isUniqueViolation(err) {
			return Team{}, ErrTeamExists
		}
		return Team{}, err
	}
	return team, nil
}

// DeleteTeam removes a team together with its participant rows and round
// scores.
func (s *Store) DeleteTeam(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&Team{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTeamNotFound
		}
		if err := tx.Where("team_id = ?", id).Delete(&RoundScore{}).Error; err != nil {
			return err
		}
		return tx.Where("team_id = ?", id).Delete(&GameParticipant{}).Error
	})
}

// ImportTeams bulk-creates teams from a list of names, skipping blanks and
// names that already exist under case-insensitive comparison. Duplicates
// within the input collapse to their first occurrence.
func (s *Store) ImportTeams(names []string) (created []Team, skipped int, err error) {
	seen := make(map[string]bool)
	var candidates []Team
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			skipped++
			continue
		}
		sl := TeamSlug(name)
		if seen[sl] {
			skipped++
			continue
		}
		seen[sl] = true
		candidates = append(candidates, Team{Name: name, Slug: sl})
	}
	if len(candidates) == 0 {
		return nil, skipped, nil
	}

	slugs := make([]string, 0, len(candidates))
	for _, c := range candidates {
		slugs = append(slugs, c.Slug)
	}
	var existing []Team
	if err := s.db.Where("slug IN ?", slugs).Find(&existing).Error; err != nil {
		return nil, 0, err
	}
	taken := make(map[string]bool, len(existing))
	for _, t := range existing {
		taken[t.Slug] = true
	}

	for _, c := range candidates {
		if taken[c.Slug] {
			skipped++
			continue
		}
		team := c
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&team).Error; err != nil {
			return created, skipped, err
		}
		if team.ID == 0 {
			skipped++
			continue
		}
		created = append(created, team)
	}
	return created, skipped, nil
}

func (s *Store) ListTemplates() ([]GameTemplate, error) {
	var templates []GameTemplate
	err := s.db.
		Preload("Rounds", func(tx *gorm.DB) *gorm.DB { return tx.Order("round_number ASC") }).
		Order("name ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (s *Store) GetTemplate(id uint) (GameTemplate, error) {
	var template GameTemplate
	err := s.db.
		Preload("Rounds", func(tx *gorm.DB) *gorm.DB { return tx.Order("round_number ASC") }).
		First(&template, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GameTemplate{}, ErrTemplateNotFound
		}
		return GameTemplate{}, err
	}
	return template, nil
}

func (s *Store) CreateTemplate(name string, rounds []TemplateRound) (GameTemplate, error) {
	numbers := make(map[int]bool, len(rounds))
	for _, r := range rounds {
		if numbers[r.RoundNumber] {
			return GameTemplate{}, ErrDuplicateRound
		}
		numbers[r.RoundNumber] = true
	}
	template := GameTemplate{Name: strings.TrimSpace(name), Rounds: rounds}
	if err := s.db.Create(&template).Error; err != nil {
		if isUniqueViolation(err) {
			return GameTemplate{}, ErrDuplicateRound
		}
		return GameTemplate{}, err
	}
	return template, nil
}

// DeleteTemplate refuses to delete a template that games still reference.
func (s *Store) DeleteTemplate(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var games int64
		if err := tx.Model(&Game{}).Where("template_id = ?", id).Count(&games).Error; err != nil {
			return err
		}
		if games > 0 {
			return ErrTemplateInUse
		}
		result := tx.Delete(&GameTemplate{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTemplateNotFound
		}
		return tx.Where("template_id = ?", id).Delete(&TemplateRound{}).Error
	})
}

func (s *Store) ListGames() ([]Game, error) {
	var games []Game
	err := s.db.
		Preload("Participants").
		Order("created_at DESC, id DESC").
		Find(&games).Error
	if err != nil {
		return nil, err
	}
	return games, nil
}

func (s *Store) GetGame(id uint) (Game, error) {
	var game Game
	if err := s.db.Preload("Participants").First(&game, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Game{}, ErrGameNotFound
		}
		return Game{}, err
	}
	return game, nil
}

func (s *Store) CreateGame(name string, templateID uint, eventDate *time.Time, participants []GameParticipant) (Game, error) {
	if err := checkTableLabels(participants); err != nil {
		return Game{}, err
	}
	if _, err := s.GetTemplate(templateID); err != nil {
		return Game{}, err
	}
	game := Game{
		Name:       strings.TrimSpace(name),
		TemplateID: templateID,
		Status:     "created",
		EventDate:  eventDate,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&game).Error; err != nil {
			return err
		}
		for i := range participants {
			participants[i].ID = 0
			participants[i].GameID = game.ID
		}
		if len(participants) == 0 {
			return nil
		}
		return tx.Create(&participants).Error
	})
	if err != nil {
		return Game{}, err
	}
	game.Participants = participants
	return game, nil
}

func (s *Store) UpdateGameStatus(id uint, status string) (Game, error) {
	game, err := s.GetGame(id)
	if err != nil {
		return Game{}, err
	}
	game.Status = status
	if err := s.db.Model(&Game{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return Game{}, err
	}
	return game, nil
}

func (s *Store) UpdateGameRound(id uint, round int) (Game, error) {
	game, err := s.GetGame(id)
	if err != nil {
		return Game{}, err
	}
	game.CurrentRound = round
	if err := s.db.Model(&Game{}).Where("id = ?", id).Update("current_round", round).Error; err != nil {
		return Game{}, err
	}
	return game, nil
}

// UpdateParticipants replaces a game's participant set. Teams removed from
// the set lose their round scores for this game.
func (s *Store) UpdateParticipants(gameID uint, participants []GameParticipant) (Game, error) {
	if err := checkTableLabels(participants); err != nil {
		return Game{}, err
	}
	game, err := s.GetGame(gameID)
	if err != nil {
		return Game{}, err
	}
	keep := make([]uint, 0, len(participants))
	for _, p := range participants {
		keep = append(keep, p.TeamID)
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		removed := tx.Where("game_id = ?", gameID)
		if len(keep) > 0 {
			removed = removed.Where("team_id NOT IN ?", keep)
		}
		if err := removed.Delete(&GameParticipant{}).Error; err != nil {
			return err
		}
		orphaned := tx.Where("game_id = ?", gameID)
		if len(keep) > 0 {
			orphaned = orphaned.Where("team_id NOT IN ?", keep)
		}
		if err := orphaned.Delete(&RoundScore{}).Error; err != nil {
			return err
		}
		for i := range participants {
			participants[i].ID = 0
			participants[i].GameID = gameID
		}
		if len(participants) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "game_id"}, {Name: "team_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"table_label", "headcount"}),
		}).Create(&participants).Error
	})
	if err != nil {
		return Game{}, err
	}
	game.Participants = participants
	return game, nil
}

// DeleteGame removes a game together with its participants, scores and
// event log.
func (s *Store) DeleteGame(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&Game{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrGameNotFound
		}
		if err := tx.Where("game_id = ?", id).Delete(&GameParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", id).Delete(&RoundScore{}).Error; err != nil {
			return err
		}
		return tx.Where("game_id = ?", id).Delete(&Event{}).Error
	})
}

func checkTableLabels(participants []GameParticipant) error {
	labels := make(map[string]bool)
	for _, p := range participants {
		label := strings.TrimSpace(p.TableLabel)
		if label == "" {
			continue
		}
		if labels[label] {
			return &DuplicateLabelError{Label: label}
		}
		labels[label] = true
	}
	return nil
}

// IsParticipant reports whether the team belongs to the game.
func (s *Store) IsParticipant(gameID, teamID uint) (bool, error) {
	var count int64
	err := s.db.Model(&GameParticipant{}).
		Where("game_id = ? AND team_id = ?", gameID, teamID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RoundMax returns the template maximum for a round of the game. A missing
// template round or a NULL max_score means the round is unbounded.
func (s *Store) RoundMax(gameID uint, roundNumber int) (*float64, bool, error) {
	var game Game
	if err := s.db.First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var round TemplateRound
	err := s.db.
		Where("template_id = ? AND round_number = ?", game.TemplateID, roundNumber).
		First(&round).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, true, nil
		}
		return nil, false, err
	}
	return round.MaxScore, true, nil
}

// UpsertScore writes the (game, team, round) row, overwriting any previous
// value. The unique index makes concurrent submissions last-write-wins.
func (s *Store) UpsertScore(gameID, teamID uint, roundNumber int, score float64) (scoring.Row, error) {
	record := RoundScore{
		GameID:      gameID,
		TeamID:      teamID,
		RoundNumber: roundNumber,
		Score:       score,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}, {Name: "team_id"}, {Name: "round_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return scoring.Row{}, err
	}
	return scoring.Row{
		GameID:      gameID,
		TeamID:      teamID,
		RoundNumber: roundNumber,
		Score:       score,
	}, nil
}

// ScoresForGame lists a game's scores ordered by round, then team.
func (s *Store) ScoresForGame(gameID uint) ([]scoring.Row, error) {
	var records []RoundScore
	err := s.db.
		Where("game_id = ?", gameID).
		Order("round_number ASC, team_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	rows := make([]scoring.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, scoring.Row{
			GameID:      r.GameID,
			TeamID:      r.TeamID,
			RoundNumber: r.RoundNumber,
			Score:       r.Score,
		})
	}
	return rows, nil
}

// AppendEvent records a broadcast in the events log.
func (s *Store) AppendEvent(gameID uint, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	record := Event{GameID: gameID, Type: eventType, Payload: datatypes.JSON(data)}
	return s.db.Create(&record).Error
}
