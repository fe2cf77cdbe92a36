package db

import "quiz-night/internal/stats"

// Snapshot loads the full aggregation state for the stats engine.
func (s *Store) Snapshot() (*stats.Snapshot, error) {
	var (
		teams        []Team
		games        []Game
		rounds       []TemplateRound
		participants []GameParticipant
		scores       []RoundScore
	)
	if err := s.db.Find(&teams).Error; err != nil {
		return nil, err
	}
	if err := s.db.Find(&games).Error; err != nil {
		return nil, err
	}
	if err := s.db.Find(&rounds).Error; err != nil {
		return nil, err
	}
	if err := s.db.Find(&participants).Error; err != nil {
		return nil, err
	}
	if err := s.db.Find(&scores).Error; err != nil {
		return nil, err
	}

	snap := &stats.Snapshot{
		Teams:          make([]stats.Team, 0, len(teams)),
		Games:          make([]stats.Game, 0, len(games)),
		TemplateRounds: make([]stats.TemplateRound, 0, len(rounds)),
		Participants:   make([]stats.Participant, 0, len(participants)),
		Scores:         make([]stats.Score, 0, len(scores)),
	}
	for _, t := range teams {
		snap.Teams = append(snap.Teams, stats.Team{
			ID:        t.ID,
			Name:      t.Name,
			LogoPath:  t.LogoPath,
			CreatedAt: t.CreatedAt,
		})
	}
	for _, g := range games {
		snap.Games = append(snap.Games, stats.Game{
			ID:         g.ID,
			Name:       g.Name,
			TemplateID: g.TemplateID,
			Status:     g.Status,
			EventDate:  g.EventDate,
			CreatedAt:  g.CreatedAt,
		})
	}
	for _, r := range rounds {
		snap.TemplateRounds = append(snap.TemplateRounds, stats.TemplateRound{
			TemplateID:  r.TemplateID,
			RoundNumber: r.RoundNumber,
		})
	}
	for _, p := range participants {
		snap.Participants = append(snap.Participants, stats.Participant{
			GameID:     p.GameID,
			TeamID:     p.TeamID,
			TableLabel: p.TableLabel,
		})
	}
	for _, sc := range scores {
		snap.Scores = append(snap.Scores, stats.Score{
			GameID:      sc.GameID,
			TeamID:      sc.TeamID,
			RoundNumber: sc.RoundNumber,
			Value:       sc.Score,
		})
	}
	return snap, nil
}
