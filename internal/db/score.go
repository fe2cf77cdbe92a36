package db

import "time"

type RoundScore struct {
	ID          uint      `gorm:"primaryKey"`
	GameID      uint      `gorm:"index;not null;uniqueIndex:idx_round_scores_game_team_round"`
	TeamID      uint      `gorm:"index;not null;uniqueIndex:idx_round_scores_game_team_round"`
	RoundNumber int       `gorm:"not null;uniqueIndex:idx_round_scores_game_team_round"`
	Score       float64   `gorm:"type:numeric(6,1);not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}
