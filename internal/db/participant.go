package db

import "time"

type GameParticipant struct {
	ID     uint `gorm:"primaryKey"`
	GameID uint `gorm:"index;not null;uniqueIndex:idx_game_participants_game_team"`
	TeamID uint `gorm:"index;not null;uniqueIndex:idx_game_participants_game_team"`
	// TableLabel uniqueness among a game's non-empty labels is enforced in
	// Store code, not by the schema.
	TableLabel string    `gorm:"size:32"`
	Headcount  int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"not null"`
}
