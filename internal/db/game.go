package db

import "time"

type Game struct {
	ID           uint       `gorm:"primaryKey"`
	Name         string     `gorm:"size:128;not null"`
	TemplateID   uint       `gorm:"index;not null"`
	Status       string     `gorm:"size:16;not null;default:created"`
	CurrentRound int        `gorm:"not null;default:0"`
	EventDate    *time.Time `gorm:""`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`
	Participants []GameParticipant
	Scores       []RoundScore
	Events       []Event
}
