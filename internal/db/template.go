package db

import "time"

type GameTemplate struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:128;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Rounds    []TemplateRound
}

type TemplateRound struct {
	ID          uint   `gorm:"primaryKey"`
	TemplateID  uint   `gorm:"index;not null;uniqueIndex:idx_template_rounds_template_round"`
	RoundNumber int    `gorm:"not null;uniqueIndex:idx_template_rounds_template_round"`
	Name        string `gorm:"size:128"`
	// MaxScore nil means the round is unbounded.
	MaxScore  *float64  `gorm:"type:numeric(6,1)"`
	CreatedAt time.Time `gorm:"not null"`
}
