package db

import "time"

type Team struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:128;not null"`
	Slug      string    `gorm:"size:160;uniqueIndex;not null"`
	LogoPath  string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
