package models

import "time"

// Profile is the per-user progression record. Level is derived from XP and is
// only ever written together with it.
type Profile struct {
	ID          string `gorm:"primaryKey;type:text" json:"id"`
	DisplayName string `gorm:"type:text" json:"displayName"`

	Level        int `gorm:"not null;default:1;check:level >= 1" json:"level"`
	XP           int `gorm:"column:xp;not null;default:0;check:xp >= 0" json:"xp"`
	Strength     int `gorm:"not null;default:0;check:strength >= 0" json:"strength"`
	Intelligence int `gorm:"not null;default:0;check:intelligence >= 0" json:"intelligence"`
	Motivation   int `gorm:"not null;default:0;check:motivation >= 0" json:"motivation"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p Profile) Stats() Stats {
	return Stats{Strength: p.Strength, Intelligence: p.Intelligence, Motivation: p.Motivation}
}

func (p *Profile) SetStats(s Stats) {
	p.Strength = s.Strength
	p.Intelligence = s.Intelligence
	p.Motivation = s.Motivation
}
