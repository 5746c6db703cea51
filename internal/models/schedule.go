package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

type Schedule struct {
	ID        string          `gorm:"primaryKey;type:text" json:"id"`
	UserID    string          `gorm:"type:text;not null;index" json:"userId"`
	Title     string          `gorm:"type:text;not null" json:"title"`
	Frequency Frequency       `gorm:"type:text;not null" json:"frequency"`
	StartDate datatypes.Date  `gorm:"not null" json:"startDate"`
	EndDate   *datatypes.Date `json:"endDate,omitempty"`
	// No default tag: GORM would replace an explicit false with the default on insert.
	IsActive bool `gorm:"not null" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Profile *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Schedule) TableName() string {
	return "schedules"
}

func (s *Schedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
