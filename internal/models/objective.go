package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ObjectiveStatus string

const (
	ObjectiveActive    ObjectiveStatus = "active"
	ObjectiveCompleted ObjectiveStatus = "completed"
	ObjectivePaused    ObjectiveStatus = "paused"
)

func (s ObjectiveStatus) IsValid() bool {
	switch s {
	case ObjectiveActive, ObjectiveCompleted, ObjectivePaused:
		return true
	default:
		return false
	}
}

type Objective struct {
	ID          string  `gorm:"primaryKey;type:text" json:"id"`
	UserID      string  `gorm:"type:text;not null;index" json:"userId"`
	Title       string  `gorm:"type:text;not null" json:"title"`
	Description *string `gorm:"type:text" json:"description,omitempty"`

	TargetValue  int `gorm:"not null;default:1;check:target_value >= 1" json:"targetValue"`
	CurrentValue int `gorm:"not null;default:0;check:current_value >= 0 AND current_value <= target_value" json:"currentValue"`

	Category *string         `gorm:"type:text" json:"category,omitempty"`
	Deadline *datatypes.Date `json:"deadline,omitempty"`
	Status   ObjectiveStatus `gorm:"type:text;not null;default:'active'" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Profile *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Objective) TableName() string {
	return "objectives"
}

func (o *Objective) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}
