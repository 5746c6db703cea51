package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistoryAction string

const (
	ActionCreated   HistoryAction = "created"
	ActionStarted   HistoryAction = "started"
	ActionCompleted HistoryAction = "completed"
	ActionFailed    HistoryAction = "failed"
	ActionUpdated   HistoryAction = "updated"
)

// MissionHistory is an append-only audit row. It has no foreign key to
// missions so entries outlive the mission they describe.
type MissionHistory struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	MissionID string         `gorm:"type:text;not null;index" json:"missionId"`
	UserID    string         `gorm:"type:text;not null;index:idx_history_user_created,priority:1" json:"userId"`
	Action    HistoryAction  `gorm:"type:text;not null" json:"action"`
	OldStatus *MissionStatus `gorm:"type:text" json:"oldStatus,omitempty"`
	NewStatus *MissionStatus `gorm:"type:text" json:"newStatus,omitempty"`
	XPGained  int            `gorm:"column:xp_gained;not null;default:0" json:"xpGained"`
	Notes     *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time      `gorm:"index:idx_history_user_created,priority:2" json:"createdAt"`

	Profile *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (MissionHistory) TableName() string {
	return "mission_history"
}

func (h *MissionHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	return nil
}

// StatusPtr is a helper for the optional status columns.
func StatusPtr(s MissionStatus) *MissionStatus {
	return &s
}
