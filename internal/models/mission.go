package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MissionStatus string

const (
	MissionPending    MissionStatus = "pending"
	MissionInProgress MissionStatus = "in_progress"
	MissionCompleted  MissionStatus = "completed"
	MissionFailed     MissionStatus = "failed"
)

func (s MissionStatus) IsValid() bool {
	switch s {
	case MissionPending, MissionInProgress, MissionCompleted, MissionFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether a mission in this status can no longer change.
func (s MissionStatus) IsTerminal() bool {
	return s == MissionCompleted || s == MissionFailed
}

// OpenStatuses are the statuses a mission may leave.
var OpenStatuses = []MissionStatus{MissionPending, MissionInProgress}

// CanTransition reports whether a mission may move from one status to another.
func CanTransition(from, to MissionStatus) bool {
	switch from {
	case MissionPending:
		return to == MissionInProgress || to == MissionCompleted || to == MissionFailed
	case MissionInProgress:
		return to == MissionCompleted || to == MissionFailed
	default:
		return false
	}
}

type Mission struct {
	ID          string     `gorm:"primaryKey;type:text" json:"id"`
	UserID      string     `gorm:"type:text;not null;index:idx_missions_user_status,priority:1" json:"userId"`
	Title       string     `gorm:"type:text;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Category    Category   `gorm:"type:text;not null" json:"category"`
	Difficulty  Difficulty `gorm:"type:text;not null" json:"difficulty"`
	// Frozen at creation time.
	XPReward int             `gorm:"column:xp_reward;not null;default:0;check:xp_reward >= 0" json:"xpReward"`
	Deadline *datatypes.Date `gorm:"index" json:"deadline,omitempty"`
	Status   MissionStatus   `gorm:"type:text;not null;default:'pending';index:idx_missions_user_status,priority:2" json:"status"`

	ObjectiveID *string `gorm:"type:text;index" json:"objectiveId,omitempty"`
	ScheduleID  *string `gorm:"type:text;index" json:"scheduleId,omitempty"`

	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Profile   *Profile   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Objective *Objective `gorm:"foreignKey:ObjectiveID;constraint:OnDelete:SET NULL" json:"-"`
	Schedule  *Schedule  `gorm:"foreignKey:ScheduleID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Mission) TableName() string {
	return "missions"
}

func (m *Mission) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Status == "" {
		m.Status = MissionPending
	}
	return nil
}
