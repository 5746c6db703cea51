package progression

import (
	"fmt"
	"time"

	"github.com/lifequest/backend/internal/models"
)

const (
	DefaultWindowStart = 8
	DefaultWindowEnd   = 20
)

// Gate decides whether missions may be generated at a given instant. The
// hour window is fixed and does not depend on a schedule's frequency.
type Gate struct {
	StartHour int // inclusive
	EndHour   int // inclusive
}

var DefaultGate = Gate{StartHour: DefaultWindowStart, EndHour: DefaultWindowEnd}

// NewGate validates hour bounds.
func NewGate(start, end int) (Gate, error) {
	if start < 0 || start > 23 || end < 0 || end > 23 || start > end {
		return Gate{}, fmt.Errorf("invalid generation window %d-%d", start, end)
	}
	return Gate{StartHour: start, EndHour: end}, nil
}

// InWindow reports whether now's hour-of-day falls inside the gate.
func (g Gate) InWindow(now time.Time) bool {
	h := now.Hour()
	return h >= g.StartHour && h <= g.EndHour
}

// Covers reports whether the schedule is active and now falls within its
// date range. Dates compare by calendar day; end_date includes its whole day.
func Covers(s models.Schedule, now time.Time) bool {
	if !s.IsActive {
		return false
	}
	today := models.TimeDayKey(now)
	if today < models.DayKey(s.StartDate) {
		return false
	}
	if s.EndDate != nil && today > models.DayKey(*s.EndDate) {
		return false
	}
	return true
}

// OpenSchedule returns the first schedule that currently permits generation.
func (g Gate) OpenSchedule(schedules []models.Schedule, now time.Time) (*models.Schedule, bool) {
	if !g.InWindow(now) {
		return nil, false
	}
	for i := range schedules {
		if Covers(schedules[i], now) {
			return &schedules[i], true
		}
	}
	return nil, false
}

// CanGenerate reports whether at least one schedule permits generation now.
func (g Gate) CanGenerate(schedules []models.Schedule, now time.Time) bool {
	_, ok := g.OpenSchedule(schedules, now)
	return ok
}

// CanGenerateMissionsNow applies the default 8-20h gate.
func CanGenerateMissionsNow(schedules []models.Schedule, now time.Time) bool {
	return DefaultGate.CanGenerate(schedules, now)
}
