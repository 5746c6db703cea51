package models

import (
	"time"

	"gorm.io/datatypes"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

type Category string

const (
	CategorySport   Category = "sport"
	CategoryStudies Category = "studies"
	CategoryRoutine Category = "routine"
)

// Categories is the fixed set missions are generated for, in generation order.
var Categories = []Category{CategorySport, CategoryStudies, CategoryRoutine}

func (c Category) IsValid() bool {
	switch c {
	case CategorySport, CategoryStudies, CategoryRoutine:
		return true
	default:
		return false
	}
}

type Stat string

const (
	StatStrength     Stat = "strength"
	StatIntelligence Stat = "intelligence"
	StatMotivation   Stat = "motivation"
)

var AllStats = []Stat{StatStrength, StatIntelligence, StatMotivation}

// Stats are the secondary attributes raised on level-up.
type Stats struct {
	Strength     int `json:"strength"`
	Intelligence int `json:"intelligence"`
	Motivation   int `json:"motivation"`
}

func (s Stats) Total() int {
	return s.Strength + s.Intelligence + s.Motivation
}

// Inc returns a copy with the named stat raised by one.
func (s Stats) Inc(stat Stat) Stats {
	switch stat {
	case StatStrength:
		s.Strength++
	case StatIntelligence:
		s.Intelligence++
	case StatMotivation:
		s.Motivation++
	}
	return s
}

// DateOf truncates t to its calendar day in t's location and stores it as UTC midnight.
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// ParseDate parses a YYYY-MM-DD string into a date column value.
func ParseDate(s string) (datatypes.Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}

// DayKey maps a date to a sortable yyyymmdd integer using the date's own calendar fields.
func DayKey(d datatypes.Date) int {
	return dayKey(time.Time(d))
}

// TimeDayKey is DayKey for a wall-clock instant in its own location.
func TimeDayKey(t time.Time) int {
	return dayKey(t)
}

func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
