package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TeamRanking is a read-only snapshot of a team's standing as published by
// the upstream ranking pipeline. All normalized fields live in [0,1];
// Offense and Defense are nil when the pipeline could not derive them, which
// is distinct from a true 0 rating.
type TeamRanking struct {
	ID          uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	Name        string    `db:"name" json:"name" validate:"required"`
	AgeGroup    string    `db:"age_group" json:"age_group" validate:"required"`
	PowerScore  float64   `db:"power_score" json:"power_score" validate:"gte=0,lte=1"`
	SOS         float64   `db:"sos" json:"sos" validate:"gte=0,lte=1"`
	Offense     *float64  `db:"offense" json:"offense,omitempty"`
	Defense     *float64  `db:"defense" json:"defense,omitempty"`
	GamesPlayed int       `db:"games_played" json:"games_played" validate:"gte=0"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// NeutralRating substitutes for any missing normalized field.
const NeutralRating = 0.5

// OffenseOrNeutral returns the offense rating, or the neutral default when absent.
func (t *TeamRanking) OffenseOrNeutral() float64 {
	if t.Offense == nil {
		return NeutralRating
	}
	return *t.Offense
}

// DefenseOrNeutral returns the defense rating, or the neutral default when absent.
func (t *TeamRanking) DefenseOrNeutral() float64 {
	if t.Defense == nil {
		return NeutralRating
	}
	return *t.Defense
}

// AgeNumber parses the numeric part of an age group label such as "U12" or
// "12U". Returns 0 when the label carries no number.
func (t *TeamRanking) AgeNumber() int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, t.AgeGroup)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}
