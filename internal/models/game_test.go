package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGameGoalHelpers(t *testing.T) {
	home, away := uuid.New(), uuid.New()
	three, one := 3, 1

	game := &Game{
		ID:         uuid.New(),
		HomeTeamID: home,
		AwayTeamID: away,
		HomeScore:  &three,
		AwayScore:  &one,
	}

	assert.True(t, game.HasScores())
	assert.True(t, game.Involves(home))
	assert.False(t, game.Involves(uuid.New()))
	assert.Equal(t, away, game.OpponentOf(home))
	assert.Equal(t, home, game.OpponentOf(away))

	diff, ok := game.GoalDiffFor(home)
	assert.True(t, ok)
	assert.Equal(t, 2, diff)

	diff, ok = game.GoalDiffFor(away)
	assert.True(t, ok)
	assert.Equal(t, -2, diff)

	gf, _ := game.GoalsFor(away)
	ga, _ := game.GoalsAgainst(away)
	assert.Equal(t, 1, gf)
	assert.Equal(t, 3, ga)

	assert.True(t, game.WonBy(home))
	assert.False(t, game.WonBy(away))
}

func TestGameMissingScores(t *testing.T) {
	home, away := uuid.New(), uuid.New()
	three := 3

	game := &Game{HomeTeamID: home, AwayTeamID: away, HomeScore: &three}

	assert.False(t, game.HasScores())

	_, ok := game.GoalDiffFor(home)
	assert.False(t, ok)
	assert.False(t, game.WonBy(home))
}
