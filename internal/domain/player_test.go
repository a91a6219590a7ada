package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpForLevel(t *testing.T) {
	assert.Equal(t, int64(100), ExpForLevel(1))  // 1*100 + 0*50
	assert.Equal(t, int64(250), ExpForLevel(2))  // 2*100 + 1*50
	assert.Equal(t, int64(400), ExpForLevel(3))  // 3*100 + 2*50
	assert.Equal(t, int64(0), ExpForLevel(0))
}

func TestLevelForExperience(t *testing.T) {
	assert.Equal(t, 1, LevelForExperience(0))
	assert.Equal(t, 1, LevelForExperience(99))
	assert.Equal(t, 2, LevelForExperience(100))
	assert.Equal(t, 2, LevelForExperience(349))
	assert.Equal(t, 3, LevelForExperience(350)) // 100 + 250
	assert.Equal(t, 4, LevelForExperience(750)) // 100 + 250 + 400
}

func TestGradeMultipliers(t *testing.T) {
	assert.InDelta(t, 1.0, GradeE.PriceMultiplier(), 1e-12)
	assert.InDelta(t, 3.5, GradeS.PriceMultiplier(), 1e-12)
	assert.InDelta(t, 6.0, GradeM.PriceMultiplier(), 1e-12)
	assert.InDelta(t, 1.0, QualityGrade("?").PriceMultiplier(), 1e-12)

	// Passive curve is flatter than the price curve above grade E.
	for _, g := range AllGrades[1:] {
		assert.LessOrEqual(t, g.PassiveMultiplier(), g.PriceMultiplier(), "grade %s", g)
	}
}

func TestRarityOrdering(t *testing.T) {
	assert.True(t, RarityEpic.AtLeast(RarityEpic))
	assert.True(t, RarityAncestral.AtLeast(RarityEpic))
	assert.False(t, RarityRare.AtLeast(RarityEpic))
	assert.False(t, RarityTier("bogus").Valid())

	for i, r := range AllRarities {
		assert.Equal(t, i, r.Order())
	}
}
