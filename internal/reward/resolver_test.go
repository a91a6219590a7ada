package reward

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opennergame/boxgame-server/internal/catalog"
	"github.com/opennergame/boxgame-server/internal/domain"
	"github.com/opennergame/boxgame-server/internal/droptable"
)

const resolverTestCatalog = `{
  "rarity_weights": {"common": 7000, "epic": 3000},
  "grade_probabilities": {"E":0.30,"F":0.25,"D":0.17,"C":0.12,"B":0.08,"A":0.05,"S":0.025,"M":0.005},
  "bonus_variant_chance": 0.015,
  "bonus_variant_multiplier": 1.8,
  "luck": {"max_boost": 1.5, "half_point": 50, "max_tier_share": 0.25, "min_tier": "epic"},
  "weapons": [
    {"id": 1, "name": "Rusty Pistol", "type": "pistol", "rarity": "common", "base_price": 1000},
    {"id": 2, "name": "Storm Rifle", "type": "rifle", "rarity": "epic", "base_price": 20000}
  ],
  "boxes": [{"id": 1, "name": "Thunder", "price": 5000, "experience": 25, "weapon_ids": [1,2]}]
}`

func resolverFixture(t *testing.T, rnd func() float64) (*Resolver, *droptable.Table) {
	t.Helper()
	c, err := catalog.Parse([]byte(resolverTestCatalog))
	require.NoError(t, err)
	table, err := droptable.NewBuilder(c).Build(1, 0)
	require.NoError(t, err)
	return NewResolverWithRand(c, rnd), table
}

// rollSequence feeds a fixed sequence of rolls, then zeroes.
func rollSequence(rolls ...float64) func() float64 {
	i := 0
	return func() float64 {
		if i < len(rolls) {
			v := rolls[i]
			i++
			return v
		}
		return 0
	}
}

func TestWeightedDrawFairness(t *testing.T) {
	// Two-weapon 70/30 split: over 100k draws the observed frequency must be
	// within one percentage point.
	rng := rand.New(rand.NewSource(7))
	resolver, table := resolverFixture(t, rng.Float64)

	const n = 100000
	counts := map[int]int{}
	for i := 0; i < n; i++ {
		outcome, err := resolver.Resolve(table)
		require.NoError(t, err)
		counts[outcome.Weapon.ID]++
	}

	assert.InDelta(t, 0.70, float64(counts[1])/n, 0.01)
	assert.InDelta(t, 0.30, float64(counts[2])/n, 0.01)
}

func TestDrawClampsFloatResidue(t *testing.T) {
	// A roll at the very top of [0,1) must still land on the last entry even
	// if cumulative sums drifted below 1.
	resolver, table := resolverFixture(t, rollSequence(0.9999999999999999, 0.0, 0.9))
	outcome, err := resolver.Resolve(table)
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Weapon.ID)
}

func TestGradeDrawBoundaries(t *testing.T) {
	c, err := catalog.Parse([]byte(resolverTestCatalog))
	require.NoError(t, err)

	cases := []struct {
		roll float64
		want domain.QualityGrade
	}{
		{0.0, domain.GradeE},
		{0.2999, domain.GradeE},
		{0.30, domain.GradeF},
		{0.5499, domain.GradeF},
		{0.55, domain.GradeD},
		{0.994, domain.GradeS},
		{0.995, domain.GradeM},
		{0.9999999, domain.GradeM},
	}
	for _, tc := range cases {
		resolver := NewResolverWithRand(c, rollSequence(0.0, tc.roll, 0.9))
		table, err := droptable.NewBuilder(c).Build(1, 0)
		require.NoError(t, err)
		outcome, err := resolver.Resolve(table)
		require.NoError(t, err)
		assert.Equal(t, tc.want, outcome.Grade, "roll=%f", tc.roll)
	}
}

func TestFinalPriceRounding(t *testing.T) {
	resolver, _ := resolverFixture(t, rollSequence())

	weapon := &domain.Weapon{ID: 9, BasePrice: 1000} // $10.00

	// Grade S (x3.5), no bonus: exactly $35.00.
	assert.Equal(t, int64(3500), resolver.FinalPrice(weapon, domain.GradeS, false))
	// Grade S with bonus variant: 10.00 * 3.5 * 1.8 = $63.00.
	assert.Equal(t, int64(6300), resolver.FinalPrice(weapon, domain.GradeS, true))

	// Half-up rounding: 1001 * 1.5 = 1501.5 -> 1502.
	odd := &domain.Weapon{ID: 10, BasePrice: 1001}
	assert.Equal(t, int64(1502), resolver.FinalPrice(odd, domain.GradeD, false))
}

func TestBonusVariantRoll(t *testing.T) {
	// Third roll below the chance threshold flags the variant.
	resolver, table := resolverFixture(t, rollSequence(0.0, 0.0, 0.0149))
	outcome, err := resolver.Resolve(table)
	require.NoError(t, err)
	assert.True(t, outcome.BonusVariant)
	assert.Equal(t, int64(1800), outcome.FinalPrice) // 1000 * 1.0 * 1.8

	resolver, table = resolverFixture(t, rollSequence(0.0, 0.0, 0.015))
	outcome, err = resolver.Resolve(table)
	require.NoError(t, err)
	assert.False(t, outcome.BonusVariant)
	assert.Equal(t, int64(1000), outcome.FinalPrice)
}

func TestLuckShiftsObservedDistribution(t *testing.T) {
	c, err := catalog.Parse([]byte(resolverTestCatalog))
	require.NoError(t, err)
	builder := droptable.NewBuilder(c)

	base, err := builder.Build(1, 0)
	require.NoError(t, err)
	lucky, err := builder.Build(1, 30)
	require.NoError(t, err)

	assert.Greater(t, lucky.Probabilities()[2], base.Probabilities()[2])

	rng := rand.New(rand.NewSource(11))
	resolver := NewResolverWithRand(c, rng.Float64)

	const n = 50000
	var epicBase, epicLucky int
	for i := 0; i < n; i++ {
		o, err := resolver.Resolve(base)
		require.NoError(t, err)
		if o.Weapon.ID == 2 {
			epicBase++
		}
		o, err = resolver.Resolve(lucky)
		require.NoError(t, err)
		if o.Weapon.ID == 2 {
			epicLucky++
		}
	}
	assert.Greater(t, epicLucky, epicBase)
}
