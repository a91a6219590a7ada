package droptable

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opennergame/boxgame-server/internal/catalog"
	"github.com/opennergame/boxgame-server/internal/domain"
)

const tableTestCatalog = `{
  "rarity_weights": {"common": 9000, "uncommon": 4000, "rare": 2000, "epic": 1000, "legendary": 300, "mythic": 50, "ancestral": 5},
  "grade_probabilities": {"E":0.30,"F":0.25,"D":0.17,"C":0.12,"B":0.08,"A":0.05,"S":0.025,"M":0.005},
  "bonus_variant_chance": 0.015,
  "bonus_variant_multiplier": 1.8,
  "luck": {"max_boost": 1.5, "half_point": 50, "max_tier_share": 0.25, "min_tier": "epic"},
  "weapons": [
    {"id": 1, "name": "Rusty Pistol", "type": "pistol", "rarity": "common", "base_price": 500},
    {"id": 2, "name": "Field Knife", "type": "knife", "rarity": "uncommon", "base_price": 1200},
    {"id": 3, "name": "Marksman", "type": "rifle", "rarity": "rare", "base_price": 4500},
    {"id": 4, "name": "Storm Rifle", "type": "rifle", "rarity": "epic", "base_price": 20000},
    {"id": 5, "name": "Dragonfire", "type": "rifle", "rarity": "legendary", "base_price": 90000},
    {"id": 6, "name": "Voidreaver", "type": "sword", "rarity": "mythic", "base_price": 400000}
  ],
  "boxes": [
    {"id": 1, "name": "Thunder", "price": 5000, "experience": 25, "weapon_ids": [1,2,3,4,5,6]},
    {"id": 2, "name": "Hollow", "price": 0, "experience": 5, "weapon_ids": []}
  ]
}`

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	c, err := catalog.Parse([]byte(tableTestCatalog))
	require.NoError(t, err)
	return NewBuilder(c)
}

func TestBuildNormalizes(t *testing.T) {
	b := newTestBuilder(t)

	for _, luck := range []float64{0, 1, 10, 50, 1000, 1e9} {
		table, err := b.Build(1, luck)
		require.NoError(t, err)

		var sum float64
		for _, e := range table.Entries {
			assert.Greater(t, e.Probability, 0.0)
			sum += e.Probability
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "luck=%f", luck)
		assert.InDelta(t, 1.0, table.Entries[len(table.Entries)-1].Cumulative, 1e-12)
	}
}

func TestBuildOrdersByWeaponID(t *testing.T) {
	b := newTestBuilder(t)
	table, err := b.Build(1, 25)
	require.NoError(t, err)

	for i := 1; i < len(table.Entries); i++ {
		assert.Less(t, table.Entries[i-1].WeaponID, table.Entries[i].WeaponID)
		assert.GreaterOrEqual(t, table.Entries[i].Cumulative, table.Entries[i-1].Cumulative)
	}
}

func TestLuckMonotonicity(t *testing.T) {
	b := newTestBuilder(t)

	prev := -1.0
	for _, luck := range []float64{0, 1, 5, 10, 25, 50, 100, 500, 10000} {
		table, err := b.Build(1, luck)
		require.NoError(t, err)

		share := table.TierShare(domain.RarityEpic)
		assert.GreaterOrEqual(t, share+1e-12, prev, "epic+ share decreased at luck=%f", luck)
		prev = share
	}
}

func TestLuckRedistributesTowardRareTiers(t *testing.T) {
	b := newTestBuilder(t)

	base, err := b.Build(1, 0)
	require.NoError(t, err)
	boosted, err := b.Build(1, 40)
	require.NoError(t, err)

	baseProbs := base.Probabilities()
	boostedProbs := boosted.Probabilities()

	// Epic and rarer strictly gain, common strictly loses.
	assert.Greater(t, boostedProbs[4], baseProbs[4])
	assert.Greater(t, boostedProbs[5], baseProbs[5])
	assert.Greater(t, boostedProbs[6], baseProbs[6])
	assert.Less(t, boostedProbs[1], baseProbs[1])
}

func TestLuckBoostSaturates(t *testing.T) {
	b := newTestBuilder(t)

	big, err := b.Build(1, 1e12)
	require.NoError(t, err)
	bigger, err := b.Build(1, 1e13)
	require.NoError(t, err)

	assert.InDelta(t, big.TierShare(domain.RarityEpic), bigger.TierShare(domain.RarityEpic), 1e-9)
}

func TestTierShareCap(t *testing.T) {
	// Epic carries enough weight here that the boost pushes its share well
	// past the cap without one.
	const raw = `{
	  "rarity_weights": {"common": 1000, "epic": 600},
	  "grade_probabilities": {"E":0.30,"F":0.25,"D":0.17,"C":0.12,"B":0.08,"A":0.05,"S":0.025,"M":0.005},
	  "bonus_variant_chance": 0.015,
	  "bonus_variant_multiplier": 1.8,
	  "luck": {"max_boost": 1.5, "half_point": 50, "max_tier_share": 0.25, "min_tier": "epic"},
	  "weapons": [
	    {"id": 1, "name": "Rusty Pistol", "type": "pistol", "rarity": "common", "base_price": 500},
	    {"id": 2, "name": "Storm Rifle", "type": "rifle", "rarity": "epic", "base_price": 20000}
	  ],
	  "boxes": [{"id": 1, "name": "Thunder", "price": 5000, "experience": 25, "weapon_ids": [1,2]}]
	}`
	c, err := catalog.Parse([]byte(raw))
	require.NoError(t, err)
	b := NewBuilder(c)

	table, err := b.Build(1, 1e12)
	require.NoError(t, err)

	byTier := make(map[domain.RarityTier]float64)
	var sum float64
	for _, e := range table.Entries {
		byTier[e.Rarity] += e.Probability
		sum += e.Probability
	}
	assert.InDelta(t, c.Luck().MaxTierShare, byTier[domain.RarityEpic], 1e-9)
	assert.InDelta(t, 1.0, sum, 1e-9)
}

// highTierCatalog holds a box of boosted tiers only, with enough weight on
// epic and legendary that capping them spills over onto mythic.
const highTierCatalog = `{
  "rarity_weights": {"epic": 20, "legendary": 18, "mythic": 6, "ancestral": 2},
  "grade_probabilities": {"E":0.30,"F":0.25,"D":0.17,"C":0.12,"B":0.08,"A":0.05,"S":0.025,"M":0.005},
  "bonus_variant_chance": 0.015,
  "bonus_variant_multiplier": 1.8,
  "luck": {"max_boost": 1.0, "half_point": 100, "max_tier_share": 0.25, "min_tier": "epic"},
  "weapons": [
    {"id": 1, "name": "Storm Rifle", "type": "rifle", "rarity": "epic", "base_price": 20000},
    {"id": 2, "name": "Dragonfire", "type": "rifle", "rarity": "legendary", "base_price": 90000},
    {"id": 3, "name": "Voidreaver", "type": "sword", "rarity": "mythic", "base_price": 400000},
    {"id": 4, "name": "Worldsplitter", "type": "sword", "rarity": "ancestral", "base_price": 2000000}
  ],
  "boxes": [
    {"id": 1, "name": "Reliquary", "price": 600000, "experience": 500, "weapon_ids": [1,2,3,4]},
    {"id": 2, "name": "Rift", "price": 120000, "experience": 100, "weapon_ids": [1]}
  ]
}`

func TestTierShareCapCascades(t *testing.T) {
	c, err := catalog.Parse([]byte(highTierCatalog))
	require.NoError(t, err)
	b := NewBuilder(c)

	table, err := b.Build(1, 50)
	require.NoError(t, err)

	byTier := make(map[domain.RarityTier]float64)
	var sum float64
	for _, e := range table.Entries {
		byTier[e.Rarity] += e.Probability
		sum += e.Probability
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	// Capping epic and legendary must not push the spillover tiers past the
	// cap in turn.
	maxShare := c.Luck().MaxTierShare
	for tier, share := range byTier {
		assert.LessOrEqual(t, share, maxShare+1e-9, "tier %s exceeds the share cap", tier)
	}
	assert.GreaterOrEqual(t, byTier[domain.RarityLegendary]+1e-9, byTier[domain.RarityMythic])
}

func TestTierShareCapAllCapped(t *testing.T) {
	c, err := catalog.Parse([]byte(highTierCatalog))
	require.NoError(t, err)
	b := NewBuilder(c)

	// A box holding a single boosted tier cannot honor the cap; the
	// distribution must stay normalized anyway.
	table, err := b.Build(2, 50)
	require.NoError(t, err)

	var sum float64
	for _, e := range table.Entries {
		assert.Greater(t, e.Probability, 0.0)
		sum += e.Probability
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.InDelta(t, 1.0, table.Entries[len(table.Entries)-1].Cumulative, 1e-12)
}

func TestBaseDistributionUncapped(t *testing.T) {
	c, err := catalog.Parse([]byte(highTierCatalog))
	require.NoError(t, err)
	b := NewBuilder(c)

	table, err := b.Build(1, 0)
	require.NoError(t, err)

	// At luck 0 the table is the plain normalized rarity weights: epic may
	// sit above the boost cap and rarity order is preserved.
	probs := table.Probabilities()
	assert.InDelta(t, 20.0/46.0, probs[1], 1e-9)
	assert.InDelta(t, 18.0/46.0, probs[2], 1e-9)
	assert.InDelta(t, 6.0/46.0, probs[3], 1e-9)
	assert.InDelta(t, 2.0/46.0, probs[4], 1e-9)
	assert.Greater(t, probs[1], c.Luck().MaxTierShare)
	assert.Greater(t, probs[2], probs[3])
}

func TestBuildErrors(t *testing.T) {
	b := newTestBuilder(t)

	_, err := b.Build(42, 0)
	assert.ErrorIs(t, err, domain.ErrUnknownBox)

	_, err = b.Build(2, 0)
	assert.ErrorIs(t, err, domain.ErrEmptyBox)
}

func TestNegativeLuckTreatedAsZero(t *testing.T) {
	b := newTestBuilder(t)

	base, err := b.Build(1, 0)
	require.NoError(t, err)
	neg, err := b.Build(1, -5)
	require.NoError(t, err)

	for i := range base.Entries {
		assert.True(t, math.Abs(base.Entries[i].Probability-neg.Entries[i].Probability) < 1e-12)
	}
}
