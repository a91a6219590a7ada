package catalog

import (
	"sort"

	"github.com/opennergame/boxgame-server/internal/domain"
)

// LuckParams are the tunable constants of the luck-boost curve.
// boost(luck) = 1 + MaxBoost * luck/(luck+HalfPoint), applied to the weights
// of tiers at or above MinTier, then renormalized. Monotonic in luck and
// saturating at 1+MaxBoost; MaxTierShare clamps any single boosted tier.
type LuckParams struct {
	MaxBoost     float64           `json:"max_boost"`
	HalfPoint    float64           `json:"half_point"`
	MaxTierShare float64           `json:"max_tier_share"`
	MinTier      domain.RarityTier `json:"min_tier"`
}

// GradeProb is one entry of the fixed grade draw table.
type GradeProb struct {
	Grade       domain.QualityGrade
	Probability float64
	Cumulative  float64
}

// Catalog is the read-only runtime representation of the game's content.
// Built once at startup, shared by reference, never mutated afterwards.
type Catalog struct {
	weapons map[int]*domain.Weapon
	boxes   map[int]*domain.Box

	rarityWeights map[domain.RarityTier]float64
	gradeTable    []GradeProb

	luck LuckParams

	bonusVariantChance     float64
	bonusVariantMultiplier float64
}

// Weapon returns the weapon with the given id, or nil.
func (c *Catalog) Weapon(id int) *domain.Weapon {
	return c.weapons[id]
}

// Box returns the box with the given id, or nil.
func (c *Catalog) Box(id int) *domain.Box {
	return c.boxes[id]
}

// Boxes returns all boxes ordered by id.
func (c *Catalog) Boxes() []*domain.Box {
	out := make([]*domain.Box, 0, len(c.boxes))
	for _, b := range c.boxes {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Weapons returns all weapons ordered by id.
func (c *Catalog) Weapons() []*domain.Weapon {
	out := make([]*domain.Weapon, 0, len(c.weapons))
	for _, w := range c.weapons {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// WeaponsForBox returns the box's eligible weapons in ascending id order.
// The ordering is load-bearing: the reward resolver's cumulative walk relies
// on it being stable.
func (c *Catalog) WeaponsForBox(boxID int) []*domain.Weapon {
	box, ok := c.boxes[boxID]
	if !ok {
		return nil
	}
	out := make([]*domain.Weapon, 0, len(box.WeaponIDs))
	for _, id := range box.WeaponIDs {
		if w, ok := c.weapons[id]; ok {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RarityWeight returns the base drop weight for the tier.
func (c *Catalog) RarityWeight(tier domain.RarityTier) float64 {
	return c.rarityWeights[tier]
}

// GradeTable returns the fixed grade draw table with cumulative probabilities.
func (c *Catalog) GradeTable() []GradeProb {
	return c.gradeTable
}

// Luck returns the luck-boost parameters.
func (c *Catalog) Luck() LuckParams {
	return c.luck
}

// BonusVariantChance is the flat probability of the stat-tracked variant.
func (c *Catalog) BonusVariantChance() float64 {
	return c.bonusVariantChance
}

// BonusVariantMultiplier is the price factor applied to bonus variants.
func (c *Catalog) BonusVariantMultiplier() float64 {
	return c.bonusVariantMultiplier
}
