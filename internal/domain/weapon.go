package domain

// RarityTier classifies a weapon by how rarely it drops. The ordering below
// (Common lowest) is load-bearing: luck boosts apply to tiers at or above a
// configured threshold tier.
type RarityTier string

const (
	RarityCommon    RarityTier = "common"
	RarityUncommon  RarityTier = "uncommon"
	RarityRare      RarityTier = "rare"
	RarityEpic      RarityTier = "epic"
	RarityLegendary RarityTier = "legendary"
	RarityMythic    RarityTier = "mythic"
	RarityAncestral RarityTier = "ancestral"
)

// rarityOrder maps each tier to its position in the worst-to-best ordering.
var rarityOrder = map[RarityTier]int{
	RarityCommon:    0,
	RarityUncommon:  1,
	RarityRare:      2,
	RarityEpic:      3,
	RarityLegendary: 4,
	RarityMythic:    5,
	RarityAncestral: 6,
}

// AllRarities lists every tier in ascending order.
var AllRarities = []RarityTier{
	RarityCommon, RarityUncommon, RarityRare, RarityEpic,
	RarityLegendary, RarityMythic, RarityAncestral,
}

// Order returns the tier's position in the ordering, or -1 for an unknown tier.
func (r RarityTier) Order() int {
	if o, ok := rarityOrder[r]; ok {
		return o
	}
	return -1
}

// Valid reports whether the tier is one of the known values.
func (r RarityTier) Valid() bool {
	return r.Order() >= 0
}

// AtLeast reports whether the tier is at or above the given tier.
func (r RarityTier) AtLeast(other RarityTier) bool {
	return r.Order() >= other.Order()
}

// PassiveKind identifies the stat a passive effect contributes to.
type PassiveKind string

const (
	PassiveLuck             PassiveKind = "luck"
	PassiveBoxCostReduction PassiveKind = "box_cost_reduction"
	PassiveExpBonus         PassiveKind = "exp_bonus"
	PassiveWeaponValueBonus PassiveKind = "weapon_value_bonus"
	PassiveIncomeRate       PassiveKind = "income_rate"
)

// PassiveEffect is the bonus a weapon grants its owner while held.
// Magnitude is the base contribution at grade E; the effective contribution
// scales with the item's grade and doubles for bonus variants.
type PassiveEffect struct {
	Kind      PassiveKind `json:"kind"`
	Magnitude float64     `json:"magnitude"`
	Stackable bool        `json:"stackable"`
}

// Weapon is a catalog entity. Instances are immutable after catalog load.
type Weapon struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Type      string         `json:"type"`
	Rarity    RarityTier     `json:"rarity"`
	BasePrice int64          `json:"base_price"` // cents
	Boxes     []int          `json:"boxes"`
	Passive   *PassiveEffect `json:"passive,omitempty"`
}

// InBox reports whether the weapon can drop from the given box.
func (w *Weapon) InBox(boxID int) bool {
	for _, id := range w.Boxes {
		if id == boxID {
			return true
		}
	}
	return false
}

// Box is a purchasable container yielding one weapon per opening.
type Box struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"` // cents, may be zero
	Experience int    `json:"experience"`
	WeaponIDs  []int  `json:"weapon_ids"`
}
