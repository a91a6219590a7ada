package droptable

import (
	"fmt"

	"github.com/opennergame/boxgame-server/internal/catalog"
	"github.com/opennergame/boxgame-server/internal/domain"
	"github.com/opennergame/boxgame-server/internal/utils"
)

// Entry is one weapon's slot in a built drop table. Entries are ordered by
// ascending weapon id; Cumulative is the running probability sum used by the
// resolver's single-pass walk.
type Entry struct {
	WeaponID    int
	Rarity      domain.RarityTier
	Probability float64
	Cumulative  float64
}

// Table is a normalized probability distribution over a box's weapons for a
// given luck value. Tables are immutable once built.
type Table struct {
	BoxID   int
	Luck    float64
	Entries []Entry
}

// Probabilities returns the distribution as a weapon id -> probability map.
func (t *Table) Probabilities() map[int]float64 {
	out := make(map[int]float64, len(t.Entries))
	for _, e := range t.Entries {
		out[e.WeaponID] = e.Probability
	}
	return out
}

// TierShare returns the summed probability mass of tiers at or above min.
func (t *Table) TierShare(min domain.RarityTier) float64 {
	var share float64
	for _, e := range t.Entries {
		if e.Rarity.AtLeast(min) {
			share += e.Probability
		}
	}
	return share
}

// Builder converts a box's rarity weights into probability tables, applying
// the player's luck boost. Builds are pure and side-effect-free, so the same
// builder serves both the authoritative draw and the read-only preview.
type Builder struct {
	catalog *catalog.Catalog
}

// NewBuilder creates a Builder over the given catalog.
func NewBuilder(c *catalog.Catalog) *Builder {
	return &Builder{catalog: c}
}

// Build constructs the drop table for a box at the given luck. luck=0 yields
// the base distribution.
func (b *Builder) Build(boxID int, luck float64) (*Table, error) {
	if b.catalog.Box(boxID) == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrUnknownBox, boxID)
	}

	weapons := b.catalog.WeaponsForBox(boxID)
	if len(weapons) == 0 {
		return nil, fmt.Errorf("%w: box %d", domain.ErrEmptyBox, boxID)
	}
	if luck < 0 {
		luck = 0
	}

	lp := b.catalog.Luck()
	boost := 1.0 + lp.MaxBoost*utils.DiminishingReturns(luck, lp.HalfPoint)

	weights := make([]float64, len(weapons))
	var total float64
	for i, w := range weapons {
		weight := b.catalog.RarityWeight(w.Rarity)
		if luck > 0 && w.Rarity.AtLeast(lp.MinTier) {
			weight *= boost
		}
		weights[i] = weight
		total += weight
	}

	shares := make([]float64, len(weapons))
	for i := range weights {
		shares[i] = weights[i] / total
	}
	// The share cap belongs to the luck boost; the base distribution is the
	// plain normalized rarity weights.
	if luck > 0 {
		capTierShares(weapons, shares, lp)
	}

	entries := make([]Entry, len(weapons))
	var cumulative float64
	for i, w := range weapons {
		cumulative += shares[i]
		entries[i] = Entry{
			WeaponID:    w.ID,
			Rarity:      w.Rarity,
			Probability: shares[i],
			Cumulative:  cumulative,
		}
	}
	// Absorb float residue; the walk must never fall through.
	entries[len(entries)-1].Cumulative = 1.0

	return &Table{BoxID: boxID, Luck: luck, Entries: entries}, nil
}

// capTierShares clamps every boosted tier whose summed share exceeds
// MaxTierShare, redistributing the excess proportionally across the entries
// of tiers still under the cap. Redistribution can push another boosted tier
// over the limit, so the clamp repeats until every boosted tier fits. Shares
// still sum to 1 afterwards. When every entry belongs to a capped tier the
// limit is unsatisfiable and the shares are renormalized instead.
func capTierShares(weapons []*domain.Weapon, shares []float64, lp catalog.LuckParams) {
	capped := make(map[domain.RarityTier]bool)
	for {
		tierShare := make(map[domain.RarityTier]float64)
		for i, w := range weapons {
			if w.Rarity.AtLeast(lp.MinTier) && !capped[w.Rarity] {
				tierShare[w.Rarity] += shares[i]
			}
		}

		var excess float64
		offending := make(map[domain.RarityTier]bool)
		for tier, share := range tierShare {
			if share > lp.MaxTierShare+1e-12 {
				offending[tier] = true
				excess += share - lp.MaxTierShare
			}
		}
		if len(offending) == 0 {
			return
		}

		for i, w := range weapons {
			if offending[w.Rarity] {
				shares[i] *= lp.MaxTierShare / tierShare[w.Rarity]
			}
		}
		for tier := range offending {
			capped[tier] = true
		}

		var freeMass float64
		for i, w := range weapons {
			if !capped[w.Rarity] {
				freeMass += shares[i]
			}
		}
		if freeMass <= 0 {
			renormalize(shares)
			return
		}
		for i, w := range weapons {
			if !capped[w.Rarity] {
				shares[i] += excess * shares[i] / freeMass
			}
		}
	}
}

func renormalize(shares []float64) {
	var sum float64
	for _, s := range shares {
		sum += s
	}
	if sum <= 0 {
		return
	}
	for i := range shares {
		shares[i] /= sum
	}
}
