package reward

import (
	"fmt"

	"github.com/opennergame/boxgame-server/internal/catalog"
	"github.com/opennergame/boxgame-server/internal/domain"
	"github.com/opennergame/boxgame-server/internal/droptable"
	"github.com/opennergame/boxgame-server/internal/utils"
)

// Resolver draws one RewardOutcome from a drop table. The randomness source
// is injected so tests can drive deterministic draws.
type Resolver struct {
	catalog *catalog.Catalog
	rnd     func() float64
}

// NewResolver creates a Resolver using the default randomness source.
func NewResolver(c *catalog.Catalog) *Resolver {
	return NewResolverWithRand(c, utils.RandomFloat)
}

// NewResolverWithRand creates a Resolver with an explicit randomness source.
func NewResolverWithRand(c *catalog.Catalog, rnd func() float64) *Resolver {
	return &Resolver{catalog: c, rnd: rnd}
}

// Resolve draws a weapon, a quality grade and the bonus-variant flag, then
// computes the final price. The three draws are independent.
func (r *Resolver) Resolve(table *droptable.Table) (*domain.RewardOutcome, error) {
	entry := drawWeapon(table, r.rnd())
	weapon := r.catalog.Weapon(entry.WeaponID)
	if weapon == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrUnknownWeapon, entry.WeaponID)
	}

	grade := r.drawGrade(r.rnd())
	bonus := r.rnd() < r.catalog.BonusVariantChance()

	return &domain.RewardOutcome{
		Weapon:       weapon,
		Grade:        grade,
		BonusVariant: bonus,
		FinalPrice:   r.FinalPrice(weapon, grade, bonus),
	}, nil
}

// FinalPrice computes the item's price in cents: base price times the grade
// multiplier, times the bonus-variant multiplier when set, rounded half-up
// exactly once.
func (r *Resolver) FinalPrice(weapon *domain.Weapon, grade domain.QualityGrade, bonus bool) int64 {
	price := float64(weapon.BasePrice) * grade.PriceMultiplier()
	if bonus {
		price *= r.catalog.BonusVariantMultiplier()
	}
	return utils.RoundHalfUpCents(price)
}

// drawWeapon walks the cumulative distribution once, in weapon-id order, and
// returns the entry whose cumulative sum exceeds the roll. The last entry
// absorbs any floating-point residue.
func drawWeapon(table *droptable.Table, roll float64) droptable.Entry {
	for _, e := range table.Entries {
		if roll < e.Cumulative {
			return e
		}
	}
	return table.Entries[len(table.Entries)-1]
}

// drawGrade walks the fixed grade table the same way.
func (r *Resolver) drawGrade(roll float64) domain.QualityGrade {
	table := r.catalog.GradeTable()
	for _, gp := range table {
		if roll < gp.Cumulative {
			return gp.Grade
		}
	}
	return table[len(table)-1].Grade
}
