package passive

import (
	"github.com/opennergame/boxgame-server/internal/catalog"
	"github.com/opennergame/boxgame-server/internal/domain"
)

// Aggregate recomputes a player's derived passive stats from the inventory
// they currently hold. Pure function of its inputs: no caching, no hidden
// invalidation. Items listed on the market grant nothing; the lock flag only
// guards bulk-sell and does not affect passives.
//
// Each contributing item adds magnitude * gradeMultiplier, doubled for bonus
// variants. Stackable passives sum across copies; non-stackable ones count
// only the single largest contribution per weapon.
func Aggregate(items []domain.InventoryItem, c *catalog.Catalog) domain.PassiveStats {
	var stats domain.PassiveStats
	bestNonStack := make(map[int]float64)
	nonStackKind := make(map[int]domain.PassiveKind)

	for _, item := range items {
		if item.Listed {
			continue
		}
		weapon := c.Weapon(item.WeaponID)
		if weapon == nil || weapon.Passive == nil {
			continue
		}

		contribution := weapon.Passive.Magnitude * item.Grade.PassiveMultiplier()
		if item.BonusVariant {
			contribution *= 2
		}

		if weapon.Passive.Stackable {
			addContribution(&stats, weapon.Passive.Kind, contribution)
			continue
		}
		if contribution > bestNonStack[weapon.ID] {
			bestNonStack[weapon.ID] = contribution
			nonStackKind[weapon.ID] = weapon.Passive.Kind
		}
	}

	for weaponID, contribution := range bestNonStack {
		addContribution(&stats, nonStackKind[weaponID], contribution)
	}

	return stats
}

func addContribution(stats *domain.PassiveStats, kind domain.PassiveKind, v float64) {
	switch kind {
	case domain.PassiveLuck:
		stats.Luck += v
	case domain.PassiveBoxCostReduction:
		stats.BoxCostReductionPct += v
	case domain.PassiveExpBonus:
		stats.ExpBonusPct += v
	case domain.PassiveWeaponValueBonus:
		stats.WeaponValueBonusPct += v
	case domain.PassiveIncomeRate:
		stats.IncomePerSecond += v
	}
}
