package opening

import (
	"context"
	"fmt"
	"strconv"

	"github.com/opennergame/boxgame-server/internal/domain"
	"github.com/opennergame/boxgame-server/internal/logger"
	"github.com/opennergame/boxgame-server/internal/metrics"
	"github.com/opennergame/boxgame-server/internal/passive"
	"github.com/opennergame/boxgame-server/internal/repository"
	"github.com/opennergame/boxgame-server/internal/utils"
)

// OpenBox resolves one box opening and commits every side effect in a single
// transaction: balance deduction, item insert, stat counters, experience and
// the collection-log unlock. Either all of it becomes visible or none does.
func (s *service) OpenBox(ctx context.Context, playerID string, boxID int) (*domain.OpenBoxResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgOpenBoxCalled, "playerID", playerID, "boxID", boxID)

	box := s.catalog.Box(boxID)
	if box == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrUnknownBox, boxID)
	}

	var result *domain.OpenBoxResult
	err := s.locks.WithLock(playerLockPrefix+playerID, func() error {
		var err error
		result, err = s.openLocked(ctx, playerID, box)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.BoxesOpened.WithLabelValues(strconv.Itoa(boxID), string(result.Rarity)).Inc()
	metrics.MoneySpent.WithLabelValues("box_open").Add(float64(result.EffectiveBoxPrice))
	if result.Item.BonusVariant {
		metrics.BonusVariantsDropped.WithLabelValues(strconv.Itoa(boxID)).Inc()
	}

	log.Info(LogMsgBoxOpened, "playerID", playerID, "boxID", boxID,
		"weapon", result.WeaponName, "grade", result.Item.Grade,
		"bonus", result.Item.BonusVariant, "newUnlock", result.NewUnlock)
	return result, nil
}

func (s *service) openLocked(ctx context.Context, playerID string, box *domain.Box) (*domain.OpenBoxResult, error) {
	items, err := s.ledger.ListInventory(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListInventoryFailed, err)
	}
	stats := passive.Aggregate(items, s.catalog)

	// Resolution happens before the transaction; only the commit below can
	// fail after money moves.
	table, err := s.builder.Build(box.ID, stats.Luck)
	if err != nil {
		return nil, err
	}
	outcome, err := s.resolver.Resolve(table)
	if err != nil {
		return nil, err
	}

	effectivePrice := effectiveBoxPrice(box.Price, stats.BoxCostReductionPct)
	expGained := utils.RoundHalfUpCents(float64(box.Experience) * (1 + stats.ExpBonusPct))

	tx, err := s.ledger.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	player, err := tx.GetPlayerForUpdate(ctx, playerID)
	if err != nil {
		return nil, err
	}

	newBalance, err := tx.AdjustBalance(ctx, playerID, -effectivePrice)
	if err != nil {
		return nil, err
	}

	item := &domain.InventoryItem{
		PlayerID:     playerID,
		WeaponID:     outcome.Weapon.ID,
		Grade:        outcome.Grade,
		BonusVariant: outcome.BonusVariant,
		FinalPrice:   outcome.FinalPrice,
	}
	if err := tx.InsertInventoryItem(ctx, item); err != nil {
		return nil, err
	}

	if err := tx.IncrementWeaponStat(ctx, outcome.Weapon.ID, domain.StatTotalOpened, 1); err != nil {
		return nil, err
	}
	if err := tx.IncrementWeaponStat(ctx, outcome.Weapon.ID, domain.StatCurrentExisting, 1); err != nil {
		return nil, err
	}
	if outcome.BonusVariant {
		if err := tx.IncrementWeaponStat(ctx, outcome.Weapon.ID, domain.StatBonusTotalOpened, 1); err != nil {
			return nil, err
		}
		if err := tx.IncrementWeaponStat(ctx, outcome.Weapon.ID, domain.StatBonusCurrentExisting, 1); err != nil {
			return nil, err
		}
	}

	newExperience := player.Experience + expGained
	newLevel := domain.LevelForExperience(newExperience)
	if err := tx.SetExperience(ctx, playerID, newExperience, newLevel); err != nil {
		return nil, err
	}

	newUnlock, err := tx.MarkWeaponUnlocked(ctx, playerID, outcome.Weapon.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	return &domain.OpenBoxResult{
		Item:              *item,
		WeaponName:        outcome.Weapon.Name,
		Rarity:            outcome.Weapon.Rarity,
		ExperienceGained:  expGained,
		NewBalance:        newBalance,
		NewExperience:     newExperience,
		NewLevel:          newLevel,
		LeveledUp:         newLevel > player.Level,
		NewUnlock:         newUnlock,
		EffectiveBoxPrice: effectivePrice,
	}, nil
}

// effectiveBoxPrice applies the cost-reduction passive, capped so a box never
// drops below half price.
func effectiveBoxPrice(basePrice int64, reductionPct float64) int64 {
	if reductionPct <= 0 {
		return basePrice
	}
	if reductionPct > MaxBoxCostReduction {
		reductionPct = MaxBoxCostReduction
	}
	return utils.RoundHalfUpCents(float64(basePrice) * (1 - reductionPct))
}
