package economy

import (
	"context"
	"fmt"

	"github.com/opennergame/boxgame-server/internal/domain"
	"github.com/opennergame/boxgame-server/internal/logger"
	"github.com/opennergame/boxgame-server/internal/metrics"
	"github.com/opennergame/boxgame-server/internal/passive"
	"github.com/opennergame/boxgame-server/internal/repository"
	"github.com/opennergame/boxgame-server/internal/utils"
)

// SellItem sells one item back to the house for its final price plus the
// owner's weapon-value bonus. Removes the item and decrements the existing
// counters in the same transaction as the credit.
func (s *service) SellItem(ctx context.Context, playerID string, itemID int64) (*SellResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSellItemCalled, "playerID", playerID, "itemID", itemID)

	var result *SellResult
	err := s.locks.WithLock(playerLockPrefix+playerID, func() error {
		var err error
		result, err = s.sellLocked(ctx, playerID, itemID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.ItemsSold.Inc()
	metrics.MoneyEarned.WithLabelValues("sell").Add(float64(result.SalePrice))
	log.Info(LogMsgItemSold, "playerID", playerID, "itemID", itemID, "salePrice", result.SalePrice)
	return result, nil
}

func (s *service) sellLocked(ctx context.Context, playerID string, itemID int64) (*SellResult, error) {
	items, err := s.ledger.ListInventory(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListInventoryFailed, err)
	}
	valueBonus := passive.Aggregate(items, s.catalog).WeaponValueBonusPct

	tx, err := s.ledger.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	item, err := tx.GetInventoryItemForUpdate(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := sellable(item, playerID); err != nil {
		return nil, err
	}

	salePrice := utils.RoundHalfUpCents(float64(item.FinalPrice) * (1 + valueBonus))

	newBalance, err := s.settleSale(ctx, tx, item, salePrice)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	return &SellResult{
		ItemID:       itemID,
		SalePrice:    salePrice,
		NewBalance:   newBalance,
		ValueBoosted: valueBonus > 0,
	}, nil
}

// SellAll sells every sellable item whose weapon rarity is at or below
// maxRarity. Locked and listed items are skipped, not failed.
func (s *service) SellAll(ctx context.Context, playerID string, maxRarity domain.RarityTier) (*BulkSellResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSellAllCalled, "playerID", playerID, "maxRarity", maxRarity)

	if !maxRarity.Valid() {
		return nil, fmt.Errorf("%w: rarity %q", domain.ErrInvalidInput, maxRarity)
	}

	var result *BulkSellResult
	err := s.locks.WithLock(playerLockPrefix+playerID, func() error {
		var err error
		result, err = s.sellAllLocked(ctx, playerID, maxRarity)
		return err
	})
	if err != nil {
		return nil, err
	}

	if result.ItemsSold > 0 {
		metrics.MoneyEarned.WithLabelValues("sell").Add(float64(result.TotalValue))
	}
	log.Info(LogMsgBulkSaleCompleted, "playerID", playerID, "itemsSold", result.ItemsSold, "totalValue", result.TotalValue)
	return result, nil
}

func (s *service) sellAllLocked(ctx context.Context, playerID string, maxRarity domain.RarityTier) (*BulkSellResult, error) {
	if _, err := s.ledger.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	items, err := s.ledger.ListInventory(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListInventoryFailed, err)
	}
	valueBonus := passive.Aggregate(items, s.catalog).WeaponValueBonusPct

	tx, err := s.ledger.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	result := &BulkSellResult{}
	for i := range items {
		item := &items[i]
		if item.Locked || item.Listed {
			continue
		}
		weapon := s.catalog.Weapon(item.WeaponID)
		if weapon == nil || !maxRarity.AtLeast(weapon.Rarity) {
			continue
		}

		salePrice := utils.RoundHalfUpCents(float64(item.FinalPrice) * (1 + valueBonus))
		newBalance, err := s.settleSale(ctx, tx, item, salePrice)
		if err != nil {
			return nil, err
		}
		result.ItemsSold++
		result.TotalValue += salePrice
		result.NewBalance = newBalance
		metrics.ItemsSold.Inc()
	}

	if result.ItemsSold == 0 {
		return result, nil
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}
	return result, nil
}

// settleSale deletes the item, credits the proceeds and decrements the
// existing counters. Shared by single and bulk sales.
func (s *service) settleSale(ctx context.Context, tx repository.LedgerTx, item *domain.InventoryItem, salePrice int64) (int64, error) {
	if err := tx.DeleteInventoryItem(ctx, item.ID); err != nil {
		return 0, err
	}
	newBalance, err := tx.AdjustBalance(ctx, item.PlayerID, salePrice)
	if err != nil {
		return 0, err
	}
	if err := tx.IncrementWeaponStat(ctx, item.WeaponID, domain.StatCurrentExisting, -1); err != nil {
		return 0, err
	}
	if item.BonusVariant {
		if err := tx.IncrementWeaponStat(ctx, item.WeaponID, domain.StatBonusCurrentExisting, -1); err != nil {
			return 0, err
		}
	}
	return newBalance, nil
}

// SetItemLock flips the bulk-sale guard on one owned item.
func (s *service) SetItemLock(ctx context.Context, playerID string, itemID int64, locked bool) error {
	return s.locks.WithLock(playerLockPrefix+playerID, func() error {
		tx, err := s.ledger.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf(ErrMsgBeginTransactionFailed, err)
		}
		defer repository.SafeRollback(ctx, tx)

		item, err := tx.GetInventoryItemForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item.PlayerID != playerID {
			return domain.ErrItemNotOwned
		}
		if item.Listed {
			return domain.ErrItemListed
		}
		if err := tx.SetItemLocked(ctx, itemID, locked); err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
}

func sellable(item *domain.InventoryItem, playerID string) error {
	if item.PlayerID != playerID {
		return domain.ErrItemNotOwned
	}
	if item.Locked {
		return domain.ErrItemLocked
	}
	if item.Listed {
		return domain.ErrItemListed
	}
	return nil
}
