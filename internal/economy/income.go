package economy

import (
	"context"
	"fmt"
	"time"

	"github.com/opennergame/boxgame-server/internal/logger"
	"github.com/opennergame/boxgame-server/internal/metrics"
	"github.com/opennergame/boxgame-server/internal/passive"
	"github.com/opennergame/boxgame-server/internal/repository"
	"github.com/opennergame/boxgame-server/internal/utils"
)

// CreditPassiveIncome pays every player their income-rate passives for the
// elapsed window. Each player settles in their own transaction; one failing
// player doesn't starve the rest. Returns the total amount credited.
func (s *service) CreditPassiveIncome(ctx context.Context, elapsed time.Duration) (int64, error) {
	log := logger.FromContext(ctx)

	playerIDs, err := s.ledger.ListPlayerIDs(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	var failures int
	for _, playerID := range playerIDs {
		credited, err := s.creditPlayer(ctx, playerID, elapsed)
		if err != nil {
			log.Error("Failed to credit passive income", "playerID", playerID, "error", err)
			failures++
			continue
		}
		total += credited
	}

	if total > 0 {
		metrics.PassiveIncomePaid.Add(float64(total))
	}
	log.Info(LogMsgIncomeTickCompleted, "players", len(playerIDs), "credited", total, "failures", failures)
	return total, nil
}

func (s *service) creditPlayer(ctx context.Context, playerID string, elapsed time.Duration) (int64, error) {
	var credited int64
	err := s.locks.WithLock(playerLockPrefix+playerID, func() error {
		items, err := s.ledger.ListInventory(ctx, playerID)
		if err != nil {
			return fmt.Errorf(ErrMsgListInventoryFailed, err)
		}
		rate := passive.Aggregate(items, s.catalog).IncomePerSecond
		if rate <= 0 {
			return nil
		}
		amount := utils.RoundHalfUpCents(rate * elapsed.Seconds())
		if amount <= 0 {
			return nil
		}

		tx, err := s.ledger.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf(ErrMsgBeginTransactionFailed, err)
		}
		defer repository.SafeRollback(ctx, tx)

		if _, err := tx.AdjustBalance(ctx, playerID, amount); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf(ErrMsgCommitTransactionFailed, err)
		}
		credited = amount
		return nil
	})
	return credited, err
}
