package market

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/opennergame/boxgame-server/internal/domain"
	"github.com/opennergame/boxgame-server/internal/logger"
	"github.com/opennergame/boxgame-server/internal/metrics"
	"github.com/opennergame/boxgame-server/internal/repository"
	"github.com/opennergame/boxgame-server/internal/utils"
)

// BuyListing settles a trade: the buyer pays the asking price, the seller
// receives it minus the house fee, and the item changes hands. All of it
// commits in one transaction; two buyers racing on the same listing
// serialize on the listing row and the loser gets ErrListingNotFound.
func (s *service) BuyListing(ctx context.Context, buyerID string, listingID uuid.UUID) (*PurchaseResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgBuyListingCalled, "buyerID", buyerID, "listingID", listingID)

	// The seller is only known after reading the listing, so the pair lock
	// has to follow a plain read. The authoritative check is the row lock.
	peek, err := s.repo.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if peek.SellerID == buyerID {
		return nil, domain.ErrListingOwn
	}

	var result *PurchaseResult
	err = s.withPlayerLocks(buyerID, peek.SellerID, func() error {
		var err error
		result, err = s.buyLocked(ctx, buyerID, listingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.MarketTrades.Inc()
	metrics.MoneySpent.WithLabelValues("market").Add(float64(result.Price))
	metrics.MoneyEarned.WithLabelValues("market").Add(float64(result.SellerPayout))

	log.Info(LogMsgListingBought, "buyerID", buyerID, "listingID", listingID,
		"price", result.Price, "fee", result.Fee)
	return result, nil
}

func (s *service) buyLocked(ctx context.Context, buyerID string, listingID uuid.UUID) (*PurchaseResult, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	listing, err := tx.GetListingForUpdate(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID == buyerID {
		return nil, domain.ErrListingOwn
	}

	buyerBalance, err := tx.AdjustBalance(ctx, buyerID, -listing.Price)
	if err != nil {
		return nil, err
	}

	fee := utils.RoundHalfUpCents(float64(listing.Price) * domain.MarketFeePct)
	payout := listing.Price - fee
	if _, err := tx.AdjustBalance(ctx, listing.SellerID, payout); err != nil {
		return nil, err
	}

	if err := tx.TransferInventoryItem(ctx, listing.ItemID, buyerID); err != nil {
		return nil, err
	}
	if err := tx.DeleteListing(ctx, listingID); err != nil {
		return nil, err
	}

	item, err := tx.GetInventoryItemForUpdate(ctx, listing.ItemID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	return &PurchaseResult{
		Item:         *item,
		SellerID:     listing.SellerID,
		Price:        listing.Price,
		Fee:          fee,
		SellerPayout: payout,
		BuyerBalance: buyerBalance,
	}, nil
}
