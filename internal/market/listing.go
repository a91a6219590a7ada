package market

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/opennergame/boxgame-server/internal/domain"
	"github.com/opennergame/boxgame-server/internal/logger"
	"github.com/opennergame/boxgame-server/internal/repository"
)

// CreateListing puts one owned item up for sale. The item stays in the
// seller's inventory but stops granting passives and can't be sold or locked
// until the listing resolves.
func (s *service) CreateListing(ctx context.Context, sellerID string, itemID int64, price int64) (*domain.Listing, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCreateListingCalled, "sellerID", sellerID, "itemID", itemID, "price", price)

	if price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", domain.ErrInvalidInput)
	}

	var listing *domain.Listing
	err := s.locks.WithLock(playerLockPrefix+sellerID, func() error {
		tx, err := s.repo.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf(ErrMsgBeginTransactionFailed, err)
		}
		defer repository.SafeRollback(ctx, tx)

		item, err := tx.GetInventoryItemForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item.PlayerID != sellerID {
			return domain.ErrItemNotOwned
		}
		if item.Locked {
			return domain.ErrItemLocked
		}
		if item.Listed {
			return domain.ErrItemListed
		}

		if err := tx.SetItemListed(ctx, itemID, true); err != nil {
			return err
		}
		listing = &domain.Listing{
			ID:       uuid.New(),
			SellerID: sellerID,
			ItemID:   itemID,
			WeaponID: item.WeaponID,
			Price:    price,
		}
		if err := tx.InsertListing(ctx, listing); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf(ErrMsgCommitTransactionFailed, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info(LogMsgListingCreated, "listingID", listing.ID, "sellerID", sellerID, "price", price)
	return listing, nil
}

// CancelListing withdraws the seller's own listing and restores the item to
// normal inventory state.
func (s *service) CancelListing(ctx context.Context, sellerID string, listingID uuid.UUID) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCancelListingCalled, "sellerID", sellerID, "listingID", listingID)

	return s.locks.WithLock(playerLockPrefix+sellerID, func() error {
		tx, err := s.repo.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf(ErrMsgBeginTransactionFailed, err)
		}
		defer repository.SafeRollback(ctx, tx)

		listing, err := tx.GetListingForUpdate(ctx, listingID)
		if err != nil {
			return err
		}
		if listing.SellerID != sellerID {
			return domain.ErrListingNotFound
		}

		if err := tx.SetItemListed(ctx, listing.ItemID, false); err != nil {
			return err
		}
		if err := tx.DeleteListing(ctx, listingID); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf(ErrMsgCommitTransactionFailed, err)
		}
		return nil
	})
}
