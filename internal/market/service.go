package market

import (
	"context"

	"github.com/google/uuid"

	"github.com/opennergame/boxgame-server/internal/concurrency"
	"github.com/opennergame/boxgame-server/internal/domain"
	"github.com/opennergame/boxgame-server/internal/repository"
)

// PurchaseResult is returned to the buyer after a completed trade.
type PurchaseResult struct {
	Item         domain.InventoryItem `json:"item"`
	SellerID     string               `json:"seller_id"`
	Price        int64                `json:"price"`
	Fee          int64                `json:"fee"`
	SellerPayout int64                `json:"seller_payout"`
	BuyerBalance int64                `json:"buyer_balance"`
}

// Service defines the player-to-player market interface
type Service interface {
	CreateListing(ctx context.Context, sellerID string, itemID int64, price int64) (*domain.Listing, error)
	BuyListing(ctx context.Context, buyerID string, listingID uuid.UUID) (*PurchaseResult, error)
	CancelListing(ctx context.Context, sellerID string, listingID uuid.UUID) error
	GetListings(ctx context.Context) ([]domain.Listing, error)
	GetPlayerListings(ctx context.Context, sellerID string) ([]domain.Listing, error)
}

type service struct {
	repo  repository.Market
	locks *concurrency.LockManager
}

// NewService creates a new market service
func NewService(repo repository.Market, locks *concurrency.LockManager) Service {
	return &service{repo: repo, locks: locks}
}

// GetListings returns every open listing.
func (s *service) GetListings(ctx context.Context) ([]domain.Listing, error) {
	return s.repo.ListListings(ctx)
}

// GetPlayerListings returns one seller's open listings.
func (s *service) GetPlayerListings(ctx context.Context, sellerID string) ([]domain.Listing, error) {
	return s.repo.ListListingsBySeller(ctx, sellerID)
}

// withPlayerLocks acquires the named locks for both players in sorted order
// so two trades between the same pair can never deadlock.
func (s *service) withPlayerLocks(a, b string, fn func() error) error {
	if a == b {
		return s.locks.WithLock(playerLockPrefix+a, fn)
	}
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	return s.locks.WithLock(playerLockPrefix+first, func() error {
		return s.locks.WithLock(playerLockPrefix+second, fn)
	})
}
