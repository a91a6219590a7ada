package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/opennergame/boxgame-server/internal/domain"
)

// Market defines persistence for player-to-player listings.
type Market interface {
	GetListing(ctx context.Context, listingID uuid.UUID) (*domain.Listing, error)
	ListListings(ctx context.Context) ([]domain.Listing, error)
	ListListingsBySeller(ctx context.Context, sellerID string) ([]domain.Listing, error)

	BeginTx(ctx context.Context) (MarketTx, error)
}

// MarketTx extends the ledger transaction with listing operations so a buy
// can move the item, the money and the listing row atomically.
type MarketTx interface {
	LedgerTx

	InsertListing(ctx context.Context, listing *domain.Listing) error
	GetListingForUpdate(ctx context.Context, listingID uuid.UUID) (*domain.Listing, error)
	DeleteListing(ctx context.Context, listingID uuid.UUID) error
}
