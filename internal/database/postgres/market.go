package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/opennergame/boxgame-server/internal/domain"
)

const listingColumns = "listing_id, seller_id, item_id, weapon_id, price, created_at"

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var l domain.Listing
	err := row.Scan(&l.ID, &l.SellerID, &l.ItemID, &l.WeaponID, &l.Price, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrContextGetListing, err)
	}
	return &l, nil
}

func listListings(ctx context.Context, q querier, query string, args ...any) ([]domain.Listing, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextListListings, err)
	}
	defer rows.Close()

	out := make([]domain.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// GetListing returns one listing by id.
func (s *MarketStore) GetListing(ctx context.Context, listingID uuid.UUID) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM market_listings WHERE listing_id = $1`
	return scanListing(s.db.QueryRow(ctx, query, listingID))
}

// ListListings returns every open listing, oldest first.
func (s *MarketStore) ListListings(ctx context.Context) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM market_listings ORDER BY created_at, listing_id`
	return listListings(ctx, s.db, query)
}

// ListListingsBySeller returns one seller's open listings, oldest first.
func (s *MarketStore) ListListingsBySeller(ctx context.Context, sellerID string) ([]domain.Listing, error) {
	id, err := parsePlayerUUID(sellerID)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + listingColumns + ` FROM market_listings WHERE seller_id = $1 ORDER BY created_at, listing_id`
	return listListings(ctx, s.db, query, id)
}

// InsertListing persists the listing and fills in CreatedAt.
func (t *StoreTx) InsertListing(ctx context.Context, listing *domain.Listing) error {
	sellerID, err := parsePlayerUUID(listing.SellerID)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO market_listings (listing_id, seller_id, item_id, weapon_id, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err = t.tx.QueryRow(ctx, query, listing.ID, sellerID, listing.ItemID,
		listing.WeaponID, listing.Price).Scan(&listing.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextInsertListing, err)
	}
	return nil
}

// GetListingForUpdate returns the listing row locked for the transaction.
// Two buyers racing on the same listing serialize here; the loser sees
// ErrListingNotFound after the winner's delete commits.
func (t *StoreTx) GetListingForUpdate(ctx context.Context, listingID uuid.UUID) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM market_listings WHERE listing_id = $1 FOR UPDATE`
	return scanListing(t.tx.QueryRow(ctx, query, listingID))
}

// DeleteListing removes the listing row.
func (t *StoreTx) DeleteListing(ctx context.Context, listingID uuid.UUID) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM market_listings WHERE listing_id = $1`, listingID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextDeleteListing, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}
