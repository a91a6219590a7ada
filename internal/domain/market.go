package domain

import (
	"time"

	"github.com/google/uuid"
)

// Listing is a player-to-player market offer for one inventory item.
// The item stays in the seller's inventory (flagged Listed) until the
// listing is bought or cancelled.
type Listing struct {
	ID        uuid.UUID `json:"id"`
	SellerID  string    `json:"seller_id"`
	ItemID    int64     `json:"item_id"`
	WeaponID  int       `json:"weapon_id"`
	Price     int64     `json:"price"` // cents, asking price
	CreatedAt time.Time `json:"created_at"`
}

// MarketFeePct is the cut taken from the seller's proceeds on a sale.
const MarketFeePct = 0.05
