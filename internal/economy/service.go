package economy

import (
	"context"
	"time"

	"github.com/opennergame/boxgame-server/internal/catalog"
	"github.com/opennergame/boxgame-server/internal/concurrency"
	"github.com/opennergame/boxgame-server/internal/domain"
	"github.com/opennergame/boxgame-server/internal/logger"
	"github.com/opennergame/boxgame-server/internal/repository"
)

// Profile is the player's public-facing state: ledger row, derived passives
// and collection progress.
type Profile struct {
	Player          domain.Player       `json:"player"`
	PassiveStats    domain.PassiveStats `json:"passive_stats"`
	UnlockedWeapons []int               `json:"unlocked_weapons"`
	TotalWeapons    int                 `json:"total_weapons"`
}

// SellResult is returned after selling one item.
type SellResult struct {
	ItemID       int64 `json:"item_id"`
	SalePrice    int64 `json:"sale_price"`
	NewBalance   int64 `json:"new_balance"`
	ValueBoosted bool  `json:"value_boosted"`
}

// BulkSellResult is returned after a bulk sale.
type BulkSellResult struct {
	ItemsSold  int   `json:"items_sold"`
	TotalValue int64 `json:"total_value"`
	NewBalance int64 `json:"new_balance"`
}

// Service defines the interface for player economy operations
type Service interface {
	CreatePlayer(ctx context.Context, username string) (*domain.Player, error)
	GetProfile(ctx context.Context, playerID string) (*Profile, error)
	GetInventory(ctx context.Context, playerID string) ([]domain.InventoryItem, error)
	SetItemLock(ctx context.Context, playerID string, itemID int64, locked bool) error
	SellItem(ctx context.Context, playerID string, itemID int64) (*SellResult, error)
	SellAll(ctx context.Context, playerID string, maxRarity domain.RarityTier) (*BulkSellResult, error)
	CreditPassiveIncome(ctx context.Context, elapsed time.Duration) (int64, error)
}

type service struct {
	catalog *catalog.Catalog
	ledger  repository.Ledger
	locks   *concurrency.LockManager
}

// NewService creates a new economy service
func NewService(c *catalog.Catalog, ledger repository.Ledger, locks *concurrency.LockManager) Service {
	return &service{catalog: c, ledger: ledger, locks: locks}
}

// CreatePlayer registers a new player with the starting balance.
func (s *service) CreatePlayer(ctx context.Context, username string) (*domain.Player, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCreatePlayerCalled, "username", username)

	if username == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.ledger.CreatePlayer(ctx, username, StartingBalance)
}

// GetInventory returns the player's items in acquisition order.
func (s *service) GetInventory(ctx context.Context, playerID string) ([]domain.InventoryItem, error) {
	if _, err := s.ledger.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	return s.ledger.ListInventory(ctx, playerID)
}
