package repository

import (
	"context"

	"github.com/opennergame/boxgame-server/internal/domain"
)

// Ledger defines persistence for players, inventories, weapon stats and the
// collection log. All money mutations happen inside a LedgerTx.
type Ledger interface {
	CreatePlayer(ctx context.Context, username string, startingBalance int64) (*domain.Player, error)
	GetPlayer(ctx context.Context, playerID string) (*domain.Player, error)
	GetPlayerByUsername(ctx context.Context, username string) (*domain.Player, error)
	ListPlayerIDs(ctx context.Context) ([]string, error)

	ListInventory(ctx context.Context, playerID string) ([]domain.InventoryItem, error)
	GetInventoryItem(ctx context.Context, itemID int64) (*domain.InventoryItem, error)

	GetWeaponStats(ctx context.Context, weaponID int) (*domain.WeaponStats, error)
	ListWeaponStats(ctx context.Context) ([]domain.WeaponStats, error)
	ListUnlockedWeapons(ctx context.Context, playerID string) ([]int, error)

	BeginTx(ctx context.Context) (LedgerTx, error)
}

// LedgerTx defines the transactional operations the opening commit step and
// the economy service compose. Row locks are taken via the ForUpdate getters;
// callers serialize per player before starting the transaction.
type LedgerTx interface {
	Tx

	GetPlayerForUpdate(ctx context.Context, playerID string) (*domain.Player, error)

	// AdjustBalance applies delta to the player's balance and returns the new
	// value. A delta that would drive the balance negative fails with
	// domain.ErrInsufficientFunds and leaves the row untouched.
	AdjustBalance(ctx context.Context, playerID string, delta int64) (int64, error)

	SetExperience(ctx context.Context, playerID string, experience int64, level int) error

	// InsertInventoryItem persists the item and fills in ID and AcquiredAt.
	InsertInventoryItem(ctx context.Context, item *domain.InventoryItem) error
	GetInventoryItemForUpdate(ctx context.Context, itemID int64) (*domain.InventoryItem, error)
	DeleteInventoryItem(ctx context.Context, itemID int64) error
	SetItemLocked(ctx context.Context, itemID int64, locked bool) error
	SetItemListed(ctx context.Context, itemID int64, listed bool) error
	TransferInventoryItem(ctx context.Context, itemID int64, newOwnerID string) error

	// IncrementWeaponStat bumps one global counter. The increment is applied
	// in SQL so concurrent transactions never lose updates.
	IncrementWeaponStat(ctx context.Context, weaponID int, field domain.StatField, delta int64) error

	// MarkWeaponUnlocked records the weapon in the player's collection log.
	// Returns true only for the first unlock; repeats are no-ops.
	MarkWeaponUnlocked(ctx context.Context, playerID string, weaponID int) (bool, error)
}
