package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/opennergame/boxgame-server/internal/domain"
)

const itemColumns = "item_id, player_id, weapon_id, grade, bonus_variant, final_price, locked, listed, acquired_at"

func scanItem(row pgx.Row) (*domain.InventoryItem, error) {
	var it domain.InventoryItem
	err := row.Scan(&it.ID, &it.PlayerID, &it.WeaponID, &it.Grade, &it.BonusVariant,
		&it.FinalPrice, &it.Locked, &it.Listed, &it.AcquiredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrContextGetItem, err)
	}
	return &it, nil
}

func getItem(ctx context.Context, q querier, itemID int64, forUpdate bool) (*domain.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE item_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return scanItem(q.QueryRow(ctx, query, itemID))
}

func listInventory(ctx context.Context, q querier, playerID string) ([]domain.InventoryItem, error) {
	id, err := parsePlayerUUID(playerID)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE player_id = $1
		ORDER BY acquired_at, item_id
	`
	rows, err := q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextListItems, err)
	}
	defer rows.Close()

	items := make([]domain.InventoryItem, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// ListInventory returns the player's items in acquisition order.
func (s *Store) ListInventory(ctx context.Context, playerID string) ([]domain.InventoryItem, error) {
	return listInventory(ctx, s.db, playerID)
}

// GetInventoryItem returns one item by id.
func (s *Store) GetInventoryItem(ctx context.Context, itemID int64) (*domain.InventoryItem, error) {
	return getItem(ctx, s.db, itemID, false)
}

// InsertInventoryItem persists the item and fills in ID and AcquiredAt.
func (t *StoreTx) InsertInventoryItem(ctx context.Context, item *domain.InventoryItem) error {
	id, err := parsePlayerUUID(item.PlayerID)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO inventory_items (player_id, weapon_id, grade, bonus_variant, final_price, locked, listed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING item_id, acquired_at
	`
	err = t.tx.QueryRow(ctx, query, id, item.WeaponID, item.Grade, item.BonusVariant,
		item.FinalPrice, item.Locked, item.Listed).Scan(&item.ID, &item.AcquiredAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextInsertItem, err)
	}
	return nil
}

// GetInventoryItemForUpdate returns the item row locked for the transaction.
func (t *StoreTx) GetInventoryItemForUpdate(ctx context.Context, itemID int64) (*domain.InventoryItem, error) {
	return getItem(ctx, t.tx, itemID, true)
}

// DeleteInventoryItem removes the item row.
func (t *StoreTx) DeleteInventoryItem(ctx context.Context, itemID int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM inventory_items WHERE item_id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextDeleteItem, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// SetItemLocked flips the lock flag.
func (t *StoreTx) SetItemLocked(ctx context.Context, itemID int64, locked bool) error {
	return t.setItemFlag(ctx, itemID, "locked", locked)
}

// SetItemListed flips the market-listing flag.
func (t *StoreTx) SetItemListed(ctx context.Context, itemID int64, listed bool) error {
	return t.setItemFlag(ctx, itemID, "listed", listed)
}

func (t *StoreTx) setItemFlag(ctx context.Context, itemID int64, column string, value bool) error {
	query := fmt.Sprintf(`UPDATE inventory_items SET %s = $1 WHERE item_id = $2`, column)
	tag, err := t.tx.Exec(ctx, query, value, itemID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextUpdateItem, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// TransferInventoryItem reassigns the item to a new owner, clearing both
// flags so it arrives unlocked and unlisted.
func (t *StoreTx) TransferInventoryItem(ctx context.Context, itemID int64, newOwnerID string) error {
	id, err := parsePlayerUUID(newOwnerID)
	if err != nil {
		return err
	}
	query := `
		UPDATE inventory_items
		SET player_id = $1, locked = FALSE, listed = FALSE
		WHERE item_id = $2
	`
	tag, err := t.tx.Exec(ctx, query, id, itemID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextTransferItem, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}
