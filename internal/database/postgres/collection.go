package postgres

import (
	"context"
	"fmt"
)

// ListUnlockedWeapons returns the ids in the player's collection log.
func (s *Store) ListUnlockedWeapons(ctx context.Context, playerID string) ([]int, error) {
	id, err := parsePlayerUUID(playerID)
	if err != nil {
		return nil, err
	}
	query := `SELECT weapon_id FROM weapon_unlocks WHERE player_id = $1 ORDER BY weapon_id`
	rows, err := s.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextListUnlocks, err)
	}
	defer rows.Close()

	out := make([]int, 0)
	for rows.Next() {
		var wid int
		if err := rows.Scan(&wid); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextListUnlocks, err)
		}
		out = append(out, wid)
	}
	return out, rows.Err()
}

// MarkWeaponUnlocked records the unlock idempotently. The conflict clause
// turns repeats into zero-row no-ops, which is how first-time unlocks are
// told apart.
func (t *StoreTx) MarkWeaponUnlocked(ctx context.Context, playerID string, weaponID int) (bool, error) {
	id, err := parsePlayerUUID(playerID)
	if err != nil {
		return false, err
	}
	query := `
		INSERT INTO weapon_unlocks (player_id, weapon_id)
		VALUES ($1, $2)
		ON CONFLICT (player_id, weapon_id) DO NOTHING
	`
	tag, err := t.tx.Exec(ctx, query, id, weaponID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrContextMarkUnlock, err)
	}
	return tag.RowsAffected() > 0, nil
}
