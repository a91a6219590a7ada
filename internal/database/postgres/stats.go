package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/opennergame/boxgame-server/internal/domain"
)

// statColumns maps the enumerated fields to real columns. The map doubles as
// validation: anything outside it never reaches the SQL string.
var statColumns = map[domain.StatField]string{
	domain.StatTotalOpened:          "total_opened",
	domain.StatCurrentExisting:      "current_existing",
	domain.StatBonusTotalOpened:     "bonus_total_opened",
	domain.StatBonusCurrentExisting: "bonus_current_existing",
}

const weaponStatsColumns = "weapon_id, total_opened, current_existing, bonus_total_opened, bonus_current_existing"

func scanWeaponStats(row pgx.Row) (*domain.WeaponStats, error) {
	var ws domain.WeaponStats
	err := row.Scan(&ws.WeaponID, &ws.TotalOpened, &ws.CurrentExisting,
		&ws.BonusTotalOpened, &ws.BonusCurrentExisting)
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// GetWeaponStats returns the counters for one weapon. A weapon never opened
// yields a zero row rather than an error.
func (s *Store) GetWeaponStats(ctx context.Context, weaponID int) (*domain.WeaponStats, error) {
	query := `SELECT ` + weaponStatsColumns + ` FROM weapon_stats WHERE weapon_id = $1`
	ws, err := scanWeaponStats(s.db.QueryRow(ctx, query, weaponID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.WeaponStats{WeaponID: weaponID}, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrContextGetStats, err)
	}
	return ws, nil
}

// ListWeaponStats returns counters for every weapon ever opened.
func (s *Store) ListWeaponStats(ctx context.Context) ([]domain.WeaponStats, error) {
	query := `SELECT ` + weaponStatsColumns + ` FROM weapon_stats ORDER BY weapon_id`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextListStats, err)
	}
	defer rows.Close()

	out := make([]domain.WeaponStats, 0)
	for rows.Next() {
		ws, err := scanWeaponStats(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextListStats, err)
		}
		out = append(out, *ws)
	}
	return out, rows.Err()
}

// IncrementWeaponStat bumps one counter with an upsert. The arithmetic runs
// in SQL, so concurrent transactions serialize on the row instead of losing
// updates.
func (t *StoreTx) IncrementWeaponStat(ctx context.Context, weaponID int, field domain.StatField, delta int64) error {
	column, ok := statColumns[field]
	if !ok {
		return fmt.Errorf("%w: stat field %q", domain.ErrInvalidInput, field)
	}
	query := fmt.Sprintf(`
		INSERT INTO weapon_stats (weapon_id, %[1]s)
		VALUES ($1, $2)
		ON CONFLICT (weapon_id) DO UPDATE
		SET %[1]s = weapon_stats.%[1]s + $2
	`, column)
	if _, err := t.tx.Exec(ctx, query, weaponID, delta); err != nil {
		return fmt.Errorf("%s: %w", ErrContextUpsertStats, err)
	}
	return nil
}
