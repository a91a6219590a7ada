package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/opennergame/boxgame-server/internal/domain"
)

const playerColumns = "player_id, username, balance, experience, level, created_at"

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	err := row.Scan(&p.ID, &p.Username, &p.Balance, &p.Experience, &p.Level, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrContextGetPlayer, err)
	}
	return &p, nil
}

// CreatePlayer inserts a new player row with the given starting balance.
func (s *Store) CreatePlayer(ctx context.Context, username string, startingBalance int64) (*domain.Player, error) {
	query := `
		INSERT INTO players (username, balance)
		VALUES ($1, $2)
		RETURNING ` + playerColumns
	p, err := scanPlayer(s.db.QueryRow(ctx, query, username, startingBalance))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPlayerExists, username)
		}
		return nil, err
	}
	return p, nil
}

// GetPlayer returns the player by id.
func (s *Store) GetPlayer(ctx context.Context, playerID string) (*domain.Player, error) {
	id, err := parsePlayerUUID(playerID)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + playerColumns + ` FROM players WHERE player_id = $1`
	return scanPlayer(s.db.QueryRow(ctx, query, id))
}

// ListPlayerIDs returns every player id. Used by the passive income worker
// to walk the player base each tick.
func (s *Store) ListPlayerIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT player_id FROM players ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextGetPlayer, err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextGetPlayer, err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// GetPlayerByUsername returns the player by username.
func (s *Store) GetPlayerByUsername(ctx context.Context, username string) (*domain.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE username = $1`
	return scanPlayer(s.db.QueryRow(ctx, query, username))
}

// GetPlayerForUpdate returns the player row locked for the transaction.
// Serializes concurrent openings and sales touching the same player.
func (t *StoreTx) GetPlayerForUpdate(ctx context.Context, playerID string) (*domain.Player, error) {
	id, err := parsePlayerUUID(playerID)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + playerColumns + ` FROM players WHERE player_id = $1 FOR UPDATE`
	return scanPlayer(t.tx.QueryRow(ctx, query, id))
}

// AdjustBalance applies delta atomically. The WHERE guard makes an
// overdrawing update match zero rows instead of tripping the CHECK.
func (t *StoreTx) AdjustBalance(ctx context.Context, playerID string, delta int64) (int64, error) {
	id, err := parsePlayerUUID(playerID)
	if err != nil {
		return 0, err
	}
	query := `
		UPDATE players
		SET balance = balance + $1, updated_at = NOW()
		WHERE player_id = $2 AND balance + $1 >= 0
		RETURNING balance
	`
	var balance int64
	if err := t.tx.QueryRow(ctx, query, delta, id).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrInsufficientFunds
		}
		return 0, fmt.Errorf("%s: %w", ErrContextUpdatePlayer, err)
	}
	return balance, nil
}

// SetExperience stores the player's new experience total and level.
func (t *StoreTx) SetExperience(ctx context.Context, playerID string, experience int64, level int) error {
	id, err := parsePlayerUUID(playerID)
	if err != nil {
		return err
	}
	query := `
		UPDATE players
		SET experience = $1, level = $2, updated_at = NOW()
		WHERE player_id = $3
	`
	tag, err := t.tx.Exec(ctx, query, experience, level, id)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextUpdatePlayer, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlayerNotFound
	}
	return nil
}
