package economy

import (
	"context"

	"github.com/opennergame/boxgame-server/internal/passive"
)

// GetProfile assembles the player's ledger row, derived passive stats and
// collection progress in one read path.
func (s *service) GetProfile(ctx context.Context, playerID string) (*Profile, error) {
	player, err := s.ledger.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	items, err := s.ledger.ListInventory(ctx, playerID)
	if err != nil {
		return nil, err
	}

	unlocked, err := s.ledger.ListUnlockedWeapons(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		Player:          *player,
		PassiveStats:    passive.Aggregate(items, s.catalog),
		UnlockedWeapons: unlocked,
		TotalWeapons:    len(s.catalog.Weapons()),
	}, nil
}
