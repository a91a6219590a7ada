package opening

import (
	"context"
	"fmt"

	"github.com/opennergame/boxgame-server/internal/droptable"
	"github.com/opennergame/boxgame-server/internal/logger"
	"github.com/opennergame/boxgame-server/internal/passive"
)

// GetProbabilities returns the box's base distribution alongside the
// player's luck-adjusted one. Pure read: no randomness, no writes. An empty
// playerID yields the base distribution on both sides.
func (s *service) GetProbabilities(ctx context.Context, playerID string, boxID int) (*ProbabilityView, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgGetProbabilitiesCalled, "playerID", playerID, "boxID", boxID)

	var luck float64
	if playerID != "" {
		items, err := s.ledger.ListInventory(ctx, playerID)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgListInventoryFailed, err)
		}
		luck = passive.Aggregate(items, s.catalog).Luck
	}

	base, err := s.builder.Build(boxID, 0)
	if err != nil {
		return nil, err
	}
	adjusted := base
	if luck > 0 {
		adjusted, err = s.builder.Build(boxID, luck)
		if err != nil {
			return nil, err
		}
	}

	return &ProbabilityView{
		BoxID:    boxID,
		Luck:     luck,
		Base:     s.toEntries(base),
		Adjusted: s.toEntries(adjusted),
	}, nil
}

func (s *service) toEntries(table *droptable.Table) []ProbabilityEntry {
	out := make([]ProbabilityEntry, 0, len(table.Entries))
	for _, e := range table.Entries {
		name := ""
		if w := s.catalog.Weapon(e.WeaponID); w != nil {
			name = w.Name
		}
		out = append(out, ProbabilityEntry{
			WeaponID:    e.WeaponID,
			WeaponName:  name,
			Rarity:      e.Rarity,
			Probability: e.Probability,
		})
	}
	return out
}
