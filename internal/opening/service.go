package opening

import (
	"context"

	"github.com/opennergame/boxgame-server/internal/catalog"
	"github.com/opennergame/boxgame-server/internal/concurrency"
	"github.com/opennergame/boxgame-server/internal/domain"
	"github.com/opennergame/boxgame-server/internal/droptable"
	"github.com/opennergame/boxgame-server/internal/repository"
	"github.com/opennergame/boxgame-server/internal/reward"
)

// Service defines the box-opening interface
type Service interface {
	OpenBox(ctx context.Context, playerID string, boxID int) (*domain.OpenBoxResult, error)
	GetProbabilities(ctx context.Context, playerID string, boxID int) (*ProbabilityView, error)
}

// ProbabilityView pairs a box's base distribution with the caller's
// luck-adjusted one. Both come from the same pure builder; nothing here
// consumes randomness.
type ProbabilityView struct {
	BoxID    int                `json:"box_id"`
	Luck     float64            `json:"luck"`
	Base     []ProbabilityEntry `json:"base"`
	Adjusted []ProbabilityEntry `json:"adjusted"`
}

// ProbabilityEntry is one weapon's chance within a distribution.
type ProbabilityEntry struct {
	WeaponID    int               `json:"weapon_id"`
	WeaponName  string            `json:"weapon_name"`
	Rarity      domain.RarityTier `json:"rarity"`
	Probability float64           `json:"probability"`
}

type service struct {
	catalog  *catalog.Catalog
	ledger   repository.Ledger
	builder  *droptable.Builder
	resolver *reward.Resolver
	locks    *concurrency.LockManager
}

// NewService creates a new opening service
func NewService(c *catalog.Catalog, ledger repository.Ledger, locks *concurrency.LockManager) Service {
	return &service{
		catalog:  c,
		ledger:   ledger,
		builder:  droptable.NewBuilder(c),
		resolver: reward.NewResolver(c),
		locks:    locks,
	}
}

// NewServiceWithResolver creates a service with an explicit resolver, used by
// tests to inject deterministic randomness.
func NewServiceWithResolver(c *catalog.Catalog, ledger repository.Ledger, locks *concurrency.LockManager, r *reward.Resolver) Service {
	return &service{
		catalog:  c,
		ledger:   ledger,
		builder:  droptable.NewBuilder(c),
		resolver: r,
		locks:    locks,
	}
}
