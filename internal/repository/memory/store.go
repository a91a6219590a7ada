// Package memory implements the repository interfaces on in-process maps.
// Transactions clone the full state and swap it back on Commit, giving the
// same all-or-nothing visibility as the SQL store. Used by service tests and
// local development without a database.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opennergame/boxgame-server/internal/domain"
	"github.com/opennergame/boxgame-server/internal/repository"
)

type state struct {
	players    map[string]*domain.Player
	items      map[int64]*domain.InventoryItem
	stats      map[int]*domain.WeaponStats
	unlocks    map[string]map[int]bool
	listings   map[uuid.UUID]*domain.Listing
	nextItemID int64
}

func newState() *state {
	return &state{
		players:    make(map[string]*domain.Player),
		items:      make(map[int64]*domain.InventoryItem),
		stats:      make(map[int]*domain.WeaponStats),
		unlocks:    make(map[string]map[int]bool),
		listings:   make(map[uuid.UUID]*domain.Listing),
		nextItemID: 1,
	}
}

func (s *state) clone() *state {
	c := newState()
	c.nextItemID = s.nextItemID
	for id, p := range s.players {
		cp := *p
		c.players[id] = &cp
	}
	for id, it := range s.items {
		ci := *it
		c.items[id] = &ci
	}
	for id, ws := range s.stats {
		cs := *ws
		c.stats[id] = &cs
	}
	for pid, set := range s.unlocks {
		cu := make(map[int]bool, len(set))
		for wid := range set {
			cu[wid] = true
		}
		c.unlocks[pid] = cu
	}
	for id, l := range s.listings {
		cl := *l
		c.listings[id] = &cl
	}
	return c
}

// Store implements repository.Ledger in memory.
type Store struct {
	mu    sync.Mutex
	state *state

	// failOn maps an operation name to an injected error, for tests that
	// exercise rollback paths.
	failOn map[string]error
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{state: newState(), failOn: make(map[string]error)}
}

// FailOn injects an error for the named operation.
func (s *Store) FailOn(op string, err error) { s.failOn[op] = err }

// AddPlayer seeds a player directly, bypassing transactions.
func (s *Store) AddPlayer(id string, balance int64) *domain.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &domain.Player{ID: id, Username: id, Balance: balance, Level: 1, CreatedAt: time.Now()}
	s.state.players[id] = p
	return p
}

// AddItem seeds an inventory item directly and returns its id.
func (s *Store) AddItem(item domain.InventoryItem) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = s.state.nextItemID
	s.state.nextItemID++
	if item.AcquiredAt.IsZero() {
		item.AcquiredAt = time.Now()
	}
	s.state.items[item.ID] = &item
	return item.ID
}

// Player returns a snapshot of the player row.
func (s *Store) Player(id string) domain.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.state.players[id]
}

// ItemCount returns how many items the player holds.
func (s *Store) ItemCount(playerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.state.items {
		if it.PlayerID == playerID {
			n++
		}
	}
	return n
}

// SetWeaponStats seeds a weapon's counters directly.
func (s *Store) SetWeaponStats(ws domain.WeaponStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := ws
	s.state.stats[ws.WeaponID] = &cp
}

// WeaponStats returns a snapshot of the weapon's counters.
func (s *Store) WeaponStats(weaponID int) domain.WeaponStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ws, ok := s.state.stats[weaponID]; ok {
		return *ws
	}
	return domain.WeaponStats{WeaponID: weaponID}
}

func (s *Store) CreatePlayer(ctx context.Context, username string, startingBalance int64) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.state.players {
		if p.Username == username {
			return nil, fmt.Errorf("%w: %s", domain.ErrPlayerExists, username)
		}
	}
	p := &domain.Player{
		ID:        uuid.NewString(),
		Username:  username,
		Balance:   startingBalance,
		Level:     1,
		CreatedAt: time.Now(),
	}
	s.state.players[p.ID] = p
	cp := *p
	return &cp, nil
}

func (s *Store) GetPlayer(ctx context.Context, playerID string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.state.players[playerID]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) GetPlayerByUsername(ctx context.Context, username string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.state.players {
		if p.Username == username {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrPlayerNotFound
}

func (s *Store) ListPlayerIDs(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.state.players))
	for id := range s.state.players {
		out = append(out, id)
	}
	return out, nil
}

func (s *Store) ListInventory(ctx context.Context, playerID string) ([]domain.InventoryItem, error) {
	if err := s.failOn["ListInventory"]; err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.InventoryItem, 0)
	for _, it := range s.state.items {
		if it.PlayerID == playerID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (s *Store) GetInventoryItem(ctx context.Context, itemID int64) (*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.state.items[itemID]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	cp := *it
	return &cp, nil
}

func (s *Store) GetWeaponStats(ctx context.Context, weaponID int) (*domain.WeaponStats, error) {
	ws := s.WeaponStats(weaponID)
	return &ws, nil
}

func (s *Store) ListWeaponStats(ctx context.Context) ([]domain.WeaponStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.WeaponStats, 0, len(s.state.stats))
	for _, ws := range s.state.stats {
		out = append(out, *ws)
	}
	return out, nil
}

func (s *Store) ListUnlockedWeapons(ctx context.Context, playerID string) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, 0)
	for wid := range s.state.unlocks[playerID] {
		out = append(out, wid)
	}
	return out, nil
}

// BeginTx starts a ledger transaction over a cloned state.
func (s *Store) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	return s.beginTx()
}

func (s *Store) beginTx() (*StoreTx, error) {
	if err := s.failOn["BeginTx"]; err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return &StoreTx{store: s, state: s.state.clone()}, nil
}

// MarketStore widens Store with listing persistence, mirroring the postgres
// layout.
type MarketStore struct {
	*Store
}

// NewMarketStore creates an empty in-memory market store.
func NewMarketStore() *MarketStore {
	return &MarketStore{Store: NewStore()}
}

// BeginTx starts a market transaction.
func (s *MarketStore) BeginTx(ctx context.Context) (repository.MarketTx, error) {
	return s.beginTx()
}

func (s *MarketStore) GetListing(ctx context.Context, listingID uuid.UUID) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.state.listings[listingID]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	cp := *l
	return &cp, nil
}

func (s *MarketStore) ListListings(ctx context.Context) ([]domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Listing, 0, len(s.state.listings))
	for _, l := range s.state.listings {
		out = append(out, *l)
	}
	return out, nil
}

func (s *MarketStore) ListListingsBySeller(ctx context.Context, sellerID string) ([]domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Listing, 0)
	for _, l := range s.state.listings {
		if l.SellerID == sellerID {
			out = append(out, *l)
		}
	}
	return out, nil
}
