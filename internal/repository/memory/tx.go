package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opennergame/boxgame-server/internal/domain"
)

// StoreTx implements repository.MarketTx over a cloned state. Commit swaps
// the clone in; Rollback is a no-op drop.
//
// The whole-state swap means two transactions held open concurrently lose
// the first commit, even when they touch different players. The per-player
// locks only serialize same-player work, so tests running this store must
// not overlap transactions across players; postgres backs production.
type StoreTx struct {
	store *Store
	state *state
}

func (t *StoreTx) Commit(ctx context.Context) error {
	if err := t.store.failOn["Commit"]; err != nil {
		return err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.state = t.state
	return nil
}

func (t *StoreTx) Rollback(ctx context.Context) error { return nil }

func (t *StoreTx) GetPlayerForUpdate(ctx context.Context, playerID string) (*domain.Player, error) {
	if err := t.store.failOn["GetPlayerForUpdate"]; err != nil {
		return nil, err
	}
	p, ok := t.state.players[playerID]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

func (t *StoreTx) AdjustBalance(ctx context.Context, playerID string, delta int64) (int64, error) {
	if err := t.store.failOn["AdjustBalance"]; err != nil {
		return 0, err
	}
	p, ok := t.state.players[playerID]
	if !ok {
		return 0, domain.ErrPlayerNotFound
	}
	if p.Balance+delta < 0 {
		return 0, domain.ErrInsufficientFunds
	}
	p.Balance += delta
	return p.Balance, nil
}

func (t *StoreTx) SetExperience(ctx context.Context, playerID string, experience int64, level int) error {
	if err := t.store.failOn["SetExperience"]; err != nil {
		return err
	}
	p, ok := t.state.players[playerID]
	if !ok {
		return domain.ErrPlayerNotFound
	}
	p.Experience = experience
	p.Level = level
	return nil
}

func (t *StoreTx) InsertInventoryItem(ctx context.Context, item *domain.InventoryItem) error {
	if err := t.store.failOn["InsertInventoryItem"]; err != nil {
		return err
	}
	item.ID = t.state.nextItemID
	t.state.nextItemID++
	item.AcquiredAt = time.Now()
	cp := *item
	t.state.items[item.ID] = &cp
	return nil
}

func (t *StoreTx) GetInventoryItemForUpdate(ctx context.Context, itemID int64) (*domain.InventoryItem, error) {
	if err := t.store.failOn["GetInventoryItemForUpdate"]; err != nil {
		return nil, err
	}
	it, ok := t.state.items[itemID]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	cp := *it
	return &cp, nil
}

func (t *StoreTx) DeleteInventoryItem(ctx context.Context, itemID int64) error {
	if err := t.store.failOn["DeleteInventoryItem"]; err != nil {
		return err
	}
	if _, ok := t.state.items[itemID]; !ok {
		return domain.ErrItemNotFound
	}
	delete(t.state.items, itemID)
	return nil
}

func (t *StoreTx) SetItemLocked(ctx context.Context, itemID int64, locked bool) error {
	it, ok := t.state.items[itemID]
	if !ok {
		return domain.ErrItemNotFound
	}
	it.Locked = locked
	return nil
}

func (t *StoreTx) SetItemListed(ctx context.Context, itemID int64, listed bool) error {
	it, ok := t.state.items[itemID]
	if !ok {
		return domain.ErrItemNotFound
	}
	it.Listed = listed
	return nil
}

func (t *StoreTx) TransferInventoryItem(ctx context.Context, itemID int64, newOwnerID string) error {
	if err := t.store.failOn["TransferInventoryItem"]; err != nil {
		return err
	}
	it, ok := t.state.items[itemID]
	if !ok {
		return domain.ErrItemNotFound
	}
	it.PlayerID = newOwnerID
	it.Locked = false
	it.Listed = false
	return nil
}

func (t *StoreTx) IncrementWeaponStat(ctx context.Context, weaponID int, field domain.StatField, delta int64) error {
	if err := t.store.failOn["IncrementWeaponStat"]; err != nil {
		return err
	}
	ws, ok := t.state.stats[weaponID]
	if !ok {
		ws = &domain.WeaponStats{WeaponID: weaponID}
		t.state.stats[weaponID] = ws
	}
	switch field {
	case domain.StatTotalOpened:
		ws.TotalOpened += delta
	case domain.StatCurrentExisting:
		ws.CurrentExisting += delta
	case domain.StatBonusTotalOpened:
		ws.BonusTotalOpened += delta
	case domain.StatBonusCurrentExisting:
		ws.BonusCurrentExisting += delta
	default:
		return fmt.Errorf("%w: stat field %q", domain.ErrInvalidInput, field)
	}
	return nil
}

func (t *StoreTx) MarkWeaponUnlocked(ctx context.Context, playerID string, weaponID int) (bool, error) {
	if err := t.store.failOn["MarkWeaponUnlocked"]; err != nil {
		return false, err
	}
	set, ok := t.state.unlocks[playerID]
	if !ok {
		set = make(map[int]bool)
		t.state.unlocks[playerID] = set
	}
	if set[weaponID] {
		return false, nil
	}
	set[weaponID] = true
	return true, nil
}

func (t *StoreTx) InsertListing(ctx context.Context, listing *domain.Listing) error {
	if err := t.store.failOn["InsertListing"]; err != nil {
		return err
	}
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = time.Now()
	}
	cp := *listing
	t.state.listings[listing.ID] = &cp
	return nil
}

func (t *StoreTx) GetListingForUpdate(ctx context.Context, listingID uuid.UUID) (*domain.Listing, error) {
	if err := t.store.failOn["GetListingForUpdate"]; err != nil {
		return nil, err
	}
	l, ok := t.state.listings[listingID]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	cp := *l
	return &cp, nil
}

func (t *StoreTx) DeleteListing(ctx context.Context, listingID uuid.UUID) error {
	if err := t.store.failOn["DeleteListing"]; err != nil {
		return err
	}
	if _, ok := t.state.listings[listingID]; !ok {
		return domain.ErrListingNotFound
	}
	delete(t.state.listings, listingID)
	return nil
}
