package market

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opennergame/boxgame-server/internal/concurrency"
	"github.com/opennergame/boxgame-server/internal/domain"
	"github.com/opennergame/boxgame-server/internal/repository/memory"
)

func newTestMarket(t *testing.T) (Service, *memory.MarketStore) {
	t.Helper()
	store := memory.NewMarketStore()
	return NewService(store, concurrency.NewLockManager()), store
}

func TestCreateListing(t *testing.T) {
	svc, store := newTestMarket(t)
	store.AddPlayer("seller", 0)
	itemID := store.AddItem(domain.InventoryItem{PlayerID: "seller", WeaponID: 2, Grade: domain.GradeA, FinalPrice: 60000})

	listing, err := svc.CreateListing(context.Background(), "seller", itemID, 75000)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, listing.ID)
	assert.Equal(t, "seller", listing.SellerID)
	assert.Equal(t, itemID, listing.ItemID)
	assert.Equal(t, 2, listing.WeaponID)
	assert.Equal(t, int64(75000), listing.Price)

	item, err := store.GetInventoryItem(context.Background(), itemID)
	require.NoError(t, err)
	assert.True(t, item.Listed)

	open, err := svc.GetListings(context.Background())
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestCreateListingGuards(t *testing.T) {
	svc, store := newTestMarket(t)
	store.AddPlayer("seller", 0)

	itemID := store.AddItem(domain.InventoryItem{PlayerID: "seller", WeaponID: 1, Grade: domain.GradeE, FinalPrice: 1000})
	locked := store.AddItem(domain.InventoryItem{PlayerID: "seller", WeaponID: 1, Grade: domain.GradeE, FinalPrice: 1000, Locked: true})
	foreign := store.AddItem(domain.InventoryItem{PlayerID: "other", WeaponID: 1, Grade: domain.GradeE, FinalPrice: 1000})

	_, err := svc.CreateListing(context.Background(), "seller", itemID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.CreateListing(context.Background(), "seller", locked, 500)
	assert.ErrorIs(t, err, domain.ErrItemLocked)
	_, err = svc.CreateListing(context.Background(), "seller", foreign, 500)
	assert.ErrorIs(t, err, domain.ErrItemNotOwned)

	// Double-listing the same item fails on the second attempt.
	_, err = svc.CreateListing(context.Background(), "seller", itemID, 500)
	require.NoError(t, err)
	_, err = svc.CreateListing(context.Background(), "seller", itemID, 500)
	assert.ErrorIs(t, err, domain.ErrItemListed)
}

func TestBuyListing(t *testing.T) {
	svc, store := newTestMarket(t)
	store.AddPlayer("seller", 0)
	store.AddPlayer("buyer", 100000)
	itemID := store.AddItem(domain.InventoryItem{PlayerID: "seller", WeaponID: 2, Grade: domain.GradeA, FinalPrice: 60000})

	listing, err := svc.CreateListing(context.Background(), "seller", itemID, 80000)
	require.NoError(t, err)

	result, err := svc.BuyListing(context.Background(), "buyer", listing.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(80000), result.Price)
	assert.Equal(t, int64(4000), result.Fee) // 5%
	assert.Equal(t, int64(76000), result.SellerPayout)
	assert.Equal(t, int64(20000), result.BuyerBalance)
	assert.Equal(t, "buyer", result.Item.PlayerID)
	assert.False(t, result.Item.Listed)

	assert.Equal(t, int64(76000), store.Player("seller").Balance)
	assert.Equal(t, int64(20000), store.Player("buyer").Balance)
	assert.Equal(t, 1, store.ItemCount("buyer"))
	assert.Zero(t, store.ItemCount("seller"))

	open, err := svc.GetListings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestBuyListingGuards(t *testing.T) {
	svc, store := newTestMarket(t)
	store.AddPlayer("seller", 0)
	store.AddPlayer("buyer", 100)
	itemID := store.AddItem(domain.InventoryItem{PlayerID: "seller", WeaponID: 1, Grade: domain.GradeE, FinalPrice: 1000})

	listing, err := svc.CreateListing(context.Background(), "seller", itemID, 5000)
	require.NoError(t, err)

	_, err = svc.BuyListing(context.Background(), "seller", listing.ID)
	assert.ErrorIs(t, err, domain.ErrListingOwn)

	_, err = svc.BuyListing(context.Background(), "buyer", listing.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, err = svc.BuyListing(context.Background(), "buyer", uuid.New())
	assert.ErrorIs(t, err, domain.ErrListingNotFound)

	// Failed buys leave the listing and the item untouched.
	item, err := store.GetInventoryItem(context.Background(), itemID)
	require.NoError(t, err)
	assert.True(t, item.Listed)
	assert.Equal(t, "seller", item.PlayerID)
}

func TestBuyListingRaceSingleWinner(t *testing.T) {
	svc, store := newTestMarket(t)
	store.AddPlayer("seller", 0)
	store.AddPlayer("b1", 10000)
	store.AddPlayer("b2", 10000)
	itemID := store.AddItem(domain.InventoryItem{PlayerID: "seller", WeaponID: 1, Grade: domain.GradeE, FinalPrice: 1000})

	listing, err := svc.CreateListing(context.Background(), "seller", itemID, 5000)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, buyer := range []string{"b1", "b2"} {
		wg.Add(1)
		go func(i int, buyer string) {
			defer wg.Done()
			_, errs[i] = svc.BuyListing(context.Background(), buyer, listing.ID)
		}(i, buyer)
	}
	wg.Wait()

	var wins, misses int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrListingNotFound):
			misses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, misses)
	// Exactly one payout happened.
	assert.Equal(t, int64(4750), store.Player("seller").Balance)
}

func TestCancelListing(t *testing.T) {
	svc, store := newTestMarket(t)
	store.AddPlayer("seller", 0)
	itemID := store.AddItem(domain.InventoryItem{PlayerID: "seller", WeaponID: 1, Grade: domain.GradeE, FinalPrice: 1000})

	listing, err := svc.CreateListing(context.Background(), "seller", itemID, 5000)
	require.NoError(t, err)

	// Only the owner can cancel.
	err = svc.CancelListing(context.Background(), "other", listing.ID)
	assert.ErrorIs(t, err, domain.ErrListingNotFound)

	require.NoError(t, svc.CancelListing(context.Background(), "seller", listing.ID))

	item, err := store.GetInventoryItem(context.Background(), itemID)
	require.NoError(t, err)
	assert.False(t, item.Listed)

	open, err := svc.GetListings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, open)
}
