package economy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opennergame/boxgame-server/internal/catalog"
	"github.com/opennergame/boxgame-server/internal/concurrency"
	"github.com/opennergame/boxgame-server/internal/domain"
	"github.com/opennergame/boxgame-server/internal/repository/memory"
)

const economyTestCatalog = `{
  "rarity_weights": {"common": 7000, "rare": 2000, "epic": 1000},
  "grade_probabilities": {"E":0.30,"F":0.25,"D":0.17,"C":0.12,"B":0.08,"A":0.05,"S":0.025,"M":0.005},
  "bonus_variant_chance": 0.015,
  "bonus_variant_multiplier": 1.8,
  "luck": {"max_boost": 1.5, "half_point": 50, "max_tier_share": 0.25, "min_tier": "epic"},
  "weapons": [
    {"id": 1, "name": "Rusty Pistol", "type": "pistol", "rarity": "common", "base_price": 1000},
    {"id": 2, "name": "Marksman", "type": "rifle", "rarity": "rare", "base_price": 4500},
    {"id": 3, "name": "Trader Talisman", "type": "relic", "rarity": "epic", "base_price": 5000,
     "passive": {"kind": "weapon_value_bonus", "magnitude": 0.25, "stackable": true}},
    {"id": 4, "name": "Gilded Vault", "type": "relic", "rarity": "epic", "base_price": 5000,
     "passive": {"kind": "income_rate", "magnitude": 2.0, "stackable": true}}
  ],
  "boxes": [{"id": 1, "name": "Thunder", "price": 5000, "experience": 25, "weapon_ids": [1,2,3,4]}]
}`

func newTestEconomy(t *testing.T) (Service, *memory.Store) {
	t.Helper()
	c, err := catalog.Parse([]byte(economyTestCatalog))
	require.NoError(t, err)
	ledger := memory.NewStore()
	return NewService(c, ledger, concurrency.NewLockManager()), ledger
}

func TestCreatePlayer(t *testing.T) {
	svc, _ := newTestEconomy(t)

	p, err := svc.CreatePlayer(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, int64(StartingBalance), p.Balance)
	assert.Equal(t, 1, p.Level)

	_, err = svc.CreatePlayer(context.Background(), "alice")
	assert.ErrorIs(t, err, domain.ErrPlayerExists)

	_, err = svc.CreatePlayer(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetProfile(t *testing.T) {
	svc, ledger := newTestEconomy(t)
	ledger.AddPlayer("p1", 5000)
	ledger.AddItem(domain.InventoryItem{PlayerID: "p1", WeaponID: 3, Grade: domain.GradeC})

	profile, err := svc.GetProfile(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, int64(5000), profile.Player.Balance)
	// 0.25 * grade C multiplier 1.4.
	assert.InDelta(t, 0.35, profile.PassiveStats.WeaponValueBonusPct, 1e-9)
	assert.Equal(t, 4, profile.TotalWeapons)

	_, err = svc.GetProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestSellItem(t *testing.T) {
	svc, ledger := newTestEconomy(t)
	ledger.AddPlayer("p1", 0)
	itemID := ledger.AddItem(domain.InventoryItem{PlayerID: "p1", WeaponID: 1, Grade: domain.GradeE, FinalPrice: 1000})
	ledger.SetWeaponStats(domain.WeaponStats{WeaponID: 1, TotalOpened: 3, CurrentExisting: 3})

	result, err := svc.SellItem(context.Background(), "p1", itemID)
	require.NoError(t, err)

	assert.Equal(t, int64(1000), result.SalePrice)
	assert.Equal(t, int64(1000), result.NewBalance)
	assert.False(t, result.ValueBoosted)
	assert.Zero(t, ledger.ItemCount("p1"))

	ws := ledger.WeaponStats(1)
	assert.Equal(t, int64(3), ws.TotalOpened)
	assert.Equal(t, int64(2), ws.CurrentExisting)
}

func TestSellItemValueBonus(t *testing.T) {
	svc, ledger := newTestEconomy(t)
	ledger.AddPlayer("p1", 0)
	itemID := ledger.AddItem(domain.InventoryItem{PlayerID: "p1", WeaponID: 1, Grade: domain.GradeE, FinalPrice: 1000})
	// +25% sale value at grade E.
	ledger.AddItem(domain.InventoryItem{PlayerID: "p1", WeaponID: 3, Grade: domain.GradeE, FinalPrice: 5000})

	result, err := svc.SellItem(context.Background(), "p1", itemID)
	require.NoError(t, err)
	assert.Equal(t, int64(1250), result.SalePrice)
	assert.True(t, result.ValueBoosted)
}

func TestSellItemGuards(t *testing.T) {
	svc, ledger := newTestEconomy(t)
	ledger.AddPlayer("p1", 0)
	ledger.AddPlayer("p2", 0)

	locked := ledger.AddItem(domain.InventoryItem{PlayerID: "p1", WeaponID: 1, Grade: domain.GradeE, FinalPrice: 1000, Locked: true})
	listed := ledger.AddItem(domain.InventoryItem{PlayerID: "p1", WeaponID: 1, Grade: domain.GradeE, FinalPrice: 1000, Listed: true})
	foreign := ledger.AddItem(domain.InventoryItem{PlayerID: "p2", WeaponID: 1, Grade: domain.GradeE, FinalPrice: 1000})

	_, err := svc.SellItem(context.Background(), "p1", locked)
	assert.ErrorIs(t, err, domain.ErrItemLocked)
	_, err = svc.SellItem(context.Background(), "p1", listed)
	assert.ErrorIs(t, err, domain.ErrItemListed)
	_, err = svc.SellItem(context.Background(), "p1", foreign)
	assert.ErrorIs(t, err, domain.ErrItemNotOwned)
	_, err = svc.SellItem(context.Background(), "p1", 999)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	// Nothing sold, nothing credited.
	assert.Equal(t, int64(0), ledger.Player("p1").Balance)
	assert.Equal(t, 2, ledger.ItemCount("p1"))
}

func TestSellAllRespectsRarityAndFlags(t *testing.T) {
	svc, ledger := newTestEconomy(t)
	ledger.AddPlayer("p1", 0)

	ledger.AddItem(domain.InventoryItem{PlayerID: "p1", WeaponID: 1, Grade: domain.GradeE, FinalPrice: 1000})
	ledger.AddItem(domain.InventoryItem{PlayerID: "p1", WeaponID: 1, Grade: domain.GradeE, FinalPrice: 1200})
	ledger.AddItem(domain.InventoryItem{PlayerID: "p1", WeaponID: 1, Grade: domain.GradeE, FinalPrice: 900, Locked: true})
	ledger.AddItem(domain.InventoryItem{PlayerID: "p1", WeaponID: 1, Grade: domain.GradeE, FinalPrice: 800, Listed: true})
	// Rare stays above the cutoff.
	ledger.AddItem(domain.InventoryItem{PlayerID: "p1", WeaponID: 2, Grade: domain.GradeE, FinalPrice: 9000})

	result, err := svc.SellAll(context.Background(), "p1", domain.RarityCommon)
	require.NoError(t, err)

	assert.Equal(t, 2, result.ItemsSold)
	assert.Equal(t, int64(2200), result.TotalValue)
	assert.Equal(t, int64(2200), result.NewBalance)
	assert.Equal(t, 3, ledger.ItemCount("p1"))
}

func TestSellAllNothingToSell(t *testing.T) {
	svc, ledger := newTestEconomy(t)
	ledger.AddPlayer("p1", 500)

	result, err := svc.SellAll(context.Background(), "p1", domain.RarityAncestral)
	require.NoError(t, err)
	assert.Zero(t, result.ItemsSold)
	assert.Equal(t, int64(500), ledger.Player("p1").Balance)

	_, err = svc.SellAll(context.Background(), "p1", domain.RarityTier("shiny"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSetItemLock(t *testing.T) {
	svc, ledger := newTestEconomy(t)
	ledger.AddPlayer("p1", 0)
	itemID := ledger.AddItem(domain.InventoryItem{PlayerID: "p1", WeaponID: 1, Grade: domain.GradeE, FinalPrice: 1000})

	require.NoError(t, svc.SetItemLock(context.Background(), "p1", itemID, true))

	_, err := svc.SellItem(context.Background(), "p1", itemID)
	assert.ErrorIs(t, err, domain.ErrItemLocked)

	require.NoError(t, svc.SetItemLock(context.Background(), "p1", itemID, false))
	_, err = svc.SellItem(context.Background(), "p1", itemID)
	assert.NoError(t, err)

	listed := ledger.AddItem(domain.InventoryItem{PlayerID: "p1", WeaponID: 1, Grade: domain.GradeE, Listed: true})
	assert.ErrorIs(t, svc.SetItemLock(context.Background(), "p1", listed, true), domain.ErrItemListed)

	foreign := ledger.AddItem(domain.InventoryItem{PlayerID: "p2", WeaponID: 1, Grade: domain.GradeE})
	assert.ErrorIs(t, svc.SetItemLock(context.Background(), "p1", foreign, true), domain.ErrItemNotOwned)
}

func TestCreditPassiveIncome(t *testing.T) {
	svc, ledger := newTestEconomy(t)
	ledger.AddPlayer("earner", 0)
	ledger.AddPlayer("idle", 0)
	// 2.0 cents/s at grade E.
	ledger.AddItem(domain.InventoryItem{PlayerID: "earner", WeaponID: 4, Grade: domain.GradeE})

	total, err := svc.CreditPassiveIncome(context.Background(), 60*time.Second)
	require.NoError(t, err)

	assert.Equal(t, int64(120), total)
	assert.Equal(t, int64(120), ledger.Player("earner").Balance)
	assert.Equal(t, int64(0), ledger.Player("idle").Balance)
}

func TestCreditPassiveIncomeBonusVariantDoubles(t *testing.T) {
	svc, ledger := newTestEconomy(t)
	ledger.AddPlayer("earner", 0)
	ledger.AddItem(domain.InventoryItem{PlayerID: "earner", WeaponID: 4, Grade: domain.GradeE, BonusVariant: true})

	total, err := svc.CreditPassiveIncome(context.Background(), 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(120), total)
}
