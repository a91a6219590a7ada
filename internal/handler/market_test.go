package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opennergame/boxgame-server/internal/domain"
	"github.com/opennergame/boxgame-server/internal/market"
)

func newMarketHandler(t *testing.T) (*MarketHandler, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return NewMarketHandler(env.market, env.economy, env.rankings), env
}

func TestHandleCreateAndListListings(t *testing.T) {
	h, env := newMarketHandler(t)
	env.store.AddPlayer("seller", 0)
	itemID := env.store.AddItem(domain.InventoryItem{PlayerID: "seller", WeaponID: 2, Grade: domain.GradeA, FinalPrice: 60000})

	rec := doRequest(h.HandleCreateListing, http.MethodPost, "/api/v1/market/listing",
		`{"player_id":"seller","item_id":`+jsonInt(itemID)+`,"price":75000}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var listing domain.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Equal(t, "seller", listing.SellerID)
	assert.Equal(t, int64(75000), listing.Price)

	rec = doRequest(h.HandleGetListings, http.MethodGet, "/api/v1/market/listings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var open []domain.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &open))
	assert.Len(t, open, 1)

	rec = doRequest(h.HandleGetPlayerListings, http.MethodGet, "/api/v1/market/listings/mine?player_id=seller", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleCreateListingValidation(t *testing.T) {
	h, env := newMarketHandler(t)
	env.store.AddPlayer("seller", 0)
	itemID := env.store.AddItem(domain.InventoryItem{PlayerID: "seller", WeaponID: 1, Grade: domain.GradeE, FinalPrice: 1000})

	// Zero price fails struct validation before hitting the service.
	rec := doRequest(h.HandleCreateListing, http.MethodPost, "/api/v1/market/listing",
		`{"player_id":"seller","item_id":`+jsonInt(itemID)+`,"price":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleBuyListing(t *testing.T) {
	h, env := newMarketHandler(t)
	env.store.AddPlayer("seller", 0)
	env.store.AddPlayer("buyer", 100000)
	itemID := env.store.AddItem(domain.InventoryItem{PlayerID: "seller", WeaponID: 2, Grade: domain.GradeA, FinalPrice: 60000})

	listing, err := env.market.CreateListing(context.Background(), "seller", itemID, 80000)
	require.NoError(t, err)

	rec := doRequest(h.HandleBuyListing, http.MethodPost, "/api/v1/market/buy",
		`{"player_id":"buyer","listing_id":"`+listing.ID.String()+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result market.PurchaseResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, int64(80000), result.Price)
	assert.Equal(t, int64(4000), result.Fee)
	assert.Equal(t, "buyer", result.Item.PlayerID)

	// Listing is gone now.
	rec = doRequest(h.HandleBuyListing, http.MethodPost, "/api/v1/market/buy",
		`{"player_id":"buyer","listing_id":"`+listing.ID.String()+`"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleBuyListingBadID(t *testing.T) {
	h, _ := newMarketHandler(t)

	rec := doRequest(h.HandleBuyListing, http.MethodPost, "/api/v1/market/buy",
		`{"player_id":"buyer","listing_id":"not-a-uuid"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCancelListing(t *testing.T) {
	h, env := newMarketHandler(t)
	env.store.AddPlayer("seller", 0)
	itemID := env.store.AddItem(domain.InventoryItem{PlayerID: "seller", WeaponID: 1, Grade: domain.GradeE, FinalPrice: 1000})

	listing, err := env.market.CreateListing(context.Background(), "seller", itemID, 5000)
	require.NoError(t, err)

	// Only the owner can cancel.
	rec := doRequest(h.HandleCancelListing, http.MethodPost, "/api/v1/market/cancel",
		`{"player_id":"other","listing_id":"`+listing.ID.String()+`"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(h.HandleCancelListing, http.MethodPost, "/api/v1/market/cancel",
		`{"player_id":"seller","listing_id":"`+listing.ID.String()+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), MsgListingCancelled)
}
