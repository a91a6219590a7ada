package handler

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opennergame/boxgame-server/internal/catalog"
	"github.com/opennergame/boxgame-server/internal/concurrency"
	"github.com/opennergame/boxgame-server/internal/domain"
	"github.com/opennergame/boxgame-server/internal/economy"
	"github.com/opennergame/boxgame-server/internal/market"
	"github.com/opennergame/boxgame-server/internal/opening"
	"github.com/opennergame/boxgame-server/internal/ranking"
	"github.com/opennergame/boxgame-server/internal/repository/memory"
	"github.com/opennergame/boxgame-server/internal/reward"
)

const handlerTestCatalog = `{
  "rarity_weights": {"common": 7000, "epic": 3000},
  "grade_probabilities": {"E":0.30,"F":0.25,"D":0.17,"C":0.12,"B":0.08,"A":0.05,"S":0.025,"M":0.005},
  "bonus_variant_chance": 0.015,
  "bonus_variant_multiplier": 1.8,
  "luck": {"max_boost": 1.5, "half_point": 50, "max_tier_share": 0.25, "min_tier": "epic"},
  "weapons": [
    {"id": 1, "name": "Rusty Pistol", "type": "pistol", "rarity": "common", "base_price": 1000},
    {"id": 2, "name": "Storm Rifle", "type": "rifle", "rarity": "epic", "base_price": 20000}
  ],
  "boxes": [{"id": 1, "name": "Thunder", "price": 5000, "experience": 25, "weapon_ids": [1,2]}]
}`

type testEnv struct {
	store    *memory.MarketStore
	catalog  *catalog.Catalog
	opening  opening.Service
	economy  economy.Service
	market   market.Service
	rankings ranking.Service
}

// newTestEnv wires every service over one in-memory store with deterministic
// randomness (always the lowest roll).
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	c, err := catalog.Parse([]byte(handlerTestCatalog))
	require.NoError(t, err)

	store := memory.NewMarketStore()
	locks := concurrency.NewLockManager()
	rankings, err := ranking.NewService("", "")
	require.NoError(t, err)

	resolver := reward.NewResolverWithRand(c, func() float64 { return 0 })
	return &testEnv{
		store:    store,
		catalog:  c,
		opening:  opening.NewServiceWithResolver(c, store.Store, locks, resolver),
		economy:  economy.NewService(c, store.Store, locks),
		market:   market.NewService(store, locks),
		rankings: rankings,
	}
}

func jsonInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func doRequest(h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMapServiceErrorToUserMessage(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrUnknownBox, http.StatusBadRequest},
		{domain.ErrEmptyBox, http.StatusBadRequest},
		{domain.ErrInsufficientFunds, http.StatusPaymentRequired},
		{domain.ErrPlayerNotFound, http.StatusNotFound},
		{domain.ErrItemNotFound, http.StatusNotFound},
		{domain.ErrListingNotFound, http.StatusNotFound},
		{domain.ErrPlayerExists, http.StatusConflict},
		{domain.ErrItemNotOwned, http.StatusConflict},
		{domain.ErrItemLocked, http.StatusConflict},
		{domain.ErrItemListed, http.StatusConflict},
		{domain.ErrListingOwn, http.StatusConflict},
		{domain.ErrConsistency, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, message := mapServiceErrorToUserMessage(tc.err)
		assert.Equal(t, tc.status, status, "error %v", tc.err)
		assert.NotEmpty(t, message)
	}

	status, _ := mapServiceErrorToUserMessage(nil)
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestHandleHealthz(t *testing.T) {
	rec := doRequest(HandleHealthz(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestFormatValidationError(t *testing.T) {
	err := GetValidator().ValidateStruct(RegisterPlayerRequest{})
	require.Error(t, err)

	fields := FormatValidationError(err)
	assert.Equal(t, "This field is required", fields["username"])
}
