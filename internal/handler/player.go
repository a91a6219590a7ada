package handler

import (
	"net/http"
	"strings"

	"github.com/opennergame/boxgame-server/internal/catalog"
	"github.com/opennergame/boxgame-server/internal/domain"
	"github.com/opennergame/boxgame-server/internal/economy"
	"github.com/opennergame/boxgame-server/internal/logger"
	"github.com/opennergame/boxgame-server/internal/ranking"
)

// RegisterPlayerRequest represents a player registration request
type RegisterPlayerRequest struct {
	Username string `json:"username" validate:"required,max=100,excludesall=\x00\n\r\t"`
}

// RegisterPlayerResponse carries the freshly created player.
type RegisterPlayerResponse struct {
	Message string        `json:"message"`
	Player  domain.Player `json:"player"`
}

// HandleRegisterPlayer creates a new player with the starting balance.
func HandleRegisterPlayer(econ economy.Service, rankings ranking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req RegisterPlayerRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Register player"); err != nil {
			return
		}

		player, err := econ.CreatePlayer(r.Context(), req.Username)
		if err != nil {
			respondServiceError(w, r, ErrMsgRegisterFailed, err)
			return
		}

		log.Info("Player registered", "playerID", player.ID, "username", player.Username)

		if rankings != nil && rankings.Enabled() {
			rankings.RecordPlayer(r.Context(), player, 0)
		}

		respondJSON(w, http.StatusCreated, RegisterPlayerResponse{
			Message: MsgPlayerRegistered,
			Player:  *player,
		})
	}
}

// HandleGetProfile returns the player's ledger row, derived passive stats and
// collection progress.
func HandleGetProfile(econ economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := GetQueryParam(r, w, "player_id")
		if !ok {
			return
		}

		profile, err := econ.GetProfile(r.Context(), playerID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetProfileFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, profile)
	}
}

// InventoryResponse wraps a player's items.
type InventoryResponse struct {
	Items []domain.InventoryItem `json:"items"`
	Count int                    `json:"count"`
}

// HandleGetInventory returns the player's items in acquisition order.
func HandleGetInventory(econ economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := GetQueryParam(r, w, "player_id")
		if !ok {
			return
		}

		items, err := econ.GetInventory(r.Context(), playerID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetInventoryFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, InventoryResponse{Items: items, Count: len(items)})
	}
}

// LockItemRequest represents an item lock toggle request
type LockItemRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	ItemID   int64  `json:"item_id" validate:"min=1"`
	Locked   bool   `json:"locked"`
}

// HandleSetItemLock toggles an item's sale protection.
func HandleSetItemLock(econ economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LockItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Lock item"); err != nil {
			return
		}

		if err := econ.SetItemLock(r.Context(), req.PlayerID, req.ItemID, req.Locked); err != nil {
			respondServiceError(w, r, ErrMsgLockItemFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgItemLockUpdated})
	}
}

// SellItemRequest represents a single item sale request
type SellItemRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	ItemID   int64  `json:"item_id" validate:"min=1"`
}

// HandleSellItem sells one item back to the system.
func HandleSellItem(econ economy.Service, rankings ranking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req SellItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Sell item"); err != nil {
			return
		}

		result, err := econ.SellItem(r.Context(), req.PlayerID, req.ItemID)
		if err != nil {
			respondServiceError(w, r, ErrMsgSellItemFailed, err)
			return
		}

		log.Info("Item sold", "playerID", req.PlayerID, "itemID", req.ItemID, "salePrice", result.SalePrice)

		refreshRankings(r, rankings, econ, req.PlayerID)
		respondJSON(w, http.StatusOK, result)
	}
}

// SellAllRequest represents a bulk sale request. MaxRarity bounds what gets
// sold; locked and listed items are always kept.
type SellAllRequest struct {
	PlayerID  string `json:"player_id" validate:"required"`
	MaxRarity string `json:"max_rarity" validate:"required,rarity"`
}

// HandleSellAll sells every unprotected item at or below the given rarity.
func HandleSellAll(econ economy.Service, rankings ranking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req SellAllRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Sell all"); err != nil {
			return
		}

		maxRarity := domain.RarityTier(strings.ToLower(req.MaxRarity))
		result, err := econ.SellAll(r.Context(), req.PlayerID, maxRarity)
		if err != nil {
			respondServiceError(w, r, ErrMsgSellItemFailed, err)
			return
		}

		log.Info("Bulk sale completed",
			"playerID", req.PlayerID,
			"maxRarity", maxRarity,
			"itemsSold", result.ItemsSold,
			"totalValue", result.TotalValue)

		refreshRankings(r, rankings, econ, req.PlayerID)
		respondJSON(w, http.StatusOK, result)
	}
}

// CollectionEntry is one weapon in the player's collection log.
type CollectionEntry struct {
	WeaponID int               `json:"weapon_id"`
	Name     string            `json:"name"`
	Rarity   domain.RarityTier `json:"rarity"`
}

// CollectionResponse summarizes collection progress.
type CollectionResponse struct {
	Unlocked []CollectionEntry `json:"unlocked"`
	Total    int               `json:"total"`
}

// HandleGetCollection lists every weapon the player has ever unlocked.
func HandleGetCollection(econ economy.Service, c *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := GetQueryParam(r, w, "player_id")
		if !ok {
			return
		}

		profile, err := econ.GetProfile(r.Context(), playerID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetProfileFailed, err)
			return
		}

		entries := make([]CollectionEntry, 0, len(profile.UnlockedWeapons))
		for _, id := range profile.UnlockedWeapons {
			weapon := c.Weapon(id)
			if weapon == nil {
				continue
			}
			entries = append(entries, CollectionEntry{
				WeaponID: weapon.ID,
				Name:     weapon.Name,
				Rarity:   weapon.Rarity,
			})
		}
		respondJSON(w, http.StatusOK, CollectionResponse{
			Unlocked: entries,
			Total:    profile.TotalWeapons,
		})
	}
}
