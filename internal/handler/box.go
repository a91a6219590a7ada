package handler

import (
	"net/http"
	"strconv"

	"github.com/opennergame/boxgame-server/internal/catalog"
	"github.com/opennergame/boxgame-server/internal/domain"
	"github.com/opennergame/boxgame-server/internal/economy"
	"github.com/opennergame/boxgame-server/internal/logger"
	"github.com/opennergame/boxgame-server/internal/opening"
	"github.com/opennergame/boxgame-server/internal/ranking"
)

// OpenBoxRequest represents a box opening request
type OpenBoxRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	BoxID    int    `json:"box_id" validate:"min=1"`
}

// HandleOpenBox opens one box for the player and returns the committed drop.
func HandleOpenBox(svc opening.Service, econ economy.Service, rankings ranking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req OpenBoxRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Open box"); err != nil {
			return
		}

		result, err := svc.OpenBox(r.Context(), req.PlayerID, req.BoxID)
		if err != nil {
			respondServiceError(w, r, ErrMsgOpenBoxFailed, err)
			return
		}

		log.Info("Box opened",
			"playerID", req.PlayerID,
			"boxID", req.BoxID,
			"weapon", result.WeaponName,
			"grade", result.Item.Grade,
			"bonusVariant", result.Item.BonusVariant)

		refreshRankings(r, rankings, econ, req.PlayerID)
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleGetProbabilities exposes a box's drop distribution. With a player_id
// the response also carries the caller's luck-adjusted distribution.
func HandleGetProbabilities(svc opening.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boxIDStr, ok := GetQueryParam(r, w, "box_id")
		if !ok {
			return
		}
		boxID, err := strconv.Atoi(boxIDStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidBoxID)
			return
		}
		playerID := GetOptionalQueryParam(r, "player_id", "")

		view, err := svc.GetProbabilities(r.Context(), playerID, boxID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetProbabilityFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, view)
	}
}

// BoxView is one purchasable box in the shop listing.
type BoxView struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Experience int    `json:"experience"`
	Weapons    int    `json:"weapons"`
}

// HandleGetBoxes lists every box in the catalog.
func HandleGetBoxes(c *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boxes := c.Boxes()
		views := make([]BoxView, 0, len(boxes))
		for _, b := range boxes {
			views = append(views, BoxView{
				ID:         b.ID,
				Name:       b.Name,
				Price:      b.Price,
				Experience: b.Experience,
				Weapons:    len(b.WeaponIDs),
			})
		}
		respondJSON(w, http.StatusOK, views)
	}
}

// refreshRankings pushes the player's current scores to the leaderboards.
// Rankings are advisory; failures are logged and never affect the response.
func refreshRankings(r *http.Request, rankings ranking.Service, econ economy.Service, playerID string) {
	if rankings == nil || !rankings.Enabled() {
		return
	}
	ctx := r.Context()
	log := logger.FromContext(ctx)

	player, items, err := playerSnapshot(r, econ, playerID)
	if err != nil {
		log.Warn("Skipping ranking refresh", "playerID", playerID, "error", err)
		return
	}
	var inventoryValue int64
	for _, item := range items {
		inventoryValue += item.FinalPrice
	}
	rankings.RecordPlayer(ctx, player, inventoryValue)
}

func playerSnapshot(r *http.Request, econ economy.Service, playerID string) (*domain.Player, []domain.InventoryItem, error) {
	profile, err := econ.GetProfile(r.Context(), playerID)
	if err != nil {
		return nil, nil, err
	}
	items, err := econ.GetInventory(r.Context(), playerID)
	if err != nil {
		return nil, nil, err
	}
	return &profile.Player, items, nil
}
