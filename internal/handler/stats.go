package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/opennergame/boxgame-server/internal/catalog"
	"github.com/opennergame/boxgame-server/internal/domain"
)

// StatsReader is the read-only slice of the ledger the stats endpoints need.
type StatsReader interface {
	GetWeaponStats(ctx context.Context, weaponID int) (*domain.WeaponStats, error)
	ListWeaponStats(ctx context.Context) ([]domain.WeaponStats, error)
}

// WeaponStatsView joins the global counters with catalog identity.
type WeaponStatsView struct {
	WeaponID             int               `json:"weapon_id"`
	Name                 string            `json:"name"`
	Rarity               domain.RarityTier `json:"rarity"`
	TotalOpened          int64             `json:"total_opened"`
	CurrentExisting      int64             `json:"current_existing"`
	BonusTotalOpened     int64             `json:"bonus_total_opened"`
	BonusCurrentExisting int64             `json:"bonus_current_existing"`
}

func statsView(stats *domain.WeaponStats, c *catalog.Catalog) WeaponStatsView {
	view := WeaponStatsView{
		WeaponID:             stats.WeaponID,
		TotalOpened:          stats.TotalOpened,
		CurrentExisting:      stats.CurrentExisting,
		BonusTotalOpened:     stats.BonusTotalOpened,
		BonusCurrentExisting: stats.BonusCurrentExisting,
	}
	if weapon := c.Weapon(stats.WeaponID); weapon != nil {
		view.Name = weapon.Name
		view.Rarity = weapon.Rarity
	}
	return view
}

// HandleGetWeaponStats returns the global counters for one weapon.
func HandleGetWeaponStats(reader StatsReader, c *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		weaponIDStr, ok := GetQueryParam(r, w, "weapon_id")
		if !ok {
			return
		}
		weaponID, err := strconv.Atoi(weaponIDStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidWeaponID)
			return
		}
		if c.Weapon(weaponID) == nil {
			respondError(w, http.StatusNotFound, ErrMsgUnknownWeaponError)
			return
		}

		stats, err := reader.GetWeaponStats(r.Context(), weaponID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetStatsFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, statsView(stats, c))
	}
}

// HandleListWeaponStats returns counters for every weapon ever opened.
func HandleListWeaponStats(reader StatsReader, c *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := reader.ListWeaponStats(r.Context())
		if err != nil {
			respondServiceError(w, r, ErrMsgGetStatsFailed, err)
			return
		}

		views := make([]WeaponStatsView, 0, len(all))
		for i := range all {
			views = append(views, statsView(&all[i], c))
		}
		respondJSON(w, http.StatusOK, views)
	}
}
