package handler

import (
	"net/http"
	"strconv"

	"github.com/opennergame/boxgame-server/internal/domain"
	"github.com/opennergame/boxgame-server/internal/ranking"
)

// LeaderboardResponse is one board's top entries.
type LeaderboardResponse struct {
	Kind    domain.RankingKind    `json:"kind"`
	Entries []domain.RankingEntry `json:"entries"`
}

// HandleGetLeaderboard reads the top of one leaderboard. kind defaults to
// balance; limit is clamped by the ranking service.
func HandleGetLeaderboard(rankings ranking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := domain.RankingKind(GetOptionalQueryParam(r, "kind", string(domain.RankingBalance)))

		limit := 0
		if limitStr := GetOptionalQueryParam(r, "limit", ""); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
				return
			}
			limit = parsed
		}

		entries, err := rankings.GetLeaderboard(r.Context(), kind, limit)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetLeaderboardFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, LeaderboardResponse{Kind: kind, Entries: entries})
	}
}

// PlayerRankResponse is a player's position on one board, 0 when unranked.
type PlayerRankResponse struct {
	Kind     domain.RankingKind `json:"kind"`
	PlayerID string             `json:"player_id"`
	Rank     int                `json:"rank"`
}

// HandleGetPlayerRank returns the player's 1-based rank on one board.
func HandleGetPlayerRank(rankings ranking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := GetQueryParam(r, w, "player_id")
		if !ok {
			return
		}
		kind := domain.RankingKind(GetOptionalQueryParam(r, "kind", string(domain.RankingBalance)))

		rank, err := rankings.GetPlayerRank(r.Context(), kind, playerID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetLeaderboardFailed, err)
			return
		}
		respondJSON(w, http.StatusOK, PlayerRankResponse{Kind: kind, PlayerID: playerID, Rank: rank})
	}
}
