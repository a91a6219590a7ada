package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/opennergame/boxgame-server/internal/economy"
	"github.com/opennergame/boxgame-server/internal/logger"
	"github.com/opennergame/boxgame-server/internal/market"
	"github.com/opennergame/boxgame-server/internal/ranking"
)

// MarketHandler groups the player-to-player market endpoints.
type MarketHandler struct {
	service  market.Service
	economy  economy.Service
	rankings ranking.Service
}

func NewMarketHandler(service market.Service, econ economy.Service, rankings ranking.Service) *MarketHandler {
	return &MarketHandler{
		service:  service,
		economy:  econ,
		rankings: rankings,
	}
}

// CreateListingRequest represents a listing creation request
type CreateListingRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	ItemID   int64  `json:"item_id" validate:"min=1"`
	Price    int64  `json:"price" validate:"gt=0"`
}

// HandleCreateListing puts an item up for sale. The item stays in the
// seller's inventory, flagged as listed, until bought or cancelled.
func (h *MarketHandler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req CreateListingRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create listing"); err != nil {
		return
	}

	listing, err := h.service.CreateListing(r.Context(), req.PlayerID, req.ItemID, req.Price)
	if err != nil {
		respondServiceError(w, r, ErrMsgCreateListingFailed, err)
		return
	}

	log.Info("Listing created",
		"listingID", listing.ID,
		"sellerID", req.PlayerID,
		"itemID", req.ItemID,
		"price", req.Price)

	respondJSON(w, http.StatusCreated, listing)
}

// BuyListingRequest represents a purchase request
type BuyListingRequest struct {
	PlayerID  string `json:"player_id" validate:"required"`
	ListingID string `json:"listing_id" validate:"required,uuid"`
}

// HandleBuyListing executes a trade: buyer pays the asking price, the seller
// receives it minus the market fee, the item changes hands.
func (h *MarketHandler) HandleBuyListing(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req BuyListingRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Buy listing"); err != nil {
		return
	}

	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidListing)
		return
	}

	result, err := h.service.BuyListing(r.Context(), req.PlayerID, listingID)
	if err != nil {
		respondServiceError(w, r, ErrMsgBuyListingFailed, err)
		return
	}

	log.Info("Listing bought",
		"listingID", listingID,
		"buyerID", req.PlayerID,
		"price", result.Price,
		"fee", result.Fee)

	refreshRankings(r, h.rankings, h.economy, req.PlayerID)
	refreshRankings(r, h.rankings, h.economy, result.SellerID)
	respondJSON(w, http.StatusOK, result)
}

// CancelListingRequest represents a listing cancellation request
type CancelListingRequest struct {
	PlayerID  string `json:"player_id" validate:"required"`
	ListingID string `json:"listing_id" validate:"required,uuid"`
}

// HandleCancelListing withdraws the seller's own listing.
func (h *MarketHandler) HandleCancelListing(w http.ResponseWriter, r *http.Request) {
	var req CancelListingRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Cancel listing"); err != nil {
		return
	}

	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidListing)
		return
	}

	if err := h.service.CancelListing(r.Context(), req.PlayerID, listingID); err != nil {
		respondServiceError(w, r, ErrMsgCancelListingFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgListingCancelled})
}

// HandleGetListings returns every open listing.
func (h *MarketHandler) HandleGetListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.service.GetListings(r.Context())
	if err != nil {
		respondServiceError(w, r, ErrMsgGetListingsFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, listings)
}

// HandleGetPlayerListings returns one seller's open listings.
func (h *MarketHandler) HandleGetPlayerListings(w http.ResponseWriter, r *http.Request) {
	playerID, ok := GetQueryParam(r, w, "player_id")
	if !ok {
		return
	}

	listings, err := h.service.GetPlayerListings(r.Context(), playerID)
	if err != nil {
		respondServiceError(w, r, ErrMsgGetListingsFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, listings)
}
