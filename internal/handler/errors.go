package handler

// Generic HTTP error messages for client responses.
// These intentionally do not expose internal error details.
// Both handlers and tests reference these constants.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	ErrMsgMissingQueryParam = "Missing %s query parameter"

	// Parameter validation error messages
	ErrMsgInvalidPlayerID = "Invalid player ID"
	ErrMsgInvalidBoxID    = "Invalid box ID"
	ErrMsgInvalidItemID   = "Invalid item ID"
	ErrMsgInvalidWeaponID = "Invalid weapon ID"
	ErrMsgInvalidListing  = "Invalid listing ID"
	ErrMsgInvalidRarity   = "Invalid rarity tier"
	ErrMsgInvalidLimit    = "Invalid limit parameter"

	// Operation failure messages
	ErrMsgOpenBoxFailed        = "Failed to open box"
	ErrMsgGetProbabilityFailed = "Failed to compute probabilities"
	ErrMsgRegisterFailed       = "Failed to register player"
	ErrMsgGetProfileFailed     = "Failed to get profile"
	ErrMsgGetInventoryFailed   = "Failed to get inventory"
	ErrMsgSellItemFailed       = "Failed to sell item"
	ErrMsgLockItemFailed       = "Failed to update item lock"
	ErrMsgGetStatsFailed       = "Failed to get weapon stats"
	ErrMsgGetListingsFailed    = "Failed to get listings"
	ErrMsgCreateListingFailed  = "Failed to create listing"
	ErrMsgBuyListingFailed     = "Failed to buy listing"
	ErrMsgCancelListingFailed  = "Failed to cancel listing"
	ErrMsgGetLeaderboardFailed = "Failed to get leaderboard"
)

// User-facing messages for mapped domain errors.
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	ErrMsgUnknownBoxError     = "That box does not exist"
	ErrMsgUnknownWeaponError  = "That weapon does not exist"
	ErrMsgEmptyBoxError       = "That box has nothing in it"
	ErrMsgNotEnoughMoneyError = "Not enough money"
	ErrMsgPlayerNotFoundError = "Player not found"
	ErrMsgPlayerExistsError   = "That username is taken"
	ErrMsgItemNotFoundError   = "Item not found"
	ErrMsgItemNotOwnedError   = "You don't own that item"
	ErrMsgItemLockedError     = "Item is locked"
	ErrMsgItemListedError     = "Item is listed on the market"
	ErrMsgListingNotFound     = "Listing not found"
	ErrMsgListingOwnError     = "You cannot buy your own listing"
	ErrMsgInvalidInputError   = "Invalid request. Please check your inputs."
)

// Success messages for API responses
const (
	MsgPlayerRegistered = "Player registered successfully"
	MsgItemLockUpdated  = "Item lock updated"
	MsgListingCancelled = "Listing cancelled"
)
