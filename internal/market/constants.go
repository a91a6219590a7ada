package market

// Log messages
const (
	LogMsgCreateListingCalled = "CreateListing called"
	LogMsgListingCreated      = "Listing created"
	LogMsgBuyListingCalled    = "BuyListing called"
	LogMsgListingBought       = "Listing bought"
	LogMsgCancelListingCalled = "CancelListing called"
)

// Error message formats
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
)

const playerLockPrefix = "player:"
