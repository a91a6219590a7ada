package economy

// StartingBalance is credited to every new player, in cents.
const StartingBalance = 100000

// Log messages
const (
	LogMsgCreatePlayerCalled  = "CreatePlayer called"
	LogMsgSellItemCalled      = "SellItem called"
	LogMsgItemSold            = "Item sold"
	LogMsgSellAllCalled       = "SellAll called"
	LogMsgBulkSaleCompleted   = "Bulk sale completed"
	LogMsgIncomeTickCompleted = "Passive income tick completed"
)

// Error message formats
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgListInventoryFailed     = "failed to list inventory: %w"
)

const playerLockPrefix = "player:"
