package postgres

// Error context strings used when wrapping pgx errors.
const (
	ErrContextBeginTx = "failed to begin transaction"

	ErrContextInsertPlayer = "failed to insert player"
	ErrContextGetPlayer    = "failed to get player"
	ErrContextUpdatePlayer = "failed to update player"

	ErrContextInsertItem   = "failed to insert inventory item"
	ErrContextGetItem      = "failed to get inventory item"
	ErrContextUpdateItem   = "failed to update inventory item"
	ErrContextDeleteItem   = "failed to delete inventory item"
	ErrContextListItems    = "failed to list inventory"
	ErrContextTransferItem = "failed to transfer inventory item"

	ErrContextUpsertStats = "failed to increment weapon stat"
	ErrContextGetStats    = "failed to get weapon stats"
	ErrContextListStats   = "failed to list weapon stats"

	ErrContextMarkUnlock  = "failed to record weapon unlock"
	ErrContextListUnlocks = "failed to list weapon unlocks"

	ErrContextInsertListing = "failed to insert listing"
	ErrContextGetListing    = "failed to get listing"
	ErrContextDeleteListing = "failed to delete listing"
	ErrContextListListings  = "failed to list listings"
)
