package opening

// MaxBoxCostReduction caps the box_cost_reduction passive so a box never
// becomes free through stacking.
const MaxBoxCostReduction = 0.5

// Log messages
const (
	LogMsgOpenBoxCalled          = "OpenBox called"
	LogMsgBoxOpened              = "Box opened"
	LogMsgGetProbabilitiesCalled = "GetProbabilities called"
)

// Error message formats
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgListInventoryFailed     = "failed to list inventory: %w"
)

// Lock key prefix for per-player serialization.
const playerLockPrefix = "player:"
