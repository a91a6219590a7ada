package ranking

import "time"

// Leaderboard redis keys
const (
	keyBalance   = "ranking:balance"
	keyLevel     = "ranking:level"
	keyInventory = "ranking:inventory"

	playerInfoPrefix = "ranking:player:"
)

// DefaultLimit is used when a caller asks for zero or negative rows.
const DefaultLimit = 10

// MaxLimit caps a single leaderboard read.
const MaxLimit = 100

// playerInfoTTL bounds how stale a cached username can get.
const playerInfoTTL = 10 * time.Minute

// playerInfoCacheSize bounds the in-process username cache.
const playerInfoCacheSize = 1024
