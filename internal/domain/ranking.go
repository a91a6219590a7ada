package domain

// RankingKind selects which leaderboard to read.
type RankingKind string

const (
	RankingBalance   RankingKind = "balance"
	RankingLevel     RankingKind = "level"
	RankingInventory RankingKind = "inventory"
)

// RankingEntry is one row of a leaderboard.
type RankingEntry struct {
	Rank     int     `json:"rank"`
	PlayerID string  `json:"player_id"`
	Username string  `json:"username"`
	Score    float64 `json:"score"`
	Level    int     `json:"level,omitempty"`
}
