package domain

import "time"

// Player holds the mutable economic state owned by one player.
// Balance is in cents and must never go negative.
type Player struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Balance    int64     `json:"balance"`
	Experience int64     `json:"experience"`
	Level      int       `json:"level"`
	CreatedAt  time.Time `json:"created_at"`
}

// PassiveStats is the aggregate of all passive effects a player's inventory
// currently grants. Derived on demand, never persisted.
type PassiveStats struct {
	Luck                float64 `json:"luck"`
	BoxCostReductionPct float64 `json:"box_cost_reduction_pct"`
	ExpBonusPct         float64 `json:"exp_bonus_pct"`
	WeaponValueBonusPct float64 `json:"weapon_value_bonus_pct"`
	IncomePerSecond     float64 `json:"income_per_second"` // cents/s
}

// ExpForLevel returns the experience required to advance from level n to n+1.
func ExpForLevel(n int) int64 {
	if n < 1 {
		return 0
	}
	return int64(n)*100 + int64(n-1)*50
}

// LevelForExperience returns the level reached with the given total
// experience, using cumulative ExpForLevel thresholds. Level 1 is the floor.
func LevelForExperience(total int64) int {
	level := 1
	var cumulative int64
	for {
		cumulative += ExpForLevel(level)
		if total < cumulative {
			return level
		}
		level++
	}
}
