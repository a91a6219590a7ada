package domain

// StatField names one counter in the global per-weapon statistics row.
// Increments are applied SQL-side so concurrent openings never lose updates.
type StatField string

const (
	StatTotalOpened          StatField = "total_opened"
	StatCurrentExisting      StatField = "current_existing"
	StatBonusTotalOpened     StatField = "bonus_total_opened"
	StatBonusCurrentExisting StatField = "bonus_current_existing"
)

// WeaponStats is the global counter row for one weapon, shared by all
// players. current_existing <= total_opened holds at all times.
type WeaponStats struct {
	WeaponID             int   `json:"weapon_id"`
	TotalOpened          int64 `json:"total_opened"`
	CurrentExisting      int64 `json:"current_existing"`
	BonusTotalOpened     int64 `json:"bonus_total_opened"`
	BonusCurrentExisting int64 `json:"bonus_current_existing"`
}
