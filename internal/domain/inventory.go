package domain

import "time"

// InventoryItem is one dropped weapon instance owned by exactly one player.
// FinalPrice is fixed at resolution time and never re-derived.
type InventoryItem struct {
	ID           int64        `json:"id"`
	PlayerID     string       `json:"player_id"`
	WeaponID     int          `json:"weapon_id"`
	Grade        QualityGrade `json:"grade"`
	BonusVariant bool         `json:"bonus_variant"`
	FinalPrice   int64        `json:"final_price"` // cents
	Locked       bool         `json:"locked"`
	Listed       bool         `json:"listed"`
	AcquiredAt   time.Time    `json:"acquired_at"`
}

// RewardOutcome is the ephemeral result of resolving one box opening. It is
// translated into an InventoryItem by the commit step and never persisted
// as its own entity.
type RewardOutcome struct {
	Weapon       *Weapon      `json:"weapon"`
	Grade        QualityGrade `json:"grade"`
	BonusVariant bool         `json:"bonus_variant"`
	FinalPrice   int64        `json:"final_price"` // cents
}

// OpenBoxResult is returned to the caller after a committed box opening.
type OpenBoxResult struct {
	Item              InventoryItem `json:"item"`
	WeaponName        string        `json:"weapon_name"`
	Rarity            RarityTier    `json:"rarity"`
	ExperienceGained  int64         `json:"experience_gained"`
	NewBalance        int64         `json:"new_balance"`
	NewExperience     int64         `json:"new_experience"`
	NewLevel          int           `json:"new_level"`
	LeveledUp         bool          `json:"leveled_up"`
	NewUnlock         bool          `json:"new_unlock"`
	EffectiveBoxPrice int64         `json:"effective_box_price"`
}
