package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/opennergame/boxgame-server/internal/domain"
)

// File format, decoded once at startup.

type configFile struct {
	RarityWeights          map[string]float64  `json:"rarity_weights"`
	GradeProbabilities     map[string]float64  `json:"grade_probabilities"`
	BonusVariantChance     float64             `json:"bonus_variant_chance"`
	BonusVariantMultiplier float64             `json:"bonus_variant_multiplier"`
	Luck                   LuckParams          `json:"luck"`
	Weapons                []domain.Weapon     `json:"weapons"`
	Boxes                  []domain.Box        `json:"boxes"`
}

// Load reads and validates the catalog configuration file, returning the
// immutable runtime catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextReadCatalogFile, err)
	}
	return Parse(data)
}

// Parse builds a Catalog from raw JSON. Split from Load so tests can feed
// bytes directly.
func Parse(data []byte) (*Catalog, error) {
	var cfg configFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextParseCatalogFile, err)
	}

	if len(cfg.Weapons) == 0 {
		return nil, fmt.Errorf("no weapons defined in catalog")
	}
	if len(cfg.Boxes) == 0 {
		return nil, fmt.Errorf("no boxes defined in catalog")
	}

	c := &Catalog{
		weapons:                make(map[int]*domain.Weapon, len(cfg.Weapons)),
		boxes:                  make(map[int]*domain.Box, len(cfg.Boxes)),
		rarityWeights:          make(map[domain.RarityTier]float64, len(cfg.RarityWeights)),
		luck:                   cfg.Luck,
		bonusVariantChance:     cfg.BonusVariantChance,
		bonusVariantMultiplier: cfg.BonusVariantMultiplier,
	}

	if c.bonusVariantChance < 0 || c.bonusVariantChance >= 1 {
		return nil, fmt.Errorf("bonus_variant_chance %f out of range [0,1)", c.bonusVariantChance)
	}
	if c.bonusVariantMultiplier < 1 {
		c.bonusVariantMultiplier = DefaultBonusVariantMultiplier
	}
	if c.luck.MinTier == "" {
		c.luck.MinTier = domain.RarityEpic
	}
	if !c.luck.MinTier.Valid() {
		return nil, fmt.Errorf("luck min_tier %q is not a rarity tier", c.luck.MinTier)
	}
	if c.luck.MaxTierShare <= 0 || c.luck.MaxTierShare > 1 {
		c.luck.MaxTierShare = DefaultMaxTierShare
	}

	for tier, weight := range cfg.RarityWeights {
		rt := domain.RarityTier(tier)
		if !rt.Valid() {
			return nil, fmt.Errorf("rarity_weights: unknown tier %q", tier)
		}
		if weight <= 0 {
			return nil, fmt.Errorf("rarity_weights: tier %q must have positive weight", tier)
		}
		c.rarityWeights[rt] = weight
	}

	gradeTable, err := buildGradeTable(cfg.GradeProbabilities)
	if err != nil {
		return nil, err
	}
	c.gradeTable = gradeTable

	for i := range cfg.Weapons {
		w := &cfg.Weapons[i]
		if w.ID <= 0 {
			return nil, fmt.Errorf("weapon %q: id must be positive", w.Name)
		}
		if _, dup := c.weapons[w.ID]; dup {
			return nil, fmt.Errorf("duplicate weapon id %d", w.ID)
		}
		if !w.Rarity.Valid() {
			return nil, fmt.Errorf("weapon %d: unknown rarity %q", w.ID, w.Rarity)
		}
		if _, ok := c.rarityWeights[w.Rarity]; !ok {
			return nil, fmt.Errorf("weapon %d: rarity %q has no weight entry", w.ID, w.Rarity)
		}
		if w.BasePrice <= 0 {
			return nil, fmt.Errorf("weapon %d: base_price must be positive", w.ID)
		}
		c.weapons[w.ID] = w
	}

	for i := range cfg.Boxes {
		b := &cfg.Boxes[i]
		if b.ID <= 0 {
			return nil, fmt.Errorf("box %q: id must be positive", b.Name)
		}
		if _, dup := c.boxes[b.ID]; dup {
			return nil, fmt.Errorf("duplicate box id %d", b.ID)
		}
		if b.Price < 0 {
			return nil, fmt.Errorf("box %d: price must not be negative", b.ID)
		}
		for _, wid := range b.WeaponIDs {
			w, ok := c.weapons[wid]
			if !ok {
				return nil, fmt.Errorf("box %d references unknown weapon %d", b.ID, wid)
			}
			if !w.InBox(b.ID) {
				w.Boxes = append(w.Boxes, b.ID)
			}
		}
		c.boxes[b.ID] = b
	}

	return c, nil
}

// buildGradeTable converts the per-grade probabilities into an ordered table
// with cumulative sums, validating that the distribution is complete.
func buildGradeTable(probs map[string]float64) ([]GradeProb, error) {
	if len(probs) == 0 {
		return nil, fmt.Errorf("grade_probabilities missing")
	}

	table := make([]GradeProb, 0, len(domain.AllGrades))
	var sum float64
	for _, g := range domain.AllGrades {
		p, ok := probs[string(g)]
		if !ok {
			return nil, fmt.Errorf("grade_probabilities: grade %s missing", g)
		}
		if p < 0 {
			return nil, fmt.Errorf("grade_probabilities: grade %s negative", g)
		}
		sum += p
		table = append(table, GradeProb{Grade: g, Probability: p, Cumulative: sum})
	}

	if math.Abs(sum-1.0) > GradeProbTolerance {
		return nil, fmt.Errorf("grade_probabilities sum to %f, want 1.0", sum)
	}
	// Absorb float residue so the draw can never fall through.
	table[len(table)-1].Cumulative = 1.0
	return table, nil
}
