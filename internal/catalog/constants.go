package catalog

// DefaultBonusVariantMultiplier is the price factor for stat-tracked drops
// when the catalog file does not override it.
const DefaultBonusVariantMultiplier = 1.8

// DefaultMaxTierShare caps any luck-boosted tier's probability share.
const DefaultMaxTierShare = 0.25

// GradeProbTolerance is the allowed float drift when validating that the
// grade distribution sums to 1.0.
const GradeProbTolerance = 1e-9

// Error context messages for wrapped errors during catalog loading
const (
	ErrContextReadCatalogFile  = "failed to read catalog file"
	ErrContextParseCatalogFile = "failed to parse catalog"
)
