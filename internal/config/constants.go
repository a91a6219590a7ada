package config

// DefaultCatalogPath is where the weapon/box catalog is read from when
// CATALOG_PATH is not set.
const DefaultCatalogPath = "configs/catalog.json"

// DefaultIncomeTickSeconds is how often the passive-income worker credits
// players when INCOME_TICK_SECONDS is not set.
const DefaultIncomeTickSeconds = 60
