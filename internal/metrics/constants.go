package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Business metric names
const (
	MetricNameBoxesOpened       = "boxes_opened_total"
	MetricNameBonusVariants     = "bonus_variants_dropped_total"
	MetricNameItemsSold         = "items_sold_total"
	MetricNameMarketTrades      = "market_trades_total"
	MetricNameMoneySpent        = "money_spent_cents_total"
	MetricNameMoneyEarned       = "money_earned_cents_total"
	MetricNamePassiveIncomePaid = "passive_income_paid_cents_total"
)

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Business metric help text
const (
	HelpTextBoxesOpened       = "Total number of boxes opened"
	HelpTextBonusVariants     = "Total number of bonus variant drops"
	HelpTextItemsSold         = "Total number of items sold back"
	HelpTextMarketTrades      = "Total number of completed market trades"
	HelpTextMoneySpent        = "Total cents spent on box openings and market buys"
	HelpTextMoneyEarned       = "Total cents earned from sales"
	HelpTextPassiveIncomePaid = "Total cents credited by the passive income worker"
)

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelBox    = "box"
	LabelRarity = "rarity"
	LabelSource = "source"
)

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, ranging from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
