package domain

// RateSnapshot is one upstream document: every published rate relative to the
// provider's fixed base currency, for a single calendar date.
type RateSnapshot struct {
	Base      string
	Timestamp int64
	Rates     map[string]float64
}
