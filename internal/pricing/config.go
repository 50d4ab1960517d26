package pricing

// Package pricing computes line prices for configurable label products.

// Color-range keys of the tiered color pricing brackets.
const (
	ColorRange0to2 = "0-2"
	ColorRange2to4 = "2-4"
	ColorRange4to6 = "4-6"
	ColorRange6to8 = "6-8"
)

// Config holds the remotely managed price multipliers. The JSON shape is the
// stored record's shape and is shared with the SPA price preview.
type Config struct {
	ColorRanges       map[string]float64 `json:"colorRanges"`
	VarnishMultiplier float64            `json:"varnishMultiplier"`
}

// DefaultConfig returns the hardcoded fallback used whenever the stored
// record is absent or fails to load.
func DefaultConfig() Config {
	return Config{
		ColorRanges: map[string]float64{
			ColorRange0to2: 1.0,
			ColorRange2to4: 1.2,
			ColorRange4to6: 1.4,
			ColorRange6to8: 1.6,
		},
		VarnishMultiplier: 1.15,
	}
}

// ColorMultiplier returns the multiplier for a color-range key. An unknown
// key is a recoverable configuration problem, not an error: it maps to 1.0.
func (c Config) ColorMultiplier(key string) float64 {
	if m, ok := c.ColorRanges[key]; ok && m > 0 {
		return m
	}
	return 1.0
}

// Valid reports whether every multiplier satisfies the >= 1.0 invariant.
func (c Config) Valid() bool {
	if c.VarnishMultiplier < 1.0 {
		return false
	}
	if len(c.ColorRanges) == 0 {
		return false
	}
	for _, m := range c.ColorRanges {
		if m < 1.0 {
			return false
		}
	}
	return true
}
