package pricing

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/usualetiquetas/storefront/internal/models"
)

// ConfigSource loads the stored multiplier record. Implementations return an
// error when the record is absent or the backing store is unreachable; the
// engine degrades to its last known good value, then to DefaultConfig.
type ConfigSource interface {
	PriceConfig(ctx context.Context) (Config, error)
}

// Selection is one customer-chosen product configuration.
type Selection struct {
	Size       string
	Quantity   int
	ColorRange string
	Varnish    bool
}

// Quote is the price breakdown for a selection. Total carries full precision;
// callers round only for display.
type Quote struct {
	Size              string  `json:"size"`
	Quantity          int     `json:"quantity"`
	BasePrice         float64 `json:"base_price"`
	ColorMultiplier   float64 `json:"color_multiplier"`
	VarnishMultiplier float64 `json:"varnish_multiplier"`
	Total             float64 `json:"total"`
	// StockWarning is advisory: the requested quantity exceeds the listed
	// stock. It never blocks adding to the cart.
	StockWarning   bool `json:"stock_warning"`
	AvailableStock int  `json:"available_stock"`
}

// ComputePrice computes the final price for one configured line.
//
// The dimension price is a batch price defined at minQuantity and scales
// linearly with the requested quantity. The varnish multiplier applies only
// when the product actually offers the option, regardless of what the caller
// asked for.
func ComputePrice(dim models.Dimension, quantity, minQuantity int, colorRange string, wantVarnish, offersVarnish bool, cfg Config) float64 {
	if quantity <= 0 || minQuantity <= 0 || dim.Price < 0 {
		return 0
	}

	base := dim.Price * float64(quantity) / float64(minQuantity)

	varnish := 1.0
	if wantVarnish && offersVarnish && cfg.VarnishMultiplier > 0 {
		varnish = cfg.VarnishMultiplier
	}

	return base * cfg.ColorMultiplier(colorRange) * varnish
}

// Round2 rounds a price to 2 decimal places. Display only: totals summed
// across lines are computed from unrounded values.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Engine prices product selections against the remotely managed multiplier
// configuration, keeping a last-known-good copy so a failed reload never
// breaks pricing.
type Engine struct {
	source ConfigSource
	logger *slog.Logger

	mu       sync.Mutex
	lastGood Config
	haveGood bool
}

func NewEngine(source ConfigSource, logger *slog.Logger) *Engine {
	return &Engine{
		source: source,
		logger: logger,
	}
}

// Config returns the current multiplier configuration: the freshly loaded
// record when available, otherwise the last good load, otherwise the
// hardcoded default. A stale fetch never clobbers a newer valid one because
// the source is consulted on every call and the fallback chain only fills
// gaps.
func (e *Engine) Config(ctx context.Context) Config {
	if e.source != nil {
		cfg, err := e.source.PriceConfig(ctx)
		if err == nil && cfg.Valid() {
			e.mu.Lock()
			e.lastGood = cfg
			e.haveGood = true
			e.mu.Unlock()
			return cfg
		}
		if err != nil && e.logger != nil {
			e.logger.Warn("price config load failed, using fallback", "error", err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.haveGood {
		return e.lastGood
	}
	return DefaultConfig()
}

// QuoteSelection prices a selection against a product. The returned quote is
// fully derived from its inputs; nothing is cached between calls, so a
// configuration change is reflected on the next call.
func (e *Engine) QuoteSelection(ctx context.Context, product *models.Product, sel Selection) (Quote, error) {
	if product == nil {
		return Quote{}, ErrUnknownSize
	}

	dim := product.Dimension(sel.Size)
	if dim == nil {
		return Quote{}, ErrUnknownSize
	}
	if sel.Quantity <= 0 {
		return Quote{}, ErrInvalidQuantity
	}

	cfg := e.Config(ctx)

	varnish := 1.0
	if sel.Varnish && product.HasVarnishOption {
		varnish = cfg.VarnishMultiplier
	}

	base := dim.Price * float64(sel.Quantity) / float64(product.MinQuantity)
	color := cfg.ColorMultiplier(sel.ColorRange)

	return Quote{
		Size:              sel.Size,
		Quantity:          sel.Quantity,
		BasePrice:         base,
		ColorMultiplier:   color,
		VarnishMultiplier: varnish,
		Total:             base * color * varnish,
		StockWarning:      sel.Quantity > dim.Stock,
		AvailableStock:    dim.Stock,
	}, nil
}
