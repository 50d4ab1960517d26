package pricing

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/usualetiquetas/storefront/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputePrice(t *testing.T) {
	cfg := DefaultConfig()
	dim := models.Dimension{Size: "5x5", Price: 80.00, Stock: 5000}

	tests := []struct {
		name          string
		quantity      int
		minQuantity   int
		colorRange    string
		wantVarnish   bool
		offersVarnish bool
		want          float64
	}{
		{
			name:        "base price at minimum quantity",
			quantity:    1000,
			minQuantity: 1000,
			colorRange:  ColorRange0to2,
			want:        80.00,
		},
		{
			name:        "scales linearly with quantity ratio",
			quantity:    2000,
			minQuantity: 1000,
			colorRange:  ColorRange0to2,
			want:        160.00,
		},
		{
			name:        "accepts multiples beyond the offered tiers",
			quantity:    8000,
			minQuantity: 1000,
			colorRange:  ColorRange0to2,
			want:        640.00,
		},
		{
			name:        "applies color multiplier",
			quantity:    1000,
			minQuantity: 1000,
			colorRange:  ColorRange2to4,
			want:        96.00,
		},
		{
			name:          "full example from the order flow",
			quantity:      2000,
			minQuantity:   1000,
			colorRange:    ColorRange2to4,
			wantVarnish:   true,
			offersVarnish: true,
			want:          220.80, // 80 * 2 * 1.2 * 1.15
		},
		{
			name:          "varnish ignored when product does not offer it",
			quantity:      2000,
			minQuantity:   1000,
			colorRange:    ColorRange2to4,
			wantVarnish:   true,
			offersVarnish: false,
			want:          192.00,
		},
		{
			name:        "unknown color range falls back to 1.0",
			quantity:    1000,
			minQuantity: 1000,
			colorRange:  "8-10",
			want:        80.00,
		},
		{
			name:        "zero quantity prices to zero",
			quantity:    0,
			minQuantity: 1000,
			colorRange:  ColorRange0to2,
			want:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePrice(dim, tt.quantity, tt.minQuantity, tt.colorRange, tt.wantVarnish, tt.offersVarnish, cfg)
			if !almostEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestComputePrice_LinearInTierMultiplier(t *testing.T) {
	cfg := DefaultConfig()
	dim := models.Dimension{Size: "10x10", Price: 50.00, Stock: 100}

	base := ComputePrice(dim, 500, 500, ColorRange0to2, false, false, cfg)
	for _, k := range []int{1, 2, 4} {
		got := ComputePrice(dim, 500*k, 500, ColorRange0to2, false, false, cfg)
		if !almostEqual(got, base*float64(k)) {
			t.Errorf("quantity multiple %d: expected %v, got %v", k, base*float64(k), got)
		}
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{220.8000000001, 220.80},
		{96.006, 96.01},
		{0, 0},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

type fakeConfigSource struct {
	cfg  Config
	err  error
	call int
}

func (f *fakeConfigSource) PriceConfig(ctx context.Context) (Config, error) {
	f.call++
	return f.cfg, f.err
}

func TestEngine_ConfigFallback(t *testing.T) {
	custom := Config{
		ColorRanges: map[string]float64{
			ColorRange0to2: 1.0,
			ColorRange2to4: 1.3,
			ColorRange4to6: 1.5,
			ColorRange6to8: 1.7,
		},
		VarnishMultiplier: 1.2,
	}

	t.Run("uses loaded config", func(t *testing.T) {
		engine := NewEngine(&fakeConfigSource{cfg: custom}, nil)
		cfg := engine.Config(context.Background())
		if cfg.ColorMultiplier(ColorRange2to4) != 1.3 {
			t.Errorf("expected loaded multiplier 1.3, got %v", cfg.ColorMultiplier(ColorRange2to4))
		}
	})

	t.Run("falls back to default when source fails and nothing was loaded", func(t *testing.T) {
		engine := NewEngine(&fakeConfigSource{err: errors.New("connection refused")}, nil)
		cfg := engine.Config(context.Background())
		if cfg.VarnishMultiplier != 1.15 {
			t.Errorf("expected default varnish multiplier, got %v", cfg.VarnishMultiplier)
		}
	})

	t.Run("keeps last known good across a failed reload", func(t *testing.T) {
		source := &fakeConfigSource{cfg: custom}
		engine := NewEngine(source, nil)
		engine.Config(context.Background())

		source.err = errors.New("connection refused")
		cfg := engine.Config(context.Background())
		if cfg.VarnishMultiplier != 1.2 {
			t.Errorf("expected last good varnish multiplier 1.2, got %v", cfg.VarnishMultiplier)
		}
	})

	t.Run("absent record never becomes last known good", func(t *testing.T) {
		source := &fakeConfigSource{err: errors.New("record not found")}
		engine := NewEngine(source, nil)

		if cfg := engine.Config(context.Background()); cfg.VarnishMultiplier != 1.15 {
			t.Fatalf("expected default varnish multiplier, got %v", cfg.VarnishMultiplier)
		}

		source.err = nil
		source.cfg = custom
		if cfg := engine.Config(context.Background()); cfg.VarnishMultiplier != 1.2 {
			t.Fatalf("expected stored config after it appears, got %v", cfg.VarnishMultiplier)
		}

		source.err = errors.New("connection refused")
		if cfg := engine.Config(context.Background()); cfg.VarnishMultiplier != 1.2 {
			t.Errorf("expected last good config, got %v", cfg.VarnishMultiplier)
		}
	})

	t.Run("rejects invalid loaded config", func(t *testing.T) {
		bad := Config{ColorRanges: map[string]float64{ColorRange0to2: 0.5}, VarnishMultiplier: 1.1}
		engine := NewEngine(&fakeConfigSource{cfg: bad}, nil)
		cfg := engine.Config(context.Background())
		if cfg.ColorMultiplier(ColorRange2to4) != 1.2 {
			t.Errorf("expected default config, got %+v", cfg)
		}
	})
}

func TestEngine_QuoteSelection(t *testing.T) {
	product := &models.Product{
		Name:        "Rótulo Personalizado",
		MinQuantity: 1000,
		Dimensions: []models.Dimension{
			{Size: "5x5", Price: 80.00, Stock: 5000},
			{Size: "10x10", Price: 120.00, Stock: 1500},
		},
		HasVarnishOption: true,
		ColorRange:       ColorRange0to2,
	}
	engine := NewEngine(nil, nil)

	t.Run("prices the worked example", func(t *testing.T) {
		quote, err := engine.QuoteSelection(context.Background(), product, Selection{
			Size:       "5x5",
			Quantity:   2000,
			ColorRange: ColorRange2to4,
			Varnish:    true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !almostEqual(quote.BasePrice, 160.00) {
			t.Errorf("expected base 160.00, got %v", quote.BasePrice)
		}
		if !almostEqual(quote.Total, 220.80) {
			t.Errorf("expected total 220.80, got %v", quote.Total)
		}
		if quote.StockWarning {
			t.Error("expected no stock warning at 2000 of 5000")
		}
	})

	t.Run("recomputation reflects a config change", func(t *testing.T) {
		source := &fakeConfigSource{cfg: DefaultConfig()}
		engine := NewEngine(source, nil)
		sel := Selection{Size: "5x5", Quantity: 1000, ColorRange: ColorRange2to4}

		first, err := engine.QuoteSelection(context.Background(), product, sel)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		source.cfg.ColorRanges = map[string]float64{
			ColorRange0to2: 1.0,
			ColorRange2to4: 1.5,
			ColorRange4to6: 1.6,
			ColorRange6to8: 1.8,
		}
		second, err := engine.QuoteSelection(context.Background(), product, sel)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !almostEqual(first.Total, 96.00) || !almostEqual(second.Total, 120.00) {
			t.Errorf("expected 96.00 then 120.00, got %v then %v", first.Total, second.Total)
		}
	})

	t.Run("warns when quantity exceeds stock", func(t *testing.T) {
		quote, err := engine.QuoteSelection(context.Background(), product, Selection{
			Size:       "10x10",
			Quantity:   2000,
			ColorRange: ColorRange0to2,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !quote.StockWarning {
			t.Error("expected stock warning at 2000 of 1500")
		}
		if quote.AvailableStock != 1500 {
			t.Errorf("expected available stock 1500, got %d", quote.AvailableStock)
		}
	})

	t.Run("unknown size is rejected", func(t *testing.T) {
		_, err := engine.QuoteSelection(context.Background(), product, Selection{Size: "3x3", Quantity: 1000})
		if !errors.Is(err, ErrUnknownSize) {
			t.Errorf("expected ErrUnknownSize, got %v", err)
		}
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		_, err := engine.QuoteSelection(context.Background(), product, Selection{Size: "5x5", Quantity: 0})
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("expected ErrInvalidQuantity, got %v", err)
		}
	})
}
