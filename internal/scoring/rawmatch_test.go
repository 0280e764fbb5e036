package scoring

import (
	"math"
	"testing"
)

func normalizedCfg(t *testing.T, cfg FactorConfig, params Params) FactorConfig {
	t.Helper()
	normalized, err := NormalizeProfile(Profile{"f": cfg}, params)
	if err != nil {
		t.Fatalf("NormalizeProfile failed: %v", err)
	}
	return normalized["f"]
}

func TestRawMatchMustHave(t *testing.T) {
	params := DefaultParams()

	t.Run("smaller is better", func(t *testing.T) {
		cfg := normalizedCfg(t, FactorConfig{Mode: ModeMustHave, Target: floatPtr(15), Direction: -1, Weight: 3}, params)
		tests := []struct {
			x    float64
			want float64
		}{
			{10, 1},
			{15, 1},
			{15.0001, 0},
			{100, 0},
		}
		for _, tt := range tests {
			if got := rawMatch(tt.x, cfg, params); got != tt.want {
				t.Errorf("rawMatch(%g) = %g, want %g", tt.x, got, tt.want)
			}
		}
	})

	t.Run("larger is better", func(t *testing.T) {
		cfg := normalizedCfg(t, FactorConfig{Mode: ModeMustHave, Target: floatPtr(15), Direction: 1, Weight: 3}, params)
		if got := rawMatch(20, cfg, params); got != 1 {
			t.Errorf("expected pass above target, got %g", got)
		}
		if got := rawMatch(10, cfg, params); got != 0 {
			t.Errorf("expected fail below target, got %g", got)
		}
	})

	t.Run("soft tolerance", func(t *testing.T) {
		soft := params
		soft.MustHaveTolerance = 2
		cfg := normalizedCfg(t, FactorConfig{Mode: ModeMustHave, Target: floatPtr(15), Direction: -1, Weight: 3}, soft)

		if got := rawMatch(16, cfg, soft); math.Abs(got-0.5) > 1e-9 {
			t.Errorf("expected 0.5 halfway through tolerance, got %g", got)
		}
		if got := rawMatch(17, cfg, soft); got != 0 {
			t.Errorf("expected 0 at tolerance edge, got %g", got)
		}
		if got := rawMatch(18, cfg, soft); got != 0 {
			t.Errorf("expected 0 past tolerance, got %g", got)
		}

		up := normalizedCfg(t, FactorConfig{Mode: ModeMustHave, Target: floatPtr(15), Direction: 1, Weight: 3}, soft)
		if got := rawMatch(14, up, soft); math.Abs(got-0.5) > 1e-9 {
			t.Errorf("expected mirrored 0.5, got %g", got)
		}
	})
}

func TestRawMatchNiceToHave(t *testing.T) {
	params := DefaultParams()
	cfg := normalizedCfg(t, FactorConfig{
		Mode: ModeNiceToHave, Target: floatPtr(1.0), Lower: floatPtr(0.5), Upper: floatPtr(1.5),
		Direction: -1, Weight: 4,
	}, params)

	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{"below band", 0.4, 0},
		{"above band", 1.6, 0},
		{"at lower edge", 0.5, 1},
		{"at target", 1.0, 1},
		{"past target", 1.25, 0.5},
		{"at upper edge", 1.5, 0.05}, // raw decays to 0, floor applies in band
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rawMatch(tt.x, cfg, params); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("rawMatch(%g) = %g, want %g", tt.x, got, tt.want)
			}
		})
	}

	t.Run("larger is better mirror", func(t *testing.T) {
		up := normalizedCfg(t, FactorConfig{
			Mode: ModeNiceToHave, Target: floatPtr(1.0), Lower: floatPtr(0.5), Upper: floatPtr(1.5),
			Direction: 1, Weight: 4,
		}, params)
		if got := rawMatch(1.2, up, params); got != 1 {
			t.Errorf("expected 1 above target, got %g", got)
		}
		if got := rawMatch(0.75, up, params); math.Abs(got-0.5) > 1e-9 {
			t.Errorf("expected 0.5 halfway down, got %g", got)
		}
	})
}

func TestQualityScore(t *testing.T) {
	params := DefaultParams() // max 5, floor 0.1, linear

	tests := []struct {
		name string
		q    float64
		want float64
	}{
		{"minimum", 1, 0.1},
		{"maximum", 5, 1.0},
		{"midpoint", 3, 0.55},
		{"clamped low", 0, 0.1},
		{"clamped high", 9, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := qualityScore(tt.q, params); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("qualityScore(%g) = %g, want %g", tt.q, got, tt.want)
			}
		})
	}

	t.Run("warp is convex and hits the endpoints", func(t *testing.T) {
		warped := params
		warped.QualExp = 2

		if got := qualityScore(1, warped); math.Abs(got-0.1) > 1e-9 {
			t.Errorf("warped minimum = %g, want 0.1", got)
		}
		if got := qualityScore(5, warped); math.Abs(got-1.0) > 1e-9 {
			t.Errorf("warped maximum = %g, want 1.0", got)
		}

		linear := qualityScore(3, params)
		if got := qualityScore(3, warped); got >= linear {
			t.Errorf("convex warp should sit below linear at the midpoint: %g >= %g", got, linear)
		}
	})

	t.Run("zero exponent degrades to linear", func(t *testing.T) {
		degenerate := params
		degenerate.QualExp = 0
		if got := qualityScore(3, degenerate); math.Abs(got-0.55) > 1e-9 {
			t.Errorf("qualityScore with exp=0 = %g, want 0.55", got)
		}
	})
}
