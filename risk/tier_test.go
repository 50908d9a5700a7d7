package risk

import "testing"

func TestTierThresholds(t *testing.T) {
	tests := []struct {
		p    float64
		want Tier
	}{
		{0, TierLow},
		{0.1999, TierLow},
		{0.2, TierModerate},
		{0.35, TierModerate},
		{0.4999, TierModerate},
		{0.5, TierHigh},
		{0.75, TierHigh},
		{1, TierHigh},
	}
	for _, tt := range tests {
		if got := TierFor(tt.p); got != tt.want {
			t.Errorf("TierFor(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestTierDeterministic(t *testing.T) {
	for _, p := range []float64{0.1, 0.2, 0.5, 0.9} {
		first := TierFor(p)
		for i := 0; i < 10; i++ {
			if TierFor(p) != first {
				t.Fatalf("TierFor(%v) is not deterministic", p)
			}
		}
	}
}

func TestTierContent(t *testing.T) {
	for _, tier := range []Tier{TierLow, TierModerate, TierHigh} {
		if tier.Symbol() == "" {
			t.Errorf("%v has no symbol", tier)
		}
		if len(tier.Advice()) == 0 {
			t.Errorf("%v has no advice", tier)
		}
	}
}
