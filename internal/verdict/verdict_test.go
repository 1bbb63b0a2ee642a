package verdict

import (
	"testing"
	"time"

	"github.com/surakshapay/vigil/internal/domain"
)

func fixedClock() domain.Clock {
	return domain.ClockFunc(func() time.Time {
		return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	})
}

func result(indicator string, weight int, triggered bool) domain.RuleResult {
	return domain.RuleResult{Indicator: indicator, Weight: weight, Triggered: triggered}
}

func TestProcess(t *testing.T) {
	p := NewProcessor(fixedClock())

	tests := []struct {
		name           string
		results        []domain.RuleResult
		wantScore      int
		wantFraud      bool
		wantIndicators int
		wantConfidence float64
	}{
		{
			name:      "no rules triggered",
			results:   []domain.RuleResult{result("a", 30, false), result("b", 25, false)},
			wantScore: 0, wantFraud: false, wantIndicators: 0, wantConfidence: 0,
		},
		{
			name:      "single indicator below threshold",
			results:   []domain.RuleResult{result("a", 30, true)},
			wantScore: 30, wantFraud: false, wantIndicators: 1, wantConfidence: 0.3,
		},
		{
			name:      "single heavy indicator at score threshold",
			results:   []domain.RuleResult{result("a", 50, true)},
			wantScore: 50, wantFraud: true, wantIndicators: 1, wantConfidence: 0.5,
		},
		{
			name:      "two indicators below score threshold",
			results:   []domain.RuleResult{result("d", 15, true), result("e", 10, true)},
			wantScore: 25, wantFraud: true, wantIndicators: 2, wantConfidence: 0.25,
		},
		{
			name: "score capped at maximum",
			results: []domain.RuleResult{
				result("a", 30, true), result("b", 25, true), result("c", 20, true),
				result("d", 15, true), result("e", 10, true), result("f", 40, true),
			},
			wantScore: 100, wantFraud: true, wantIndicators: 6, wantConfidence: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := p.Process("u1", tt.results)

			if a.RiskScore != tt.wantScore {
				t.Errorf("RiskScore = %d, want %d", a.RiskScore, tt.wantScore)
			}
			if a.IsFraud != tt.wantFraud {
				t.Errorf("IsFraud = %v, want %v", a.IsFraud, tt.wantFraud)
			}
			if len(a.FraudIndicators) != tt.wantIndicators {
				t.Errorf("indicators = %d, want %d", len(a.FraudIndicators), tt.wantIndicators)
			}
			if a.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", a.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestProcessMetadata(t *testing.T) {
	p := NewProcessor(fixedClock())
	a := p.Process("u1", []domain.RuleResult{result("a", 30, true)})

	if a.ID == "" {
		t.Error("expected assessment ID to be set")
	}
	if a.UserID != "u1" {
		t.Errorf("UserID = %s, want u1", a.UserID)
	}
	if !a.Timestamp.Equal(time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected timestamp %v", a.Timestamp)
	}
	if a.FraudIndicators == nil {
		t.Error("FraudIndicators must never be nil")
	}
}

func TestProcessEmptyResults(t *testing.T) {
	p := NewProcessor(fixedClock())
	a := p.Process("u1", nil)

	if a.IsFraud {
		t.Error("empty results must not flag fraud")
	}
	if a.FraudIndicators == nil || len(a.FraudIndicators) != 0 {
		t.Errorf("FraudIndicators = %v, want empty slice", a.FraudIndicators)
	}
}
