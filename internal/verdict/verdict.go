// Package verdict aggregates rule results into a final fraud assessment.
package verdict

import (
	"github.com/google/uuid"
	"github.com/surakshapay/vigil/internal/domain"
)

// Processor turns rule results into a risk score and fraud verdict.
type Processor struct {
	// Score at or above which a transaction is flagged as fraud
	FraudScoreThreshold int

	// Number of triggered indicators at or above which a transaction
	// is flagged regardless of score
	IndicatorThreshold int

	// Cap applied to the summed rule weights
	MaxRiskScore int

	clock domain.Clock
}

// NewProcessor creates a verdict processor with default thresholds.
func NewProcessor(clock domain.Clock) *Processor {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Processor{
		FraudScoreThreshold: 50,
		IndicatorThreshold:  2,
		MaxRiskScore:        100,
		clock:               clock,
	}
}

// Process aggregates rule results into an assessment. The risk score
// is the capped sum of triggered rule weights; a transaction is fraud
// when the score reaches FraudScoreThreshold or when at least
// IndicatorThreshold indicators triggered.
func (p *Processor) Process(userID string, results []domain.RuleResult) *domain.Assessment {
	assessment := &domain.Assessment{
		ID:              uuid.New().String(),
		UserID:          userID,
		FraudIndicators: []string{},
		Timestamp:       p.clock.Now(),
		RuleResults:     results,
	}

	score := 0
	for _, r := range results {
		if !r.Triggered {
			continue
		}
		score += r.Weight
		assessment.FraudIndicators = append(assessment.FraudIndicators, r.Indicator)
	}

	if score > p.MaxRiskScore {
		score = p.MaxRiskScore
	}

	assessment.RiskScore = score
	assessment.IsFraud = score >= p.FraudScoreThreshold ||
		len(assessment.FraudIndicators) >= p.IndicatorThreshold
	assessment.Confidence = float64(score) / float64(p.MaxRiskScore)
	if assessment.Confidence > 1.0 {
		assessment.Confidence = 1.0
	}

	return assessment
}
