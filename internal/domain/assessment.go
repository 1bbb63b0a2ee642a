package domain

import (
	"time"
)

// RuleResult is the outcome of a single risk rule evaluation.
type RuleResult struct {
	Indicator string `json:"indicator"`
	Weight    int    `json:"weight"`
	Triggered bool   `json:"triggered"`
	Reason    string `json:"reason,omitempty"`
}

// Assessment is the fraud verdict for a single transaction. Derived,
// not stored by the core; the repository may keep an audit copy.
type Assessment struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"user_id,omitempty"`

	IsFraud         bool      `json:"is_fraud"`
	RiskScore       int       `json:"risk_score"`
	FraudIndicators []string  `json:"fraud_indicators"`
	Confidence      float64   `json:"confidence"`
	Timestamp       time.Time `json:"timestamp"`

	// Full per-rule breakdown, kept for the audit store and alerts.
	RuleResults []RuleResult `json:"rule_results,omitempty"`
}

// Indicator tags emitted by the built-in rules.
const (
	IndicatorGamblingKeywords   = "gambling_keywords_detected"
	IndicatorTransactionPattern = "suspicious_transaction_pattern"
	IndicatorAmountPattern      = "suspicious_amount_pattern"
	IndicatorVoicePattern       = "suspicious_voice_pattern"
	IndicatorTimePattern        = "suspicious_time_pattern"
)
