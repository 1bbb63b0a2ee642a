// Package detector orchestrates a full fraud assessment: ledger
// bookkeeping, built-in rules, custom rules, and the final verdict.
package detector

import (
	"context"
	"log/slog"
	"strings"

	"github.com/surakshapay/vigil/internal/domain"
	"github.com/surakshapay/vigil/internal/ledger"
	"github.com/surakshapay/vigil/internal/rules"
	"github.com/surakshapay/vigil/internal/verdict"
)

// Detector runs a transaction through the detection pipeline.
type Detector struct {
	ledger   *ledger.Ledger
	builtin  *rules.Set
	engine   *rules.Engine
	verdicts *verdict.Processor
}

// New creates a detector. The engine may be nil when no custom rules
// are configured.
func New(l *ledger.Ledger, builtin *rules.Set, engine *rules.Engine, v *verdict.Processor) *Detector {
	return &Detector{
		ledger:   l,
		builtin:  builtin,
		engine:   engine,
		verdicts: v,
	}
}

// Assess records the transaction in the activity ledger and evaluates
// every rule against it. The transaction is appended before the rules
// run, so rate windows include the transaction being assessed. A
// voice command riding on the transaction is recorded too.
func (d *Detector) Assess(ctx context.Context, tx *domain.Transaction) *domain.Assessment {
	if tx.UserID != "" {
		d.ledger.RecordTransaction(tx.UserID, *tx)
		if tx.VoiceCommand != "" {
			d.ledger.RecordVoiceCommand(tx.UserID, strings.ToLower(tx.VoiceCommand))
		}
	}

	results := d.builtin.Evaluate(tx)
	if d.engine != nil && d.engine.RulesCount() > 0 {
		results = append(results, d.engine.EvaluateAll(ctx, tx)...)
	}

	assessment := d.verdicts.Process(tx.UserID, results)

	slog.Info("transaction assessed",
		"assessment_id", assessment.ID,
		"user_id", tx.UserID,
		"risk_score", assessment.RiskScore,
		"is_fraud", assessment.IsFraud,
		"indicators", len(assessment.FraudIndicators))

	return assessment
}

// RecordVoiceCommand logs a standalone voice command against the
// user's activity ledger.
func (d *Detector) RecordVoiceCommand(userID, command string) {
	if userID == "" {
		return
	}
	d.ledger.RecordVoiceCommand(userID, strings.ToLower(command))
}
