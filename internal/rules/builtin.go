// Package rules provides the built-in risk predicates and the CEL
// engine for operator-defined rules.
package rules

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/surakshapay/vigil/internal/domain"
	"github.com/surakshapay/vigil/internal/patterns"
)

// Detection thresholds.
const (
	maxHourlyTransactions     = 5
	maxDailyTransactions      = 10
	maxVoiceCommandsPer5Min   = 3
	maxSingleTransaction      = 50000
	suspiciousAmountThreshold = 10000
)

// Rule weights.
const (
	WeightGamblingKeywords   = 30
	WeightTransactionPattern = 25
	WeightAmountPattern      = 20
	WeightVoicePattern       = 15
	WeightTimePattern        = 10
)

// History is the windowed-count view of the activity ledger consumed
// by the rate rules. Counts are taken after the current record has
// been appended; the detector owns that ordering.
type History interface {
	CountTransactionsWithin(userID string, window time.Duration) int
	CountVoiceCommandsWithin(userID string, window time.Duration) int
}

// Rule is one built-in risk predicate. Detect reports whether the
// rule fires and a human-readable reason.
type Rule struct {
	Indicator string
	Weight    int
	Detect    func(tx *domain.Transaction) (bool, string)
}

// Set holds the built-in rules in evaluation order, bound to a
// history view and a clock.
type Set struct {
	history History
	clock   domain.Clock
	rules   []Rule
}

// NewSet builds the five built-in risk rules. A nil clock reads the
// system clock; a nil history disables the rate rules.
func NewSet(history History, clock domain.Clock) *Set {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	s := &Set{history: history, clock: clock}
	s.rules = []Rule{
		{Indicator: domain.IndicatorGamblingKeywords, Weight: WeightGamblingKeywords, Detect: s.checkGamblingKeywords},
		{Indicator: domain.IndicatorTransactionPattern, Weight: WeightTransactionPattern, Detect: s.checkTransactionRate},
		{Indicator: domain.IndicatorAmountPattern, Weight: WeightAmountPattern, Detect: s.checkAmountPattern},
		{Indicator: domain.IndicatorVoicePattern, Weight: WeightVoicePattern, Detect: s.checkVoicePattern},
		{Indicator: domain.IndicatorTimePattern, Weight: WeightTimePattern, Detect: s.checkUnusualHour},
	}
	return s
}

// Evaluate runs every built-in rule against the transaction and
// returns one result per rule, in order. Rules never error; malformed
// input leaves a rule untriggered.
func (s *Set) Evaluate(tx *domain.Transaction) []domain.RuleResult {
	results := make([]domain.RuleResult, 0, len(s.rules))
	for _, rule := range s.rules {
		triggered, reason := rule.Detect(tx)
		if triggered {
			slog.Warn("risk rule triggered",
				"indicator", rule.Indicator,
				"reason", reason,
				"user_id", tx.UserID,
			)
		}
		results = append(results, domain.RuleResult{
			Indicator: rule.Indicator,
			Weight:    rule.Weight,
			Triggered: triggered,
			Reason:    reason,
		})
	}
	return results
}

// checkGamblingKeywords scans the lower-cased description, voice
// command, and recipient name for catalog keywords. Substring match,
// not word-boundary: short keywords can fire inside unrelated words.
func (s *Set) checkGamblingKeywords(tx *domain.Transaction) (bool, string) {
	var b strings.Builder
	for _, field := range []string{tx.Description, tx.VoiceCommand, tx.RecipientName} {
		if field != "" {
			b.WriteString(strings.ToLower(field))
			b.WriteString(" ")
		}
	}
	text := b.String()
	if text == "" {
		return false, ""
	}

	for _, keyword := range patterns.GamblingKeywords {
		if strings.Contains(text, keyword) {
			return true, fmt.Sprintf("gambling keyword detected: %s", keyword)
		}
	}
	return false, ""
}

// checkTransactionRate fires when the user exceeds the hourly or
// daily transaction count, including the just-appended record.
func (s *Set) checkTransactionRate(tx *domain.Transaction) (bool, string) {
	if tx.UserID == "" || s.history == nil {
		return false, ""
	}

	if n := s.history.CountTransactionsWithin(tx.UserID, time.Hour); n > maxHourlyTransactions {
		return true, fmt.Sprintf("too many transactions in 1 hour: %d", n)
	}
	if n := s.history.CountTransactionsWithin(tx.UserID, 24*time.Hour); n > maxDailyTransactions {
		return true, fmt.Sprintf("too many transactions in 1 day: %d", n)
	}
	return false, ""
}

// checkAmountPattern fires on very large amounts, repeated-digit
// amounts (1111, 9999), and large round multiples of 1000.
func (s *Set) checkAmountPattern(tx *domain.Transaction) (bool, string) {
	amount := tx.Amount
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		slog.Warn("ignoring malformed amount", "amount", amount)
		return false, ""
	}

	if amount > maxSingleTransaction {
		return true, fmt.Sprintf("transaction amount exceeds limit: %.2f", amount)
	}

	if allSameDigits(strconv.FormatInt(int64(amount), 10)) {
		return true, fmt.Sprintf("repeated-digit amount: %.2f", amount)
	}

	if amount > suspiciousAmountThreshold && math.Mod(amount, 1000) == 0 {
		return true, fmt.Sprintf("large round amount: %.2f", amount)
	}
	return false, ""
}

// allSameDigits reports whether s has more than one character and all
// characters are equal. Single-digit amounts are deliberately exempt.
func allSameDigits(s string) bool {
	if len(s) < 2 {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// checkVoicePattern fires on suspicious phrasing inside a present
// voice command, or on more than three voice commands within five
// minutes for the same user.
func (s *Set) checkVoicePattern(tx *domain.Transaction) (bool, string) {
	if tx.VoiceCommand == "" {
		return false, ""
	}

	lower := strings.ToLower(tx.VoiceCommand)
	for _, re := range patterns.SuspiciousVoicePatterns {
		if re.MatchString(lower) {
			return true, fmt.Sprintf("suspicious voice pattern: %s", re.String())
		}
	}

	if tx.UserID != "" && s.history != nil {
		if n := s.history.CountVoiceCommandsWithin(tx.UserID, 5*time.Minute); n > maxVoiceCommandsPer5Min {
			return true, fmt.Sprintf("too many voice commands in 5 minutes: %d", n)
		}
	}
	return false, ""
}

// checkUnusualHour fires between 02:00 and 05:59 server local time,
// independent of the request.
func (s *Set) checkUnusualHour(*domain.Transaction) (bool, string) {
	hour := s.clock.Now().Hour()
	if hour >= 2 && hour <= 5 {
		return true, fmt.Sprintf("transaction at unusual hour: %d", hour)
	}
	return false, ""
}
