// Package intent extracts payment intents from natural-language voice
// commands in English and Hinglish.
package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/surakshapay/vigil/internal/domain"
	"github.com/surakshapay/vigil/internal/patterns"
)

const (
	matchConfidence   = 0.9
	partialConfidence = 0.8
	unknownConfidence = 0.1
)

// Extractor resolves a voice command to an intent. It is stateless
// and safe for concurrent use.
type Extractor struct{}

// NewExtractor creates an intent extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract matches the command against the known intent patterns in
// priority order: send, receive, balance, history, help. The first
// matching pattern wins. Matching is case-insensitive over the raw
// command so the recipient name keeps the caller's casing; an
// unmatched command comes back as unknown with a lower-cased echo.
func (e *Extractor) Extract(command string) *domain.Intent {
	for _, p := range patterns.SendPatterns {
		match := p.Regexp.FindStringSubmatch(command)
		if match == nil {
			continue
		}

		var amountStr, recipient string
		if p.RecipientFirst {
			recipient, amountStr = match[1], match[2]
		} else {
			amountStr, recipient = match[1], match[2]
		}

		amount, err := strconv.ParseFloat(amountStr, 64)
		if err != nil {
			continue
		}

		return &domain.Intent{
			Intent:     domain.IntentSendMoney,
			Confidence: matchConfidence,
			Amount:     &amount,
			Recipient:  strings.TrimSpace(recipient),
		}
	}

	if matchAny(patterns.ReceivePatterns, command) {
		return &domain.Intent{Intent: domain.IntentReceiveMoney, Confidence: partialConfidence}
	}
	if matchAny(patterns.BalancePatterns, command) {
		return &domain.Intent{Intent: domain.IntentCheckBalance, Confidence: partialConfidence}
	}
	if matchAny(patterns.HistoryPatterns, command) {
		return &domain.Intent{Intent: domain.IntentViewHistory, Confidence: partialConfidence}
	}
	if matchAny(patterns.HelpPatterns, command) {
		return &domain.Intent{Intent: domain.IntentHelp, Confidence: partialConfidence}
	}

	return &domain.Intent{
		Intent:          domain.IntentUnknown,
		Confidence:      unknownConfidence,
		OriginalCommand: strings.ToLower(command),
	}
}

func matchAny(pats []*regexp.Regexp, command string) bool {
	for _, p := range pats {
		if p.MatchString(command) {
			return true
		}
	}
	return false
}
