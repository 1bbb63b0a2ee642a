// Package ledger provides the bounded in-memory per-user activity
// history used by the rate-window risk rules.
package ledger

import (
	"sync"
	"time"

	"github.com/surakshapay/vigil/internal/domain"
)

// Ledger keeps a time-ordered history of transactions and voice
// commands per user. Entries are created on first sight of a user and
// live for the life of the process; durable storage is deliberately
// out of scope. One mutex guards the whole ledger so append-and-trim
// is atomic under concurrent requests for the same user.
type Ledger struct {
	mu               sync.Mutex
	clock            domain.Clock
	maxTransactions  int
	maxVoiceCommands int
	entries          map[string]*entry
}

type entry struct {
	transactions []domain.ActivityRecord
	voice        []domain.VoiceRecord
}

// New creates a ledger with the given bounds. Zero bounds fall back to
// 100 transactions and 50 voice commands per user. A nil clock reads
// the system clock.
func New(cfg domain.LedgerConfig, clock domain.Clock) *Ledger {
	if cfg.MaxTransactions <= 0 {
		cfg.MaxTransactions = 100
	}
	if cfg.MaxVoiceCommands <= 0 {
		cfg.MaxVoiceCommands = 50
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Ledger{
		clock:            clock,
		maxTransactions:  cfg.MaxTransactions,
		maxVoiceCommands: cfg.MaxVoiceCommands,
		entries:          make(map[string]*entry),
	}
}

// RecordTransaction appends a copy of tx stamped with the current time
// and evicts the oldest records past the bound. A missing user ID is a
// no-op; callers without an identity skip history entirely.
func (l *Ledger) RecordTransaction(userID string, tx domain.Transaction) {
	if userID == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.entry(userID)
	tx.Timestamp = l.clock.Now()
	e.transactions = append(e.transactions, domain.ActivityRecord{Transaction: tx})

	if n := len(e.transactions); n > l.maxTransactions {
		e.transactions = append(e.transactions[:0], e.transactions[n-l.maxTransactions:]...)
	}
}

// RecordVoiceCommand appends a voice command stamped with the current
// time, bounded the same way as transactions.
func (l *Ledger) RecordVoiceCommand(userID, command string) {
	if userID == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.entry(userID)
	e.voice = append(e.voice, domain.VoiceRecord{
		Command:   command,
		Timestamp: l.clock.Now(),
	})

	if n := len(e.voice); n > l.maxVoiceCommands {
		e.voice = append(e.voice[:0], e.voice[n-l.maxVoiceCommands:]...)
	}
}

// CountTransactionsWithin returns how many of the user's transactions
// are strictly younger than the window. Unknown users count as zero.
func (l *Ledger) CountTransactionsWithin(userID string, window time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[userID]
	if !ok {
		return 0
	}

	now := l.clock.Now()
	count := 0
	// Records are in non-decreasing timestamp order; walk from the
	// newest and stop at the first record outside the window.
	for i := len(e.transactions) - 1; i >= 0; i-- {
		if now.Sub(e.transactions[i].Timestamp) >= window {
			break
		}
		count++
	}
	return count
}

// CountVoiceCommandsWithin is CountTransactionsWithin for voice
// commands.
func (l *Ledger) CountVoiceCommandsWithin(userID string, window time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[userID]
	if !ok {
		return 0
	}

	now := l.clock.Now()
	count := 0
	for i := len(e.voice) - 1; i >= 0; i-- {
		if now.Sub(e.voice[i].Timestamp) >= window {
			break
		}
		count++
	}
	return count
}

// TransactionCount returns the total retained transactions for a user.
func (l *Ledger) TransactionCount(userID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[userID]; ok {
		return len(e.transactions)
	}
	return 0
}

// VoiceCommandCount returns the total retained voice commands for a user.
func (l *Ledger) VoiceCommandCount(userID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[userID]; ok {
		return len(e.voice)
	}
	return 0
}

// OldestTransaction returns the oldest retained transaction for a
// user, if any. Used to verify front eviction.
func (l *Ledger) OldestTransaction(userID string) (domain.ActivityRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[userID]
	if !ok || len(e.transactions) == 0 {
		return domain.ActivityRecord{}, false
	}
	return e.transactions[0], true
}

func (l *Ledger) entry(userID string) *entry {
	e, ok := l.entries[userID]
	if !ok {
		e = &entry{}
		l.entries[userID] = e
	}
	return e
}
