package ledger

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/surakshapay/vigil/internal/domain"
)

func TestTransactionBound(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := New(domain.LedgerConfig{}, domain.ClockFunc(func() time.Time { return now }))

	for i := 0; i < 150; i++ {
		now = now.Add(time.Second)
		l.RecordTransaction("user-001", domain.Transaction{Description: fmt.Sprintf("tx-%d", i)})
	}

	if got := l.TransactionCount("user-001"); got != 100 {
		t.Fatalf("expected 100 retained transactions, got %d", got)
	}

	// Oldest evicted first: the first retained record should be tx-50.
	oldest, ok := l.OldestTransaction("user-001")
	if !ok {
		t.Fatal("expected a retained transaction")
	}
	if oldest.Description != "tx-50" {
		t.Errorf("expected oldest retained tx-50, got %s", oldest.Description)
	}
}

func TestVoiceCommandBound(t *testing.T) {
	l := New(domain.LedgerConfig{}, nil)

	for i := 0; i < 75; i++ {
		l.RecordVoiceCommand("user-001", "check balance")
	}

	if got := l.VoiceCommandCount("user-001"); got != 50 {
		t.Errorf("expected 50 retained voice commands, got %d", got)
	}
}

func TestCountWithinWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := New(domain.LedgerConfig{}, domain.ClockFunc(func() time.Time { return now }))

	// Three transactions spread over 2 hours, then two recent ones.
	for _, age := range []time.Duration{2 * time.Hour, 90 * time.Minute, 70 * time.Minute, 30 * time.Minute, time.Minute} {
		saved := now
		now = saved.Add(-age)
		l.RecordTransaction("user-001", domain.Transaction{Amount: 100})
		now = saved
	}

	if got := l.CountTransactionsWithin("user-001", time.Hour); got != 2 {
		t.Errorf("expected 2 transactions within 1h, got %d", got)
	}
	if got := l.CountTransactionsWithin("user-001", 24*time.Hour); got != 5 {
		t.Errorf("expected 5 transactions within 24h, got %d", got)
	}
}

func TestCountWindowIsStrict(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := New(domain.LedgerConfig{}, domain.ClockFunc(func() time.Time { return now }))

	// A record exactly one hour old sits on the boundary and must not
	// be counted in a one hour window.
	now = now.Add(-time.Hour)
	l.RecordTransaction("user-001", domain.Transaction{})
	now = now.Add(time.Hour)

	if got := l.CountTransactionsWithin("user-001", time.Hour); got != 0 {
		t.Errorf("expected boundary record excluded, got %d", got)
	}
}

func TestUnknownUser(t *testing.T) {
	l := New(domain.LedgerConfig{}, nil)

	if got := l.CountTransactionsWithin("nobody", time.Hour); got != 0 {
		t.Errorf("expected 0 for unknown user, got %d", got)
	}
	if got := l.CountVoiceCommandsWithin("nobody", time.Hour); got != 0 {
		t.Errorf("expected 0 for unknown user, got %d", got)
	}
}

func TestEmptyUserIDIsNoOp(t *testing.T) {
	l := New(domain.LedgerConfig{}, nil)

	l.RecordTransaction("", domain.Transaction{Amount: 500})
	l.RecordVoiceCommand("", "send money")

	if got := l.TransactionCount(""); got != 0 {
		t.Errorf("expected no entry for empty user ID, got %d", got)
	}
}

func TestConcurrentAppends(t *testing.T) {
	l := New(domain.LedgerConfig{MaxTransactions: 100}, nil)

	var wg sync.WaitGroup
	for w := 0; w < 10; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				l.RecordTransaction("user-001", domain.Transaction{Amount: float64(i)})
			}
		}()
	}
	wg.Wait()

	// 500 appends through 10 goroutines must leave exactly the bound.
	if got := l.TransactionCount("user-001"); got != 100 {
		t.Errorf("expected exactly 100 retained after concurrent appends, got %d", got)
	}
}

func TestConfiguredBounds(t *testing.T) {
	l := New(domain.LedgerConfig{MaxTransactions: 3, MaxVoiceCommands: 2}, nil)

	for i := 0; i < 5; i++ {
		l.RecordTransaction("u", domain.Transaction{})
		l.RecordVoiceCommand("u", "hi")
	}

	if got := l.TransactionCount("u"); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := l.VoiceCommandCount("u"); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}
