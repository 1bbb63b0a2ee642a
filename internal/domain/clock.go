package domain

import "time"

// Clock abstracts wall-clock time so the ledger windows and the
// unusual-hour rule can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the real wall clock in server local time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
