// Package domain defines the core types and interfaces for Vigil.
package domain

import (
	"time"
)

// Transaction is an inbound transaction or voice-initiated payment
// command to be assessed. Every field is optional; history-based rules
// are inert without a UserID.
type Transaction struct {
	UserID        string  `json:"user_id,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
	Description   string  `json:"description,omitempty"`
	RecipientName string  `json:"recipient_name,omitempty"`
	VoiceCommand  string  `json:"voice_command,omitempty"`

	// Timestamp is assigned at ingestion, never supplied by the caller.
	Timestamp time.Time `json:"timestamp"`
}

// ActivityRecord is a stored copy of a transaction tagged with its
// ingestion timestamp. Owned exclusively by the ledger entry for its
// user.
type ActivityRecord struct {
	Transaction
}

// VoiceRecord is a stored voice command tagged with its ingestion
// timestamp.
type VoiceRecord struct {
	Command   string    `json:"command"`
	Timestamp time.Time `json:"timestamp"`
}
