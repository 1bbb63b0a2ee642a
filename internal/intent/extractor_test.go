package intent

import (
	"testing"

	"github.com/surakshapay/vigil/internal/domain"
)

func TestExtractSendMoney(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name          string
		command       string
		wantAmount    float64
		wantRecipient string
	}{
		{"english send", "send 500 to ramesh", 500, "ramesh"},
		{"english rupees", "transfer 250 rupees to priya sharma", 250, "priya sharma"},
		{"hinglish ko bhej", "ramesh ko 500 bhej do", 500, "ramesh"},
		{"recipient case preserved", "send 500 to Ravi", 500, "Ravi"},
		{"mixed case verb", "Send 200 To Priya Sharma", 200, "Priya Sharma"},
		{"uppercase command", "SEND 100 TO AMIT", 100, "AMIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.command)

			if got.Intent != domain.IntentSendMoney {
				t.Fatalf("intent = %s, want send_money", got.Intent)
			}
			if got.Confidence != 0.9 {
				t.Errorf("confidence = %v, want 0.9", got.Confidence)
			}
			if got.Amount == nil || *got.Amount != tt.wantAmount {
				t.Errorf("amount = %v, want %v", got.Amount, tt.wantAmount)
			}
			if got.Recipient != tt.wantRecipient {
				t.Errorf("recipient = %q, want %q", got.Recipient, tt.wantRecipient)
			}
		})
	}
}

func TestExtractSimpleIntents(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		command string
		want    domain.IntentKind
	}{
		{"receive money from customer", domain.IntentReceiveMoney},
		{"show qr please", domain.IntentReceiveMoney},
		{"what is my balance", domain.IntentCheckBalance},
		{"how much do i have", domain.IntentCheckBalance},
		{"कितना पैसा है", domain.IntentCheckBalance},
		{"show my transaction history", domain.IntentViewHistory},
		{"list my payments", domain.IntentViewHistory},
		{"help me", domain.IntentHelp},
		{"what can you do", domain.IntentHelp},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			got := e.Extract(tt.command)
			if got.Intent != tt.want {
				t.Errorf("intent = %s, want %s", got.Intent, tt.want)
			}
			if got.Confidence != 0.8 {
				t.Errorf("confidence = %v, want 0.8", got.Confidence)
			}
			if got.Amount != nil {
				t.Errorf("amount = %v, want nil", got.Amount)
			}
		})
	}
}

func TestExtractPriorityOrder(t *testing.T) {
	e := NewExtractor()

	// "send 100 to mom" also contains no other keywords, but a command
	// matching both send and balance resolves to send.
	got := e.Extract("send 100 to mom and tell me my balance")
	if got.Intent != domain.IntentSendMoney {
		t.Errorf("intent = %s, want send_money", got.Intent)
	}

	// receive beats balance when both appear.
	got = e.Extract("show qr for balance top up")
	if got.Intent != domain.IntentReceiveMoney {
		t.Errorf("intent = %s, want receive_money", got.Intent)
	}
}

func TestExtractUnknown(t *testing.T) {
	e := NewExtractor()

	got := e.Extract("Play Some Music")
	if got.Intent != domain.IntentUnknown {
		t.Fatalf("intent = %s, want unknown", got.Intent)
	}
	if got.Confidence != 0.1 {
		t.Errorf("confidence = %v, want 0.1", got.Confidence)
	}
	if got.OriginalCommand != "play some music" {
		t.Errorf("original command = %q, want normalized echo", got.OriginalCommand)
	}
}
