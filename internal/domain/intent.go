package domain

// IntentKind classifies the purpose of a voice command.
type IntentKind string

const (
	IntentSendMoney    IntentKind = "send_money"
	IntentReceiveMoney IntentKind = "receive_money"
	IntentCheckBalance IntentKind = "check_balance"
	IntentViewHistory  IntentKind = "view_history"
	IntentHelp         IntentKind = "help"
	IntentUnknown      IntentKind = "unknown"
)

// Intent is the structured result of voice command extraction.
// Amount and Recipient are set only for send_money;
// OriginalCommand only for unknown.
type Intent struct {
	Intent          IntentKind `json:"intent"`
	Confidence      float64    `json:"confidence"`
	Amount          *float64   `json:"amount,omitempty"`
	Recipient       string     `json:"recipient,omitempty"`
	OriginalCommand string     `json:"original_command,omitempty"`
}
