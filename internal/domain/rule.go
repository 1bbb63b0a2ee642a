package domain

// CustomRule is an operator-defined CEL rule evaluated alongside the
// built-in predicates. When its expression evaluates truthy the rule
// contributes Weight points and Indicator to the verdict.
type CustomRule struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`

	// CEL expression over the request and history counts. Must return
	// bool, int, or double; any value > 0 counts as triggered.
	Expression string `json:"expression"`

	// Indicator tag emitted when triggered. Defaults to the rule ID.
	Indicator string `json:"indicator,omitempty"`

	// Weight added to the risk score when triggered.
	Weight int `json:"weight"`

	Enabled bool `json:"enabled"`
}
