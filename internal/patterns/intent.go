package patterns

import "regexp"

// SendPattern is one alternative for the send-money intent. When
// RecipientFirst is set the first capture group is the recipient and
// the second the amount (the "NAME ko AMOUNT bhej" orderings);
// otherwise amount comes first.
type SendPattern struct {
	Regexp         *regexp.Regexp
	RecipientFirst bool
}

// SendPatterns are matched in order against the raw command. Matching
// is case-insensitive so the recipient capture keeps its original
// casing.
var SendPatterns = []SendPattern{
	{Regexp: regexp.MustCompile(`(?i)send\s+(\d+)\s+to\s+([a-zA-Z\s]+)`)},
	{Regexp: regexp.MustCompile(`(?i)(\d+)\s+rupees?\s+to\s+([a-zA-Z\s]+)`)},
	{Regexp: regexp.MustCompile(`(?i)([a-zA-Z\s]+)\s+ko\s+(\d+)\s+bhej`), RecipientFirst: true},
	{Regexp: regexp.MustCompile(`(?i)([a-zA-Z\s]+)\s+को\s+(\d+)\s+भेज`), RecipientFirst: true},
}

// ReceivePatterns match receive-money / show-QR commands.
var ReceivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)receive\s+money`),
	regexp.MustCompile(`(?i)show\s+qr`),
	regexp.MustCompile(`(?i)qr\s+code`),
	regexp.MustCompile(`(?i)पैसा\s+ले`),
	regexp.MustCompile(`(?i)क्यूआर\s+दिखा`),
}

// BalancePatterns match balance-check commands.
var BalancePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)balance`),
	regexp.MustCompile(`(?i)how\s+much`),
	regexp.MustCompile(`(?i)कितना\s+पैसा`),
	regexp.MustCompile(`(?i)बैलेंस`),
	regexp.MustCompile(`(?i)बाकी`),
}

// HistoryPatterns match transaction-history commands.
var HistoryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)history`),
	regexp.MustCompile(`(?i)transactions`),
	regexp.MustCompile(`(?i)list`),
	regexp.MustCompile(`(?i)इतिहास`),
	regexp.MustCompile(`(?i)लिस्ट`),
}

// HelpPatterns match help requests.
var HelpPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)help`),
	regexp.MustCompile(`(?i)what\s+can\s+you\s+do`),
	regexp.MustCompile(`(?i)मदद`),
	regexp.MustCompile(`(?i)क्या\s+कर\s+सकते\s+हो`),
}
