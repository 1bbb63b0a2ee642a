package patterns

import "regexp"

// SuspiciousVoicePatterns are matched against a lower-cased voice
// command. Latin-script only.
var SuspiciousVoicePatterns = []*regexp.Regexp{
	// 4-6 digit numbers (could be PINs)
	regexp.MustCompile(`\b\d{4,6}\b`),
	// long number sequences
	regexp.MustCompile(`\b\d{10,}\b`),
	// urgency keywords
	regexp.MustCompile(`urgent|emergency|quick|fast|immediate`),
	// secrecy keywords
	regexp.MustCompile(`secret|confidential|private`),
	// contact requests
	regexp.MustCompile(`call me|contact me|message me`),
}
