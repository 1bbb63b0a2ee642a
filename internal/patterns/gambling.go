// Package patterns holds the static keyword lists and compiled
// regular expressions used by the risk rules and the intent extractor.
// Pure data, no behavior.
package patterns

// GamblingKeywords are matched case-insensitively as substrings
// against the combined description, voice command, and recipient name.
// Substring matching means short keywords can fire inside unrelated
// words; kept for compatibility with existing callers.
var GamblingKeywords = []string{
	// English
	"bet", "gambling", "casino", "poker", "lottery", "jackpot", "wager", "stake",
	"betting", "gamble", "slot", "roulette", "blackjack", "baccarat", "craps",
	"sportsbook", "bookmaker", "odds", "handicap", "spread", "parlay",

	// Hindi
	"शर्त", "जुआ", "कैसीनो", "लॉटरी", "जैकपॉट", "सट्टा", "बाजी", "पैसा",
	"रुपया", "टिकट", "नंबर", "गेम", "खेल", "जीत", "हार",

	// Bengali
	"বাজি", "জুয়া", "ক্যাসিনো", "লটারি", "জ্যাকপট", "টিকিট", "নম্বর",
	"গেম", "খেলা", "জয়", "হার", "টাকা",

	// Tamil
	"பந்தயம்", "சூதாட்டம்", "லாட்டரி", "ஜாக்பாட்", "டிக்கெட்", "எண்",
	"விளையாட்டு", "விளையாடு", "வெற்றி", "தோல்வி", "பணம்",

	// Telugu
	"జూదం", "లాటరీ", "కాసినో", "జాక్పాట్", "టికెట్", "సంఖ్య",
	"గేమ్", "ఆడు", "గెలుపు", "ఓటమి", "డబ్బు",
}
