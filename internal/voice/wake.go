package voice

import "strings"

// WakePhrases are checked in order; the first one found anywhere in the
// transcript marks where the command starts.
var WakePhrases = []string{
	"hey money buddy",
	"hey moneybuddy",
	"hey siri",
	"hey google",
}

// StripWakePhrase returns the command spoken after the first wake phrase, or
// the whole normalized transcript when none is present. Case is preserved.
func StripWakePhrase(transcript string) string {
	spoken := normalize(transcript)
	lower := strings.ToLower(spoken)
	for _, wake := range WakePhrases {
		idx := strings.Index(lower, wake)
		if idx == -1 {
			continue
		}
		rest := lower[idx+len(wake):]
		if len(lower) == len(spoken) {
			rest = spoken[idx+len(wake):]
		}
		return strings.TrimSpace(rest)
	}
	return spoken
}
