package moderation

import (
	"regexp"
	"strings"
)

// Local spam checks that run before the classifier when enabled in
// config. They catch the obvious junk without spending a round-trip.
var (
	urlPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+|\S+\.(com|net|org|io|co|xyz|info|biz|ru|cn|tk|ml|ga|cf)/\S*)`)
)

type spamCheck struct {
	reason string
	match  func(string) bool
}

// spamChecks is ordered; the first hit wins.
var spamChecks = []spamCheck{
	{reason: "links are not allowed", match: urlPattern.MatchString},
	{reason: "character flooding", match: hasCharFlood},
	{reason: "repeated word flooding", match: hasWordFlood},
}

// hasCharFlood reports 5+ consecutive identical characters. RE2 has no
// backreferences, so this is a linear scan.
func hasCharFlood(text string) bool {
	const threshold = 5

	count := 1
	prev := rune(-1)
	for _, r := range text {
		if r == prev {
			count++
			if count >= threshold {
				return true
			}
		} else {
			count = 1
			prev = r
		}
	}

	return false
}

// hasWordFlood reports the same word 3+ times in a row, case-insensitive.
func hasWordFlood(text string) bool {
	const threshold = 3

	words := strings.Fields(text)
	if len(words) < threshold {
		return false
	}

	count := 1
	prev := ""
	for _, w := range words {
		lower := strings.ToLower(w)
		if lower == prev {
			count++
			if count >= threshold {
				return true
			}
		} else {
			count = 1
			prev = lower
		}
	}

	return false
}

// checkSpamPatterns returns the block reason for the first matching
// spam check, or ok=false when the text passes all of them.
func checkSpamPatterns(text string) (string, bool) {
	for _, sc := range spamChecks {
		if sc.match(text) {
			return sc.reason, true
		}
	}

	return "", false
}
