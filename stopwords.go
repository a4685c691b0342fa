package painpoint

import (
	"strings"
	"unicode"

	"github.com/bbalet/stopwords"
)

// platformNoise are words that are frequent in any community dump and carry
// no topic.
var platformNoise = newStringSet(
	"reddit", "subreddit", "subreddits", "post", "posts", "comment",
	"comments", "thread", "threads", "edit", "deleted", "removed",
)

// stopWordCacheSize bounds the per-word cache of englishStopWords.
const stopWordCacheSize = 20000

// englishStopWords answers membership in the English closed list. The
// stopwords package only exposes a cleaning function, so a word is a stop
// word when cleaning it leaves nothing behind.
var englishStopWords = newMemo(stopWordCacheSize, func(word string) bool {
	if !hasLetter(word) {
		// The cleaner drops digits, which would turn "42" into a false stop word.
		return false
	}
	return strings.TrimSpace(stopwords.CleanString(word, "en", false)) == ""
})

// IsStopWord reports whether word is an English stop word.
func IsStopWord(word string) bool {
	return englishStopWords.get(strings.ToLower(word))
}

// isTopicNoise reports whether word should be left out of topic and keyword
// summaries.
func isTopicNoise(word string) bool {
	return platformNoise.has(word) || IsStopWord(word)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// isAlphanumeric reports whether every rune of s is a letter or a digit.
func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
