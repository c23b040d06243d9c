package services

import (
	"regexp"
	"strings"

	"github.com/temcen/laptop-advisor/internal/extraction"
)

var smallTalkPhrases = []string{
	"hi", "hello", "hey", "hiya", "yo",
	"good morning", "good afternoon", "good evening",
	"thanks", "thank you", "thx", "cheers",
	"ok", "okay", "cool", "nice", "great",
	"bye", "goodbye", "how are you",
}

var affirmationPhrases = []string{
	"yes", "yeah", "yep", "yup", "sure", "correct", "right", "exactly",
	"confirm", "confirmed", "ok", "okay", "perfect",
	"sounds good", "looks good", "looks right", "go ahead", "that's it", "thats it",
}

var explicitAskPattern = regexp.MustCompile(
	`\b(recommend\w*|suggest\w*|show me|results?|options|what do you have|just show|list (them|some|laptops))\b`)

// negationPattern marks a reply that rejects or amends the summary.
var negationPattern = regexp.MustCompile(`\b(no|not|nope|nah|don't|dont|wrong|change|incorrect)\b`)

var punctuation = regexp.MustCompile(`[^\p{L}\p{N}'\s]+`)

// cleanUtterance normalises text for lexicon matching.
func cleanUtterance(utterance string) string {
	text := punctuation.ReplaceAllString(extraction.Normalize(utterance), " ")
	return strings.Join(strings.Fields(text), " ")
}

// containsPhrase matches phrase on word boundaries inside cleaned text.
func containsPhrase(cleaned, phrase string) bool {
	padded := " " + cleaned + " "
	return strings.Contains(padded, " "+phrase+" ")
}

// isSmallTalk matches the whole utterance, or a short utterance containing
// a lexicon phrase.
func isSmallTalk(cleaned string) bool {
	if cleaned == "" {
		return true
	}
	short := len(strings.Fields(cleaned)) <= 3
	for _, phrase := range smallTalkPhrases {
		if cleaned == phrase {
			return true
		}
		if short && containsPhrase(cleaned, phrase) {
			return true
		}
	}
	return false
}

func isAffirmation(cleaned string) bool {
	if negationPattern.MatchString(cleaned) {
		return false
	}
	for _, phrase := range affirmationPhrases {
		if containsPhrase(cleaned, phrase) {
			return true
		}
	}
	return false
}

func isExplicitAsk(cleaned string) bool {
	return explicitAskPattern.MatchString(cleaned)
}
