package features

import (
	"math"
	"strings"
)

// Optional features. They were tried while tuning the classifier and are
// kept out of the default set; enable them through NewExtractor.

// FirstWord returns the first token of the cleaned text
func FirstWord(text string) (string, bool) {
	tokens := strings.Fields(CleanText(text))
	if len(tokens) == 0 {
		return "", false
	}
	return tokens[0], true
}

// WordFeatures returns every cleaned token
func WordFeatures(text string) []string {
	return strings.Fields(CleanText(text))
}

// ContainsAttribution reports whether a stemmed attribution verb appears
func ContainsAttribution(text string) bool {
	return containsAny(CleanText(text), attributionWordsStemmed)
}

// ContainsPronoun reports whether he or she appears in the cleaned text
func ContainsPronoun(text string) bool {
	return containsAny(CleanText(text), pronouns)
}

// PctWordsBetweenQuotes returns the share of words inside quotes rounded to
// 0 or 1. Empty text yields 0.
func PctWordsBetweenQuotes(text string) float64 {
	total := len(strings.Fields(text))
	if total == 0 {
		return 0
	}
	return math.RoundToEven(float64(QuotedWordCount(text)) / float64(total))
}

func containsAny(cleaned string, set map[string]bool) bool {
	for _, w := range strings.Fields(cleaned) {
		if set[strings.ToLower(w)] {
			return true
		}
	}
	return false
}

// OptionalFeatures returns the inactive features keyed by name
func OptionalFeatures() map[string]Feature {
	return map[string]Feature{
		"first_word": {Name: "first_word", Apply: func(d *Document, v Vector) {
			if tokens := strings.Fields(d.Clean()); len(tokens) > 0 {
				v[Parametric(KindFirstWord, tokens[0])] = Bool(true)
			}
		}},
		"word_features": {Name: "word_features", Apply: func(d *Document, v Vector) {
			for _, w := range strings.Fields(d.Clean()) {
				v[Parametric(KindWord, w)] = Bool(true)
			}
		}},
		"contains_attribution": {Name: "contains_attribution", Apply: func(d *Document, v Vector) {
			v[KeyContainsAttribution] = Bool(containsAny(d.Clean(), attributionWordsStemmed))
		}},
		"contains_pronoun": {Name: "contains_pronoun", Apply: func(d *Document, v Vector) {
			v[KeyContainsPronoun] = Bool(containsAny(d.Clean(), pronouns))
		}},
		"pct_words_between_quotes": {Name: "pct_words_between_quotes", Apply: func(d *Document, v Vector) {
			v[KeyPctWordsBetweenQuotes] = Number(PctWordsBetweenQuotes(d.Raw))
		}},
	}
}
