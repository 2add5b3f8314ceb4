package features

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

var punctuationToRemove = []string{".", ",", "!", "?"}

// attributionWordsStemmed are stems of verbs that introduce reported speech
var attributionWordsStemmed = map[string]bool{
	"said": true, "say": true, "call": true, "accus": true,
	"tell": true, "told": true, "report": true, "assur": true,
}

var pronouns = map[string]bool{"he": true, "she": true}

// stopwords is the English stopword list the classifier was tuned with.
// Matching is case-sensitive, so capitalized tokens survive cleaning.
var stopwords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`i me my myself we our ours ourselves you your yours
		yourself yourselves he him his himself she her hers herself it its itself they
		them their theirs themselves what which who whom this that these those am is are
		was were be been being have has had having do does did doing a an the and but if
		or because as until while of at by for with about against between into through
		during before after above below to from up down in out on off over under again
		further then once here there when where why how all any both each few more most
		other some such no nor not only own same so than too very s t can will just don
		should now`) {
		stopwords[w] = true
	}
}

// maxStemRounds bounds the search for a stemmer fixed point
const maxStemRounds = 8

// CleanText strips . , ! ?, drops stopwords and stems the remaining tokens.
// Double quotes are kept so quote positions survive cleaning. Cleaning is
// idempotent: every token is stemmed until the stemmer leaves it unchanged,
// and a stem that is itself a stopword is dropped.
func CleanText(text string) string {
	for _, p := range punctuationToRemove {
		text = strings.ReplaceAll(text, p, "")
	}

	tokens := strings.Fields(text)
	out := make([]string, 0, len(tokens))
	for _, w := range tokens {
		if w, ok := cleanToken(w); ok {
			out = append(out, w)
		}
	}
	return strings.Join(out, " ")
}

// cleanToken stems w to a fixed point, reporting false when w or any of its
// stems is a stopword
func cleanToken(w string) (string, bool) {
	for range maxStemRounds {
		if stopwords[w] {
			return "", false
		}
		s := stem(w)
		if s == w {
			return w, true
		}
		w = s
	}
	return w, !stopwords[w]
}

// stem applies the English snowball stemmer and restores the letter case of
// the original token at every position the stem shares with it
func stem(word string) string {
	stemmed, err := snowball.Stem(word, "english", true)
	if err != nil || stemmed == "" {
		return word
	}
	return adjustCase(word, stemmed)
}

func adjustCase(word, stemmed string) string {
	orig := []rune(word)
	out := []rune(stemmed)
	for i := 0; i < len(out) && i < len(orig); i++ {
		if unicode.IsUpper(orig[i]) && unicode.ToLower(orig[i]) == out[i] {
			out[i] = orig[i]
		}
	}
	return string(out)
}
