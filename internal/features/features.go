// Package features turns raw paragraph text into the feature vectors consumed
// by the quote classifier.
//
// Features that look at quotation marks run on the raw text. Everything that
// looks at words runs on CleanText output. Continuous signals are bucketed
// to multiples of ten because the classifier treats every distinct value as
// its own category.
package features

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// wordsNearQuoteLimit caps the tokens taken after the first closing quote
const wordsNearQuoteLimit = 5

var (
	saidAfterSource  = regexp.MustCompile(`\b(he|she|[A-Z][a-z]+)\W+(?:\w+\W+){0,5}(said|added|says)\b`)
	saidBeforeSource = regexp.MustCompile(`\b(said|added|says)\W+(?:\w+\W+){0,5}(he|she|[A-Z][a-z]+)\b`)
)

// Document is a paragraph being featurized. The cleaned form is computed
// once and shared by every feature.
type Document struct {
	Raw string

	clean   string
	cleaned bool
}

// NewDocument wraps raw paragraph text
func NewDocument(raw string) *Document {
	return &Document{Raw: raw}
}

// Clean returns CleanText(Raw), computed on first use
func (d *Document) Clean() string {
	if !d.cleaned {
		d.clean = CleanText(d.Raw)
		d.cleaned = true
	}
	return d.clean
}

// Feature writes zero or more entries into a vector
type Feature struct {
	Name  string
	Apply func(d *Document, v Vector)
}

// ContainsQuotes reports whether the text has a double quote. Smart quotes
// must be normalized beforehand.
func ContainsQuotes(text string) bool {
	return strings.Contains(text, `"`)
}

// FirstQuoteIndex returns the character index of the first double quote
// rounded to the nearest ten. A missing quote is index -1, which rounds to 0.
func FirstQuoteIndex(text string) float64 {
	idx := strings.IndexByte(text, '"')
	if idx >= 0 {
		idx = utf8.RuneCountInString(text[:idx])
	}
	return roundToTen(float64(idx))
}

// LastWord returns the last token of the cleaned text
func LastWord(text string) (string, bool) {
	return lastToken(CleanText(text))
}

// SaidNearSource reports whether a pronoun or capitalized token sits within
// five tokens of an attribution verb, in either order
func SaidNearSource(text string) bool {
	return saidNearSource(CleanText(text))
}

// NumWordsBetweenQuotes counts the words inside quotes, rounds to the
// nearest ten and halves the result
func NumWordsBetweenQuotes(text string) float64 {
	return roundToTen(float64(QuotedWordCount(text))) / 2
}

// WordsNearQuotes returns up to five cleaned tokens that follow the first
// closing quote, stopping at the next quote mark
func WordsNearQuotes(text string) []string {
	return wordsOutsideQuotes(CleanText(text), wordsNearQuoteLimit)
}

func lastToken(cleaned string) (string, bool) {
	tokens := strings.Fields(cleaned)
	if len(tokens) == 0 {
		return "", false
	}
	return tokens[len(tokens)-1], true
}

func saidNearSource(cleaned string) bool {
	return saidAfterSource.MatchString(cleaned) || saidBeforeSource.MatchString(cleaned)
}

func wordsOutsideQuotes(cleaned string, n int) []string {
	var quotes []int
	for i := 0; i < len(cleaned); i++ {
		if cleaned[i] == '"' {
			quotes = append(quotes, i)
		}
	}
	if len(quotes) < 2 {
		return nil
	}

	start, end := quotes[1]+1, len(cleaned)
	if len(quotes) > 2 {
		end = quotes[2]
	}

	words := strings.Fields(cleaned[start:end])
	if len(words) > n {
		words = words[:n]
	}
	return words
}

// roundToTen rounds half to even at the tens place
func roundToTen(x float64) float64 {
	r := math.RoundToEven(x/10) * 10
	if r == 0 {
		return 0 // normalizes -0
	}
	return r
}

// DefaultFeatures returns the active feature set
func DefaultFeatures() []Feature {
	return []Feature{
		{Name: "contains_quotes", Apply: func(d *Document, v Vector) {
			v[KeyContainsQuotes] = Bool(ContainsQuotes(d.Raw))
		}},
		{Name: "first_quote_index", Apply: func(d *Document, v Vector) {
			v[KeyFirstQuoteIndex] = Number(FirstQuoteIndex(d.Raw))
		}},
		{Name: "last_word", Apply: func(d *Document, v Vector) {
			if w, ok := lastToken(d.Clean()); ok {
				v[Parametric(KindLastWord, w)] = Bool(true)
			}
		}},
		{Name: "said_near_source", Apply: func(d *Document, v Vector) {
			v[KeySaidNearSource] = Bool(saidNearSource(d.Clean()))
		}},
		{Name: "num_words_between_quotes", Apply: func(d *Document, v Vector) {
			v[KeyNumWordsBetweenQuotes] = Number(NumWordsBetweenQuotes(d.Raw))
		}},
		{Name: "words_near_quotes", Apply: func(d *Document, v Vector) {
			for _, w := range wordsOutsideQuotes(d.Clean(), wordsNearQuoteLimit) {
				v[Parametric(KindNearQuote, w)] = Bool(true)
			}
		}},
	}
}

// Extractor aggregates features into one vector per paragraph
type Extractor struct {
	features []Feature
}

// NewExtractor returns an extractor over the active features plus any
// optional features named in extra
func NewExtractor(extra ...string) (*Extractor, error) {
	feats := DefaultFeatures()
	optional := OptionalFeatures()
	for _, name := range extra {
		f, ok := optional[name]
		if !ok {
			return nil, fmt.Errorf("unknown feature %q (optional: %s)", name, strings.Join(OptionalNames(), ", "))
		}
		feats = append(feats, f)
	}
	return &Extractor{features: feats}, nil
}

// Default returns an extractor over the active features only
func Default() *Extractor {
	return &Extractor{features: DefaultFeatures()}
}

// Names lists the enabled features
func (e *Extractor) Names() []string {
	names := make([]string, 0, len(e.features))
	for _, f := range e.features {
		names = append(names, f.Name)
	}
	return names
}

// Extract builds the feature vector for raw paragraph text
func (e *Extractor) Extract(text string) Vector {
	d := NewDocument(text)
	v := make(Vector)
	for _, f := range e.features {
		f.Apply(d, v)
	}
	return v
}

// OptionalNames lists the optional feature names in sorted order
func OptionalNames() []string {
	var names []string
	for name := range OptionalFeatures() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
