package features

import (
	"iter"
	"strings"
)

// BracketedFind yields the substrings found between successive start/end
// delimiter pairs, scanning left to right without overlap. An opening
// delimiter with no closing match yields the rest of the string once.
// The sequence is lazy and can be ranged over repeatedly.
func BracketedFind(s, start, end string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if start == "" || end == "" {
			return
		}

		pos := 0
		for {
			i := strings.Index(s[pos:], start)
			if i < 0 {
				return
			}
			open := pos + i + len(start)

			j := strings.Index(s[open:], end)
			if j < 0 {
				yield(s[open:])
				return
			}
			if !yield(s[open : open+j]) {
				return
			}
			pos = open + j + len(end)
		}
	}
}

// QuotedWordCount counts the words inside double-quoted spans
func QuotedWordCount(text string) int {
	n := 0
	for span := range BracketedFind(text, `"`, `"`) {
		n += len(strings.Fields(span))
	}
	return n
}
