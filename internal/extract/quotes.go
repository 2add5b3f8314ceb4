package extract

import "strings"

// singleQuotes maps typographic single quotes and angle quotes to '
var singleQuotes = []string{
	"‘", "'",
	"’", "'",
	"‚", "'",
	"‛", "'",
	"‹", "'",
	"›", "'",
}

// doubleQuotes maps typographic double quotes and guillemets to "
var doubleQuotes = []string{
	"«", `"`,
	"»", `"`,
	"“", `"`,
	"”", `"`,
	"„", `"`,
	"‟", `"`,
}

var quoteReplacer = strings.NewReplacer(append(append([]string{}, doubleQuotes...), singleQuotes...)...)

// NormalizeQuotes converts smart quotes to plain ASCII quotes. The quote
// features only recognise '"', so every paragraph goes through this before
// it is stored.
func NormalizeQuotes(s string) string {
	return quoteReplacer.Replace(s)
}
