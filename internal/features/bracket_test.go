package features

import (
	"slices"
	"strings"
	"testing"
)

func TestBracketedFind(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"two pairs", `a "b" c "d e" f`, []string{"b", "d e"}},
		{"unterminated", `He said "open ended`, []string{"open ended"}},
		{"lone quote", `"`, []string{""}},
		{"adjacent quotes", `""`, []string{""}},
		{"no quotes", "no quotes here", nil},
		// Deliberate: the empty paragraph yields no spans, not a single
		// empty span, matching a paragraph with no quote marks at all.
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(BracketedFind(tt.input, `"`, `"`))
			if !slices.Equal(got, tt.want) {
				t.Errorf("BracketedFind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBracketedFind_PairThenUnterminated(t *testing.T) {
	// `"a" and "b` pairs the 1st/2nd quotes and leaves the 3rd unterminated
	got := slices.Collect(BracketedFind(`"a" and "b`, `"`, `"`))
	want := []string{"a", "b"}
	if !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBracketedFind_Restartable(t *testing.T) {
	seq := BracketedFind(`"one" two "three"`, `"`, `"`)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) {
		t.Errorf("second pass %q differs from first %q", second, first)
	}
}

func TestBracketedFind_EarlyStop(t *testing.T) {
	count := 0
	for range BracketedFind(`"a" "b" "c"`, `"`, `"`) {
		count++
		break
	}
	if count != 1 {
		t.Errorf("expected iteration to stop after 1 span, got %d", count)
	}
}

func TestBracketedFind_EmptyDelimiters(t *testing.T) {
	if got := slices.Collect(BracketedFind("abc", "", `"`)); len(got) != 0 {
		t.Errorf("expected no spans for empty start delimiter, got %q", got)
	}
	if got := slices.Collect(BracketedFind(`"abc`, `"`, "")); len(got) != 0 {
		t.Errorf("expected no spans for empty end delimiter, got %q", got)
	}
}

func TestBracketedFind_MultiCharDelimiters(t *testing.T) {
	got := slices.Collect(BracketedFind("<<x>> y <<z>>", "<<", ">>"))
	want := []string{"x", "z"}
	if !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBracketedFind_RecoversQuotedRegion(t *testing.T) {
	text := `x "a" y "b c" z`

	// Rebuild the region between the first and last quote from the yielded
	// spans and the unquoted gaps between them
	var rebuilt strings.Builder
	rest := text[strings.Index(text, `"`):]
	for span := range BracketedFind(text, `"`, `"`) {
		i := strings.Index(rest, `"`+span+`"`)
		if i < 0 {
			t.Fatalf("span %q not found in %q", span, rest)
		}
		rebuilt.WriteString(rest[:i])
		rebuilt.WriteString(span)
		rest = rest[i+len(span)+2:]
	}

	first, last := strings.Index(text, `"`), strings.LastIndex(text, `"`)
	want := strings.ReplaceAll(text[first:last+1], `"`, "")
	if rebuilt.String() != want {
		t.Errorf("rebuilt %q, want %q", rebuilt.String(), want)
	}
}

func TestQuotedWordCount(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{`He said, "I am happy."`, 3},
		{`"One two" and "three"`, 3},
		{`no quotes`, 0},
		{`trailing "one two three`, 3},
		{"", 0},
	}

	for _, tt := range tests {
		if got := QuotedWordCount(tt.input); got != tt.want {
			t.Errorf("QuotedWordCount(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
