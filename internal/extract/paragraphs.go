// Package extract turns story markup into normalized paragraph text
package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	blankLine  = regexp.MustCompile(`\n\s*\n`)
	whitespace = regexp.MustCompile(`\s+`)
)

// skipped elements never contribute visible text
var skipped = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"nav":      true,
	"footer":   true,
	"aside":    true,
	"form":     true,
}

// CleanParagraph collapses whitespace and normalizes quote marks
func CleanParagraph(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(NormalizeQuotes(s), " "))
}

// Text returns the visible text below n. Entities are already decoded by
// the parser.
func Text(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipped[n.Data] {
				return
			}
			if n.Data == "br" {
				buf.WriteString(" ")
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

// ParagraphNodes returns the text of every <p> element below n, in document
// order. Empty paragraphs are dropped.
func ParagraphNodes(n *html.Node) []string {
	var out []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipped[n.Data] {
				return
			}
			if n.Data == "p" {
				if text := CleanParagraph(Text(n)); text != "" {
					out = append(out, text)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return out
}

// SplitParagraphs tokenizes a story body into paragraphs. Markup with <p>
// elements is split on them; anything else is stripped of tags and split on
// blank lines.
func SplitParagraphs(body string) []string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return splitPlain(body)
	}
	if ps := ParagraphNodes(doc); len(ps) > 0 {
		return ps
	}
	return splitPlain(Text(doc))
}

// StripTags returns the plain text of an HTML fragment with entities
// decoded
func StripTags(body string) string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return body
	}
	return strings.TrimSpace(Text(doc))
}

func splitPlain(text string) []string {
	var out []string
	for _, chunk := range blankLine.Split(text, -1) {
		if p := CleanParagraph(chunk); p != "" {
			out = append(out, p)
		}
	}
	return out
}
