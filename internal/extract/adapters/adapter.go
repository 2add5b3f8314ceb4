// Package adapters holds page layouts the ingester knows how to read
package adapters

import (
	"fmt"
	"strings"

	"github.com/ppiankov/quotex/internal/extract"
	"golang.org/x/net/html"
)

// Article is the story content found on a page
type Article struct {
	Title      string
	Body       string   // Rendered HTML of the story container
	Paragraphs []string // Normalized paragraph text in reading order
}

// Adapter defines the interface for layout-specific extractors
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// Extract returns the article on the page, or nil if the layout does
	// not match
	Extract(doc *html.Node, url string) (*Article, error)
}

// Registry manages page adapters
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a registry with the built-in adapters
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make([]Adapter, 0),
	}

	registry.Register(NewArticleAdapter())

	// Every page has <p> elements or text; generic is the fallback
	registry.generic = NewGenericAdapter()

	return registry
}

// Register registers a new adapter. Adapters are tried in registration order.
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// Extract parses htmlContent and runs the first adapter that recognises it
func (r *Registry) Extract(htmlContent, url string) (*Article, string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, "", fmt.Errorf("parse html: %w", err)
	}

	candidates := make([]Adapter, 0, len(r.adapters)+1)
	candidates = append(candidates, r.adapters...)
	candidates = append(candidates, r.generic)

	for _, adapter := range candidates {
		article, err := adapter.Extract(doc, url)
		if err != nil {
			return nil, adapter.Name(), err
		}
		if article != nil && len(article.Paragraphs) > 0 {
			if article.Title == "" {
				article.Title = pageTitle(doc)
			}
			return article, adapter.Name(), nil
		}
	}
	return nil, "", fmt.Errorf("no paragraphs found on %s", url)
}

// BaseAdapter provides common functionality for adapters
type BaseAdapter struct{}

// HasClass checks if a node has a specific CSS class
func (b *BaseAdapter) HasClass(n *html.Node, className string) bool {
	if n.Type != html.ElementNode {
		return false
	}

	for _, class := range strings.Fields(b.GetAttribute(n, "class")) {
		if class == className {
			return true
		}
	}
	return false
}

// GetAttribute gets an attribute value from a node
func (b *BaseAdapter) GetAttribute(n *html.Node, attrKey string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrKey {
			return attr.Val
		}
	}
	return ""
}

// FindFirst finds the first node matching a predicate
func (b *BaseAdapter) FindFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	var result *html.Node

	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if predicate(node) {
			result = node
			return true
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	walk(n)
	return result
}

// Render serializes n back to HTML
func (b *BaseAdapter) Render(n *html.Node) string {
	var buf strings.Builder
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

func isElement(name string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == name
	}
}

// pageTitle prefers og:title, then <title>, then the first <h1>
func pageTitle(doc *html.Node) string {
	var b BaseAdapter

	og := b.FindFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "meta" && b.GetAttribute(n, "property") == "og:title"
	})
	if og != nil {
		if title := extract.CleanParagraph(b.GetAttribute(og, "content")); title != "" {
			return title
		}
	}

	for _, tag := range []string{"title", "h1"} {
		if n := b.FindFirst(doc, isElement(tag)); n != nil {
			if title := extract.CleanParagraph(extract.Text(n)); title != "" {
				return title
			}
		}
	}
	return ""
}
