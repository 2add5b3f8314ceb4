package adapters

import (
	"github.com/ppiankov/quotex/internal/extract"
	"golang.org/x/net/html"
)

// GenericAdapter is the fallback adapter for unknown layouts. It reads every
// paragraph in <body>.
type GenericAdapter struct {
	BaseAdapter
}

// NewGenericAdapter creates a new generic adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

// Name returns the adapter name
func (a *GenericAdapter) Name() string {
	return "generic"
}

// Extract splits the page body into paragraphs
func (a *GenericAdapter) Extract(doc *html.Node, url string) (*Article, error) {
	body := a.FindFirst(doc, isElement("body"))
	if body == nil {
		body = doc
	}

	rendered := a.Render(body)
	return &Article{
		Body:       rendered,
		Paragraphs: extract.SplitParagraphs(rendered),
	}, nil
}
