package adapters

import (
	"github.com/ppiankov/quotex/internal/extract"
	"golang.org/x/net/html"
)

// storyClasses are container classes news CMSes put around story text
var storyClasses = []string{
	"story-body",
	"article-body",
	"entry-content",
	"post-content",
	"story",
}

// ArticleAdapter reads pages that wrap the story in an <article> element or
// a known story container, ignoring navigation and related-story lists
type ArticleAdapter struct {
	BaseAdapter
}

// NewArticleAdapter creates a new article adapter
func NewArticleAdapter() *ArticleAdapter {
	return &ArticleAdapter{}
}

// Name returns the adapter name
func (a *ArticleAdapter) Name() string {
	return "article"
}

// Extract returns nil when the page has no story container
func (a *ArticleAdapter) Extract(doc *html.Node, url string) (*Article, error) {
	container := a.container(doc)
	if container == nil {
		return nil, nil
	}

	article := &Article{
		Body:       a.Render(container),
		Paragraphs: extract.ParagraphNodes(container),
	}
	if h1 := a.FindFirst(container, isElement("h1")); h1 != nil {
		article.Title = extract.CleanParagraph(extract.Text(h1))
	}
	return article, nil
}

func (a *ArticleAdapter) container(doc *html.Node) *html.Node {
	for _, class := range storyClasses {
		n := a.FindFirst(doc, func(n *html.Node) bool { return a.HasClass(n, class) })
		if n != nil {
			return n
		}
	}
	return a.FindFirst(doc, isElement("article"))
}
