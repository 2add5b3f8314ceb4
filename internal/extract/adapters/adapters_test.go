package adapters

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func mustParse(t *testing.T, page string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

const articlePage = `<html>
<head><title>Budget vote | The Daily</title><meta property="og:title" content="Council approves budget"></head>
<body>
  <nav><p>Home</p><p>Sections</p></nav>
  <div class="story-body">
    <h1>Council approves budget</h1>
    <p>The council approved the budget on Tuesday.</p>
    <p>&ldquo;It was a hard year,&rdquo; said Jane Doe.</p>
    <script>var x = "<p>not text</p>";</script>
  </div>
  <div class="related"><p>Other story</p></div>
</body>
</html>`

func TestRegistry_ArticleLayout(t *testing.T) {
	registry := NewRegistry()

	article, adapter, err := registry.Extract(articlePage, "http://example.com/budget")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if adapter != "article" {
		t.Errorf("expected article adapter, got %s", adapter)
	}

	want := []string{
		"The council approved the budget on Tuesday.",
		`"It was a hard year," said Jane Doe.`,
	}
	if len(article.Paragraphs) != len(want) {
		t.Fatalf("expected %d paragraphs, got %q", len(want), article.Paragraphs)
	}
	for i := range want {
		if article.Paragraphs[i] != want[i] {
			t.Errorf("paragraph %d = %q, want %q", i, article.Paragraphs[i], want[i])
		}
	}
	if article.Title != "Council approves budget" {
		t.Errorf("unexpected title %q", article.Title)
	}
	if !strings.Contains(article.Body, "story-body") {
		t.Error("expected body to hold the rendered story container")
	}
}

func TestRegistry_GenericFallback(t *testing.T) {
	page := `<html><head><title>Plain page</title></head><body>
<p>First paragraph.</p>
<p>  Second
   paragraph.  </p>
<footer><p>Copyright</p></footer>
</body></html>`

	article, adapter, err := NewRegistry().Extract(page, "http://example.com/plain")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if adapter != "generic" {
		t.Errorf("expected generic adapter, got %s", adapter)
	}
	if len(article.Paragraphs) != 2 || article.Paragraphs[1] != "Second paragraph." {
		t.Errorf("unexpected paragraphs %q", article.Paragraphs)
	}
	if article.Title != "Plain page" {
		t.Errorf("expected <title> fallback, got %q", article.Title)
	}
}

func TestRegistry_NoParagraphs(t *testing.T) {
	_, _, err := NewRegistry().Extract(`<html><body><script>x()</script></body></html>`, "http://example.com/empty")
	if err == nil {
		t.Error("expected error for page without text")
	}
}

func TestBaseAdapter_HasClass(t *testing.T) {
	tests := []struct {
		name  string
		page  string
		class string
		want  bool
	}{
		{"single", `<div class="story">x</div>`, "story", true},
		{"among several", `<div class="wide story-body dark">x</div>`, "story-body", true},
		{"prefix only", `<div class="story-body">x</div>`, "story", false},
		{"no class", `<div>x</div>`, "story", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b BaseAdapter
			doc := mustParse(t, tt.page)
			div := b.FindFirst(doc, isElement("div"))
			if div == nil {
				t.Fatal("div not found")
			}
			if got := b.HasClass(div, tt.class); got != tt.want {
				t.Errorf("HasClass(%q) = %v, want %v", tt.class, got, tt.want)
			}
		})
	}
}
