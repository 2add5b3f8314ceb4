package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// FeedItem is one story entry of an RSS or Atom feed
type FeedItem struct {
	Title   string
	Link    string
	Content string // Full HTML content when the feed carries it
}

// FeedReader reads story lists from RSS and Atom feeds
type FeedReader struct {
	fetcher *Fetcher
	parser  *gofeed.Parser
}

// NewFeedReader creates a feed reader that fetches through fetcher
func NewFeedReader(fetcher *Fetcher) *FeedReader {
	return &FeedReader{
		fetcher: fetcher,
		parser:  gofeed.NewParser(),
	}
}

// Read fetches and parses the feed at feedURL
func (r *FeedReader) Read(ctx context.Context, feedURL string) ([]FeedItem, error) {
	result, err := r.fetcher.FetchWithRetry(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	feed, err := r.parser.ParseString(result.HTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}

	items := make([]FeedItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry == nil {
			continue
		}
		items = append(items, FeedItem{
			Title:   strings.TrimSpace(entry.Title),
			Link:    strings.TrimSpace(entry.Link),
			Content: entry.Content,
		})
	}
	return items, nil
}
