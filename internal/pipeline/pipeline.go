// Package pipeline ingests stories and runs the classification and
// attribution workflows over the record store
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ppiankov/quotex/internal/extract"
	"github.com/ppiankov/quotex/internal/extract/adapters"
	"github.com/ppiankov/quotex/internal/logging"
	"github.com/ppiankov/quotex/internal/model"
	"github.com/ppiankov/quotex/internal/store"
	"github.com/ppiankov/quotex/internal/util"
	"github.com/ppiankov/quotex/internal/worker"
)

// ErrDisallowed is returned when robots.txt forbids fetching a story page
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Pipeline ingests story pages into the store
type Pipeline struct {
	fetcher  *Fetcher
	feeds    *FeedReader
	adapters *adapters.Registry
	robots   *util.RobotsChecker // nil when robots.txt is ignored
	polite   *worker.Limiter     // spaces requests to hosts with a crawl delay
	store    *store.Store
	config   *model.Config
	logger   *log.Logger
}

// New creates a pipeline over st
func New(cfg *model.Config, st *store.Store, logger *log.Logger) *Pipeline {
	fetcher := NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes,
		cfg.HTTP.InsecureTLS, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)

	p := &Pipeline{
		fetcher:  fetcher,
		feeds:    NewFeedReader(fetcher),
		adapters: adapters.NewRegistry(),
		polite:   worker.NewLimiter(0, 1),
		store:    st,
		config:   cfg,
		logger:   logging.OrDiscard(logger),
	}
	if cfg.HTTP.RespectRobots {
		p.robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, 10*time.Second, fetcher.Transport())
	}
	return p
}

// IngestURL fetches a story page, splits it into paragraphs and stores it.
// Relative URLs are resolved against the site base URL. A page whose URL is
// already stored returns the stored story.
func (p *Pipeline) IngestURL(ctx context.Context, rawURL string) (*model.Story, error) {
	pageURL := (&model.Story{URL: rawURL}).AbsoluteURL(p.config.Site.BaseURL)

	if err := p.checkRobots(ctx, pageURL); err != nil {
		return nil, err
	}

	result, err := p.fetcher.FetchWithRetry(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	article, adapter, err := p.adapters.Extract(result.HTML, result.FinalURL)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", pageURL, err)
	}
	p.logger.Debug("extracted story", "url", pageURL, "adapter", adapter, "paragraphs", len(article.Paragraphs))

	story := NewStory(article.Title, pageURL, article.Body, article.Paragraphs)
	if err := p.save(story); err != nil {
		return nil, err
	}
	return story, nil
}

// IngestFeed stores every story of a feed. Items carrying full content are
// stored from the feed; the rest are fetched from their links. Per-item
// failures are logged and skipped.
func (p *Pipeline) IngestFeed(ctx context.Context, feedURL string) ([]*model.Story, error) {
	items, err := p.feeds.Read(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	var stories []*model.Story
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return stories, err
		}

		story, err := p.ingestItem(ctx, item)
		if err != nil {
			p.logger.Warn("skipping feed item", "link", item.Link, "err", err)
			continue
		}
		stories = append(stories, story)
	}
	return stories, nil
}

func (p *Pipeline) ingestItem(ctx context.Context, item FeedItem) (*model.Story, error) {
	if item.Content == "" {
		if item.Link == "" {
			return nil, fmt.Errorf("feed item %q has neither content nor link", item.Title)
		}
		return p.IngestURL(ctx, item.Link)
	}

	paragraphs := extract.SplitParagraphs(item.Content)
	if len(paragraphs) == 0 {
		return nil, fmt.Errorf("feed item %q has no paragraphs", item.Title)
	}

	title := extract.CleanParagraph(extract.StripTags(item.Title))
	story := NewStory(title, item.Link, item.Content, paragraphs)
	if err := p.save(story); err != nil {
		return nil, err
	}
	return story, nil
}

// BatchIngester returns a concurrent ingester over this pipeline sized by
// the concurrency and rate limiting configuration
func (p *Pipeline) BatchIngester() *worker.BatchIngester {
	return worker.NewBatchIngester(p, p.config.Concurrency.Workers,
		p.config.RateLimiting.RequestsPerSecond, p.config.RateLimiting.BurstSize)
}

func (p *Pipeline) save(story *model.Story) error {
	created, err := p.store.SaveStory(story)
	if err != nil {
		return fmt.Errorf("store story %s: %w", story.URL, err)
	}
	if !created {
		p.logger.Info("story already stored", "id", story.ID, "url", story.URL)
	} else {
		p.logger.Info("stored story", "id", story.ID, "paragraphs", len(story.Paragraphs))
	}
	return nil
}

func (p *Pipeline) checkRobots(ctx context.Context, pageURL string) error {
	if p.robots == nil {
		return nil
	}

	allowed, delay, err := p.robots.CanFetch(ctx, pageURL)
	if err != nil {
		return fmt.Errorf("robots check %s: %w", pageURL, err)
	}
	if !allowed {
		return fmt.Errorf("%s: %w", pageURL, ErrDisallowed)
	}

	if delay > 0 {
		p.logger.Debug("honouring crawl delay", "url", pageURL, "delay", delay)
	}
	return p.polite.WaitWithDelay(ctx, pageURL, delay)
}

// NewStory builds an unsaved story from extracted paragraphs. Paragraph
// order follows the slice.
func NewStory(title, storyURL, body string, paragraphs []string) *model.Story {
	story := &model.Story{
		Title:      title,
		Slug:       storySlug(storyURL),
		Body:       body,
		URL:        storyURL,
		Paragraphs: make([]model.Paragraph, 0, len(paragraphs)),
	}
	if story.Title == "" {
		story.Title = story.Slug
	}

	for i, text := range paragraphs {
		story.Paragraphs = append(story.Paragraphs, model.Paragraph{
			Order: i,
			Text:  extract.NormalizeQuotes(text),
		})
	}
	return story
}
