package coref

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/ppiankov/quotex/internal/logging"
	"github.com/ppiankov/quotex/internal/model"
)

// SourceStore persists speakers and their paragraph associations
type SourceStore interface {
	// GetOrCreateSource returns the source with name, creating it if needed
	GetOrCreateSource(name string) (*model.Source, error)

	// AddParagraphSource associates source with paragraph. Adding an
	// existing association is a no-op.
	AddParagraphSource(paragraph *model.Paragraph, source *model.Source) error
}

// Result summarizes one story's resolution
type Result struct {
	StoryID  uint
	Speakers int
	Added    int
	Skipped  bool
}

// Resolver attaches sources to the paragraphs of a story
type Resolver struct {
	provider Provider
	store    SourceStore
	logger   *log.Logger
}

// NewResolver creates a resolver
func NewResolver(provider Provider, store SourceStore, logger *log.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		store:    store,
		logger:   logging.OrDiscard(logger),
	}
}

// Resolve submits the story text to the provider and attaches a source to
// every paragraph containing the prefix or suffix context of one of that
// speaker's mentions. Provider failures and empty responses skip the story
// without error. Store failures are returned.
func (r *Resolver) Resolve(ctx context.Context, story *model.Story) (*Result, error) {
	result := &Result{StoryID: story.ID}

	ann, err := r.provider.Analyze(ctx, story.FullText())
	if err != nil {
		r.logger.Warn("entity extraction failed, skipping story",
			"story", story.ID, "provider", r.provider.Name(), "err", err)
		result.Skipped = true
		return result, nil
	}
	if ann == nil || ann.Entities == nil {
		r.logger.Debug("no entities returned", "story", story.ID)
		result.Skipped = true
		return result, nil
	}

	people := NewMap(*ann.Entities)
	result.Speakers = people.Len()

	for _, name := range people.Names() {
		for _, mention := range people.Mentions(name) {
			for i := range story.Paragraphs {
				p := &story.Paragraphs[i]
				if !mention.Matches(p.Text) {
					continue
				}

				source, err := r.store.GetOrCreateSource(name)
				if err != nil {
					return result, fmt.Errorf("get source %q: %w", name, err)
				}
				if p.HasSource(source.Name) {
					continue
				}
				if err := r.store.AddParagraphSource(p, source); err != nil {
					return result, fmt.Errorf("attach source %q to paragraph %d: %w", name, p.ID, err)
				}
				result.Added++
			}
		}
	}

	r.logger.Info("resolved story", "story", story.ID, "speakers", result.Speakers, "added", result.Added)
	return result, nil
}
