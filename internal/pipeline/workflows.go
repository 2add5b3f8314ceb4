package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/quotex/internal/classify"
	"github.com/ppiankov/quotex/internal/coref"
	"github.com/ppiankov/quotex/internal/model"
)

// ErrNoProvider is returned by Resolve when no coref provider is configured
var ErrNoProvider = errors.New("no coref provider configured")

// Label applies a human quote label to a stored paragraph
func (p *Pipeline) Label(paragraphID uint, quote, forTraining bool) (*model.Paragraph, error) {
	para, err := p.store.Paragraph(paragraphID)
	if err != nil {
		return nil, err
	}
	para.Label(quote, forTraining)
	if err := p.store.SaveParagraph(para); err != nil {
		return nil, err
	}
	return para, nil
}

// Evaluate splits the training rows into a fitting half and a held-out
// half, trains on the first and reports on the second
func (p *Pipeline) Evaluate() (*model.EvaluationReport, error) {
	engine, err := classify.NewEngine(p.config.Classifier, p.logger)
	if err != nil {
		return nil, err
	}

	rows, err := p.store.TrainingParagraphs()
	if err != nil {
		return nil, err
	}

	train, test := classify.Split(rows, p.config.Classifier.TrainFraction)
	p.logger.Debug("split training rows", "train", len(train), "test", len(test))

	m, err := engine.Train(train)
	if err != nil {
		return nil, err
	}
	return engine.Evaluate(m, test)
}

// Classify trains on every training row and labels every unclassified
// paragraph. Returns the number of paragraphs labeled.
func (p *Pipeline) Classify() (int, error) {
	engine, err := classify.NewEngine(p.config.Classifier, p.logger)
	if err != nil {
		return 0, err
	}

	rows, err := p.store.TrainingParagraphs()
	if err != nil {
		return 0, err
	}
	m, err := engine.Train(rows)
	if err != nil {
		return 0, err
	}

	unclassified, err := p.store.UnclassifiedParagraphs()
	if err != nil {
		return 0, err
	}

	n := engine.Classify(m, unclassified)
	if err := p.store.SaveParagraphs(unclassified); err != nil {
		return 0, fmt.Errorf("save classifications: %w", err)
	}

	p.logger.Info("classified paragraphs", "count", n, "trained_on", m.TrainSize)
	return n, nil
}

// Resolve attributes speakers in the given stories, or in every story when
// ids is empty. Stories are processed one at a time.
func (p *Pipeline) Resolve(ctx context.Context, provider coref.Provider, ids []uint) ([]*coref.Result, error) {
	if provider == nil {
		return nil, ErrNoProvider
	}

	if len(ids) == 0 {
		all, err := p.store.StoryIDs()
		if err != nil {
			return nil, err
		}
		ids = all
	}

	resolver := coref.NewResolver(provider, p.store, p.logger)

	results := make([]*coref.Result, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		story, err := p.store.Story(id)
		if err != nil {
			return results, err
		}

		result, err := resolver.Resolve(ctx, story)
		if err != nil {
			return results, fmt.Errorf("resolve story %d: %w", id, err)
		}
		results = append(results, result)
	}
	return results, nil
}
