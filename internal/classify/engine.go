// Package classify trains, evaluates and applies the quote classifier over
// stored paragraphs.
package classify

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/ppiankov/quotex/internal/features"
	"github.com/ppiankov/quotex/internal/logging"
	"github.com/ppiankov/quotex/internal/maxent"
	"github.com/ppiankov/quotex/internal/model"
)

// DefaultInformativeFeatures is how many features Evaluate reports by default
const DefaultInformativeFeatures = 10

var (
	// ErrInsufficientTrainingData is returned when the training rows are
	// empty or carry a single label value
	ErrInsufficientTrainingData = errors.New("insufficient training data: need labeled rows of both classes")

	// ErrUnlabeledTestRow is returned when Evaluate is given a paragraph
	// without ground truth
	ErrUnlabeledTestRow = errors.New("test paragraph has no quote label")
)

// Model is a trained classifier owned by the caller. Each Train call
// returns a fresh one.
type Model struct {
	*maxent.Model
	TrainSize int
}

// Engine wires feature extraction to the maxent classifier
type Engine struct {
	extractor   *features.Extractor
	iterations  int
	informative int
	logger      *log.Logger
}

// NewEngine creates an engine from classifier configuration
func NewEngine(cfg model.ClassifierConfig, logger *log.Logger) (*Engine, error) {
	extractor, err := features.NewExtractor(cfg.ExtraFeatures...)
	if err != nil {
		return nil, fmt.Errorf("failed to build feature extractor: %w", err)
	}

	iterations := cfg.Iterations
	if iterations <= 0 {
		iterations = maxent.DefaultIterations
	}
	informative := cfg.InformativeFeatures
	if informative <= 0 {
		informative = DefaultInformativeFeatures
	}

	return &Engine{
		extractor:   extractor,
		iterations:  iterations,
		informative: informative,
		logger:      logging.OrDiscard(logger),
	}, nil
}

// Features returns the feature vector the engine computes for text
func (e *Engine) Features(text string) features.Vector {
	return e.extractor.Extract(text)
}

// Train fits a new model on every paragraph with a known quote label
func (e *Engine) Train(paragraphs []*model.Paragraph) (*Model, error) {
	var samples []maxent.Sample
	var positives int
	for _, p := range paragraphs {
		if p.Quote == nil {
			continue
		}
		if *p.Quote {
			positives++
		}
		samples = append(samples, maxent.Sample{
			Features: e.extractor.Extract(p.Text),
			Label:    *p.Quote,
		})
	}

	if len(samples) == 0 || positives == 0 || positives == len(samples) {
		return nil, fmt.Errorf("%w (rows=%d, quotes=%d)", ErrInsufficientTrainingData, len(samples), positives)
	}

	e.logger.Info("training classifier", "rows", len(samples), "quotes", positives, "iterations", e.iterations)

	m, err := maxent.Train(samples, maxent.Options{Iterations: e.iterations, Logger: e.logger})
	if err != nil {
		return nil, fmt.Errorf("failed to train classifier: %w", err)
	}
	return &Model{Model: m, TrainSize: len(samples)}, nil
}

// Evaluate scores the model against labeled test paragraphs. It never
// modifies them.
func (e *Engine) Evaluate(m *Model, test []*model.Paragraph) (*model.EvaluationReport, error) {
	report := &model.EvaluationReport{}
	if len(test) == 0 {
		return report, nil
	}
	if m == nil {
		return nil, errors.New("evaluate: nil model")
	}
	report.TrainSize = m.TrainSize

	for _, p := range test {
		if p.Quote == nil {
			return nil, fmt.Errorf("paragraph %d: %w", p.ID, ErrUnlabeledTestRow)
		}

		v := e.extractor.Extract(p.Text)
		truth, guess := *p.Quote, m.Classify(v)

		switch {
		case truth && guess:
			report.TruePositives++
		case !truth && guess:
			report.FalsePositives++
		case !truth && !guess:
			report.TrueNegatives++
		default:
			report.FalseNegatives++
		}

		if truth != guess {
			report.Misclassified = append(report.Misclassified, model.Misclassification{
				ParagraphID: p.ID,
				Text:        p.Text,
				Truth:       truth,
				Guess:       guess,
				Features:    v,
			})
		}
	}

	for _, w := range m.MostInformative(e.informative) {
		report.Informative = append(report.Informative, model.InformativeFeature{
			Feature: w.Key.String(),
			Value:   w.Value.String(),
			Label:   w.Label,
			Weight:  w.Weight,
		})
	}

	e.logger.Info("evaluation finished",
		"test", report.Total(),
		"accuracy", fmt.Sprintf("%.3f", report.Accuracy()),
		"misclassified", len(report.Misclassified))

	return report, nil
}

// Classify labels every paragraph whose quote is unknown with the model's
// best guess and its posterior. Labeled paragraphs are left alone. Returns
// the number of paragraphs labeled.
func (e *Engine) Classify(m *Model, paragraphs []*model.Paragraph) int {
	if m == nil {
		return 0
	}

	n := 0
	for _, p := range paragraphs {
		if !model.IsUnclassified(p) {
			continue
		}
		dist := m.ProbClassify(e.extractor.Extract(p.Text))
		label := dist.Max()
		p.SetPrediction(label, dist.Prob(label))
		n++
	}

	e.logger.Debug("classified paragraphs", "count", n)
	return n
}

// Split divides training rows into a fitting set and a held-out test set.
// The first fraction of rows, by input order, is used for fitting.
func Split(rows []*model.Paragraph, fraction float64) (train, test []*model.Paragraph) {
	if fraction <= 0 || fraction >= 1 {
		fraction = 0.5
	}
	cut := int(float64(len(rows)) * fraction)
	return rows[:cut], rows[cut:]
}
