package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrTrainingRowUnlabeled is returned when a paragraph is flagged for training
// without a quote label
var ErrTrainingRowUnlabeled = errors.New("training paragraph has no quote label")

// Story is a news story tokenized into ordered paragraphs
type Story struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	Title      string      `json:"title"`
	Slug       string      `json:"slug,omitempty"`
	Body       string      `json:"body,omitempty"`                   // Raw HTML body as ingested
	URL        string      `json:"url,omitempty" gorm:"index"`       // Path or absolute URL of the story
	Paragraphs []Paragraph `json:"paragraphs,omitempty" gorm:"foreignKey:StoryID"`
	CreatedAt  time.Time   `json:"created_at"`
}

// FullText joins the text of the story's paragraphs in order
func (s *Story) FullText() string {
	paragraphs := make([]Paragraph, len(s.Paragraphs))
	copy(paragraphs, s.Paragraphs)
	sort.SliceStable(paragraphs, func(i, j int) bool {
		return paragraphs[i].Order < paragraphs[j].Order
	})

	texts := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		texts = append(texts, p.Text)
	}
	return strings.TrimSpace(strings.Join(texts, "\n"))
}

// AbsoluteURL resolves the story URL against the site base URL.
// Absolute story URLs are returned unchanged.
func (s *Story) AbsoluteURL(baseURL string) string {
	if s.URL == "" {
		return ""
	}
	if strings.HasPrefix(s.URL, "http://") || strings.HasPrefix(s.URL, "https://") {
		return s.URL
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(s.URL, "/")
}

// Paragraph is the unit of classification. Quote is tri-state: nil means the
// paragraph has not been labeled by a human or the classifier.
type Paragraph struct {
	ID          uint     `json:"id" gorm:"primaryKey"`
	StoryID     uint     `json:"story_id" gorm:"uniqueIndex:idx_story_position"`
	Order       int      `json:"order" gorm:"column:position;uniqueIndex:idx_story_position"`
	Text        string   `json:"text"`
	Quote       *bool    `json:"quote"`
	Score       *float64 `json:"score,omitempty"` // Set only when Quote came from the classifier
	Sources     []Source `json:"sources,omitempty" gorm:"many2many:paragraph_sources"`
	ForTraining bool     `json:"for_training" gorm:"index"`
	NumWords    *int     `json:"num_words,omitempty"`
}

// Label applies a human label. Any classifier score is discarded.
func (p *Paragraph) Label(quote bool, forTraining bool) {
	p.Quote = &quote
	p.Score = nil
	p.ForTraining = forTraining
}

// SetPrediction records a classifier decision and its posterior probability
func (p *Paragraph) SetPrediction(quote bool, score float64) {
	p.Quote = &quote
	p.Score = &score
}

// Validate checks the paragraph invariants
func (p *Paragraph) Validate() error {
	if p.ForTraining && p.Quote == nil {
		return fmt.Errorf("paragraph %d: %w", p.ID, ErrTrainingRowUnlabeled)
	}
	return nil
}

// HasSource reports whether a source with the given name is attached
func (p *Paragraph) HasSource(name string) bool {
	for _, s := range p.Sources {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Source is a named speaker. Names are unique.
type Source struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// Predicate selects paragraphs
type Predicate func(p *Paragraph) bool

// IsTrainingRow selects ground-truth rows usable for fitting the model
func IsTrainingRow(p *Paragraph) bool {
	return p.ForTraining && p.Quote != nil
}

// IsUnclassified selects paragraphs with an unknown quote label
func IsUnclassified(p *Paragraph) bool {
	return p.Quote == nil
}

// IsLabeledQuote selects paragraphs labeled as quotes
func IsLabeledQuote(p *Paragraph) bool {
	return p.Quote != nil && *p.Quote
}

// Filter returns the paragraphs matching pred, preserving order
func Filter(paragraphs []*Paragraph, pred Predicate) []*Paragraph {
	var out []*Paragraph
	for _, p := range paragraphs {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}
