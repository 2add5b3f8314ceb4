package model

import (
	"errors"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func TestStory_FullText_OrdersParagraphs(t *testing.T) {
	story := &Story{
		Paragraphs: []Paragraph{
			{Order: 2, Text: "third"},
			{Order: 0, Text: "  first"},
			{Order: 1, Text: "second"},
		},
	}

	got := story.FullText()
	want := "first\nsecond\nthird"
	if got != want {
		t.Errorf("FullText() = %q, want %q", got, want)
	}

	// The paragraph slice itself must not be reordered
	if story.Paragraphs[0].Order != 2 {
		t.Error("FullText should not mutate the paragraph slice")
	}
}

func TestStory_FullText_Empty(t *testing.T) {
	story := &Story{}
	if got := story.FullText(); got != "" {
		t.Errorf("expected empty full text, got %q", got)
	}
}

func TestStory_AbsoluteURL(t *testing.T) {
	tests := []struct {
		url  string
		base string
		want string
	}{
		{"/news/2011/01/story.html", "http://www.baycitizen.org", "http://www.baycitizen.org/news/2011/01/story.html"},
		{"news/story", "http://example.com/", "http://example.com/news/story"},
		{"https://other.org/a", "http://example.com", "https://other.org/a"},
		{"", "http://example.com", ""},
	}

	for _, tt := range tests {
		s := &Story{URL: tt.url}
		if got := s.AbsoluteURL(tt.base); got != tt.want {
			t.Errorf("AbsoluteURL(%q, %q) = %q, want %q", tt.url, tt.base, got, tt.want)
		}
	}
}

func TestParagraph_LabelClearsScore(t *testing.T) {
	p := &Paragraph{}
	p.SetPrediction(true, 0.87)
	if p.Score == nil || *p.Score != 0.87 {
		t.Fatalf("expected score 0.87, got %v", p.Score)
	}

	p.Label(false, true)
	if p.Score != nil {
		t.Error("human label should clear the classifier score")
	}
	if p.Quote == nil || *p.Quote {
		t.Error("expected quote=false after labeling")
	}
	if !p.ForTraining {
		t.Error("expected paragraph to be flagged for training")
	}
}

func TestParagraph_Validate(t *testing.T) {
	p := &Paragraph{ID: 7, ForTraining: true}
	if err := p.Validate(); !errors.Is(err, ErrTrainingRowUnlabeled) {
		t.Errorf("expected ErrTrainingRowUnlabeled, got %v", err)
	}

	p.Quote = boolPtr(true)
	if err := p.Validate(); err != nil {
		t.Errorf("expected valid paragraph, got %v", err)
	}
}

func TestPredicates(t *testing.T) {
	paragraphs := []*Paragraph{
		{ID: 1, Quote: boolPtr(true), ForTraining: true},
		{ID: 2, Quote: boolPtr(false), ForTraining: true},
		{ID: 3},
		{ID: 4, Quote: boolPtr(true)},
		{ID: 5, ForTraining: true}, // invalid row, never selected for training
	}

	ids := func(ps []*Paragraph) []uint {
		var out []uint
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	tests := []struct {
		name string
		pred Predicate
		want []uint
	}{
		{"training", IsTrainingRow, []uint{1, 2}},
		{"unclassified", IsUnclassified, []uint{3, 5}},
		{"quotes", IsLabeledQuote, []uint{1, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(paragraphs, tt.pred))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestEvaluationReport_Metrics(t *testing.T) {
	r := &EvaluationReport{TruePositives: 6, FalsePositives: 2, TrueNegatives: 10, FalseNegatives: 2}

	if r.Total() != 20 {
		t.Errorf("expected total 20, got %d", r.Total())
	}
	if r.Accuracy() != 0.8 {
		t.Errorf("expected accuracy 0.8, got %f", r.Accuracy())
	}
	if r.Precision() != 0.75 {
		t.Errorf("expected precision 0.75, got %f", r.Precision())
	}
	if r.Recall() != 0.75 {
		t.Errorf("expected recall 0.75, got %f", r.Recall())
	}
	if r.F1() != 0.75 {
		t.Errorf("expected F1 0.75, got %f", r.F1())
	}
	if r.Baseline() != 0.6 {
		t.Errorf("expected baseline 0.6, got %f", r.Baseline())
	}

	empty := &EvaluationReport{}
	if empty.Accuracy() != 0 || empty.F1() != 0 || empty.Baseline() != 0 {
		t.Error("expected zero metrics for empty report")
	}
}
