package model

import "github.com/ppiankov/quotex/internal/features"

// EvaluationReport is the outcome of scoring a trained model against
// held-out labeled paragraphs
type EvaluationReport struct {
	TrainSize      int `json:"train_size"`
	TruePositives  int `json:"true_positives"`
	FalsePositives int `json:"false_positives"`
	TrueNegatives  int `json:"true_negatives"`
	FalseNegatives int `json:"false_negatives"`

	Misclassified []Misclassification  `json:"misclassified,omitempty"` // Every false positive and false negative
	Informative   []InformativeFeature `json:"informative,omitempty"`   // Highest-weight features of the model
}

// Misclassification carries what is needed to diagnose a wrong guess
type Misclassification struct {
	ParagraphID uint            `json:"paragraph_id"`
	Text        string          `json:"text"`
	Truth       bool            `json:"truth"`
	Guess       bool            `json:"guess"`
	Features    features.Vector `json:"-"`
}

// InformativeFeature is one joint (feature, value, label) weight of the model
type InformativeFeature struct {
	Feature string  `json:"feature"`
	Value   string  `json:"value"`
	Label   bool    `json:"label"`
	Weight  float64 `json:"weight"`
}

// Total returns the number of evaluated paragraphs
func (r *EvaluationReport) Total() int {
	return r.TruePositives + r.FalsePositives + r.TrueNegatives + r.FalseNegatives
}

// Accuracy returns the share of correct guesses, or 0 for an empty report
func (r *EvaluationReport) Accuracy() float64 {
	total := r.Total()
	if total == 0 {
		return 0
	}
	return float64(r.TruePositives+r.TrueNegatives) / float64(total)
}

// Precision returns TP / (TP + FP), or 0 when nothing was predicted positive
func (r *EvaluationReport) Precision() float64 {
	if r.TruePositives+r.FalsePositives == 0 {
		return 0
	}
	return float64(r.TruePositives) / float64(r.TruePositives+r.FalsePositives)
}

// Recall returns TP / (TP + FN), or 0 when there were no positives
func (r *EvaluationReport) Recall() float64 {
	if r.TruePositives+r.FalseNegatives == 0 {
		return 0
	}
	return float64(r.TruePositives) / float64(r.TruePositives+r.FalseNegatives)
}

// F1 returns the harmonic mean of precision and recall
func (r *EvaluationReport) F1() float64 {
	p, rc := r.Precision(), r.Recall()
	if p+rc == 0 {
		return 0
	}
	return 2 * p * rc / (p + rc)
}

// Baseline returns the accuracy of always guessing the majority class
func (r *EvaluationReport) Baseline() float64 {
	total := r.Total()
	if total == 0 {
		return 0
	}
	positives := r.TruePositives + r.FalseNegatives
	negatives := total - positives
	if positives > negatives {
		return float64(positives) / float64(total)
	}
	return float64(negatives) / float64(total)
}
