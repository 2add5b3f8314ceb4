package classify

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ppiankov/quotex/internal/model"
)

var (
	headerColor = lipgloss.Color("#F780FF")
	numberColor = lipgloss.Color("#FF79C6")
	borderColor = lipgloss.Color("#6272A4")
	goodColor   = lipgloss.Color("#50FA7B")
	badColor    = lipgloss.Color("#FF5555")
	mutedColor  = lipgloss.Color("#8BE9FD")

	headerStyle = lipgloss.NewStyle().Foreground(headerColor).Bold(true).Padding(0, 1)
	numStyle    = lipgloss.NewStyle().Foreground(numberColor).Padding(0, 1).Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(borderColor)
	goodStyle   = lipgloss.NewStyle().Foreground(goodColor)
	badStyle    = lipgloss.NewStyle().Foreground(badColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
)

const (
	labelWidth  = 14
	countWidth  = 10
	weightWidth = 10
	textWidth   = 72
)

// RenderReport writes the confusion matrix, summary metrics and informative
// features. With showErrors set, every misclassified paragraph is listed
// with its feature vector.
func RenderReport(w io.Writer, r *model.EvaluationReport, showErrors bool) {
	if r.Total() == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No labeled test paragraphs to evaluate"))
		return
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Trained on %d, tested on %d", r.TrainSize, r.Total())))
	fmt.Fprintln(w)

	// Confusion matrix
	header := []string{
		headerStyle.Width(labelWidth).Render(""),
		headerStyle.Width(countWidth).Render("QUOTE"),
		headerStyle.Width(countWidth).Render("NOT QUOTE"),
	}
	fmt.Fprintln(w, strings.Join(header, borderStyle.Render("│")))
	fmt.Fprintln(w, borderStyle.Render(strings.Join([]string{
		strings.Repeat("─", labelWidth),
		strings.Repeat("─", countWidth),
		strings.Repeat("─", countWidth),
	}, "┼")))
	fmt.Fprintln(w, matrixRow("guess quote", r.TruePositives, r.FalsePositives))
	fmt.Fprintln(w, matrixRow("guess not", r.FalseNegatives, r.TrueNegatives))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Accuracy:  %s (baseline %.3f)\n", scoreStyle(r.Accuracy(), r.Baseline()).Render(fmt.Sprintf("%.3f", r.Accuracy())), r.Baseline())
	fmt.Fprintf(w, "Precision: %.3f\n", r.Precision())
	fmt.Fprintf(w, "Recall:    %.3f\n", r.Recall())
	fmt.Fprintf(w, "F1:        %.3f\n", r.F1())

	if len(r.Informative) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Most informative features"))
		for _, f := range r.Informative {
			weight := numStyle.Width(weightWidth).Render(fmt.Sprintf("%.3f", f.Weight))
			fmt.Fprintf(w, "%s %s==%s and label is %v\n", weight, f.Feature, f.Value, f.Label)
		}
	}

	if showErrors && len(r.Misclassified) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Misclassified (%d)", len(r.Misclassified))))
		for _, m := range r.Misclassified {
			kind := "false negative"
			if m.Guess {
				kind = "false positive"
			}
			fmt.Fprintf(w, "%s paragraph %d\n", badStyle.Render("✗ "+kind), m.ParagraphID)
			fmt.Fprintf(w, "  %s\n", truncate(m.Text, textWidth))
			fmt.Fprintf(w, "  %s\n", mutedStyle.Render(m.Features.String()))
		}
	}
}

func matrixRow(label string, a, b int) string {
	cells := []string{
		headerStyle.Width(labelWidth).Render(label),
		numStyle.Width(countWidth).Render(fmt.Sprintf("%d", a)),
		numStyle.Width(countWidth).Render(fmt.Sprintf("%d", b)),
	}
	return strings.Join(cells, borderStyle.Render("│"))
}

func scoreStyle(accuracy, baseline float64) lipgloss.Style {
	if accuracy > baseline {
		return goodStyle
	}
	return badStyle
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
