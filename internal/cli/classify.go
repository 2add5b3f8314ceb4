package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ppiankov/quotex/internal/classify"
	"github.com/spf13/cobra"
)

var (
	labelQuote bool
	labelTrain bool
	hideErrors bool
)

var labelCmd = &cobra.Command{
	Use:   "label <paragraph-id>",
	Short: "Label a paragraph as quote or non-quote",
	Long: `Apply a human label to a stored paragraph. With --train the paragraph
joins the training set used by evaluate and classify.

Example:
  quotex label 42 --quote --train
  quotex label 43 --quote=false --train`,
	Args: cobra.ExactArgs(1),
	RunE: runLabel,
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Train on part of the training set and report accuracy on the rest",
	Long: `Evaluate splits the training paragraphs (classifier.train_fraction
for fitting, the rest held out), trains a fresh model and prints a
confusion matrix, accuracy against the majority baseline and the most
informative features.`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Train on the training set and classify unlabeled paragraphs",
	Args:  cobra.NoArgs,
	RunE:  runClassify,
}

func init() {
	rootCmd.AddCommand(labelCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(classifyCmd)

	labelCmd.Flags().BoolVar(&labelQuote, "quote", false, "paragraph is a quote")
	labelCmd.Flags().BoolVar(&labelTrain, "train", false, "add the paragraph to the training set")
	evaluateCmd.Flags().BoolVar(&hideErrors, "hide-errors", false, "omit the misclassified paragraph listing")
}

func runLabel(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid paragraph id %q: %w", args[0], err)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.pipeline.Label(uint(id), labelQuote, labelTrain)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "✓ Paragraph %d labeled quote=%v training=%v\n", p.ID, *p.Quote, p.ForTraining)
	return nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.pipeline.Evaluate()
	if err != nil {
		return fmt.Errorf("evaluate failed: %w", err)
	}

	classify.RenderReport(os.Stdout, report, !hideErrors)
	return nil
}

func runClassify(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.pipeline.Classify()
	if err != nil {
		return fmt.Errorf("classify failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Classified %d paragraphs\n", n)
	return nil
}
