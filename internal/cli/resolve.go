package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ppiankov/quotex/internal/coref"
	"github.com/ppiankov/quotex/internal/store"
	"github.com/spf13/cobra"
)

var (
	resolveStories []uint
	resolveTimeout time.Duration
	quoteSource    string
	quoteLimit     int
	exportLimit    int
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Attribute paragraphs to speakers using entity extraction",
	Long: `Resolve sends each story's text to the configured coref provider
and attaches every person it finds to the paragraphs that contain the
text around one of that person's mentions.

Example:
  quotex resolve
  quotex resolve --story 12 --story 13`,
	Args: cobra.NoArgs,
	RunE: runResolve,
}

var quotesCmd = &cobra.Command{
	Use:   "quotes",
	Short: "List paragraphs classified as quotes",
	Args:  cobra.NoArgs,
	RunE:  runQuotes,
}

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Write stories, paragraphs and sources as JSON fixtures",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Load JSON fixtures written by export",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(quotesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)

	resolveCmd.Flags().UintSliceVar(&resolveStories, "story", nil, "story id to resolve (repeatable, default: all)")
	resolveCmd.Flags().DurationVar(&resolveTimeout, "timeout", 30*time.Minute, "total timeout for resolution")
	quotesCmd.Flags().StringVar(&quoteSource, "source", "", "only quotes attributed to a speaker whose name contains this")
	quotesCmd.Flags().IntVar(&quoteLimit, "limit", 50, "maximum quotes to list (0 for all)")
	exportCmd.Flags().IntVar(&exportLimit, "limit", store.DefaultExportLimit, "number of stories to export")
}

func runResolve(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	provider, err := coref.NewProviderFromModel(a.cfg)
	if err != nil {
		return fmt.Errorf("coref provider: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), resolveTimeout)
	defer cancel()

	results, err := a.pipeline.Resolve(ctx, provider, resolveStories)
	for _, r := range results {
		if r.Skipped {
			fmt.Fprintf(os.Stderr, "✗ Story %d: skipped\n", r.StoryID)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ Story %d: %d speakers, %d attributions added\n", r.StoryID, r.Speakers, r.Added)
	}
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}
	return nil
}

func runQuotes(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	quotes, err := a.store.Quotes(quoteSource, quoteLimit)
	if err != nil {
		return err
	}

	renderQuotes(os.Stdout, quotes, a.cfg.Site.BaseURL)
	return nil
}

var (
	quoteTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#BD93F9"))
	quoteURLStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))
	quoteSourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD")).Italic(true)
)

// renderQuotes prints quotes grouped under their story
func renderQuotes(w io.Writer, quotes []store.Quote, baseURL string) {
	if len(quotes) == 0 {
		_, _ = fmt.Fprintln(w, "No quotes found")
		return
	}

	var lastStory uint
	for i, q := range quotes {
		if i == 0 || q.Story.ID != lastStory {
			if i > 0 {
				_, _ = fmt.Fprintln(w)
			}
			_, _ = fmt.Fprintln(w, quoteTitleStyle.Render(q.Story.Title))
			if link := q.Story.AbsoluteURL(baseURL); link != "" {
				_, _ = fmt.Fprintln(w, quoteURLStyle.Render(link))
			}
			lastStory = q.Story.ID
		}

		_, _ = fmt.Fprintf(w, "  %s\n", q.Paragraph.Text)
		if len(q.Paragraph.Sources) > 0 {
			names := make([]string, len(q.Paragraph.Sources))
			for j, src := range q.Paragraph.Sources {
				names[j] = src.Name
			}
			_, _ = fmt.Fprintf(w, "    %s\n", quoteSourceStyle.Render("- "+strings.Join(names, ", ")))
		}
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := a.store.Export(args[0], exportLimit)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Exported %d stories, %d paragraphs, %d sources to %s\n",
		len(f.Stories), len(f.Paragraphs), len(f.Sources), args[0])
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.store.Import(args[0])
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Imported %d stories from %s\n", n, args[0])
	return nil
}
