package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	ingestTimeout time.Duration
	workers       int
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <url>",
	Short: "Fetch a story page and store its paragraphs",
	Long: `Ingest fetches a news story, splits it into paragraphs, normalizes
smart quotes and stores the story for labeling and classification.

Relative URLs are resolved against site.base_url.

Example:
  quotex ingest https://example.com/news/council-approves-budget
  quotex ingest /news/council-approves-budget
  quotex ingest batch urls.txt --workers 8
  quotex ingest feed https://example.com/rss`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var ingestBatchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Ingest story URLs from a file in parallel",
	Long: `Read story URLs from a file (one per line, # comments allowed) and
ingest them concurrently, rate limited per host.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngestBatch,
}

var ingestFeedCmd = &cobra.Command{
	Use:   "feed <feed-url>",
	Short: "Ingest every story of an RSS or Atom feed",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngestFeed,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.AddCommand(ingestBatchCmd)
	ingestCmd.AddCommand(ingestFeedCmd)

	ingestCmd.PersistentFlags().DurationVar(&ingestTimeout, "timeout", 10*time.Minute, "total timeout for ingestion")
	ingestBatchCmd.Flags().IntVar(&workers, "workers", 0, "number of concurrent workers (default: concurrency.workers)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), ingestTimeout)
	defer cancel()

	story, err := a.pipeline.IngestURL(ctx, args[0])
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Story %d: %s (%d paragraphs)\n", story.ID, story.Title, len(story.Paragraphs))
	return nil
}

func runIngestBatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if workers > 0 {
		a.cfg.Concurrency.Workers = workers
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), ingestTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "⚙️  Ingesting URLs from %s with %d workers...\n\n", args[0], a.cfg.Concurrency.Workers)

	results, err := a.pipeline.BatchIngester().IngestFile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("ingest file: %w", err)
	}

	failures := 0
	for _, result := range results {
		if result.Error != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.URL, result.Error)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %s (story %d, %d paragraphs)\n", result.URL, result.Story.ID, len(result.Story.Paragraphs))
	}

	fmt.Fprintf(os.Stderr, "\n  Total: %d  Success: %d  Failures: %d\n", len(results), len(results)-failures, failures)
	return nil
}

func runIngestFeed(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), ingestTimeout)
	defer cancel()

	stories, err := a.pipeline.IngestFeed(ctx, args[0])
	if err != nil {
		return fmt.Errorf("ingest feed: %w", err)
	}

	for _, story := range stories {
		fmt.Fprintf(os.Stderr, "✓ Story %d: %s (%d paragraphs)\n", story.ID, story.Title, len(story.Paragraphs))
	}
	fmt.Fprintf(os.Stderr, "\n  Stored %d stories\n", len(stories))
	return nil
}
