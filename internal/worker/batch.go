package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/quotex/internal/model"
)

// Ingester turns a story URL into a stored story
type Ingester interface {
	IngestURL(ctx context.Context, url string) (*model.Story, error)
}

// IngestJob ingests one story URL
type IngestJob struct {
	URL      string
	Ingester Ingester
	Limiter  *Limiter
}

// Execute waits for the host's rate limit and ingests the URL
func (j *IngestJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.URL); err != nil {
			return &IngestResult{URL: j.URL, Error: fmt.Errorf("rate limit: %w", err)}
		}
	}

	story, err := j.Ingester.IngestURL(ctx, j.URL)
	return &IngestResult{URL: j.URL, Story: story, Error: err}
}

// IngestResult is the outcome of an ingest job
type IngestResult struct {
	URL   string
	Story *model.Story
	Error error
}

// GetError returns the ingest error
func (r *IngestResult) GetError() error {
	return r.Error
}

// BatchIngester ingests many story URLs concurrently
type BatchIngester struct {
	ingester Ingester
	pool     *Pool
	limiter  *Limiter
}

// NewBatchIngester creates a batch ingester. Requests are limited per host
// to requestsPerSecond with the given burst.
func NewBatchIngester(ingester Ingester, concurrency int, requestsPerSecond float64, burst int) *BatchIngester {
	return &BatchIngester{
		ingester: ingester,
		pool:     NewPool(concurrency),
		limiter:  NewLimiter(requestsPerSecond, burst),
	}
}

// IngestURLs ingests urls and returns one result per URL, in input order.
// URLs skipped because ctx ended report ctx's error.
func (b *BatchIngester) IngestURLs(ctx context.Context, urls []string) []*IngestResult {
	jobs := make([]Job, len(urls))
	for i, u := range urls {
		jobs[i] = &IngestJob{URL: u, Ingester: b.ingester, Limiter: b.limiter}
	}

	results := b.pool.Run(ctx, jobs)

	out := make([]*IngestResult, len(results))
	for i, r := range results {
		if r == nil {
			out[i] = &IngestResult{URL: urls[i], Error: ctx.Err()}
			continue
		}
		out[i] = r.(*IngestResult)
	}
	return out
}

// IngestFile reads URLs from a file and ingests them
func (b *BatchIngester) IngestFile(ctx context.Context, filePath string) ([]*IngestResult, error) {
	urls, err := ReadURLsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}
	return b.IngestURLs(ctx, urls), nil
}

// ReadURLsFromFile reads one URL per line, skipping blanks, # comments and
// duplicates
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
