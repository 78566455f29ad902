// Package scan orchestrates batch metadata extraction. It coordinates
// validation, normalization, fetching, parsing, classification and
// structured-data extraction for every URL in a batch.
package scan

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/metascan"
	"github.com/fwojciec/metascan/jsonld"
	"golang.org/x/sync/errgroup"
)

var _ metascan.BatchRunner = (*Scanner)(nil)

// Scanner runs the extraction pipeline over a batch of URLs.
type Scanner struct {
	Fetcher    metascan.Fetcher
	Parser     metascan.Parser
	Classifier metascan.Classifier
	Normalizer *metascan.Normalizer // DefaultNormalizer when nil

	// RateLimiter, when set, is consulted per host before every attempt.
	RateLimiter metascan.DomainLimiter

	// Concurrency bounds in-flight URLs. Zero or less means unbounded.
	Concurrency int

	// RetryDelays are the waits between fetch attempts. Nil disables retries.
	RetryDelays []time.Duration

	Logger   *slog.Logger
	Progress metascan.ScanProgressFunc
}

// outcome holds the result of processing one URL.
type outcome struct {
	position int
	url      string
	record   *metascan.PageRecord
	err      error
}

// RunBatch processes every URL in input. Validation failures abort the
// batch before any fetch; every other failure is isolated to its URL.
func (s *Scanner) RunBatch(ctx context.Context, input string) (*metascan.BatchResult, error) {
	candidates := metascan.SplitInput(input)
	if invalid := metascan.InvalidURLs(candidates); len(invalid) > 0 {
		return nil, &metascan.ValidationError{Invalid: invalid}
	}

	normalizer := s.Normalizer
	if normalizer == nil {
		normalizer = metascan.DefaultNormalizer
	}
	urls := make([]string, len(candidates))
	for i, c := range candidates {
		urls[i] = normalizer.Normalize(c)
	}

	resultCh := make(chan outcome, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	if s.Concurrency > 0 {
		g.SetLimit(s.Concurrency)
	}

	go func() {
		for i, u := range urls {
			g.Go(func() error {
				resultCh <- s.process(gctx, i, u)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results in order
	outcomes := make([]outcome, len(urls))
	var completed int
	for o := range resultCh {
		completed++
		outcomes[o.position] = o

		if s.Progress != nil {
			s.Progress(metascan.ScanProgress{
				URL:       o.url,
				Completed: completed,
				Total:     len(urls),
				Error:     o.err,
			})
		}
	}

	result := &metascan.BatchResult{
		Records: make([]*metascan.PageRecord, 0, len(urls)),
		Errors:  []*metascan.PageError{},
	}
	for _, o := range outcomes {
		if o.err != nil {
			result.Errors = append(result.Errors, &metascan.PageError{
				URL:     o.url,
				Message: metascan.ErrorMessage(o.err),
			})
			continue
		}
		result.Records = append(result.Records, o.record)
	}

	return result, nil
}

// process runs ScanURL and converts a panic into that URL's error.
func (s *Scanner) process(ctx context.Context, position int, u string) (o outcome) {
	o = outcome{position: position, url: u}

	defer func() {
		if r := recover(); r != nil {
			o.record = nil
			o.err = metascan.Errorf(metascan.EINTERNAL, "processing failed: %v", r)
		}
	}()

	o.record, o.err = s.ScanURL(ctx, u)
	return o
}

// ScanURL fetches, parses, classifies and extracts a single normalized URL.
func (s *Scanner) ScanURL(ctx context.Context, u string) (*metascan.PageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	html, err := s.fetch(ctx, u)
	if err != nil {
		return nil, err
	}

	doc, err := s.Parser.Parse(html)
	if err != nil {
		return nil, err
	}

	class := s.Classifier.Classify(doc)
	geo := metascan.GeoMeta(doc)
	data := jsonld.Extract(doc, s.Logger)

	return &metascan.PageRecord{
		URL:          u,
		PageType:     class.Type,
		Element:      class.Element,
		GeoPlaceName: geo.PlaceName,
		GeoRegion:    geo.Region,
		Speakable:    data.Speakable,
		Schema:       data.Schema,
		Fields:       data.Fields,
		ContentHash:  ComputeHash(html),
	}, nil
}

func (s *Scanner) fetch(ctx context.Context, u string) (string, error) {
	host := ""
	if s.RateLimiter != nil {
		parsed, err := url.Parse(u)
		if err != nil {
			return "", metascan.Errorf(metascan.EINVALID, "invalid URL %q", u)
		}
		host = parsed.Hostname()
	}

	fetchFn := func(ctx context.Context, u string) (string, error) {
		if s.RateLimiter != nil {
			if err := s.RateLimiter.Wait(ctx, host); err != nil {
				return "", err
			}
		}
		return s.Fetcher.Fetch(ctx, u)
	}
	return FetchWithRetryDelays(ctx, u, fetchFn, s.Logger, s.RetryDelays)
}

// ComputeHash computes a hash of the content using xxhash.
func ComputeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}
