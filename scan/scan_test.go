package scan_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/metascan"
	"github.com/fwojciec/metascan/goquery"
	"github.com/fwojciec/metascan/mock"
	"github.com/fwojciec/metascan/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articlePage = `<html><head>
<meta name="geo.placename" content="Berlin">
<meta name="geo.region" content="DE-BE">
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"Article","headline":"H",
 "speakable":{"@type":"SpeakableSpecification","xpath":["//h1"]}}
</script>
</head><body><div class="container article-internal"><h1>Title</h1></div></body></html>`

const plainPage = `<html><head><title>x</title></head><body><p>nothing</p></body></html>`

func newScanner(fetch func(ctx context.Context, url string) (string, error)) *scan.Scanner {
	return &scan.Scanner{
		Fetcher:    &mock.Fetcher{FetchFn: fetch},
		Parser:     goquery.NewParser(),
		Classifier: metascan.ClassifierFor(metascan.VariantApp),
	}
}

func TestScanner_RunBatch(t *testing.T) {
	t.Parallel()

	t.Run("extracts a full record", func(t *testing.T) {
		t.Parallel()

		s := newScanner(func(_ context.Context, _ string) (string, error) {
			return articlePage, nil
		})

		result, err := s.RunBatch(context.Background(), "example.com/post")

		require.NoError(t, err)
		require.Len(t, result.Records, 1)
		assert.Empty(t, result.Errors)

		r := result.Records[0]
		assert.Equal(t, "https://example.com/post", r.URL)
		assert.Equal(t, metascan.PageArticle, r.PageType)
		assert.Equal(t, "Berlin", r.GeoPlaceName)
		assert.Equal(t, "DE-BE", r.GeoRegion)
		assert.Equal(t, metascan.SchemaMatch, r.Schema.State)
		require.NotNil(t, r.Fields)
		assert.Equal(t, "H", r.Fields.Headline)
		require.Len(t, r.Speakable, 1)
		assert.Equal(t, "Title", r.Speakable[0].Value)
		assert.Equal(t, scan.ComputeHash(articlePage), r.ContentHash)
	})

	t.Run("rejects invalid lines before fetching", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		s := newScanner(func(_ context.Context, _ string) (string, error) {
			calls.Add(1)
			return plainPage, nil
		})

		result, err := s.RunBatch(context.Background(), "notaurl\nexample.com")

		assert.Nil(t, result)
		var ve *metascan.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, []string{"notaurl"}, ve.Invalid)
		assert.Equal(t, metascan.EINVALID, metascan.ErrorCode(err))
		assert.Zero(t, calls.Load())
	})

	t.Run("returns empty result for blank input", func(t *testing.T) {
		t.Parallel()

		s := newScanner(nil)

		result, err := s.RunBatch(context.Background(), "\n  \r\n")

		require.NoError(t, err)
		assert.Empty(t, result.Records)
		assert.Empty(t, result.Errors)
	})

	t.Run("isolates network errors to their URL", func(t *testing.T) {
		t.Parallel()

		s := newScanner(func(_ context.Context, url string) (string, error) {
			return "", &metascan.NetworkError{URL: url, Err: errors.New("connection refused")}
		})

		result, err := s.RunBatch(context.Background(), "example.com")

		require.NoError(t, err)
		assert.Empty(t, result.Records)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "https://example.com", result.Errors[0].URL)
		assert.Equal(t, "network error: connection refused", result.Errors[0].Message)
	})

	t.Run("reports HTTP status failures", func(t *testing.T) {
		t.Parallel()

		s := newScanner(func(_ context.Context, url string) (string, error) {
			return "", &metascan.FetchError{URL: url, StatusCode: 404, Status: "Not Found"}
		})

		result, err := s.RunBatch(context.Background(), "example.com/missing")

		require.NoError(t, err)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "error 404: Not Found", result.Errors[0].Message)
	})

	t.Run("yields one outcome per URL in input order", func(t *testing.T) {
		t.Parallel()

		s := newScanner(func(_ context.Context, url string) (string, error) {
			if strings.Contains(url, "bad") {
				return "", &metascan.FetchError{URL: url, StatusCode: 500, Status: "Internal Server Error"}
			}
			// Finish later URLs first.
			if strings.HasSuffix(url, "/1") {
				time.Sleep(20 * time.Millisecond)
			}
			return plainPage, nil
		})
		s.Concurrency = 4

		input := "example.com/1\nexample.com/bad1\nexample.com/2\nexample.com/bad2\nexample.com/3"
		result, err := s.RunBatch(context.Background(), input)

		require.NoError(t, err)
		assert.Len(t, result.Records, 3)
		assert.Len(t, result.Errors, 2)

		var urls []string
		for _, r := range result.Records {
			urls = append(urls, r.URL)
		}
		assert.Equal(t, []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"}, urls)
		assert.Equal(t, "https://example.com/bad1", result.Errors[0].URL)
		assert.Equal(t, "https://example.com/bad2", result.Errors[1].URL)
	})

	t.Run("normalizes www domains", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		var mu sync.Mutex
		s := newScanner(func(_ context.Context, url string) (string, error) {
			mu.Lock()
			fetched = append(fetched, url)
			mu.Unlock()
			return plainPage, nil
		})

		_, err := s.RunBatch(context.Background(), "purina.com/ar")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://www.purina.com/ar"}, fetched)
	})

	t.Run("uses a configured normalizer", func(t *testing.T) {
		t.Parallel()

		s := newScanner(func(_ context.Context, _ string) (string, error) {
			return plainPage, nil
		})
		s.Normalizer = &metascan.Normalizer{WWWDomains: []string{"example.org"}}

		result, err := s.RunBatch(context.Background(), "http://example.org/a")

		require.NoError(t, err)
		require.Len(t, result.Records, 1)
		assert.Equal(t, "https://www.example.org/a", result.Records[0].URL)
	})

	t.Run("converts a panic into a page error", func(t *testing.T) {
		t.Parallel()

		s := newScanner(func(_ context.Context, url string) (string, error) {
			if strings.HasSuffix(url, "/boom") {
				panic("boom")
			}
			return plainPage, nil
		})

		result, err := s.RunBatch(context.Background(), "example.com/boom\nexample.com/ok")

		require.NoError(t, err)
		require.Len(t, result.Records, 1)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "https://example.com/boom", result.Errors[0].URL)
		assert.Equal(t, "processing failed: boom", result.Errors[0].Message)
	})

	t.Run("reports parse failures", func(t *testing.T) {
		t.Parallel()

		s := newScanner(func(_ context.Context, _ string) (string, error) {
			return "   ", nil
		})

		result, err := s.RunBatch(context.Background(), "example.com")

		require.NoError(t, err)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "empty HTML document", result.Errors[0].Message)
	})

	t.Run("fails every URL when context is canceled", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		s := newScanner(func(_ context.Context, _ string) (string, error) {
			calls.Add(1)
			return plainPage, nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := s.RunBatch(ctx, "example.com/a\nexample.com/b")

		require.NoError(t, err)
		assert.Empty(t, result.Records)
		assert.Len(t, result.Errors, 2)
		assert.Zero(t, calls.Load())
	})

	t.Run("bounds concurrency", func(t *testing.T) {
		t.Parallel()

		var inFlight, peak atomic.Int32
		s := newScanner(func(_ context.Context, _ string) (string, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			inFlight.Add(-1)
			return plainPage, nil
		})
		s.Concurrency = 2

		var lines []string
		for i := range 8 {
			lines = append(lines, fmt.Sprintf("example.com/%d", i))
		}
		result, err := s.RunBatch(context.Background(), strings.Join(lines, "\n"))

		require.NoError(t, err)
		assert.Len(t, result.Records, 8)
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("reports progress for every URL", func(t *testing.T) {
		t.Parallel()

		s := newScanner(func(_ context.Context, url string) (string, error) {
			if strings.HasSuffix(url, "/bad") {
				return "", &metascan.NetworkError{URL: url, Err: errors.New("reset")}
			}
			return plainPage, nil
		})

		var events []metascan.ScanProgress
		s.Progress = func(p metascan.ScanProgress) {
			events = append(events, p)
		}

		_, err := s.RunBatch(context.Background(), "example.com/a\nexample.com/bad")

		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, 2, events[1].Completed)
		assert.Equal(t, 2, events[1].Total)

		var failed int
		for _, e := range events {
			if e.Error != nil {
				failed++
			}
		}
		assert.Equal(t, 1, failed)
	})

	t.Run("waits on the rate limiter by host", func(t *testing.T) {
		t.Parallel()

		var hosts []string
		var mu sync.Mutex
		s := newScanner(func(_ context.Context, _ string) (string, error) {
			return plainPage, nil
		})
		s.RateLimiter = &mock.DomainLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				mu.Lock()
				hosts = append(hosts, domain)
				mu.Unlock()
				return nil
			},
		}

		_, err := s.RunBatch(context.Background(), "example.com:8080/a")

		require.NoError(t, err)
		assert.Equal(t, []string{"example.com"}, hosts)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		s := newScanner(func(_ context.Context, url string) (string, error) {
			if calls.Add(1) < 3 {
				return "", &metascan.FetchError{URL: url, StatusCode: 503, Status: "Service Unavailable"}
			}
			return plainPage, nil
		})
		s.RetryDelays = []time.Duration{0, 0, 0}

		result, err := s.RunBatch(context.Background(), "example.com")

		require.NoError(t, err)
		assert.Len(t, result.Records, 1)
		assert.Equal(t, int32(3), calls.Load())
	})
}

func TestComputeHash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, scan.ComputeHash("abc"), scan.ComputeHash("abc"))
	assert.NotEqual(t, scan.ComputeHash("abc"), scan.ComputeHash("abd"))
	assert.Regexp(t, `^[0-9a-f]+$`, scan.ComputeHash("abc"))
}
