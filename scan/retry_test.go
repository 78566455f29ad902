package scan_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/metascan"
	"github.com/fwojciec/metascan/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	noDelays := []time.Duration{0, 0, 0}

	t.Run("returns first success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		html, err := scan.FetchWithRetryDelays(context.Background(), "https://example.com",
			func(_ context.Context, _ string) (string, error) {
				calls++
				return "<html></html>", nil
			}, nil, noDelays)

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after the last delay", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := scan.FetchWithRetryDelays(context.Background(), "https://example.com",
			func(_ context.Context, url string) (string, error) {
				calls++
				return "", &metascan.NetworkError{URL: url, Err: errors.New("reset")}
			}, nil, noDelays)

		assert.Equal(t, metascan.ENETWORK, metascan.ErrorCode(err))
		assert.Equal(t, 4, calls)
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := scan.FetchWithRetryDelays(context.Background(), "https://example.com",
			func(_ context.Context, url string) (string, error) {
				calls++
				return "", &metascan.FetchError{URL: url, StatusCode: 404, Status: "Not Found"}
			}, nil, noDelays)

		assert.Equal(t, metascan.EFETCH, metascan.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("makes one attempt without delays", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := scan.FetchWithRetryDelays(context.Background(), "https://example.com",
			func(_ context.Context, url string) (string, error) {
				calls++
				return "", &metascan.NetworkError{URL: url, Err: errors.New("reset")}
			}, nil, nil)

		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops waiting when the context ends", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		_, err := scan.FetchWithRetryDelays(ctx, "https://example.com",
			func(_ context.Context, url string) (string, error) {
				cancel()
				return "", &metascan.NetworkError{URL: url, Err: errors.New("reset")}
			}, nil, []time.Duration{time.Hour})

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDefaultRetryDelays(t *testing.T) {
	t.Parallel()

	assert.Empty(t, scan.DefaultRetryDelays(0))
	assert.Empty(t, scan.DefaultRetryDelays(-1))
	assert.Equal(t,
		[]time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 4 * time.Second},
		scan.DefaultRetryDelays(4))
}
