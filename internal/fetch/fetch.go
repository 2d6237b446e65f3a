// Package fetch streams a stream variant's bytes into a destination file
// while counting transferred bytes against the variant's declared length.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dlpal/dlpal/internal/model"
)

// Progress callback batching interval. Updates are emitted at most once
// per interval plus a final update at stream completion.
const DefaultProgressInterval = 250 * time.Millisecond

// TransferError wraps a failure of the underlying byte stream. A partial
// file may remain on disk; it is not cleaned up here.
type TransferError struct {
	Dest string
	Err  error
}

// Error implements the error interface.
func (te *TransferError) Error() string {
	return fmt.Sprintf("transfer to %s failed: %v", te.Dest, te.Err)
}

// Unwrap returns the underlying cause.
func (te *TransferError) Unwrap() error {
	return te.Err
}

// Fetcher downloads one stream variant into a file, reporting percentage
// progress along the way.
type Fetcher interface {
	Fetch(ctx context.Context, variant model.StreamVariant, dest string, onProgress func(float64)) (string, error)
}

// HTTPFetcher implements Fetcher over plain HTTP GET of the variant's
// direct media URL.
type HTTPFetcher struct {
	client   *http.Client
	interval time.Duration
}

// NewHTTPFetcher creates a fetcher. A nil client falls back to
// http.DefaultClient.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{client: client, interval: DefaultProgressInterval}
}

// SetProgressInterval overrides the progress batching interval.
func (hf *HTTPFetcher) SetProgressInterval(interval time.Duration) {
	hf.interval = interval
}

// Fetch streams the variant into dest and returns dest on success. On
// failure the partially written file is left in place.
func (hf *HTTPFetcher) Fetch(ctx context.Context, variant model.StreamVariant, dest string, onProgress func(float64)) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, variant.URL, nil)
	if err != nil {
		return "", &TransferError{Dest: dest, Err: err}
	}

	resp, err := hf.client.Do(req)
	if err != nil {
		return "", &TransferError{Dest: dest, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return "", &TransferError{Dest: dest, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", &TransferError{Dest: dest, Err: err}
	}

	counter := newCountingWriter(variant.ContentLength, hf.interval, onProgress)

	_, err = io.Copy(io.MultiWriter(out, counter), resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", &TransferError{Dest: dest, Err: err}
	}

	counter.finish()
	return dest, nil
}

// countingWriter tracks transferred bytes against a declared total and
// emits clamped percentages at a bounded rate.
type countingWriter struct {
	total       int64
	transferred int64
	interval    time.Duration
	lastEmit    time.Time
	onProgress  func(float64)
}

func newCountingWriter(total int64, interval time.Duration, onProgress func(float64)) *countingWriter {
	return &countingWriter{total: total, interval: interval, onProgress: onProgress}
}

// Write implements io.Writer.
func (cw *countingWriter) Write(p []byte) (int, error) {
	cw.transferred += int64(len(p))

	if cw.onProgress != nil && time.Since(cw.lastEmit) >= cw.interval {
		cw.lastEmit = time.Now()
		cw.onProgress(cw.percent())
	}
	return len(p), nil
}

// finish emits the terminal 100% update.
func (cw *countingWriter) finish() {
	if cw.onProgress != nil {
		cw.onProgress(100)
	}
}

func (cw *countingWriter) percent() float64 {
	if cw.total <= 0 {
		return 0
	}
	return model.ClampPercent(float64(cw.transferred) / float64(cw.total) * 100)
}
