package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/jacoelho/dq/internal/ratelimit"
)

// ErrSource reports a source that could not be opened or fetched.
var ErrSource = errors.New("source error")

// StdinName is the conventional source argument for standard input.
const StdinName = "-"

// Fetcher opens query sources: standard input, local files, and HTTP URLs.
// URL fetches go through the configured client and are paced by the limiter
// when one is set.
type Fetcher struct {
	client  *http.Client
	limiter *ratelimit.Limiter
	stdin   io.Reader
}

// NewFetcher returns a Fetcher using client for URL sources. A nil client
// falls back to http.DefaultClient; a nil limiter disables pacing.
func NewFetcher(client *http.Client, limiter *ratelimit.Limiter) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		client:  client,
		limiter: limiter,
		stdin:   os.Stdin,
	}
}

// Open resolves source and returns its contents for reading. "-" reads
// standard input, http:// and https:// sources are fetched, everything else
// is a filesystem path.
func (f *Fetcher) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case source == StdinName:
		return io.NopCloser(f.stdin), nil
	case isRemote(source):
		return f.fetch(ctx, source)
	default:
		file, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSource, err)
		}
		return file, nil
	}
}

// Load opens source and decodes every document in it.
func (f *Fetcher) Load(ctx context.Context, source string, format Format) ([]any, error) {
	rc, err := f.Open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Load(rc, format)
}

func (f *Fetcher) fetch(ctx context.Context, source string) (io.ReadCloser, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiting interrupted: %v", ErrSource, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSource, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSource, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s: unexpected status %s", ErrSource, source, resp.Status)
	}
	return resp.Body, nil
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
