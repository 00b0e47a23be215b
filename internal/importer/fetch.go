package importer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	ErrParseFailed = errors.New("failed to parse recipe from this source")
	ErrFetchFailed = errors.New("failed to fetch recipe page")
	ErrTimeout     = errors.New("recipe import timed out")
	ErrCancelled   = errors.New("recipe import cancelled")
)

// Outcome returns a short label for an import result, used for logging and
// metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrCancelled):
		return "cancelled"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrParseFailed):
		return "parse_failed"
	}
	return "fetch_failed"
}

// Fetcher retrieves a page body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// DefaultUserAgent is sent when none is configured.
const DefaultUserAgent = "recipebox/1.0 (+recipe import)"

// RestyFetcher fetches pages with a resty client. Redirects are followed.
type RestyFetcher struct {
	client *resty.Client
}

// NewRestyFetcher creates a fetcher with the given request timeout and
// User-Agent.
func NewRestyFetcher(timeout time.Duration, userAgent string) *RestyFetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10)).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml")
	return &RestyFetcher{client: client}
}

// Fetch performs a single GET. Non-2xx responses are failures. A cancelled
// context yields ErrCancelled and an expired deadline yields ErrTimeout.
func (f *RestyFetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", classifyFetchError(ctx, err)
	}
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return "", fmt.Errorf("%w: %s returned status %d", ErrFetchFailed, url, resp.StatusCode())
	}
	return resp.String(), nil
}

func classifyFetchError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled) {
		return ErrCancelled
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrFetchFailed, err)
}
