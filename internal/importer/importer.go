package importer

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Importer fetches and parses recipe pages.
type Importer struct {
	fetcher Fetcher
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// New creates an importer. perSecond bounds how fast ImportBatch issues
// requests.
func New(fetcher Fetcher, perSecond float64, logger *logrus.Logger) *Importer {
	if perSecond <= 0 {
		perSecond = 1
	}
	return &Importer{
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		logger:  logger,
	}
}

// Import fetches url and extracts a recipe from it. Errors are one of
// ErrCancelled, ErrTimeout, ErrFetchFailed or ErrParseFailed.
func (i *Importer) Import(ctx context.Context, url string) (*Imported, error) {
	start := time.Now()
	body, err := i.fetcher.Fetch(ctx, url)
	if err == nil && ctx.Err() != nil {
		err = ctxError(ctx.Err())
	}
	if err != nil {
		i.logger.WithFields(logrus.Fields{
			"url":     url,
			"outcome": Outcome(err),
		}).WithError(err).Warn("Recipe import failed")
		return nil, err
	}

	imp, ok := Parse(body, url)
	if !ok {
		i.logger.WithField("url", url).Warn("No recipe data found on page")
		return nil, ErrParseFailed
	}

	i.logger.WithFields(logrus.Fields{
		"url":         url,
		"title":       imp.Title,
		"structured":  imp.Structured,
		"ingredients": len(imp.Ingredients),
		"elapsed":     time.Since(start).String(),
	}).Info("Recipe imported")
	return imp, nil
}

// BatchResult is the outcome of one URL in a batch.
type BatchResult struct {
	URL      string
	Imported *Imported
	Err      error
}

// ImportBatch imports urls one after another, waiting on the rate limiter
// between requests. When ctx ends, the remaining URLs are reported as
// cancelled.
func (i *Importer) ImportBatch(ctx context.Context, urls []string) []BatchResult {
	results := make([]BatchResult, 0, len(urls))
	for n, url := range urls {
		if err := i.limiter.Wait(ctx); err != nil {
			cause := ctx.Err()
			if cause == nil {
				cause = context.DeadlineExceeded
			}
			for _, rest := range urls[n:] {
				results = append(results, BatchResult{URL: rest, Err: ctxError(cause)})
			}
			break
		}
		imp, err := i.Import(ctx, url)
		results = append(results, BatchResult{URL: url, Imported: imp, Err: err})
	}
	return results
}

func ctxError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return ErrCancelled
}
