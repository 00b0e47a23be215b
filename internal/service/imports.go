package service

import (
	"context"
	"fmt"

	"github.com/Kerhoff/recipebox/internal/importer"
	"github.com/Kerhoff/recipebox/internal/models"
)

// ImportResult is the outcome of importing one URL.
type ImportResult struct {
	URL string
	// Recipe is the saved recipe, or the unsaved draft when the page lacked
	// required fields.
	Recipe *models.Recipe
	Saved  bool
	Err    error
}

// ImportFromURL fetches a recipe page and saves the recipe found on it.
// Pages that only yield metadata often lack ingredients or instructions; the
// draft is then returned unsaved together with its validation error so the
// caller can complete it.
func (s *Service) ImportFromURL(ctx context.Context, url string) *ImportResult {
	if s.importer == nil {
		return &ImportResult{URL: url, Err: ErrImportDisabled}
	}
	imp, err := s.importer.Import(ctx, url)
	return s.saveImported(ctx, url, imp, err)
}

// ImportBatch imports several URLs one after another under the importer's
// rate limit.
func (s *Service) ImportBatch(ctx context.Context, urls []string) []*ImportResult {
	if s.importer == nil {
		out := make([]*ImportResult, 0, len(urls))
		for _, u := range urls {
			out = append(out, &ImportResult{URL: u, Err: ErrImportDisabled})
		}
		return out
	}

	batch := s.importer.ImportBatch(ctx, urls)
	out := make([]*ImportResult, 0, len(batch))
	for _, br := range batch {
		out = append(out, s.saveImported(ctx, br.URL, br.Imported, br.Err))
	}
	return out
}

func (s *Service) saveImported(ctx context.Context, url string, imp *importer.Imported, err error) *ImportResult {
	res := &ImportResult{URL: url}
	if err != nil {
		s.metrics.Imports.WithLabelValues(importer.Outcome(err)).Inc()
		res.Err = err
		return res
	}

	draft := imp.ToRecipe()
	res.Recipe = draft
	if err := draft.Validate(); err != nil {
		s.metrics.Imports.WithLabelValues("incomplete").Inc()
		res.Err = fmt.Errorf("imported recipe from %s is incomplete: %w", url, err)
		return res
	}

	saved, err := s.CreateRecipe(ctx, draft)
	if err != nil {
		res.Err = err
		return res
	}
	s.metrics.Imports.WithLabelValues(importer.Outcome(nil)).Inc()
	res.Recipe = saved
	res.Saved = true
	return res
}
