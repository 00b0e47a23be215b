package service

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/recipebox/internal/metrics"
	"github.com/Kerhoff/recipebox/internal/models"
	"github.com/Kerhoff/recipebox/internal/repository"
	"github.com/Kerhoff/recipebox/internal/share"
)

// ExportRecipes packages the given recipes with their local photos. Missing
// IDs are skipped; an empty result is ErrNothingToShare.
func (s *Service) ExportRecipes(ctx context.Context, ids []int64) (*share.Package, error) {
	recipes, err := s.repos.Recipes.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes %v: %w", ids, err)
	}
	if len(recipes) == 0 {
		return nil, ErrNothingToShare
	}

	title := recipes[0].Title
	if len(recipes) > 1 {
		title = fmt.Sprintf("%s and %d more", title, len(recipes)-1)
	}
	p := share.NewPackage(title, s.now())
	p.Recipes = recipes
	p.Photos = s.collectPhotos(recipes)
	return p, nil
}

// ExportMealPlan packages a plan together with the recipes it references.
func (s *Service) ExportMealPlan(ctx context.Context, planID int64) (*share.Package, error) {
	plan, err := s.GetMealPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	recipes, _, err := s.ResolveRecipes(ctx, plan)
	if err != nil {
		return nil, err
	}

	p := share.NewPackage(plan.Name, s.now())
	p.MealPlans = []*models.MealPlan{plan}
	p.Recipes = recipes
	p.Photos = s.collectPhotos(recipes)
	return p, nil
}

// ExportGroceryList packages a list and its items.
func (s *Service) ExportGroceryList(ctx context.Context, listID int64) (*share.Package, error) {
	list, err := s.GetGroceryList(ctx, listID)
	if err != nil {
		return nil, err
	}
	p := share.NewPackage(list.Name, s.now())
	p.GroceryLists = []*models.GroceryList{list}
	return p, nil
}

// Share renders p and hands it to target.
func (s *Service) Share(ctx context.Context, p *share.Package, target share.Target, withPDF bool) (*share.Bundle, error) {
	if p.Empty() {
		return nil, ErrNothingToShare
	}
	bundle, err := share.NewBundle(p, withPDF)
	if err != nil {
		return nil, fmt.Errorf("failed to render share package: %w", err)
	}
	if err := target.Send(ctx, bundle); err != nil {
		return nil, fmt.Errorf("failed to share via %s: %w", target.Name(), err)
	}

	s.metrics.SharePackages.WithLabelValues(metrics.Exported).Inc()
	s.logger.WithFields(logrus.Fields{
		"package": p.ID,
		"target":  target.Name(),
		"recipes": len(p.Recipes),
		"photos":  len(p.Photos),
	}).Info("Shared package")
	return bundle, nil
}

// collectPhotos reads local media refs from the media directory and
// compresses them. Unreadable photos are logged and left out.
func (s *Service) collectPhotos(recipes []*models.Recipe) []share.Photo {
	if s.mediaDir == "" {
		return nil
	}
	var photos []share.Photo
	for _, r := range recipes {
		for _, ref := range r.MediaRefs {
			if isRemote(ref) {
				continue
			}
			data, err := os.ReadFile(filepath.Join(s.mediaDir, ref))
			if err != nil {
				s.logger.WithField("recipe_id", r.ID).WithError(err).Warnf("Skipping photo %s", ref)
				continue
			}
			contentType := http.DetectContentType(data)
			if s.compressor != nil {
				small, err := s.compressor.Compress(data)
				if err != nil {
					s.logger.WithField("recipe_id", r.ID).WithError(err).Warnf("Skipping photo %s", ref)
					continue
				}
				data, contentType = small, "image/jpeg"
			}
			photos = append(photos, share.Photo{
				RecipeID:    r.ID,
				Name:        filepath.Base(ref),
				ContentType: contentType,
				Data:        data,
			})
		}
	}
	return photos
}

func isRemote(ref string) bool {
	return strings.Contains(ref, "://")
}

// ImportReport summarises an inbound package.
type ImportReport struct {
	Recipes      int
	Duplicates   int
	MealPlans    int
	GroceryLists int
	// RecipeIDs maps the sender's recipe IDs to local ones.
	RecipeIDs map[int64]int64
}

func (r *ImportReport) String() string {
	msg := fmt.Sprintf("Imported %d recipe(s)", r.Recipes)
	if r.Duplicates > 0 {
		msg += fmt.Sprintf(", skipped %d already saved", r.Duplicates)
	}
	if r.MealPlans > 0 {
		msg += fmt.Sprintf(", %d meal plan(s)", r.MealPlans)
	}
	if r.GroceryLists > 0 {
		msg += fmt.Sprintf(", %d grocery list(s)", r.GroceryLists)
	}
	return msg
}

// ImportPackage stores the contents of an inbound package. Recipes that
// match a local recipe by fingerprint are not inserted again; meal plans and
// grocery items that reference them point at the local copy instead.
func (s *Service) ImportPackage(ctx context.Context, p *share.Package) (*ImportReport, error) {
	existing, err := s.repos.Recipes.List(ctx, repository.RecipeFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	fingerprints := make(map[string]int64, len(existing))
	for _, r := range existing {
		fingerprints[share.Fingerprint(r)] = r.ID
	}

	plan := share.PlanImport(p, fingerprints)
	bySenderID := make(map[int64]*models.Recipe, len(p.Recipes))
	for _, r := range p.Recipes {
		bySenderID[r.ID] = r
	}

	inserted := make(map[int64]int64, len(plan.New))
	for _, senderID := range plan.New {
		r := *bySenderID[senderID]
		r.ID = 0
		r.MediaRefs = s.storePhotos(p, senderID, r.MediaRefs)
		saved, err := s.CreateRecipe(ctx, &r)
		if err != nil {
			return nil, fmt.Errorf("failed to import recipe %q: %w", r.Title, err)
		}
		inserted[senderID] = saved.ID
	}

	report := &ImportReport{
		Recipes:    len(inserted),
		Duplicates: plan.Duplicates(),
		RecipeIDs:  plan.Mapping(inserted),
	}
	s.metrics.DuplicatesSkipped.Add(float64(report.Duplicates))

	for _, mp := range p.MealPlans {
		mealPlan := *mp
		mealPlan.ID = 0
		mealPlan.RecipeIDs = share.RemapIDs(mp.RecipeIDs, report.RecipeIDs)
		if _, err := s.CreateMealPlan(ctx, &mealPlan); err != nil {
			return nil, fmt.Errorf("failed to import meal plan %q: %w", mp.Name, err)
		}
		report.MealPlans++
	}

	for _, gl := range p.GroceryLists {
		list, err := s.CreateGroceryList(ctx, gl.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to import grocery list %q: %w", gl.Name, err)
		}
		items := make([]models.GroceryItem, 0, len(gl.Items))
		for _, it := range gl.Items {
			it.ID = 0
			it.GroceryListID = list.ID
			it.SourceRecipeIDs = share.RemapIDs(it.SourceRecipeIDs, report.RecipeIDs)
			if err := it.Validate(); err != nil {
				return nil, err
			}
			items = append(items, it)
		}
		if _, err := s.repos.Groceries.InsertItems(ctx, list.ID, items); err != nil {
			return nil, fmt.Errorf("failed to import items of grocery list %q: %w", gl.Name, err)
		}
		report.GroceryLists++
	}

	s.metrics.SharePackages.WithLabelValues(metrics.Imported).Inc()
	s.logger.WithFields(logrus.Fields{
		"package":    p.ID,
		"recipes":    report.Recipes,
		"duplicates": report.Duplicates,
		"meal_plans": report.MealPlans,
		"lists":      report.GroceryLists,
	}).Info("Imported share package")
	return report, nil
}

// storePhotos writes the package photos of a recipe into the media
// directory and returns refs with local photo names replaced by the stored
// files. Without a media directory local refs are dropped.
func (s *Service) storePhotos(p *share.Package, senderID int64, refs []string) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if isRemote(ref) {
			out = append(out, ref)
		}
	}
	if s.mediaDir == "" {
		return out
	}
	if err := os.MkdirAll(s.mediaDir, 0o755); err != nil {
		s.logger.WithError(err).Warn("Cannot create media directory, dropping shared photos")
		return out
	}
	for _, ph := range p.PhotosFor(senderID) {
		name := p.ID.String()[:8] + "-" + filepath.Base(ph.Name)
		if err := os.WriteFile(filepath.Join(s.mediaDir, name), ph.Data, 0o644); err != nil {
			s.logger.WithError(err).Warnf("Failed to store shared photo %s", ph.Name)
			continue
		}
		out = append(out, name)
	}
	return out
}
