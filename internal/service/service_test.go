package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/recipebox/internal/config"
	"github.com/Kerhoff/recipebox/internal/importer"
	"github.com/Kerhoff/recipebox/internal/models"
	"github.com/Kerhoff/recipebox/internal/repository"
	"github.com/Kerhoff/recipebox/internal/repository/sqlrepo"
	"github.com/Kerhoff/recipebox/internal/share"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	logger := quietLogger()
	db, err := config.NewDatabase(filepath.Join(t.TempDir(), "service.db"), logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	feed := repository.NewBroadcaster()
	repos := Repositories{
		Recipes:       sqlrepo.NewRecipeRepository(db.DB, feed),
		MealPlans:     sqlrepo.NewMealPlanRepository(db.DB, feed),
		Groceries:     sqlrepo.NewGroceryListRepository(db.DB, feed),
		Substitutions: sqlrepo.NewSubstitutionRepository(db.DB, feed),
		Pantry:        sqlrepo.NewPantryStapleRepository(db.DB, feed),
		Logs:          sqlrepo.NewRecipeLogRepository(db.DB, feed),
	}
	return New(repos, feed, logger, opts...)
}

func mustCreate(t *testing.T, s *Service, title string, tags []string, lines ...string) *models.Recipe {
	t.Helper()
	r, err := s.CreateRecipe(context.Background(), &models.Recipe{
		Title:        title,
		Ingredients:  lines,
		Instructions: []string{"Cook it."},
		Servings:     2,
		Tags:         tags,
	})
	if err != nil {
		t.Fatalf("create %s: %v", title, err)
	}
	return r
}

// countingRecipes records writes so tests can assert that nothing was stored.
type countingRecipes struct {
	repository.RecipeRepository
	creates int
	updates int
}

func (c *countingRecipes) Create(ctx context.Context, r *models.Recipe) (*models.Recipe, error) {
	c.creates++
	return r, nil
}

func (c *countingRecipes) Update(ctx context.Context, r *models.Recipe) (*models.Recipe, error) {
	c.updates++
	return r, nil
}

func TestInvalidRecipeIsNeverWritten(t *testing.T) {
	t.Parallel()
	repo := &countingRecipes{}
	s := New(Repositories{Recipes: repo}, nil, quietLogger())

	cases := []*models.Recipe{
		{Title: "  ", Ingredients: []string{"1 egg"}, Instructions: []string{"Boil."}, Servings: 1},
		{Title: "No ingredients", Ingredients: []string{" "}, Instructions: []string{"Boil."}, Servings: 1},
		{Title: "No steps", Ingredients: []string{"1 egg"}, Servings: 1},
		{Title: "Zero servings", Ingredients: []string{"1 egg"}, Instructions: []string{"Boil."}},
	}
	for _, r := range cases {
		if _, err := s.CreateRecipe(context.Background(), r); !models.IsValidationError(err) {
			t.Fatalf("%q: expected validation error, got %v", r.Title, err)
		}
		if _, err := s.UpdateRecipe(context.Background(), r); !models.IsValidationError(err) {
			t.Fatalf("%q: expected validation error on update, got %v", r.Title, err)
		}
	}
	if repo.creates != 0 || repo.updates != 0 {
		t.Fatalf("invalid recipes reached storage: %d creates, %d updates", repo.creates, repo.updates)
	}
}

func TestRecipeNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestService(t)

	if _, err := s.GetRecipe(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get: expected ErrNotFound, got %v", err)
	}
	r := &models.Recipe{ID: 42, Title: "Ghost", Ingredients: []string{"air"}, Instructions: []string{"Wait."}, Servings: 1}
	if _, err := s.UpdateRecipe(ctx, r); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteRecipe(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
}

func TestCreateFromTemplate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestService(t)

	tpl := mustCreate(t, s, "Weeknight stir fry", []string{"quick"}, "1 lb chicken", "2 cups rice")
	tpl.Template = true
	if _, err := s.UpdateRecipe(ctx, tpl); err != nil {
		t.Fatalf("mark template: %v", err)
	}

	copied, err := s.CreateFromTemplate(ctx, tpl.ID, "Tofu stir fry")
	if err != nil {
		t.Fatalf("from template: %v", err)
	}
	if copied.ID == tpl.ID || copied.Template || copied.Title != "Tofu stir fry" || len(copied.Ingredients) != 2 {
		t.Fatalf("unexpected copy %+v", copied)
	}

	plain := mustCreate(t, s, "Plain", nil, "1 egg")
	if _, err := s.CreateFromTemplate(ctx, plain.ID, ""); !errors.Is(err, ErrNotTemplate) {
		t.Fatalf("expected ErrNotTemplate, got %v", err)
	}
	if got := testutil.ToFloat64(s.Metrics().RecipesCreated); got != 3 {
		t.Fatalf("recipes created = %v, want 3", got)
	}
}

func TestAddRecipesToList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestService(t)
	if _, err := s.SeedPantryStaples(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	pancakes := mustCreate(t, s, "Pancakes", nil, "2 cups flour", "1 tsp salt", "3 eggs")
	bread := mustCreate(t, s, "Bread", nil, "1 cup flour", "2 eggs", "1 onion")

	list, err := s.CreateGroceryList(ctx, "Weekend")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	res, err := s.AddRecipesToList(ctx, list.ID, []int64{pancakes.ID, 999, bread.ID})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !slices.Equal(res.MissingRecipes, []int64{999}) {
		t.Fatalf("missing recipes = %v", res.MissingRecipes)
	}
	if len(res.Suppressed) != 1 || res.Suppressed[0].Name != "salt" {
		t.Fatalf("expected salt to be suppressed, got %+v", res.Suppressed)
	}

	byName := make(map[string]*models.GroceryItem)
	for _, it := range res.Items {
		byName[it.Name] = it
	}
	if len(byName) != 3 {
		t.Fatalf("expected flour, eggs and onion, got %v", res.Items)
	}
	if f := byName["flour"]; f == nil || f.Quantity == nil || *f.Quantity != 3 {
		t.Fatalf("flour not summed: %+v", byName["flour"])
	}
	if e := byName["eggs"]; e == nil || e.Quantity == nil || *e.Quantity != 5 || e.Unit != "" {
		t.Fatalf("eggs not summed: %+v", byName["eggs"])
	}
	if ids := byName["flour"].SourceRecipeIDs; !slices.Equal(ids, []int64{pancakes.ID, bread.ID}) {
		t.Fatalf("flour sources = %v", ids)
	}

	stored, err := s.GroceryItems(ctx, list.ID, false)
	if err != nil || len(stored) != 3 {
		t.Fatalf("stored items: %v %v", stored, err)
	}
	if got := testutil.ToFloat64(s.Metrics().PantrySuppressed); got != 1 {
		t.Fatalf("pantry suppressed = %v, want 1", got)
	}

	if _, err := s.AddRecipesToList(ctx, 12345, []int64{pancakes.ID}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a missing list, got %v", err)
	}
}

func TestMealPlanTagsAndGroceryList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestService(t)

	turkey := mustCreate(t, s, "Roast turkey", []string{"turkey", "Roasted", "dinner"}, "1 turkey")
	pie := mustCreate(t, s, "Pumpkin pie", []string{"PUMPKIN", "dessert"}, "1 can pumpkin")

	plan, err := s.CreateMealPlan(ctx, &models.MealPlan{
		Name:      "Thanksgiving feast",
		RecipeIDs: []int64{turkey.ID, pie.ID},
	})
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if want := []string{"Turkey", "Pumpkin", "Thanksgiving"}; !slices.Equal(plan.Tags, want) {
		t.Fatalf("tags = %v, want %v", plan.Tags, want)
	}

	plan.Name = "Family dinner"
	plan.RecipeIDs = []int64{pie.ID}
	updated, err := s.UpdateMealPlan(ctx, plan)
	if err != nil {
		t.Fatalf("update plan: %v", err)
	}
	if !slices.Equal(updated.Tags, []string{"Pumpkin"}) {
		t.Fatalf("tags should be recomputed, got %v", updated.Tags)
	}

	if err := s.DeleteRecipe(ctx, pie.ID); err != nil {
		t.Fatalf("delete recipe: %v", err)
	}
	recipes, missing, err := s.ResolveRecipes(ctx, updated)
	if err != nil || len(recipes) != 0 || !slices.Equal(missing, []int64{pie.ID}) {
		t.Fatalf("resolve: %v %v %v", recipes, missing, err)
	}

	end := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, 3)
	if _, err := s.CreateMealPlan(ctx, &models.MealPlan{Name: "Backwards", StartDate: &start, EndDate: &end}); !models.IsValidationError(err) {
		t.Fatalf("expected validation error for reversed dates, got %v", err)
	}

	list, res, err := s.CreateListFromMealPlan(ctx, plan.ID)
	if err != nil {
		t.Fatalf("list from plan: %v", err)
	}
	if list.Name != "Family dinner" || len(res.Items) != 0 || len(res.MissingRecipes) != 1 {
		t.Fatalf("unexpected list from plan: %+v %+v", list, res)
	}
}

func TestSubstitutions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestService(t)

	if _, err := s.AddUserSubstitution(ctx, &models.IngredientSubstitution{
		Ingredient:  "Butter",
		Substitutes: []models.Substitute{{Name: "lard", Ratio: 1, Rank: 5}},
	}); err != nil {
		t.Fatalf("add user substitution: %v", err)
	}
	n, err := s.SeedSubstitutions(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != len(DefaultSubstitutions())-1 {
		t.Fatalf("seeded %d, user entry for butter should be kept", n)
	}

	subs, err := s.LookupSubstitutes(ctx, "BUTTER ")
	if err != nil || len(subs) != 1 || subs[0].Name != "lard" {
		t.Fatalf("butter lookup: %v %v", subs, err)
	}
	subs, err = s.LookupSubstitutes(ctx, "egg")
	if err != nil || len(subs) != 3 {
		t.Fatalf("egg lookup: %v %v", subs, err)
	}
	for i := 1; i < len(subs); i++ {
		if subs[i-1].Rank > subs[i].Rank {
			t.Fatalf("substitutes not ranked: %+v", subs)
		}
	}
	subs, err = s.LookupSubstitutes(ctx, "unobtainium")
	if err != nil || len(subs) != 0 {
		t.Fatalf("unknown ingredient: %v %v", subs, err)
	}
}

func TestLogCooked(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestService(t)
	r := mustCreate(t, s, "Soup", nil, "1 l stock")

	bad := 6
	if _, err := s.LogCooked(ctx, r.ID, time.Time{}, "", &bad); !models.IsValidationError(err) {
		t.Fatalf("expected validation error for rating 6, got %v", err)
	}
	if _, err := s.LogCooked(ctx, 999, time.Time{}, "", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	good := 5
	if _, err := s.LogCooked(ctx, r.ID, time.Time{}, "great", &good); err != nil {
		t.Fatalf("log: %v", err)
	}
	history, err := s.History(ctx, r.ID, 0)
	if err != nil || len(history) != 1 || history[0].Notes != "great" {
		t.Fatalf("history: %v %v", history, err)
	}
}

func TestShareRoundTripSkipsDuplicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sender := newTestService(t)
	receiver := newTestService(t)

	a := mustCreate(t, sender, "Chili", []string{"beef"}, "1 lb beef", "1 can beans")
	b := mustCreate(t, sender, "Cornbread", nil, "1 cup cornmeal")
	plan, err := sender.CreateMealPlan(ctx, &models.MealPlan{Name: "Game day", RecipeIDs: []int64{b.ID, a.ID}})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	// receiver already has the chili, under a different ID
	mustCreate(t, receiver, "Filler", nil, "1 thing")
	localChili := mustCreate(t, receiver, "  chili ", nil, "1 LB beef", "1 can   beans")

	pkg, err := sender.ExportMealPlan(ctx, plan.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	dir := t.TempDir()
	target := share.NewDirTarget(dir)
	bundle, err := sender.Share(ctx, pkg, target, false)
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	inbound, err := share.ReadFile(target.Path(bundle))
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	report, err := receiver.ImportPackage(ctx, inbound)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Recipes != 1 || report.Duplicates != 1 || report.MealPlans != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.RecipeIDs[a.ID] != localChili.ID {
		t.Fatalf("chili should map to the local copy: %v", report.RecipeIDs)
	}

	plans, err := receiver.ListMealPlans(ctx)
	if err != nil || len(plans) != 1 {
		t.Fatalf("plans: %v %v", plans, err)
	}
	want := []int64{report.RecipeIDs[b.ID], localChili.ID}
	if !slices.Equal(plans[0].RecipeIDs, want) {
		t.Fatalf("plan recipe ids = %v, want %v", plans[0].RecipeIDs, want)
	}

	again, err := receiver.ImportPackage(ctx, inbound)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if again.Recipes != 0 || again.Duplicates != 2 {
		t.Fatalf("second import should insert nothing: %+v", again)
	}
}

func TestShareGroceryList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestService(t)

	list, _ := s.CreateGroceryList(ctx, "Quick shop")
	if _, err := s.AddGroceryItem(ctx, &models.GroceryItem{GroceryListID: list.ID, Name: "milk", Quantity: models.FloatPtr(1), Unit: "l"}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := s.AddGroceryItem(ctx, &models.GroceryItem{GroceryListID: list.ID, Name: "bread", Unit: "loaf"}); !models.IsValidationError(err) {
		t.Fatalf("unit without quantity should be rejected, got %v", err)
	}

	pkg, err := s.ExportGroceryList(ctx, list.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(pkg.GroceryLists) != 1 || len(pkg.GroceryLists[0].Items) != 1 {
		t.Fatalf("unexpected package %+v", pkg.GroceryLists)
	}

	report, err := s.ImportPackage(ctx, pkg)
	if err != nil || report.GroceryLists != 1 {
		t.Fatalf("import list: %+v %v", report, err)
	}
	lists, _ := s.ListGroceryLists(ctx)
	if len(lists) != 2 {
		t.Fatalf("expected the imported copy, got %d lists", len(lists))
	}

	if _, err := s.ExportRecipes(ctx, []int64{77}); !errors.Is(err, ErrNothingToShare) {
		t.Fatalf("expected ErrNothingToShare, got %v", err)
	}
}

func TestWatchRecipes(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := newTestService(t)

	stream, err := s.WatchRecipes(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if first := <-stream; len(first) != 0 {
		t.Fatalf("expected empty initial list, got %d", len(first))
	}

	mustCreate(t, s, "Salad", nil, "1 lettuce")
	select {
	case got := <-stream:
		if len(got) != 1 || got[0].Title != "Salad" {
			t.Fatalf("unexpected update %v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no update after create")
	}

	cancel()
	for range stream {
	}
}

const recipePage = `<html><head>
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"Recipe","name":"Garlic Noodles",
 "recipeIngredient":["8 oz noodles","4 cloves garlic"],
 "recipeInstructions":[{"@type":"HowToStep","text":"Boil noodles."},{"@type":"HowToStep","text":"Toss with garlic."}],
 "recipeYield":"2 servings","prepTime":"PT5M","cookTime":"PT10M"}
</script></head><body></body></html>`

const metadataPage = `<html><head>
<meta property="og:title" content="Mystery Stew">
<meta property="og:description" content="Hearty.">
</head><body></body></html>`

func TestImportFromURL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/noodles":
			fmt.Fprint(w, recipePage)
		case "/stew":
			fmt.Fprint(w, metadataPage)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	imp := importer.New(importer.NewRestyFetcher(5*time.Second, ""), 100, quietLogger())
	s := newTestService(t, WithImporter(imp))

	res := s.ImportFromURL(ctx, srv.URL+"/noodles")
	if res.Err != nil || !res.Saved {
		t.Fatalf("import: %+v", res)
	}
	if res.Recipe.ID == 0 || res.Recipe.Servings != 2 || res.Recipe.SourceKind != models.SourceURL {
		t.Fatalf("unexpected recipe %+v", res.Recipe)
	}

	res = s.ImportFromURL(ctx, srv.URL+"/stew")
	if res.Saved || !models.IsValidationError(res.Err) || res.Recipe == nil || res.Recipe.Title != "Mystery Stew" {
		t.Fatalf("metadata-only page should yield an unsaved draft: %+v", res)
	}

	results := s.ImportBatch(ctx, []string{srv.URL + "/missing", srv.URL + "/noodles"})
	if len(results) != 2 || !errors.Is(results[0].Err, importer.ErrFetchFailed) || !results[1].Saved {
		t.Fatalf("batch: %+v %+v", results[0], results[1])
	}

	m := s.Metrics().Imports
	if got := testutil.ToFloat64(m.WithLabelValues("ok")); got != 2 {
		t.Fatalf("ok imports = %v", got)
	}
	if got := testutil.ToFloat64(m.WithLabelValues("incomplete")); got != 1 {
		t.Fatalf("incomplete imports = %v", got)
	}

	disabled := New(Repositories{}, nil, quietLogger())
	if res := disabled.ImportFromURL(ctx, srv.URL+"/noodles"); !errors.Is(res.Err, ErrImportDisabled) {
		t.Fatalf("expected ErrImportDisabled, got %v", res.Err)
	}
}
