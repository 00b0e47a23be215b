package importer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/recipebox/internal/models"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestParseDuration(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"PT30M", 30, true},
		{"PT1H15M", 75, true},
		{"PT2H", 120, true},
		{"pt45m", 45, true},
		{"P1DT2H", 26 * 60, true},
		{"PT0M", 0, true},
		{"PT30S", 0, false},
		{"PT", 0, false},
		{"P1D", 0, false},
		{"P2DT", 0, false},
		{"P", 0, false},
		{"30 minutes", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseDuration(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseDuration(%q) = %d, %v; want %d, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

const jsonLDPage = `<!doctype html><html><head>
<title>Ignored</title>
<script type="application/ld+json">{"@context":"https://schema.org","@type":"WebSite","name":"Site"}</script>
<script type="application/ld+json">
{"@context":"https://schema.org","@graph":[
  {"@type":"WebPage","name":"Page"},
  {"@type":["Recipe","NewsArticle"],
   "name":"Best Chili &amp; Cornbread",
   "description":"  Hearty   and warm ",
   "recipeYield":"4 servings",
   "prepTime":"PT30M",
   "cookTime":"PT1H15M",
   "totalTime":"PT1H45M",
   "recipeIngredient":["2 lbs ground beef","", "1 can beans"],
   "recipeInstructions":[
     {"@type":"HowToStep","text":"Brown the beef."},
     {"@type":"HowToSection","name":"Finish","itemListElement":[
        {"@type":"HowToStep","text":"Add beans."},
        "Simmer."
     ]}
   ],
   "recipeCategory":"Dinner",
   "recipeCuisine":["Tex-Mex"],
   "keywords":"chili, comfort food, dinner",
   "image":[{"@type":"ImageObject","url":"/img/chili.jpg"}]
  }
]}
</script>
<meta property="og:title" content="OG title should lose">
</head><body></body></html>`

func TestParseJSONLD(t *testing.T) {
	t.Parallel()
	imp, ok := Parse(jsonLDPage, "https://example.com/recipes/chili")
	if !ok {
		t.Fatalf("expected recipe")
	}
	if !imp.Structured || imp.Title != "Best Chili & Cornbread" {
		t.Fatalf("title %q structured %v", imp.Title, imp.Structured)
	}
	if imp.Description != "Hearty and warm" {
		t.Fatalf("description %q", imp.Description)
	}
	if imp.Servings == nil || *imp.Servings != 4 {
		t.Fatalf("servings %v", imp.Servings)
	}
	if *imp.PrepMinutes != 30 || *imp.CookMinutes != 75 || *imp.TotalMinutes != 105 {
		t.Fatalf("times %d %d %d", *imp.PrepMinutes, *imp.CookMinutes, *imp.TotalMinutes)
	}
	if want := []string{"2 lbs ground beef", "1 can beans"}; !slices.Equal(imp.Ingredients, want) {
		t.Fatalf("ingredients %q", imp.Ingredients)
	}
	if want := []string{"Brown the beef.", "Add beans.", "Simmer."}; !slices.Equal(imp.Instructions, want) {
		t.Fatalf("instructions %q", imp.Instructions)
	}
	if want := []string{"Dinner", "Tex-Mex", "chili", "comfort food"}; !slices.Equal(imp.Tags, want) {
		t.Fatalf("tags %q", imp.Tags)
	}
	if imp.Cuisine != "Tex-Mex" {
		t.Fatalf("cuisine %q", imp.Cuisine)
	}
	if want := []string{"https://example.com/img/chili.jpg"}; !slices.Equal(imp.ImageURLs, want) {
		t.Fatalf("images %q", imp.ImageURLs)
	}
}

func TestParseJSONLDVariants(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		block    string
		servings int
		image    string
		steps    int
	}{
		{"top level array", `[{"@type":"Person"},{"@type":"Recipe","name":"A","recipeYield":6,"recipeInstructions":"Mix.\nBake.","image":"https://x/a.jpg"}]`, 6, "https://x/a.jpg", 2},
		{"yield range", `{"@type":"Recipe","name":"B","recipeYield":"4-6","image":{"url":"https://x/b.jpg"}}`, 4, "https://x/b.jpg", 0},
		{"yield list", `{"@type":"http://schema.org/Recipe","name":"C","recipeYield":["8","8 slices"],"image":["https://x/c1.jpg","https://x/c2.jpg"]}`, 8, "https://x/c1.jpg", 0},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			page := `<html><head><script type="application/ld+json">` + tc.block + `</script></head></html>`
			imp, ok := Parse(page, "")
			if !ok {
				t.Fatalf("expected recipe")
			}
			if imp.Servings == nil || *imp.Servings != tc.servings {
				t.Fatalf("servings %v, want %d", imp.Servings, tc.servings)
			}
			if len(imp.ImageURLs) != 1 || imp.ImageURLs[0] != tc.image {
				t.Fatalf("images %q, want %q", imp.ImageURLs, tc.image)
			}
			if len(imp.Instructions) != tc.steps {
				t.Fatalf("instructions %q", imp.Instructions)
			}
		})
	}
}

func TestParseMissingDurationsAreNil(t *testing.T) {
	t.Parallel()
	page := `<script type="application/ld+json">{"@type":"Recipe","name":"X","prepTime":"PT","cookTime":5}</script>`
	imp, ok := Parse(page, "")
	if !ok {
		t.Fatalf("expected recipe")
	}
	if imp.PrepMinutes != nil || imp.CookMinutes != nil || imp.Servings != nil {
		t.Fatalf("expected nil durations and servings, got %v %v %v", imp.PrepMinutes, imp.CookMinutes, imp.Servings)
	}
}

func TestParseOpenGraphFallback(t *testing.T) {
	t.Parallel()
	page := `<html><head>
<script type="application/ld+json">{not json</script>
<meta property="og:title" content="Grandma&#39;s Soup">
<meta name="description" content="Warm soup">
<meta property="og:image" content="/soup.jpg">
<meta name="twitter:image" content="https://cdn.example.com/soup2.jpg">
<meta property="og:image" content="/soup.jpg">
</head></html>`
	imp, ok := Parse(page, "https://example.com/soup")
	if !ok {
		t.Fatalf("expected metadata recipe")
	}
	if imp.Structured || imp.Title != "Grandma's Soup" || imp.Description != "Warm soup" {
		t.Fatalf("unexpected record %+v", imp)
	}
	if want := []string{"https://example.com/soup.jpg", "https://cdn.example.com/soup2.jpg"}; !slices.Equal(imp.ImageURLs, want) {
		t.Fatalf("images %q", imp.ImageURLs)
	}
}

func TestParseNoTitleFails(t *testing.T) {
	t.Parallel()
	pages := []string{
		"",
		"<html><head><title>Only a title tag</title></head></html>",
		`<meta property="og:description" content="no title">`,
		`<script type="application/ld+json">{"@type":"Recipe","recipeIngredient":["1 egg"]}</script>`,
	}
	for _, p := range pages {
		if imp, ok := Parse(p, ""); ok {
			t.Fatalf("expected failure for %q, got %+v", p, imp)
		}
	}
}

func TestToRecipe(t *testing.T) {
	t.Parallel()
	imp := &Imported{
		Title:        " Toast ",
		Ingredients:  []string{"1 slice bread"},
		Instructions: []string{"Toast it."},
		TotalMinutes: models.IntPtr(5),
		Tags:         []string{"Breakfast", "breakfast"},
		SourceURL:    "https://example.com/toast",
		ImageURLs:    []string{"https://example.com/toast.jpg"},
	}
	r := imp.ToRecipe()
	if r.Title != "Toast" || r.Servings != DefaultServings || r.SourceKind != models.SourceURL {
		t.Fatalf("unexpected recipe %+v", r)
	}
	if r.CookMinutes == nil || *r.CookMinutes != 5 || r.PrepMinutes != nil {
		t.Fatalf("total time not used as cook time")
	}
	if len(r.Tags) != 1 || len(r.MediaRefs) != 1 {
		t.Fatalf("tags %q media %q", r.Tags, r.MediaRefs)
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("imported recipe should validate: %v", err)
	}
}

func TestImporterOverHTTP(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/chili", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			http.Error(w, "bad agent", http.StatusForbidden)
			return
		}
		io.WriteString(w, jsonLDPage)
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/chili", http.StatusFound)
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html><body>nothing here</body></html>")
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	imp := New(NewRestyFetcher(5*time.Second, "test-agent"), 100, quietLogger())
	ctx := context.Background()

	got, err := imp.Import(ctx, srv.URL+"/moved")
	if err != nil {
		t.Fatalf("import via redirect: %v", err)
	}
	if got.Title != "Best Chili & Cornbread" {
		t.Fatalf("title %q", got.Title)
	}

	if _, err := imp.Import(ctx, srv.URL+"/empty"); !errors.Is(err, ErrParseFailed) {
		t.Fatalf("expected parse failure, got %v", err)
	}
	if err := ErrParseFailed; err.Error() != "failed to parse recipe from this source" {
		t.Fatalf("label %q", err.Error())
	}
	if _, err := imp.Import(ctx, srv.URL+"/missing"); !errors.Is(err, ErrFetchFailed) || Outcome(err) != "fetch_failed" {
		t.Fatalf("expected fetch failure, got %v", err)
	}

	results := imp.ImportBatch(ctx, []string{srv.URL + "/chili", srv.URL + "/empty"})
	if len(results) != 2 || results[0].Err != nil || !errors.Is(results[1].Err, ErrParseFailed) {
		t.Fatalf("unexpected batch results %+v", results)
	}
}

func TestImporterTimeoutAndCancel(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	slow := New(NewRestyFetcher(50*time.Millisecond, ""), 100, quietLogger())
	_, err := slow.Import(context.Background(), srv.URL)
	if !errors.Is(err, ErrTimeout) || Outcome(err) != "timeout" {
		t.Fatalf("expected timeout, got %v", err)
	}

	imp := New(NewRestyFetcher(5*time.Second, ""), 100, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	_, err = imp.Import(ctx, srv.URL)
	if !errors.Is(err, ErrCancelled) || errors.Is(err, ErrParseFailed) {
		t.Fatalf("expected cancellation, got %v", err)
	}

	results := imp.ImportBatch(ctx, []string{srv.URL + "/a", srv.URL + "/b"})
	for _, r := range results {
		if !errors.Is(r.Err, ErrCancelled) {
			t.Fatalf("batch after cancel: %+v", r)
		}
	}
}
