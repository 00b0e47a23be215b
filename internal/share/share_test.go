package share

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/Kerhoff/recipebox/internal/models"
)

func testRecipe(id int64, title string) *models.Recipe {
	return &models.Recipe{
		ID:           id,
		Title:        title,
		Ingredients:  []string{"2 cups flour", "1 egg"},
		Instructions: []string{"Mix.", "Bake."},
		Servings:     4,
		CookMinutes:  models.IntPtr(25),
		Tags:         []string{"Baked"},
		SourceKind:   models.SourceURL,
		SourceURL:    "https://example.com/" + strings.ToLower(title),
	}
}

func samplePackage() *Package {
	p := NewPackage("Sunday Baking", time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC))
	p.Recipes = []*models.Recipe{testRecipe(7, "Bread"), testRecipe(9, "Café Rolls")}
	start := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	p.MealPlans = []*models.MealPlan{{ID: 3, Name: "Bake day", RecipeIDs: []int64{7, 9, 42}, StartDate: &start}}
	p.GroceryLists = []*models.GroceryList{{ID: 5, Name: "Bake shop", Items: []models.GroceryItem{
		{Name: "flour", Quantity: models.FloatPtr(4), Unit: "cups", SourceRecipeIDs: []int64{7, 9}},
		{Name: "egg", Quantity: models.FloatPtr(2), Checked: true},
		{Name: "yeast", Notes: "amounts not combined: 1 packet"},
	}}}
	p.Photos = []Photo{{RecipeID: 7, Name: "bread.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8, 0x00}}}
	return p
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	p := samplePackage()
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != p.ID || got.Title != p.Title || !got.ExportedAt.Equal(p.ExportedAt) {
		t.Fatalf("header mismatch: %+v", got)
	}
	if len(got.Recipes) != 2 || got.Recipes[1].Title != "Café Rolls" || *got.Recipes[0].CookMinutes != 25 {
		t.Fatalf("recipes mismatch: %+v", got.Recipes)
	}
	if !slices.Equal(got.MealPlans[0].RecipeIDs, []int64{7, 9, 42}) {
		t.Fatalf("meal plan mismatch: %+v", got.MealPlans[0])
	}
	if items := got.GroceryLists[0].Items; len(items) != 3 || *items[0].Quantity != 4 || !items[1].Checked {
		t.Fatalf("grocery mismatch: %+v", items)
	}
	if ph := got.PhotosFor(7); len(ph) != 1 || !bytes.Equal(ph[0].Data, p.Photos[0].Data) {
		t.Fatalf("photo mismatch: %+v", ph)
	}
}

func TestDecodeRejectsForeignDocuments(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		doc  string
		want error
	}{
		{"other format", `{"format":"something.else","version":1}`, ErrUnknownFormat},
		{"newer version", `{"format":"recipebox.share","version":2}`, ErrUnsupportedVersion},
		{"zero version", `{"format":"recipebox.share","version":0}`, ErrUnsupportedVersion},
	}
	for _, tc := range cases {
		if _, err := Decode(strings.NewReader(tc.doc)); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
	if _, err := Decode(strings.NewReader("not json")); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()
	a := testRecipe(1, "Bread")
	b := testRecipe(99, "  BREAD ")
	b.Tags = nil
	b.Notes = "different notes"
	if Fingerprint(a) != Fingerprint(b) {
		t.Fatalf("fingerprints should ignore id, case, whitespace and metadata")
	}

	nfd := testRecipe(1, "Cafe\u0301 Rolls")
	nfc := testRecipe(2, "Café Rolls")
	if Fingerprint(nfd) != Fingerprint(nfc) {
		t.Fatalf("fingerprints should ignore normalization form")
	}

	c := testRecipe(1, "Bread")
	c.Ingredients = append(c.Ingredients, "1 tsp salt")
	if Fingerprint(a) == Fingerprint(c) {
		t.Fatalf("different ingredients should change fingerprint")
	}
	if len(Fingerprint(a)) != 64 {
		t.Fatalf("expected 256-bit hex digest")
	}
}

func TestPlanImport(t *testing.T) {
	t.Parallel()
	p := samplePackage()
	p.Recipes = append(p.Recipes, testRecipe(11, "bread"))
	existing := map[string]int64{Fingerprint(testRecipe(0, "Café Rolls")): 500}

	plan := PlanImport(p, existing)
	if !slices.Equal(plan.New, []int64{7}) {
		t.Fatalf("new %v", plan.New)
	}
	if plan.Existing[9] != 500 || plan.Aliases[11] != 7 || plan.Duplicates() != 2 {
		t.Fatalf("unexpected plan %+v", plan)
	}
	mapping := plan.Mapping(map[int64]int64{7: 1000})
	if got := RemapIDs([]int64{7, 9, 11, 42}, mapping); !slices.Equal(got, []int64{1000, 500, 1000}) {
		t.Fatalf("remapped %v", got)
	}
}

func TestRenderText(t *testing.T) {
	t.Parallel()
	text := RenderText(samplePackage())
	for _, want := range []string{
		"Bread\n=====",
		"Serves 4 | Cook 25 min | Tags: Baked",
		"- 2 cups flour",
		"2. Bake.",
		"Source: https://example.com/bread",
		"Meal plan: Bake day",
		"Dates: from 2026-10-18",
		"- recipe #42 (not found)",
		"[ ] 4 cups flour",
		"[x] 2 egg",
		"[ ] yeast (amounts not combined: 1 packet)",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("rendered text missing %q:\n%s", want, text)
		}
	}
}

func TestFormatQuantity(t *testing.T) {
	t.Parallel()
	cases := map[float64]string{1: "1", 1.5: "1.5", 0.333333: "0.33", 2.25: "2.25", 10: "10"}
	for in, want := range cases {
		if got := FormatQuantity(in); got != want {
			t.Fatalf("FormatQuantity(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderPDF(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := RenderPDF(&buf, samplePackage()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a pdf")
	}
}

func TestImagingCompressor(t *testing.T) {
	t.Parallel()
	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for x := 0; x < 400; x++ {
		for y := 0; y < 200; y++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 100, 255})
		}
	}
	var src bytes.Buffer
	if err := png.Encode(&src, img); err != nil {
		t.Fatalf("png: %v", err)
	}

	out, err := NewImagingCompressor(100).Compress(src.Bytes())
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if format != "jpeg" || cfg.Width != 100 || cfg.Height != 50 {
		t.Fatalf("got %s %dx%d, want jpeg 100x50", format, cfg.Width, cfg.Height)
	}

	if _, err := NewImagingCompressor(100).Compress([]byte("not an image")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDirTarget(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "out")
	target := NewDirTarget(dir)
	p := samplePackage()
	b, err := NewBundle(p, true)
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	if !strings.HasPrefix(b.Name, "sunday-baking-") {
		t.Fatalf("name %q", b.Name)
	}
	if b.Caption != "Sunday Baking (2 recipes, 1 meal plan, 1 grocery list)" {
		t.Fatalf("caption %q", b.Caption)
	}
	if err := target.Send(context.Background(), b); err != nil {
		t.Fatalf("send: %v", err)
	}
	for _, ext := range []string{FileExt, ".txt", ".pdf"} {
		if _, err := os.Stat(filepath.Join(dir, b.Name+ext)); err != nil {
			t.Fatalf("missing %s: %v", ext, err)
		}
	}
	got, err := ReadFile(target.Path(b))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got.ID != p.ID {
		t.Fatalf("package id changed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := target.Send(ctx, b); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
