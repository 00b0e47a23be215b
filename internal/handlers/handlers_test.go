package handlers

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/recipebox/internal/config"
)

type testEnv struct {
	t   *testing.T
	cfg *config.Config
	db  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	return &testEnv{
		t: t,
		cfg: &config.Config{
			DatabaseURL:     filepath.Join(dir, "unused.db"),
			LogLevel:        "error",
			Migrations:      true,
			ImportTimeout:   time.Second,
			ImportRate:      10,
			ImportUserAgent: "recipebox-test",
			MediaDir:        filepath.Join(dir, "media"),
			ShareDir:        filepath.Join(dir, "shared"),
			PhotoMaxEdge:    640,
		},
		db: filepath.Join(dir, "recipebox.db"),
	}
}

// run executes one command line against a fresh command tree, the way a
// separate process invocation would.
func (e *testEnv) run(args ...string) (string, string, error) {
	e.t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	root := NewRootCommand(e.cfg, logger)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--db", e.db}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, stderr, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("%s: %v\nstderr: %s", strings.Join(args, " "), err, stderr)
	}
	return out
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func TestInitSeedsOnce(t *testing.T) {
	e := newTestEnv(t)

	out := e.mustRun("init")
	if !strings.HasPrefix(out, "Database ready (") {
		t.Fatalf("unexpected init output: %q", out)
	}
	if out := e.mustRun("init"); !strings.Contains(out, "(0 pantry staples") {
		t.Fatalf("second init should not seed staples again: %q", out)
	}

	if out := e.mustRun("pantry", "list", "--enabled"); !containsAll(out, "salt", "below 2 tbsp") {
		t.Fatalf("pantry list missing salt: %s", out)
	}
	if out := e.mustRun("subs", "lookup", "Butter"); !strings.HasPrefix(out, "1. unsalted margarine") {
		t.Fatalf("substitutes not ranked: %s", out)
	}
}

func TestRecipeAddListShow(t *testing.T) {
	e := newTestEnv(t)

	out := e.mustRun("recipe", "add",
		"--title", "Pancakes",
		"-i", "2 cups flour", "-i", "3 eggs",
		"-s", "Mix.", "-s", "Fry.",
		"--prep", "5", "--cook", "10",
		"-t", "breakfast,sweet",
		"--cuisine", "american",
	)
	if out != "Created recipe 1\n" {
		t.Fatalf("unexpected add output: %q", out)
	}
	e.mustRun("recipe", "add", "--title", "Omelette", "-i", "2 eggs", "-s", "Whisk and cook.", "--cuisine", "french")
	e.mustRun("recipe", "favorite", "2")

	list := e.mustRun("recipe", "list", "--sort", "title")
	if strings.Index(list, "Omelette") < strings.Index(list, "Pancakes") {
		t.Fatalf("expected title order, got:\n%s", list)
	}
	if !containsAll(list, "15 min", "[breakfast, sweet]", "★") {
		t.Fatalf("list missing details:\n%s", list)
	}

	if out := e.mustRun("recipe", "list", "--favorites"); strings.Contains(out, "Pancakes") || !strings.Contains(out, "Omelette") {
		t.Fatalf("favorites filter failed:\n%s", out)
	}
	if out := e.mustRun("recipe", "list", "--group", "cuisine"); !containsAll(out, "American (1)", "French (1)") {
		t.Fatalf("grouping failed:\n%s", out)
	}
	if out := e.mustRun("recipe", "list", "-q", "zucchini"); out != "Nothing to show.\n" {
		t.Fatalf("expected empty result, got %q", out)
	}

	show := e.mustRun("recipe", "show", "1")
	if !containsAll(show, "Pancakes", "- 2 cups flour", "2. Fry.") {
		t.Fatalf("show output:\n%s", show)
	}
}

func TestBadArguments(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun("init")

	cases := map[string][]string{
		"invalid recipe id":   {"recipe", "show", "abc"},
		"not found":           {"recipe", "show", "42"},
		"unknown sort":        {"recipe", "list", "--sort", "calories"},
		"expected YYYY-MM-DD": {"plan", "create", "--name", "Week", "--start", "tomorrow"},
		"title":               {"recipe", "add", "--title", " ", "-i", "1 egg", "-s", "Boil."},
	}
	for want, args := range cases {
		_, _, err := e.run(args...)
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("%v: expected error containing %q, got %v", args, want, err)
		}
	}
}

func TestGroceryFlow(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun("init")
	e.mustRun("recipe", "add", "--title", "Pancakes", "-i", "2 cups flour", "-i", "1 tsp salt", "-i", "3 eggs", "-s", "Mix.")
	e.mustRun("recipe", "add", "--title", "Bread", "-i", "1 cup flour", "-i", "2 eggs", "-i", "1 onion", "-s", "Bake.")

	if out := e.mustRun("grocery", "create", "Weekend"); out != "Created grocery list 1\n" {
		t.Fatalf("unexpected create output: %q", out)
	}
	out := e.mustRun("grocery", "add-recipes", "1", "1,2", "999")
	if !containsAll(out, "Added 3 item(s) to list 1", "skipped pantry staples: salt", "Recipes not found: [999]") {
		t.Fatalf("add-recipes output:\n%s", out)
	}

	show := e.mustRun("grocery", "show", "1")
	if !containsAll(show, "Weekend", "[ ] 5 eggs", "flour", "onion") || strings.Contains(show, "salt") {
		t.Fatalf("show output:\n%s", show)
	}

	e.mustRun("grocery", "add-item", "1", "oat", "milk", "--qty", "1", "--unit", "l")
	if out := e.mustRun("grocery", "check", "1,4"); out != "Checked 2 item(s)\n" {
		t.Fatalf("unexpected check output: %q", out)
	}
	grouped := e.mustRun("grocery", "show", "1", "--group", "status")
	if !containsAll(grouped, "(2)", "[x] 1 l oat milk") {
		t.Fatalf("grouped output:\n%s", grouped)
	}
	if out := e.mustRun("grocery", "show", "1", "--unchecked"); strings.Contains(out, "[x]") {
		t.Fatalf("unchecked filter failed:\n%s", out)
	}
	if out := e.mustRun("grocery", "clear", "1"); out != "Removed 2 checked item(s)\n" {
		t.Fatalf("unexpected clear output: %q", out)
	}

	if _, _, err := e.run("grocery", "add-item", "1", "rice", "--unit", "kg"); err == nil {
		t.Fatal("expected unit without quantity to be rejected")
	}
}

func TestPlanTagsAndGroceryList(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun("recipe", "add", "--title", "Roast turkey", "-i", "1 turkey", "-s", "Roast.", "-t", "turkey,dinner")
	e.mustRun("recipe", "add", "--title", "Pumpkin pie", "-i", "1 can pumpkin", "-s", "Bake.", "-t", "pumpkin")

	out := e.mustRun("plan", "create", "--name", "Thanksgiving feast", "-r", "1,2", "--start", "2026-11-26", "--end", "2026-11-27")
	if out != "Created meal plan 1 [Turkey, Pumpkin, Thanksgiving]\n" {
		t.Fatalf("unexpected plan output: %q", out)
	}

	if out := e.mustRun("plan", "list", "--from", "2026-11-01", "--to", "2026-11-30"); !strings.Contains(out, "Thanksgiving feast") {
		t.Fatalf("range listing missed the plan:\n%s", out)
	}
	if out := e.mustRun("plan", "list", "--from", "2027-01-01"); out != "Nothing to show.\n" {
		t.Fatalf("expected no plans in range, got %q", out)
	}

	if out := e.mustRun("plan", "show", "1"); !containsAll(out, "Roast turkey", "Pumpkin pie") {
		t.Fatalf("show output:\n%s", out)
	}

	if out := e.mustRun("grocery", "from-plan", "1"); !strings.Contains(out, "Added 2 item(s)") {
		t.Fatalf("from-plan output: %q", out)
	}

	e.mustRun("plan", "update", "1", "-r", "2")
	if out := e.mustRun("plan", "list", "-t", "turkey"); out != "Nothing to show.\n" {
		t.Fatalf("tags should be recomputed on update, got %q", out)
	}
}

func TestShareExportImport(t *testing.T) {
	sender := newTestEnv(t)
	sender.mustRun("recipe", "add", "--title", "Pancakes", "-i", "2 cups flour", "-s", "Mix.")

	dir := t.TempDir()
	out := sender.mustRun("share", "export", "recipes", "1", "--dir", dir, "--pdf")
	path := strings.TrimSpace(strings.TrimPrefix(out, "Wrote "))
	if filepath.Dir(path) != dir {
		t.Fatalf("unexpected export output: %q", out)
	}

	receiver := newTestEnv(t)
	if out := receiver.mustRun("share", "import", path); !strings.Contains(out, "Imported 1 recipe(s)") {
		t.Fatalf("import output: %q", out)
	}
	if out := receiver.mustRun("share", "import", path); !containsAll(out, "Imported 0 recipe(s)", "skipped 1 already saved") {
		t.Fatalf("second import should skip duplicates: %q", out)
	}
	if out := receiver.mustRun("recipe", "list"); strings.Count(out, "Pancakes") != 1 {
		t.Fatalf("expected one copy of the recipe:\n%s", out)
	}

	if _, _, err := sender.run("share", "export", "recipes", "1", "--telegram"); err == nil || !strings.Contains(err.Error(), "telegram is not configured") {
		t.Fatalf("expected telegram configuration error, got %v", err)
	}
}

func TestLogAndStats(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun("recipe", "add", "--title", "Pancakes", "-i", "2 cups flour", "-s", "Mix.", "--cuisine", "american")

	e.mustRun("log", "cooked", "1", "--rating", "4", "--notes", "fluffy", "--at", "2020-01-01")
	e.mustRun("log", "cooked", "1")
	if _, _, err := e.run("log", "cooked", "1", "--rating", "9"); err == nil {
		t.Fatal("expected rating out of range to be rejected")
	}

	history := e.mustRun("log", "history", "1")
	lines := strings.Split(strings.TrimSpace(history), "\n")
	if len(lines) != 2 || !containsAll(lines[1], "2020-01-01", "Pancakes", "★★★★", "fluffy") {
		t.Fatalf("history output:\n%s", history)
	}

	stats := e.mustRun("stats")
	if !containsAll(stats, "Recipes:       1", "Times cooked:  2", "American: 1") {
		t.Fatalf("stats output:\n%s", stats)
	}
}

func TestMetricsFlag(t *testing.T) {
	e := newTestEnv(t)
	_, stderr, err := e.run("--metrics", "recipe", "add", "--title", "Toast", "-i", "1 slice bread", "-s", "Toast it.")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(stderr, "recipebox_recipes_created_total 1") {
		t.Fatalf("metrics not printed: %q", stderr)
	}
}
