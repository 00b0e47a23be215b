package share

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Bundle is everything handed to a share target: the serialized package
// plus its human-readable renderings.
type Bundle struct {
	Name     string
	Caption  string
	Document []byte
	Text     string
	PDF      []byte
}

// NewBundle encodes p and renders it. The PDF is only produced when withPDF
// is set.
func NewBundle(p *Package, withPDF bool) (*Bundle, error) {
	var doc bytes.Buffer
	if err := Encode(&doc, p); err != nil {
		return nil, err
	}
	b := &Bundle{
		Name:     fileName(p),
		Caption:  caption(p),
		Document: doc.Bytes(),
		Text:     RenderText(p),
	}
	if withPDF {
		var pdf bytes.Buffer
		if err := RenderPDF(&pdf, p); err != nil {
			return nil, err
		}
		b.PDF = pdf.Bytes()
	}
	return b, nil
}

// Target receives outgoing shares.
type Target interface {
	Name() string
	Send(ctx context.Context, b *Bundle) error
}

// DirTarget writes shares into a folder, from where the OS or a sync tool
// picks them up.
type DirTarget struct {
	Dir string
}

func NewDirTarget(dir string) *DirTarget {
	return &DirTarget{Dir: dir}
}

func (t *DirTarget) Name() string { return "folder" }

// Send writes <name>.recipebox.json, <name>.txt and, when present,
// <name>.pdf. It returns ctx.Err() if ctx is already done.
func (t *DirTarget) Send(ctx context.Context, b *Bundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(t.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create share directory: %w", err)
	}
	files := map[string][]byte{
		b.Name + FileExt: b.Document,
		b.Name + ".txt":  []byte(b.Text + "\n"),
	}
	if len(b.PDF) > 0 {
		files[b.Name+".pdf"] = b.PDF
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(t.Dir, name), data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

// Path returns where the package document of b is written.
func (t *DirTarget) Path(b *Bundle) string {
	return filepath.Join(t.Dir, b.Name+FileExt)
}

// ReadFile decodes an inbound package file.
func ReadFile(path string) (*Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open share package: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

func caption(p *Package) string {
	var counts []string
	if n := len(p.Recipes); n > 0 {
		counts = append(counts, plural(n, "recipe"))
	}
	if n := len(p.MealPlans); n > 0 {
		counts = append(counts, plural(n, "meal plan"))
	}
	if n := len(p.GroceryLists); n > 0 {
		counts = append(counts, plural(n, "grocery list"))
	}
	if len(counts) == 0 {
		return p.Title
	}
	return p.Title + " (" + strings.Join(counts, ", ") + ")"
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// fileName builds a filesystem-safe name from the title and package ID.
func fileName(p *Package) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(p.Title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
		} else if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	slug := strings.Trim(sb.String(), "-")
	if slug == "" {
		slug = "share"
	}
	return slug + "-" + p.ID.String()[:8]
}
