package share

import (
	"bytes"
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/Kerhoff/recipebox/internal/models"
)

// RenderPDF writes a printable A4 document for the package. Recipes with a
// source URL get a QR code linking back to it.
func RenderPDF(w io.Writer, p *Package) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	titles := recipeTitles(p.Recipes)

	for _, r := range p.Recipes {
		pdf.AddPage()
		if err := recipePage(pdf, tr, r); err != nil {
			return err
		}
	}
	for _, mp := range p.MealPlans {
		pdf.AddPage()
		heading(pdf, tr, mp.Name)
		body(pdf, tr, MealPlanText(mp, titles))
	}
	for _, gl := range p.GroceryLists {
		pdf.AddPage()
		heading(pdf, tr, gl.Name)
		body(pdf, tr, GroceryListText(gl))
	}
	if pdf.PageCount() == 0 {
		pdf.AddPage()
		heading(pdf, tr, p.Title)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

func recipePage(pdf *gofpdf.Fpdf, tr func(string) string, r *models.Recipe) error {
	heading(pdf, tr, r.Title)
	if meta := recipeMeta(r); meta != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(0, 5, tr(meta), "", "L", false)
		pdf.Ln(3)
	}

	if r.SourceURL != "" {
		png, err := qrcode.Encode(r.SourceURL, qrcode.Medium, 256)
		if err != nil {
			return fmt.Errorf("failed to generate qr code: %w", err)
		}
		name := fmt.Sprintf("qr-%d", r.ID)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
		pdf.ImageOptions(name, 165, 10, 30, 30, false, opts, 0, r.SourceURL)
	}

	section(pdf, tr, "Ingredients")
	for _, l := range r.Ingredients {
		pdf.MultiCell(150, 6, tr("- "+l), "", "L", false)
	}
	pdf.Ln(3)
	section(pdf, tr, "Instructions")
	for i, l := range r.Instructions {
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", i+1, l)), "", "L", false)
	}
	if r.Notes != "" {
		pdf.Ln(3)
		section(pdf, tr, "Notes")
		pdf.MultiCell(0, 6, tr(r.Notes), "", "L", false)
	}
	return pdf.Error()
}

func heading(pdf *gofpdf.Fpdf, tr func(string) string, s string) {
	pdf.SetFont("Arial", "B", 16)
	pdf.MultiCell(150, 8, tr(s), "", "L", false)
	pdf.Ln(2)
}

func section(pdf *gofpdf.Fpdf, tr func(string) string, s string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, tr(s))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
}

func body(pdf *gofpdf.Fpdf, tr func(string) string, s string) {
	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 6, tr(s), "", "L", false)
}
