package cvrender

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"portfolio-backend/internal/portfolio"
)

// ContentType of every rendered document.
const ContentType = "application/pdf"

// Options tune a render. Theme and Layout are accepted for forward
// compatibility and currently do not change the output.
type Options struct {
	Language string
	Theme    string
	Layout   string
	// Date stamps the footer and the document creation date. Zero means now.
	Date time.Time
}

// Document is a rendered, single page PDF.
type Document struct {
	Bytes       []byte
	ContentType string
}

// Engine renders bundles into PDFs. The zero value is ready to use and safe
// for concurrent use.
type Engine struct{}

// NewEngine constructs an Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Render lays out b and encodes it.
func (e *Engine) Render(ctx context.Context, b portfolio.Bundle, opts Options) (Document, error) {
	return Render(ctx, b, opts)
}

// Render validates b, lays it out on a single A4 page and encodes it as
// PDF. Invalid input is reported as *RenderError.
func Render(ctx context.Context, b portfolio.Bundle, opts Options) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if err := b.Validate(); err != nil {
		return Document{}, &RenderError{Message: "invalid profile data", Cause: err}
	}

	date := opts.Date
	if date.IsZero() {
		date = time.Now()
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(marginX, marginX, marginX)
	doc.SetAutoPageBreak(false, 0)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	pg := planPage(b, localeFor(opts.Language), date, fpdfMeasure(doc, tr))

	doc.SetTitle(pg.Meta.Title, true)
	doc.SetSubject(pg.Meta.Subject, true)
	doc.SetAuthor(pg.Meta.Author, true)
	doc.SetKeywords(pg.Meta.Keywords, true)
	doc.SetCreator(pg.Meta.Creator, true)
	doc.SetCreationDate(date)

	doc.AddPage()
	paint(doc, tr, pg)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return Document{}, fmt.Errorf("encode pdf: %w", err)
	}
	return Document{Bytes: buf.Bytes(), ContentType: ContentType}, nil
}

// fpdfMeasure measures text the way paint will draw it: translated to the
// core font code page.
func fpdfMeasure(doc *fpdf.Fpdf, tr func(string) string) measureFunc {
	return func(s string, font fontSpec) float64 {
		doc.SetFont(fontFamily, font.Style, font.Size)
		return doc.GetStringWidth(tr(s))
	}
}

func paint(doc *fpdf.Fpdf, tr func(string) string, pg page) {
	for _, el := range pg.Elements {
		switch el.Kind {
		case rectElement:
			doc.SetFillColor(el.Color.R, el.Color.G, el.Color.B)
			doc.Rect(el.X, el.Y, el.W, el.H, "F")
		case lineElement:
			doc.SetDrawColor(el.Color.R, el.Color.G, el.Color.B)
			doc.SetLineWidth(el.LineWidth)
			doc.Line(el.X, el.Y, el.X2, el.Y2)
		case textElement:
			doc.SetFont(fontFamily, el.Font.Style, el.Font.Size)
			doc.SetTextColor(el.Color.R, el.Color.G, el.Color.B)
			doc.Text(el.X, el.Y, tr(el.Text))
		}
	}
}
