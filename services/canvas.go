package services

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"
)

// Page geometry shared by the gofpdf-backed documents, in millimetres.
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 20.0
	marginBottom = 20.0
	contentRight = pageWidth - marginRight
)

// Canvas is the drawing surface section renderers write to. *gofpdf.Fpdf
// provides every method; tests substitute a recorder.
type Canvas interface {
	Pager
	Measurer
	SetFont(family, style string, size float64)
	SetTextColor(r, g, b int)
	SetDrawColor(r, g, b int)
	SetLineWidth(width float64)
	Text(x, y float64, txt string)
	Line(x1, y1, x2, y2 float64)
	LinkString(x, y, w, h float64, link string)
	RegisterImageOptionsReader(name string, options gofpdf.ImageOptions, r io.Reader) *gofpdf.ImageInfoType
	ImageOptions(name string, x, y, w, h float64, flow bool, options gofpdf.ImageOptions, link int, linkStr string)
	PageNo() int
}

// pdfCanvas adapts gofpdf to Canvas. Core fonts are cp1252, so text and width
// measurements pass through the same translator.
type pdfCanvas struct {
	*gofpdf.Fpdf
	tr func(string) string
}

func newPDFCanvas(title string, created time.Time) *pdfCanvas {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetCreator("jobcosting", true)
	pdf.SetTitle(title, true)
	pdf.SetCreationDate(created)
	pdf.SetCatalogSort(true)
	pdf.AliasNbPages("{nb}")

	c := &pdfCanvas{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(120, 120, 120)
		pdf.SetXY(marginLeft, pageHeight-10)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, 4,
			fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	return c
}

func (c *pdfCanvas) Text(x, y float64, txt string) {
	c.Fpdf.Text(x, y, c.tr(txt))
}

func (c *pdfCanvas) GetStringWidth(s string) float64 {
	return c.Fpdf.GetStringWidth(c.tr(s))
}

// bytes finalizes the document. Any error recorded by gofpdf during drawing
// surfaces here.
func (c *pdfCanvas) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Text helpers shared by the renderers.

func setBold(c Canvas, size float64) {
	c.SetFont("Helvetica", "B", size)
}

func setRegular(c Canvas, size float64) {
	c.SetFont("Helvetica", "", size)
}

// textRight draws s so that it ends at xRight.
func textRight(c Canvas, xRight, y float64, s string) {
	c.Text(xRight-c.GetStringWidth(s), y, s)
}

// rule draws a horizontal line across the content width just below y.
func rule(c Canvas, y float64) {
	c.Line(marginLeft, y, contentRight, y)
}
