package services

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/phpdave11/gofpdf"
)

// charWidth is the fixed width of every rune on the recording canvas.
const charWidth = 2.0

type drawOp struct {
	kind string // text, line, link, image
	page int
	x, y float64
	w, h float64
	text string
	font string
}

// recordingCanvas implements Canvas by recording every draw call with the
// page it landed on. Every rune is charWidth wide.
type recordingCanvas struct {
	page   int
	font   string
	ops    []drawOp
	images map[string]int
}

func newRecordingCanvas() *recordingCanvas {
	return &recordingCanvas{images: map[string]int{}}
}

func (r *recordingCanvas) AddPage() { r.page++ }
func (r *recordingCanvas) PageNo() int { return r.page }

func (r *recordingCanvas) GetStringWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * charWidth
}

func (r *recordingCanvas) SetFont(family, style string, size float64) { r.font = style }
func (r *recordingCanvas) SetTextColor(_, _, _ int)                   {}
func (r *recordingCanvas) SetDrawColor(_, _, _ int)                   {}
func (r *recordingCanvas) SetLineWidth(_ float64)                     {}

func (r *recordingCanvas) Text(x, y float64, txt string) {
	r.ops = append(r.ops, drawOp{kind: "text", page: r.page, x: x, y: y, text: txt, font: r.font})
}

func (r *recordingCanvas) Line(x1, y1, x2, y2 float64) {
	r.ops = append(r.ops, drawOp{kind: "line", page: r.page, x: x1, y: y1, w: x2 - x1})
}

func (r *recordingCanvas) LinkString(x, y, w, h float64, link string) {
	r.ops = append(r.ops, drawOp{kind: "link", page: r.page, x: x, y: y, w: w, h: h, text: link})
}

func (r *recordingCanvas) RegisterImageOptionsReader(name string, _ gofpdf.ImageOptions, rd io.Reader) *gofpdf.ImageInfoType {
	b, _ := io.ReadAll(rd)
	r.images[name] = len(b)
	return &gofpdf.ImageInfoType{}
}

func (r *recordingCanvas) ImageOptions(name string, x, y, w, h float64, _ bool, _ gofpdf.ImageOptions, _ int, _ string) {
	r.ops = append(r.ops, drawOp{kind: "image", page: r.page, x: x, y: y, w: w, h: h, text: name})
}

// texts returns every text op whose text contains substr.
func (r *recordingCanvas) texts(substr string) []drawOp {
	var out []drawOp
	for _, op := range r.ops {
		if op.kind == "text" && strings.Contains(op.text, substr) {
			out = append(out, op)
		}
	}
	return out
}

// find returns the first text op equal to s.
func (r *recordingCanvas) find(t *testing.T, s string) drawOp {
	t.Helper()
	for _, op := range r.ops {
		if op.kind == "text" && op.text == s {
			return op
		}
	}
	t.Fatalf("no text op %q was drawn", s)
	return drawOp{}
}

func (r *recordingCanvas) has(s string) bool {
	for _, op := range r.ops {
		if op.kind == "text" && op.text == s {
			return true
		}
	}
	return false
}

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func testOptions(kind DocumentKind, opts ...RenderOption) RenderOptions {
	return newRenderOptions(kind, append([]RenderOption{WithClock(func() time.Time { return fixedNow })}, opts...)...)
}

func assertPDF(t *testing.T, b []byte) {
	t.Helper()
	if len(b) < 5 {
		t.Fatalf("PDF too short: %d bytes", len(b))
	}
	if string(b[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header, got %q", string(b[:5]))
	}
}

func pageCount(t *testing.T, b []byte) int {
	t.Helper()
	api.DisableConfigDir()
	n, err := api.PageCount(bytes.NewReader(b), nil)
	if err != nil {
		t.Fatalf("PageCount() error = %v", err)
	}
	return n
}

func TestPDFCanvas_TranslatesWidths(t *testing.T) {
	c := newPDFCanvas("width", fixedNow)
	c.AddPage()
	setRegular(c, 10)

	if w := c.GetStringWidth("•"); w <= 0 {
		t.Errorf("GetStringWidth(bullet) = %v, want > 0", w)
	}
	if a, b := c.GetStringWidth("abc"), c.GetStringWidth("abcabc"); b <= a {
		t.Errorf("width of longer string %v not greater than %v", b, a)
	}
}

func TestPDFCanvas_BytesIsPDF(t *testing.T) {
	c := newPDFCanvas("bytes", fixedNow)
	c.AddPage()
	setRegular(c, 10)
	c.Text(marginLeft, marginTop, "hello")

	b, err := c.bytes()
	if err != nil {
		t.Fatalf("bytes() error = %v", err)
	}
	assertPDF(t, b)
	if n := pageCount(t, b); n != 1 {
		t.Errorf("page count = %d, want 1", n)
	}
}
