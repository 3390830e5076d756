package services

// Pager starts a new page on the underlying document.
type Pager interface {
	AddPage()
}

// Cursor tracks the vertical write position on the current page. Every
// renderer receives the same *Cursor for one document; no two documents ever
// share one.
type Cursor struct {
	Y            float64
	PageHeight   float64
	TopMargin    float64
	BottomMargin float64

	pager Pager
	pages int
}

// NewCursor returns a cursor positioned at the top margin. It does not add a
// page; call NewPage to start the first one.
func NewCursor(p Pager, pageHeight, topMargin, bottomMargin float64) *Cursor {
	return &Cursor{
		Y:            topMargin,
		PageHeight:   pageHeight,
		TopMargin:    topMargin,
		BottomMargin: bottomMargin,
		pager:        p,
	}
}

// RequestSpace breaks to a new page when n units no longer fit above the
// bottom margin and reports whether it did. Exactly filling the page does not
// break.
func (c *Cursor) RequestSpace(n float64) bool {
	if c.Y+n > c.PageHeight-c.BottomMargin {
		c.NewPage()
		return true
	}
	return false
}

// NewPage unconditionally starts a page and resets Y to the top margin.
func (c *Cursor) NewPage() {
	c.pager.AddPage()
	c.pages++
	c.Y = c.TopMargin
}

// Advance moves the cursor down by n units without checking for space.
func (c *Cursor) Advance(n float64) {
	c.Y += n
}

// Remaining is the space left above the bottom margin.
func (c *Cursor) Remaining() float64 {
	return c.PageHeight - c.BottomMargin - c.Y
}

// Pages is the number of pages this cursor has started.
func (c *Cursor) Pages() int {
	return c.pages
}
