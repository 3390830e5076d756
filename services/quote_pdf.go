package services

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	quoteTextWidth     = contentRight - marginLeft
	bulletIndent       = 7.0
	signatureWidth     = 50.0
	signatureMaxHeight = 20.0
	acceptanceSpace    = 45.0
	quoteFooterOffset  = 15.0
)

const emptyScopeText = "No scope items listed."

// ComposeQuote renders a client quote. The estimate line prints the
// persisted subtotal, GST and total as stored on q.
func ComposeQuote(q QuoteDocument, opts ...RenderOption) (*Document, error) {
	o := newRenderOptions(KindQuote, opts...)
	c := newPDFCanvas("Quote "+q.QuoteNumber, o.Now())

	composeQuote(c, q, o)

	data, err := c.bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate quote PDF: %w", err)
	}

	o.Logger.Debug("composed quote",
		zap.String("quote_number", q.QuoteNumber),
		zap.Int("pages", c.PageCount()),
	)
	return newDocument(KindQuote, q.QuoteNumber, data), nil
}

func composeQuote(c Canvas, q QuoteDocument, o RenderOptions) {
	cur := NewCursor(c, pageHeight, marginTop, marginBottom)
	cur.NewPage()

	renderLetterhead(c, cur, o.Company, q.QuoteNumber)

	setRegular(c, 10)
	c.Text(marginLeft, cur.Y, formatLongDate(o.Now()))
	cur.Advance(12)

	greetee := q.ClientContact
	if greetee == "" {
		greetee = q.ClientName
	}
	paragraph(c, cur, fmt.Sprintf("Dear %s,", greetee))
	cur.Advance(4)

	setBold(c, 10)
	paragraph(c, cur, "Re: "+projectReference(q))
	cur.Advance(4)

	setRegular(c, 10)
	paragraph(c, cur, "Thank you for the opportunity to quote on the following works:")
	cur.Advance(4)

	renderScope(c, cur, q.Items)
	renderEstimate(c, cur, q)

	if q.Notes != "" {
		cur.RequestSpace(sectionHeadSpace)
		setBold(c, 10)
		paragraph(c, cur, "Notes")
		setRegular(c, 10)
		paragraph(c, cur, q.Notes)
		cur.Advance(4)
	}

	if q.ValidUntil != nil {
		setRegular(c, 10)
		paragraph(c, cur, fmt.Sprintf("This quote is valid until %s.", formatLongDate(*q.ValidUntil)))
		cur.Advance(4)
	}

	renderSignoff(c, cur, o.Company)

	if q.Signature != nil {
		renderAcceptance(c, cur, *q.Signature, q.QuoteNumber, o.Logger)
	}

	renderQuoteFooter(c, o.Company)
}

// paragraph flows text across the full content width and leaves the cursor
// on the line below it.
func paragraph(c Canvas, cur *Cursor, text string) {
	cur.RequestSpace(LineHeight)
	n := FlowText(c, cur, marginLeft, quoteTextWidth, text)
	cur.Advance(rowAdvance(LineHeight, n))
}

func projectReference(q QuoteDocument) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{q.ProjectAddress, q.ProjectDescription} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Quote " + q.QuoteNumber
	}
	return strings.Join(parts, " - ")
}

func renderLetterhead(c Canvas, cur *Cursor, company CompanyProfile, quoteNumber string) {
	setBold(c, 18)
	c.Text(marginLeft, cur.Y+2, company.Name)
	setBold(c, 14)
	textRight(c, contentRight, cur.Y+2, "QUOTE")
	cur.Advance(9)

	setRegular(c, 9)
	c.SetTextColor(100, 100, 100)
	if company.Address != "" {
		c.Text(marginLeft, cur.Y, company.Address)
	}
	textRight(c, contentRight, cur.Y, "No. "+quoteNumber)
	cur.Advance(5)

	contact := make([]string, 0, 2)
	for _, s := range []string{company.Phone, company.Email} {
		if s != "" {
			contact = append(contact, s)
		}
	}
	if len(contact) > 0 {
		c.Text(marginLeft, cur.Y, strings.Join(contact, " | "))
		cur.Advance(5)
	}
	c.SetTextColor(0, 0, 0)

	c.SetLineWidth(0.6)
	rule(c, cur.Y)
	c.SetLineWidth(0.2)
	cur.Advance(12)
}

// renderScope prints one wrapped bullet per line item, or a placeholder
// when the quote has none.
func renderScope(c Canvas, cur *Cursor, items []QuoteItem) {
	cur.RequestSpace(sectionHeadSpace)
	setBold(c, 11)
	c.Text(marginLeft, cur.Y, "Scope of Works")
	cur.Advance(8)

	setRegular(c, 10)
	if len(items) == 0 {
		c.Text(marginLeft, cur.Y, emptyScopeText)
		cur.Advance(10)
		return
	}

	for _, it := range items {
		cur.RequestSpace(LineHeight)
		c.Text(marginLeft+2, cur.Y, "•")
		n := FlowText(c, cur, marginLeft+bulletIndent, quoteTextWidth-bulletIndent, it.Description)
		cur.Advance(rowAdvance(LineHeight, n) + 1)
	}
	cur.Advance(5)
}

func renderEstimate(c Canvas, cur *Cursor, q QuoteDocument) {
	cur.RequestSpace(20)
	setBold(c, 11)
	paragraph(c, cur, fmt.Sprintf("Estimated Total: %s + GST", formatAmount(q.Subtotal)))
	setRegular(c, 10)
	paragraph(c, cur, fmt.Sprintf("GST %s, total %s including GST.", formatAmount(q.GSTAmount), formatAmount(q.TotalAmount)))
	cur.Advance(6)
}

func renderSignoff(c Canvas, cur *Cursor, company CompanyProfile) {
	cur.RequestSpace(35)
	setRegular(c, 10)
	c.Text(marginLeft, cur.Y, "Yours sincerely,")
	cur.Advance(18)
	c.Line(marginLeft, cur.Y, marginLeft+60, cur.Y)
	cur.Advance(5)
	if company.Signatory != "" {
		setBold(c, 10)
		c.Text(marginLeft, cur.Y, company.Signatory)
		cur.Advance(5)
	}
	if company.Name != "" {
		setRegular(c, 9)
		c.Text(marginLeft, cur.Y, company.Name)
		cur.Advance(5)
	}
	cur.Advance(8)
}

// renderAcceptance prints the client's signed acceptance. A signature image
// that cannot be embedded is logged and skipped; the rest of the block still
// renders.
func renderAcceptance(c Canvas, cur *Cursor, sig Signature, quoteNumber string, logger *zap.Logger) {
	cur.RequestSpace(acceptanceSpace)
	setBold(c, 11)
	c.Text(marginLeft, cur.Y, "Acceptance")
	rule(c, cur.Y+2)
	cur.Advance(9)

	setRegular(c, 10)
	c.Text(marginLeft, cur.Y, "Accepted by: "+sig.SignerName)
	cur.Advance(6)
	c.Text(marginLeft, cur.Y, "Date: "+formatLongDate(sig.SignedAt))
	cur.Advance(4)

	if sig.ImageData == "" {
		cur.Advance(6)
		return
	}
	name := "signature-" + sanitizeFilename(quoteNumber)
	drawn, err := embedSignature(c, name, sig.ImageData, marginLeft, cur.Y, signatureWidth, signatureMaxHeight)
	if err != nil {
		logger.Warn("signature image skipped",
			zap.String("quote_number", quoteNumber),
			zap.String("signer", sig.SignerName),
			zap.Error(err),
		)
		cur.Advance(6)
		return
	}
	cur.Advance(drawn + 6)
}

// renderQuoteFooter prints registration identifiers at the foot of the
// current page, below the content area.
func renderQuoteFooter(c Canvas, company CompanyProfile) {
	parts := make([]string, 0, 2)
	if company.ABN != "" {
		parts = append(parts, "ABN "+company.ABN)
	}
	if company.LicenceNumber != "" {
		parts = append(parts, "Builder Licence "+company.LicenceNumber)
	}
	if len(parts) == 0 {
		return
	}
	footer := strings.Join(parts, " | ")
	setRegular(c, 8)
	c.SetTextColor(100, 100, 100)
	c.Text((pageWidth-c.GetStringWidth(footer))/2, pageHeight-quoteFooterOffset, footer)
	c.SetTextColor(0, 0, 0)
}
