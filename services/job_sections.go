package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	baseRowHeight  = 8.0
	denseRowHeight = 7.0

	// Space requested before a section header so that it never lands at the
	// foot of a page without its first row.
	sectionHeadSpace = 9.0 + 6.0 + baseRowHeight
	// Space for the total row and divider under a cost table.
	totalRowSpace = 14.0
	// Dense tables (compliance, timesheets) ask for a conservative block.
	denseHeadSpace = 40.0
	summarySpace   = 50.0
)

type column struct {
	header string
	x      float64 // left edge, or right edge when right is set
	right  bool
}

// costTable describes one itemised cost section. The first column holds the
// free-text field and wraps at wrapWidth; zero disables wrapping.
type costTable struct {
	title      string
	columns    []column
	wrapWidth  float64
	totalLabel string
}

type costRow struct {
	text   string
	cells  []string
	amount decimal.Decimal
}

// renderSectionTitle draws a bold, underlined section title and moves the
// cursor below it.
func renderSectionTitle(c Canvas, cur *Cursor, title string) {
	setBold(c, 12)
	c.Text(marginLeft, cur.Y, title)
	c.SetLineWidth(0.4)
	rule(c, cur.Y+2)
	c.SetLineWidth(0.2)
	cur.Advance(9)
}

func renderColumnHeaders(c Canvas, cur *Cursor, cols []column) {
	setBold(c, 9)
	for _, col := range cols {
		drawCell(c, col, cur.Y, col.header)
	}
	cur.Advance(6)
}

func drawCell(c Canvas, col column, y float64, s string) {
	if col.right {
		textRight(c, col.x, y, s)
		return
	}
	c.Text(col.x, y, s)
}

// renderCostTable draws a cost section and returns its running total. An
// empty section draws nothing and totals zero.
func renderCostTable(c Canvas, cur *Cursor, t costTable, rows []costRow) decimal.Decimal {
	total := decimal.Zero
	if len(rows) == 0 {
		return total
	}

	cur.RequestSpace(sectionHeadSpace)
	renderSectionTitle(c, cur, t.title)
	renderColumnHeaders(c, cur, t.columns)

	first, rest := t.columns[0], t.columns[1:]
	for _, r := range rows {
		if cur.RequestSpace(baseRowHeight) {
			renderColumnHeaders(c, cur, t.columns)
		}
		setRegular(c, 9)
		y := cur.Y
		for i, col := range rest {
			if i < len(r.cells) {
				drawCell(c, col, y, r.cells[i])
			}
		}
		lines := 1
		if t.wrapWidth > 0 {
			lines = FlowText(c, cur, first.x, t.wrapWidth, r.text)
		} else {
			c.Text(first.x, y, r.text)
		}
		cur.Advance(rowAdvance(baseRowHeight, lines))
		total = total.Add(r.amount)
	}

	renderTotalRow(c, cur, t.totalLabel, total)
	return total
}

func renderTotalRow(c Canvas, cur *Cursor, label string, total decimal.Decimal) {
	if !cur.RequestSpace(totalRowSpace) {
		rule(c, cur.Y-4)
	}
	cur.Advance(2)
	setBold(c, 10)
	c.Text(marginLeft, cur.Y, label)
	textRight(c, contentRight, cur.Y, FormatMoney(total))
	cur.Advance(4)
	c.SetDrawColor(180, 180, 180)
	rule(c, cur.Y)
	c.SetDrawColor(0, 0, 0)
	cur.Advance(10)
}

var laborTable = costTable{
	title: "LABOUR",
	columns: []column{
		{header: "Staff", x: marginLeft},
		{header: "Hours", x: 120, right: true},
		{header: "Rate", x: 155, right: true},
		{header: "Total", x: contentRight, right: true},
	},
	totalLabel: "Total Labour",
}

func renderLabor(c Canvas, cur *Cursor, entries []LaborEntry) decimal.Decimal {
	rows := make([]costRow, 0, len(entries))
	for _, l := range entries {
		total := laborEntryTotal(l)
		rows = append(rows, costRow{
			text:   l.StaffName,
			cells:  []string{formatQty(l.HoursLogged), formatAmount(l.HourlyRate), FormatMoney(total)},
			amount: total,
		})
	}
	return renderCostTable(c, cur, laborTable, rows)
}

var materialsTable = costTable{
	title: "MATERIALS",
	columns: []column{
		{header: "Description", x: marginLeft},
		{header: "Supplier", x: 82},
		{header: "Invoice Date", x: 132},
		{header: "Amount", x: contentRight, right: true},
	},
	wrapWidth:  62,
	totalLabel: "Total Materials",
}

func renderMaterials(c Canvas, cur *Cursor, materials []Material) decimal.Decimal {
	rows := make([]costRow, 0, len(materials))
	for _, m := range materials {
		rows = append(rows, costRow{
			text:   m.Description,
			cells:  []string{truncate(m.Supplier, 24), formatOptionalDate(m.InvoiceDate), formatAmount(m.Amount)},
			amount: decimal.NewFromFloat(m.Amount),
		})
	}
	return renderCostTable(c, cur, materialsTable, rows)
}

var subTradesTable = costTable{
	title: "SUB-TRADES",
	columns: []column{
		{header: "Trade", x: marginLeft},
		{header: "Contractor", x: 82},
		{header: "Invoice Date", x: 132},
		{header: "Amount", x: contentRight, right: true},
	},
	wrapWidth:  62,
	totalLabel: "Total Sub-Trades",
}

func renderSubTrades(c Canvas, cur *Cursor, trades []SubTrade) decimal.Decimal {
	rows := make([]costRow, 0, len(trades))
	for _, s := range trades {
		rows = append(rows, costRow{
			text:   s.Trade,
			cells:  []string{truncate(s.Contractor, 24), formatOptionalDate(s.InvoiceDate), formatAmount(s.Amount)},
			amount: decimal.NewFromFloat(s.Amount),
		})
	}
	return renderCostTable(c, cur, subTradesTable, rows)
}

var otherCostsTable = costTable{
	title: "OTHER COSTS",
	columns: []column{
		{header: "Description", x: marginLeft},
		{header: "Amount", x: contentRight, right: true},
	},
	wrapWidth:  140,
	totalLabel: "Total Other Costs",
}

func renderOtherCosts(c Canvas, cur *Cursor, costs []OtherCost) decimal.Decimal {
	rows := make([]costRow, 0, len(costs))
	for _, o := range costs {
		rows = append(rows, costRow{
			text:   o.Description,
			cells:  []string{formatAmount(o.Amount)},
			amount: decimal.NewFromFloat(o.Amount),
		})
	}
	return renderCostTable(c, cur, otherCostsTable, rows)
}

var tipFeesTable = costTable{
	title: "TIP FEES",
	columns: []column{
		{header: "Description", x: marginLeft},
		{header: "Base", x: 125, right: true},
		{header: "Cartage", x: 160, right: true},
		{header: "Total", x: contentRight, right: true},
	},
	wrapWidth:  75,
	totalLabel: "Total Tip Fees",
}

// renderTipFees shows base and cartage per row but totals the persisted
// TotalAmount.
func renderTipFees(c Canvas, cur *Cursor, fees []TipFee) decimal.Decimal {
	rows := make([]costRow, 0, len(fees))
	for _, f := range fees {
		rows = append(rows, costRow{
			text:   f.Description,
			cells:  []string{formatAmount(f.BaseAmount), formatAmount(f.CartageAmount), formatAmount(f.TotalAmount)},
			amount: decimal.NewFromFloat(f.TotalAmount),
		})
	}
	return renderCostTable(c, cur, tipFeesTable, rows)
}

// renderSummary prints the aggregated financials exactly as computed.
func renderSummary(c Canvas, cur *Cursor, fin Financials) {
	cur.RequestSpace(summarySpace)
	renderSectionTitle(c, cur, "SUMMARY")

	type line struct {
		label  string
		amount decimal.Decimal
	}
	lines := []line{{"Subtotal", fin.Subtotal}}
	if fin.ShowMargin() {
		lines = append(lines,
			line{fmt.Sprintf("Builder's Margin (%s)", formatPercent(fin.MarginPercent.InexactFloat64())), fin.MarginAmount},
			line{"Subtotal incl. Margin", fin.SubtotalWithMargin},
		)
	}
	lines = append(lines, line{fmt.Sprintf("GST (%s)", formatPercent(gstRate.Mul(hundred).InexactFloat64())), fin.GSTAmount})

	setRegular(c, 10)
	for _, l := range lines {
		c.Text(110, cur.Y, l.label)
		textRight(c, contentRight, cur.Y, FormatMoney(l.amount))
		cur.Advance(7)
	}

	c.Line(110, cur.Y-4, contentRight, cur.Y-4)
	cur.Advance(2)
	setBold(c, 11)
	c.Text(110, cur.Y, "TOTAL (incl. GST)")
	textRight(c, contentRight, cur.Y, FormatMoney(fin.FinalTotal))
	cur.Advance(12)
}

// TimesheetTotals are the running hour totals of the timesheet section.
type TimesheetTotals struct {
	Entries       int
	TotalHours    decimal.Decimal
	ApprovedHours decimal.Decimal
}

func (t TimesheetTotals) PendingHours() decimal.Decimal {
	return t.TotalHours.Sub(t.ApprovedHours)
}

var timesheetColumns = []column{
	{header: "Date", x: marginLeft},
	{header: "Staff", x: 40},
	{header: "Hours", x: 105, right: true},
	{header: "Status", x: 112},
	{header: "Note", x: 135},
}

// Timesheet rows truncate rather than wrap so that each entry stays on
// one line.
const (
	timesheetStaffChars = 22
	timesheetNoteChars  = 30
)

// sortTimesheetsNewestFirst returns a sorted copy; the input is not modified.
func sortTimesheetsNewestFirst(entries []TimesheetEntry) []TimesheetEntry {
	sorted := make([]TimesheetEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	return sorted
}

func calcTimesheetTotals(entries []TimesheetEntry) TimesheetTotals {
	t := TimesheetTotals{Entries: len(entries)}
	for _, e := range entries {
		h := decimal.NewFromFloat(e.Hours)
		t.TotalHours = t.TotalHours.Add(h)
		if e.Approved {
			t.ApprovedHours = t.ApprovedHours.Add(h)
		}
	}
	return t
}

// renderTimesheets draws the timesheet table newest first, then its
// summary. Callers skip it for a job without timesheets.
func renderTimesheets(c Canvas, cur *Cursor, entries []TimesheetEntry) TimesheetTotals {
	cur.RequestSpace(denseHeadSpace)
	renderSectionTitle(c, cur, "TIMESHEETS")
	renderColumnHeaders(c, cur, timesheetColumns)

	setRegular(c, 9)
	for _, e := range sortTimesheetsNewestFirst(entries) {
		if cur.RequestSpace(denseRowHeight) {
			renderColumnHeaders(c, cur, timesheetColumns)
			setRegular(c, 9)
		}
		status := "Pending"
		if e.Approved {
			status = "Approved"
		}
		c.Text(timesheetColumns[0].x, cur.Y, formatShortDate(e.Date))
		c.Text(timesheetColumns[1].x, cur.Y, truncate(e.StaffName, timesheetStaffChars))
		textRight(c, timesheetColumns[2].x, cur.Y, formatQty(e.Hours))
		c.Text(timesheetColumns[3].x, cur.Y, status)
		c.Text(timesheetColumns[4].x, cur.Y, truncate(e.Note, timesheetNoteChars))
		cur.Advance(denseRowHeight)
	}

	totals := calcTimesheetTotals(entries)
	renderTimesheetSummary(c, cur, totals)
	return totals
}

func renderTimesheetSummary(c Canvas, cur *Cursor, t TimesheetTotals) {
	cur.Advance(4)
	cur.RequestSpace(denseHeadSpace)
	renderSectionTitle(c, cur, "TIMESHEET SUMMARY")

	lines := []struct{ label, value string }{
		{"Entries", fmt.Sprintf("%d", t.Entries)},
		{"Total Hours", t.TotalHours.StringFixed(2)},
		{"Approved Hours", t.ApprovedHours.StringFixed(2)},
		{"Pending Hours", t.PendingHours().StringFixed(2)},
	}
	for _, l := range lines {
		setBold(c, 10)
		c.Text(marginLeft, cur.Y, l.label)
		setRegular(c, 10)
		textRight(c, 90, cur.Y, l.value)
		cur.Advance(denseRowHeight)
	}
}

var complianceColumns = []column{
	{header: "Document", x: marginLeft},
	{header: "Signed By", x: 82},
	{header: "Occupation", x: 125},
	{header: "Signed", x: 160},
}

func renderCompliance(c Canvas, cur *Cursor, sigs []ComplianceSignature) {
	cur.RequestSpace(denseHeadSpace)
	renderSectionTitle(c, cur, "COMPLIANCE RECORDS")
	renderColumnHeaders(c, cur, complianceColumns)

	setRegular(c, 9)
	for _, s := range sigs {
		if cur.RequestSpace(denseRowHeight) {
			renderColumnHeaders(c, cur, complianceColumns)
			setRegular(c, 9)
		}
		c.Text(complianceColumns[0].x, cur.Y, truncate(s.DocumentTitle, 34))
		c.Text(complianceColumns[1].x, cur.Y, truncate(s.SignerName, 22))
		c.Text(complianceColumns[2].x, cur.Y, truncate(s.Occupation, 16))
		c.Text(complianceColumns[3].x, cur.Y, formatTimestamp(s.SignedAt))
		cur.Advance(denseRowHeight)
	}
}

const attachmentNameSize = 10.0

// linkBox returns the region covering text of the given point size drawn
// with its baseline at y.
func linkBox(x, baseline, width, sizePt float64) (float64, float64, float64, float64) {
	h := sizePt * 25.4 / 72
	return x, baseline - h*0.75, width, h
}

func renderAttachments(c Canvas, cur *Cursor, files []AttachedFile) {
	cur.RequestSpace(sectionHeadSpace)
	renderSectionTitle(c, cur, "ATTACHMENTS")

	for _, f := range files {
		cur.RequestSpace(14)
		setBold(c, attachmentNameSize)
		if f.ExternalLink != "" {
			c.SetTextColor(0, 70, 160)
			c.Text(marginLeft, cur.Y, f.Name)
			c.SetTextColor(0, 0, 0)
			x, y, w, h := linkBox(marginLeft, cur.Y, c.GetStringWidth(f.Name), attachmentNameSize)
			c.LinkString(x, y, w, h, f.ExternalLink)
		} else {
			c.Text(marginLeft, cur.Y, f.Name)
		}
		cur.Advance(5)

		setRegular(c, 8)
		c.SetTextColor(120, 120, 120)
		if f.ExternalLink != "" {
			c.Text(marginLeft, cur.Y, "Click to open")
		} else {
			c.Text(marginLeft, cur.Y, "Available in system")
		}
		c.SetTextColor(0, 0, 0)
		cur.Advance(9)
	}
}

func renderJobHeader(c Canvas, cur *Cursor, job JobDocument, company CompanyProfile, generated time.Time) {
	setBold(c, 18)
	c.Text(marginLeft, cur.Y+2, "JOB COST SHEET")
	if company.Name != "" {
		setRegular(c, 10)
		textRight(c, contentRight, cur.Y+2, company.Name)
	}
	cur.Advance(12)

	fields := []struct{ label, value string }{
		{"Job", job.ID},
		{"Address", job.Address},
		{"Client", job.ClientName},
		{"Manager", job.ManagerName},
		{"Status", job.Status},
		{"Generated", formatLongDate(generated)},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		setBold(c, 10)
		c.Text(marginLeft, cur.Y, f.label+":")
		setRegular(c, 10)
		n := FlowText(c, cur, 45, contentRight-45, f.value)
		cur.Advance(rowAdvance(LineHeight, n))
	}
	cur.Advance(2)
	c.SetLineWidth(0.6)
	rule(c, cur.Y)
	c.SetLineWidth(0.2)
	cur.Advance(10)
}
