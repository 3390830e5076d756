package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const costSheetName = "Cost Sheet"

// GenerateJobCostExcel creates a workbook listing every cost section of job
// with the same financials printed on the PDF cost sheet.
func GenerateJobCostExcel(job JobDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), costSheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E"}
	widths := []float64{44, 24, 14, 14, 16}
	for i, c := range columns {
		if err := f.SetColWidth(costSheetName, c, c, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	st, err := newCostSheetStyles(f)
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f, row: 1, styles: st}

	w.title("Job Cost Sheet")
	w.meta("Job", job.ID)
	w.meta("Address", job.Address)
	w.meta("Client", job.ClientName)
	w.meta("Manager", job.ManagerName)
	w.meta("Status", job.Status)
	w.row++

	totals := CalcSectionTotals(job)

	if len(job.Labor) > 0 {
		rows := make([][]any, 0, len(job.Labor))
		for _, l := range job.Labor {
			rows = append(rows, []any{l.StaffName, "", l.HoursLogged, l.HourlyRate, laborEntryTotal(l).InexactFloat64()})
		}
		w.section("Labour", []string{"Staff", "", "Hours", "Rate", "Total"}, rows, 3, totals.Labor)
	}
	if len(job.Materials) > 0 {
		rows := make([][]any, 0, len(job.Materials))
		for _, m := range job.Materials {
			rows = append(rows, []any{m.Description, m.Supplier, excelDate(m.InvoiceDate), "", m.Amount})
		}
		w.section("Materials", []string{"Description", "Supplier", "Invoice Date", "", "Amount"}, rows, 2, totals.Materials)
	}
	if len(job.SubTrades) > 0 {
		rows := make([][]any, 0, len(job.SubTrades))
		for _, s := range job.SubTrades {
			rows = append(rows, []any{s.Trade, s.Contractor, excelDate(s.InvoiceDate), "", s.Amount})
		}
		w.section("Sub-Trades", []string{"Trade", "Contractor", "Invoice Date", "", "Amount"}, rows, 2, totals.SubTrades)
	}
	if len(job.OtherCosts) > 0 {
		rows := make([][]any, 0, len(job.OtherCosts))
		for _, o := range job.OtherCosts {
			rows = append(rows, []any{o.Description, "", "", "", o.Amount})
		}
		w.section("Other Costs", []string{"Description", "", "", "", "Amount"}, rows, 2, totals.OtherCosts)
	}
	if len(job.TipFees) > 0 {
		rows := make([][]any, 0, len(job.TipFees))
		for _, t := range job.TipFees {
			rows = append(rows, []any{t.Description, "", t.BaseAmount, t.CartageAmount, t.TotalAmount})
		}
		w.section("Tip Fees", []string{"Description", "", "Base", "Cartage", "Total"}, rows, 2, totals.TipFees)
	}

	fin := CalcFinancials(totals, job.BuilderMarginPercent)
	w.summary("Subtotal", fin.Subtotal)
	if fin.ShowMargin() {
		w.summary(fmt.Sprintf("Builder's Margin (%s)", formatPercent(job.BuilderMarginPercent)), fin.MarginAmount)
		w.summary("Subtotal incl. Margin", fin.SubtotalWithMargin)
	}
	w.summary("GST (10%)", fin.GSTAmount)
	w.summary("TOTAL (incl. GST)", fin.FinalTotal)

	if w.err != nil {
		return nil, w.err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

type costSheetStyles struct {
	title, meta, header, body, money, total, summaryLabel, summaryValue int
}

func newCostSheetStyles(f *excelize.File) (costSheetStyles, error) {
	moneyFmt := "$#,##0.00"
	defs := []struct {
		name  string
		style *excelize.Style
	}{
		{"title", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}},
		{"meta", &excelize.Style{Font: &excelize.Font{Size: 11}}},
		{"header", &excelize.Style{
			Font:   &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
			Fill:   excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
			Border: thinBorders(),
		}},
		{"body", &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()}},
		{"money", &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders(), CustomNumFmt: &moneyFmt}},
		{"total", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 10}, CustomNumFmt: &moneyFmt}},
		{"summary label", &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 11},
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}},
		{"summary value", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}, CustomNumFmt: &moneyFmt}},
	}

	var st costSheetStyles
	targets := []*int{&st.title, &st.meta, &st.header, &st.body, &st.money, &st.total, &st.summaryLabel, &st.summaryValue}
	for i, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return st, fmt.Errorf("create %s style: %w", d.name, err)
		}
		*targets[i] = id
	}
	return st, nil
}

// sheetWriter appends rows to the cost sheet and keeps the first error.
type sheetWriter struct {
	f      *excelize.File
	row    int
	styles costSheetStyles
	err    error
}

func (w *sheetWriter) cell(col string) string {
	return fmt.Sprintf("%s%d", col, w.row)
}

func (w *sheetWriter) set(col string, v any, style int) {
	if w.err != nil {
		return
	}
	if s, ok := v.(string); ok {
		v = sanitizeExcelCell(s)
	}
	if err := w.f.SetCellValue(costSheetName, w.cell(col), v); err != nil {
		w.err = fmt.Errorf("set %s: %w", w.cell(col), err)
		return
	}
	if err := w.f.SetCellStyle(costSheetName, w.cell(col), w.cell(col), style); err != nil {
		w.err = fmt.Errorf("style %s: %w", w.cell(col), err)
	}
}

func (w *sheetWriter) title(s string) {
	if w.err == nil {
		if err := w.f.MergeCell(costSheetName, w.cell("A"), w.cell("E")); err != nil {
			w.err = fmt.Errorf("merge title: %w", err)
		}
	}
	w.set("A", s, w.styles.title)
	w.row += 2
}

func (w *sheetWriter) meta(label, value string) {
	if value == "" {
		return
	}
	w.set("A", label+": "+value, w.styles.meta)
	w.row++
}

// section writes a header row, the item rows and a total row. Float cells at
// or right of moneyFrom are formatted as currency.
func (w *sheetWriter) section(name string, headers []string, rows [][]any, moneyFrom int, total decimal.Decimal) {
	w.set("A", name, w.styles.summaryLabel)
	w.row++

	for i, h := range headers {
		w.set(string(rune('A'+i)), h, w.styles.header)
	}
	w.row++

	for _, r := range rows {
		for i, v := range r {
			style := w.styles.body
			if _, ok := v.(float64); ok && i >= moneyFrom {
				style = w.styles.money
			}
			w.set(string(rune('A'+i)), v, style)
		}
		w.row++
	}

	w.set("D", "Total "+name, w.styles.summaryLabel)
	w.set("E", total.InexactFloat64(), w.styles.total)
	w.row += 2
}

func (w *sheetWriter) summary(label string, amount decimal.Decimal) {
	w.set("D", label, w.styles.summaryLabel)
	w.set("E", amount.Round(2).InexactFloat64(), w.styles.summaryValue)
	w.row++
}

func excelDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return formatShortDate(*t)
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
