package services

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func composeRecorded(t *testing.T, job JobDocument, opts ...RenderOption) (*recordingCanvas, Financials) {
	t.Helper()
	c := newRecordingCanvas()
	fin := composeJobCostSheet(c, job, testOptions(KindJobCostSheet, opts...))
	return c, fin
}

func TestComposeJobCostSheet_Scenario(t *testing.T) {
	c, fin := composeRecorded(t, scenarioJob())

	assertDecimal(t, "FinalTotal", fin.FinalTotal, "919.6")
	for _, s := range []string{
		"JOB COST SHEET",
		"LABOUR",
		"MATERIALS",
		"SUMMARY",
		"$640.00",
		"$760.00",
		"Builder's Margin (10%)",
		"$76.00",
		"Subtotal incl. Margin",
		"$836.00",
		"GST (10%)",
		"$83.60",
		"TOTAL (incl. GST)",
		"$919.60",
	} {
		if !c.has(s) {
			t.Errorf("cost sheet is missing %q", s)
		}
	}
}

func TestComposeJobCostSheet_OmitsEmptySections(t *testing.T) {
	job := scenarioJob()
	job.Materials = nil

	c, fin := composeRecorded(t, job)

	for _, s := range []string{
		"MATERIALS", "SUB-TRADES", "OTHER COSTS", "TIP FEES",
		"Total Materials", "Total Sub-Trades", "Total Other Costs", "Total Tip Fees",
		"TIMESHEETS", "COMPLIANCE RECORDS", "ATTACHMENTS",
	} {
		if c.has(s) {
			t.Errorf("cost sheet drew %q for an empty section", s)
		}
	}
	if !c.has("LABOUR") || !c.has("SUMMARY") {
		t.Error("labour or summary missing")
	}
	assertDecimal(t, "Subtotal", fin.Subtotal, "640")
	if c.page != 1 {
		t.Errorf("pages = %d, want 1", c.page)
	}
}

func TestComposeJobCostSheet_ZeroMarginHidesMarginLines(t *testing.T) {
	job := scenarioJob()
	job.BuilderMarginPercent = 0

	c, fin := composeRecorded(t, job)

	if len(c.texts("Builder's Margin")) > 0 || c.has("Subtotal incl. Margin") {
		t.Error("margin lines drawn for a zero margin")
	}
	assertDecimal(t, "FinalTotal", fin.FinalTotal, "836")
	if !c.has("$836.00") {
		t.Error("final total $836.00 not drawn")
	}
}

func TestComposeJobCostSheet_EmptyJobStillSummarises(t *testing.T) {
	c, fin := composeRecorded(t, JobDocument{ID: "empty"})

	if !fin.FinalTotal.IsZero() {
		t.Errorf("FinalTotal = %s, want 0", fin.FinalTotal)
	}
	if !c.has("SUMMARY") || !c.has("$0.00") {
		t.Error("summary not drawn for a job without costs")
	}
	for _, s := range []string{"LABOUR", "MATERIALS", "SUB-TRADES", "OTHER COSTS", "TIP FEES"} {
		if c.has(s) {
			t.Errorf("empty job drew section %q", s)
		}
	}
}

// A cost table that breaks across pages repeats its column headers at the
// top of each continuation page.
func TestComposeJobCostSheet_RepeatsHeadersAfterBreak(t *testing.T) {
	job := JobDocument{ID: "headers", Address: "2 Break St"}
	for i := 0; i < 60; i++ {
		job.Labor = append(job.Labor, LaborEntry{StaffName: "Crew", HourlyRate: 40, HoursLogged: 1})
	}

	c, _ := composeRecorded(t, job)

	rowPages := map[int]bool{}
	for _, op := range c.texts("Crew") {
		rowPages[op.page] = true
	}
	if len(rowPages) < 2 {
		t.Fatalf("labour rows on %d pages, want at least 2", len(rowPages))
	}

	headers := map[int]drawOp{}
	for _, op := range c.ops {
		if op.kind == "text" && op.text == "Staff" {
			headers[op.page] = op
		}
	}
	for page := range rowPages {
		h, ok := headers[page]
		if !ok {
			t.Errorf("page %d has labour rows but no column header", page)
			continue
		}
		for _, op := range c.texts("Crew") {
			if op.page == page && op.y <= h.y {
				t.Errorf("page %d: row at y=%v is above its header at y=%v", page, op.y, h.y)
			}
		}
	}
}

func TestComposeJobCostSheet_TipFeeShowsPersistedTotal(t *testing.T) {
	job := JobDocument{
		ID:      "tip",
		TipFees: []TipFee{{Description: "Mixed waste", BaseAmount: 100, CartageAmount: 20, TotalAmount: 130}},
	}

	c, fin := composeRecorded(t, job)

	assertDecimal(t, "Subtotal", fin.Subtotal, "130")
	for _, s := range []string{"$100.00", "$20.00", "$130.00", "Total Tip Fees"} {
		if !c.has(s) {
			t.Errorf("tip fee section is missing %q", s)
		}
	}
	if c.has("$120.00") {
		t.Error("tip fee total was recomputed from base and cartage")
	}
}

func longDescription(n int) string {
	s := strings.Repeat("lorem ipsum dolor sit amet ", n/27+1)
	return s[:n]
}

// Text on a page is drawn top to bottom and stays inside the content area,
// wherever the long row happens to fall.
func TestComposeJobCostSheet_LongOtherCostFlowsAcrossPages(t *testing.T) {
	spanned := false
	limit := pageHeight - marginBottom

	for n := 0; n <= 40; n++ {
		job := JobDocument{
			ID:         "flow",
			Address:    "1 Long Rd",
			OtherCosts: []OtherCost{{Description: longDescription(400), Amount: 55}},
			TipFees:    []TipFee{{Description: "Skip", TotalAmount: 10}},
		}
		for i := 0; i < n; i++ {
			job.Labor = append(job.Labor, LaborEntry{StaffName: "Crew", HourlyRate: 40, HoursLogged: 1})
		}

		c, _ := composeRecorded(t, job)

		lastY := map[int]float64{}
		inOther := false
		otherPages := map[int]bool{}
		for _, op := range c.ops {
			if op.kind != "text" {
				continue
			}
			if op.y > limit {
				t.Fatalf("n=%d: %q drawn at y=%v below the content area", n, op.text, op.y)
			}
			if op.y < lastY[op.page] {
				t.Fatalf("n=%d: %q at y=%v overlaps earlier content at y=%v on page %d",
					n, op.text, op.y, lastY[op.page], op.page)
			}
			lastY[op.page] = op.y

			switch op.text {
			case "OTHER COSTS":
				inOther = true
				continue
			case "Total Other Costs":
				inOther = false
			}
			if inOther && op.x == marginLeft && op.text != "Description" {
				otherPages[op.page] = true
			}
		}
		if len(otherPages) > 1 {
			spanned = true
		}

		tip := c.find(t, "TIP FEES")
		total := c.find(t, "Total Other Costs")
		if tip.page < total.page || (tip.page == total.page && tip.y <= total.y) {
			t.Fatalf("n=%d: TIP FEES header at page %d y=%v does not follow other costs", n, tip.page, tip.y)
		}
	}

	if !spanned {
		t.Error("no labour count pushed the long description across a page break")
	}
}

func timesheetJob() JobDocument {
	job := scenarioJob()
	job.Timesheets = []TimesheetEntry{
		{Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Hours: 4, StaffName: "Alex", Approved: true},
		{Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), Hours: 6.5, StaffName: "Jo"},
		{Date: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), Hours: 2, StaffName: "Alex", Note: "Site clean-up", Approved: true},
	}
	job.Compliance = []ComplianceSignature{
		{DocumentTitle: "SWMS - Working at heights", SignerName: "Alex", Occupation: "Carpenter", SignedAt: time.Date(2025, 3, 1, 7, 15, 0, 0, time.UTC)},
	}
	job.Files = []AttachedFile{
		{Name: "plans.pdf", ExternalLink: "https://files.example.com/plans.pdf"},
		{Name: "site-photo.jpg"},
	}
	return job
}

func TestComposeJobCostSheet_TrailingSectionsStartNewPages(t *testing.T) {
	c, _ := composeRecorded(t, timesheetJob())

	summary := c.find(t, "SUMMARY")
	for i, title := range []string{"TIMESHEETS", "COMPLIANCE RECORDS", "ATTACHMENTS"} {
		op := c.find(t, title)
		if want := summary.page + i + 1; op.page != want {
			t.Errorf("%s on page %d, want %d", title, op.page, want)
		}
		if op.y != marginTop {
			t.Errorf("%s at y=%v, want top margin", title, op.y)
		}
	}
}

func TestComposeJobCostSheet_TimesheetsNewestFirst(t *testing.T) {
	job := timesheetJob()
	c, _ := composeRecorded(t, job)

	var dates []string
	for _, op := range c.ops {
		if op.kind == "text" && op.x == marginLeft && strings.Count(op.text, "/") == 2 && op.page == c.find(t, "TIMESHEETS").page {
			dates = append(dates, op.text)
		}
	}
	want := []string{"10/03/2025", "05/03/2025", "01/03/2025"}
	if strings.Join(dates, ",") != strings.Join(want, ",") {
		t.Errorf("timesheet dates drawn as %v, want %v", dates, want)
	}
	if job.Timesheets[0].StaffName != "Alex" || job.Timesheets[1].Hours != 6.5 {
		t.Error("sorting modified the input entries")
	}

	for _, s := range []string{"12.50", "6.00", "6.50", "Approved", "Pending", "Site clean-up"} {
		if !c.has(s) {
			t.Errorf("timesheet section is missing %q", s)
		}
	}
}

func TestCalcTimesheetTotals(t *testing.T) {
	totals := calcTimesheetTotals(timesheetJob().Timesheets)

	if totals.Entries != 3 {
		t.Errorf("Entries = %d, want 3", totals.Entries)
	}
	assertDecimal(t, "TotalHours", totals.TotalHours, "12.5")
	assertDecimal(t, "ApprovedHours", totals.ApprovedHours, "6")
	assertDecimal(t, "PendingHours", totals.PendingHours(), "6.5")
}

func TestComposeJobCostSheet_AttachmentLinks(t *testing.T) {
	c, _ := composeRecorded(t, timesheetJob())

	var links []drawOp
	for _, op := range c.ops {
		if op.kind == "link" {
			links = append(links, op)
		}
	}
	if len(links) != 1 {
		t.Fatalf("got %d links, want 1 for the externally linked file", len(links))
	}

	name := c.find(t, "plans.pdf")
	link := links[0]
	h := attachmentNameSize * 25.4 / 72
	if link.text != "https://files.example.com/plans.pdf" {
		t.Errorf("link target = %q", link.text)
	}
	if link.page != name.page || link.x != name.x {
		t.Errorf("link at page %d x=%v, name at page %d x=%v", link.page, link.x, name.page, name.x)
	}
	if want := c.GetStringWidth("plans.pdf"); link.w != want {
		t.Errorf("link width = %v, want text width %v", link.w, want)
	}
	if link.h != h || link.y != name.y-0.75*h {
		t.Errorf("link box y=%v h=%v, want y=%v h=%v", link.y, link.h, name.y-0.75*h, h)
	}

	if !c.has("Click to open") || !c.has("Available in system") {
		t.Error("attachment captions missing")
	}
}

func TestComposeJobCostSheet_CompanyInHeader(t *testing.T) {
	c, _ := composeRecorded(t, scenarioJob(), WithCompany(CompanyProfile{Name: "Coastline Builders"}))

	op := c.find(t, "Coastline Builders")
	if op.page != 1 {
		t.Errorf("company name on page %d, want 1", op.page)
	}
	if !c.has("14 March 2025") {
		t.Error("generation date not taken from the render clock")
	}
}

func TestComposeJobCostSheet_PDF(t *testing.T) {
	sheet, err := ComposeJobCostSheet(timesheetJob(), WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("ComposeJobCostSheet() error = %v", err)
	}

	assertPDF(t, sheet.Bytes())
	if n := pageCount(t, sheet.Bytes()); n != 4 {
		t.Errorf("page count = %d, want 4", n)
	}
	assertDecimal(t, "FinalTotal", sheet.Financials.FinalTotal, "919.6")
	if got := sheet.Filename(); got != "12-Harbour-St--Manly-job-cost-sheet.pdf" {
		t.Errorf("Filename() = %q", got)
	}
}

func TestComposeJobCostSheet_IdentifierFallsBackToID(t *testing.T) {
	sheet, err := ComposeJobCostSheet(JobDocument{ID: "abc123"})
	if err != nil {
		t.Fatalf("ComposeJobCostSheet() error = %v", err)
	}
	if got := sheet.Filename(); got != "abc123-job-cost-sheet.pdf" {
		t.Errorf("Filename() = %q", got)
	}
}

func TestComposeJobCostSheet_ConcurrentRendersAreIdentical(t *testing.T) {
	job := timesheetJob()
	clock := WithClock(func() time.Time { return fixedNow })

	const workers = 8
	results := make([][]byte, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sheet, err := ComposeJobCostSheet(job, clock)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = sheet.Bytes()
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if !bytes.Equal(results[i], results[0]) {
			t.Errorf("worker %d produced different bytes", i)
		}
	}
}
