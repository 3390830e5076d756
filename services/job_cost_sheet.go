package services

import (
	"fmt"

	"go.uber.org/zap"
)

// JobCostSheet is the result of composing a job cost sheet: the finished
// document and the financials printed on it.
type JobCostSheet struct {
	*Document
	Financials Financials
}

// ComposeJobCostSheet renders job into a paginated cost sheet. The same
// composition feeds both the saved artifact and the base64 payload; callers
// choose the sink on the returned document.
func ComposeJobCostSheet(job JobDocument, opts ...RenderOption) (*JobCostSheet, error) {
	o := newRenderOptions(KindJobCostSheet, opts...)
	c := newPDFCanvas("Job Cost Sheet "+jobIdentifier(job), o.Now())

	fin := composeJobCostSheet(c, job, o)

	data, err := c.bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate job cost sheet PDF: %w", err)
	}

	o.Logger.Debug("composed job cost sheet",
		zap.String("job_id", job.ID),
		zap.Int("pages", c.PageCount()),
		zap.String("final_total", fin.FinalTotal.StringFixed(2)),
	)

	return &JobCostSheet{
		Document:   newDocument(KindJobCostSheet, jobIdentifier(job), data),
		Financials: fin,
	}, nil
}

// composeJobCostSheet draws every section of the cost sheet on c. Empty cost
// sections are omitted; timesheets, compliance records and attachments each
// start on a fresh page when present.
func composeJobCostSheet(c Canvas, job JobDocument, o RenderOptions) Financials {
	cur := NewCursor(c, pageHeight, marginTop, marginBottom)
	cur.NewPage()

	renderJobHeader(c, cur, job, o.Company, o.Now())

	var totals SectionTotals
	totals.Labor = renderLabor(c, cur, job.Labor)
	totals.Materials = renderMaterials(c, cur, job.Materials)
	totals.SubTrades = renderSubTrades(c, cur, job.SubTrades)
	totals.OtherCosts = renderOtherCosts(c, cur, job.OtherCosts)
	totals.TipFees = renderTipFees(c, cur, job.TipFees)

	fin := CalcFinancials(totals, job.BuilderMarginPercent)
	renderSummary(c, cur, fin)

	if len(job.Timesheets) > 0 {
		cur.NewPage()
		renderTimesheets(c, cur, job.Timesheets)
	}
	if len(job.Compliance) > 0 {
		cur.NewPage()
		renderCompliance(c, cur, job.Compliance)
	}
	if len(job.Files) > 0 {
		cur.NewPage()
		renderAttachments(c, cur, job.Files)
	}

	return fin
}

func jobIdentifier(job JobDocument) string {
	if job.Address != "" {
		return job.Address
	}
	return job.ID
}
