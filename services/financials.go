package services

import "github.com/shopspring/decimal"

var gstRate = decimal.RequireFromString("0.10")

// GSTRate returns the fixed 10% consumption tax applied after margin.
func GSTRate() decimal.Decimal {
	return gstRate
}

var hundred = decimal.NewFromInt(100)

// SectionTotals holds the unrounded total of each cost section.
type SectionTotals struct {
	Labor      decimal.Decimal
	Materials  decimal.Decimal
	SubTrades  decimal.Decimal
	OtherCosts decimal.Decimal
	TipFees    decimal.Decimal
}

// Financials is the aggregated cost summary of a job. Values are unrounded;
// only display formatting rounds them.
type Financials struct {
	Subtotal           decimal.Decimal
	MarginPercent      decimal.Decimal
	MarginAmount       decimal.Decimal
	SubtotalWithMargin decimal.Decimal
	GSTAmount          decimal.Decimal
	FinalTotal         decimal.Decimal
}

// ShowMargin reports whether the summary prints a margin line.
func (f Financials) ShowMargin() bool {
	return f.MarginPercent.IsPositive()
}

// CalcFinancials aggregates section totals with the builder's margin and GST.
func CalcFinancials(totals SectionTotals, marginPercent float64) Financials {
	subtotal := decimal.Sum(totals.Labor, totals.Materials, totals.SubTrades, totals.OtherCosts, totals.TipFees)
	pct := decimal.NewFromFloat(marginPercent)
	margin := subtotal.Mul(pct).Div(hundred)
	withMargin := subtotal.Add(margin)
	gst := withMargin.Mul(gstRate)

	return Financials{
		Subtotal:           subtotal,
		MarginPercent:      pct,
		MarginAmount:       margin,
		SubtotalWithMargin: withMargin,
		GSTAmount:          gst,
		FinalTotal:         withMargin.Add(gst),
	}
}

func laborEntryTotal(l LaborEntry) decimal.Decimal {
	return decimal.NewFromFloat(l.HourlyRate).Mul(decimal.NewFromFloat(l.HoursLogged))
}

// CalcSectionTotals sums every cost section of job. Tip fees contribute their
// persisted TotalAmount.
func CalcSectionTotals(job JobDocument) SectionTotals {
	var t SectionTotals
	for _, l := range job.Labor {
		t.Labor = t.Labor.Add(laborEntryTotal(l))
	}
	for _, m := range job.Materials {
		t.Materials = t.Materials.Add(decimal.NewFromFloat(m.Amount))
	}
	for _, s := range job.SubTrades {
		t.SubTrades = t.SubTrades.Add(decimal.NewFromFloat(s.Amount))
	}
	for _, o := range job.OtherCosts {
		t.OtherCosts = t.OtherCosts.Add(decimal.NewFromFloat(o.Amount))
	}
	for _, f := range job.TipFees {
		t.TipFees = t.TipFees.Add(decimal.NewFromFloat(f.TotalAmount))
	}
	return t
}

// CalcJobFinancials is CalcFinancials over the sections of job.
func CalcJobFinancials(job JobDocument) Financials {
	return CalcFinancials(CalcSectionTotals(job), job.BuilderMarginPercent)
}
