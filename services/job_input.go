package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Raw input types mirror the documents but leave numeric, date and flag
// fields untyped. Values arrive as JSON numbers, numeric strings or PocketBase
// record values; the Parse functions below are the only place they become
// typed, and they fail the whole document on the first bad field.

type RawLaborEntry struct {
	StaffName   string `json:"staffName"`
	HourlyRate  any    `json:"hourlyRate"`
	HoursLogged any    `json:"hoursLogged"`
}

type RawMaterial struct {
	Description string `json:"description"`
	Supplier    string `json:"supplier"`
	Amount      any    `json:"amount"`
	InvoiceDate any    `json:"invoiceDate"`
}

type RawSubTrade struct {
	Trade       string `json:"trade"`
	Contractor  string `json:"contractor"`
	Amount      any    `json:"amount"`
	InvoiceDate any    `json:"invoiceDate"`
}

type RawOtherCost struct {
	Description string `json:"description"`
	Amount      any    `json:"amount"`
}

type RawTipFee struct {
	Description   string `json:"description"`
	BaseAmount    any    `json:"baseAmount"`
	CartageAmount any    `json:"cartageAmount"`
	TotalAmount   any    `json:"totalAmount"`
}

type RawTimesheetEntry struct {
	Date      any    `json:"date"`
	Hours     any    `json:"hours"`
	StaffName string `json:"staffName"`
	Note      string `json:"note"`
	Approved  any    `json:"approved"`
}

type RawComplianceSignature struct {
	DocumentTitle string `json:"documentTitle"`
	SignerName    string `json:"signerName"`
	Occupation    string `json:"occupation"`
	SignedAt      any    `json:"signedAt"`
}

type RawAttachedFile struct {
	Name         string `json:"name"`
	ExternalLink string `json:"externalLink"`
}

type RawJob struct {
	ID                   string                   `json:"id"`
	Address              string                   `json:"address"`
	ClientName           string                   `json:"clientName"`
	ManagerName          string                   `json:"managerName"`
	Status               string                   `json:"status"`
	BuilderMarginPercent any                      `json:"builderMarginPercent"`
	DefaultHourlyRate    any                      `json:"defaultHourlyRate"`
	Labor                []RawLaborEntry          `json:"labor"`
	Materials            []RawMaterial            `json:"materials"`
	SubTrades            []RawSubTrade            `json:"subTrades"`
	OtherCosts           []RawOtherCost           `json:"otherCosts"`
	TipFees              []RawTipFee              `json:"tipFees"`
	Timesheets           []RawTimesheetEntry      `json:"timesheets"`
	Compliance           []RawComplianceSignature `json:"compliance"`
	Files                []RawAttachedFile        `json:"files"`
}

type RawQuoteItem struct {
	ItemType    string `json:"itemType"`
	Description string `json:"description"`
	Quantity    any    `json:"quantity"`
	UnitPrice   any    `json:"unitPrice"`
	TotalPrice  any    `json:"totalPrice"`
}

type RawSignature struct {
	SignerName string `json:"signerName"`
	ImageData  string `json:"imageData"`
	SignedAt   any    `json:"signedAt"`
}

type RawQuote struct {
	QuoteNumber          string         `json:"quoteNumber"`
	ClientName           string         `json:"clientName"`
	ClientContact        string         `json:"clientContact"`
	ProjectDescription   string         `json:"projectDescription"`
	ProjectAddress       string         `json:"projectAddress"`
	Status               string         `json:"status"`
	ValidUntil           any            `json:"validUntil"`
	BuilderMarginPercent any            `json:"builderMarginPercent"`
	Subtotal             any            `json:"subtotal"`
	GSTAmount            any            `json:"gstAmount"`
	TotalAmount          any            `json:"totalAmount"`
	Notes                string         `json:"notes"`
	Items                []RawQuoteItem `json:"items"`
	Signature            *RawSignature  `json:"signature"`
}

type RawJobList struct {
	ManagerName string       `json:"managerName"`
	Jobs        []JobListRow `json:"jobs"`
}

// fieldParser collects the first parse failure so callers can thread many
// fields through it and check once.
type fieldParser struct {
	err error
}

func (p *fieldParser) number(field string, v any) float64 {
	if p.err != nil {
		return 0
	}
	f, err := parseNumber(v)
	if err != nil {
		p.err = &MalformedInputError{Field: field, Value: v, Err: err}
		return 0
	}
	return f
}

// numberOr behaves like number but substitutes fallback for a missing value.
func (p *fieldParser) numberOr(field string, v any, fallback float64) float64 {
	if isBlank(v) {
		return fallback
	}
	return p.number(field, v)
}

func (p *fieldParser) date(field string, v any) time.Time {
	if p.err != nil {
		return time.Time{}
	}
	if isBlank(v) {
		p.err = &MalformedInputError{Field: field, Value: v, Err: errors.New("missing date")}
		return time.Time{}
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		p.err = &MalformedInputError{Field: field, Value: v, Err: err}
		return time.Time{}
	}
	return t
}

func (p *fieldParser) optionalDate(field string, v any) *time.Time {
	if p.err != nil || isBlank(v) {
		return nil
	}
	t := p.date(field, v)
	if p.err != nil || t.IsZero() {
		return nil
	}
	return &t
}

func (p *fieldParser) flag(field string, v any) bool {
	if p.err != nil || v == nil {
		return false
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		p.err = &MalformedInputError{Field: field, Value: v, Err: err}
		return false
	}
	return b
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func parseNumber(v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, errors.New("missing value")
	case bool:
		return 0, errors.New("boolean is not a number")
	case string:
		v = strings.TrimSpace(t)
		if v == "" {
			return 0, errors.New("empty string")
		}
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("not a finite number")
	}
	return f, nil
}

// ParseJobDocument converts raw job input into a JobDocument.
func ParseJobDocument(raw RawJob) (JobDocument, error) {
	var p fieldParser

	job := JobDocument{
		ID:                   raw.ID,
		Address:              raw.Address,
		ClientName:           raw.ClientName,
		ManagerName:          raw.ManagerName,
		Status:               raw.Status,
		BuilderMarginPercent: p.numberOr("builderMarginPercent", raw.BuilderMarginPercent, 0),
		DefaultHourlyRate:    p.numberOr("defaultHourlyRate", raw.DefaultHourlyRate, 0),
	}

	for i, l := range raw.Labor {
		job.Labor = append(job.Labor, LaborEntry{
			StaffName:   l.StaffName,
			HourlyRate:  p.numberOr(fmt.Sprintf("labor[%d].hourlyRate", i), l.HourlyRate, job.DefaultHourlyRate),
			HoursLogged: p.number(fmt.Sprintf("labor[%d].hoursLogged", i), l.HoursLogged),
		})
	}
	for i, m := range raw.Materials {
		job.Materials = append(job.Materials, Material{
			Description: m.Description,
			Supplier:    m.Supplier,
			Amount:      p.number(fmt.Sprintf("materials[%d].amount", i), m.Amount),
			InvoiceDate: p.optionalDate(fmt.Sprintf("materials[%d].invoiceDate", i), m.InvoiceDate),
		})
	}
	for i, s := range raw.SubTrades {
		job.SubTrades = append(job.SubTrades, SubTrade{
			Trade:       s.Trade,
			Contractor:  s.Contractor,
			Amount:      p.number(fmt.Sprintf("subTrades[%d].amount", i), s.Amount),
			InvoiceDate: p.optionalDate(fmt.Sprintf("subTrades[%d].invoiceDate", i), s.InvoiceDate),
		})
	}
	for i, o := range raw.OtherCosts {
		job.OtherCosts = append(job.OtherCosts, OtherCost{
			Description: o.Description,
			Amount:      p.number(fmt.Sprintf("otherCosts[%d].amount", i), o.Amount),
		})
	}
	for i, t := range raw.TipFees {
		job.TipFees = append(job.TipFees, TipFee{
			Description:   t.Description,
			BaseAmount:    p.numberOr(fmt.Sprintf("tipFees[%d].baseAmount", i), t.BaseAmount, 0),
			CartageAmount: p.numberOr(fmt.Sprintf("tipFees[%d].cartageAmount", i), t.CartageAmount, 0),
			TotalAmount:   p.number(fmt.Sprintf("tipFees[%d].totalAmount", i), t.TotalAmount),
		})
	}
	for i, t := range raw.Timesheets {
		job.Timesheets = append(job.Timesheets, TimesheetEntry{
			Date:      p.date(fmt.Sprintf("timesheets[%d].date", i), t.Date),
			Hours:     p.number(fmt.Sprintf("timesheets[%d].hours", i), t.Hours),
			StaffName: t.StaffName,
			Note:      t.Note,
			Approved:  p.flag(fmt.Sprintf("timesheets[%d].approved", i), t.Approved),
		})
	}
	for i, c := range raw.Compliance {
		job.Compliance = append(job.Compliance, ComplianceSignature{
			DocumentTitle: c.DocumentTitle,
			SignerName:    c.SignerName,
			Occupation:    c.Occupation,
			SignedAt:      p.date(fmt.Sprintf("compliance[%d].signedAt", i), c.SignedAt),
		})
	}
	for _, f := range raw.Files {
		job.Files = append(job.Files, AttachedFile{Name: f.Name, ExternalLink: f.ExternalLink})
	}

	if p.err != nil {
		return JobDocument{}, p.err
	}
	return job, nil
}

// ParseQuoteDocument converts raw quote input into a QuoteDocument.
func ParseQuoteDocument(raw RawQuote) (QuoteDocument, error) {
	var p fieldParser

	q := QuoteDocument{
		QuoteNumber:          raw.QuoteNumber,
		ClientName:           raw.ClientName,
		ClientContact:        raw.ClientContact,
		ProjectDescription:   raw.ProjectDescription,
		ProjectAddress:       raw.ProjectAddress,
		Status:               raw.Status,
		ValidUntil:           p.optionalDate("validUntil", raw.ValidUntil),
		BuilderMarginPercent: p.numberOr("builderMarginPercent", raw.BuilderMarginPercent, 0),
		Subtotal:             p.number("subtotal", raw.Subtotal),
		GSTAmount:            p.number("gstAmount", raw.GSTAmount),
		TotalAmount:          p.number("totalAmount", raw.TotalAmount),
		Notes:                raw.Notes,
	}

	for i, it := range raw.Items {
		q.Items = append(q.Items, QuoteItem{
			ItemType:    it.ItemType,
			Description: it.Description,
			Quantity:    p.numberOr(fmt.Sprintf("items[%d].quantity", i), it.Quantity, 0),
			UnitPrice:   p.numberOr(fmt.Sprintf("items[%d].unitPrice", i), it.UnitPrice, 0),
			TotalPrice:  p.numberOr(fmt.Sprintf("items[%d].totalPrice", i), it.TotalPrice, 0),
		})
	}

	if raw.Signature != nil {
		q.Signature = &Signature{
			SignerName: raw.Signature.SignerName,
			ImageData:  raw.Signature.ImageData,
			SignedAt:   p.date("signature.signedAt", raw.Signature.SignedAt),
		}
	}

	if p.err != nil {
		return QuoteDocument{}, p.err
	}
	return q, nil
}

// ParseJobList copies raw job list input. Rows carry only text, so nothing can
// be malformed; the function exists so every variant enters through this file.
func ParseJobList(raw RawJobList) (JobListData, error) {
	return JobListData{ManagerName: raw.ManagerName, Jobs: raw.Jobs}, nil
}
