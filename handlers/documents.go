package handlers

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"jobcosting/services"
)

// findChildren returns the records of collection that belong to parentID
// through relation, in sort order. A failed lookup yields no records.
func findChildren(app *pocketbase.PocketBase, collection, relation, parentID, sort string) []*core.Record {
	records, err := app.FindRecordsByFilter(collection, relation+" = {:parent}", sort, 0, 0, map[string]any{"parent": parentID})
	if err != nil {
		log.Printf("documents: could not load %s for %s: %v", collection, parentID, err)
		return nil
	}
	return records
}

// recordTime returns the date field as a time.Time, or nil when unset.
func recordTime(r *core.Record, field string) any {
	dt := r.GetDateTime(field)
	if dt.IsZero() {
		return nil
	}
	return dt.Time()
}

// recordRate treats an unset (zero) hourly rate as missing so the job's
// default rate applies.
func recordRate(r *core.Record) any {
	if v := r.GetFloat("hourly_rate"); v != 0 {
		return v
	}
	return nil
}

// buildRawJob fetches the job and every related record.
func buildRawJob(app *pocketbase.PocketBase, jobID string) (services.RawJob, error) {
	job, err := app.FindRecordById("jobs", jobID)
	if err != nil {
		return services.RawJob{}, fmt.Errorf("job not found: %w", err)
	}

	raw := services.RawJob{
		ID:                   job.Id,
		Address:              job.GetString("address"),
		ClientName:           job.GetString("client_name"),
		ManagerName:          job.GetString("manager_name"),
		Status:               job.GetString("status"),
		BuilderMarginPercent: job.Get("builder_margin_percent"),
		DefaultHourlyRate:    job.Get("default_hourly_rate"),
	}

	for _, r := range findChildren(app, "labor_entries", "job", jobID, "sort_order") {
		raw.Labor = append(raw.Labor, services.RawLaborEntry{
			StaffName:   r.GetString("staff_name"),
			HourlyRate:  recordRate(r),
			HoursLogged: r.Get("hours_logged"),
		})
	}
	for _, r := range findChildren(app, "materials", "job", jobID, "sort_order") {
		raw.Materials = append(raw.Materials, services.RawMaterial{
			Description: r.GetString("description"),
			Supplier:    r.GetString("supplier"),
			Amount:      r.Get("amount"),
			InvoiceDate: recordTime(r, "invoice_date"),
		})
	}
	for _, r := range findChildren(app, "sub_trades", "job", jobID, "sort_order") {
		raw.SubTrades = append(raw.SubTrades, services.RawSubTrade{
			Trade:       r.GetString("trade"),
			Contractor:  r.GetString("contractor"),
			Amount:      r.Get("amount"),
			InvoiceDate: recordTime(r, "invoice_date"),
		})
	}
	for _, r := range findChildren(app, "other_costs", "job", jobID, "sort_order") {
		raw.OtherCosts = append(raw.OtherCosts, services.RawOtherCost{
			Description: r.GetString("description"),
			Amount:      r.Get("amount"),
		})
	}
	for _, r := range findChildren(app, "tip_fees", "job", jobID, "sort_order") {
		raw.TipFees = append(raw.TipFees, services.RawTipFee{
			Description:   r.GetString("description"),
			BaseAmount:    r.Get("base_amount"),
			CartageAmount: r.Get("cartage_amount"),
			TotalAmount:   r.Get("total_amount"),
		})
	}
	for _, r := range findChildren(app, "timesheets", "job", jobID, "-date") {
		raw.Timesheets = append(raw.Timesheets, services.RawTimesheetEntry{
			Date:      recordTime(r, "date"),
			Hours:     r.Get("hours"),
			StaffName: r.GetString("staff_name"),
			Note:      r.GetString("note"),
			Approved:  r.GetBool("approved"),
		})
	}
	for _, r := range findChildren(app, "compliance_signatures", "job", jobID, "signed_at") {
		raw.Compliance = append(raw.Compliance, services.RawComplianceSignature{
			DocumentTitle: r.GetString("document_title"),
			SignerName:    r.GetString("signer_name"),
			Occupation:    r.GetString("occupation"),
			SignedAt:      recordTime(r, "signed_at"),
		})
	}
	for _, r := range findChildren(app, "job_attachments", "job", jobID, "sort_order") {
		raw.Files = append(raw.Files, services.RawAttachedFile{
			Name:         r.GetString("name"),
			ExternalLink: r.GetString("external_link"),
		})
	}

	return raw, nil
}

// buildRawQuote fetches the quote and its items.
func buildRawQuote(app *pocketbase.PocketBase, quoteID string) (services.RawQuote, error) {
	q, err := app.FindRecordById("quotes", quoteID)
	if err != nil {
		return services.RawQuote{}, fmt.Errorf("quote not found: %w", err)
	}

	raw := services.RawQuote{
		QuoteNumber:          q.GetString("quote_number"),
		ClientName:           q.GetString("client_name"),
		ClientContact:        q.GetString("client_contact"),
		ProjectDescription:   q.GetString("project_description"),
		ProjectAddress:       q.GetString("project_address"),
		Status:               q.GetString("status"),
		ValidUntil:           recordTime(q, "valid_until"),
		BuilderMarginPercent: q.Get("builder_margin_percent"),
		Subtotal:             q.Get("subtotal"),
		GSTAmount:            q.Get("gst_amount"),
		TotalAmount:          q.Get("total_amount"),
		Notes:                q.GetString("notes"),
	}

	for _, r := range findChildren(app, "quote_items", "quote", quoteID, "sort_order") {
		raw.Items = append(raw.Items, services.RawQuoteItem{
			ItemType:    r.GetString("item_type"),
			Description: r.GetString("description"),
			Quantity:    r.Get("quantity"),
			UnitPrice:   r.Get("unit_price"),
			TotalPrice:  r.Get("total_price"),
		})
	}

	if signer := q.GetString("signer_name"); signer != "" {
		raw.Signature = &services.RawSignature{
			SignerName: signer,
			ImageData:  q.GetString("signature_image"),
			SignedAt:   recordTime(q, "signed_at"),
		}
	}

	return raw, nil
}

// buildRawJobList collects a manager's open jobs in address order.
func buildRawJobList(app *pocketbase.PocketBase, manager string) (services.RawJobList, error) {
	records, err := app.FindRecordsByFilter("jobs",
		"manager_name = {:manager} && status != 'completed'", "address", 0, 0,
		map[string]any{"manager": manager})
	if err != nil {
		return services.RawJobList{}, fmt.Errorf("query jobs: %w", err)
	}

	raw := services.RawJobList{ManagerName: manager}
	for _, r := range records {
		raw.Jobs = append(raw.Jobs, services.JobListRow{
			Address:    r.GetString("address"),
			ClientName: r.GetString("client_name"),
		})
	}
	return raw, nil
}

// loadCompanyProfile reads the first company_profile record. A missing
// profile yields an empty letterhead rather than an error.
func loadCompanyProfile(app *pocketbase.PocketBase) services.CompanyProfile {
	records, err := app.FindAllRecords("company_profile")
	if err != nil || len(records) == 0 {
		log.Printf("documents: no company profile found, rendering without letterhead")
		return services.CompanyProfile{}
	}
	r := records[0]
	return services.CompanyProfile{
		Name:          r.GetString("name"),
		Address:       r.GetString("address"),
		Phone:         r.GetString("phone"),
		Email:         r.GetString("email"),
		ABN:           r.GetString("abn"),
		LicenceNumber: r.GetString("licence_number"),
		Signatory:     r.GetString("signatory"),
	}
}
