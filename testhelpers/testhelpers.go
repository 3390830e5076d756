// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"jobcosting/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateRecord saves a record in collection with the given fields.
func CreateRecord(t *testing.T, app *pocketbase.PocketBase, collection string, fields map[string]any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		t.Fatalf("failed to find %s collection: %v", collection, err)
	}

	record := core.NewRecord(col)
	for k, v := range fields {
		record.Set(k, v)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test %s record: %v", collection, err)
	}

	return record
}

// CreateTestJob creates an active job at address with a 10% margin.
func CreateTestJob(t *testing.T, app *pocketbase.PocketBase, address string) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "jobs", map[string]any{
		"address":                address,
		"client_name":            "Test Client",
		"manager_name":           "Test Manager",
		"status":                 "active",
		"builder_margin_percent": 10,
		"default_hourly_rate":    55,
	})
}

// CreateTestLabor creates a labour entry on a job. A zero rate leaves the
// entry on the job's default rate.
func CreateTestLabor(t *testing.T, app *pocketbase.PocketBase, jobID, staff string, rate, hours float64) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "labor_entries", map[string]any{
		"job":          jobID,
		"staff_name":   staff,
		"hourly_rate":  rate,
		"hours_logged": hours,
	})
}

// CreateTestMaterial creates a material invoice line on a job.
func CreateTestMaterial(t *testing.T, app *pocketbase.PocketBase, jobID, description string, amount float64) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "materials", map[string]any{
		"job":          jobID,
		"description":  description,
		"supplier":     "Test Supplier",
		"amount":       amount,
		"invoice_date": time.Date(2025, 2, 11, 0, 0, 0, 0, time.UTC),
	})
}

// CreateTestTipFee creates a tip fee whose total is stored independently of
// its base and cartage.
func CreateTestTipFee(t *testing.T, app *pocketbase.PocketBase, jobID string, base, cartage, total float64) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "tip_fees", map[string]any{
		"job":            jobID,
		"description":    "Test skip",
		"base_amount":    base,
		"cartage_amount": cartage,
		"total_amount":   total,
	})
}

// CreateTestTimesheet creates a timesheet entry on a job.
func CreateTestTimesheet(t *testing.T, app *pocketbase.PocketBase, jobID string, date time.Time, hours float64, approved bool) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "timesheets", map[string]any{
		"job":        jobID,
		"date":       date,
		"hours":      hours,
		"staff_name": "Test Staff",
		"approved":   approved,
	})
}

// CreateTestAttachment creates a job attachment; link may be empty.
func CreateTestAttachment(t *testing.T, app *pocketbase.PocketBase, jobID, name, link string) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "job_attachments", map[string]any{
		"job":           jobID,
		"name":          name,
		"external_link": link,
	})
}

// CreateTestQuote creates a sent quote with persisted totals of
// 1000 + 100 GST.
func CreateTestQuote(t *testing.T, app *pocketbase.PocketBase, quoteNumber string) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "quotes", map[string]any{
		"quote_number":        quoteNumber,
		"client_name":         "Test Client",
		"client_contact":      "Test Contact",
		"project_description": "Test project",
		"project_address":     "1 Test St",
		"status":              "sent",
		"valid_until":         time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC),
		"subtotal":            1000,
		"gst_amount":          100,
		"total_amount":        1100,
	})
}

// CreateTestQuoteItem creates a scope line on a quote.
func CreateTestQuoteItem(t *testing.T, app *pocketbase.PocketBase, quoteID string, sortOrder int, description string) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "quote_items", map[string]any{
		"quote":       quoteID,
		"sort_order":  sortOrder,
		"item_type":   "labour",
		"description": description,
		"quantity":    1,
		"unit_price":  500,
		"total_price": 500,
	})
}

// CreateTestCompany creates the company profile used on letterheads.
func CreateTestCompany(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()
	return CreateRecord(t, app, "company_profile", map[string]any{
		"name":           name,
		"abn":            "12 345 678 901",
		"licence_number": "254321C",
		"signatory":      "Test Signatory",
	})
}
