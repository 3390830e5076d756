package collections_test

import (
	"testing"

	"jobcosting/collections"
	"jobcosting/testhelpers"
)

func TestSeed_CreatesData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	counts := map[string]int{
		"company_profile": 1,
		"jobs":            2,
		"labor_entries":   3,
		"materials":       1,
		"sub_trades":      1,
		"other_costs":     1,
		"tip_fees":        1,
		"timesheets":      2,
		"quotes":          1,
		"quote_items":     3,
	}
	for name, want := range counts {
		records, err := app.FindAllRecords(name)
		if err != nil {
			t.Fatalf("query %s error: %v", name, err)
		}
		if len(records) != want {
			t.Errorf("%s: got %d records, want %d", name, len(records), want)
		}
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	jobs, _ := app.FindAllRecords("jobs")
	if len(jobs) != 2 {
		t.Errorf("expected 2 jobs after idempotent seed, got %d", len(jobs))
	}
	profiles, _ := app.FindAllRecords("company_profile")
	if len(profiles) != 1 {
		t.Errorf("expected 1 company profile after idempotent seed, got %d", len(profiles))
	}
}

func TestSeed_TipFeeKeepsPersistedTotal(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	fees, _ := app.FindAllRecords("tip_fees")
	if len(fees) != 1 {
		t.Fatalf("expected 1 tip fee, got %d", len(fees))
	}
	if got := fees[0].GetFloat("total_amount"); got != 515 {
		t.Errorf("total_amount = %v, want 515", got)
	}
}

func TestSeed_QuoteTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	quote, err := app.FindFirstRecordByData("quotes", "quote_number", "Q-2025-014")
	if err != nil {
		t.Fatalf("seed quote not found: %v", err)
	}
	if got := quote.GetFloat("subtotal"); got != 5530 {
		t.Errorf("subtotal = %v, want 5530", got)
	}
	items, _ := app.FindRecordsByFilter("quote_items", "quote = {:q}", "sort_order", 0, 0, map[string]any{"q": quote.Id})
	if len(items) != 3 {
		t.Errorf("expected 3 quote items, got %d", len(items))
	}
}

func TestSeed_SkipsWhenDataExists(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestJob(t, app, "1 Existing St")

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}
	quotes, _ := app.FindAllRecords("quotes")
	if len(quotes) != 0 {
		t.Errorf("seed ran despite existing jobs: %d quotes", len(quotes))
	}
}
