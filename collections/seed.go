package collections

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type laborDef struct {
	staffName   string
	hourlyRate  float64 // zero falls back to the job's default rate
	hoursLogged float64
}

type invoiceDef struct {
	description string
	party       string
	amount      float64
	invoiceDate string
}

type tipFeeDef struct {
	description string
	base        float64
	cartage     float64
	total       float64
}

type timesheetDef struct {
	date      string
	hours     float64
	staffName string
	note      string
	approved  bool
}

type jobDef struct {
	address     string
	clientName  string
	managerName string
	status      string
	margin      float64
	defaultRate float64
	labor       []laborDef
	materials   []invoiceDef
	subTrades   []invoiceDef
	otherCosts  []invoiceDef
	tipFees     []tipFeeDef
	timesheets  []timesheetDef
}

type quoteItemDef struct {
	itemType    string
	description string
	quantity    float64
	unitPrice   float64
}

var seedCompany = map[string]any{
	"name":           "Coastline Builders",
	"address":        "8 Pittwater Rd, Brookvale NSW 2100",
	"phone":          "02 9000 0000",
	"email":          "office@coastline.example",
	"abn":            "12 345 678 901",
	"licence_number": "254321C",
	"signatory":      "Chris Moore",
}

var seedJobs = []jobDef{
	{
		address:     "12 Harbour St, Manly",
		clientName:  "R. Nguyen",
		managerName: "Sam Patel",
		status:      "active",
		margin:      10,
		defaultRate: 55,
		labor: []laborDef{
			{"Alex Turner", 50, 8},
			{"Jo Lee", 60, 4},
		},
		materials: []invoiceDef{
			{"Treated pine framing", "Bunnings Brookvale", 120, "2025-02-11"},
		},
		timesheets: []timesheetDef{
			{"2025-02-10", 8, "Alex Turner", "Framing", true},
			{"2025-02-11", 4, "Jo Lee", "Fit-off", false},
		},
	},
	{
		address:     "3 Ridge Rd, Terrey Hills",
		clientName:  "K. Walsh",
		managerName: "Sam Patel",
		status:      "active",
		margin:      12.5,
		defaultRate: 58,
		labor: []laborDef{
			{"Alex Turner", 0, 16},
		},
		subTrades: []invoiceDef{
			{"Electrical rough-in", "Bright Spark Electrical", 2450, "2025-03-02"},
		},
		otherCosts: []invoiceDef{
			{"Council inspection fee", "", 380, ""},
		},
		tipFees: []tipFeeDef{
			{"Mixed waste 6m skip", 420, 95, 515},
		},
	},
}

var seedQuoteItems = []quoteItemDef{
	{"labour", "Strip out existing bathroom fixtures and dispose", 1, 1800},
	{"labour", "Waterproof floor and shower recess", 1, 1450},
	{"material", "Supply and install wall and floor tiles", 24, 95},
}

// Seed populates the collections with a demo company profile, two jobs and
// a quote. It is safe to call on every startup because it returns early if
// any job records already exist.
func Seed(app *pocketbase.PocketBase) error {
	jobsCol, err := app.FindCollectionByNameOrId("jobs")
	if err != nil {
		return fmt.Errorf("seed: could not find jobs collection: %w", err)
	}
	existing, err := app.FindAllRecords(jobsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query jobs: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: jobs collection is empty – inserting seed data …")

	create := func(collection string, fields map[string]any) (*core.Record, error) {
		col, err := app.FindCollectionByNameOrId(collection)
		if err != nil {
			return nil, fmt.Errorf("seed: could not find %s collection: %w", collection, err)
		}
		r := core.NewRecord(col)
		for k, v := range fields {
			r.Set(k, v)
		}
		if err := app.Save(r); err != nil {
			return nil, fmt.Errorf("seed: save %s: %w", collection, err)
		}
		return r, nil
	}

	if _, err := create("company_profile", seedCompany); err != nil {
		return err
	}

	for _, j := range seedJobs {
		job, err := create("jobs", map[string]any{
			"address":                j.address,
			"client_name":            j.clientName,
			"manager_name":           j.managerName,
			"status":                 j.status,
			"builder_margin_percent": j.margin,
			"default_hourly_rate":    j.defaultRate,
		})
		if err != nil {
			return err
		}

		for i, l := range j.labor {
			if _, err := create("labor_entries", map[string]any{
				"job": job.Id, "sort_order": i, "staff_name": l.staffName,
				"hourly_rate": l.hourlyRate, "hours_logged": l.hoursLogged,
			}); err != nil {
				return err
			}
		}
		for i, m := range j.materials {
			if _, err := create("materials", map[string]any{
				"job": job.Id, "sort_order": i, "description": m.description,
				"supplier": m.party, "amount": m.amount, "invoice_date": seedDate(m.invoiceDate),
			}); err != nil {
				return err
			}
		}
		for i, s := range j.subTrades {
			if _, err := create("sub_trades", map[string]any{
				"job": job.Id, "sort_order": i, "trade": s.description,
				"contractor": s.party, "amount": s.amount, "invoice_date": seedDate(s.invoiceDate),
			}); err != nil {
				return err
			}
		}
		for i, o := range j.otherCosts {
			if _, err := create("other_costs", map[string]any{
				"job": job.Id, "sort_order": i, "description": o.description, "amount": o.amount,
			}); err != nil {
				return err
			}
		}
		for i, f := range j.tipFees {
			if _, err := create("tip_fees", map[string]any{
				"job": job.Id, "sort_order": i, "description": f.description,
				"base_amount": f.base, "cartage_amount": f.cartage, "total_amount": f.total,
			}); err != nil {
				return err
			}
		}
		for _, ts := range j.timesheets {
			if _, err := create("timesheets", map[string]any{
				"job": job.Id, "date": seedDate(ts.date), "hours": ts.hours,
				"staff_name": ts.staffName, "note": ts.note, "approved": ts.approved,
			}); err != nil {
				return err
			}
		}
	}

	var subtotal float64
	for _, it := range seedQuoteItems {
		subtotal += it.quantity * it.unitPrice
	}
	quote, err := create("quotes", map[string]any{
		"quote_number":        "Q-2025-014",
		"client_name":         "Harbourside Strata",
		"client_contact":      "Jane Moore",
		"project_description": "Bathroom renovation",
		"project_address":     "4/22 Ocean Pde, Dee Why",
		"status":              "sent",
		"valid_until":         seedDate("2025-04-30"),
		"subtotal":            subtotal,
		"gst_amount":          subtotal * 0.1,
		"total_amount":        subtotal * 1.1,
		"notes":               "Price excludes tiles selected after acceptance.",
	})
	if err != nil {
		return err
	}
	for i, it := range seedQuoteItems {
		if _, err := create("quote_items", map[string]any{
			"quote": quote.Id, "sort_order": i, "item_type": it.itemType, "description": it.description,
			"quantity": it.quantity, "unit_price": it.unitPrice, "total_price": it.quantity * it.unitPrice,
		}); err != nil {
			return err
		}
	}

	log.Printf("seed: inserted %d jobs and 1 quote", len(seedJobs))
	return nil
}

// seedDate parses a 2006-01-02 date; empty input stays empty.
func seedDate(s string) any {
	if s == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return ""
	}
	return t
}
