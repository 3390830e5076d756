package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// JobStatuses are the values of the jobs.status select field.
var JobStatuses = []string{"quoted", "active", "on_hold", "completed"}

// QuoteStatuses are the values of the quotes.status select field.
var QuoteStatuses = []string{"draft", "sent", "accepted", "declined"}

// signatureImageMax bounds the data URL stored for a quote's signature.
const signatureImageMax = 2 << 20

// Setup programmatically creates/ensures the company profile, the jobs
// collection with its cost and record collections, and the quotes collection
// with its items.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, "company_profile", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "address"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.TextField{Name: "email"})
		c.Fields.Add(&core.TextField{Name: "abn"})
		c.Fields.Add(&core.TextField{Name: "licence_number"})
		c.Fields.Add(&core.TextField{Name: "signatory"})
	})

	jobs := ensureCollection(app, "jobs", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "address", Required: true})
		c.Fields.Add(&core.TextField{Name: "client_name"})
		c.Fields.Add(&core.TextField{Name: "manager_name"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    JobStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "builder_margin_percent"})
		c.Fields.Add(&core.NumberField{Name: "default_hourly_rate"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureJobChild(app, jobs, "labor_entries", func(c *core.Collection) {
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
		c.Fields.Add(&core.TextField{Name: "staff_name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "hourly_rate"})
		c.Fields.Add(&core.NumberField{Name: "hours_logged"})
	})

	ensureJobChild(app, jobs, "materials", func(c *core.Collection) {
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.TextField{Name: "supplier"})
		c.Fields.Add(&core.NumberField{Name: "amount"})
		c.Fields.Add(&core.DateField{Name: "invoice_date"})
	})

	ensureJobChild(app, jobs, "sub_trades", func(c *core.Collection) {
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
		c.Fields.Add(&core.TextField{Name: "trade", Required: true})
		c.Fields.Add(&core.TextField{Name: "contractor"})
		c.Fields.Add(&core.NumberField{Name: "amount"})
		c.Fields.Add(&core.DateField{Name: "invoice_date"})
	})

	ensureJobChild(app, jobs, "other_costs", func(c *core.Collection) {
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.NumberField{Name: "amount"})
	})

	ensureJobChild(app, jobs, "tip_fees", func(c *core.Collection) {
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.NumberField{Name: "base_amount"})
		c.Fields.Add(&core.NumberField{Name: "cartage_amount"})
		c.Fields.Add(&core.NumberField{Name: "total_amount"})
	})

	ensureJobChild(app, jobs, "timesheets", func(c *core.Collection) {
		c.Fields.Add(&core.DateField{Name: "date", Required: true})
		c.Fields.Add(&core.NumberField{Name: "hours"})
		c.Fields.Add(&core.TextField{Name: "staff_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "note"})
		c.Fields.Add(&core.BoolField{Name: "approved"})
	})

	ensureJobChild(app, jobs, "compliance_signatures", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "document_title", Required: true})
		c.Fields.Add(&core.TextField{Name: "signer_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "occupation"})
		c.Fields.Add(&core.DateField{Name: "signed_at", Required: true})
	})

	ensureJobChild(app, jobs, "job_attachments", func(c *core.Collection) {
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.URLField{Name: "external_link"})
	})

	quotes := ensureCollection(app, "quotes", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "quote_number", Required: true})
		c.Fields.Add(&core.TextField{Name: "client_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "client_contact"})
		c.Fields.Add(&core.TextField{Name: "project_description"})
		c.Fields.Add(&core.TextField{Name: "project_address"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    QuoteStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.DateField{Name: "valid_until"})
		c.Fields.Add(&core.NumberField{Name: "builder_margin_percent"})
		c.Fields.Add(&core.NumberField{Name: "subtotal"})
		c.Fields.Add(&core.NumberField{Name: "gst_amount"})
		c.Fields.Add(&core.NumberField{Name: "total_amount"})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.TextField{Name: "signer_name"})
		c.Fields.Add(&core.TextField{Name: "signature_image", Max: signatureImageMax})
		c.Fields.Add(&core.DateField{Name: "signed_at"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})

	ensureCollection(app, "quote_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "quote",
			Required:      true,
			CollectionId:  quotes.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
		c.Fields.Add(&core.TextField{Name: "item_type"})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.NumberField{Name: "quantity"})
		c.Fields.Add(&core.NumberField{Name: "unit_price"})
		c.Fields.Add(&core.NumberField{Name: "total_price"})
	})
}

// ensureJobChild ensures a collection whose records belong to a job and are
// removed with it.
func ensureJobChild(app *pocketbase.PocketBase, jobs *core.Collection, name string, addFields func(*core.Collection)) *core.Collection {
	return ensureCollection(app, name, func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "job",
			Required:      true,
			CollectionId:  jobs.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		addFields(c)
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
