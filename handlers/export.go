package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"jobcosting/services"
)

// base64Document is the JSON body returned by the base64 export routes, for
// callers that attach the PDF to an email.
type base64Document struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        string `json:"data"`
	FinalTotal  string `json:"finalTotal,omitempty"`
}

// loadJob assembles a job document and returns the HTTP status to use when
// it fails.
func loadJob(app *pocketbase.PocketBase, jobID string) (services.JobDocument, int, error) {
	raw, err := buildRawJob(app, jobID)
	if err != nil {
		return services.JobDocument{}, http.StatusNotFound, err
	}
	job, err := services.ParseJobDocument(raw)
	if err != nil {
		return services.JobDocument{}, http.StatusUnprocessableEntity, err
	}
	return job, http.StatusOK, nil
}

func loadQuote(app *pocketbase.PocketBase, quoteID string) (services.QuoteDocument, int, error) {
	raw, err := buildRawQuote(app, quoteID)
	if err != nil {
		return services.QuoteDocument{}, http.StatusNotFound, err
	}
	q, err := services.ParseQuoteDocument(raw)
	if err != nil {
		return services.QuoteDocument{}, http.StatusUnprocessableEntity, err
	}
	return q, http.StatusOK, nil
}

// failureText is the plain-text body for a failed load.
func failureText(status int, what string, err error) string {
	if status == http.StatusNotFound {
		return what + " not found"
	}
	if errors.Is(err, services.ErrMalformedInput) {
		return fmt.Sprintf("%s data is invalid: %v", what, err)
	}
	return "Failed to load " + strings.ToLower(what)
}

func writePDF(e *core.RequestEvent, doc *services.Document) error {
	e.Response.Header().Set("Content-Type", "application/pdf")
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename()))
	e.Response.Write(doc.Bytes())
	return nil
}

func renderOptions(app *pocketbase.PocketBase, logger *zap.Logger) []services.RenderOption {
	return []services.RenderOption{
		services.WithCompany(loadCompanyProfile(app)),
		services.WithLogger(logger),
	}
}

func composeCostSheet(app *pocketbase.PocketBase, logger *zap.Logger, e *core.RequestEvent) (*services.JobCostSheet, error) {
	jobID := e.Request.PathValue("id")
	if jobID == "" {
		return nil, e.String(http.StatusBadRequest, "Missing job ID")
	}

	job, status, err := loadJob(app, jobID)
	if err != nil {
		log.Printf("cost_sheet: %v", err)
		return nil, e.String(status, failureText(status, "Job", err))
	}

	sheet, err := services.ComposeJobCostSheet(job, renderOptions(app, logger)...)
	if err != nil {
		log.Printf("cost_sheet: failed to generate: %v", err)
		return nil, e.String(http.StatusInternalServerError, "Failed to generate PDF file")
	}
	return sheet, nil
}

// HandleJobCostSheetPDF returns a handler that downloads a job's cost sheet.
func HandleJobCostSheetPDF(app *pocketbase.PocketBase, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sheet, err := composeCostSheet(app, logger, e)
		if sheet == nil {
			return err
		}
		return writePDF(e, sheet.Document)
	}
}

// HandleJobCostSheetBase64 returns a handler that responds with the cost sheet
// encoded as base64 JSON.
func HandleJobCostSheetBase64(app *pocketbase.PocketBase, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sheet, err := composeCostSheet(app, logger, e)
		if sheet == nil {
			return err
		}
		return e.JSON(http.StatusOK, base64Document{
			Filename:    sheet.Filename(),
			ContentType: "application/pdf",
			Data:        sheet.Base64(),
			FinalTotal:  sheet.Financials.FinalTotal.StringFixed(2),
		})
	}
}

// HandleJobCostSheetExcel returns a handler that downloads a job's costs as a
// workbook.
func HandleJobCostSheetExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		jobID := e.Request.PathValue("id")
		if jobID == "" {
			return e.String(http.StatusBadRequest, "Missing job ID")
		}

		job, status, err := loadJob(app, jobID)
		if err != nil {
			log.Printf("cost_excel: %v", err)
			return e.String(status, failureText(status, "Job", err))
		}

		xlsxBytes, err := services.GenerateJobCostExcel(job)
		if err != nil {
			log.Printf("cost_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		doc := services.Document{Kind: services.KindJobCostSheet, Identifier: job.Address}
		if doc.Identifier == "" {
			doc.Identifier = job.ID
		}
		filename := strings.TrimSuffix(doc.Filename(), ".pdf") + ".xlsx"

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

func composeQuoteDoc(app *pocketbase.PocketBase, logger *zap.Logger, e *core.RequestEvent) (*services.Document, error) {
	quoteID := e.Request.PathValue("id")
	if quoteID == "" {
		return nil, e.String(http.StatusBadRequest, "Missing quote ID")
	}

	q, status, err := loadQuote(app, quoteID)
	if err != nil {
		log.Printf("quote_pdf: %v", err)
		return nil, e.String(status, failureText(status, "Quote", err))
	}

	doc, err := services.ComposeQuote(q, renderOptions(app, logger)...)
	if err != nil {
		log.Printf("quote_pdf: failed to generate: %v", err)
		return nil, e.String(http.StatusInternalServerError, "Failed to generate PDF file")
	}
	return doc, nil
}

// HandleQuotePDF returns a handler that downloads a quote.
func HandleQuotePDF(app *pocketbase.PocketBase, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc, err := composeQuoteDoc(app, logger, e)
		if doc == nil {
			return err
		}
		return writePDF(e, doc)
	}
}

// HandleQuoteBase64 returns a handler that responds with the quote encoded as
// base64 JSON.
func HandleQuoteBase64(app *pocketbase.PocketBase, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc, err := composeQuoteDoc(app, logger, e)
		if doc == nil {
			return err
		}
		return e.JSON(http.StatusOK, base64Document{
			Filename:    doc.Filename(),
			ContentType: "application/pdf",
			Data:        doc.Base64(),
		})
	}
}

// HandleJobListPDF returns a handler that downloads the open jobs of the
// manager named in the "manager" query parameter.
func HandleJobListPDF(app *pocketbase.PocketBase, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		manager := strings.TrimSpace(e.Request.URL.Query().Get("manager"))
		if manager == "" {
			return e.String(http.StatusBadRequest, "Missing manager")
		}

		raw, err := buildRawJobList(app, manager)
		if err != nil {
			log.Printf("job_list: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load jobs")
		}
		data, err := services.ParseJobList(raw)
		if err != nil {
			log.Printf("job_list: %v", err)
			return e.String(http.StatusUnprocessableEntity, failureText(http.StatusUnprocessableEntity, "Job list", err))
		}

		doc, err := services.ComposeJobList(data, services.WithLogger(logger))
		if err != nil {
			log.Printf("job_list: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}
		return writePDF(e, doc)
	}
}
