package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"jobcosting/collections"
	"jobcosting/commands"
	"jobcosting/handlers"
)

func main() {
	app := pocketbase.New()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	app.RootCmd.AddCommand(commands.NewRenderCommand(logger))

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Job cost sheet ───────────────────────────────────────
		se.Router.GET("/jobs/{id}/cost-sheet/pdf", handlers.HandleJobCostSheetPDF(app, logger))
		se.Router.GET("/jobs/{id}/cost-sheet/base64", handlers.HandleJobCostSheetBase64(app, logger))
		se.Router.GET("/jobs/{id}/cost-sheet/excel", handlers.HandleJobCostSheetExcel(app))

		// ── Quotes ───────────────────────────────────────────────
		se.Router.GET("/quotes/{id}/pdf", handlers.HandleQuotePDF(app, logger))
		se.Router.GET("/quotes/{id}/base64", handlers.HandleQuoteBase64(app, logger))

		// ── Job list (?manager=) ─────────────────────────────────
		se.Router.GET("/job-list/pdf", handlers.HandleJobListPDF(app, logger))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
