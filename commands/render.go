// Package commands holds the CLI subcommands added to the PocketBase root
// command.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobcosting/services"
)

type renderFlags struct {
	input   string
	outDir  string
	base64  bool
	company string
}

// NewRenderCommand returns the "render" command, which composes a document
// from a JSON file without touching the database.
func NewRenderCommand(logger *zap.Logger) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a job cost sheet, quote or job list from JSON",
	}
	cmd.PersistentFlags().StringVarP(&flags.input, "input", "i", "", "path to the JSON document (required)")
	cmd.PersistentFlags().StringVarP(&flags.outDir, "out", "o", ".", "directory the PDF is written to")
	cmd.PersistentFlags().BoolVar(&flags.base64, "base64", false, "print the PDF as base64 instead of writing a file")
	cmd.PersistentFlags().StringVar(&flags.company, "company", "", "path to a JSON company profile for the letterhead")
	_ = cmd.MarkPersistentFlagRequired("input")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "costsheet",
			Short: "Render a job cost sheet",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				var raw services.RawJob
				if err := readJSON(flags.input, &raw); err != nil {
					return err
				}
				job, err := services.ParseJobDocument(raw)
				if err != nil {
					return err
				}
				opts, err := flags.options(logger)
				if err != nil {
					return err
				}
				sheet, err := services.ComposeJobCostSheet(job, opts...)
				if err != nil {
					return err
				}
				return flags.emit(cmd.OutOrStdout(), sheet.Document)
			},
		},
		&cobra.Command{
			Use:   "quote",
			Short: "Render a client quote",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				var raw services.RawQuote
				if err := readJSON(flags.input, &raw); err != nil {
					return err
				}
				q, err := services.ParseQuoteDocument(raw)
				if err != nil {
					return err
				}
				opts, err := flags.options(logger)
				if err != nil {
					return err
				}
				doc, err := services.ComposeQuote(q, opts...)
				if err != nil {
					return err
				}
				return flags.emit(cmd.OutOrStdout(), doc)
			},
		},
		&cobra.Command{
			Use:   "joblist",
			Short: "Render a manager's job list",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				var raw services.RawJobList
				if err := readJSON(flags.input, &raw); err != nil {
					return err
				}
				data, err := services.ParseJobList(raw)
				if err != nil {
					return err
				}
				opts, err := flags.options(logger)
				if err != nil {
					return err
				}
				doc, err := services.ComposeJobList(data, opts...)
				if err != nil {
					return err
				}
				return flags.emit(cmd.OutOrStdout(), doc)
			},
		},
	)

	return cmd
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (f *renderFlags) options(logger *zap.Logger) ([]services.RenderOption, error) {
	opts := []services.RenderOption{services.WithLogger(logger)}
	if f.company == "" {
		return opts, nil
	}
	var company services.CompanyProfile
	if err := readJSON(f.company, &company); err != nil {
		return nil, err
	}
	return append(opts, services.WithCompany(company)), nil
}

// emit sends doc to the sink chosen by the flags.
func (f *renderFlags) emit(w io.Writer, doc *services.Document) error {
	if f.base64 {
		_, err := fmt.Fprintln(w, doc.Base64())
		return err
	}
	path, err := doc.Save(f.outDir)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, path)
	return err
}
