package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leasingborsen/pricelist-cli/internal/model"
	"github.com/leasingborsen/pricelist-cli/internal/ocr"
	"github.com/leasingborsen/pricelist-cli/internal/pipeline"
)

var (
	extractOut  string
	extractSave bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <pdf>",
	Short: "Extract lease variants from a single price list PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pdfPath := args[0]

		tmpl, err := loadTemplate()
		if err != nil {
			return err
		}
		p, err := pipeline.New(tmpl)
		if err != nil {
			return err
		}

		source, err := ocr.NewPageSource(cfg.OCR)
		if err != nil {
			return err
		}

		result, err := extractDocument(ctx, source, p, pdfPath)
		if err != nil {
			return err
		}

		if extractSave {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			runID, err := saveRun(ctx, st, pdfPath, result)
			if err != nil {
				return err
			}
			zap.L().Info("run saved", zap.String("run_id", runID))
		}

		return writeResult(result, extractOut)
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractOut, "output", "o", "", "write JSON result to file instead of stdout")
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "persist the run to the configured store")
	rootCmd.AddCommand(extractCmd)
}

// extractDocument converts a PDF to pages and runs the extraction pipeline.
func extractDocument(ctx context.Context, source ocr.PageSource, p *pipeline.Pipeline, pdfPath string) (*model.ExtractionResult, error) {
	pages, err := source.Pages(ctx, pdfPath)
	if err != nil {
		return nil, eris.Wrapf(err, "read pages from %s", pdfPath)
	}
	return p.Run(pages), nil
}

// saveRun records an extraction result against a new run. Failed
// extractions are stored with their failure reason.
func saveRun(ctx context.Context, st runStore, document string, result *model.ExtractionResult) (string, error) {
	run, err := st.CreateRun(ctx, document)
	if err != nil {
		return "", eris.Wrap(err, "create run")
	}

	if !result.Success {
		reason := "extraction failed"
		if len(result.Errors) > 0 {
			reason = result.Errors[0]
		}
		if err := st.FailRun(ctx, run.ID, reason); err != nil {
			return "", eris.Wrap(err, "fail run")
		}
		return run.ID, nil
	}

	if err := st.CompleteRun(ctx, run.ID, result); err != nil {
		return "", eris.Wrap(err, "complete run")
	}
	return run.ID, nil
}

// runStore is the subset of store.Store that saveRun needs.
type runStore interface {
	CreateRun(ctx context.Context, document string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, result *model.ExtractionResult) error
	FailRun(ctx context.Context, runID string, reason string) error
}

func writeResult(result *model.ExtractionResult, path string) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "create output file %s", path)
		}
		defer f.Close() //nolint:errcheck
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
