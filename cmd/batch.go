package main

import (
	"context"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/leasingborsen/pricelist-cli/internal/model"
	"github.com/leasingborsen/pricelist-cli/internal/ocr"
	"github.com/leasingborsen/pricelist-cli/internal/pipeline"
)

var batchCmd = &cobra.Command{
	Use:   "batch <pdf>...",
	Short: "Extract several price list PDFs concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

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

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		return processBatch(ctx, args, cfg.Batch.MaxConcurrentDocuments, func(ctx context.Context, pdfPath string) (*model.ExtractionResult, error) {
			result, err := extractDocument(ctx, source, p, pdfPath)
			if err != nil {
				return nil, err
			}
			if _, err := saveRun(ctx, st, pdfPath, result); err != nil {
				return nil, err
			}
			return result, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

// extractFunc is the callback signature for extracting a single document.
type extractFunc func(ctx context.Context, pdfPath string) (*model.ExtractionResult, error)

// processBatch runs extraction over documents concurrently. Individual
// failures are logged and counted without aborting the batch.
func processBatch(ctx context.Context, documents []string, concurrency int, extract extractFunc) error {
	if len(documents) == 0 {
		zap.L().Info("no documents to process")
		return nil
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("documents", len(documents)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, doc := range documents {
		g.Go(func() error {
			log := zap.L().With(zap.String("document", doc))

			result, err := extract(gctx, doc)
			if err != nil {
				failed.Add(1)
				log.Error("extraction failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}
			if !result.Success {
				failed.Add(1)
				log.Error("extraction failed", zap.Strings("errors", result.Errors))
				return nil
			}

			succeeded.Add(1)
			log.Info("extraction complete",
				zap.Int("variants", len(result.Items)),
				zap.Int("pages", result.Metadata.PagesProcessed),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}
