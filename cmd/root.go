package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leasingborsen/pricelist-cli/internal/config"
	"github.com/leasingborsen/pricelist-cli/internal/store"
	"github.com/leasingborsen/pricelist-cli/internal/template"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pricelist-cli",
	Short: "Vehicle lease price list extraction pipeline",
	Long:  "Extracts leasing variants from Danish manufacturer price list PDFs: locates pricing tables, normalizes variants, and assigns stable identifiers.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// loadTemplate returns the extraction template: the built-in Toyota profile
// unless a template file is configured.
func loadTemplate() (*template.Template, error) {
	if cfg.Template.Path == "" {
		return template.Default(), nil
	}
	tmpl, err := template.Load(cfg.Template.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "load template %s", cfg.Template.Path)
	}
	return tmpl, nil
}

// initStore opens the configured store backend and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.New(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
