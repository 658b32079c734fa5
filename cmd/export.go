package main

import (
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/leasingborsen/pricelist-cli/internal/model"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export a run's variants to an XLSX workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		items, err := st.ListRunItems(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "export")
		}
		if len(items) == 0 {
			return eris.Errorf("run %s has no items", args[0])
		}

		f, err := buildWorkbook(items)
		if err != nil {
			return err
		}
		if err := f.Save(exportOut); err != nil {
			return eris.Wrapf(err, "save workbook %s", exportOut)
		}

		zap.L().Info("export complete",
			zap.String("run_id", args[0]),
			zap.Int("variants", len(items)),
			zap.String("file", exportOut),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "variants.xlsx", "output XLSX file")
	rootCmd.AddCommand(exportCmd)
}

// buildWorkbook renders variants to a single worksheet, ordered by model
// and variant name under Danish collation so the sheet reads like the
// source price list.
func buildWorkbook(items []model.IdentifiedVariant) (*xlsx.File, error) {
	sorted := make([]model.IdentifiedVariant, len(items))
	copy(sorted, items)

	c := collate.New(language.Danish)
	sort.SliceStable(sorted, func(i, j int) bool {
		if r := c.CompareString(sorted[i].Model, sorted[j].Model); r != 0 {
			return r < 0
		}
		return c.CompareString(sorted[i].CanonicalVariant, sorted[j].CanonicalVariant) < 0
	})

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Variants")
	if err != nil {
		return nil, eris.Wrap(err, "add sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{
		"ID", "Model", "Variant", "Engine", "Powertrain", "Transmission", "Drivetrain",
		"Power (hk)", "Battery (kWh)", "Monthly (DKK)", "First payment (DKK)",
		"Total cost (DKK)", "Annual km", "CO2 tax (DKK)", "Confidence",
	} {
		header.AddCell().Value = h
	}

	for _, item := range sorted {
		row := sheet.AddRow()
		row.AddCell().Value = item.ID
		row.AddCell().Value = item.Model
		row.AddCell().Value = item.CanonicalVariant
		row.AddCell().Value = item.EngineText
		row.AddCell().Value = string(item.Powertrain)
		row.AddCell().Value = string(item.Transmission)
		row.AddCell().Value = string(item.Drivetrain)
		row.AddCell().SetInt(item.PowerHP)
		row.AddCell().SetFloat(item.BatteryKWh)
		row.AddCell().SetInt(item.MonthlyPrice)
		row.AddCell().SetInt(item.FirstPayment)
		row.AddCell().SetInt(item.TotalCost)
		row.AddCell().SetInt(item.AnnualKilometers)
		row.AddCell().SetInt(item.CO2Tax)
		row.AddCell().SetFloat(item.Confidence)
	}

	return f, nil
}
