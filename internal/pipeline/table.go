package pipeline

import (
	"strings"

	"github.com/leasingborsen/pricelist-cli/internal/model"
	"github.com/leasingborsen/pricelist-cli/internal/parse"
	"github.com/leasingborsen/pricelist-cli/internal/template"
)

// columnMap holds the resolved column index per logical field. -1 means
// the header carried no matching keyword and the extractor falls back to
// scanning the whole row for the expected figure pattern.
type columnMap struct {
	variant      int
	monthly      int
	firstPayment int
	totalCost    int
	consumption  int
	annualKM     int
	co2Tax       int
}

func mapColumns(header []string, cols template.ColumnSpec) columnMap {
	return columnMap{
		variant:      findColumn(header, cols.Variant),
		monthly:      findColumn(header, cols.Monthly),
		firstPayment: findColumn(header, cols.FirstPayment),
		totalCost:    findColumn(header, cols.TotalCost),
		consumption:  findColumn(header, cols.Consumption),
		annualKM:     findColumn(header, cols.AnnualKilometers),
		co2Tax:       findColumn(header, cols.CO2Tax),
	}
}

// extractTable pulls one RawCandidate per data row of a pricing table.
// Rows lacking a variant label or a monthly price are skipped silently:
// price tables routinely contain section separators and footnote rows.
func extractTable(t model.Table, modelName string, pageNum, tableIdx int, tmpl *template.Template, rc *RunContext) []model.RawCandidate {
	header := t.HeaderRow()
	if header == nil {
		return nil
	}
	cols := mapColumns(header, tmpl.Columns)

	var out []model.RawCandidate
	for rowIdx, row := range t.DataRows() {
		if rowEmpty(row) {
			continue
		}

		variant := cellVariant(row, cols.variant, tmpl)
		if variant == "" {
			rc.Increment("table_rows_no_variant")
			continue
		}

		monthly, ok := cellPrice(row, cols.monthly, tmpl.Ranges.MonthlyPrice)
		if !ok {
			rc.Increment("table_rows_no_price")
			continue
		}

		cand := model.RawCandidate{
			Model:        modelName,
			Variant:      variant,
			MonthlyPrice: monthly,
			Source: model.Provenance{
				Page:   pageNum,
				Table:  tableIdx,
				Row:    rowIdx + 1,
				Method: model.MethodPricingTable,
				Raw:    strings.Join(row, " | "),
			},
			Confidence: 0.8,
		}

		if v, ok := cellPrice(row, cols.firstPayment, tmpl.Ranges.FirstPayment); ok && v != monthly {
			cand.FirstPayment = v
			cand.Confidence += 0.1
		}
		if v, ok := cellPrice(row, cols.totalCost, tmpl.Ranges.TotalCost); ok {
			cand.TotalCost = v
		}
		if kmpl, co2, ok := rowConsumption(row, cols.consumption); ok {
			cand.FuelConsumption = kmpl
			cand.CO2Emissions = co2
		}
		if v, ok := rowAnnualKM(row, cols.annualKM, tmpl.Ranges.AnnualKilometers); ok {
			cand.AnnualKilometers = v
		}
		if cols.co2Tax >= 0 && cols.co2Tax < len(row) {
			if v, ok := parse.Price(row[cols.co2Tax], template.Range{Min: 100, Max: 30000}); ok {
				cand.CO2Tax = v
			}
		}
		if spec := engineFromRow(row); spec != "" {
			cand.EngineText = spec
		}

		out = append(out, cand)
		rc.Increment("table_rows_extracted")
	}
	return out
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// cellVariant extracts the variant label from the mapped column, or
// falls back to the first cell that plausibly looks like a trim name.
func cellVariant(row []string, col int, tmpl *template.Template) string {
	if col >= 0 && col < len(row) {
		v := strings.TrimSpace(row[col])
		if len(v) >= 2 && !allDigits(v) {
			return v
		}
	}
	for i, cell := range row {
		if i == col {
			continue
		}
		v := strings.TrimSpace(cell)
		if looksLikeVariant(v, tmpl) {
			return v
		}
	}
	return ""
}

// cellPrice reads a price from the mapped column, falling back to a scan
// of all cells when no header keyword matched.
func cellPrice(row []string, col int, r template.Range) (int, bool) {
	if col >= 0 && col < len(row) {
		if v, ok := parse.Price(row[col], r); ok {
			return v, true
		}
	}
	if col >= 0 {
		// A mapped column that failed to parse means the row genuinely
		// lacks the figure; scanning would steal a neighbor's value.
		return 0, false
	}
	for _, cell := range row {
		if v, ok := parse.Price(cell, r); ok {
			return v, true
		}
	}
	return 0, false
}

func rowConsumption(row []string, col int) (float64, int, bool) {
	if col >= 0 && col < len(row) {
		if kmpl, co2, ok := parse.ConsumptionCO2(row[col]); ok {
			return kmpl, co2, true
		}
		return 0, 0, false
	}
	for _, cell := range row {
		if kmpl, co2, ok := parse.ConsumptionCO2(cell); ok {
			return kmpl, co2, true
		}
	}
	return 0, 0, false
}

func rowAnnualKM(row []string, col int, r template.Range) (int, bool) {
	if col >= 0 && col < len(row) {
		return parse.AnnualKilometers(row[col], r)
	}
	for _, cell := range row {
		if v, ok := parse.AnnualKilometers(cell, r); ok {
			return v, true
		}
	}
	return 0, false
}

// engineFromRow looks for a powertrain specification anywhere in the row
// and normalizes it to the document family's canonical engine phrasing.
func engineFromRow(row []string) string {
	text := strings.Join(row, " ")
	return engineFromText(text)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
