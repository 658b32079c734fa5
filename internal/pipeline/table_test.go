package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leasingborsen/pricelist-cli/internal/model"
	"github.com/leasingborsen/pricelist-cli/internal/template"
)

func TestExtractTable_MappedColumns(t *testing.T) {
	tmpl := template.Default()
	rc := NewRunContext()
	tab := model.Table{Rows: [][]string{
		{"Variant", "Ydelse pr. md.", "Førstegangsydelse", "Totalpris"},
		{"Active 1.0 benzin 72 hk", "2.699", "4.999", "102.564"},
		{"Pulse 1.0 benzin 72 hk automatgear", "3.149", "4.999", "118.764"},
	}}

	out := extractTable(tab, "AYGO X", 3, 0, tmpl, rc)
	require.Len(t, out, 2)

	assert.Equal(t, "AYGO X", out[0].Model)
	assert.Equal(t, "Active 1.0 benzin 72 hk", out[0].Variant)
	assert.Equal(t, 2699, out[0].MonthlyPrice)
	assert.Equal(t, 4999, out[0].FirstPayment)
	assert.Equal(t, 102564, out[0].TotalCost)
	assert.Equal(t, "1.0 benzin 72 hk", out[0].EngineText)
	assert.Equal(t, model.MethodPricingTable, out[0].Source.Method)
	assert.Equal(t, 3, out[0].Source.Page)
	assert.Equal(t, 1, out[0].Source.Row)
	assert.InDelta(t, 0.9, out[0].Confidence, 0.001)

	assert.Equal(t, "1.0 benzin 72 hk automatgear", out[1].EngineText)
	assert.Equal(t, 2, rc.Counters["table_rows_extracted"])
}

func TestExtractTable_SkipsSeparatorRows(t *testing.T) {
	tmpl := template.Default()
	rc := NewRunContext()
	tab := model.Table{Rows: [][]string{
		{"Variant", "Ydelse pr. md."},
		{"", ""},
		{"UDSTYRSLINJER", ""},
		{"Active", "2.699"},
	}}

	out := extractTable(tab, "AYGO X", 1, 0, tmpl, rc)
	require.Len(t, out, 1)
	assert.Equal(t, "Active", out[0].Variant)
	assert.Equal(t, 1, rc.Counters["table_rows_no_price"])
}

func TestExtractTable_NoFirstPaymentLowerConfidence(t *testing.T) {
	tmpl := template.Default()
	rc := NewRunContext()
	tab := model.Table{Rows: [][]string{
		{"Variant", "Ydelse pr. md."},
		{"Active", "2.699"},
	}}

	out := extractTable(tab, "AYGO X", 1, 0, tmpl, rc)
	require.Len(t, out, 1)
	assert.Zero(t, out[0].FirstPayment)
	assert.InDelta(t, 0.8, out[0].Confidence, 0.001)
}

func TestExtractTable_ConsumptionAndAnnualKM(t *testing.T) {
	tmpl := template.Default()
	rc := NewRunContext()
	tab := model.Table{Rows: [][]string{
		{"Variant", "Ydelse pr. md.", "Forbrug km/l / CO2", "Kilometer pr. år"},
		{"Active", "2.699", "21.7/106", "15.000 km"},
	}}

	out := extractTable(tab, "AYGO X", 1, 0, tmpl, rc)
	require.Len(t, out, 1)
	assert.InDelta(t, 21.7, out[0].FuelConsumption, 0.001)
	assert.Equal(t, 106, out[0].CO2Emissions)
	assert.Equal(t, 15000, out[0].AnnualKilometers)
}

func TestExtractTable_EmptyTable(t *testing.T) {
	rc := NewRunContext()
	assert.Empty(t, extractTable(model.Table{}, "AYGO X", 1, 0, template.Default(), rc))
}

func TestCellPrice_MappedColumnMissFailsClosed(t *testing.T) {
	// The mapped column has no price, a neighbor does: scanning would
	// attach the neighbor's figure to the wrong field.
	row := []string{"Active", "-", "4.999"}
	_, ok := cellPrice(row, 1, template.Range{Min: 1500, Max: 15000})
	assert.False(t, ok)
}

func TestCellPrice_UnmappedScansRow(t *testing.T) {
	row := []string{"Active", "2.699"}
	v, ok := cellPrice(row, -1, template.Range{Min: 1500, Max: 15000})
	assert.True(t, ok)
	assert.Equal(t, 2699, v)
}
