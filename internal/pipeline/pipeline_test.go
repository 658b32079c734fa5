package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leasingborsen/pricelist-cli/internal/model"
	"github.com/leasingborsen/pricelist-cli/internal/template"
)

func newPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(template.Default())
	require.NoError(t, err)
	return p
}

func aygoPage() model.Page {
	return model.Page{
		Number: 1,
		Text:   "TOYOTA AYGO X PRIVATLEASING\nPriser gældende fra 27. MAJ 2025",
		Tables: []model.Table{{Rows: [][]string{
			{"Variant", "Ydelse pr. md.", "Førstegangsydelse"},
			{"Active 1.0 benzin 72 hk", "2.699", "4.999"},
		}}},
	}
}

func TestRun_SinglePage(t *testing.T) {
	res := newPipeline(t).Run([]model.Page{aygoPage()})

	require.True(t, res.Success)
	require.Len(t, res.Items, 1)
	assert.Empty(t, res.Errors)

	item := res.Items[0]
	assert.Equal(t, "AYGO X", item.Model)
	assert.Equal(t, "aygox_active_72hp_manual", item.ID)
	assert.Equal(t, 2699, item.MonthlyPrice)
	assert.Equal(t, 4999, item.FirstPayment)
	assert.Equal(t, model.MethodPricingTable, item.Source.Method)

	assert.Equal(t, 1, res.Metadata.PagesProcessed)
	assert.Equal(t, 1, res.Metadata.RawItemsFound)
	assert.Equal(t, 1, res.Metadata.ValidatedItems)
	assert.Equal(t, map[string]int{"AYGO X": 1}, res.Metadata.ModelCounts)
	assert.Equal(t, "Toyota", res.Metadata.Brand)
	assert.Equal(t, "DKK", res.Metadata.Currency)
	assert.Equal(t, "2025-05-27", res.Metadata.DocumentDate)
}

func TestRun_Deterministic(t *testing.T) {
	p := newPipeline(t)
	pages := []model.Page{aygoPage()}
	assert.Equal(t, p.Run(pages), p.Run(pages))
}

func TestRun_NoPages(t *testing.T) {
	res := newPipeline(t).Run(nil)
	assert.False(t, res.Success)
	assert.Empty(t, res.Items)
	assert.NotEmpty(t, res.Errors)
}

func TestRun_ModelCarryOver(t *testing.T) {
	// The model heading sits on page 1; the pricing table continues on
	// page 2 without repeating it.
	pages := []model.Page{
		{Number: 1, Text: "TOYOTA AYGO X PRIVATLEASING"},
		{Number: 2, Text: "fortsat", Tables: []model.Table{{Rows: [][]string{
			{"Variant", "Ydelse pr. md."},
			{"Pulse 1.0 benzin 72 hk automatgear", "3.149"},
		}}}},
	}

	res := newPipeline(t).Run(pages)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "AYGO X", res.Items[0].Model)
	assert.Equal(t, 2, res.Items[0].Source.Page)
}

func TestRun_ModelSwitchBetweenPages(t *testing.T) {
	pages := []model.Page{
		aygoPage(),
		{Number: 2, Text: "TOYOTA YARIS PRIVATLEASING", Tables: []model.Table{{Rows: [][]string{
			{"Variant", "Ydelse pr. md."},
			{"Active 1.5 Hybrid 116 hk automatgear", "3.499"},
		}}}},
	}

	res := newPipeline(t).Run(pages)
	require.Len(t, res.Items, 2)
	assert.Equal(t, map[string]int{"AYGO X": 1, "YARIS": 1}, res.Metadata.ModelCounts)
}

func TestRun_LineFallbackWhenNoPricingTable(t *testing.T) {
	pages := []model.Page{{
		Number: 1,
		Text:   "TOYOTA AYGO X PRIVATLEASING\nActive 1.0 benzin 72 hk 2.699 4.999",
	}}

	res := newPipeline(t).Run(pages)
	require.Len(t, res.Items, 1)
	assert.Equal(t, model.MethodTextPattern, res.Items[0].Source.Method)
	assert.Equal(t, "aygox_active_72hp_manual", res.Items[0].ID)
}

func TestRun_LineFallbackSkippedWhenTablePresent(t *testing.T) {
	page := aygoPage()
	page.Text += "\nActive 1.0 benzin 72 hk 2.699 4.999"

	res := newPipeline(t).Run([]model.Page{page})
	// Table and text describe the same variant; only one survives and it
	// came from the table.
	require.Len(t, res.Items, 1)
	assert.Equal(t, model.MethodPricingTable, res.Items[0].Source.Method)
}

func TestRun_TableWithoutModelInScope(t *testing.T) {
	pages := []model.Page{{
		Number: 1,
		Text:   "Privatleasing hos din forhandler",
		Tables: []model.Table{{Rows: [][]string{
			{"Variant", "Ydelse pr. md."},
			{"Active", "2.699"},
		}}},
	}}

	res := newPipeline(t).Run(pages)
	assert.True(t, res.Success)
	assert.Empty(t, res.Items)
	assert.Equal(t, 1, res.Metadata.Counters["tables_without_model"])
}

func TestRun_RejectedVariantReported(t *testing.T) {
	// A label consisting only of spec tokens strips down to nothing in
	// standardization; validation must reject it and report why, without
	// failing the run.
	pages := []model.Page{{
		Number: 1,
		Text:   "TOYOTA BZ4X PRIVATLEASING",
		Tables: []model.Table{{Rows: [][]string{
			{"Variant", "Ydelse pr. md."},
			{"57.7 kWh 167 hk", "4.699"},
			{"Active 57.7 kWh 167 hk", "4.699"},
		}}}},
	}

	res := newPipeline(t).Run(pages)
	assert.True(t, res.Success)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Active", res.Items[0].CanonicalVariant)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "empty variant")
	assert.Equal(t, 1, res.Metadata.Counters["validation_rejected"])
}

func TestRun_DuplicateRowsCollapse(t *testing.T) {
	page := aygoPage()
	page.Tables[0].Rows = append(page.Tables[0].Rows,
		[]string{"Active 1.0 benzin 72 hk", "2.699", "4.999"})

	res := newPipeline(t).Run([]model.Page{page})
	assert.Len(t, res.Items, 1)
	assert.Equal(t, 2, res.Metadata.RawItemsFound)
}
