package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leasingborsen/pricelist-cli/internal/model"
)

func exportItem(modelName, variant, id string, monthly int) model.IdentifiedVariant {
	return model.IdentifiedVariant{
		NormalizedVariant: model.NormalizedVariant{
			RawCandidate: model.RawCandidate{
				Model:        modelName,
				Variant:      variant,
				MonthlyPrice: monthly,
			},
			CanonicalVariant: variant,
			Powertrain:       model.PowertrainGasoline,
			Transmission:     model.TransmissionManual,
			Drivetrain:       model.DrivetrainFWD,
		},
		ID: id,
	}
}

func TestBuildWorkbook_SortsByModelAndVariant(t *testing.T) {
	items := []model.IdentifiedVariant{
		exportItem("YARIS", "Style", "yaris_style_116hp_hybrid", 3899),
		exportItem("AYGO X", "Pulse", "aygox_pulse_72hp_manual", 3149),
		exportItem("AYGO X", "Active", "aygox_active_72hp_manual", 2699),
	}

	f, err := buildWorkbook(items)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "Variants", sheet.Name)
	require.Len(t, sheet.Rows, 4) // header + 3 items

	assert.Equal(t, "ID", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "aygox_active_72hp_manual", sheet.Rows[1].Cells[0].Value)
	assert.Equal(t, "aygox_pulse_72hp_manual", sheet.Rows[2].Cells[0].Value)
	assert.Equal(t, "yaris_style_116hp_hybrid", sheet.Rows[3].Cells[0].Value)
}

func TestBuildWorkbook_RowValues(t *testing.T) {
	item := exportItem("AYGO X", "Active", "aygox_active_72hp_manual", 2699)
	item.EngineText = "1.0 benzin 72 hk"
	item.PowerHP = 72
	item.FirstPayment = 4999
	item.Confidence = 0.9

	f, err := buildWorkbook([]model.IdentifiedVariant{item})
	require.NoError(t, err)

	row := f.Sheets[0].Rows[1]
	assert.Equal(t, "AYGO X", row.Cells[1].Value)
	assert.Equal(t, "Active", row.Cells[2].Value)
	assert.Equal(t, "1.0 benzin 72 hk", row.Cells[3].Value)
	assert.Equal(t, "gasoline", row.Cells[4].Value)
	assert.Equal(t, "manual", row.Cells[5].Value)
	assert.Equal(t, "fwd", row.Cells[6].Value)

	power, err := row.Cells[7].Int()
	require.NoError(t, err)
	assert.Equal(t, 72, power)

	monthly, err := row.Cells[9].Int()
	require.NoError(t, err)
	assert.Equal(t, 2699, monthly)
}

func TestBuildWorkbook_DoesNotMutateInput(t *testing.T) {
	items := []model.IdentifiedVariant{
		exportItem("YARIS", "Style", "b", 1),
		exportItem("AYGO X", "Active", "a", 2),
	}

	_, err := buildWorkbook(items)
	require.NoError(t, err)
	assert.Equal(t, "YARIS", items[0].Model)
}
