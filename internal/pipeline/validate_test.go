package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leasingborsen/pricelist-cli/internal/model"
	"github.com/leasingborsen/pricelist-cli/internal/template"
)

func validVariant() model.IdentifiedVariant {
	return model.IdentifiedVariant{
		NormalizedVariant: model.NormalizedVariant{
			RawCandidate: model.RawCandidate{
				Model:        "AYGO X",
				Variant:      "Active",
				MonthlyPrice: 2699,
			},
			CanonicalVariant: "Active 1.0 benzin 72 hk",
		},
		ID: "aygox_active_72hp_manual",
	}
}

func TestValidate_Accepts(t *testing.T) {
	ok, reasons := Validate(validVariant(), template.Default())
	assert.True(t, ok)
	assert.Empty(t, reasons)
}

func TestValidate_MonthlyOutOfRange(t *testing.T) {
	tmpl := template.Default()

	low := validVariant()
	low.MonthlyPrice = 50
	ok, reasons := Validate(low, tmpl)
	assert.False(t, ok)
	assert.Len(t, reasons, 1)

	high := validVariant()
	high.MonthlyPrice = 250000
	ok, _ = Validate(high, tmpl)
	assert.False(t, ok)
}

func TestValidate_MissingMonthly(t *testing.T) {
	v := validVariant()
	v.MonthlyPrice = 0
	ok, reasons := Validate(v, template.Default())
	assert.False(t, ok)
	assert.Contains(t, reasons[0], "missing monthly price")
}

func TestValidate_UnknownModel(t *testing.T) {
	v := validVariant()
	v.Model = "CAMRY"
	ok, reasons := Validate(v, template.Default())
	assert.False(t, ok)
	assert.Contains(t, reasons[0], "unknown model")
}

func TestValidate_EmptyVariant(t *testing.T) {
	v := validVariant()
	v.CanonicalVariant = "  "
	ok, _ := Validate(v, template.Default())
	assert.False(t, ok)
}

func TestValidate_OptionalFiguresOnlyWhenPresent(t *testing.T) {
	tmpl := template.Default()

	v := validVariant()
	v.FirstPayment = 0
	v.TotalCost = 0
	ok, _ := Validate(v, tmpl)
	assert.True(t, ok)

	v.TotalCost = 1000
	ok, reasons := Validate(v, tmpl)
	assert.False(t, ok)
	assert.Contains(t, reasons[0], "total cost")
}

func TestValidate_CollectsAllReasons(t *testing.T) {
	v := validVariant()
	v.Model = "CAMRY"
	v.CanonicalVariant = ""
	v.MonthlyPrice = 0
	ok, reasons := Validate(v, template.Default())
	assert.False(t, ok)
	assert.Len(t, reasons, 3)
}
