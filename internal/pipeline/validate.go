package pipeline

import (
	"fmt"
	"strings"

	"github.com/leasingborsen/pricelist-cli/internal/model"
	"github.com/leasingborsen/pricelist-cli/internal/template"
)

// Validate checks one identified variant against the template's model
// list and numeric ranges. It returns false plus every reason that
// applies; a figure that is simply absent is never a reason, only a
// present figure outside its range is.
func Validate(v model.IdentifiedVariant, tmpl *template.Template) (bool, []string) {
	var reasons []string

	if !tmpl.KnownModel(v.Model) {
		reasons = append(reasons, fmt.Sprintf("unknown model %q", v.Model))
	}
	if strings.TrimSpace(v.CanonicalVariant) == "" {
		reasons = append(reasons, "empty variant name")
	}
	if v.MonthlyPrice == 0 {
		reasons = append(reasons, "missing monthly price")
	} else if !tmpl.Ranges.MonthlyPrice.Contains(v.MonthlyPrice) {
		reasons = append(reasons, fmt.Sprintf("monthly price %d outside %s", v.MonthlyPrice, tmpl.Ranges.MonthlyPrice))
	}
	if v.FirstPayment != 0 && !tmpl.Ranges.FirstPayment.Contains(v.FirstPayment) {
		reasons = append(reasons, fmt.Sprintf("first payment %d outside %s", v.FirstPayment, tmpl.Ranges.FirstPayment))
	}
	if v.TotalCost != 0 && !tmpl.Ranges.TotalCost.Contains(v.TotalCost) {
		reasons = append(reasons, fmt.Sprintf("total cost %d outside %s", v.TotalCost, tmpl.Ranges.TotalCost))
	}
	if v.AnnualKilometers != 0 && !tmpl.Ranges.AnnualKilometers.Contains(v.AnnualKilometers) {
		reasons = append(reasons, fmt.Sprintf("annual kilometers %d outside %s", v.AnnualKilometers, tmpl.Ranges.AnnualKilometers))
	}

	return len(reasons) == 0, reasons
}
