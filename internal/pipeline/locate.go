package pipeline

import (
	"strings"

	"github.com/leasingborsen/pricelist-cli/internal/model"
	"github.com/leasingborsen/pricelist-cli/internal/parse"
	"github.com/leasingborsen/pricelist-cli/internal/template"
)

// DetectModel returns the best-matching known model for a page's text,
// or "" when none matches. The template's model order is authoritative:
// specific names are declared before generic ones, so YARIS CROSS is
// tested before YARIS and the generic name never wins on overlap.
func DetectModel(text string, tmpl *template.Template) string {
	upper := strings.ToUpper(text)
	for _, m := range tmpl.Models {
		if strings.Contains(upper, strings.ToUpper(m.Name)) {
			return m.Name
		}
		for _, alias := range m.Aliases {
			if strings.Contains(upper, strings.ToUpper(alias)) {
				return m.Name
			}
		}
	}
	return ""
}

// IsPricingTable classifies a table as a pricing table. Both conditions
// are required: a pricing keyword in the header AND a recognizable price
// in the first probe rows. Either alone misclassifies spec tables.
func IsPricingTable(t model.Table, tmpl *template.Template) bool {
	header := t.HeaderRow()
	if header == nil || len(t.Rows) < 2 {
		return false
	}

	headerText := strings.ToLower(strings.Join(header, " "))
	keywordFound := false
	for _, kw := range tmpl.PricingTable.HeaderKeywords {
		if strings.Contains(headerText, strings.ToLower(kw)) {
			keywordFound = true
			break
		}
	}
	if !keywordFound {
		return false
	}

	probe := tmpl.PricingTable.ProbeRows
	for i, row := range t.DataRows() {
		if i >= probe {
			break
		}
		for _, cell := range row {
			if parse.ContainsPrice(cell, tmpl.Ranges.MonthlyPrice) {
				return true
			}
		}
	}
	return false
}

// findColumn returns the index of the first header cell containing any
// of the keywords, or -1.
func findColumn(header []string, keywords []string) int {
	for i, cell := range header {
		cellLower := strings.ToLower(cell)
		if cellLower == "" {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(cellLower, strings.ToLower(kw)) {
				return i
			}
		}
	}
	return -1
}
