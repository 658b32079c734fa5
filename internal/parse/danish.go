// Package parse provides locale-aware field parsers for Danish pricing
// text. Every parser is a pure function returning (value, ok): a miss is
// an explicit absent value, never an error, and callers must treat
// absence as a common valid case.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/leasingborsen/pricelist-cli/internal/template"
)

var (
	// Danish thousands formatting: "2.699" or "2,699". The whole
	// separator run is consumed so "9.999.999" evaluates as 9999999
	// and fails the range check instead of truncating to 9999.
	priceThousandsRe = regexp.MustCompile(`(\d{1,3}(?:[.,]\d{3})+)`)
	// Plain integers without separators, e.g. "4999".
	pricePlainRe = regexp.MustCompile(`\b(\d{3,6})\b`)

	powerRe   = regexp.MustCompile(`(?i)(\d+)\s*(?:hk|hp)\b`)
	batteryRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*kwh`)

	// Combined consumption/emissions token: "25,0/91" = km/l over g CO2/km.
	consumptionCO2Re = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*/\s*(\d+)`)

	annualKMRe = regexp.MustCompile(`(?i)(\d{1,3}[.,]\d{3})\s*km\b`)

	// Danish document date: "27. MAJ 2025".
	documentDateRe = regexp.MustCompile(`(?i)(\d{1,2})\.\s*(JAN|FEB|MAR|APR|MAJ|JUN|JUL|AUG|SEP|OKT|NOV|DEC)\w*\s+(\d{4})`)
)

var danishMonths = map[string]string{
	"JAN": "01", "FEB": "02", "MAR": "03", "APR": "04",
	"MAJ": "05", "JUN": "06", "JUL": "07", "AUG": "08",
	"SEP": "09", "OKT": "10", "NOV": "11", "DEC": "12",
}

// Price extracts a locale-formatted integer amount from text. Both
// thousands-separator styles are accepted ("2.699" and "2,699" are 2699).
// Several substrings may look like amounts; the first one inside the
// plausible range wins, which rejects noise like "3" or "9.999.999".
func Price(text string, r template.Range) (int, bool) {
	for _, m := range priceThousandsRe.FindAllStringSubmatch(text, -1) {
		digits := strings.NewReplacer(".", "", ",", "").Replace(m[1])
		v, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		if r.Contains(v) {
			return v, true
		}
	}

	// Plain integers are scanned with separator-formatted numbers
	// blanked out so fragments of "9.999.999" are never picked up.
	stripped := priceThousandsRe.ReplaceAllString(text, " ")
	for _, m := range pricePlainRe.FindAllStringSubmatch(stripped, -1) {
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if r.Contains(v) {
			return v, true
		}
	}

	return 0, false
}

// Power extracts a horsepower figure ("72 hk", "343 HK", "167 hp").
func Power(text string) (int, bool) {
	m := powerRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// Battery extracts a battery capacity in kWh. Both decimal separators
// are accepted ("57,7 kWh" and "73.1 kWh"); the result always uses '.'.
func Battery(text string) (float64, bool) {
	m := batteryRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ConsumptionCO2 splits a combined "X/Y" token into fuel consumption
// (km/l) and CO2 emissions (g/km).
func ConsumptionCO2(text string) (kmpl float64, co2 int, ok bool) {
	m := consumptionCO2Re.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	kmpl, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0, 0, false
	}
	co2, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return kmpl, co2, true
}

// AnnualKilometers extracts a yearly allowance like "15.000 km".
func AnnualKilometers(text string, r template.Range) (int, bool) {
	m := annualKMRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	digits := strings.NewReplacer(".", "", ",", "").Replace(m[1])
	v, err := strconv.Atoi(digits)
	if err != nil || !r.Contains(v) {
		return 0, false
	}
	return v, true
}

// DocumentDate extracts a Danish document date ("27. MAJ 2025") and
// returns it in ISO form ("2025-05-27").
func DocumentDate(text string) (string, bool) {
	m := documentDateRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	month, ok := danishMonths[strings.ToUpper(m[2])]
	if !ok {
		return "", false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s-%s-%02d", m[3], month, day), true
}

// ContainsPrice reports whether text holds anything that parses as an
// in-range price. Used by the table classifier's data-row probe.
func ContainsPrice(text string, r template.Range) bool {
	_, ok := Price(text, r)
	return ok
}
