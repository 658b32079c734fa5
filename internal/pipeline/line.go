package pipeline

import (
	"regexp"
	"strings"

	"github.com/leasingborsen/pricelist-cli/internal/model"
	"github.com/leasingborsen/pricelist-cli/internal/parse"
	"github.com/leasingborsen/pricelist-cli/internal/template"
)

// catchAllConfidence marks candidates produced by the structural
// fallback rather than a specific line pattern, so downstream consumers
// can deprioritize them.
const catchAllConfidence = 0.6

var (
	gasolineEngineRe = regexp.MustCompile(`(?i)(\d\.\d)\s+benzin\s+(\d+)\s+hk(\s+automatgear)?`)
	hybridEngineRe   = regexp.MustCompile(`(?i)(\d\.\d)\s+hybrid\s+(\d+)\s+hk(\s+automatgear)?`)
	electricEngineRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*kwh,?\s+(\d+)\s+hk(\s+awd)?`)

	leadingAlphaRe = regexp.MustCompile(`^([A-Za-zÆØÅæøå][A-Za-zÆØÅæøå \-]*[A-Za-zÆØÅæøå])`)
)

// engineFromText finds a powertrain specification in free text and
// rewrites it in the canonical phrasing used throughout the identity
// layer: "1.0 benzin 72 hk [automatgear]", "1.5 Hybrid 116 hk
// [automatgear]", "57.7 kWh, 167 hk [AWD]".
func engineFromText(text string) string {
	if m := electricEngineRe.FindStringSubmatch(text); m != nil {
		spec := strings.ReplaceAll(m[1], ",", ".") + " kWh, " + m[2] + " hk"
		if m[3] != "" {
			spec += " AWD"
		}
		return spec
	}
	if m := hybridEngineRe.FindStringSubmatch(text); m != nil {
		spec := m[1] + " Hybrid " + m[2] + " hk"
		if m[3] != "" {
			spec += " automatgear"
		}
		return spec
	}
	if m := gasolineEngineRe.FindStringSubmatch(text); m != nil {
		spec := m[1] + " benzin " + m[2] + " hk"
		if m[3] != "" {
			spec += " automatgear"
		}
		return spec
	}
	return ""
}

// extractLines applies the text-line strategy to a page: each non-empty
// line is tried against the template's ordered positional patterns,
// first full match wins. Lines no pattern recognizes go through a
// catch-all split into a leading alphabetic span (candidate variant
// name) and a trailing numeric span (first in-range amount becomes the
// monthly price). Used only when a page named a model but yielded no
// pricing table.
func extractLines(text, modelName string, pageNum int, tmpl *template.Template, rc *RunContext) []model.RawCandidate {
	var out []model.RawCandidate

	for lineIdx, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if cand, ok := matchLinePatterns(line, modelName, pageNum, lineIdx, tmpl); ok {
			out = append(out, cand)
			rc.Increment("line_pattern_matched")
			continue
		}

		if cand, ok := catchAllLine(line, modelName, pageNum, lineIdx, tmpl); ok {
			out = append(out, cand)
			rc.Increment("line_catchall_matched")
		}
	}
	return out
}

func matchLinePatterns(line, modelName string, pageNum, lineIdx int, tmpl *template.Template) (model.RawCandidate, bool) {
	for _, p := range tmpl.LinePatterns {
		re := p.Regexp()
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		groups := map[string]string{}
		for i, name := range re.SubexpNames() {
			if name != "" && i < len(m) {
				groups[name] = m[i]
			}
		}

		variant := strings.TrimSpace(groups["variant"])
		monthly, ok := parse.Price(groups["monthly"], tmpl.Ranges.MonthlyPrice)
		if variant == "" || !ok {
			continue
		}

		cand := model.RawCandidate{
			Model:        modelName,
			Variant:      variant,
			MonthlyPrice: monthly,
			Source: model.Provenance{
				Page:   pageNum,
				Line:   lineIdx + 1,
				Method: model.MethodTextPattern,
				Raw:    line,
			},
			Confidence: p.Confidence,
		}

		if spec := engineFromText(groups["engine"]); spec != "" {
			cand.EngineText = spec
		}
		if v, ok := parse.Price(groups["first_payment"], tmpl.Ranges.FirstPayment); ok {
			cand.FirstPayment = v
		}
		if v, ok := parse.Price(groups["total_cost"], tmpl.Ranges.TotalCost); ok {
			cand.TotalCost = v
		}
		if km, ok := groups["annual_km"]; ok && km != "" {
			if v, ok := parse.AnnualKilometers(km+" km", tmpl.Ranges.AnnualKilometers); ok {
				cand.AnnualKilometers = v
			}
		}
		return cand, true
	}
	return model.RawCandidate{}, false
}

// catchAllLine is the final fallback pattern: leading alphabetic span as
// the variant label, validated against the plausible-variant heuristic,
// then the first in-range amount in the remainder as the monthly price.
func catchAllLine(line, modelName string, pageNum, lineIdx int, tmpl *template.Template) (model.RawCandidate, bool) {
	m := leadingAlphaRe.FindStringSubmatch(line)
	if m == nil {
		return model.RawCandidate{}, false
	}
	variant := strings.TrimSpace(m[1])
	if !looksLikeVariant(variant, tmpl) {
		return model.RawCandidate{}, false
	}

	rest := line[len(m[0]):]
	monthly, ok := parse.Price(rest, tmpl.Ranges.MonthlyPrice)
	if !ok {
		return model.RawCandidate{}, false
	}

	cand := model.RawCandidate{
		Model:        modelName,
		Variant:      variant,
		MonthlyPrice: monthly,
		Source: model.Provenance{
			Page:   pageNum,
			Line:   lineIdx + 1,
			Method: model.MethodTextCatchAll,
			Raw:    line,
		},
		Confidence: catchAllConfidence,
	}
	if spec := engineFromText(line); spec != "" {
		cand.EngineText = spec
	}
	return cand, true
}

// looksLikeVariant applies the plausible-variant-name heuristic: sane
// length bounds and at least one recognizable trim keyword.
func looksLikeVariant(text string, tmpl *template.Template) bool {
	if len(text) < 2 || len(text) > 50 || allDigits(text) {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range tmpl.TrimKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
