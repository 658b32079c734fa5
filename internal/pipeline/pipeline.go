// Package pipeline turns extracted pages into identified, validated
// variant records. Stages run in a fixed order (locate, extract,
// standardize, identify, dedup, validate) and communicate only through
// values; per-run state lives in a RunContext created for each document.
package pipeline

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/leasingborsen/pricelist-cli/internal/model"
	"github.com/leasingborsen/pricelist-cli/internal/parse"
	"github.com/leasingborsen/pricelist-cli/internal/template"
)

// RunContext accumulates counters and debug notes for one run. It is
// created fresh per document; nothing in the package keeps state across
// runs. Not safe for concurrent use; a run is single-goroutine, and
// concurrent documents each get their own context.
type RunContext struct {
	Counters map[string]int
	Debug    []string
}

func NewRunContext() *RunContext {
	return &RunContext{Counters: make(map[string]int)}
}

// Increment bumps a named counter.
func (rc *RunContext) Increment(name string) {
	rc.Counters[name]++
}

// Debugf records a formatted note for the run report.
func (rc *RunContext) Debugf(format string, args ...any) {
	rc.Debug = append(rc.Debug, fmt.Sprintf(format, args...))
}

// Pipeline extracts variants for one document family. A Pipeline is
// immutable after New and safe to share across runs.
type Pipeline struct {
	tmpl  *template.Template
	rules *Registry
}

// New builds a pipeline from a compiled template.
func New(tmpl *template.Template) (*Pipeline, error) {
	rules, err := NewRegistry(tmpl)
	if err != nil {
		return nil, err
	}
	return &Pipeline{tmpl: tmpl, rules: rules}, nil
}

// Run processes pages strictly in order. A model heading carries over to
// later pages until another heading replaces it, so a pricing table on a
// continuation page still lands under the right model. The text-line
// strategy runs only on pages that name a model but yield no pricing
// table.
func (p *Pipeline) Run(pages []model.Page) *model.ExtractionResult {
	if len(pages) == 0 {
		return model.Failed("no pages in document")
	}

	rc := NewRunContext()
	var raw []model.RawCandidate
	carryModel := ""

	for _, page := range pages {
		pageModel := DetectModel(page.Text, p.tmpl)
		if pageModel != "" {
			carryModel = pageModel
			rc.Debugf("page %d: model %s", page.Number, pageModel)
		}

		pricingTables := 0
		for ti, t := range page.Tables {
			if !IsPricingTable(t, p.tmpl) {
				rc.Increment("tables_skipped")
				continue
			}
			pricingTables++
			if carryModel == "" {
				rc.Increment("tables_without_model")
				zap.L().Debug("pricing table with no model in scope",
					zap.Int("page", page.Number), zap.Int("table", ti))
				continue
			}
			raw = append(raw, extractTable(t, carryModel, page.Number, ti, p.tmpl, rc)...)
		}

		if pricingTables == 0 && pageModel != "" {
			raw = append(raw, extractLines(page.Text, pageModel, page.Number, p.tmpl, rc)...)
		}
	}

	result := &model.ExtractionResult{
		Success: true,
		Items:   []model.IdentifiedVariant{},
		Errors:  []string{},
	}

	identified := make([]model.IdentifiedVariant, 0, len(raw))
	for _, c := range raw {
		identified = append(identified, p.rules.Identify(p.rules.Standardize(c)))
	}
	deduped := Dedup(identified, rc)

	modelCounts := make(map[string]int)
	for _, v := range deduped {
		ok, reasons := Validate(v, p.tmpl)
		if !ok {
			rc.Increment("validation_rejected")
			result.Errors = append(result.Errors, fmt.Sprintf(
				"page %d: %s %q rejected: %s",
				v.Source.Page, v.Model, v.CanonicalVariant, strings.Join(reasons, "; ")))
			continue
		}
		modelCounts[v.Model]++
		result.Items = append(result.Items, v)
	}

	result.Metadata = model.Metadata{
		PagesProcessed: len(pages),
		RawItemsFound:  len(raw),
		ValidatedItems: len(result.Items),
		ModelCounts:    modelCounts,
		Counters:       rc.Counters,
		Brand:          p.tmpl.Brand,
		Currency:       p.tmpl.Currency,
	}
	if d, ok := parse.DocumentDate(pages[0].Text); ok {
		result.Metadata.DocumentDate = d
	}

	zap.L().Info("extraction complete",
		zap.Int("pages", len(pages)),
		zap.Int("raw", len(raw)),
		zap.Int("items", len(result.Items)),
		zap.Int("rejected", len(result.Errors)))
	return result
}

// Template exposes the pipeline's template for callers that annotate
// results with template identity.
func (p *Pipeline) Template() *template.Template { return p.tmpl }
