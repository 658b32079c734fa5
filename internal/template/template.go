// Package template holds the extraction template: the externally supplied
// configuration that adapts the pipeline to one document family without
// code changes. A template names the known models and their detection
// order, the pricing-table keywords, the ordered line patterns, plausible
// numeric ranges, and the per-model-family standardization rules.
package template

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Range bounds a plausible numeric figure. A zero Range admits no
// positive figure.
type Range struct {
	Min int `yaml:"min" mapstructure:"min"`
	Max int `yaml:"max" mapstructure:"max"`
}

// Contains reports whether v falls inside the range, inclusive.
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.Min, r.Max)
}

// ModelSpec declares one known model. Order in the template matters:
// more specific names (YARIS CROSS) must precede the generic base name
// (YARIS), else the generic name wins on substring overlap.
type ModelSpec struct {
	Name    string   `yaml:"name"`
	Family  string   `yaml:"family"`
	Aliases []string `yaml:"aliases,omitempty"`
}

// PricingTableSpec configures pricing-table classification. A table is a
// pricing table only if its header contains a keyword AND one of the
// first ProbeRows data rows contains a recognizable price.
type PricingTableSpec struct {
	HeaderKeywords []string `yaml:"header_keywords"`
	ProbeRows      int      `yaml:"probe_rows"`
}

// ColumnSpec maps header keywords to logical columns of a pricing table.
type ColumnSpec struct {
	Variant          []string `yaml:"variant"`
	Monthly          []string `yaml:"monthly"`
	FirstPayment     []string `yaml:"first_payment"`
	TotalCost        []string `yaml:"total_cost"`
	Consumption      []string `yaml:"consumption"`
	AnnualKilometers []string `yaml:"annual_kilometers"`
	CO2Tax           []string `yaml:"co2_tax"`
}

// LinePattern is one positional pattern for the text-line strategy.
// The expression must match a whole line and name its captures with the
// groups variant, engine, monthly, first_payment and total_cost (engine
// and the trailing figures optional per pattern).
type LinePattern struct {
	Name       string  `yaml:"name"`
	Pattern    string  `yaml:"pattern"`
	Confidence float64 `yaml:"confidence"`

	re *regexp.Regexp
}

// Regexp returns the compiled pattern.
func (p *LinePattern) Regexp() *regexp.Regexp { return p.re }

// FamilySpec selects and configures the standardization rule for one
// model family. Rule is one of "engine-append" or "spec-strip"; adding a
// new family means adding an entry here, never editing a branch chain.
type FamilySpec struct {
	Rule string `yaml:"rule"`

	// BatteryDisambiguationPowers lists power figures (hk) at which an
	// electric family offers more than one battery size, so the identity
	// suffix must include the capacity. Carried over from the source
	// document family as policy.
	BatteryDisambiguationPowers []int `yaml:"battery_disambiguation_powers,omitempty"`

	// AWDPowerThreshold marks configurations at or above this power as
	// all-wheel drive when no explicit AWD marker is present. Some
	// families only signal AWD through the power figure.
	AWDPowerThreshold int `yaml:"awd_power_threshold,omitempty"`
}

// Disambiguates reports whether ids at this power figure must carry the
// battery capacity to stay unique.
func (f FamilySpec) Disambiguates(powerHP int) bool {
	for _, p := range f.BatteryDisambiguationPowers {
		if p == powerHP {
			return true
		}
	}
	return false
}

// Ranges holds the plausible numeric ranges for each extracted figure.
type Ranges struct {
	MonthlyPrice     Range `yaml:"monthly_price"`
	FirstPayment     Range `yaml:"first_payment"`
	TotalCost        Range `yaml:"total_cost"`
	AnnualKilometers Range `yaml:"annual_kilometers"`
}

// Template is the full extraction configuration for one document family.
type Template struct {
	ID       string `yaml:"id"`
	Version  string `yaml:"version"`
	Brand    string `yaml:"brand"`
	Currency string `yaml:"currency"`

	Models       []ModelSpec           `yaml:"models"`
	PricingTable PricingTableSpec      `yaml:"pricing_table"`
	Columns      ColumnSpec            `yaml:"columns"`
	LinePatterns []*LinePattern        `yaml:"line_patterns"`
	Ranges       Ranges                `yaml:"ranges"`
	Families     map[string]FamilySpec `yaml:"families"`

	// TrimKeywords validate catch-all variant names: a candidate label
	// must contain at least one of these to be accepted.
	TrimKeywords []string `yaml:"trim_keywords"`

	byName map[string]*ModelSpec
}

// Load reads a template from a YAML file and compiles it.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "template: read %s", path)
	}

	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrapf(err, "template: parse %s", path)
	}

	if err := t.compile(); err != nil {
		return nil, err
	}
	return &t, nil
}

// compile validates the template and pre-compiles its line patterns.
func (t *Template) compile() error {
	if len(t.Models) == 0 {
		return eris.New("template: no models declared")
	}

	t.byName = make(map[string]*ModelSpec, len(t.Models))
	for i := range t.Models {
		m := &t.Models[i]
		if m.Name == "" {
			return eris.Errorf("template: model %d has no name", i)
		}
		if _, ok := t.Families[m.Family]; !ok {
			return eris.Errorf("template: model %s references unknown family %q", m.Name, m.Family)
		}
		t.byName[strings.ToUpper(m.Name)] = m
	}

	for _, f := range []struct {
		name string
		r    Range
	}{
		{"monthly_price", t.Ranges.MonthlyPrice},
		{"first_payment", t.Ranges.FirstPayment},
		{"total_cost", t.Ranges.TotalCost},
	} {
		if f.r.Max <= f.r.Min {
			return eris.Errorf("template: range %s is empty", f.name)
		}
	}

	for _, p := range t.LinePatterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return eris.Wrapf(err, "template: compile line pattern %s", p.Name)
		}
		p.re = re
	}

	if t.PricingTable.ProbeRows <= 0 {
		t.PricingTable.ProbeRows = 3
	}
	return nil
}

// Model returns the spec for a known model name, or nil.
func (t *Template) Model(name string) *ModelSpec {
	return t.byName[strings.ToUpper(name)]
}

// Family returns the family spec for a model name. The boolean is false
// when the model is unknown or its family is missing.
func (t *Template) Family(modelName string) (FamilySpec, bool) {
	m := t.Model(modelName)
	if m == nil {
		return FamilySpec{}, false
	}
	f, ok := t.Families[m.Family]
	return f, ok
}

// KnownModel reports whether name is one of the template's models.
func (t *Template) KnownModel(name string) bool {
	return t.Model(name) != nil
}
