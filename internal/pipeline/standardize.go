package pipeline

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/leasingborsen/pricelist-cli/internal/model"
	"github.com/leasingborsen/pricelist-cli/internal/parse"
	"github.com/leasingborsen/pricelist-cli/internal/template"
)

// FamilyRule standardizes variant labels and builds identity suffixes
// for one model family. Families are registered in a Registry keyed by
// the template's family name; adding a new family means registering a
// new entry, never extending a branch chain.
type FamilyRule interface {
	// Standardize rewrites the display label so that equivalent
	// configurations produce identical canonical names and
	// distinguishing information is never silently lost.
	Standardize(variant, engineText string) string

	// IdentitySuffix encodes power, battery, drivetrain and transmission
	// into the deterministic tail of a variant id.
	IdentitySuffix(v model.NormalizedVariant) string
}

// Registry maps a family key to its rule.
type Registry struct {
	rules map[string]FamilyRule
	tmpl  *template.Template
}

// NewRegistry builds the rule set declared by the template.
func NewRegistry(tmpl *template.Template) (*Registry, error) {
	r := &Registry{rules: make(map[string]FamilyRule, len(tmpl.Families)), tmpl: tmpl}
	for key, spec := range tmpl.Families {
		switch spec.Rule {
		case "engine-append":
			r.rules[key] = &engineAppendRule{spec: spec}
		case "spec-strip":
			r.rules[key] = &specStripRule{spec: spec}
		default:
			return nil, eris.Errorf("standardize: family %q uses unknown rule %q", key, spec.Rule)
		}
	}
	return r, nil
}

// ForModel returns the rule for a model's family. Unknown models get no
// rule; the caller keeps the label as-is and uses the generic suffix.
func (r *Registry) ForModel(modelName string) FamilyRule {
	m := r.tmpl.Model(modelName)
	if m == nil {
		return nil
	}
	return r.rules[m.Family]
}

// Family returns the family spec for a model, zero when unknown.
func (r *Registry) Family(modelName string) template.FamilySpec {
	f, _ := r.tmpl.Family(modelName)
	return f
}

var (
	automaticRe = regexp.MustCompile(`(?i)automatgear|aut\.|automatic`)
	awdRe       = regexp.MustCompile(`(?i)\bawd\b|\b4wd\b|all-wheel`)

	batteryTokenRe = regexp.MustCompile(`(?i)\s*\d+[.,]\d+\s*kwh,?`)
	powerTokenRe   = regexp.MustCompile(`(?i)\s*\d+\s*(?:hk|hp)\b`)
	multiSpaceRe   = regexp.MustCompile(`\s{2,}`)
)

// Standardize maps a raw candidate to its normalized form: canonical
// variant name per the family rule, parsed power/battery, and the
// powertrain/drivetrain/transmission classification. The input is not
// mutated; a new value is returned.
func (r *Registry) Standardize(c model.RawCandidate) model.NormalizedVariant {
	nv := model.NormalizedVariant{RawCandidate: c}

	nv.Powertrain = classifyPowertrain(c.EngineText)
	if p, ok := parse.Power(c.EngineText); ok {
		nv.PowerHP = p
	}
	if b, ok := parse.Battery(c.EngineText); ok {
		nv.BatteryKWh = b
	}

	spec := r.Family(c.Model)
	nv.Drivetrain = classifyDrivetrain(c, nv.Powertrain, nv.PowerHP, spec)
	nv.Transmission = classifyTransmission(c, nv.Powertrain)

	if rule := r.ForModel(c.Model); rule != nil {
		nv.CanonicalVariant = rule.Standardize(c.Variant, c.EngineText)
	} else {
		nv.CanonicalVariant = strings.TrimSpace(c.Variant)
	}
	return nv
}

// classifyPowertrain categorizes an engine specification. The energy
// unit marks electric; the hybrid keyword hybrid; the combustion fuel
// gasoline. Anything else is unknown.
func classifyPowertrain(engineText string) model.Powertrain {
	lower := strings.ToLower(engineText)
	switch {
	case strings.Contains(lower, "kwh") || strings.Contains(lower, "elbil"):
		return model.PowertrainElectric
	case strings.Contains(lower, "hybrid"):
		return model.PowertrainHybrid
	case strings.Contains(lower, "benzin"):
		return model.PowertrainGasoline
	default:
		return model.PowertrainUnknown
	}
}

// classifyDrivetrain resolves fwd/awd. An explicit AWD marker in the
// engine text or label wins; electric configurations at or above the
// family's power threshold are AWD even without a marker.
func classifyDrivetrain(c model.RawCandidate, pt model.Powertrain, powerHP int, spec template.FamilySpec) model.Drivetrain {
	if awdRe.MatchString(c.EngineText) || awdRe.MatchString(c.Variant) {
		return model.DrivetrainAWD
	}
	if pt == model.PowertrainElectric && spec.AWDPowerThreshold > 0 && powerHP >= spec.AWDPowerThreshold {
		return model.DrivetrainAWD
	}
	if pt == model.PowertrainUnknown {
		return model.DrivetrainUnknown
	}
	return model.DrivetrainFWD
}

// classifyTransmission resolves the gearbox. Electric drivetrains have
// none. For gasoline, absence of an automatic keyword must resolve to
// manual, never to unspecified: an unspecified gearbox would collide
// manual and automatic ids.
func classifyTransmission(c model.RawCandidate, pt model.Powertrain) model.Transmission {
	switch pt {
	case model.PowertrainElectric:
		return model.TransmissionNone
	case model.PowertrainGasoline:
		if automaticRe.MatchString(c.EngineText) || automaticRe.MatchString(c.Source.Raw) {
			return model.TransmissionAutomatic
		}
		return model.TransmissionManual
	case model.PowertrainHybrid:
		if automaticRe.MatchString(c.EngineText) || automaticRe.MatchString(c.Source.Raw) {
			return model.TransmissionAutomatic
		}
		return model.TransmissionNone
	default:
		return model.TransmissionNone
	}
}

// engineAppendRule serves families where the engine specification is the
// only thing varying price within a trim label: the engine text becomes
// part of the canonical name, so manual and automatic versions of
// "Active" never collapse.
type engineAppendRule struct {
	spec template.FamilySpec
}

func (r *engineAppendRule) Standardize(variant, engineText string) string {
	variant = strings.TrimSpace(variant)
	engineText = strings.TrimSpace(engineText)
	if engineText == "" {
		return variant
	}
	if strings.Contains(strings.ToLower(variant), strings.ToLower(engineText)) {
		return variant
	}
	return variant + " " + engineText
}

func (r *engineAppendRule) IdentitySuffix(v model.NormalizedVariant) string {
	return identitySuffix(v, r.spec)
}

// specStripRule serves families whose trim label already encodes the
// sellable configuration and may additionally carry battery/power tokens
// redundant with the engine text. Stripping them keeps a table-extracted
// "Active 57.7 kWh 167 hk" and a text-extracted "Active" on one identity.
type specStripRule struct {
	spec template.FamilySpec
}

func (r *specStripRule) Standardize(variant, _ string) string {
	v := batteryTokenRe.ReplaceAllString(variant, " ")
	v = powerTokenRe.ReplaceAllString(v, " ")
	v = multiSpaceRe.ReplaceAllString(v, " ")
	return strings.Trim(strings.TrimSpace(v), ",")
}

func (r *specStripRule) IdentitySuffix(v model.NormalizedVariant) string {
	return identitySuffix(v, r.spec)
}
