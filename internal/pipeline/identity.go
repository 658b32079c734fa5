package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/leasingborsen/pricelist-cli/internal/model"
	"github.com/leasingborsen/pricelist-cli/internal/template"
)

// slugModel lowercases and removes spaces and hyphens: "YARIS CROSS"
// becomes "yariscross", "bZ4X" becomes "bz4x".
func slugModel(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "-", "")
}

// slugVariant lowercases, joins words with underscores and removes
// hyphens: "GR Sport" becomes "gr_sport".
func slugVariant(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "_")
	return strings.ReplaceAll(s, "-", "")
}

var specTokenRe = regexp.MustCompile(`(?i)\d\.\d\s*|\bbenzin\b|\bhybrid\b|\belbil\b|\bautomatgear\b|\baut\.|\bautomatic\b|\d+[.,]\d+\s*kwh,?|\d+\s*(?:hk|hp)\b`)

// baseLabel removes engine and gearbox tokens from a canonical name so
// the id slug carries only the trim label. Power, battery and gearbox
// are re-encoded in the suffix; keeping them out of the slug makes a
// table-extracted and a text-extracted row of the same trim agree.
func baseLabel(canonical string) string {
	s := specTokenRe.ReplaceAllString(canonical, " ")
	s = strings.Trim(strings.Join(strings.Fields(s), " "), ",")
	if s == "" {
		return canonical
	}
	return s
}

// batterySlug renders a capacity for use inside an id: 73.1 → "73_1",
// 58.0 → "58".
func batterySlug(kwh float64) string {
	s := strconv.FormatFloat(kwh, 'f', -1, 64)
	return strings.ReplaceAll(s, ".", "_")
}

// identitySuffix encodes the distinguishing configuration into the id
// tail. Gasoline always carries a gearbox token so manual and automatic
// trims with identical labels stay distinct. Electric ids carry the
// battery only at power figures the family declares ambiguous.
func identitySuffix(v model.NormalizedVariant, spec template.FamilySpec) string {
	switch v.Powertrain {
	case model.PowertrainElectric:
		if v.Drivetrain == model.DrivetrainAWD {
			return "_awd"
		}
		var b strings.Builder
		if v.BatteryKWh > 0 && spec.Disambiguates(v.PowerHP) {
			b.WriteString("_")
			b.WriteString(batterySlug(v.BatteryKWh))
			b.WriteString("kwh")
		}
		b.WriteString("_electric")
		return b.String()
	case model.PowertrainGasoline:
		if v.Transmission == model.TransmissionAutomatic {
			return "_auto"
		}
		return "_manual"
	case model.PowertrainHybrid:
		if v.Drivetrain == model.DrivetrainAWD {
			return "_awd"
		}
		if v.Transmission == model.TransmissionAutomatic {
			return "_auto"
		}
		return "_hybrid"
	default:
		if v.Drivetrain == model.DrivetrainAWD {
			return "_awd"
		}
		return ""
	}
}

// Identify assembles the deterministic id and composite key for a
// normalized variant. The id is a pure function of the variant's
// configuration: two runs over the same document always agree.
func (r *Registry) Identify(v model.NormalizedVariant) model.IdentifiedVariant {
	var b strings.Builder
	b.WriteString(slugModel(v.Model))
	b.WriteString("_")
	b.WriteString(slugVariant(baseLabel(v.CanonicalVariant)))
	if v.PowerHP > 0 {
		fmt.Fprintf(&b, "_%dhp", v.PowerHP)
	}
	if rule := r.ForModel(v.Model); rule != nil {
		b.WriteString(rule.IdentitySuffix(v))
	} else {
		b.WriteString(identitySuffix(v, template.FamilySpec{}))
	}

	return model.IdentifiedVariant{
		NormalizedVariant: v,
		ID:                b.String(),
		CompositeKey:      compositeKey(v),
	}
}

func compositeKey(v model.NormalizedVariant) string {
	return strings.Join([]string{
		strings.ToLower(v.Model),
		strings.ToLower(v.CanonicalVariant),
		strings.ToLower(v.EngineText),
		string(v.Drivetrain),
	}, "|")
}

// Dedup removes duplicates in two fixed passes. Pass one drops exact
// repeats of (model, canonical name, engine text, monthly price); pass
// two collapses id collisions, keeping the first occurrence in document
// order. Running Dedup on already-deduplicated input returns it
// unchanged.
func Dedup(items []model.IdentifiedVariant, rc *RunContext) []model.IdentifiedVariant {
	seen := make(map[string]struct{}, len(items))
	exact := make([]model.IdentifiedVariant, 0, len(items))
	for _, it := range items {
		key := strings.Join([]string{
			strings.ToLower(it.Model),
			strings.ToLower(it.CanonicalVariant),
			strings.ToLower(it.EngineText),
			strconv.Itoa(it.MonthlyPrice),
		}, "|")
		if _, dup := seen[key]; dup {
			rc.Increment("dedup_exact_dropped")
			continue
		}
		seen[key] = struct{}{}
		exact = append(exact, it)
	}

	byID := make(map[string]struct{}, len(exact))
	out := make([]model.IdentifiedVariant, 0, len(exact))
	for _, it := range exact {
		if _, dup := byID[it.ID]; dup {
			rc.Increment("dedup_id_collisions")
			zap.L().Warn("variant id collision, keeping first occurrence",
				zap.String("id", it.ID),
				zap.String("model", it.Model),
				zap.String("variant", it.CanonicalVariant))
			continue
		}
		byID[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}
