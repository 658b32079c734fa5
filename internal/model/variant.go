package model

// Drivetrain describes how a configuration puts power on the road.
type Drivetrain string

const (
	DrivetrainFWD     Drivetrain = "fwd"
	DrivetrainAWD     Drivetrain = "awd"
	DrivetrainUnknown Drivetrain = "unknown"
)

// Transmission describes the gearbox of a configuration. Electric
// configurations have no gearbox and use TransmissionNone.
type Transmission string

const (
	TransmissionManual    Transmission = "manual"
	TransmissionAutomatic Transmission = "automatic"
	TransmissionNone      Transmission = "none"
)

// Powertrain categorizes the energy source of a configuration.
type Powertrain string

const (
	PowertrainGasoline Powertrain = "gasoline"
	PowertrainHybrid   Powertrain = "hybrid"
	PowertrainElectric Powertrain = "electric"
	PowertrainUnknown  Powertrain = "unknown"
)

// ExtractionMethod tags which strategy produced a candidate.
type ExtractionMethod string

const (
	MethodPricingTable ExtractionMethod = "pricing_table"
	MethodTextPattern  ExtractionMethod = "text_pattern"
	MethodTextCatchAll ExtractionMethod = "text_catchall"
)

// Provenance records where in the document a candidate was found, for audit.
type Provenance struct {
	Page   int              `json:"page"`
	Table  int              `json:"table,omitempty"`
	Row    int              `json:"row,omitempty"`
	Line   int              `json:"line,omitempty"`
	Method ExtractionMethod `json:"extraction_method"`
	Raw    string           `json:"raw_text,omitempty"`
}

// RawCandidate is one detected pricing row or line before normalization.
// Optional numeric fields use the zero value for "not found"; parsers
// report absence explicitly and callers leave the field unset.
type RawCandidate struct {
	Model            string     `json:"model"`
	Variant          string     `json:"variant"`
	EngineText       string     `json:"engine_specification,omitempty"`
	MonthlyPrice     int        `json:"monthly_price"`
	FirstPayment     int        `json:"first_payment,omitempty"`
	TotalCost        int        `json:"total_cost,omitempty"`
	AnnualKilometers int        `json:"annual_kilometers,omitempty"`
	CO2Tax           int        `json:"co2_tax,omitempty"`
	FuelConsumption  float64    `json:"fuel_consumption_kmpl,omitempty"`
	CO2Emissions     int        `json:"co2_emissions,omitempty"`
	Source           Provenance `json:"source"`
	Confidence       float64    `json:"confidence"`
}

// NormalizedVariant is a RawCandidate after standardization. The
// standardizer returns a new value; the input candidate is never mutated.
type NormalizedVariant struct {
	RawCandidate

	CanonicalVariant string       `json:"canonical_variant_name"`
	PowerHP          int          `json:"power_hp,omitempty"`
	BatteryKWh       float64      `json:"battery_capacity_kwh,omitempty"`
	Drivetrain       Drivetrain   `json:"drivetrain_type"`
	Transmission     Transmission `json:"transmission_type"`
	Powertrain       Powertrain   `json:"powertrain_category"`
}

// IdentifiedVariant carries the stable identity of a configuration.
// ID is a pure function of (model, canonical variant, engine text,
// drivetrain): the same inputs always produce the same id.
type IdentifiedVariant struct {
	NormalizedVariant

	ID           string `json:"id"`
	CompositeKey string `json:"composite_key"`
}

// Metadata summarizes one extraction run.
type Metadata struct {
	PagesProcessed int            `json:"pages_processed"`
	RawItemsFound  int            `json:"raw_items_found"`
	ValidatedItems int            `json:"validated_items"`
	ModelCounts    map[string]int `json:"model_counts,omitempty"`
	Counters       map[string]int `json:"counters,omitempty"`
	Brand          string         `json:"brand,omitempty"`
	Currency       string         `json:"currency,omitempty"`
	DocumentDate   string         `json:"document_date,omitempty"`
}

// ExtractionResult is the run-level aggregate returned by the pipeline.
// It is constructed once per document and immutable after return.
type ExtractionResult struct {
	Success  bool                `json:"success"`
	Items    []IdentifiedVariant `json:"items"`
	Errors   []string            `json:"errors"`
	Metadata Metadata            `json:"metadata"`
}

// Failed builds a document-level failure result: no partial items are
// returned since page ordering and model carry-over state would be
// meaningless without the full page sequence.
func Failed(reason string) *ExtractionResult {
	return &ExtractionResult{
		Success: false,
		Items:   []IdentifiedVariant{},
		Errors:  []string{reason},
	}
}
