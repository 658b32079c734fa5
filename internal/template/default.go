package template

// Default returns the built-in template for Danish private-leasing price
// lists. It is the profile the pipeline ships with; deployments adapt to
// other document families by loading a template file instead.
func Default() *Template {
	t := &Template{
		ID:       "toyota-privatleasing-dk",
		Version:  "2",
		Brand:    "Toyota",
		Currency: "DKK",

		// Ordered most specific first: YARIS CROSS before YARIS, so the
		// crossover never resolves to the base model on substring overlap.
		Models: []ModelSpec{
			{Name: "YARIS CROSS", Family: "hybrid"},
			{Name: "YARIS", Family: "hybrid"},
			{Name: "COROLLA TOURING SPORTS", Family: "hybrid", Aliases: []string{"COROLLA TS"}},
			{Name: "URBAN CRUISER", Family: "electric"},
			{Name: "AYGO X", Family: "gasoline", Aliases: []string{"AYGO"}},
			{Name: "BZ4X", Family: "electric", Aliases: []string{"BZ4 X"}},
		},

		PricingTable: PricingTableSpec{
			HeaderKeywords: []string{"ydelse", "pr. md", "månedlig", "førstegangsydelse", "totalpris", "privatleasing"},
			ProbeRows:      3,
		},

		Columns: ColumnSpec{
			Variant:          []string{"variant", "model", "udstyr", "type"},
			Monthly:          []string{"ydelse", "monthly", "md", "månedlig"},
			FirstPayment:     []string{"førstegangs", "first", "udbetaling"},
			TotalCost:        []string{"totalpris", "total"},
			Consumption:      []string{"km/l", "forbrug", "consumption", "wltp"},
			AnnualKilometers: []string{"kilometer", "km/år", "årlig"},
			CO2Tax:           []string{"co2", "ejerafgift", "afgift"},
		},

		// Tried in order; the first expression matching the whole line
		// wins. Each sub-format of the document family gets its own
		// pattern with its own trailing-figure layout.
		LinePatterns: []*LinePattern{
			{
				Name:       "gasoline_line",
				Confidence: 0.9,
				Pattern: `^(?P<variant>[A-Za-zÆØÅæøå][A-Za-zÆØÅæøå \-]*?)\s+` +
					`(?P<engine>\d\.\d\s+[Bb]enzin\s+\d+\s+[Hh][Kk](?:\s+[Aa]utomatgear)?)\s+` +
					`(?P<monthly>\d{1,3}[.,]\d{3})\s+(?P<first_payment>\d{1,3}[.,]\d{3})` +
					`(?:\s+(?P<total_cost>\d{1,3}[.,]\d{3}))?\s*$`,
			},
			{
				Name:       "hybrid_line",
				Confidence: 0.9,
				Pattern: `^(?P<variant>[A-Za-zÆØÅæøå][A-Za-zÆØÅæøå \-]*?)\s+` +
					`(?P<engine>\d\.\d\s+[Hh]ybrid\s+\d+\s+[Hh][Kk](?:\s+[Aa]utomatgear)?)\s+` +
					`(?P<monthly>\d{1,3}[.,]\d{3})\s+(?P<first_payment>\d{1,3}[.,]\d{3})` +
					`(?:\s+(?P<total_cost>\d{1,3}[.,]\d{3}))?\s*$`,
			},
			{
				Name:       "electric_line",
				Confidence: 0.8,
				Pattern: `^(?P<variant>[A-Za-zÆØÅæøå][A-Za-zÆØÅæøå \-]*?)\s+` +
					`(?P<engine>\d{2,3}[.,]\d\s*[Kk][Ww][Hh],?\s+\d+\s+[Hh][Kk](?:\s+AWD)?)\s+` +
					`(?P<monthly>\d{1,3}[.,]\d{3})\s+(?P<first_payment>\d{1,3}[.,]\d{3})` +
					`(?:\s+(?P<annual_km>\d{1,3}[.,]\d{3})\s*km)?` +
					`(?:\s+(?P<total_cost>\d{1,3}[.,]\d{3}))?\s*$`,
			},
		},

		Ranges: Ranges{
			MonthlyPrice:     Range{Min: 1500, Max: 15000},
			FirstPayment:     Range{Min: 0, Max: 60000},
			TotalCost:        Range{Min: 30000, Max: 500000},
			AnnualKilometers: Range{Min: 5000, Max: 50000},
		},

		Families: map[string]FamilySpec{
			// Price varies within a trim only by gearbox, so the engine
			// text must end up in the canonical name.
			"gasoline": {Rule: "engine-append"},
			// Trim labels already encode the sellable configuration;
			// battery/power suffixes in the label are redundant with the
			// engine text and must be stripped.
			"electric": {
				Rule:                        "spec-strip",
				BatteryDisambiguationPowers: []int{224, 343},
				AWDPowerThreshold:           340,
			},
			"hybrid": {Rule: "engine-append"},
		},

		TrimKeywords: []string{
			"active", "pulse", "style", "comfort", "executive", "elegant",
			"premium", "safety", "panorama", "gr sport", "x-clusiv",
		},
	}

	if err := t.compile(); err != nil {
		// The built-in template is static; a compile failure is a
		// programming error, not an input error.
		panic(err)
	}
	return t
}
