package dataset

import (
	"github.com/shopspring/decimal"

	"landed-cost/core/tariff"
	"landed-cost/core/types"
)

// Builtin returns the compiled-in reference dataset. It covers over
// two hundred destinations across seven shipping zones, a benchmark
// rate table per zone at the standard breakpoints (0.5 to 30 kg), the
// common duty rates, the flat reciprocal tariff rates by origin, and
// the recommended exclusion list.
func Builtin() *Dataset {
	d := &Dataset{
		Zones:      builtinZones(),
		Rates:      builtinRates(),
		Reciprocal: builtinReciprocal(),
		DutyRates:  builtinDutyRates(),
		Exclusions: builtinExclusions(),
	}
	if err := d.validate(); err != nil {
		// The builtin tables are fixed at compile time; an invalid
		// builtin dataset is a programming error.
		panic(err)
	}
	return d
}

func builtinZones() []types.ShippingZone {
	return []types.ShippingZone{
		{
			// North America
			ZoneCode:         "Z1",
			AdjustmentFactor: decimal.NewFromFloat(1.10),
			Countries:        []string{"US", "CA", "MX"},
		},
		{
			// Europe
			ZoneCode:         "Z2",
			AdjustmentFactor: decimal.NewFromFloat(1.15),
			Countries: []string{
				"GB", "DE", "FR", "IT", "ES", "NL", "BE", "AT", "IE", "PT",
				"SE", "DK", "FI", "PL", "CZ", "CH", "NO", "GR", "HU", "RO",
				"BG", "HR", "SK", "SI", "LT", "LV", "EE", "CY", "MT", "LU",
				"IS", "AD", "MC", "LI", "SM", "VA", "GI", "GG", "JE", "MK",
				"ME", "AL", "BA", "RS", "MD", "BY", "RU", "UA", "SJ",
			},
		},
		{
			// Oceania
			ZoneCode:         "Z3",
			AdjustmentFactor: decimal.NewFromFloat(1.12),
			Countries: []string{
				"AU", "NZ", "PG", "FJ", "NC", "PF", "SB", "VU", "WS", "TO",
				"TV", "KI", "NR", "NU", "CK", "PW", "MH", "FM", "GU", "AS",
				"WF",
			},
		},
		{
			// Asia
			ZoneCode:         "Z4",
			AdjustmentFactor: decimal.NewFromFloat(1.05),
			Countries: []string{
				"SG", "HK", "TW", "KR", "TH", "MY", "PH", "VN", "ID", "JP",
				"BN", "KH", "LA", "MM", "IN", "LK", "BD", "PK", "NP", "BT",
				"MV", "MN", "KZ", "KG", "TJ", "TM", "UZ", "AM", "AZ", "GE",
				"AF", "KP",
			},
		},
		{
			// Greater China
			ZoneCode:         "Z5",
			AdjustmentFactor: decimal.NewFromFloat(1.05),
			Countries:        []string{"CN", "MO"},
		},
		{
			// Middle East
			ZoneCode:         "Z6",
			AdjustmentFactor: decimal.NewFromFloat(1.20),
			Countries: []string{
				"AE", "SA", "IL", "TR", "QA", "KW", "BH", "OM", "JO", "LB",
				"IQ", "IR", "SY", "YE",
			},
		},
		{
			// Africa, Latin America, Caribbean and remote territories
			ZoneCode:         "Z7",
			AdjustmentFactor: decimal.NewFromFloat(1.25),
			Countries: []string{
				"ZA", "EG", "NG", "KE", "GH", "MA", "DZ", "TN", "ET", "TZ",
				"UG", "ZM", "ZW", "MZ", "MG", "MU", "SC", "NA", "BW", "LS",
				"SZ", "MW", "AO", "CM", "CI", "SN", "GM", "GN", "GW", "SL",
				"LR", "ML", "BF", "NE", "TD", "MR", "BJ", "TG", "GA", "CG",
				"CD", "CF", "GQ", "DJ", "SO", "ER", "SS", "SD", "LY", "RW",
				"BI", "KM", "CV", "SH", "RE", "YT", "EH",
				"BR", "AR", "CL", "CO", "PE", "EC", "BO", "PY", "UY", "VE",
				"GY", "SR", "GF", "FK",
				"GT", "BZ", "SV", "HN", "NI", "CR", "PA", "CU", "DO", "HT",
				"JM", "BS", "BB", "TT", "AG", "DM", "GD", "KN", "LC", "VC",
				"AI", "AW", "VG", "KY", "GP", "MQ", "MS", "AN", "TC", "PR",
				"VI", "BM", "GL", "PM",
			},
		},
	}
}

// bp builds one rate breakpoint; the total is always base plus fuel
func bp(zone string, weightKg, baseUsd, fuelUsd float64) types.ReferenceRate {
	base := decimal.NewFromFloat(baseUsd)
	fuel := decimal.NewFromFloat(fuelUsd)
	return types.ReferenceRate{
		ZoneCode:         zone,
		WeightKg:         decimal.NewFromFloat(weightKg),
		BaseUsd:          base,
		FuelSurchargeUsd: fuel,
		TotalUsd:         base.Add(fuel),
	}
}

func builtinRates() map[string][]types.ReferenceRate {
	return map[string][]types.ReferenceRate{
		"Z1": {
			bp("Z1", 0.5, 14.80, 2.20),
			bp("Z1", 1.0, 19.40, 2.90),
			bp("Z1", 2.0, 27.60, 4.15),
			bp("Z1", 5.0, 48.90, 7.35),
			bp("Z1", 10.0, 82.50, 12.40),
			bp("Z1", 20.0, 146.00, 21.90),
			bp("Z1", 30.0, 205.50, 30.85),
		},
		"Z2": {
			bp("Z2", 0.5, 16.30, 2.45),
			bp("Z2", 1.0, 21.70, 3.25),
			bp("Z2", 2.0, 31.20, 4.70),
			bp("Z2", 5.0, 55.80, 8.35),
			bp("Z2", 10.0, 94.60, 14.20),
			bp("Z2", 20.0, 168.40, 25.25),
			bp("Z2", 30.0, 237.90, 35.70),
		},
		"Z3": {
			bp("Z3", 0.5, 15.10, 2.25),
			bp("Z3", 1.0, 20.20, 3.05),
			bp("Z3", 2.0, 29.00, 4.35),
			bp("Z3", 5.0, 51.60, 7.75),
			bp("Z3", 10.0, 87.40, 13.10),
			bp("Z3", 20.0, 155.20, 23.30),
			bp("Z3", 30.0, 218.70, 32.80),
		},
		"Z4": {
			bp("Z4", 0.5, 9.80, 1.45),
			bp("Z4", 1.0, 12.90, 1.95),
			bp("Z4", 2.0, 18.30, 2.75),
			bp("Z4", 5.0, 32.40, 4.85),
			bp("Z4", 10.0, 54.70, 8.20),
			bp("Z4", 20.0, 97.10, 14.55),
			bp("Z4", 30.0, 136.60, 20.50),
		},
		"Z5": {
			bp("Z5", 0.5, 10.40, 1.55),
			bp("Z5", 1.0, 13.70, 2.05),
			bp("Z5", 2.0, 19.50, 2.90),
			bp("Z5", 5.0, 34.50, 5.15),
			bp("Z5", 10.0, 58.30, 8.75),
			bp("Z5", 20.0, 103.50, 15.50),
			bp("Z5", 30.0, 145.70, 21.85),
		},
		"Z6": {
			bp("Z6", 0.5, 18.60, 2.80),
			bp("Z6", 1.0, 24.80, 3.70),
			bp("Z6", 2.0, 35.60, 5.35),
			bp("Z6", 5.0, 63.70, 9.55),
			bp("Z6", 10.0, 108.00, 16.20),
			bp("Z6", 20.0, 192.40, 28.85),
			bp("Z6", 30.0, 271.80, 40.75),
		},
		"Z7": {
			bp("Z7", 0.5, 20.90, 3.15),
			bp("Z7", 1.0, 27.90, 4.20),
			bp("Z7", 2.0, 40.10, 6.00),
			bp("Z7", 5.0, 71.80, 10.75),
			bp("Z7", 10.0, 121.70, 18.25),
			bp("Z7", 20.0, 216.90, 32.55),
			bp("Z7", 30.0, 306.40, 45.95),
		},
	}
}

func builtinReciprocal() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"JP": decimal.NewFromFloat(0.15),
		"KR": decimal.NewFromFloat(0.15),
		"VN": decimal.NewFromFloat(0.20),
		"TH": decimal.NewFromFloat(0.19),
		"TW": decimal.NewFromFloat(0.20),
		"MY": decimal.NewFromFloat(0.19),
		"ID": decimal.NewFromFloat(0.19),
		"IN": decimal.NewFromFloat(0.26),
		"GB": decimal.NewFromFloat(0.10),
		"DE": decimal.NewFromFloat(0.15),
		"CH": decimal.NewFromFloat(0.39),
	}
}

func builtinDutyRates() []tariff.RateEntry {
	rate := func(code string, r float64, desc string) tariff.RateEntry {
		return tariff.RateEntry{Code: code, Rate: decimal.NewFromFloat(r), Description: desc}
	}
	return []tariff.RateEntry{
		rate("8471300000", 0, "Portable automatic data processing machines"),
		rate("852580", 0, "Television cameras, digital cameras and video camera recorders"),
		rate("852852", 0, "Monitors capable of connecting to data processing machines"),
		rate("851830", 0.049, "Headphones and earphones"),
		rate("910111", 0.051, "Wrist-watches, electrically operated, with mechanical display"),
		rate("910221", 0.040, "Wrist-watches, automatic winding"),
		rate("920290", 0.046, "String musical instruments"),
		rate("920710", 0.054, "Keyboard instruments, electrically amplified"),
		rate("950300", 0, "Tricycles, scooters and similar wheeled toys; dolls"),
		rate("950450", 0, "Video game consoles and machines"),
		rate("420222", 0.175, "Handbags with outer surface of plastic sheeting or textile"),
		rate("640399", 0.10, "Footwear with leather uppers"),
		rate("611020", 0.165, "Sweaters and pullovers of cotton, knitted"),
		rate("620342", 0.166, "Men's trousers of cotton"),
		rate("691110", 0.208, "Porcelain tableware and kitchenware"),
		rate("731815", 0.085, "Threaded screws and bolts of iron or steel"),
		rate("820559", 0.053, "Hand tools not elsewhere specified"),
		rate("871200", 0.11, "Bicycles, not motorized"),
		rate("900410", 0.02, "Sunglasses"),
		rate("960810", 0.004, "Ball point pens"),
	}
}

// builtinExclusions is the recommended exclusion list: sanctioned
// destinations, active conflict zones, high fraud-risk markets,
// destinations with notoriously strict customs, and places the major
// carriers serve poorly or not at all.
func builtinExclusions() []types.ExclusionEntry {
	ex := func(code, reason string) types.ExclusionEntry {
		return types.ExclusionEntry{CountryCode: code, Reason: reason}
	}
	return []types.ExclusionEntry{
		// Sanctions and embargoes
		ex("KP", "sanctions, no carrier service"),
		ex("IR", "sanctions, no carrier service"),
		ex("SY", "sanctions, active conflict"),
		ex("CU", "sanctions, no carrier service"),
		ex("RU", "sanctions, carrier service suspended"),
		ex("BY", "sanctions, carrier service suspended"),
		ex("SD", "sanctions, carrier service suspended"),
		ex("MM", "sanctions, no reliable carrier service"),

		// Active conflict or severe instability
		ex("UA", "active conflict, carrier service suspended"),
		ex("YE", "active conflict, no carrier service"),
		ex("AF", "active conflict, no carrier service"),
		ex("IQ", "active conflict, no carrier service"),
		ex("LY", "active conflict, no carrier service"),
		ex("SO", "active conflict, no carrier service"),
		ex("SS", "active conflict, no carrier service"),
		ex("ER", "active conflict, no carrier service"),
		ex("CF", "active conflict, no carrier service"),
		ex("CD", "active conflict, no carrier service"),
		ex("HT", "severe instability, no carrier service"),
		ex("VE", "political instability, no carrier service"),
		ex("LB", "security risk"),

		// High fraud risk
		ex("NG", "high fraud risk"),
		ex("PK", "high fraud risk"),

		// Strict customs or frequent clearance trouble
		ex("DZ", "very strict customs"),
		ex("EG", "strict customs, small market"),
		ex("ET", "strict customs, frequent delays"),
		ex("KE", "frequent customs trouble"),
		ex("KZ", "strict customs"),
		ex("UZ", "strict customs, frequent delays"),
		ex("AR", "very strict customs, high duties"),
		ex("BR", "very strict customs, high duties"),
		ex("ID", "frequent customs trouble"),
		ex("TR", "frequent customs trouble"),
		ex("BD", "customs trouble, frequent delays"),
		ex("TN", "strict customs"),

		// Security risk
		ex("BF", "security risk"),
		ex("BI", "security risk"),
		ex("TD", "security risk"),
		ex("ML", "security risk"),
		ex("NE", "security risk"),
		ex("AL", "security risk"),
		ex("RS", "geopolitical risk"),
		ex("BA", "unstable infrastructure"),
		ex("MD", "economic instability"),

		// Fragile delivery infrastructure
		ex("AO", "fragile delivery infrastructure"),
		ex("BJ", "fragile delivery infrastructure"),
		ex("GN", "fragile delivery infrastructure"),
		ex("GW", "fragile delivery infrastructure"),
		ex("LR", "fragile delivery infrastructure"),
		ex("SL", "fragile delivery infrastructure"),
		ex("MR", "fragile delivery infrastructure"),
		ex("CG", "unstable delivery infrastructure"),
		ex("KH", "unstable delivery infrastructure"),
		ex("LA", "unstable delivery infrastructure"),
		ex("NP", "unstable delivery infrastructure"),

		// Frequent delivery delays
		ex("ZA", "frequent delivery delays"),
		ex("AM", "frequent delivery delays"),
		ex("AZ", "frequent delivery delays"),
		ex("GE", "frequent delivery delays"),
		ex("MN", "frequent delivery delays"),
		ex("LK", "frequent delivery delays"),
		ex("BN", "frequent delivery delays"),
		ex("IL", "frequent delivery delays"),
		ex("JO", "frequent delivery delays"),
		ex("KW", "frequent delivery delays"),
		ex("BH", "frequent delivery delays"),
		ex("OM", "frequent delivery delays"),
		ex("PH", "frequent delivery delays"),
		ex("CR", "frequent delivery delays"),
		ex("DO", "frequent delivery delays"),
		ex("SV", "frequent delivery delays"),
		ex("GT", "frequent delivery delays"),
		ex("HN", "frequent delivery delays"),
		ex("JM", "frequent delivery delays"),
		ex("NI", "frequent delivery delays"),
		ex("PA", "frequent delivery delays"),
		ex("PR", "frequent delivery delays"),
		ex("TT", "frequent delivery delays"),
		ex("CL", "frequent delivery delays"),
		ex("CO", "frequent delivery delays"),
		ex("PE", "frequent delivery delays"),

		// Hard to deliver or no carrier coverage
		ex("BW", "hard to deliver"),
		ex("CM", "hard to deliver"),
		ex("CV", "hard to deliver"),
		ex("KM", "hard to deliver"),
		ex("CI", "hard to deliver"),
		ex("DJ", "hard to deliver"),
		ex("GQ", "hard to deliver"),
		ex("GA", "hard to deliver"),
		ex("GM", "hard to deliver"),
		ex("GH", "hard to deliver"),
		ex("LS", "hard to deliver"),
		ex("MG", "hard to deliver"),
		ex("MW", "hard to deliver"),
		ex("MU", "hard to deliver"),
		ex("YT", "hard to deliver"),
		ex("MA", "hard to deliver"),
		ex("MZ", "hard to deliver"),
		ex("NA", "hard to deliver"),
		ex("RE", "hard to deliver"),
		ex("RW", "hard to deliver"),
		ex("SH", "hard to deliver"),
		ex("SN", "hard to deliver"),
		ex("SC", "hard to deliver"),
		ex("SZ", "hard to deliver"),
		ex("TZ", "hard to deliver"),
		ex("TG", "hard to deliver"),
		ex("UG", "hard to deliver"),
		ex("EH", "no carrier coverage"),
		ex("ZM", "hard to deliver"),
		ex("ZW", "hard to deliver"),
		ex("BT", "hard to deliver"),
		ex("KG", "hard to deliver"),
		ex("MV", "hard to deliver"),
		ex("TJ", "hard to deliver"),
		ex("TM", "hard to deliver"),
		ex("AI", "hard to deliver"),
		ex("AG", "hard to deliver"),
		ex("AW", "hard to deliver"),
		ex("BS", "hard to deliver"),
		ex("BB", "hard to deliver"),
		ex("BZ", "hard to deliver"),
		ex("VG", "hard to deliver"),
		ex("KY", "hard to deliver"),
		ex("DM", "hard to deliver"),
		ex("GD", "hard to deliver"),
		ex("GP", "hard to deliver"),
		ex("MQ", "hard to deliver"),
		ex("MS", "hard to deliver"),
		ex("AN", "hard to deliver"),
		ex("KN", "hard to deliver"),
		ex("LC", "hard to deliver"),
		ex("VC", "hard to deliver"),
		ex("TC", "hard to deliver"),
		ex("VI", "hard to deliver"),
		ex("BM", "hard to deliver"),
		ex("GL", "hard to deliver"),
		ex("PM", "hard to deliver"),
		ex("BO", "hard to deliver"),
		ex("EC", "hard to deliver"),
		ex("FK", "hard to deliver"),
		ex("GF", "hard to deliver"),
		ex("GY", "hard to deliver"),
		ex("PY", "hard to deliver"),
		ex("SR", "hard to deliver"),
		ex("UY", "hard to deliver"),
		ex("AS", "hard to deliver"),
		ex("CK", "hard to deliver"),
		ex("FJ", "hard to deliver"),
		ex("PF", "hard to deliver"),
		ex("GU", "hard to deliver"),
		ex("KI", "hard to deliver"),
		ex("MH", "hard to deliver"),
		ex("FM", "hard to deliver"),
		ex("NR", "hard to deliver"),
		ex("NC", "hard to deliver"),
		ex("NU", "hard to deliver"),
		ex("PW", "hard to deliver"),
		ex("PG", "hard to deliver"),
		ex("SB", "hard to deliver"),
		ex("TO", "hard to deliver"),
		ex("TV", "hard to deliver"),
		ex("VU", "hard to deliver"),
		ex("WF", "hard to deliver"),
		ex("WS", "hard to deliver"),
	}
}
