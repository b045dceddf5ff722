package domain

// Band is one half-open interval of a BandTable: values strictly below Upper
// (and at or above the previous band's Upper) get Label.
type Band struct {
	Upper float64
	Label string
}

// BandTable maps a continuous measurement to a descriptive label. Bands must
// be sorted by Upper; anything at or above the last bound gets Top.
type BandTable struct {
	Name  string
	Bands []Band
	Top   string
}

// Classify returns the label of the first band whose upper bound exceeds v.
// NaN compares false against every bound and therefore lands in Top.
func (t BandTable) Classify(v float64) string {
	for _, b := range t.Bands {
		if v < b.Upper {
			return b.Label
		}
	}
	return t.Top
}

var (
	// TemperatureBands classifies air temperature in °C.
	TemperatureBands = BandTable{
		Name: "temperature",
		Bands: []Band{
			{Upper: 0, Label: "Freezing"},
			{Upper: 10, Label: "Very Cold"},
			{Upper: 15, Label: "Cold"},
			{Upper: 20, Label: "Cool"},
			{Upper: 25, Label: "Moderate"},
			{Upper: 30, Label: "Warm"},
			{Upper: 35, Label: "Hot"},
		},
		Top: "Very Hot",
	}

	// HumidityBands classifies relative humidity in percent.
	HumidityBands = BandTable{
		Name: "humidity",
		Bands: []Band{
			{Upper: 20, Label: "Very Dry"},
			{Upper: 30, Label: "Dry"},
			{Upper: 45, Label: "Comfortable Dry"},
			{Upper: 65, Label: "Comfortable"},
			{Upper: 80, Label: "Moderate Humid"},
			{Upper: 90, Label: "Humid"},
		},
		Top: "Very Humid",
	}

	// SolarRadiationBands classifies estimated solar radiation in W/m².
	SolarRadiationBands = BandTable{
		Name: "solar_radiation",
		Bands: []Band{
			{Upper: 200, Label: "Very Low"},
			{Upper: 400, Label: "Low"},
			{Upper: 600, Label: "Moderate"},
			{Upper: 800, Label: "High"},
			{Upper: 1000, Label: "Very High"},
		},
		Top: "Extreme",
	}
)

// ClassifyTemperature labels a temperature in °C.
func ClassifyTemperature(celsius float64) string {
	return TemperatureBands.Classify(celsius)
}

// ClassifyHumidity labels a relative humidity percentage.
func ClassifyHumidity(pct float64) string {
	return HumidityBands.Classify(pct)
}

// ClassifySolarRadiation labels a solar radiation level in W/m².
func ClassifySolarRadiation(wm2 float64) string {
	return SolarRadiationBands.Classify(wm2)
}
