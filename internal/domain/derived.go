package domain

import "math"

const (
	maxSolarRadiation    = 1000.0 // W/m² at the equator under a clear sky
	maxCloudAttenuation  = 0.75
	dustStormWindSpeed   = 8.0  // m/s
	dustStormHumidity    = 30.0 // %
	heatStressTemp       = 35.0 // °C
	solarStressRadiation = 800.0
)

// Environmental risk labels, in the order EnvironmentalRisks reports them.
const (
	RiskHeatStress  = "High temperature stress"
	RiskEvaporation = "High evaporation rate"
	RiskDustStorm   = "Risk of dust storms"
	RiskSolarStress = "High solar radiation stress"
)

// Measurement is a value with its unit and band label.
type Measurement struct {
	Value          float64 `json:"value"`
	Unit           string  `json:"unit"`
	Classification string  `json:"classification"`
}

// WindConditions describes wind speed and the derived dust storm outlook.
type WindConditions struct {
	Speed                float64 `json:"speed"`
	Unit                 string  `json:"unit"`
	DustStormProbability string  `json:"dust_storm_probability"` // "High" or "Low"
}

// CurrentConditions is the classified view of a CurrentWeather observation.
type CurrentConditions struct {
	Temperature        Measurement    `json:"temperature"`
	Humidity           Measurement    `json:"humidity"`
	SolarRadiation     Measurement    `json:"solar_radiation"`
	Wind               WindConditions `json:"wind"`
	EnvironmentalRisks []string       `json:"environmental_risks"`
}

// EstimateSolarRadiation approximates radiation in W/m² from latitude (cosine
// law) and cloud cover (up to 75% attenuation at full cover).
func EstimateSolarRadiation(lat, cloudCoverPct float64) float64 {
	latitudeFactor := math.Abs(math.Cos(lat * math.Pi / 180))
	cloudFactor := 1 - (cloudCoverPct/100)*maxCloudAttenuation
	return maxSolarRadiation * latitudeFactor * cloudFactor
}

// DustStormProne reports whether wind and humidity favour dust storms.
func DustStormProne(windSpeed, humidity float64) bool {
	return windSpeed > dustStormWindSpeed && humidity < dustStormHumidity
}

// EnvironmentalRisks lists the risks triggered by the given conditions.
// The result is never nil so it serializes as an empty list.
func EnvironmentalRisks(temp, humidity, windSpeed, solarRadiation float64) []string {
	risks := []string{}
	if temp > heatStressTemp {
		risks = append(risks, RiskHeatStress)
	}
	if humidity < dustStormHumidity {
		risks = append(risks, RiskEvaporation)
	}
	if windSpeed > dustStormWindSpeed {
		risks = append(risks, RiskDustStorm)
	}
	if solarRadiation > solarStressRadiation {
		risks = append(risks, RiskSolarStress)
	}
	return risks
}

// AnalyzeCurrentWeather classifies an observation and derives its secondary
// metrics.
func AnalyzeCurrentWeather(cur CurrentWeather) CurrentConditions {
	radiation := EstimateSolarRadiation(cur.Lat, cur.CloudCover)

	dust := "Low"
	if DustStormProne(cur.WindSpeed, cur.Humidity) {
		dust = "High"
	}

	return CurrentConditions{
		Temperature: Measurement{
			Value:          cur.Temperature,
			Unit:           "°C",
			Classification: ClassifyTemperature(cur.Temperature),
		},
		Humidity: Measurement{
			Value:          cur.Humidity,
			Unit:           "%",
			Classification: ClassifyHumidity(cur.Humidity),
		},
		SolarRadiation: Measurement{
			Value:          radiation,
			Unit:           "W/m²",
			Classification: ClassifySolarRadiation(radiation),
		},
		Wind: WindConditions{
			Speed:                cur.WindSpeed,
			Unit:                 "m/s",
			DustStormProbability: dust,
		},
		EnvironmentalRisks: EnvironmentalRisks(cur.Temperature, cur.Humidity, cur.WindSpeed, radiation),
	}
}
