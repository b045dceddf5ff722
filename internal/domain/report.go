package domain

import (
	"time"
)

// Season labels.
const (
	SeasonSpring = "Spring"
	SeasonSummer = "Summer"
	SeasonFall   = "Fall"
	SeasonWinter = "Winter"
)

// SeasonFor returns the season of t by calendar month: Mar–May Spring,
// Jun–Aug Summer, Sep–Nov Fall and Winter otherwise.
func SeasonFor(t time.Time) string {
	switch t.Month() {
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.September, time.October, time.November:
		return SeasonFall
	default:
		return SeasonWinter
	}
}

// Coordinates locates a report.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// WeatherAnalysis holds the classified current conditions and the daily forecast.
type WeatherAnalysis struct {
	Current  CurrentConditions    `json:"current"`
	Forecast []ForecastDaySummary `json:"forecast"`
}

// SoilAnalysis carries the rule-based profile and, when a soil provider
// answered, its live reading alongside it.
type SoilAnalysis struct {
	Profile         SoilProfile      `json:"detailed_characteristics"`
	LiveObservation *SoilObservation `json:"live_observation,omitempty"`
}

// EnvironmentalConditions is the climate label and the derived risk list.
type EnvironmentalConditions struct {
	ClimateType string   `json:"climate_type"`
	Risks       []string `json:"risks"`
}

// LocationReport is the full analysis of one location at one moment.
type LocationReport struct {
	Coordinates Coordinates             `json:"coordinates"`
	Region      string                  `json:"region"`
	Weather     WeatherAnalysis         `json:"weather_analysis"`
	Soil        SoilAnalysis            `json:"soil_analysis"`
	Season      string                  `json:"season"`
	Environment EnvironmentalConditions `json:"environmental_conditions"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// ReportInput is everything ComposeReport needs. Soil is optional.
type ReportInput struct {
	Lat, Lon float64
	Region   string
	Weather  WeatherData
	Soil     *SoilObservation

	// Location is the time zone used to group forecast days; nil means
	// time.Local.
	Location *time.Location
}

// ComposeReport assembles a LocationReport. It returns ErrIncompleteWeather
// when current conditions or the forecast are missing. The season and
// generation time come from the package clock, not from the weather data.
func ComposeReport(in ReportInput) (LocationReport, error) {
	if !in.Weather.Complete() {
		return LocationReport{}, ErrIncompleteWeather
	}

	cur := *in.Weather.Current
	if cur.Lat == 0 && cur.Lon == 0 {
		cur.Lat, cur.Lon = in.Lat, in.Lon
	}
	conditions := AnalyzeCurrentWeather(cur)
	now := Now()

	var live *SoilObservation
	if in.Soil != nil {
		obs := *in.Soil
		live = &obs
	}

	return LocationReport{
		Coordinates: Coordinates{Latitude: in.Lat, Longitude: in.Lon},
		Region:      in.Region,
		Weather: WeatherAnalysis{
			Current:  conditions,
			Forecast: AggregateForecast(in.Weather.Forecast, in.Location),
		},
		Soil: SoilAnalysis{
			Profile:         ResolveSoilProfile(cur.Condition, cur.Precipitation1h),
			LiveObservation: live,
		},
		Season: SeasonFor(now),
		Environment: EnvironmentalConditions{
			ClimateType: cur.Condition,
			Risks:       conditions.EnvironmentalRisks,
		},
		GeneratedAt: now,
	}, nil
}
