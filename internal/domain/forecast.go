package domain

import (
	"fmt"
	"math"
	"time"
)

// cardinalDirections are the 8 compass buckets, 45° wide, centred on N at 0°.
var cardinalDirections = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// ForecastDaySummary reduces one calendar day of forecast samples.
type ForecastDaySummary struct {
	Date                  string  `json:"date"` // YYYY-MM-DD
	RainProbability       float64 `json:"rain_probability"`
	MeanTemperature       float64 `json:"mean_temperature"`
	WindDirection         string  `json:"wind_direction"`
	RainPrediction        string  `json:"rain_prediction"`
	TemperaturePrediction string  `json:"temperature_prediction"`
}

// CardinalDirection maps a wind direction in degrees to one of the 8 compass
// buckets. Bucket i covers [45i − 22.5, 45i + 22.5); negative and >360 inputs
// are normalized first.
func CardinalDirection(deg float64) string {
	shifted := math.Mod(deg+22.5, 360)
	if shifted < 0 {
		shifted += 360
	}
	idx := int(math.Floor(shifted/45)) % len(cardinalDirections)
	return cardinalDirections[idx]
}

// AggregateForecast groups samples by calendar date in loc (time.Local when
// nil), preserving first-seen date order, and reduces each group to its mean
// temperature, maximum rain probability and dominant wind direction.
//
// The dominant direction is the mode of the per-sample directions; ties go to
// the direction that appeared first that day.
func AggregateForecast(samples []ForecastSample, loc *time.Location) []ForecastDaySummary {
	if loc == nil {
		loc = time.Local
	}

	type dayGroup struct {
		date    string
		temps   float64
		n       int
		maxPop  float64
		counts  map[string]int
		ordered []string
	}

	groups := make(map[string]*dayGroup)
	order := make([]string, 0, 5)

	for _, s := range samples {
		date := s.Time.In(loc).Format(time.DateOnly)
		g, ok := groups[date]
		if !ok {
			g = &dayGroup{date: date, maxPop: s.RainProbability, counts: make(map[string]int)}
			groups[date] = g
			order = append(order, date)
		}
		g.temps += s.Temperature
		g.n++
		if s.RainProbability > g.maxPop {
			g.maxPop = s.RainProbability
		}
		dir := CardinalDirection(s.WindDeg)
		if g.counts[dir] == 0 {
			g.ordered = append(g.ordered, dir)
		}
		g.counts[dir]++
	}

	out := make([]ForecastDaySummary, 0, len(order))
	for _, date := range order {
		g := groups[date]
		mean := g.temps / float64(g.n)
		out = append(out, ForecastDaySummary{
			Date:                  date,
			RainProbability:       g.maxPop,
			MeanTemperature:       mean,
			WindDirection:         dominantDirection(g.ordered, g.counts),
			RainPrediction:        fmt.Sprintf("%.2f%% chance of rain", g.maxPop*100),
			TemperaturePrediction: fmt.Sprintf("%.2f°C", mean),
		})
	}
	return out
}

// dominantDirection returns the most frequent direction, scanning in
// first-seen order so that the earliest direction wins a tie.
func dominantDirection(ordered []string, counts map[string]int) string {
	best, bestCount := "", 0
	for _, dir := range ordered {
		if counts[dir] > bestCount {
			best, bestCount = dir, counts[dir]
		}
	}
	return best
}
