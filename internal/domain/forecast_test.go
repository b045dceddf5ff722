package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardinalDirection(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "N"},
		{5, "N"},
		{10, "N"},
		{22.4, "N"},
		{22.5, "NE"},
		{45, "NE"},
		{90, "E"},
		{135, "SE"},
		{180, "S"},
		{225, "SW"},
		{270, "W"},
		{315, "NW"},
		{337.4, "NW"},
		{337.5, "N"},
		{359.9, "N"},
		{360, "N"},
		{-10, "N"},
		{-90, "W"},
		{720 + 90, "E"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CardinalDirection(tt.deg), "deg=%v", tt.deg)
	}
}

func sampleAt(ts time.Time, temp, pop, deg float64) ForecastSample {
	return ForecastSample{Time: ts, Temperature: temp, RainProbability: pop, WindDeg: deg}
}

func TestAggregateForecast_SingleDay(t *testing.T) {
	day := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	temps := []float64{20, 22, 24, 26, 28, 26, 24, 22}
	pops := []float64{0.1, 0.5, 0.3, 0.2, 0, 0, 0.4, 0.1}
	degs := []float64{0, 10, 5, 350, 90, 95, 180, 3}

	samples := make([]ForecastSample, 0, len(temps))
	for i := range temps {
		samples = append(samples, sampleAt(day.Add(time.Duration(i)*3*time.Hour), temps[i], pops[i], degs[i]))
	}

	got := AggregateForecast(samples, time.UTC)

	require.Len(t, got, 1)
	assert.Equal(t, "2024-07-01", got[0].Date)
	assert.InDelta(t, 24.0, got[0].MeanTemperature, 1e-9)
	assert.InDelta(t, 0.5, got[0].RainProbability, 1e-9)
	assert.Equal(t, "N", got[0].WindDirection)
	assert.Equal(t, "50.00% chance of rain", got[0].RainPrediction)
	assert.Equal(t, "24.00°C", got[0].TemperaturePrediction)
}

func TestAggregateForecast_PreservesDateOrder(t *testing.T) {
	d1 := time.Date(2024, 7, 2, 12, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	samples := []ForecastSample{
		sampleAt(d1, 30, 0.2, 90),
		sampleAt(d2, 20, 0.9, 180),
		sampleAt(d1.Add(3*time.Hour), 32, 0.1, 90),
	}

	got := AggregateForecast(samples, time.UTC)

	require.Len(t, got, 2)
	assert.Equal(t, "2024-07-02", got[0].Date)
	assert.InDelta(t, 31.0, got[0].MeanTemperature, 1e-9)
	assert.InDelta(t, 0.2, got[0].RainProbability, 1e-9)
	assert.Equal(t, "E", got[0].WindDirection)
	assert.Equal(t, "2024-07-01", got[1].Date)
	assert.Equal(t, "S", got[1].WindDirection)
}

func TestAggregateForecast_DirectionTieGoesToFirstSeen(t *testing.T) {
	day := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	samples := []ForecastSample{
		sampleAt(day, 20, 0, 270),
		sampleAt(day.Add(3*time.Hour), 20, 0, 90),
		sampleAt(day.Add(6*time.Hour), 20, 0, 90),
		sampleAt(day.Add(9*time.Hour), 20, 0, 270),
	}

	got := AggregateForecast(samples, time.UTC)

	require.Len(t, got, 1)
	assert.Equal(t, "W", got[0].WindDirection)
}

func TestAggregateForecast_GroupsInLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC on Jul 1 is already Jul 2 in IST.
	samples := []ForecastSample{
		sampleAt(time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC), 25, 0, 0),
		sampleAt(time.Date(2024, 7, 1, 20, 0, 0, 0, time.UTC), 25, 0, 0),
	}

	assert.Len(t, AggregateForecast(samples, time.UTC), 1)

	got := AggregateForecast(samples, ist)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-07-01", got[0].Date)
	assert.Equal(t, "2024-07-02", got[1].Date)
}

func TestAggregateForecast_DoesNotCapDays(t *testing.T) {
	start := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	var samples []ForecastSample
	for d := 0; d < 7; d++ {
		samples = append(samples, sampleAt(start.AddDate(0, 0, d), 25, 0, 0))
	}

	assert.Len(t, AggregateForecast(samples, time.UTC), 7)
}

func TestAggregateForecast_Empty(t *testing.T) {
	got := AggregateForecast(nil, nil)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
