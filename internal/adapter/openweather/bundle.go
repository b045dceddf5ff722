package openweather

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/couchcryptid/crop-advisor-service/internal/domain"
)

// OpenWeatherMap response types. Optional fields decode to zero.

type currentResponse struct {
	Dt    int64 `json:"dt"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
}

type forecastResponse struct {
	List []forecastItem `json:"list"`
}

type forecastItem struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Pop  float64 `json:"pop"`
	Wind struct {
		Deg float64 `json:"deg"`
	} `json:"wind"`
}

// Bundle is the pair of raw responses for one location, as saved by
// DecodeBundle's callers: {"current": {...}, "forecast": {"list": [...]}}.
type Bundle struct {
	Current  *currentResponse `json:"current"`
	Forecast forecastResponse `json:"forecast"`
}

// DecodeBundle reads a saved {current, forecast} document.
func DecodeBundle(r io.Reader) (Bundle, error) {
	var b Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return Bundle{}, fmt.Errorf("decode weather bundle: %w", err)
	}
	return b, nil
}

// WeatherData converts the raw responses, keeping only the first
// ForecastDays calendar days (in loc) of the forecast.
func (b Bundle) WeatherData(loc *time.Location) domain.WeatherData {
	var data domain.WeatherData

	if b.Current != nil {
		cur := b.Current
		condition := ""
		if len(cur.Weather) > 0 {
			condition = cur.Weather[0].Main
		}
		data.Current = &domain.CurrentWeather{
			Timestamp:       unix(cur.Dt),
			Temperature:     cur.Main.Temp,
			Humidity:        cur.Main.Humidity,
			WindSpeed:       cur.Wind.Speed,
			WindDeg:         cur.Wind.Deg,
			CloudCover:      cur.Clouds.All,
			Precipitation1h: cur.Rain.OneHour,
			Condition:       condition,
			Lat:             cur.Coord.Lat,
			Lon:             cur.Coord.Lon,
		}
	}

	samples := make([]domain.ForecastSample, 0, len(b.Forecast.List))
	for _, item := range b.Forecast.List {
		samples = append(samples, domain.ForecastSample{
			Time:            unix(item.Dt),
			Temperature:     item.Main.Temp,
			RainProbability: item.Pop,
			WindDeg:         item.Wind.Deg,
		})
	}
	data.Forecast = FilterForecastDays(samples, loc, ForecastDays)

	return data
}

func unix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
