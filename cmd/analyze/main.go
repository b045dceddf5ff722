// Command analyze builds a location report offline from a saved OpenWeatherMap
// bundle, without calling any external service. It is useful for checking
// classification and forecast aggregation against recorded responses.
//
// Usage:
//
//	go run ./cmd/analyze -lat 18.52 -lon 73.85 -region Pune \
//	  -now 2024-07-01T06:00:00Z < testdata/pune.json
//
// The bundle is a JSON document {"current": {...}, "forecast": {"list": [...]}}
// holding the raw /weather and /forecast responses.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/crop-advisor-service/internal/adapter/openweather"
	"github.com/couchcryptid/crop-advisor-service/internal/domain"
)

func main() {
	bundlePath := flag.String("bundle", "", "path to the weather bundle (default stdin)")
	lat := flag.Float64("lat", 0, "latitude")
	lon := flag.Float64("lon", 0, "longitude")
	region := flag.String("region", "", "region label for the report")
	tz := flag.String("tz", "Asia/Kolkata", "time zone used to group forecast days")
	now := flag.String("now", "", "RFC3339 time to analyze as of (default current time)")
	prompt := flag.Bool("prompt", false, "print the crop recommendation prompt instead of the report")
	flag.Parse()

	if err := run(os.Stdout, *bundlePath, *lat, *lon, *region, *tz, *now, *prompt); err != nil {
		fmt.Fprintln(os.Stderr, "analyze:", err)
		os.Exit(1)
	}
}

func run(out io.Writer, bundlePath string, lat, lon float64, region, tz, now string, prompt bool) error {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("load time zone %q: %w", tz, err)
	}

	if now != "" {
		at, err := time.Parse(time.RFC3339, now)
		if err != nil {
			return fmt.Errorf("parse -now: %w", err)
		}
		domain.SetClock(clockwork.NewFakeClockAt(at))
	}

	in := io.Reader(os.Stdin)
	if bundlePath != "" {
		f, err := os.Open(bundlePath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	bundle, err := openweather.DecodeBundle(in)
	if err != nil {
		return err
	}

	report, err := domain.ComposeReport(domain.ReportInput{
		Lat:      lat,
		Lon:      lon,
		Region:   region,
		Weather:  bundle.WeatherData(loc),
		Location: loc,
	})
	if err != nil {
		return err
	}

	if prompt {
		_, err := fmt.Fprintln(out, domain.BuildRecommendationPrompt(report))
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
