// Package domain models location-based agronomy advisories: the weather and
// soil context of a coordinate, the descriptive bands derived from it, and
// the crop and yield records extracted from language-model completions.
//
// # Data Sources
//
// Current conditions and the forecast come from OpenWeatherMap (metric units).
// The forecast is a list of 3-hourly points (up to 8 per day); the weather
// adapter trims it to the first five calendar days before it reaches this
// package. Soil observations come from Ambee and are optional.
//
// # Classification Bands
//
// Every band table is a monotonic list of exclusive upper bounds followed by an
// unbounded top band. A value equal to a bound belongs to the band above it:
//
//	Temperature (°C):     <0 Freezing | <10 Very Cold | <15 Cold | <20 Cool |
//	                      <25 Moderate | <30 Warm | <35 Hot | else Very Hot
//	Humidity (%):         <20 Very Dry | <30 Dry | <45 Comfortable Dry |
//	                      <65 Comfortable | <80 Moderate Humid | <90 Humid | else Very Humid
//	Solar radiation (W/m²): <200 Very Low | <400 Low | <600 Moderate | <800 High |
//	                      <1000 Very High | else Extreme
//
// # Derived Metrics
//
// Solar radiation is a fixed estimate, not a physical model:
//
//	1000 × |cos(lat)| × (1 − 0.75 × clouds/100)
//
// A location is dust-storm prone when wind > 8 m/s and humidity < 30%.
//
// # Soil Ladder
//
// Soil profiles are looked up from the current condition keyword (matched
// case-insensitively) and the last hour of rainfall in mm, first match wins:
//
//	desert|clear       and rain < 250         → desert sandy
//	rain|thunderstorm  and rain > 2000        → lateritic
//	clouds|drizzle     and 1000 ≤ rain ≤ 2000 → forest
//	mist|fog           and 500 ≤ rain < 1000  → prairie
//	otherwise                                 → moderate climate (loamy)
//
// # Model Output Grammar
//
// Recommendation completions are expected as numbered, pipe-delimited lines:
//
//	1. CROP: Wheat | TYPE: cereals | SCORE: 85 | REASON: staple crop
//
// Yield and price completions are expected as "Yield: <n>" and "Price: <n>"
// lines. Anything that does not match is dropped without error; see
// [ParseRecommendations] and [ParseYieldPrice].
package domain
