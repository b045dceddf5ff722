package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Crop categories a recommendation may name.
const (
	CategoryFruits          = "fruits"
	CategoryVegetables      = "vegetables"
	CategoryCereals         = "cereals"
	CategoryPulses          = "pulses"
	CategoryFlowers         = "flowers"
	CategoryLeafyVegetables = "leafy vegetables"
)

// Categories lists the crop categories in prompt order.
var Categories = []string{
	CategoryFruits,
	CategoryVegetables,
	CategoryCereals,
	CategoryPulses,
	CategoryFlowers,
	CategoryLeafyVegetables,
}

// Recommendation is one crop suggested by the model. Score is kept exactly
// as the model wrote it.
type Recommendation struct {
	Crop     string `json:"crop"`
	Category string `json:"type"`
	Score    string `json:"score"`
	Reason   string `json:"reason"`
}

// KnownCategory reports whether Category is one of Categories, ignoring case.
func (r Recommendation) KnownCategory() bool {
	for _, c := range Categories {
		if strings.EqualFold(strings.TrimSpace(r.Category), c) {
			return true
		}
	}
	return false
}

var (
	// enumeratorRe matches the "12." style prefix of a numbered line.
	enumeratorRe = regexp.MustCompile(`^\d+\.\s*`)

	// fieldLabelRes strip the optional "CROP:"-style label from each
	// segment, by segment position.
	fieldLabelRes = [4]*regexp.Regexp{
		regexp.MustCompile(`(?i)^crop\s*:\s*`),
		regexp.MustCompile(`(?i)^type\s*:\s*`),
		regexp.MustCompile(`(?i)^score\s*:\s*`),
		regexp.MustCompile(`(?i)^reason\s*:\s*`),
	}
)

// ParseRecommendations extracts records of the form
//
//	1. CROP: Wheat | TYPE: cereals | SCORE: 85 | REASON: staple crop
//
// from free text. Lines are considered once a line starting with "1.", "2."
// or "3." has been seen or a record has been accepted; a candidate must
// contain "|" and split into at least four segments. Anything else is
// skipped. The result is never nil.
func ParseRecommendations(text string) []Recommendation {
	recs := []Recommendation{}
	started := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "1.") || strings.HasPrefix(line, "2.") || strings.HasPrefix(line, "3.") {
			started = true
		}
		if !started || !strings.Contains(line, "|") {
			continue
		}

		line = enumeratorRe.ReplaceAllString(line, "")
		parts := strings.Split(line, "|")
		if len(parts) < 4 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
			if i < len(fieldLabelRes) {
				parts[i] = fieldLabelRes[i].ReplaceAllString(parts[i], "")
			}
		}

		recs = append(recs, Recommendation{
			Crop:     parts[0],
			Category: parts[1],
			Score:    parts[2],
			Reason:   parts[3],
		})
	}
	return recs
}

// BuildRecommendationPrompt renders the crop recommendation prompt for a
// report.
func BuildRecommendationPrompt(r LocationReport) string {
	return fmt.Sprintf(`<s>[INST] You are an agricultural expert. I need specific crop recommendations for this specific location only and conditions.

Current Conditions:
Location: %s
Temperature: %g°C
Humidity: %g%%
Season: %s
Soil: %s

Generate 3 specific crop recommendations based on these location conditions. List them in order of suitability.
TYPE :[category] should be one among %s

First analyze the region's traditional crop patterns, then list the most suitable crops considering both regional success and current conditions. Format each recommendation as:

1. CROP: [name] | TYPE: [category] | SCORE: [1-100] | REASON: [Include regional significance if applicable]

Your recommendations: [/INST]
`,
		r.Region,
		r.Weather.Current.Temperature.Value,
		r.Weather.Current.Humidity.Value,
		r.Season,
		r.Soil.Profile.Composition.Texture,
		strings.Join(Categories, ","),
	)
}
