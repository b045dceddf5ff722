package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// acresPerHectare converts per-hectare figures to per-acre: 1 ha = 2.47105 ac.
const acresPerHectare = 2.47105

// Yield prediction error messages.
const (
	YieldErrNoPrice        = "Could not determine price"
	YieldErrNoYieldOrPrice = "Could not determine yield or price"
)

// Yield sources.
const (
	YieldSourceStatic = "static"
	YieldSourceModel  = "model"
)

// CropYield is a reference yield for one crop.
type CropYield struct {
	Crop         string
	KgPerHectare float64
}

// StaticYields are national average yields for common crops, kg/hectare.
var StaticYields = []CropYield{
	{"rice", 2873},
	{"wheat", 3615},
	{"jowar", 1175},
	{"bajra", 1449},
	{"maize", 3321},
	{"tur", 831},
	{"gram", 1224},
	{"groundnut", 2179},
	{"rapeseed and mustard", 1443},
	{"sugarcane", 79000},
	{"cotton", 436},
	{"jute", 2795},
	{"mesta", 2056},
	{"potato", 24000},
	{"tea", 2042},
	{"coffee", 780},
	{"rubber", 973},
}

// NormalizeCrop lower-cases a crop name and collapses its whitespace.
func NormalizeCrop(crop string) string {
	return strings.Join(strings.Fields(strings.ToLower(crop)), " ")
}

// StaticYieldPerAcre looks up a crop in StaticYields and returns its yield
// in kg/acre.
func StaticYieldPerAcre(crop string) (float64, bool) {
	crop = NormalizeCrop(crop)
	for _, y := range StaticYields {
		if y.Crop == crop {
			return y.KgPerHectare / acresPerHectare, true
		}
	}
	return 0, false
}

// YieldPrediction is the expected harvest and income for a crop. When Error
// is set only Crop and Acres are meaningful.
type YieldPrediction struct {
	Crop          string  `json:"crop"`
	Acres         float64 `json:"acres"`
	YieldPerAcre  float64 `json:"yield_per_acre"`
	ExpectedYield float64 `json:"expected_yield"`
	PricePerKg    float64 `json:"price_per_kg"`
	TotalIncome   float64 `json:"total_income"`
	Unit          string  `json:"unit,omitempty"`
	Source        string  `json:"source,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// OK reports whether the prediction carries figures rather than an error.
func (p YieldPrediction) OK() bool {
	return p.Error == ""
}

// NewYieldPrediction computes expected yield and income from per-acre yield
// and price.
func NewYieldPrediction(crop string, acres, yieldPerAcre, pricePerKg float64, source string) YieldPrediction {
	expected := acres * yieldPerAcre
	return YieldPrediction{
		Crop:          crop,
		Acres:         acres,
		YieldPerAcre:  yieldPerAcre,
		ExpectedYield: expected,
		PricePerKg:    pricePerKg,
		TotalIncome:   expected * pricePerKg,
		Unit:          "kg",
		Source:        source,
	}
}

// FailedYieldPrediction returns a prediction carrying only an error message.
func FailedYieldPrediction(crop string, acres float64, msg string) YieldPrediction {
	return YieldPrediction{Crop: crop, Acres: acres, Error: msg}
}

// TotalIncome sums the income of the successful predictions.
func TotalIncome(preds []YieldPrediction) float64 {
	var total float64
	for _, p := range preds {
		if p.OK() {
			total += p.TotalIncome
		}
	}
	return total
}

// The captured token runs to the first character that cannot be part of a
// number, so "1,200" is captured whole and rejected rather than read as 1.
var (
	yieldRe = regexp.MustCompile(`(?i)yield\s*:\s*(\d[\d,.]*)`)
	priceRe = regexp.MustCompile(`(?i)price\s*:\s*(?:rs\.?\s*)?(\d[\d,.]*)`)
)

// ParseYieldPrice extracts the numbers following "Yield:" and "Price:" in a
// completion. A field that is missing or not a number is nil.
func ParseYieldPrice(text string) (yield, price *float64) {
	return matchNumber(yieldRe, text), matchNumber(priceRe, text)
}

// ParsePrice extracts the number following "Price:".
func ParsePrice(text string) *float64 {
	return matchNumber(priceRe, text)
}

func matchNumber(re *regexp.Regexp, text string) *float64 {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	// A sentence-ending period is not part of the number.
	v, err := strconv.ParseFloat(strings.TrimSuffix(m[1], "."), 64)
	if err != nil {
		return nil
	}
	return &v
}

// BuildPricePrompt renders the market price prompt for a crop.
func BuildPricePrompt(crop string) string {
	return fmt.Sprintf(`<s>[INST] You are an agricultural market specialist. Provide the current market price per kg for %s in India based on recent trends. Return ONLY the numeric price value in rupees per kg.

For reference, some typical crop prices:
Rice: 20-25 Rs/kg
Wheat: 25-30 Rs/kg
Cotton: 60-70 Rs/kg
Potato: 15-20 Rs/kg

Respond EXACTLY in this format (just the number):
Price: XXX[/INST]`, crop)
}

// BuildYieldPricePrompt renders the combined yield and price prompt used for
// crops missing from StaticYields.
func BuildYieldPricePrompt(crop string) string {
	return fmt.Sprintf(`<s>[INST] You are an agricultural specialist. For the crop %s in India:
1. Provide its yield per acre (in kg/acre)
2. Provide its current market price (in Rs/kg)

For reference:
Typical yields (2023-24):
- Rice: 1162 kg/acre
- Wheat: 1463 kg/acre
- Cotton: 176 kg/acre
- Potato: 9713 kg/acre

Typical prices:
- Rice: 20-25 Rs/kg
- Wheat: 25-30 Rs/kg
- Cotton: 60-70 Rs/kg
- Potato: 15-20 Rs/kg

Respond EXACTLY in this format (just the numbers):
Yield: XXX
Price: XXX[/INST]`, crop)
}
