package domain

import (
	"slices"
	"strings"
)

// SoilClass identifies one branch of the soil ladder.
type SoilClass int

const (
	SoilModerate SoilClass = iota
	SoilDesertSandy
	SoilLateritic
	SoilForest
	SoilPrairie
)

func (c SoilClass) String() string {
	switch c {
	case SoilDesertSandy:
		return "desert_sandy"
	case SoilLateritic:
		return "lateritic"
	case SoilForest:
		return "forest"
	case SoilPrairie:
		return "prairie"
	default:
		return "moderate"
	}
}

// MarshalText renders the class by name in JSON.
func (c SoilClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a class name; unknown names decode to SoilModerate.
func (c *SoilClass) UnmarshalText(text []byte) error {
	for _, k := range []SoilClass{SoilDesertSandy, SoilLateritic, SoilForest, SoilPrairie} {
		if string(text) == k.String() {
			*c = k
			return nil
		}
	}
	*c = SoilModerate
	return nil
}

// SoilComposition is the texture and make-up of a soil.
type SoilComposition struct {
	PrimaryType  string `json:"primary_type"`
	Texture      string `json:"texture"`
	ParticleSize string `json:"particle_size"`
	Structure    string `json:"structure"`
	Color        string `json:"color"`
}

// PhysicalProperties describes density, porosity and compaction.
type PhysicalProperties struct {
	BulkDensity          string `json:"bulk_density"`
	Porosity             string `json:"porosity"`
	Compaction           string `json:"compaction"`
	TextureClass         string `json:"texture_class"`
	StructureStability   string `json:"structure_stability"`
	OrganicMatterContent string `json:"organic_matter_content"`
}

// PHRange is the expected pH span.
type PHRange struct {
	ValueRange     string `json:"value_range"`
	Classification string `json:"classification"`
}

// SaltContent is the expected salinity.
type SaltContent struct {
	Level        string `json:"level"`
	Conductivity string `json:"conductivity"`
}

// ChemicalProperties covers pH, salinity and exchange capacity.
type ChemicalProperties struct {
	PH                     PHRange     `json:"ph"`
	SaltContent            SaltContent `json:"salt_content"`
	CationExchangeCapacity string      `json:"cation_exchange_capacity"`
	BaseSaturation         string      `json:"base_saturation"`
	CalciumCarbonate       string      `json:"calcium_carbonate"`
}

// WaterCharacteristics describes retention and infiltration.
type WaterCharacteristics struct {
	WaterRetention         string `json:"water_retention"`
	Drainage               string `json:"drainage"`
	InfiltrationRate       string `json:"infiltration_rate"`
	FieldCapacity          string `json:"field_capacity"`
	WiltingPoint           string `json:"wilting_point"`
	AvailableWaterCapacity string `json:"available_water_capacity"`
}

// NutrientAvailability rates the major nutrients.
type NutrientAvailability struct {
	Nitrogen       string `json:"nitrogen"`
	Phosphorus     string `json:"phosphorus"`
	Potassium      string `json:"potassium"`
	Micronutrients string `json:"micronutrients"`
}

// FertilityIndicators summarizes how productive the soil is.
type FertilityIndicators struct {
	FertilityLevel         string               `json:"fertility_level"`
	NutrientAvailability   NutrientAvailability `json:"nutrient_availability"`
	OrganicMatterQuality   string               `json:"organic_matter_quality"`
	BiologicalActivity     string               `json:"biological_activity"`
	ManagementRequirements []string             `json:"management_requirements"`
}

// SoilProfile is the descriptive soil bundle for one ladder branch.
type SoilProfile struct {
	Class                SoilClass            `json:"class"`
	Composition          SoilComposition      `json:"soil_composition"`
	PhysicalProperties   PhysicalProperties   `json:"physical_properties"`
	ChemicalProperties   ChemicalProperties   `json:"chemical_properties"`
	WaterCharacteristics WaterCharacteristics `json:"water_characteristics"`
	FertilityIndicators  FertilityIndicators  `json:"fertility_indicators"`
}

// soilRule is one rung of the ladder. Rainfall bounds are in mm; the
// inclusive flags select <= / >= instead of < / >.
type soilRule struct {
	class        SoilClass
	conditions   []string
	min, max     float64
	minInclusive bool
	maxInclusive bool
	hasMin       bool
	hasMax       bool
}

func (r soilRule) matches(condition string, rainfall float64) bool {
	if !slices.Contains(r.conditions, condition) {
		return false
	}
	if r.hasMin {
		if r.minInclusive && rainfall < r.min {
			return false
		}
		if !r.minInclusive && rainfall <= r.min {
			return false
		}
	}
	if r.hasMax {
		if r.maxInclusive && rainfall > r.max {
			return false
		}
		if !r.maxInclusive && rainfall >= r.max {
			return false
		}
	}
	return true
}

// soilLadder is evaluated in order; the first matching rule wins and
// SoilModerate applies when none match.
var soilLadder = []soilRule{
	{class: SoilDesertSandy, conditions: []string{"desert", "clear"}, max: 250, hasMax: true},
	{class: SoilLateritic, conditions: []string{"rain", "thunderstorm"}, min: 2000, hasMin: true},
	{class: SoilForest, conditions: []string{"clouds", "drizzle"}, min: 1000, hasMin: true, minInclusive: true, max: 2000, hasMax: true, maxInclusive: true},
	{class: SoilPrairie, conditions: []string{"mist", "fog"}, min: 500, hasMin: true, minInclusive: true, max: 1000, hasMax: true},
}

// ClassifySoil picks the ladder branch for a condition keyword and rainfall
// amount in mm. Keyword matching ignores case and surrounding space.
func ClassifySoil(condition string, rainfallMM float64) SoilClass {
	condition = strings.ToLower(strings.TrimSpace(condition))
	for _, rule := range soilLadder {
		if rule.matches(condition, rainfallMM) {
			return rule.class
		}
	}
	return SoilModerate
}

// ResolveSoilProfile returns the soil profile for a condition keyword and
// rainfall amount. It is total: unknown conditions fall through to the
// moderate climate profile. The returned value shares no memory with the
// lookup table.
func ResolveSoilProfile(condition string, rainfallMM float64) SoilProfile {
	p := soilProfiles[ClassifySoil(condition, rainfallMM)]
	p.FertilityIndicators.ManagementRequirements = slices.Clone(p.FertilityIndicators.ManagementRequirements)
	return p
}

var soilProfiles = map[SoilClass]SoilProfile{
	SoilDesertSandy: {
		Class: SoilDesertSandy,
		Composition: SoilComposition{
			PrimaryType:  "Desert sandy soils",
			Texture:      "Coarse",
			ParticleSize: "Large",
			Structure:    "Single-grained",
			Color:        "Light brown to reddish",
		},
		PhysicalProperties: PhysicalProperties{
			BulkDensity:          "High",
			Porosity:             "High",
			Compaction:           "Low",
			TextureClass:         "Sandy",
			StructureStability:   "Poor",
			OrganicMatterContent: "Very low (<1%)",
		},
		ChemicalProperties: ChemicalProperties{
			PH:                     PHRange{ValueRange: "8.0-8.8", Classification: "Alkaline"},
			SaltContent:            SaltContent{Level: "High", Conductivity: ">4 dS/m"},
			CationExchangeCapacity: "Low",
			BaseSaturation:         "High",
			CalciumCarbonate:       "High",
		},
		WaterCharacteristics: WaterCharacteristics{
			WaterRetention:         "Poor",
			Drainage:               "Excellent",
			InfiltrationRate:       "Very high",
			FieldCapacity:          "Low",
			WiltingPoint:           "Low",
			AvailableWaterCapacity: "Very low",
		},
		FertilityIndicators: FertilityIndicators{
			FertilityLevel: "Low",
			NutrientAvailability: NutrientAvailability{
				Nitrogen:       "Very low",
				Phosphorus:     "Low",
				Potassium:      "Medium",
				Micronutrients: "Variable",
			},
			OrganicMatterQuality: "Poor",
			BiologicalActivity:   "Low",
			ManagementRequirements: []string{
				"Regular nutrient supplementation",
				"Organic matter addition",
				"Water conservation practices",
				"Wind erosion control",
			},
		},
	},
	SoilLateritic: {
		Class: SoilLateritic,
		Composition: SoilComposition{
			PrimaryType:  "Lateritic soils",
			Texture:      "Clay-like",
			ParticleSize: "Fine",
			Structure:    "Blocky to granular",
			Color:        "Deep red to reddish brown",
		},
		PhysicalProperties: PhysicalProperties{
			BulkDensity:          "Medium to high",
			Porosity:             "Medium",
			Compaction:           "Medium",
			TextureClass:         "Clay",
			StructureStability:   "Good",
			OrganicMatterContent: "High (>4%)",
		},
		ChemicalProperties: ChemicalProperties{
			PH:                     PHRange{ValueRange: "4.5-5.5", Classification: "Acidic"},
			SaltContent:            SaltContent{Level: "Low", Conductivity: "<2 dS/m"},
			CationExchangeCapacity: "Medium to high",
			BaseSaturation:         "Low",
			CalciumCarbonate:       "Low",
		},
		WaterCharacteristics: WaterCharacteristics{
			WaterRetention:         "High",
			Drainage:               "Moderate to poor",
			InfiltrationRate:       "Low to medium",
			FieldCapacity:          "High",
			WiltingPoint:           "Medium",
			AvailableWaterCapacity: "High",
		},
		FertilityIndicators: FertilityIndicators{
			FertilityLevel: "Medium",
			NutrientAvailability: NutrientAvailability{
				Nitrogen:       "Medium to high",
				Phosphorus:     "Low",
				Potassium:      "Low",
				Micronutrients: "Variable, often deficient",
			},
			OrganicMatterQuality: "Good",
			BiologicalActivity:   "High",
			ManagementRequirements: []string{
				"pH management",
				"Phosphorus supplementation",
				"Erosion control",
				"Drainage management",
			},
		},
	},
	SoilForest: {
		Class: SoilForest,
		Composition: SoilComposition{
			PrimaryType:  "Forest soils",
			Texture:      "Medium to fine",
			ParticleSize: "Medium",
			Structure:    "Granular",
			Color:        "Dark brown to black",
		},
		PhysicalProperties: PhysicalProperties{
			BulkDensity:          "Medium",
			Porosity:             "High",
			Compaction:           "Low to medium",
			TextureClass:         "Silty clay loam",
			StructureStability:   "Very good",
			OrganicMatterContent: "Very high (>5%)",
		},
		ChemicalProperties: ChemicalProperties{
			PH:                     PHRange{ValueRange: "5.5-6.5", Classification: "Slightly acidic"},
			SaltContent:            SaltContent{Level: "Low", Conductivity: "<1 dS/m"},
			CationExchangeCapacity: "High",
			BaseSaturation:         "Medium",
			CalciumCarbonate:       "Low to medium",
		},
		WaterCharacteristics: WaterCharacteristics{
			WaterRetention:         "Very high",
			Drainage:               "Moderate",
			InfiltrationRate:       "Medium",
			FieldCapacity:          "Very high",
			WiltingPoint:           "Medium",
			AvailableWaterCapacity: "Very high",
		},
		FertilityIndicators: FertilityIndicators{
			FertilityLevel: "High",
			NutrientAvailability: NutrientAvailability{
				Nitrogen:       "High",
				Phosphorus:     "Medium to high",
				Potassium:      "Medium",
				Micronutrients: "Generally adequate",
			},
			OrganicMatterQuality: "Excellent",
			BiologicalActivity:   "Very high",
			ManagementRequirements: []string{
				"Balanced fertilization",
				"Organic matter maintenance",
				"Soil structure preservation",
				"Nutrient cycling optimization",
			},
		},
	},
	SoilPrairie: {
		Class: SoilPrairie,
		Composition: SoilComposition{
			PrimaryType:  "Prairie soils",
			Texture:      "Medium",
			ParticleSize: "Medium to fine",
			Structure:    "Crumb to blocky",
			Color:        "Dark brown",
		},
		PhysicalProperties: PhysicalProperties{
			BulkDensity:          "Medium",
			Porosity:             "Medium to high",
			Compaction:           "Low",
			TextureClass:         "Silt loam",
			StructureStability:   "Good",
			OrganicMatterContent: "High (3-4%)",
		},
		ChemicalProperties: ChemicalProperties{
			PH:                     PHRange{ValueRange: "6.0-7.0", Classification: "Near neutral"},
			SaltContent:            SaltContent{Level: "Low to medium", Conductivity: "1-2 dS/m"},
			CationExchangeCapacity: "Medium to high",
			BaseSaturation:         "Medium to high",
			CalciumCarbonate:       "Medium",
		},
		WaterCharacteristics: WaterCharacteristics{
			WaterRetention:         "Good",
			Drainage:               "Good",
			InfiltrationRate:       "Medium to high",
			FieldCapacity:          "Medium to high",
			WiltingPoint:           "Medium",
			AvailableWaterCapacity: "High",
		},
		FertilityIndicators: FertilityIndicators{
			FertilityLevel: "Medium to high",
			NutrientAvailability: NutrientAvailability{
				Nitrogen:       "Medium",
				Phosphorus:     "Medium",
				Potassium:      "High",
				Micronutrients: "Adequate",
			},
			OrganicMatterQuality: "Good",
			BiologicalActivity:   "Medium to high",
			ManagementRequirements: []string{
				"Moisture conservation",
				"Balanced fertilization",
				"Organic matter management",
				"Soil structure maintenance",
			},
		},
	},
	SoilModerate: {
		Class: SoilModerate,
		Composition: SoilComposition{
			PrimaryType:  "Moderate climate soils",
			Texture:      "Loamy",
			ParticleSize: "Mixed",
			Structure:    "Granular to blocky",
			Color:        "Brown to dark brown",
		},
		PhysicalProperties: PhysicalProperties{
			BulkDensity:          "Medium",
			Porosity:             "Medium",
			Compaction:           "Medium",
			TextureClass:         "Loam",
			StructureStability:   "Moderate",
			OrganicMatterContent: "Medium (2-3%)",
		},
		ChemicalProperties: ChemicalProperties{
			PH:                     PHRange{ValueRange: "6.5-7.5", Classification: "Neutral"},
			SaltContent:            SaltContent{Level: "Medium", Conductivity: "2-3 dS/m"},
			CationExchangeCapacity: "Medium",
			BaseSaturation:         "Medium",
			CalciumCarbonate:       "Medium",
		},
		WaterCharacteristics: WaterCharacteristics{
			WaterRetention:         "Medium",
			Drainage:               "Good",
			InfiltrationRate:       "Medium",
			FieldCapacity:          "Medium",
			WiltingPoint:           "Medium",
			AvailableWaterCapacity: "Medium",
		},
		FertilityIndicators: FertilityIndicators{
			FertilityLevel: "Medium",
			NutrientAvailability: NutrientAvailability{
				Nitrogen:       "Medium",
				Phosphorus:     "Medium",
				Potassium:      "Medium",
				Micronutrients: "Generally adequate",
			},
			OrganicMatterQuality: "Moderate",
			BiologicalActivity:   "Medium",
			ManagementRequirements: []string{
				"Regular soil testing",
				"Balanced fertilization",
				"Organic matter maintenance",
				"Conservation practices",
			},
		},
	},
}
