package services

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/macrolens/macrolens/internal/models"
)

var (
	volumePattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(ml|lt|liters|liter|litres|litre|l)\b`)
	massPattern   = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(kg|kgs|kilo|kilos|grams|gram|gr|g)\b`)
	fiberPattern  = regexp.MustCompile(`(?i)(?:fiber|fibra)\s*:?\s*(\d+(?:[.,]\d+)?)\s*g\b`)
	numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
)

// FoodSample is one estimated quantity of a named food, in a resolved unit.
type FoodSample struct {
	Name     string
	Unit     string
	Quantity float64
}

// SignalExtractor derives water, fiber and quantity estimates from a single
// log entry. Source data is heuristically produced, so every path degrades
// to zero/absent instead of failing. The keyword and unit tables are
// heuristic business rules and stay configurable.
type SignalExtractor struct {
	WaterKeywords  []string
	VolumeUnitsMl  map[string]float64
	DefaultWaterMl float64
}

func NewSignalExtractor() *SignalExtractor {
	return &SignalExtractor{
		WaterKeywords: []string{"water", "hydration", "drink", "beverage", "agua", "água"},
		VolumeUnitsMl: map[string]float64{
			"ml":     1,
			"l":      1000,
			"lt":     1000,
			"liter":  1000,
			"liters": 1000,
			"litre":  1000,
			"litres": 1000,
			"cup":    240,
			"cups":   240,
			"tbsp":   15,
			"tsp":    5,
		},
		DefaultWaterMl: 250,
	}
}

// ParseFlexibleFloat accepts both "." and "," as decimal separator and never
// fails hard: unparsable input reports ok=false.
func ParseFlexibleFloat(raw string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if cleaned == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}

// NormalizeVolume converts a value in the given unit to millilitres.
// Unknown units pass through unchanged.
func (extractor *SignalExtractor) NormalizeVolume(value float64, unit string) float64 {
	factor, ok := extractor.VolumeUnitsMl[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return value
	}
	return value * factor
}

// WaterMillilitres estimates the water content of one entry. A structured
// liquid reading wins; otherwise water keywords over the free text trigger a
// quantity scan, defaulting to DefaultWaterMl when nothing parses.
func (extractor *SignalExtractor) WaterMillilitres(entry models.NutritionLog) float64 {
	if entry.LiquidVolume != nil && *entry.LiquidVolume > 0 {
		return extractor.NormalizeVolume(*entry.LiquidVolume, entry.LiquidUnit)
	}

	text := strings.ToLower(entry.FoodName + " " + entry.Summary)
	if !extractor.matchesWaterKeyword(text) {
		return 0
	}
	if volume, ok := extractor.scanVolume(text); ok {
		return volume
	}
	return extractor.DefaultWaterMl
}

// WaterTextMillilitres parses a dedicated free-text water-intake field, such
// as the one kept on the subject profile. A bare number is read as ml.
func (extractor *SignalExtractor) WaterTextMillilitres(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	if volume, ok := extractor.scanVolume(trimmed); ok {
		return volume
	}
	if match := numberPattern.FindString(trimmed); match != "" {
		if value, ok := ParseFlexibleFloat(match); ok {
			return value
		}
	}
	return 0
}

func (extractor *SignalExtractor) matchesWaterKeyword(text string) bool {
	for _, keyword := range extractor.WaterKeywords {
		if keyword != "" && strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func (extractor *SignalExtractor) scanVolume(text string) (float64, bool) {
	match := volumePattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	value, ok := ParseFlexibleFloat(match[1])
	if !ok {
		return 0, false
	}
	return extractor.NormalizeVolume(value, match[2]), true
}

// FiberGrams prefers a numeric fiber field inside the categories JSON blob
// and falls back to a "fiber: <n> g" scan over the summary. Malformed JSON
// is ignored.
func (extractor *SignalExtractor) FiberGrams(entry models.NutritionLog) float64 {
	if grams, ok := fiberFromCategories(entry.CategoriesJSON); ok {
		return grams
	}
	match := fiberPattern.FindStringSubmatch(entry.Summary)
	if match == nil {
		return 0
	}
	grams, _ := ParseFlexibleFloat(match[1])
	return grams
}

func fiberFromCategories(raw string) (float64, bool) {
	if strings.TrimSpace(raw) == "" {
		return 0, false
	}
	categories := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		return 0, false
	}
	for _, key := range []string{"fiber", "fiber_g", "fibra"} {
		value, present := categories[key]
		if !present {
			continue
		}
		switch typed := value.(type) {
		case float64:
			if typed >= 0 {
				return typed, true
			}
		case string:
			if parsed, ok := ParseFlexibleFloat(typed); ok {
				return parsed, true
			}
		}
	}
	return 0, false
}

// QuantitySample estimates how much of the entry's food was eaten: an
// explicit mass wins, then an explicit volume, then the macro gram sum, then
// the calorie count labeled kcal.
func (extractor *SignalExtractor) QuantitySample(entry models.NutritionLog) (FoodSample, bool) {
	name := strings.TrimSpace(entry.FoodName)
	if name == "" {
		return FoodSample{}, false
	}
	text := entry.FoodName + " " + entry.Summary

	if match := massPattern.FindStringSubmatch(text); match != nil {
		if value, ok := ParseFlexibleFloat(match[1]); ok {
			unit := strings.ToLower(match[2])
			if strings.HasPrefix(unit, "k") {
				value *= 1000
			}
			return FoodSample{Name: name, Unit: "g", Quantity: value}, true
		}
	}

	if volume, ok := extractor.scanVolume(text); ok {
		return FoodSample{Name: name, Unit: "ml", Quantity: volume}, true
	}

	grams := floatValue(entry.Protein) + floatValue(entry.Carbs) + floatValue(entry.Fat)
	if grams > 0 {
		return FoodSample{Name: name, Unit: "g", Quantity: grams}, true
	}

	if calories := floatValue(entry.Calories); calories > 0 {
		return FoodSample{Name: name, Unit: "kcal", Quantity: calories}, true
	}

	return FoodSample{}, false
}

func floatValue(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}
