package services

import (
	"sort"
	"strings"
	"time"

	"github.com/macrolens/macrolens/internal/models"
)

const TopFoodLimit = 10

type MacroTotals struct {
	Protein  float64
	Carbs    float64
	Fat      float64
	Calories float64
}

func (totals *MacroTotals) addEntry(entry models.NutritionLog) {
	totals.Protein += floatValue(entry.Protein)
	totals.Carbs += floatValue(entry.Carbs)
	totals.Fat += floatValue(entry.Fat)
	totals.Calories += floatValue(entry.Calories)
}

type BucketTotals struct {
	Bucket  Bucket
	Macros  MacroTotals
	WaterMl float64
	FiberG  float64
}

type WindowTotals struct {
	Macros  MacroTotals
	WaterMl float64
	FiberG  float64
}

type FoodTally struct {
	Name     string
	Unit     string
	Quantity float64
}

type Aggregation struct {
	Buckets  []BucketTotals
	Window   WindowTotals
	TopFoods []FoodTally
}

// AggregationEngine folds normalized log entries into per-bucket and
// window-total accumulators plus a top-food frequency table.
type AggregationEngine struct {
	extractor *SignalExtractor
}

func NewAggregationEngine(extractor *SignalExtractor) *AggregationEngine {
	return &AggregationEngine{extractor: extractor}
}

func (engine *AggregationEngine) Fold(entries []models.NutritionLog, window ReportWindow, scope AccessScope) Aggregation {
	buckets := window.Buckets()
	result := Aggregation{Buckets: make([]BucketTotals, len(buckets))}
	for index, bucket := range buckets {
		result.Buckets[index].Bucket = bucket
	}

	tallies := make(map[string]*FoodTally)

	for _, entry := range entries {
		if !scope.AllowsEntry(entry) {
			continue
		}
		day := DateAtLocation(entry.CreatedAt, window.Location)
		bucketIndex := findBucket(buckets, day)
		if bucketIndex < 0 {
			// A date outside all buckets means the store handed us more
			// than the window; skip rather than misfile.
			continue
		}

		bucket := &result.Buckets[bucketIndex]
		bucket.Macros.addEntry(entry)
		result.Window.Macros.addEntry(entry)

		water := engine.extractor.WaterMillilitres(entry)
		bucket.WaterMl += water
		result.Window.WaterMl += water

		fiber := engine.extractor.FiberGrams(entry)
		bucket.FiberG += fiber
		result.Window.FiberG += fiber

		if sample, ok := engine.extractor.QuantitySample(entry); ok {
			mergeTally(tallies, sample)
		}
	}

	result.TopFoods = rankTallies(tallies, TopFoodLimit)
	return result
}

func findBucket(buckets []Bucket, day time.Time) int {
	for index, bucket := range buckets {
		if bucket.Contains(day) {
			return index
		}
	}
	return -1
}

func mergeTally(tallies map[string]*FoodTally, sample FoodSample) {
	key := strings.ToLower(sample.Name) + "|" + sample.Unit
	if tally, ok := tallies[key]; ok {
		tally.Quantity += sample.Quantity
		return
	}
	tallies[key] = &FoodTally{Name: sample.Name, Unit: sample.Unit, Quantity: sample.Quantity}
}

func rankTallies(tallies map[string]*FoodTally, limit int) []FoodTally {
	ranked := make([]FoodTally, 0, len(tallies))
	for _, tally := range tallies {
		ranked = append(ranked, *tally)
	}
	sort.Slice(ranked, func(left int, right int) bool {
		if ranked[left].Quantity != ranked[right].Quantity {
			return ranked[left].Quantity > ranked[right].Quantity
		}
		return strings.ToLower(ranked[left].Name) < strings.ToLower(ranked[right].Name)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
