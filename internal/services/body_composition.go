package services

import (
	"sort"
	"time"

	"github.com/macrolens/macrolens/internal/models"
)

// BodyCompositionPoint is one day of averaged body metrics. A metric absent
// from every sample of that day stays zero.
type BodyCompositionPoint struct {
	Date                 time.Time
	WeightKg             float64
	BodyMassIndex        float64
	BodyFatPercentage    float64
	MuscleMassPercentage float64
}

type fieldAverage struct {
	sum   float64
	count int
}

func (average *fieldAverage) add(value *float64) {
	if value == nil {
		return
	}
	average.sum += *value
	average.count++
}

func (average fieldAverage) value() float64 {
	if average.count == 0 {
		return 0
	}
	return average.sum / float64(average.count)
}

type bodyDayAccumulator struct {
	weight fieldAverage
	bmi    fieldAverage
	fat    fieldAverage
	muscle fieldAverage
}

// AggregateBodyComposition groups samples by calendar date and averages each
// metric independently, so a sample missing one field does not drag the
// others down. The series comes back ascending by date.
func AggregateBodyComposition(samples []models.BodySample, location *time.Location) []BodyCompositionPoint {
	days := make(map[time.Time]*bodyDayAccumulator)
	for _, sample := range samples {
		day := DateAtLocation(sample.SampledAt, location)
		accumulator, ok := days[day]
		if !ok {
			accumulator = &bodyDayAccumulator{}
			days[day] = accumulator
		}
		accumulator.weight.add(sample.WeightKg)
		accumulator.bmi.add(sample.BodyMassIndex)
		accumulator.fat.add(sample.BodyFatPercentage)
		accumulator.muscle.add(sample.MuscleMassPercentage)
	}

	series := make([]BodyCompositionPoint, 0, len(days))
	for day, accumulator := range days {
		series = append(series, BodyCompositionPoint{
			Date:                 day,
			WeightKg:             accumulator.weight.value(),
			BodyMassIndex:        accumulator.bmi.value(),
			BodyFatPercentage:    accumulator.fat.value(),
			MuscleMassPercentage: accumulator.muscle.value(),
		})
	}
	sort.Slice(series, func(left int, right int) bool {
		return series[left].Date.Before(series[right].Date)
	})
	return series
}
