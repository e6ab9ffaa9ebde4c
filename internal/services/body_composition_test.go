package services

import (
	"testing"
	"time"

	"github.com/macrolens/macrolens/internal/models"
)

func mustParseBodyDay(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		t.Fatalf("parse day %q: %v", raw, err)
	}
	return parsed
}

func TestAggregateBodyCompositionAveragesSameDaySamples(t *testing.T) {
	day := mustParseBodyDay(t, "2026-03-10")
	samples := []models.BodySample{
		{UserID: 4, SampledAt: day.Add(8 * time.Hour), WeightKg: floatPointer(70)},
		{UserID: 4, SampledAt: day.Add(20 * time.Hour), WeightKg: floatPointer(72)},
	}

	series := AggregateBodyComposition(samples, time.UTC)
	if len(series) != 1 {
		t.Fatalf("expected one averaged point, got %d", len(series))
	}
	if series[0].WeightKg != 71 {
		t.Fatalf("expected averaged weight 71, got %v", series[0].WeightKg)
	}
}

func TestAggregateBodyCompositionFieldsAverageIndependently(t *testing.T) {
	day := mustParseBodyDay(t, "2026-03-10")
	samples := []models.BodySample{
		{UserID: 4, SampledAt: day, WeightKg: floatPointer(70), BodyFatPercentage: floatPointer(20)},
		{UserID: 4, SampledAt: day.Add(time.Hour), WeightKg: floatPointer(72)},
		{UserID: 4, SampledAt: day.Add(2 * time.Hour), BodyMassIndex: floatPointer(23)},
	}

	series := AggregateBodyComposition(samples, time.UTC)
	if len(series) != 1 {
		t.Fatalf("expected one point, got %d", len(series))
	}
	point := series[0]
	if point.WeightKg != 71 {
		t.Fatalf("expected weight averaged over two samples, got %v", point.WeightKg)
	}
	if point.BodyFatPercentage != 20 {
		t.Fatalf("expected fat percentage from its single sample, got %v", point.BodyFatPercentage)
	}
	if point.BodyMassIndex != 23 {
		t.Fatalf("expected bmi from its single sample, got %v", point.BodyMassIndex)
	}
	if point.MuscleMassPercentage != 0 {
		t.Fatalf("expected zero muscle mass with no samples, got %v", point.MuscleMassPercentage)
	}
}

func TestAggregateBodyCompositionOrdersAscending(t *testing.T) {
	samples := []models.BodySample{
		{UserID: 4, SampledAt: mustParseBodyDay(t, "2026-03-12"), WeightKg: floatPointer(71)},
		{UserID: 4, SampledAt: mustParseBodyDay(t, "2026-03-10"), WeightKg: floatPointer(70)},
		{UserID: 4, SampledAt: mustParseBodyDay(t, "2026-03-11"), WeightKg: floatPointer(70.5)},
	}

	series := AggregateBodyComposition(samples, time.UTC)
	if len(series) != 3 {
		t.Fatalf("expected three points, got %d", len(series))
	}
	for index := 1; index < len(series); index++ {
		if !series[index-1].Date.Before(series[index].Date) {
			t.Fatalf("expected ascending dates, got %s before %s", series[index-1].Date, series[index].Date)
		}
	}
}

func TestAggregateBodyCompositionEmptyInput(t *testing.T) {
	series := AggregateBodyComposition(nil, time.UTC)
	if len(series) != 0 {
		t.Fatalf("expected empty series, got %#v", series)
	}
}
