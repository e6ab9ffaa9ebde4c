package services

import (
	"time"

	"github.com/macrolens/macrolens/internal/models"
)

// Reader interfaces are satisfied by the db repositories. Empty id/phone
// slices mean "no restriction" so the unrestricted admin scope stays a small
// fixed number of bulk queries.

type NutritionLogReader interface {
	ListForWindow(from time.Time, to time.Time, userIDs []uint, phoneNumbers []string) ([]models.NutritionLog, error)
}

type GoalReader interface {
	ListActive(userIDs []uint) ([]models.Goal, error)
}

type BodySampleReader interface {
	ListForWindow(from time.Time, to time.Time, userIDs []uint) ([]models.BodySample, error)
	LatestWeightKg(userID uint) (float64, error)
}

type SubjectReader interface {
	FindByID(userID uint) (models.User, error)
	ListByIDs(userIDs []uint) ([]models.User, error)
	ListAll() ([]models.User, error)
}

type ReportService struct {
	logs      NutritionLogReader
	goals     GoalReader
	samples   BodySampleReader
	subjects  SubjectReader
	extractor *SignalExtractor
	location  *time.Location
}

func NewReportService(logs NutritionLogReader, goals GoalReader, samples BodySampleReader, subjects SubjectReader, location *time.Location) *ReportService {
	if location == nil {
		location = time.UTC
	}
	return &ReportService{
		logs:      logs,
		goals:     goals,
		samples:   samples,
		subjects:  subjects,
		extractor: NewSignalExtractor(),
		location:  location,
	}
}

type ReportQuery struct {
	RangeDays *int
	GroupBy   string
	UserID    string
}

type AdherenceMetric struct {
	Key      string  `json:"key"`
	Target   float64 `json:"target"`
	Achieved float64 `json:"achieved"`
	Percent  float64 `json:"percent"`
}

type GoalAdherenceReport struct {
	StartDate string            `json:"startDate"`
	EndDate   string            `json:"endDate"`
	Metrics   []AdherenceMetric `json:"metrics"`
}

type MacroDistributionEntry struct {
	Label    string  `json:"label"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Calories float64 `json:"calories"`
}

type MacroDistributionReport struct {
	StartDate string                   `json:"startDate"`
	EndDate   string                   `json:"endDate"`
	GroupBy   string                   `json:"groupBy"`
	Series    []MacroDistributionEntry `json:"series"`
}

type HydrationEntry struct {
	Label  string  `json:"label"`
	Intake float64 `json:"intake"`
	Target float64 `json:"target"`
}

type HydrationReport struct {
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
	GroupBy   string           `json:"groupBy"`
	Series    []HydrationEntry `json:"series"`
}

type TopFoodItem struct {
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Quantity float64 `json:"quantity"`
}

type TopFoodsReport struct {
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Items     []TopFoodItem `json:"items"`
}

type BodyCompositionEntry struct {
	Label            string  `json:"label"`
	Weight           float64 `json:"weight"`
	BMI              float64 `json:"bmi"`
	FatPercentage    float64 `json:"fatPercentage"`
	MusclePercentage float64 `json:"musclePercentage"`
}

type BodyCompositionReport struct {
	StartDate string                 `json:"startDate"`
	EndDate   string                 `json:"endDate"`
	Series    []BodyCompositionEntry `json:"series"`
}

// resolveContext builds the per-request analytics context: the access scope
// first (so forbidden requests fail before any data is read), then the
// resolved window.
func (service *ReportService) resolveContext(caller *models.User, query ReportQuery, now time.Time) (AccessScope, ReportWindow, error) {
	scope, err := ResolveAccessScope(caller, query.UserID, service.subjects)
	if err != nil {
		return AccessScope{}, ReportWindow{}, err
	}
	window := ResolveWindow(query.RangeDays, query.GroupBy, now, service.location)
	return scope, window, nil
}

func (service *ReportService) loadEntries(scope AccessScope, window ReportWindow) ([]models.NutritionLog, error) {
	from := window.Start
	to := window.End.AddDate(0, 0, 1)
	if scope.IncludeAll {
		return service.logs.ListForWindow(from, to, nil, nil)
	}
	return service.logs.ListForWindow(from, to, scope.UserIDs, scope.PhoneNumbers)
}

func (service *ReportService) scopedSubjects(scope AccessScope) ([]models.User, error) {
	if scope.IncludeAll {
		return service.subjects.ListAll()
	}
	return service.subjects.ListByIDs(scope.UserIDs)
}

// windowWaterTarget resolves the window's total water target, falling back
// to the subjects' own free-text intake fields when no WATER goal fired.
func (service *ReportService) windowWaterTarget(calculator *TargetCalculator, targets map[string]float64, scope AccessScope, window ReportWindow) float64 {
	if targets[MetricWater] > 0 {
		return targets[MetricWater]
	}
	subjects, err := service.scopedSubjects(scope)
	if err != nil {
		return 0
	}
	return calculator.WaterFallbackTarget(subjects, window)
}

func (service *ReportService) BuildGoalAdherence(caller *models.User, query ReportQuery, now time.Time) (GoalAdherenceReport, error) {
	scope, window, err := service.resolveContext(caller, query, now)
	if err != nil {
		return GoalAdherenceReport{}, err
	}

	entries, err := service.loadEntries(scope, window)
	if err != nil {
		return GoalAdherenceReport{}, err
	}

	var goalOwners []uint
	if !scope.IncludeAll {
		goalOwners = scope.UserIDs
	}
	goals, err := service.goals.ListActive(goalOwners)
	if err != nil {
		return GoalAdherenceReport{}, err
	}

	aggregation := NewAggregationEngine(service.extractor).Fold(entries, window, scope)
	calculator := NewTargetCalculator(service.samples, service.extractor)
	targets := calculator.WindowTargets(goals, window, scope)
	targets[MetricWater] = service.windowWaterTarget(calculator, targets, scope, window)

	achieved := map[string]float64{
		MetricProtein:  aggregation.Window.Macros.Protein,
		MetricCarbs:    aggregation.Window.Macros.Carbs,
		MetricFat:      aggregation.Window.Macros.Fat,
		MetricWater:    aggregation.Window.WaterMl,
		MetricFiber:    aggregation.Window.FiberG,
		MetricCalories: aggregation.Window.Macros.Calories,
	}

	metrics := make([]AdherenceMetric, 0, len(AdherenceMetricKeys))
	for _, key := range AdherenceMetricKeys {
		metrics = append(metrics, buildAdherenceMetric(key, targets[key], achieved[key]))
	}

	return GoalAdherenceReport{
		StartDate: window.Start.Format("2006-01-02"),
		EndDate:   window.End.Format("2006-01-02"),
		Metrics:   metrics,
	}, nil
}

func buildAdherenceMetric(key string, target float64, achieved float64) AdherenceMetric {
	percent := 0.0
	if target > 0 {
		percent = Round1(achieved / target * 100)
	}
	return AdherenceMetric{
		Key:      key,
		Target:   Round2(target),
		Achieved: Round2(achieved),
		Percent:  percent,
	}
}

func (service *ReportService) BuildMacroDistribution(caller *models.User, query ReportQuery, now time.Time) (MacroDistributionReport, error) {
	scope, window, err := service.resolveContext(caller, query, now)
	if err != nil {
		return MacroDistributionReport{}, err
	}
	entries, err := service.loadEntries(scope, window)
	if err != nil {
		return MacroDistributionReport{}, err
	}

	aggregation := NewAggregationEngine(service.extractor).Fold(entries, window, scope)
	series := make([]MacroDistributionEntry, 0, len(aggregation.Buckets))
	for _, bucket := range aggregation.Buckets {
		series = append(series, MacroDistributionEntry{
			Label:    bucket.Bucket.Label(window.GroupBy),
			Protein:  Round2(bucket.Macros.Protein),
			Carbs:    Round2(bucket.Macros.Carbs),
			Fat:      Round2(bucket.Macros.Fat),
			Calories: Round2(bucket.Macros.Calories),
		})
	}

	return MacroDistributionReport{
		StartDate: window.Start.Format("2006-01-02"),
		EndDate:   window.End.Format("2006-01-02"),
		GroupBy:   window.GroupBy,
		Series:    series,
	}, nil
}

func (service *ReportService) BuildHydration(caller *models.User, query ReportQuery, now time.Time) (HydrationReport, error) {
	scope, window, err := service.resolveContext(caller, query, now)
	if err != nil {
		return HydrationReport{}, err
	}
	entries, err := service.loadEntries(scope, window)
	if err != nil {
		return HydrationReport{}, err
	}

	var goalOwners []uint
	if !scope.IncludeAll {
		goalOwners = scope.UserIDs
	}
	goals, err := service.goals.ListActive(goalOwners)
	if err != nil {
		return HydrationReport{}, err
	}

	aggregation := NewAggregationEngine(service.extractor).Fold(entries, window, scope)
	calculator := NewTargetCalculator(service.samples, service.extractor)
	targets := calculator.WindowTargets(goals, window, scope)
	windowTarget := service.windowWaterTarget(calculator, targets, scope, window)
	dailyTarget := windowTarget / float64(window.Days())

	series := make([]HydrationEntry, 0, len(aggregation.Buckets))
	for _, bucket := range aggregation.Buckets {
		series = append(series, HydrationEntry{
			Label:  bucket.Bucket.Label(window.GroupBy),
			Intake: Round2(bucket.WaterMl),
			Target: Round2(dailyTarget * float64(bucket.Bucket.ActiveDays())),
		})
	}

	return HydrationReport{
		StartDate: window.Start.Format("2006-01-02"),
		EndDate:   window.End.Format("2006-01-02"),
		GroupBy:   window.GroupBy,
		Series:    series,
	}, nil
}

func (service *ReportService) BuildTopFoods(caller *models.User, query ReportQuery, now time.Time) (TopFoodsReport, error) {
	scope, window, err := service.resolveContext(caller, query, now)
	if err != nil {
		return TopFoodsReport{}, err
	}
	entries, err := service.loadEntries(scope, window)
	if err != nil {
		return TopFoodsReport{}, err
	}

	aggregation := NewAggregationEngine(service.extractor).Fold(entries, window, scope)
	items := make([]TopFoodItem, 0, len(aggregation.TopFoods))
	for _, tally := range aggregation.TopFoods {
		items = append(items, TopFoodItem{
			Name:     tally.Name,
			Unit:     tally.Unit,
			Quantity: Round2(tally.Quantity),
		})
	}

	return TopFoodsReport{
		StartDate: window.Start.Format("2006-01-02"),
		EndDate:   window.End.Format("2006-01-02"),
		Items:     items,
	}, nil
}

func (service *ReportService) BuildBodyComposition(caller *models.User, query ReportQuery, now time.Time) (BodyCompositionReport, error) {
	scope, window, err := service.resolveContext(caller, query, now)
	if err != nil {
		return BodyCompositionReport{}, err
	}

	var sampleOwners []uint
	if !scope.IncludeAll {
		sampleOwners = scope.UserIDs
	}
	samples, err := service.samples.ListForWindow(window.Start, window.End.AddDate(0, 0, 1), sampleOwners)
	if err != nil {
		return BodyCompositionReport{}, err
	}

	series := make([]BodyCompositionEntry, 0)
	for _, point := range AggregateBodyComposition(samples, service.location) {
		series = append(series, BodyCompositionEntry{
			Label:            point.Date.Format("2006-01-02"),
			Weight:           Round2(point.WeightKg),
			BMI:              Round2(point.BodyMassIndex),
			FatPercentage:    Round2(point.BodyFatPercentage),
			MusclePercentage: Round2(point.MuscleMassPercentage),
		})
	}

	return BodyCompositionReport{
		StartDate: window.Start.Format("2006-01-02"),
		EndDate:   window.End.Format("2006-01-02"),
		Series:    series,
	}, nil
}
