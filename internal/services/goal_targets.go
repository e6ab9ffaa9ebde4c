package services

import "github.com/macrolens/macrolens/internal/models"

const (
	MetricProtein  = "protein"
	MetricCarbs    = "carbs"
	MetricFat      = "fat"
	MetricWater    = "water"
	MetricFiber    = "fiber"
	MetricCalories = "calories"
)

// AdherenceMetricKeys fixes the order metrics appear in the adherence report.
var AdherenceMetricKeys = []string{
	MetricProtein, MetricCarbs, MetricFat, MetricWater, MetricFiber, MetricCalories,
}

var goalMetricKeys = map[string]string{
	models.GoalProtein:       MetricProtein,
	models.GoalCarbohydrate:  MetricCarbs,
	models.GoalFat:           MetricFat,
	models.GoalWater:         MetricWater,
	models.GoalFiber:         MetricFiber,
	models.GoalEnergy:        MetricCalories,
	models.GoalCalorieTarget: MetricCalories,
}

type WeightSource interface {
	LatestWeightKg(userID uint) (float64, error)
}

// TargetCalculator prorates goal definitions into window targets. One
// calculator lives for exactly one report computation; its weight cache is a
// plain map and is discarded with it.
type TargetCalculator struct {
	weights     WeightSource
	extractor   *SignalExtractor
	weightCache map[uint]float64
}

func NewTargetCalculator(weights WeightSource, extractor *SignalExtractor) *TargetCalculator {
	return &TargetCalculator{
		weights:     weights,
		extractor:   extractor,
		weightCache: make(map[uint]float64),
	}
}

func (calculator *TargetCalculator) subjectWeight(userID uint) float64 {
	if cached, ok := calculator.weightCache[userID]; ok {
		return cached
	}
	weight, err := calculator.weights.LatestWeightKg(userID)
	if err != nil || weight < 0 {
		weight = 0
	}
	calculator.weightCache[userID] = weight
	return weight
}

func periodicityDivisor(goal models.Goal, windowDays int) float64 {
	switch goal.Periodicity {
	case models.PeriodicityWeekly:
		return 7
	case models.PeriodicityMonthly:
		return 30
	case models.PeriodicityCustom:
		if goal.CustomPeriodDays != nil && *goal.CustomPeriodDays > 0 {
			return float64(*goal.CustomPeriodDays)
		}
		// A custom goal without a positive period spreads over the window.
		return float64(windowDays)
	default:
		return 1
	}
}

// DailyTarget resolves one goal to its per-day target, scaling PER_KG goals
// by the subject's most recent body weight.
func (calculator *TargetCalculator) DailyTarget(goal models.Goal, windowDays int) float64 {
	base := goal.TargetValue
	if goal.TargetMode == models.TargetModePerKg {
		base *= calculator.subjectWeight(goal.UserID)
	}
	divisor := periodicityDivisor(goal, windowDays)
	if divisor <= 0 {
		return 0
	}
	daily := base / divisor
	if daily < 0 {
		return 0
	}
	return daily
}

// OverlapDays counts the days (inclusive) the goal's effective range shares
// with the window. Open goal bounds fall back to the window's own bounds.
func OverlapDays(goal models.Goal, window ReportWindow) int {
	start := window.Start
	if goal.StartDate != nil {
		start = maxDate(DateAtLocation(*goal.StartDate, window.Location), start)
	}
	end := window.End
	if goal.EndDate != nil {
		end = minDate(DateAtLocation(*goal.EndDate, window.Location), end)
	}
	if end.Before(start) {
		return 0
	}
	return calendarDaysInclusive(start, end)
}

// WindowTargets folds all in-scope active goals into one target per metric
// key, summing across subjects when the scope spans more than one.
func (calculator *TargetCalculator) WindowTargets(goals []models.Goal, window ReportWindow, scope AccessScope) map[string]float64 {
	targets := make(map[string]float64, len(AdherenceMetricKeys))
	windowDays := window.Days()

	for _, goal := range goals {
		if !goal.Active || !scope.AllowsUser(goal.UserID) {
			continue
		}
		metric, known := goalMetricKeys[goal.Type]
		if !known {
			continue
		}
		overlap := OverlapDays(goal, window)
		if overlap == 0 {
			continue
		}
		targets[metric] += calculator.DailyTarget(goal, windowDays) * float64(overlap)
	}
	return targets
}

// WaterFallbackTarget derives a window water target from the subjects' own
// free-text water-intake fields. Used only when no WATER goal produced a
// nonzero target.
func (calculator *TargetCalculator) WaterFallbackTarget(subjects []models.User, window ReportWindow) float64 {
	total := 0.0
	for _, subject := range subjects {
		daily := calculator.extractor.WaterTextMillilitres(subject.WaterIntake)
		total += daily * float64(window.Days())
	}
	return total
}