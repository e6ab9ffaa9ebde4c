package services

import (
	"errors"
	"testing"
	"time"

	"github.com/macrolens/macrolens/internal/models"
)

type stubLogReader struct {
	entries []models.NutritionLog
	err     error
}

func (stub *stubLogReader) ListForWindow(from time.Time, to time.Time, userIDs []uint, phoneNumbers []string) ([]models.NutritionLog, error) {
	if stub.err != nil {
		return nil, stub.err
	}
	filtered := make([]models.NutritionLog, 0, len(stub.entries))
	scope := AccessScope{IncludeAll: len(userIDs) == 0 && len(phoneNumbers) == 0, UserIDs: userIDs, PhoneNumbers: phoneNumbers}
	for _, entry := range stub.entries {
		if entry.CreatedAt.Before(from) || !entry.CreatedAt.Before(to) {
			continue
		}
		if scope.AllowsEntry(entry) {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}

type stubGoalReader struct {
	goals []models.Goal
	err   error
}

func (stub *stubGoalReader) ListActive(userIDs []uint) ([]models.Goal, error) {
	if stub.err != nil {
		return nil, stub.err
	}
	active := make([]models.Goal, 0, len(stub.goals))
	for _, goal := range stub.goals {
		if goal.Active {
			active = append(active, goal)
		}
	}
	return active, nil
}

type stubSampleReader struct {
	samples []models.BodySample
	weights map[uint]float64
}

func (stub *stubSampleReader) ListForWindow(from time.Time, to time.Time, userIDs []uint) ([]models.BodySample, error) {
	allowed := AccessScope{IncludeAll: len(userIDs) == 0, UserIDs: userIDs}
	filtered := make([]models.BodySample, 0, len(stub.samples))
	for _, sample := range stub.samples {
		if sample.SampledAt.Before(from) || !sample.SampledAt.Before(to) {
			continue
		}
		if allowed.AllowsUser(sample.UserID) {
			filtered = append(filtered, sample)
		}
	}
	return filtered, nil
}

func (stub *stubSampleReader) LatestWeightKg(userID uint) (float64, error) {
	return stub.weights[userID], nil
}

type stubSubjectReader struct {
	users map[uint]models.User
}

func (stub *stubSubjectReader) FindByID(userID uint) (models.User, error) {
	user, ok := stub.users[userID]
	if !ok {
		return models.User{}, errors.New("record not found")
	}
	return user, nil
}

func (stub *stubSubjectReader) ListByIDs(userIDs []uint) ([]models.User, error) {
	users := make([]models.User, 0, len(userIDs))
	for _, userID := range userIDs {
		if user, ok := stub.users[userID]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (stub *stubSubjectReader) ListAll() ([]models.User, error) {
	users := make([]models.User, 0, len(stub.users))
	for _, user := range stub.users {
		users = append(users, user)
	}
	return users, nil
}

func mustParseReportDay(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		t.Fatalf("parse day %q: %v", raw, err)
	}
	return parsed
}

func newReportServiceFixture(logs *stubLogReader, goals *stubGoalReader, samples *stubSampleReader, subjects *stubSubjectReader) *ReportService {
	if logs == nil {
		logs = &stubLogReader{}
	}
	if goals == nil {
		goals = &stubGoalReader{}
	}
	if samples == nil {
		samples = &stubSampleReader{}
	}
	if subjects == nil {
		subjects = &stubSubjectReader{users: map[uint]models.User{}}
	}
	return NewReportService(logs, goals, samples, subjects, time.UTC)
}

func TestBuildGoalAdherenceZeroTargetNeverDivides(t *testing.T) {
	client := &models.User{ID: 4, Role: models.RoleClient}
	now := mustParseReportDay(t, "2026-03-15")
	logs := &stubLogReader{entries: []models.NutritionLog{
		{UserID: 4, Protein: floatPointer(50), CreatedAt: mustParseReportDay(t, "2026-03-14")},
	}}

	report, err := newReportServiceFixture(logs, nil, nil, nil).BuildGoalAdherence(client, ReportQuery{}, now)
	if err != nil {
		t.Fatalf("BuildGoalAdherence() unexpected error: %v", err)
	}
	if len(report.Metrics) != 6 {
		t.Fatalf("expected six metrics, got %d", len(report.Metrics))
	}
	for _, metric := range report.Metrics {
		if metric.Target != 0 {
			t.Fatalf("expected zero targets without goals, got %#v", metric)
		}
		if metric.Percent != 0 {
			t.Fatalf("expected percent 0 for zero target, got %#v", metric)
		}
	}
}

func TestBuildGoalAdherenceComputesPercent(t *testing.T) {
	client := &models.User{ID: 4, Role: models.RoleClient}
	now := mustParseReportDay(t, "2026-03-15")

	logs := &stubLogReader{entries: []models.NutritionLog{
		{UserID: 4, Protein: floatPointer(70), CreatedAt: mustParseReportDay(t, "2026-03-12")},
	}}
	goals := &stubGoalReader{goals: []models.Goal{
		{UserID: 4, Type: models.GoalProtein, TargetValue: 100, Periodicity: models.PeriodicityDaily, Active: true},
	}}

	report, err := newReportServiceFixture(logs, goals, nil, nil).BuildGoalAdherence(client, ReportQuery{}, now)
	if err != nil {
		t.Fatalf("BuildGoalAdherence() unexpected error: %v", err)
	}

	protein := report.Metrics[0]
	if protein.Key != MetricProtein {
		t.Fatalf("expected protein first, got %q", protein.Key)
	}
	if protein.Target != 700 || protein.Achieved != 70 {
		t.Fatalf("expected target 700 achieved 70, got %#v", protein)
	}
	if protein.Percent != 10 {
		t.Fatalf("expected percent 10, got %v", protein.Percent)
	}
}

func TestBuildMacroDistributionScenario(t *testing.T) {
	client := &models.User{ID: 4, Role: models.RoleClient}
	now := mustParseReportDay(t, "2026-03-15")

	logs := &stubLogReader{entries: []models.NutritionLog{
		{
			UserID:    4,
			FoodName:  "Lunch",
			Protein:   floatPointer(20),
			Carbs:     floatPointer(30),
			Fat:       floatPointer(10),
			Calories:  floatPointer(300),
			CreatedAt: mustParseReportDay(t, "2026-03-11").Add(13 * time.Hour),
		},
	}}

	rangeDays := 7
	report, err := newReportServiceFixture(logs, nil, nil, nil).BuildMacroDistribution(client, ReportQuery{RangeDays: &rangeDays, GroupBy: "day"}, now)
	if err != nil {
		t.Fatalf("BuildMacroDistribution() unexpected error: %v", err)
	}
	if report.StartDate != "2026-03-09" || report.EndDate != "2026-03-15" {
		t.Fatalf("unexpected window [%s, %s]", report.StartDate, report.EndDate)
	}
	if len(report.Series) != 7 {
		t.Fatalf("expected 7 series entries, got %d", len(report.Series))
	}

	for index, entry := range report.Series {
		if index == 2 {
			want := MacroDistributionEntry{Label: "2026-03-11", Protein: 20, Carbs: 30, Fat: 10, Calories: 300}
			if entry != want {
				t.Fatalf("expected day 3 entry %#v, got %#v", want, entry)
			}
			continue
		}
		if entry.Protein != 0 || entry.Carbs != 0 || entry.Fat != 0 || entry.Calories != 0 {
			t.Fatalf("expected empty entry at index %d, got %#v", index, entry)
		}
	}
}

func TestBuildHydrationUsesGoalTarget(t *testing.T) {
	client := &models.User{ID: 4, Role: models.RoleClient}
	now := mustParseReportDay(t, "2026-03-15")

	logs := &stubLogReader{entries: []models.NutritionLog{
		{
			UserID:       4,
			FoodName:     "Water",
			LiquidVolume: floatPointer(1.5),
			LiquidUnit:   "l",
			CreatedAt:    mustParseReportDay(t, "2026-03-09").Add(10 * time.Hour),
		},
	}}
	goals := &stubGoalReader{goals: []models.Goal{
		{UserID: 4, Type: models.GoalWater, TargetValue: 14000, Periodicity: models.PeriodicityWeekly, Active: true},
	}}

	report, err := newReportServiceFixture(logs, goals, nil, nil).BuildHydration(client, ReportQuery{}, now)
	if err != nil {
		t.Fatalf("BuildHydration() unexpected error: %v", err)
	}
	if len(report.Series) != 7 {
		t.Fatalf("expected 7 hydration entries, got %d", len(report.Series))
	}
	first := report.Series[0]
	if first.Intake != 1500 {
		t.Fatalf("expected 1500ml intake on first day, got %v", first.Intake)
	}
	for _, entry := range report.Series {
		if entry.Target != 2000 {
			t.Fatalf("expected 2000ml daily target, got %#v", entry)
		}
	}
}

func TestBuildHydrationFallsBackToProfileWaterText(t *testing.T) {
	client := &models.User{ID: 4, Role: models.RoleClient, WaterIntake: "2l"}
	now := mustParseReportDay(t, "2026-03-15")
	subjects := &stubSubjectReader{users: map[uint]models.User{4: *client}}

	report, err := newReportServiceFixture(nil, nil, nil, subjects).BuildHydration(client, ReportQuery{}, now)
	if err != nil {
		t.Fatalf("BuildHydration() unexpected error: %v", err)
	}
	for _, entry := range report.Series {
		if entry.Target != 2000 {
			t.Fatalf("expected fallback 2000ml daily target, got %#v", entry)
		}
	}
}

func TestScopeIsolationClientNeverSeesOtherSubjects(t *testing.T) {
	client := &models.User{ID: 4, Role: models.RoleClient}
	now := mustParseReportDay(t, "2026-03-15")

	logs := &stubLogReader{entries: []models.NutritionLog{
		{UserID: 4, FoodName: "Mine", Protein: floatPointer(10), CreatedAt: mustParseReportDay(t, "2026-03-12")},
		{UserID: 9, FoodName: "Theirs", Protein: floatPointer(99), CreatedAt: mustParseReportDay(t, "2026-03-12")},
	}}

	service := newReportServiceFixture(logs, nil, nil, nil)
	report, err := service.BuildMacroDistribution(client, ReportQuery{}, now)
	if err != nil {
		t.Fatalf("BuildMacroDistribution() unexpected error: %v", err)
	}
	total := 0.0
	for _, entry := range report.Series {
		total += entry.Protein
	}
	if total != 10 {
		t.Fatalf("client report leaked foreign data, protein total %v", total)
	}

	foods, err := service.BuildTopFoods(client, ReportQuery{}, now)
	if err != nil {
		t.Fatalf("BuildTopFoods() unexpected error: %v", err)
	}
	for _, item := range foods.Items {
		if item.Name == "Theirs" {
			t.Fatalf("client top foods leaked foreign entry: %#v", foods.Items)
		}
	}
}

func TestReportsForbiddenForClientRequestingOtherSubject(t *testing.T) {
	client := &models.User{ID: 4, Role: models.RoleClient}
	now := mustParseReportDay(t, "2026-03-15")
	service := newReportServiceFixture(nil, nil, nil, nil)

	if _, err := service.BuildGoalAdherence(client, ReportQuery{UserID: "9"}, now); !errors.Is(err, ErrScopeForbidden) {
		t.Fatalf("expected ErrScopeForbidden, got %v", err)
	}
}

func TestReportsNotFoundForAdminRequestingUnknownSubject(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin}
	now := mustParseReportDay(t, "2026-03-15")
	service := newReportServiceFixture(nil, nil, nil, &stubSubjectReader{users: map[uint]models.User{}})

	if _, err := service.BuildTopFoods(admin, ReportQuery{UserID: "77"}, now); !errors.Is(err, ErrSubjectNotFound) {
		t.Fatalf("expected ErrSubjectNotFound, got %v", err)
	}
}

func TestBuildBodyCompositionSeries(t *testing.T) {
	client := &models.User{ID: 4, Role: models.RoleClient}
	now := mustParseReportDay(t, "2026-03-15")
	day := mustParseReportDay(t, "2026-03-12")

	samples := &stubSampleReader{samples: []models.BodySample{
		{UserID: 4, SampledAt: day.Add(7 * time.Hour), WeightKg: floatPointer(70)},
		{UserID: 4, SampledAt: day.Add(19 * time.Hour), WeightKg: floatPointer(72)},
		{UserID: 9, SampledAt: day, WeightKg: floatPointer(90)},
	}}

	report, err := newReportServiceFixture(nil, nil, samples, nil).BuildBodyComposition(client, ReportQuery{}, now)
	if err != nil {
		t.Fatalf("BuildBodyComposition() unexpected error: %v", err)
	}
	if len(report.Series) != 1 {
		t.Fatalf("expected one averaged point, got %#v", report.Series)
	}
	point := report.Series[0]
	if point.Label != "2026-03-12" || point.Weight != 71 {
		t.Fatalf("expected 2026-03-12 weight 71, got %#v", point)
	}
}

func TestReportsPropagateReaderErrors(t *testing.T) {
	client := &models.User{ID: 4, Role: models.RoleClient}
	now := mustParseReportDay(t, "2026-03-15")
	logs := &stubLogReader{err: errors.New("store unavailable")}

	if _, err := newReportServiceFixture(logs, nil, nil, nil).BuildMacroDistribution(client, ReportQuery{}, now); err == nil {
		t.Fatalf("expected error when log reader fails")
	}
}
