package main

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"
)

/* ─── In-memory store stubs ──────────────────────────────────────────── */

type stubProfileStore struct {
	profile *userProfile
	err     error
}

func (s *stubProfileStore) FindByUserID(ctx context.Context, userID int) (*userProfile, error) {
	return s.profile, s.err
}

func (s *stubProfileStore) Save(ctx context.Context, p *userProfile) (*userProfile, error) {
	s.profile = p
	return p, nil
}

type stubMealStore struct {
	meals []mealRecord
	err   error
}

func (s *stubMealStore) FindByUserID(ctx context.Context, userID int) ([]mealRecord, error) {
	return s.meals, s.err
}

// stubDailyStore keeps records keyed by (userID, date) like the real upsert.
type stubDailyStore struct {
	records map[string]dailyProgressRecord
	upserts int
}

func newStubDailyStore() *stubDailyStore {
	return &stubDailyStore{records: map[string]dailyProgressRecord{}}
}

func dailyKey(userID int, date time.Time) string {
	return fmt.Sprintf("%d/%s", userID, date.UTC().Format("2006-01-02"))
}

func (s *stubDailyStore) Upsert(ctx context.Context, rec dailyProgressRecord) error {
	s.upserts++
	s.records[dailyKey(rec.UserID, rec.Date.Time)] = rec
	return nil
}

func (s *stubDailyStore) FindRange(ctx context.Context, userID int, start, end time.Time) ([]dailyProgressRecord, error) {
	var out []dailyProgressRecord
	for _, rec := range s.records {
		if rec.UserID != userID {
			continue
		}
		d := rec.Date.Time
		if !d.Before(start) && !d.After(end) {
			out = append(out, rec)
		}
	}
	return out, nil
}

type stubWeeklyStore struct {
	weeks []weeklySummary
}

func (s *stubWeeklyStore) FindRecent(ctx context.Context, userID, n int) ([]weeklySummary, error) {
	if len(s.weeks) > n {
		return s.weeks[:n], nil
	}
	return s.weeks, nil
}

// newTestTracker builds a tracker over the stubs with "now" pinned to a fixed
// instant (a Wednesday) so the today-filter is deterministic.
func newTestTracker(profiles *stubProfileStore, meals *stubMealStore, daily *stubDailyStore, weeklies *stubWeeklyStore) *progressTracker {
	tr := newProgressTracker(profiles, meals, daily, weeklies)
	tr.now = func() time.Time {
		return time.Date(2025, 6, 18, 14, 30, 0, 0, time.UTC)
	}
	return tr
}

// balancedProfile is a fully-goal'd profile on the balanced diet.
func balancedProfile(userID int) *userProfile {
	fiber, sugar := 25.0, 50.0
	return &userProfile{
		UserID:       userID,
		DietType:     "balanced",
		GoalCalories: 2000, GoalProteinG: 100, GoalCarbsG: 250, GoalFatG: 67,
		GoalFiberG: &fiber, GoalSugarG: &sugar,
	}
}

func mealOn(ts time.Time, calories, protein, carbs, fat float64) mealRecord {
	return mealRecord{
		ID: "m-" + ts.Format(time.RFC3339), UserID: 1, Name: "meal", MealType: "lunch",
		Calories: calories, ProteinG: protein, CarbsG: carbs, FatG: fat,
		CreatedAt: ts,
	}
}

/* ─── updateDailyProgress ────────────────────────────────────────────── */

// TestUpdateDailyProgress_NoProfile verifies the "setup required" outcome is
// (nil, nil), never an error.
func TestUpdateDailyProgress_NoProfile(t *testing.T) {
	tr := newTestTracker(&stubProfileStore{}, &stubMealStore{}, newStubDailyStore(), &stubWeeklyStore{})
	rec, err := tr.updateDailyProgress(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record without a profile, got %+v", rec)
	}
}

// TestUpdateDailyProgress_SumsTodayOnly verifies meals are filtered by UTC
// day, totals are summed and rounded, and the record is upserted.
func TestUpdateDailyProgress_SumsTodayOnly(t *testing.T) {
	today := time.Date(2025, 6, 18, 8, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	meals := &stubMealStore{meals: []mealRecord{
		mealOn(today, 500.4, 30.3, 60, 15),
		mealOn(today.Add(6*time.Hour), 700, 40, 80.2, 20),
		mealOn(yesterday, 9999, 999, 999, 999), // must be ignored
	}}
	daily := newStubDailyStore()
	tr := newTestTracker(&stubProfileStore{profile: balancedProfile(1)}, meals, daily, &stubWeeklyStore{})

	rec, err := tr.updateDailyProgress(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil {
		t.Fatal("expected a record")
	}

	if rec.MealCount != 2 {
		t.Errorf("meal count = %d, want 2", rec.MealCount)
	}
	if rec.TotalCalories != 1200 { // round(500.4 + 700)
		t.Errorf("total calories = %d, want 1200", rec.TotalCalories)
	}
	if rec.TotalProteinG != 70 { // round(30.3 + 40)
		t.Errorf("total protein = %d, want 70", rec.TotalProteinG)
	}
	if rec.TotalCarbsG != 140 { // round(60 + 80.2)
		t.Errorf("total carbs = %d, want 140", rec.TotalCarbsG)
	}
	if rec.Date.Time != time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC) {
		t.Errorf("record date = %v, want 2025-06-18 UTC midnight", rec.Date.Time)
	}
	if rec.DietType != "balanced" {
		t.Errorf("diet type = %q, want balanced", rec.DietType)
	}
	if daily.upserts != 1 {
		t.Errorf("upserts = %d, want 1", daily.upserts)
	}
}

// TestUpdateDailyProgress_Idempotent verifies recomputing with the same meal
// set reproduces an identical record.
func TestUpdateDailyProgress_Idempotent(t *testing.T) {
	today := time.Date(2025, 6, 18, 8, 0, 0, 0, time.UTC)
	meals := &stubMealStore{meals: []mealRecord{
		mealOn(today, 650, 35, 70, 22),
	}}
	daily := newStubDailyStore()
	tr := newTestTracker(&stubProfileStore{profile: balancedProfile(1)}, meals, daily, &stubWeeklyStore{})

	first, err := tr.updateDailyProgress(context.Background(), 1)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := tr.updateDailyProgress(context.Background(), 1)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("recompute not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if len(daily.records) != 1 {
		t.Errorf("stored records = %d, want 1 (upsert, not append)", len(daily.records))
	}
}

// TestUpdateDailyProgress_UnknownDietFallsBack verifies an unknown stored
// diet type scores under the balanced template instead of failing.
func TestUpdateDailyProgress_UnknownDietFallsBack(t *testing.T) {
	profile := balancedProfile(1)
	profile.DietType = "fruitarian"
	tr := newTestTracker(&stubProfileStore{profile: profile}, &stubMealStore{}, newStubDailyStore(), &stubWeeklyStore{})

	rec, err := tr.updateDailyProgress(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.DietType != "balanced" {
		t.Errorf("diet type = %q, want balanced fallback", rec.DietType)
	}
}

/* ─── weekStartOf ────────────────────────────────────────────────────── */

// TestWeekStartOf verifies Monday canonicalization in UTC, including the
// Sunday-maps-to-previous-Monday rule and idempotence.
func TestWeekStartOf(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"Sunday maps to previous Monday",
			time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC),
			time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			"Monday maps to itself",
			time.Date(2025, 1, 6, 23, 59, 0, 0, time.UTC),
			time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		},
		{
			"Saturday maps back five days",
			time.Date(2025, 1, 4, 1, 0, 0, 0, time.UTC),
			time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			"year boundary",
			time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
			time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := weekStartOf(tc.in)
			if !got.Equal(tc.want) {
				t.Errorf("weekStartOf(%v) = %v, want %v", tc.in, got, tc.want)
			}
			if got.Weekday() != time.Monday {
				t.Errorf("weekStartOf(%v) is a %v, want Monday", tc.in, got.Weekday())
			}
			if again := weekStartOf(got); !again.Equal(got) {
				t.Errorf("weekStartOf not idempotent: %v -> %v", got, again)
			}
		})
	}
}

/* ─── calculateWeeklySummary ─────────────────────────────────────────── */

func dayRecord(userID int, date time.Time, calories, meals int, onTrack bool) dailyProgressRecord {
	return dailyProgressRecord{
		UserID: userID, Date: DateOnly{date},
		TotalCalories: calories, TotalProteinG: 100, TotalCarbsG: 200, TotalFatG: 60,
		MealCount: meals, IsOnTrack: onTrack, DietType: "balanced",
	}
}

// TestCalculateWeeklySummary_NoRecords verifies an untracked week returns
// (nil, nil), not an empty-averages object.
func TestCalculateWeeklySummary_NoRecords(t *testing.T) {
	tr := newTestTracker(&stubProfileStore{profile: balancedProfile(1)}, &stubMealStore{}, newStubDailyStore(), &stubWeeklyStore{})
	sum, err := tr.calculateWeeklySummary(context.Background(), 1, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != nil {
		t.Fatalf("expected nil summary, got %+v", sum)
	}
}

// TestCalculateWeeklySummary_AveragesOverTrackedDays verifies averages divide
// by daysTracked (3 here), not by 7, and complianceRate counts on-track days.
func TestCalculateWeeklySummary_AveragesOverTrackedDays(t *testing.T) {
	weekStart := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC) // a Monday
	daily := newStubDailyStore()
	daily.Upsert(context.Background(), dayRecord(1, weekStart, 1800, 3, true))
	daily.Upsert(context.Background(), dayRecord(1, weekStart.AddDate(0, 0, 2), 2100, 4, true))
	daily.Upsert(context.Background(), dayRecord(1, weekStart.AddDate(0, 0, 5), 2400, 2, false))
	// Outside the window — must be excluded.
	daily.Upsert(context.Background(), dayRecord(1, weekStart.AddDate(0, 0, 7), 9000, 9, false))

	tr := newTestTracker(&stubProfileStore{profile: balancedProfile(1)}, &stubMealStore{}, daily, &stubWeeklyStore{})
	sum, err := tr.calculateWeeklySummary(context.Background(), 1, weekStart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum == nil {
		t.Fatal("expected a summary")
	}

	if sum.DaysTracked != 3 {
		t.Errorf("days tracked = %d, want 3", sum.DaysTracked)
	}
	if sum.TotalMeals != 9 {
		t.Errorf("total meals = %d, want 9", sum.TotalMeals)
	}
	if sum.AvgCalories != 2100 { // (1800+2100+2400)/3
		t.Errorf("avg calories = %v, want 2100", sum.AvgCalories)
	}
	wantRate := 2.0 / 3.0
	if diff := sum.ComplianceRate - wantRate; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("compliance rate = %v, want %v", sum.ComplianceRate, wantRate)
	}
}

/* ─── Monthly trend ──────────────────────────────────────────────────── */

func weeksWithRates(rates ...float64) []weeklySummary {
	weeks := make([]weeklySummary, len(rates))
	for i, r := range rates {
		weeks[i] = weeklySummary{ComplianceRate: r, DaysTracked: 7}
	}
	return weeks
}

// TestSummarizeMonth_Trend covers the trend tag across the ±0.1 band.
func TestSummarizeMonth_Trend(t *testing.T) {
	cases := []struct {
		name  string
		rates []float64
		want  string
	}{
		{"improving", []float64{0.9, 0.9, 0.9, 0.9, 0.5, 0.5, 0.5, 0.5}, trendImproving},
		{"declining", []float64{0.4, 0.4, 0.4, 0.4, 0.8, 0.8, 0.8, 0.8}, trendDeclining},
		{"within band is stable", []float64{0.75, 0.75, 0.75, 0.75, 0.7, 0.7, 0.7, 0.7}, trendStable},
		{"fewer than eight weeks is stable", []float64{1, 1, 1, 0, 0, 0, 0}, trendStable},
		{"no weeks is stable", nil, trendStable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := summarizeMonth(weeksWithRates(tc.rates...))
			if m.Trend != tc.want {
				t.Errorf("trend = %q, want %q", m.Trend, tc.want)
			}
			if m.TotalWeeks != len(tc.rates) {
				t.Errorf("total weeks = %d, want %d", m.TotalWeeks, len(tc.rates))
			}
		})
	}
}

// TestSummarizeMonth_AvgAndCap verifies the overall average and the 12-week cap.
func TestSummarizeMonth_AvgAndCap(t *testing.T) {
	m := summarizeMonth(weeksWithRates(1, 0))
	if m.AvgComplianceRate != 0.5 {
		t.Errorf("avg = %v, want 0.5", m.AvgComplianceRate)
	}

	// 14 weeks supplied; only the most recent 12 count.
	rates := make([]float64, 14)
	for i := range rates {
		rates[i] = 1
	}
	m = summarizeMonth(weeksWithRates(rates...))
	if m.TotalWeeks != 12 {
		t.Errorf("total weeks = %d, want capped at 12", m.TotalWeeks)
	}
}

/* ─── Remaining budget & suggestions ─────────────────────────────────── */

// TestRemainingBudgetFor_NeverNegative verifies the zero floor and the
// fiber/sugar nil-through behavior.
func TestRemainingBudgetFor_NeverNegative(t *testing.T) {
	rec := dailyProgressRecord{
		TotalCalories: 2500, TotalProteinG: 60, TotalCarbsG: 300, TotalFatG: 10,
		GoalCalories: 2000, GoalProteinG: 100, GoalCarbsG: 250, GoalFatG: 67,
	}
	b := remainingBudgetFor(rec)
	if b.Calories != 0 {
		t.Errorf("remaining calories = %v, want 0 (goal exceeded)", b.Calories)
	}
	if b.ProteinG != 40 {
		t.Errorf("remaining protein = %v, want 40", b.ProteinG)
	}
	if b.CarbsG != 0 {
		t.Errorf("remaining carbs = %v, want 0", b.CarbsG)
	}
	if b.FatG != 57 {
		t.Errorf("remaining fat = %v, want 57", b.FatG)
	}
	if b.FiberG != nil || b.SugarG != nil {
		t.Errorf("fiber/sugar = %v/%v, want nil when goals are unset", b.FiberG, b.SugarG)
	}

	fiber := 25.0
	rec.GoalFiberG = &fiber
	rec.TotalFiberG = 30
	b = remainingBudgetFor(rec)
	if b.FiberG == nil || *b.FiberG != 0 {
		t.Errorf("remaining fiber = %v, want 0", b.FiberG)
	}
}

// TestNextMealSuggestions_EarlyExits verifies the two calorie rules return a
// single message and suppress everything else.
func TestNextMealSuggestions_EarlyExits(t *testing.T) {
	tips := nextMealSuggestions(-50, 0, 0, 0, "balanced")
	if len(tips) != 1 {
		t.Fatalf("tips = %v, want exactly one exceeded-budget message", tips)
	}

	tips = nextMealSuggestions(150, 80, 80, 80, "keto")
	if len(tips) != 1 {
		t.Fatalf("tips = %v, want exactly one small-budget message", tips)
	}
}

// TestNextMealSuggestions_Keto verifies the keto gram-threshold call-outs.
func TestNextMealSuggestions_Keto(t *testing.T) {
	tips := nextMealSuggestions(800, 25, 15, 40, "keto")
	if len(tips) != 3 {
		t.Errorf("tips = %v, want all three keto call-outs", tips)
	}
	// Below every threshold: 10g carbs, 30g fat, 20g protein. The result
	// must be an empty slice, not nil — it serializes straight to JSON.
	tips = nextMealSuggestions(800, 10, 5, 20, "keto")
	if tips == nil {
		t.Fatal("tips = nil, want empty slice")
	}
	if len(tips) != 0 {
		t.Errorf("tips = %v, want none below the thresholds", tips)
	}
}

// TestNextMealSuggestions_DefaultPicksLargestMacro verifies the fallback
// cascade for diets without special handling.
func TestNextMealSuggestions_DefaultPicksLargestMacro(t *testing.T) {
	tips := nextMealSuggestions(900, 50, 20, 10, "balanced")
	if len(tips) != 1 {
		t.Fatalf("tips = %v, want one", tips)
	}

	// Everything consumed but calories remain: balanced-plate fallback.
	tips = nextMealSuggestions(300, 0, 0, 0, "mediterranean")
	if len(tips) != 1 {
		t.Fatalf("tips = %v, want the balanced-plate fallback", tips)
	}
}

/* ─── Range passthrough ──────────────────────────────────────────────── */

// TestGetProgressRange_Passthrough verifies the tracker returns what the
// store returns for the inclusive range.
func TestGetProgressRange_Passthrough(t *testing.T) {
	daily := newStubDailyStore()
	d1 := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
	daily.Upsert(context.Background(), dayRecord(1, d1, 1800, 3, true))
	daily.Upsert(context.Background(), dayRecord(1, d2, 2000, 3, true))

	tr := newTestTracker(&stubProfileStore{profile: balancedProfile(1)}, &stubMealStore{}, daily, &stubWeeklyStore{})
	recs, err := tr.getProgressRange(context.Background(), 1, d1, d2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("got %d records, want 2", len(recs))
	}
}
