package main

import (
	"context"
	"fmt"
	"math"
	"time"
)

/* ─── Store contracts ────────────────────────────────────────────────── */

// profileStore reads user goal configuration. FindByUserID returns (nil, nil)
// when the user has no profile yet — that is a normal outcome, not an error.
type profileStore interface {
	FindByUserID(ctx context.Context, userID int) (*userProfile, error)
	Save(ctx context.Context, p *userProfile) (*userProfile, error)
}

// mealStore reads logged meals.
type mealStore interface {
	FindByUserID(ctx context.Context, userID int) ([]mealRecord, error)
}

// dailyProgressStore persists daily progress records. Upsert is keyed on
// (user_id, date) with last-write-wins semantics — recomputation is
// deterministic for a given meal set, so a racing pair of writers produces
// one of two equally valid rows.
type dailyProgressStore interface {
	Upsert(ctx context.Context, rec dailyProgressRecord) error
	FindRange(ctx context.Context, userID int, start, end time.Time) ([]dailyProgressRecord, error)
}

// weeklySummaryStore reads recent weekly summaries, most recent first.
type weeklySummaryStore interface {
	FindRecent(ctx context.Context, userID, n int) ([]weeklySummary, error)
}

/* ─── Tracker ────────────────────────────────────────────────────────── */

// progressTracker wires the stores to the scoring engine. It holds no mutable
// state of its own; the now field exists so tests can pin "today".
type progressTracker struct {
	profiles profileStore
	meals    mealStore
	daily    dailyProgressStore
	weeklies weeklySummaryStore
	now      func() time.Time
}

func newProgressTracker(profiles profileStore, meals mealStore, daily dailyProgressStore, weeklies weeklySummaryStore) *progressTracker {
	return &progressTracker{
		profiles: profiles,
		meals:    meals,
		daily:    daily,
		weeklies: weeklies,
		now:      time.Now,
	}
}

// utcDay truncates a time to its UTC calendar day at midnight.
func utcDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekStartOf returns the Monday of the week containing t, midnight UTC.
// Sunday belongs to the week that started the previous Monday. Uses AddDate to
// safely handle month/year boundaries.
func weekStartOf(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday()) // 0=Sun
	if weekday == 0 {
		weekday = 7 // treat Sunday as day 7 so Mon=1..Sun=7
	}
	return utcDay(t.AddDate(0, 0, -(weekday - 1)))
}

// updateDailyProgress recomputes and persists today's progress record for the
// user from scratch: fetch meals, keep today's (UTC day), sum totals, score
// against the profile's stored goals, upsert. Returns (nil, nil) when the user
// has no profile — callers surface that as "setup required", never as a crash.
// Recompute-on-write keeps the operation idempotent for a fixed meal set.
func (tr *progressTracker) updateDailyProgress(ctx context.Context, userID int) (*dailyProgressRecord, error) {
	profile, err := tr.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile for user %d: %w", userID, err)
	}
	if profile == nil {
		return nil, nil
	}

	meals, err := tr.meals.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load meals for user %d: %w", userID, err)
	}

	today := utcDay(tr.now())

	var actual macroActuals
	var fiberSum, sugarSum float64
	var sawFiber, sawSugar bool
	mealCount := 0
	for _, m := range meals {
		if !utcDay(m.CreatedAt).Equal(today) {
			continue
		}
		mealCount++
		actual.Calories += m.Calories
		actual.ProteinG += m.ProteinG
		actual.CarbsG += m.CarbsG
		actual.FatG += m.FatG
		if m.FiberG != nil {
			fiberSum += *m.FiberG
			sawFiber = true
		}
		if m.SugarG != nil {
			sugarSum += *m.SugarG
			sawSugar = true
		}
	}
	// Fiber/sugar stay absent unless at least one meal reported them, so the
	// scorer skips those checks instead of flagging a phantom shortfall.
	if sawFiber {
		actual.FiberG = &fiberSum
	}
	if sawSugar {
		actual.SugarG = &sugarSum
	}

	tpl := lookupDietTemplate(profile.DietType)
	goals := profile.goals()
	result := scoreCompliance(actual, goals, tpl)

	rec := dailyProgressRecord{
		UserID:        userID,
		Date:          DateOnly{today},
		TotalCalories: int(math.Round(actual.Calories)),
		TotalProteinG: int(math.Round(actual.ProteinG)),
		TotalCarbsG:   int(math.Round(actual.CarbsG)),
		TotalFatG:     int(math.Round(actual.FatG)),
		TotalFiberG:   int(math.Round(fiberSum)),
		TotalSugarG:   int(math.Round(sugarSum)),
		MealCount:     mealCount,

		GoalCalories: goals.Calories,
		GoalProteinG: goals.ProteinG,
		GoalCarbsG:   goals.CarbsG,
		GoalFatG:     goals.FatG,
		GoalFiberG:   goals.FiberG,
		GoalSugarG:   goals.SugarG,

		ProteinCompliance: result.ProteinCompliance,
		CarbsCompliance:   result.CarbsCompliance,
		FatCompliance:     result.FatCompliance,
		IsOnTrack:         result.IsOnTrack,
		DietType:          tpl.DietType,
	}

	if err := tr.daily.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("upsert daily progress for user %d: %w", userID, err)
	}
	return &rec, nil
}

// getProgressRange is a passthrough read of daily records in [start, end],
// both inclusive. Ordering is whatever the store returns; callers sort if
// they need to.
func (tr *progressTracker) getProgressRange(ctx context.Context, userID int, start, end time.Time) ([]dailyProgressRecord, error) {
	return tr.daily.FindRange(ctx, userID, start, end)
}

// calculateWeeklySummary aggregates the 7-day window starting at weekStart.
// Returns (nil, nil) when no day in the window has a record. Averages divide
// by the number of tracked days, not 7.
func (tr *progressTracker) calculateWeeklySummary(ctx context.Context, userID int, weekStart time.Time) (*weeklySummary, error) {
	weekStart = utcDay(weekStart)
	recs, err := tr.daily.FindRange(ctx, userID, weekStart, weekStart.AddDate(0, 0, 6))
	if err != nil {
		return nil, fmt.Errorf("load weekly range for user %d: %w", userID, err)
	}
	if len(recs) == 0 {
		return nil, nil
	}

	sum := weeklySummary{
		WeekStart:   DateOnly{weekStart},
		DaysTracked: len(recs),
	}
	onTrack := 0
	for _, r := range recs {
		sum.TotalMeals += r.MealCount
		sum.AvgCalories += float64(r.TotalCalories)
		sum.AvgProteinG += float64(r.TotalProteinG)
		sum.AvgCarbsG += float64(r.TotalCarbsG)
		sum.AvgFatG += float64(r.TotalFatG)
		if r.IsOnTrack {
			onTrack++
		}
	}
	days := float64(sum.DaysTracked)
	sum.AvgCalories /= days
	sum.AvgProteinG /= days
	sum.AvgCarbsG /= days
	sum.AvgFatG /= days
	sum.ComplianceRate = float64(onTrack) / days

	return &sum, nil
}

/* ─── Monthly trend ──────────────────────────────────────────────────── */

const (
	trendMinWeeks  = 8   // need two full 4-week windows to call a trend
	trendWindow    = 4   // weeks per comparison window
	trendBand      = 0.1 // |recent − previous| must exceed this to leave "stable"
	maxTrendWeeks  = 12  // cap on weekly summaries considered
	trendImproving = "improving"
	trendDeclining = "declining"
	trendStable    = "stable"
)

// summarizeMonth folds the most recent weekly summaries (most-recent-first,
// at most maxTrendWeeks) into an overall compliance rate and a trend tag.
// Fewer than trendMinWeeks of data always reads as stable.
func summarizeMonth(weeks []weeklySummary) monthlySummary {
	if len(weeks) > maxTrendWeeks {
		weeks = weeks[:maxTrendWeeks]
	}

	m := monthlySummary{TotalWeeks: len(weeks), Trend: trendStable}
	if len(weeks) == 0 {
		return m
	}

	var total float64
	for _, w := range weeks {
		total += w.ComplianceRate
	}
	m.AvgComplianceRate = total / float64(len(weeks))

	if len(weeks) >= trendMinWeeks {
		recent := meanComplianceRate(weeks[:trendWindow])
		previous := meanComplianceRate(weeks[trendWindow : 2*trendWindow])
		switch {
		case recent > previous+trendBand:
			m.Trend = trendImproving
		case recent < previous-trendBand:
			m.Trend = trendDeclining
		}
	}
	return m
}

func meanComplianceRate(weeks []weeklySummary) float64 {
	var total float64
	for _, w := range weeks {
		total += w.ComplianceRate
	}
	return total / float64(len(weeks))
}

// monthlySummaryFor reads recent weekly summaries from the store and folds
// them into a monthly report.
func (tr *progressTracker) monthlySummaryFor(ctx context.Context, userID int) (monthlySummary, error) {
	weeks, err := tr.weeklies.FindRecent(ctx, userID, maxTrendWeeks)
	if err != nil {
		return monthlySummary{}, fmt.Errorf("load weekly summaries for user %d: %w", userID, err)
	}
	return summarizeMonth(weeks), nil
}

/* ─── Remaining budget & next-meal suggestions ───────────────────────── */

// remainingBudgetFor is what's left of each goal after the day's totals,
// floored at zero. Fiber/sugar pass through as nil when the goal is unset.
func remainingBudgetFor(rec dailyProgressRecord) remainingBudget {
	left := func(goal, total float64) float64 {
		return math.Max(0, goal-total)
	}
	b := remainingBudget{
		Calories: left(rec.GoalCalories, float64(rec.TotalCalories)),
		ProteinG: left(rec.GoalProteinG, float64(rec.TotalProteinG)),
		CarbsG:   left(rec.GoalCarbsG, float64(rec.TotalCarbsG)),
		FatG:     left(rec.GoalFatG, float64(rec.TotalFatG)),
	}
	if rec.GoalFiberG != nil {
		fiber := left(*rec.GoalFiberG, float64(rec.TotalFiberG))
		b.FiberG = &fiber
	}
	if rec.GoalSugarG != nil {
		sugar := left(*rec.GoalSugarG, float64(rec.TotalSugarG))
		b.SugarG = &sugar
	}
	return b
}

// Thresholds for the suggestion cascade, in grams of remaining allowance.
const (
	ketoCarbSuggestG    = 10
	ketoFatSuggestG     = 30
	ketoProteinSuggestG = 20
	veganProteinG       = 15
	paleoCarbG          = 30
)

// nextMealSuggestions builds tips for the user's next meal from today's
// remaining budget. The two calorie rules short-circuit: once the budget is
// blown (or nearly so) the macro-level advice is noise.
func nextMealSuggestions(remCalories, remProtein, remCarbs, remFat float64, dietType string) []string {
	if remCalories < 0 {
		return []string{"You've exceeded your calorie budget for today — consider a light walk instead of another meal"}
	}
	if remCalories < 200 {
		return []string{"Only a small calorie budget left — keep the next meal light, like a salad or broth"}
	}

	// Empty stays []string{}, not nil — callers serialize this straight to JSON.
	tips := []string{}
	switch dietType {
	case "keto":
		if remCarbs > ketoCarbSuggestG {
			tips = append(tips, fmt.Sprintf("You can fit about %.0fg of carbs — use them on leafy greens", remCarbs))
		}
		if remFat > ketoFatSuggestG {
			tips = append(tips, "Plenty of fat allowance left: avocado, olive oil, or fatty fish")
		}
		if remProtein > ketoProteinSuggestG {
			tips = append(tips, "Room for more protein — eggs or fatty cuts of meat fit keto well")
		}
	case "vegan":
		if remProtein > veganProteinG {
			tips = append(tips, "Add plant protein: tofu, tempeh, lentils, or beans")
		}
		tips = append(tips, "Pick something nutrient-dense: a grain bowl with vegetables and seeds")
	case "paleo":
		tips = append(tips, "Grilled meat or fish with vegetables fits your remaining budget")
		if remCarbs > paleoCarbG {
			tips = append(tips, "You have carb room — sweet potato or fruit are good paleo options")
		}
	default:
		switch {
		case remProtein >= remCarbs && remProtein >= remFat && remProtein > 0:
			tips = append(tips, "Protein is what you're missing most — lean meat, fish, or yogurt")
		case remCarbs >= remFat && remCarbs > 0:
			tips = append(tips, "You have the most room in carbs — whole grains or fruit work well")
		case remFat > 0:
			tips = append(tips, "Fat is your biggest remaining allowance — nuts, olive oil, or cheese")
		default:
			tips = append(tips, "Aim for a balanced plate: protein, whole grains, and vegetables")
		}
	}
	return tips
}
