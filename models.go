package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// userProfile maps to user_profiles: one row per user with the chosen diet,
// the current daily macro goals, and optional body metrics used only by the
// recommended-goal calculation. Body metric fields are pointers — a profile
// created from manual goal entry has none of them.
type userProfile struct {
	UserID   int    `json:"user_id" db:"user_id"`
	DietType string `json:"diet_type" db:"diet_type"`

	GoalCalories float64  `json:"goal_calories" db:"goal_calories"`
	GoalProteinG float64  `json:"goal_protein_g" db:"goal_protein_g"`
	GoalCarbsG   float64  `json:"goal_carbs_g" db:"goal_carbs_g"`
	GoalFatG     float64  `json:"goal_fat_g" db:"goal_fat_g"`
	GoalFiberG   *float64 `json:"goal_fiber_g" db:"goal_fiber_g"`
	GoalSugarG   *float64 `json:"goal_sugar_g" db:"goal_sugar_g"`

	WeightKG      *float64 `json:"weight_kg" db:"weight_kg"`
	HeightCM      *float64 `json:"height_cm" db:"height_cm"`
	Age           *int     `json:"age" db:"age"`
	Gender        *string  `json:"gender" db:"gender"`
	ActivityLevel *string  `json:"activity_level" db:"activity_level"`

	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// goals returns the profile's stored daily targets as a macroGoals value.
func (p *userProfile) goals() macroGoals {
	return macroGoals{
		Calories: p.GoalCalories,
		ProteinG: p.GoalProteinG,
		CarbsG:   p.GoalCarbsG,
		FatG:     p.GoalFatG,
		FiberG:   p.GoalFiberG,
		SugarG:   p.GoalSugarG,
	}
}

// mealRecord maps to meals: one logged meal with its nutrition totals as
// estimated by the vision provider (or entered manually). Fiber and sugar are
// nullable — older estimates did not include them.
type mealRecord struct {
	ID        string    `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	MealType  string    `json:"meal_type" db:"meal_type"`
	Calories  float64   `json:"calories" db:"calories"`
	ProteinG  float64   `json:"protein_g" db:"protein_g"`
	CarbsG    float64   `json:"carbs_g" db:"carbs_g"`
	FatG      float64   `json:"fat_g" db:"fat_g"`
	FiberG    *float64  `json:"fiber_g" db:"fiber_g"`
	SugarG    *float64  `json:"sugar_g" db:"sugar_g"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

/* ─── Value objects ──────────────────────────────────────────────────── */

// macroGoals is a daily macro target set. Fiber/sugar are optional targets.
type macroGoals struct {
	Calories float64  `json:"calories"`
	ProteinG float64  `json:"protein_g"`
	CarbsG   float64  `json:"carbs_g"`
	FatG     float64  `json:"fat_g"`
	FiberG   *float64 `json:"fiber_g,omitempty"`
	SugarG   *float64 `json:"sugar_g,omitempty"`
}

// macroActuals is a summed intake for one day. Fiber/sugar are nil when no
// meal that day reported them.
type macroActuals struct {
	Calories float64  `json:"calories"`
	ProteinG float64  `json:"protein_g"`
	CarbsG   float64  `json:"carbs_g"`
	FatG     float64  `json:"fat_g"`
	FiberG   *float64 `json:"fiber_g,omitempty"`
	SugarG   *float64 `json:"sugar_g,omitempty"`
}

/* ─── Computed / persisted progress shapes ───────────────────────────── */

// dailyProgressRecord maps to daily_progress: one row per (user_id, date),
// overwritten wholesale each time a meal is logged that day. Totals are
// rounded to whole units; the goal columns are a snapshot of the profile's
// goals at computation time so later goal edits don't rewrite history.
type dailyProgressRecord struct {
	UserID int      `json:"user_id" db:"user_id"`
	Date   DateOnly `json:"date" db:"date"`

	TotalCalories int `json:"total_calories" db:"total_calories"`
	TotalProteinG int `json:"total_protein_g" db:"total_protein_g"`
	TotalCarbsG   int `json:"total_carbs_g" db:"total_carbs_g"`
	TotalFatG     int `json:"total_fat_g" db:"total_fat_g"`
	TotalFiberG   int `json:"total_fiber_g" db:"total_fiber_g"`
	TotalSugarG   int `json:"total_sugar_g" db:"total_sugar_g"`
	MealCount     int `json:"meal_count" db:"meal_count"`

	GoalCalories float64  `json:"goal_calories" db:"goal_calories"`
	GoalProteinG float64  `json:"goal_protein_g" db:"goal_protein_g"`
	GoalCarbsG   float64  `json:"goal_carbs_g" db:"goal_carbs_g"`
	GoalFatG     float64  `json:"goal_fat_g" db:"goal_fat_g"`
	GoalFiberG   *float64 `json:"goal_fiber_g" db:"goal_fiber_g"`
	GoalSugarG   *float64 `json:"goal_sugar_g" db:"goal_sugar_g"`

	ProteinCompliance float64 `json:"protein_compliance" db:"protein_compliance"`
	CarbsCompliance   float64 `json:"carbs_compliance" db:"carbs_compliance"`
	FatCompliance     float64 `json:"fat_compliance" db:"fat_compliance"`
	IsOnTrack         bool    `json:"is_on_track" db:"is_on_track"`
	DietType          string  `json:"diet_type" db:"diet_type"`
}

// weeklySummary is a derived aggregate over one Monday-anchored week of daily
// progress records. Averages divide by DaysTracked, not 7 — untracked days
// don't drag the averages down.
type weeklySummary struct {
	WeekStart      DateOnly `json:"week_start" db:"week_start"`
	DaysTracked    int      `json:"days_tracked" db:"days_tracked"`
	TotalMeals     int      `json:"total_meals" db:"total_meals"`
	AvgCalories    float64  `json:"avg_calories" db:"avg_calories"`
	AvgProteinG    float64  `json:"avg_protein_g" db:"avg_protein_g"`
	AvgCarbsG      float64  `json:"avg_carbs_g" db:"avg_carbs_g"`
	AvgFatG        float64  `json:"avg_fat_g" db:"avg_fat_g"`
	ComplianceRate float64  `json:"compliance_rate" db:"compliance_rate"`
}

// monthlySummary rolls recent weekly summaries into an overall rate and a
// trend tag: "improving", "declining", or "stable".
type monthlySummary struct {
	TotalWeeks        int     `json:"total_weeks"`
	AvgComplianceRate float64 `json:"avg_compliance_rate"`
	Trend             string  `json:"trend"`
}

// remainingBudget is what's left of today's goals after the logged meals.
// Never negative; fiber/sugar are nil when the goal itself is unset.
type remainingBudget struct {
	Calories float64  `json:"calories"`
	ProteinG float64  `json:"protein_g"`
	CarbsG   float64  `json:"carbs_g"`
	FatG     float64  `json:"fat_g"`
	FiberG   *float64 `json:"fiber_g,omitempty"`
	SugarG   *float64 `json:"sugar_g,omitempty"`
}
