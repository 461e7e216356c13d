package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](pool *pgxpool.Pool, ctx context.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](pool *pgxpool.Pool, ctx context.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

/* ─── Profile store ───────────────────────────────────────────────────── */

type pgProfileStore struct{ pool *pgxpool.Pool }

// FindByUserID returns (nil, nil) when the user has no profile row — the
// engine treats that as "setup required", not a failure.
func (s *pgProfileStore) FindByUserID(ctx context.Context, userID int) (*userProfile, error) {
	p, err := queryOne[userProfile](s.pool, ctx,
		"SELECT * FROM user_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Save upserts the full profile row for the user. The UNIQUE(user_id)
// constraint means first-time setup and later edits go through the same path.
func (s *pgProfileStore) Save(ctx context.Context, p *userProfile) (*userProfile, error) {
	saved, err := queryOne[userProfile](s.pool, ctx,
		`INSERT INTO user_profiles
			(user_id, diet_type, goal_calories, goal_protein_g, goal_carbs_g, goal_fat_g,
			 goal_fiber_g, goal_sugar_g, weight_kg, height_cm, age, gender, activity_level)
		 VALUES
			(@userID, @dietType, @goalCalories, @goalProteinG, @goalCarbsG, @goalFatG,
			 @goalFiberG, @goalSugarG, @weightKG, @heightCM, @age, @gender, @activityLevel)
		 ON CONFLICT (user_id) DO UPDATE SET
			diet_type      = EXCLUDED.diet_type,
			goal_calories  = EXCLUDED.goal_calories,
			goal_protein_g = EXCLUDED.goal_protein_g,
			goal_carbs_g   = EXCLUDED.goal_carbs_g,
			goal_fat_g     = EXCLUDED.goal_fat_g,
			goal_fiber_g   = EXCLUDED.goal_fiber_g,
			goal_sugar_g   = EXCLUDED.goal_sugar_g,
			weight_kg      = EXCLUDED.weight_kg,
			height_cm      = EXCLUDED.height_cm,
			age            = EXCLUDED.age,
			gender         = EXCLUDED.gender,
			activity_level = EXCLUDED.activity_level,
			updated_at     = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": p.UserID, "dietType": p.DietType,
			"goalCalories": p.GoalCalories, "goalProteinG": p.GoalProteinG,
			"goalCarbsG": p.GoalCarbsG, "goalFatG": p.GoalFatG,
			"goalFiberG": p.GoalFiberG, "goalSugarG": p.GoalSugarG,
			"weightKG": p.WeightKG, "heightCM": p.HeightCM, "age": p.Age,
			"gender": p.Gender, "activityLevel": p.ActivityLevel,
		})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

/* ─── Meal store ──────────────────────────────────────────────────────── */

type pgMealStore struct{ pool *pgxpool.Pool }

func (s *pgMealStore) FindByUserID(ctx context.Context, userID int) ([]mealRecord, error) {
	meals, err := queryMany[mealRecord](s.pool, ctx,
		"SELECT * FROM meals WHERE user_id = @userID ORDER BY created_at",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return nil, err
	}
	return meals, nil
}

/* ─── Daily progress store ────────────────────────────────────────────── */

type pgDailyProgressStore struct{ pool *pgxpool.Pool }

// Upsert overwrites the record for (user_id, date). Last write wins — the
// recomputation that produced it is deterministic for a given meal set, so a
// race between two writers leaves a valid row either way.
func (s *pgDailyProgressStore) Upsert(ctx context.Context, rec dailyProgressRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO daily_progress
			(user_id, date, total_calories, total_protein_g, total_carbs_g, total_fat_g,
			 total_fiber_g, total_sugar_g, meal_count,
			 goal_calories, goal_protein_g, goal_carbs_g, goal_fat_g, goal_fiber_g, goal_sugar_g,
			 protein_compliance, carbs_compliance, fat_compliance, is_on_track, diet_type)
		 VALUES
			(@userID, @date, @totalCalories, @totalProteinG, @totalCarbsG, @totalFatG,
			 @totalFiberG, @totalSugarG, @mealCount,
			 @goalCalories, @goalProteinG, @goalCarbsG, @goalFatG, @goalFiberG, @goalSugarG,
			 @proteinCompliance, @carbsCompliance, @fatCompliance, @isOnTrack, @dietType)
		 ON CONFLICT (user_id, date) DO UPDATE SET
			total_calories     = EXCLUDED.total_calories,
			total_protein_g    = EXCLUDED.total_protein_g,
			total_carbs_g      = EXCLUDED.total_carbs_g,
			total_fat_g        = EXCLUDED.total_fat_g,
			total_fiber_g      = EXCLUDED.total_fiber_g,
			total_sugar_g      = EXCLUDED.total_sugar_g,
			meal_count         = EXCLUDED.meal_count,
			goal_calories      = EXCLUDED.goal_calories,
			goal_protein_g     = EXCLUDED.goal_protein_g,
			goal_carbs_g       = EXCLUDED.goal_carbs_g,
			goal_fat_g         = EXCLUDED.goal_fat_g,
			goal_fiber_g       = EXCLUDED.goal_fiber_g,
			goal_sugar_g       = EXCLUDED.goal_sugar_g,
			protein_compliance = EXCLUDED.protein_compliance,
			carbs_compliance   = EXCLUDED.carbs_compliance,
			fat_compliance     = EXCLUDED.fat_compliance,
			is_on_track        = EXCLUDED.is_on_track,
			diet_type          = EXCLUDED.diet_type`,
		pgx.NamedArgs{
			"userID": rec.UserID, "date": rec.Date.Time.Format("2006-01-02"),
			"totalCalories": rec.TotalCalories, "totalProteinG": rec.TotalProteinG,
			"totalCarbsG": rec.TotalCarbsG, "totalFatG": rec.TotalFatG,
			"totalFiberG": rec.TotalFiberG, "totalSugarG": rec.TotalSugarG,
			"mealCount":    rec.MealCount,
			"goalCalories": rec.GoalCalories, "goalProteinG": rec.GoalProteinG,
			"goalCarbsG": rec.GoalCarbsG, "goalFatG": rec.GoalFatG,
			"goalFiberG": rec.GoalFiberG, "goalSugarG": rec.GoalSugarG,
			"proteinCompliance": rec.ProteinCompliance, "carbsCompliance": rec.CarbsCompliance,
			"fatCompliance": rec.FatCompliance, "isOnTrack": rec.IsOnTrack,
			"dietType": rec.DietType,
		})
	return err
}

func (s *pgDailyProgressStore) FindRange(ctx context.Context, userID int, start, end time.Time) ([]dailyProgressRecord, error) {
	return queryMany[dailyProgressRecord](s.pool, ctx,
		`SELECT * FROM daily_progress
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{
			"userID": userID,
			"start":  start.UTC().Format("2006-01-02"),
			"end":    end.UTC().Format("2006-01-02"),
		})
}

/* ─── Weekly summary store ────────────────────────────────────────────── */

type pgWeeklySummaryStore struct{ pool *pgxpool.Pool }

// FindRecent derives the last n weekly summaries from daily_progress instead
// of maintaining a materialized table. date_trunc('week', ...) anchors on
// Monday, which matches the app's week-start convention, and recompute-on-read
// keeps the summaries consistent with the recompute-on-write daily rows.
func (s *pgWeeklySummaryStore) FindRecent(ctx context.Context, userID, n int) ([]weeklySummary, error) {
	return queryMany[weeklySummary](s.pool, ctx,
		`SELECT
			date_trunc('week', date)::date AS week_start,
			COUNT(*)::int                  AS days_tracked,
			SUM(meal_count)::int           AS total_meals,
			AVG(total_calories)            AS avg_calories,
			AVG(total_protein_g)           AS avg_protein_g,
			AVG(total_carbs_g)             AS avg_carbs_g,
			AVG(total_fat_g)               AS avg_fat_g,
			AVG(CASE WHEN is_on_track THEN 1.0 ELSE 0.0 END) AS compliance_rate
		 FROM daily_progress
		 WHERE user_id = @userID
		 GROUP BY date_trunc('week', date)
		 ORDER BY week_start DESC
		 LIMIT @limit`,
		pgx.NamedArgs{"userID": userID, "limit": n})
}
