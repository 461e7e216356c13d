package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// validMealTypes is the set of allowed values for the meal_type enum.
// Reject unknown values with 400 rather than letting the DB return a cryptic 500.
var validMealTypes = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

// createMealRequest is the request body for POST /api/meals. The nutrition
// totals normally come from the vision provider's estimate; fiber/sugar are
// optional because older estimates omit them.
type createMealRequest struct {
	Name     string   `json:"name"`
	MealType string   `json:"meal_type"`
	Calories float64  `json:"calories"`
	ProteinG float64  `json:"protein_g"`
	CarbsG   float64  `json:"carbs_g"`
	FatG     float64  `json:"fat_g"`
	FiberG   *float64 `json:"fiber_g"`
	SugarG   *float64 `json:"sugar_g"`
}

// recomputeToday refreshes the user's daily progress record after a meal
// write. Failures are logged, not surfaced — the meal write already succeeded
// and the next read of /progress/today recomputes anyway.
func (h *Handler) recomputeToday(c *gin.Context, userID int) {
	if _, err := h.tracker.updateDailyProgress(c.Request.Context(), userID); err != nil {
		log.Printf("[recomputeToday] progress recompute failed for user %d: %v", userID, err)
	}
}

// getMeals returns the user's meals for a given date.
// GET /api/meals?date=YYYY-MM-DD (defaults to today, UTC).
func (h *Handler) getMeals(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", time.Now().UTC().Format("2006-01-02"))

	// Validate date format before querying — an invalid value silently returns no rows.
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	meals, err := queryMany[mealRecord](h.db, c.Request.Context(),
		`SELECT * FROM meals
		 WHERE user_id = @userID AND created_at >= @date::date AND created_at < @date::date + 1
		 ORDER BY created_at`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meals")
		return
	}
	// Ensure meals is an empty array (not null) in JSON
	if meals == nil {
		meals = []mealRecord{}
	}

	c.JSON(http.StatusOK, meals)
}

// createMeal inserts a meal and recomputes today's progress record.
// POST /api/meals.
func (h *Handler) createMeal(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createMealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Name == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}
	if !validMealTypes[body.MealType] {
		apiError(c, http.StatusBadRequest, "meal_type must be one of: breakfast, lunch, dinner, snack")
		return
	}
	if body.Calories < 0 || body.ProteinG < 0 || body.CarbsG < 0 || body.FatG < 0 {
		apiError(c, http.StatusBadRequest, "nutrition totals must be non-negative")
		return
	}

	meal, err := queryOne[mealRecord](h.db, c.Request.Context(),
		`INSERT INTO meals (id, user_id, name, meal_type, calories, protein_g, carbs_g, fat_g, fiber_g, sugar_g)
		 VALUES (@id, @userID, @name, @mealType, @calories, @proteinG, @carbsG, @fatG, @fiberG, @sugarG)
		 RETURNING *`,
		pgx.NamedArgs{
			"id": uuid.New().String(), "userID": userID,
			"name": body.Name, "mealType": body.MealType,
			"calories": body.Calories, "proteinG": body.ProteinG,
			"carbsG": body.CarbsG, "fatG": body.FatG,
			"fiberG": body.FiberG, "sugarG": body.SugarG,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create meal")
		return
	}

	h.recomputeToday(c, userID)
	c.JSON(http.StatusCreated, meal)
}

// updateMeal updates an existing meal and recomputes today's progress.
// PUT /api/meals/:id. Uses COALESCE so omitted fields keep their current value.
func (h *Handler) updateMeal(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	var body struct {
		Name     *string  `json:"name"`
		MealType *string  `json:"meal_type"`
		Calories *float64 `json:"calories"`
		ProteinG *float64 `json:"protein_g"`
		CarbsG   *float64 `json:"carbs_g"`
		FatG     *float64 `json:"fat_g"`
		FiberG   *float64 `json:"fiber_g"`
		SugarG   *float64 `json:"sugar_g"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.MealType != nil && !validMealTypes[*body.MealType] {
		apiError(c, http.StatusBadRequest, "meal_type must be one of: breakfast, lunch, dinner, snack")
		return
	}

	meal, err := queryOne[mealRecord](h.db, c.Request.Context(),
		`UPDATE meals SET
			name      = COALESCE(@name, name),
			meal_type = COALESCE(@mealType, meal_type),
			calories  = COALESCE(@calories, calories),
			protein_g = COALESCE(@proteinG, protein_g),
			carbs_g   = COALESCE(@carbsG, carbs_g),
			fat_g     = COALESCE(@fatG, fat_g),
			fiber_g   = COALESCE(@fiberG, fiber_g),
			sugar_g   = COALESCE(@sugarG, sugar_g)
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"id": id, "userID": userID,
			"name": body.Name, "mealType": body.MealType,
			"calories": body.Calories, "proteinG": body.ProteinG,
			"carbsG": body.CarbsG, "fatG": body.FatG,
			"fiberG": body.FiberG, "sugarG": body.SugarG,
		})
	if err != nil {
		// Distinguish a missing row from a real DB failure so callers get an
		// actionable status code rather than a misleading 404.
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "meal not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update meal")
		}
		return
	}

	h.recomputeToday(c, userID)
	c.JSON(http.StatusOK, meal)
}

// deleteMeal removes a meal and recomputes today's progress. Returns 204 on
// success. Ownership is enforced by requiring both id and user_id to match.
// DELETE /api/meals/:id.
func (h *Handler) deleteMeal(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM meals WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete meal")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "meal not found")
		return
	}

	h.recomputeToday(c, userID)
	c.Status(http.StatusNoContent)
}
