package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// putProfileRequest is the request body for PUT /api/profile. Goal fields are
// pointers — when the client omits them (first-time setup), goals are derived
// from body metrics when present, otherwise from the template baselines.
type putProfileRequest struct {
	DietType string `json:"diet_type"`

	GoalCalories *float64 `json:"goal_calories"`
	GoalProteinG *float64 `json:"goal_protein_g"`
	GoalCarbsG   *float64 `json:"goal_carbs_g"`
	GoalFatG     *float64 `json:"goal_fat_g"`
	GoalFiberG   *float64 `json:"goal_fiber_g"`
	GoalSugarG   *float64 `json:"goal_sugar_g"`

	WeightKG      *float64 `json:"weight_kg"`
	HeightCM      *float64 `json:"height_cm"`
	Age           *int     `json:"age"`
	Gender        *string  `json:"gender"`
	ActivityLevel *string  `json:"activity_level"`
}

// getProfile returns the authenticated user's profile.
// GET /api/profile. 404 with needsSetup when no profile exists yet.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	profile, err := h.tracker.profiles.FindByUserID(c.Request.Context(), userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	if profile == nil {
		needsSetup(c)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// putProfile creates or replaces the user's profile.
// PUT /api/profile. An unknown diet_type is stored as-is and remapped to
// "balanced" at scoring time, so clients never see a hard failure for it.
// activity_level, by contrast, is validated here — a typo would silently
// degrade every future goal recalculation to the moderate multiplier.
func (h *Handler) putProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body putProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.DietType == "" {
		apiError(c, http.StatusBadRequest, "diet_type is required")
		return
	}
	if body.ActivityLevel != nil {
		if _, ok := activityMultipliers[*body.ActivityLevel]; !ok {
			apiError(c, http.StatusBadRequest, "activity_level must be one of: sedentary, light, moderate, active, very_active")
			return
		}
	}

	profile := &userProfile{
		UserID:        userID,
		DietType:      body.DietType,
		WeightKG:      body.WeightKG,
		HeightCM:      body.HeightCM,
		Age:           body.Age,
		Gender:        body.Gender,
		ActivityLevel: body.ActivityLevel,
	}

	tpl := lookupDietTemplate(body.DietType)
	if body.GoalCalories != nil && body.GoalProteinG != nil && body.GoalCarbsG != nil && body.GoalFatG != nil {
		// Manual goals supplied by the client.
		profile.GoalCalories = *body.GoalCalories
		profile.GoalProteinG = *body.GoalProteinG
		profile.GoalCarbsG = *body.GoalCarbsG
		profile.GoalFatG = *body.GoalFatG
		profile.GoalFiberG = body.GoalFiberG
		profile.GoalSugarG = body.GoalSugarG
	} else if goals, ok := recommendedGoalsForProfile(profile); ok {
		// Derived from body metrics.
		applyGoals(profile, goals)
	} else {
		// No goals, no usable metrics: fall back to the template baselines.
		applyGoals(profile, macroGoals{
			Calories: tpl.BaselineCalories,
			ProteinG: tpl.BaselineProteinG,
			CarbsG:   tpl.BaselineCarbsG,
			FatG:     tpl.BaselineFatG,
			FiberG:   tpl.FiberMinimumG,
			SugarG:   tpl.SugarMaximumG,
		})
	}

	saved, err := h.tracker.profiles.Save(c.Request.Context(), profile)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save profile")
		return
	}

	c.JSON(http.StatusOK, saved)
}

// recalculateGoals rederives the profile's goals from its stored body metrics
// and diet template, then persists them.
// POST /api/profile/recalculate. 400 when metrics are missing or invalid.
func (h *Handler) recalculateGoals(c *gin.Context) {
	userID := c.GetInt("user_id")

	profile, err := h.tracker.profiles.FindByUserID(c.Request.Context(), userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	if profile == nil {
		needsSetup(c)
		return
	}

	goals, ok := recommendedGoalsForProfile(profile)
	if !ok {
		apiError(c, http.StatusBadRequest, "weight, height, age, gender, and activity_level are required to calculate goals")
		return
	}
	applyGoals(profile, goals)

	saved, err := h.tracker.profiles.Save(c.Request.Context(), profile)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save profile")
		return
	}

	c.JSON(http.StatusOK, saved)
}

// applyGoals copies a macroGoals value onto the profile's goal fields.
func applyGoals(p *userProfile, g macroGoals) {
	p.GoalCalories = g.Calories
	p.GoalProteinG = g.ProteinG
	p.GoalCarbsG = g.CarbsG
	p.GoalFatG = g.FatG
	p.GoalFiberG = g.FiberG
	p.GoalSugarG = g.SugarG
}
