package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// todayProgressResponse is the shape of GET /api/progress/today: the freshly
// recomputed record plus what's left of the budget and next-meal tips.
type todayProgressResponse struct {
	Progress    dailyProgressRecord `json:"progress"`
	Remaining   remainingBudget     `json:"remaining"`
	Suggestions []string            `json:"suggestions"`
}

// getTodayProgress recomputes today's progress record and returns it with the
// remaining budget and suggestions.
// GET /api/progress/today.
func (h *Handler) getTodayProgress(c *gin.Context) {
	userID := c.GetInt("user_id")

	rec, err := h.tracker.updateDailyProgress(c.Request.Context(), userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update progress")
		return
	}
	if rec == nil {
		needsSetup(c)
		return
	}

	remaining := remainingBudgetFor(*rec)
	c.JSON(http.StatusOK, todayProgressResponse{
		Progress:  *rec,
		Remaining: remaining,
		Suggestions: nextMealSuggestions(
			rec.GoalCalories-float64(rec.TotalCalories),
			remaining.ProteinG, remaining.CarbsG, remaining.FatG,
			rec.DietType,
		),
	})
}

// getWeekProgress returns the weekly summary for the Mon–Sun week containing
// week_start (defaults to the current week).
// GET /api/progress/week?week_start=YYYY-MM-DD.
func (h *Handler) getWeekProgress(c *gin.Context) {
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

	weekStart := weekStartOf(h.tracker.now())
	if s := c.Query("week_start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid week_start, expected YYYY-MM-DD")
			return
		}
		weekStart = weekStartOf(t)
	}

	summary, err := h.tracker.calculateWeeklySummary(c.Request.Context(), userID, weekStart)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to compute weekly summary")
		return
	}
	if summary == nil {
		apiError(c, http.StatusNotFound, "no progress recorded for this week")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// getMonthlyProgress folds the recent weekly summaries into an overall
// compliance rate and trend tag. With no tracked weeks the summary is empty
// and stable rather than an error — a new user simply has no trend yet.
// GET /api/progress/monthly.
func (h *Handler) getMonthlyProgress(c *gin.Context) {
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

	summary, err := h.tracker.monthlySummaryFor(c.Request.Context(), userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to compute monthly summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// getProgressRange returns the stored daily records in [start, end].
// GET /api/progress/range?start=YYYY-MM-DD&end=YYYY-MM-DD. Both params required.
// Date validation lives here — the engine assumes validated input.
func (h *Handler) getProgressRange(c *gin.Context) {
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

	start := c.Query("start")
	end := c.Query("end")

	if start == "" || end == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return
	}
	startT, err := time.Parse("2006-01-02", start)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
		return
	}
	endT, err := time.Parse("2006-01-02", end)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return
	}
	if startT.After(endT) {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}

	records, err := h.tracker.getProgressRange(c.Request.Context(), userID, startT, endT)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch progress range")
		return
	}
	// Ensure empty array (not null) in JSON
	if records == nil {
		records = []dailyProgressRecord{}
	}

	c.JSON(http.StatusOK, records)
}

// checkKetosis classifies a blood ketone reading and, when carb totals are
// supplied, reports net carbs for keto accounting.
// POST /api/ketosis. Body: { "ketone_level": 1.4, "total_carbs_g"?, "fiber_g"? }.
func (h *Handler) checkKetosis(c *gin.Context) {
	var body struct {
		KetoneLevel *float64 `json:"ketone_level"`
		TotalCarbsG *float64 `json:"total_carbs_g"`
		FiberG      *float64 `json:"fiber_g"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.KetoneLevel == nil || *body.KetoneLevel < 0 {
		apiError(c, http.StatusBadRequest, "ketone_level must be a non-negative number")
		return
	}

	status := classifyKetosis(*body.KetoneLevel)
	resp := gin.H{"in_ketosis": status.InKetosis, "level": status.Level}
	if body.TotalCarbsG != nil {
		fiber := 0.0
		if body.FiberG != nil {
			fiber = *body.FiberG
		}
		resp["net_carbs_g"] = netCarbs(*body.TotalCarbsG, fiber)
	}

	c.JSON(http.StatusOK, resp)
}

// getDietTemplates lists the supported diet archetypes for the client's
// setup screen. Public — the setup flow runs before login completes.
// GET /api/diet-templates.
func (h *Handler) getDietTemplates(c *gin.Context) {
	// Fixed order — map iteration order would shuffle the setup screen.
	keys := []string{"balanced", "keto", "lowcarb", "paleo", "mediterranean", "vegan"}
	templates := make([]dietTemplate, 0, len(keys))
	for _, k := range keys {
		templates = append(templates, dietTemplates[k])
	}
	c.JSON(http.StatusOK, templates)
}
