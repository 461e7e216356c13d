package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler holds shared dependencies for all route handlers. The tracker owns
// the store interfaces; handlers never touch tables the tracker already wraps.
type Handler struct {
	db      *pgxpool.Pool
	tracker *progressTracker
}

// newHandler wires the pgx-backed stores into the progress tracker.
func newHandler(pool *pgxpool.Pool) *Handler {
	tracker := newProgressTracker(
		&pgProfileStore{pool: pool},
		&pgMealStore{pool: pool},
		&pgDailyProgressStore{pool: pool},
		&pgWeeklySummaryStore{pool: pool},
	)
	return &Handler{db: pool, tracker: tracker}
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// needsSetup returns the 404 shape clients branch on to route the user to
// profile setup.
func needsSetup(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Profile not set up", "needsSetup": true})
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn) because
// Neon closes idle connections after ~5 minutes.
func getDBPool() *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from Neon's server-side prepared statement cache after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("DB pool ready!")
	return pool
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)
	router.GET("/api/diet-templates", h.getDietTemplates)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/progress/today", h.getTodayProgress)
	api.GET("/progress/week", h.getWeekProgress)
	api.GET("/progress/monthly", h.getMonthlyProgress)
	api.GET("/progress/range", h.getProgressRange)
	api.GET("/meals", h.getMeals)
	api.POST("/meals", h.createMeal)
	api.PUT("/meals/:id", h.updateMeal)
	api.DELETE("/meals/:id", h.deleteMeal)
	api.GET("/profile", h.getProfile)
	api.PUT("/profile", h.putProfile)
	api.POST("/profile/recalculate", h.recalculateGoals)
	api.POST("/ketosis", h.checkKetosis)
}
