package main

import (
	"fmt"
	"math"
)

// caloriesTolerancePercent is the fixed tolerance band for calories. Unlike
// the macro tolerances it does not vary by diet template.
const caloriesTolerancePercent = 20

// Overall compliance weights. Carbs weighted highest — carb adherence is the
// strongest signal of diet compliance across the supported templates.
// The four weights sum to 1.0.
const (
	weightCalories = 0.25
	weightProtein  = 0.25
	weightCarbs    = 0.30
	weightFat      = 0.20
)

// ketoLowFatFactor flags keto days where fat fell below 70% of goal, and
// fiberShortfallFactor flags fiber below 70% of the template minimum. Product
// tuning values carried over from the mobile app; keep in sync with clients.
const (
	ketoLowFatFactor     = 0.7
	fiberShortfallFactor = 0.7
)

// onTrackThreshold is the minimum overall compliance for a day to count as on
// track. A day with any flagged issue is off track regardless of score.
const onTrackThreshold = 0.7

// complianceResult is the scorer's output: per-macro scores in [0,1], a
// weighted overall score, and ordered human-readable issues/suggestions.
type complianceResult struct {
	IsOnTrack          bool     `json:"is_on_track"`
	CaloriesCompliance float64  `json:"calories_compliance"`
	ProteinCompliance  float64  `json:"protein_compliance"`
	CarbsCompliance    float64  `json:"carbs_compliance"`
	FatCompliance      float64  `json:"fat_compliance"`
	OverallCompliance  float64  `json:"overall_compliance"`
	Issues             []string `json:"issues"`
	Suggestions        []string `json:"suggestions"`
}

// macroCompliance scores one macro against its goal with a tolerance band
// (percent). Inside the band scores 1; outside, the score falls off linearly
// and is clamped to [0,1]. A zero goal scores 1 only for zero intake —
// never divides by zero.
func macroCompliance(actual, goal, tolerancePercent float64) float64 {
	if goal == 0 {
		if actual == 0 {
			return 1
		}
		return 0
	}

	ratio := actual / goal
	lower := 1 - tolerancePercent/100
	upper := 1 + tolerancePercent/100

	if ratio >= lower && ratio <= upper {
		return 1
	}
	if ratio < lower {
		return math.Max(0, ratio/lower)
	}
	return math.Max(0, 1-(ratio-upper)/upper)
}

// percentOver reports how far actual exceeds goal, as a whole percent.
func percentOver(actual, goal float64) int {
	return int(math.Round((actual/goal - 1) * 100))
}

// scoreCompliance compares one day's summed intake to the goals under the
// rules of the given diet template. Issue rules are evaluated in a fixed
// order and all that apply are appended — they are not mutually exclusive.
func scoreCompliance(actual macroActuals, goals macroGoals, tpl dietTemplate) complianceResult {
	r := complianceResult{
		CaloriesCompliance: macroCompliance(actual.Calories, goals.Calories, caloriesTolerancePercent),
		ProteinCompliance:  macroCompliance(actual.ProteinG, goals.ProteinG, tpl.ProteinTolerance),
		CarbsCompliance:    macroCompliance(actual.CarbsG, goals.CarbsG, tpl.CarbsTolerance),
		FatCompliance:      macroCompliance(actual.FatG, goals.FatG, tpl.FatTolerance),
		Issues:             []string{},
		Suggestions:        []string{},
	}

	// Carbs over the tolerance band. Keto gets ketosis-specific phrasing.
	if goals.CarbsG > 0 && actual.CarbsG > goals.CarbsG*(1+tpl.CarbsTolerance/100) {
		over := percentOver(actual.CarbsG, goals.CarbsG)
		if tpl.DietType == "keto" {
			r.Issues = append(r.Issues, fmt.Sprintf("Carbs are %d%% over your keto limit", over))
			r.Suggestions = append(r.Suggestions, "Cut back on carbs to stay in ketosis")
		} else {
			r.Issues = append(r.Issues, fmt.Sprintf("Carbs are %d%% over your daily goal", over))
			r.Suggestions = append(r.Suggestions, "Swap some carbs for vegetables or protein")
		}
	}

	// Protein under the tolerance band.
	if goals.ProteinG > 0 && actual.ProteinG < goals.ProteinG*(1-tpl.ProteinTolerance/100) {
		r.Issues = append(r.Issues, "Protein intake is below your daily goal")
		r.Suggestions = append(r.Suggestions, "Add a serving of lean protein to your next meal")
	}

	// Fat over the tolerance band. Keto is exempt — high fat is the point.
	if tpl.DietType != "keto" && goals.FatG > 0 && actual.FatG > goals.FatG*(1+tpl.FatTolerance/100) {
		r.Issues = append(r.Issues, fmt.Sprintf("Fat is %d%% over your daily goal", percentOver(actual.FatG, goals.FatG)))
		r.Suggestions = append(r.Suggestions, "Reduce oils and fatty meats")
	}

	// Keto only: fat too low to sustain ketosis.
	if tpl.DietType == "keto" && goals.FatG > 0 && actual.FatG < goals.FatG*ketoLowFatFactor {
		r.Issues = append(r.Issues, "Fat intake is low for a ketogenic diet")
		r.Suggestions = append(r.Suggestions, "Add healthy fats like avocado, olive oil, or nuts")
	}

	// Fiber shortfall — only when both the actual and the template minimum exist.
	if actual.FiberG != nil && tpl.FiberMinimumG != nil && *actual.FiberG < *tpl.FiberMinimumG*fiberShortfallFactor {
		r.Issues = append(r.Issues, "Fiber intake is well below the recommended minimum")
		r.Suggestions = append(r.Suggestions, "Add vegetables, legumes, or whole foods with more fiber")
	}

	// Sugar over the template maximum — only when both values exist.
	if actual.SugarG != nil && tpl.SugarMaximumG != nil && *actual.SugarG > *tpl.SugarMaximumG {
		r.Issues = append(r.Issues, fmt.Sprintf("Sugar exceeds the %.0fg limit for this diet", *tpl.SugarMaximumG))
		r.Suggestions = append(r.Suggestions, "Cut back on sweetened foods and drinks")
	}

	r.OverallCompliance = weightCalories*r.CaloriesCompliance +
		weightProtein*r.ProteinCompliance +
		weightCarbs*r.CarbsCompliance +
		weightFat*r.FatCompliance

	// Both conditions required: a high score with a flagged issue is still
	// off track.
	r.IsOnTrack = r.OverallCompliance >= onTrackThreshold && len(r.Issues) == 0

	return r
}
