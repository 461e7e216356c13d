package main

import "math"

// activityMultipliers maps activity level strings to their TDEE multiplier.
// This is the single source of truth for valid activity levels — also used for
// input validation in putProfile.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// defaultActivityMultiplier is used when the stored activity level is not in
// the map. Unknown levels degrade to "moderate" rather than failing — the same
// philosophy as the diet-type fallback.
const defaultActivityMultiplier = 1.55

// kcal-per-gram constants for the macro split. Fixed nutrition science, not
// configuration.
const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// calculateRecommendedGoals derives daily macro targets from body metrics and
// a diet template. BMR via Harris-Benedict, scaled by the activity multiplier
// to TDEE, then split across macros by the template's ratios.
// Returns ok=false for non-positive weight/height/age — negative goals are
// never produced, the caller keeps whatever goals are already stored.
func calculateRecommendedGoals(weightKG, heightCM float64, age int, gender, activityLevel string, tpl dietTemplate) (macroGoals, bool) {
	if weightKG <= 0 || heightCM <= 0 || age <= 0 {
		return macroGoals{}, false
	}

	// Harris-Benedict BMR: different coefficients for male vs female.
	var bmr float64
	if gender == "male" {
		bmr = 88.362 + 13.397*weightKG + 4.799*heightCM - 5.677*float64(age)
	} else {
		bmr = 447.593 + 9.247*weightKG + 3.098*heightCM - 4.330*float64(age)
	}

	mult, found := activityMultipliers[activityLevel]
	if !found {
		mult = defaultActivityMultiplier
	}
	tdee := math.Round(bmr * mult)

	goals := macroGoals{
		Calories: tdee,
		ProteinG: math.Round(tdee * tpl.ProteinRatio / 100 / kcalPerGramProtein),
		CarbsG:   math.Round(tdee * tpl.CarbsRatio / 100 / kcalPerGramCarbs),
		FatG:     math.Round(tdee * tpl.FatRatio / 100 / kcalPerGramFat),
	}

	// Fiber/sugar targets come straight from the template; nil means the
	// archetype imposes no constraint.
	goals.FiberG = tpl.FiberMinimumG
	goals.SugarG = tpl.SugarMaximumG

	return goals, true
}

// recommendedGoalsForProfile computes recommended goals from a profile's body
// metrics. Returns ok=false when any metric is missing or invalid.
func recommendedGoalsForProfile(p *userProfile) (macroGoals, bool) {
	if p.WeightKG == nil || p.HeightCM == nil || p.Age == nil ||
		p.Gender == nil || p.ActivityLevel == nil {
		return macroGoals{}, false
	}
	tpl := lookupDietTemplate(p.DietType)
	return calculateRecommendedGoals(*p.WeightKG, *p.HeightCM, *p.Age, *p.Gender, *p.ActivityLevel, tpl)
}
