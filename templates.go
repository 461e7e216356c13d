package main

// dietTemplate is one diet archetype: macro ratios, baseline reference targets,
// and per-macro tolerance bands (percent). FiberMinimumG / SugarMaximumG are
// nil when the archetype imposes no constraint.
type dietTemplate struct {
	DietType     string  `json:"diet_type"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	ProteinRatio float64 `json:"protein_ratio"`
	CarbsRatio   float64 `json:"carbs_ratio"`
	FatRatio     float64 `json:"fat_ratio"`

	BaselineCalories float64 `json:"baseline_calories"`
	BaselineProteinG float64 `json:"baseline_protein_g"`
	BaselineCarbsG   float64 `json:"baseline_carbs_g"`
	BaselineFatG     float64 `json:"baseline_fat_g"`

	ProteinTolerance float64 `json:"protein_tolerance"`
	CarbsTolerance   float64 `json:"carbs_tolerance"`
	FatTolerance     float64 `json:"fat_tolerance"`

	FiberMinimumG *float64 `json:"fiber_minimum_g,omitempty"`
	SugarMaximumG *float64 `json:"sugar_maximum_g,omitempty"`
}

// grams returns a *float64 for the optional template constraints.
func grams(g float64) *float64 { return &g }

// dietTemplates maps diet type keys to their archetype. This is the single
// source of truth for valid diet types — lookupDietTemplate falls back to
// "balanced" for anything not in this map. The numeric parameters are fixed
// product data shared with the mobile clients; do not retune them here.
var dietTemplates = map[string]dietTemplate{
	"keto": {
		DietType:     "keto",
		Name:         "Ketogenic",
		Description:  "Very low carb, high fat. Keeps the body in ketosis.",
		ProteinRatio: 25, CarbsRatio: 5, FatRatio: 70,
		BaselineCalories: 2000, BaselineProteinG: 125, BaselineCarbsG: 25, BaselineFatG: 156,
		ProteinTolerance: 30, CarbsTolerance: 20, FatTolerance: 30,
		FiberMinimumG: grams(20), SugarMaximumG: grams(10),
	},
	"paleo": {
		DietType:     "paleo",
		Name:         "Paleo",
		Description:  "Whole foods: meat, fish, vegetables, fruit. No grains or processed sugar.",
		ProteinRatio: 30, CarbsRatio: 40, FatRatio: 30,
		BaselineCalories: 2000, BaselineProteinG: 150, BaselineCarbsG: 200, BaselineFatG: 67,
		ProteinTolerance: 25, CarbsTolerance: 30, FatTolerance: 30,
		FiberMinimumG: grams(30), SugarMaximumG: grams(30),
	},
	"vegan": {
		DietType:     "vegan",
		Name:         "Vegan",
		Description:  "Plant-based only. Higher carb, moderate fat, plant protein.",
		ProteinRatio: 15, CarbsRatio: 55, FatRatio: 30,
		BaselineCalories: 2000, BaselineProteinG: 75, BaselineCarbsG: 275, BaselineFatG: 67,
		ProteinTolerance: 30, CarbsTolerance: 35, FatTolerance: 30,
		FiberMinimumG: grams(35), SugarMaximumG: grams(50),
	},
	"mediterranean": {
		DietType:     "mediterranean",
		Name:         "Mediterranean",
		Description:  "Olive oil, fish, whole grains, vegetables. Balanced and heart-friendly.",
		ProteinRatio: 20, CarbsRatio: 40, FatRatio: 40,
		BaselineCalories: 2000, BaselineProteinG: 100, BaselineCarbsG: 200, BaselineFatG: 89,
		ProteinTolerance: 30, CarbsTolerance: 30, FatTolerance: 30,
		FiberMinimumG: grams(30), SugarMaximumG: grams(40),
	},
	"lowcarb": {
		DietType:     "lowcarb",
		Name:         "Low Carb",
		Description:  "Reduced carbohydrate intake without full keto restriction.",
		ProteinRatio: 30, CarbsRatio: 20, FatRatio: 50,
		BaselineCalories: 2000, BaselineProteinG: 150, BaselineCarbsG: 100, BaselineFatG: 111,
		ProteinTolerance: 30, CarbsTolerance: 25, FatTolerance: 30,
		FiberMinimumG: grams(25), SugarMaximumG: grams(25),
	},
	"balanced": {
		DietType:     "balanced",
		Name:         "Balanced",
		Description:  "Standard macro split for general health. The default diet.",
		ProteinRatio: 20, CarbsRatio: 50, FatRatio: 30,
		BaselineCalories: 2000, BaselineProteinG: 100, BaselineCarbsG: 250, BaselineFatG: 67,
		ProteinTolerance: 35, CarbsTolerance: 35, FatTolerance: 35,
		FiberMinimumG: grams(25), SugarMaximumG: grams(50),
	},
}

// lookupDietTemplate returns the template for dietType, falling back to
// "balanced" for unrecognized keys. Never fails — an unknown diet type in a
// stored profile must not break progress computation.
func lookupDietTemplate(dietType string) dietTemplate {
	if tpl, ok := dietTemplates[dietType]; ok {
		return tpl
	}
	return dietTemplates["balanced"]
}
