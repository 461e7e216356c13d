package main

import "testing"

// TestLookupDietTemplate_KnownTypes verifies every catalog key resolves to a
// template whose DietType matches the key.
func TestLookupDietTemplate_KnownTypes(t *testing.T) {
	for _, dietType := range []string{"keto", "paleo", "vegan", "mediterranean", "lowcarb", "balanced"} {
		tpl := lookupDietTemplate(dietType)
		if tpl.DietType != dietType {
			t.Errorf("lookupDietTemplate(%q).DietType = %q", dietType, tpl.DietType)
		}
	}
}

// TestLookupDietTemplate_UnknownFallsBack verifies the silent fallback to
// balanced — an unrecognized diet type must never fail.
func TestLookupDietTemplate_UnknownFallsBack(t *testing.T) {
	for _, dietType := range []string{"carnivore", "", "KETO"} {
		tpl := lookupDietTemplate(dietType)
		if tpl.DietType != "balanced" {
			t.Errorf("lookupDietTemplate(%q).DietType = %q, want balanced", dietType, tpl.DietType)
		}
	}
}

// TestDietTemplates_RatiosSumTo100 verifies each archetype's macro ratios add
// up to a full split.
func TestDietTemplates_RatiosSumTo100(t *testing.T) {
	for key, tpl := range dietTemplates {
		sum := tpl.ProteinRatio + tpl.CarbsRatio + tpl.FatRatio
		if sum != 100 {
			t.Errorf("%s: ratio sum = %v, want 100", key, sum)
		}
		if tpl.ProteinRatio <= 0 || tpl.CarbsRatio <= 0 || tpl.FatRatio <= 0 {
			t.Errorf("%s: ratios must be positive, got %v/%v/%v", key, tpl.ProteinRatio, tpl.CarbsRatio, tpl.FatRatio)
		}
		if tpl.ProteinTolerance < 0 || tpl.CarbsTolerance < 0 || tpl.FatTolerance < 0 {
			t.Errorf("%s: tolerances must be non-negative", key)
		}
	}
}

// TestDietTemplates_KetoParameters pins the keto archetype's exact numbers.
// These are shared with the mobile clients and must not drift.
func TestDietTemplates_KetoParameters(t *testing.T) {
	keto := dietTemplates["keto"]
	if keto.ProteinRatio != 25 || keto.CarbsRatio != 5 || keto.FatRatio != 70 {
		t.Errorf("keto ratios = %v/%v/%v, want 25/5/70", keto.ProteinRatio, keto.CarbsRatio, keto.FatRatio)
	}
	if keto.BaselineCalories != 2000 || keto.BaselineProteinG != 125 || keto.BaselineCarbsG != 25 || keto.BaselineFatG != 156 {
		t.Errorf("keto baselines = %v/%v/%v/%v, want 2000/125/25/156",
			keto.BaselineCalories, keto.BaselineProteinG, keto.BaselineCarbsG, keto.BaselineFatG)
	}
	if keto.CarbsTolerance != 20 || keto.ProteinTolerance != 30 || keto.FatTolerance != 30 {
		t.Errorf("keto tolerances = %v/%v/%v, want 20/30/30",
			keto.CarbsTolerance, keto.ProteinTolerance, keto.FatTolerance)
	}
	if keto.FiberMinimumG == nil || *keto.FiberMinimumG != 20 {
		t.Errorf("keto fiber minimum = %v, want 20", keto.FiberMinimumG)
	}
	if keto.SugarMaximumG == nil || *keto.SugarMaximumG != 10 {
		t.Errorf("keto sugar maximum = %v, want 10", keto.SugarMaximumG)
	}
}
